package vision

import (
	"context"
	"fmt"

	"github.com/alexanderramin/studysync/internal/domain"
)

// DefaultInputSize is the classifier's square input edge in pixels.
const DefaultInputSize = 48

// Options configures an Analyzer. Zero values fall back to defaults.
type Options struct {
	Labels    []domain.Emotion
	InputSize int
}

// Analyzer runs one frame through detection and classification. Only the
// first detected face is classified.
type Analyzer struct {
	detector   FaceDetector
	classifier EmotionClassifier
	labels     []domain.Emotion
	inputSize  int
}

func NewAnalyzer(detector FaceDetector, classifier EmotionClassifier, opts Options) *Analyzer {
	a := &Analyzer{
		detector:   detector,
		classifier: classifier,
		labels:     opts.Labels,
		inputSize:  opts.InputSize,
	}
	if len(a.labels) == 0 {
		a.labels = domain.EmotionLabels
	}
	if a.inputSize <= 0 {
		a.inputSize = DefaultInputSize
	}
	return a
}

// Labels returns the label order the classifier output is zipped against.
func (a *Analyzer) Labels() []domain.Emotion {
	return a.labels
}

func (a *Analyzer) Analyze(ctx context.Context, data []byte) (domain.FrameResult, error) {
	img, err := Decode(data)
	if err != nil {
		return domain.FrameResult{}, err
	}

	faces, err := a.detector.Detect(ctx, img)
	if err != nil {
		return domain.FrameResult{}, fmt.Errorf("%w: %v", ErrDetector, err)
	}
	if len(faces) == 0 {
		return domain.Unfocused(), nil
	}

	tensor, err := Normalize(img, faces[0], a.inputSize)
	if err != nil {
		return domain.FrameResult{}, err
	}

	scores, err := a.classifier.Classify(ctx, tensor)
	if err != nil {
		return domain.FrameResult{}, fmt.Errorf("%w: %v", ErrClassifier, err)
	}
	if len(scores) != len(a.labels) {
		return domain.FrameResult{}, fmt.Errorf("%w: got %d scores for %d labels", ErrClassifier, len(scores), len(a.labels))
	}

	return domain.FrameResult{
		Focused:  true,
		Emotions: domain.NewEmotionDistribution(a.labels, scores),
	}, nil
}
