package testutil

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alexanderramin/studysync/internal/domain"
	"github.com/alexanderramin/studysync/internal/vision"
)

// FakeDetector returns Faces (or Err) for every frame.
type FakeDetector struct {
	Faces []vision.Region
	Err   error
	Calls atomic.Int32
}

func (d *FakeDetector) Detect(ctx context.Context, _ image.Image) ([]vision.Region, error) {
	d.Calls.Add(1)
	if d.Err != nil {
		return nil, d.Err
	}
	return d.Faces, nil
}

// FakeClassifier returns Scores (or Err). A non-zero Delay blocks until it
// elapses or ctx is done.
type FakeClassifier struct {
	Scores []float64
	Err    error
	Delay  time.Duration
	Calls  atomic.Int32
}

func (c *FakeClassifier) Classify(ctx context.Context, _ vision.Tensor) ([]float64, error) {
	c.Calls.Add(1)
	if c.Delay > 0 {
		select {
		case <-time.After(c.Delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if c.Err != nil {
		return nil, c.Err
	}
	return c.Scores, nil
}

// ScoresFor returns a classifier vector over domain.EmotionLabels with e at p
// and every other label sharing the remainder.
func ScoresFor(e domain.Emotion, p float64) []float64 {
	scores := make([]float64, len(domain.EmotionLabels))
	rest := (1 - p) / float64(len(scores)-1)
	for i, label := range domain.EmotionLabels {
		if label == e {
			scores[i] = p
		} else {
			scores[i] = rest
		}
	}
	return scores
}

// NewTestAnalyzer wires an Analyzer over fakes that report one face and the
// given scores.
func NewTestAnalyzer(scores []float64) (*vision.Analyzer, *FakeDetector, *FakeClassifier) {
	det := &FakeDetector{Faces: []vision.Region{{X: 8, Y: 8, Width: 32, Height: 32}}}
	cls := &FakeClassifier{Scores: scores}
	return vision.NewAnalyzer(det, cls, vision.Options{}), det, cls
}

// PNGFrame encodes a w×h gradient image as PNG bytes.
func PNGFrame(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 255 / w), G: uint8(y * 255 / h), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding test frame: %v", err)
	}
	return buf.Bytes()
}
