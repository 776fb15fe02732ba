package vision

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/alexanderramin/studysync/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubDetector struct {
	regions []Region
	err     error
	calls   int
}

func (d *stubDetector) Detect(_ context.Context, _ image.Image) ([]Region, error) {
	d.calls++
	return d.regions, d.err
}

type stubClassifier struct {
	scores []float64
	err    error
	calls  int
	last   Tensor
}

func (c *stubClassifier) Classify(_ context.Context, face Tensor) ([]float64, error) {
	c.calls++
	c.last = face
	return c.scores, c.err
}

// pngFrame draws a w×h image whose left half is black and right half white.
func pngFrame(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.RGBA{A: 255}
			if x >= w/2 {
				c = color.RGBA{R: 255, G: 255, B: 255, A: 255}
			}
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

var neutralScores = []float64{0.01, 0.01, 0.02, 0.1, 0.06, 0.05, 0.75}

func TestAnalyze_NoFaceSkipsClassifier(t *testing.T) {
	det := &stubDetector{}
	cls := &stubClassifier{scores: neutralScores}
	a := NewAnalyzer(det, cls, Options{})

	res, err := a.Analyze(context.Background(), pngFrame(t, 64, 64))
	require.NoError(t, err)
	assert.False(t, res.Focused)
	assert.Empty(t, res.Emotions)
	assert.Equal(t, 1, det.calls)
	assert.Equal(t, 0, cls.calls, "classifier must not run without a face")
}

func TestAnalyze_FirstFaceClassified(t *testing.T) {
	det := &stubDetector{regions: []Region{
		{X: 0, Y: 0, Width: 32, Height: 32},  // black half
		{X: 32, Y: 0, Width: 32, Height: 32}, // white half
	}}
	cls := &stubClassifier{scores: neutralScores}
	a := NewAnalyzer(det, cls, Options{})

	res, err := a.Analyze(context.Background(), pngFrame(t, 64, 64))
	require.NoError(t, err)
	assert.True(t, res.Focused)
	require.Len(t, res.Emotions, 7)
	assert.Equal(t, 0.75, res.Emotions[domain.EmotionNeutral])
	assert.Equal(t, 0.01, res.Emotions[domain.EmotionAngry])

	require.Equal(t, 1, cls.calls)
	assert.Equal(t, [4]int{1, 48, 48, 1}, cls.last.Shape)
	require.Len(t, cls.last.Data, 48*48)
	for _, v := range cls.last.Data {
		assert.InDelta(t, 0.0, v, 1e-6, "only the first (black) region is classified")
	}
}

func TestAnalyze_DecodeError(t *testing.T) {
	det := &stubDetector{}
	a := NewAnalyzer(det, &stubClassifier{}, Options{})

	_, err := a.Analyze(context.Background(), []byte("not an image"))
	assert.ErrorIs(t, err, ErrDecode)
	assert.Equal(t, 0, det.calls)

	_, err = a.Analyze(context.Background(), nil)
	assert.ErrorIs(t, err, ErrDecode)
}

func TestAnalyze_DetectorError(t *testing.T) {
	a := NewAnalyzer(&stubDetector{err: errors.New("model crashed")}, &stubClassifier{}, Options{})

	_, err := a.Analyze(context.Background(), pngFrame(t, 16, 16))
	assert.ErrorIs(t, err, ErrDetector)
	assert.ErrorContains(t, err, "model crashed")
}

func TestAnalyze_ClassifierError(t *testing.T) {
	det := &stubDetector{regions: []Region{{X: 0, Y: 0, Width: 8, Height: 8}}}
	a := NewAnalyzer(det, &stubClassifier{err: errors.New("oom")}, Options{})

	_, err := a.Analyze(context.Background(), pngFrame(t, 16, 16))
	assert.ErrorIs(t, err, ErrClassifier)
}

func TestAnalyze_ClassifierVectorLengthMismatch(t *testing.T) {
	det := &stubDetector{regions: []Region{{X: 0, Y: 0, Width: 8, Height: 8}}}
	a := NewAnalyzer(det, &stubClassifier{scores: []float64{0.5, 0.5}}, Options{})

	_, err := a.Analyze(context.Background(), pngFrame(t, 16, 16))
	assert.ErrorIs(t, err, ErrClassifier)
	assert.ErrorContains(t, err, "got 2 scores for 7 labels")
}

func TestAnalyze_RegionOutsideImage(t *testing.T) {
	det := &stubDetector{regions: []Region{{X: 100, Y: 100, Width: 10, Height: 10}}}
	cls := &stubClassifier{scores: neutralScores}
	a := NewAnalyzer(det, cls, Options{})

	_, err := a.Analyze(context.Background(), pngFrame(t, 16, 16))
	assert.ErrorIs(t, err, ErrInvalidRegion)
	assert.Equal(t, 0, cls.calls)
}

func TestAnalyze_CustomLabelsAndSize(t *testing.T) {
	labels := []domain.Emotion{domain.EmotionHappy, domain.EmotionNeutral}
	det := &stubDetector{regions: []Region{{X: 0, Y: 0, Width: 16, Height: 16}}}
	cls := &stubClassifier{scores: []float64{0.9, 0.1}}
	a := NewAnalyzer(det, cls, Options{Labels: labels, InputSize: 24})

	res, err := a.Analyze(context.Background(), pngFrame(t, 16, 16))
	require.NoError(t, err)
	assert.Equal(t, domain.EmotionDistribution{domain.EmotionHappy: 0.9, domain.EmotionNeutral: 0.1}, res.Emotions)
	assert.Equal(t, [4]int{1, 24, 24, 1}, cls.last.Shape)
	assert.Equal(t, labels, a.Labels())
}

func TestNormalize_ClipsAndScales(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 10, 10))
	for i := range img.Pix {
		img.Pix[i] = 255
	}

	tensor, err := Normalize(img, Region{X: -5, Y: -5, Width: 8, Height: 8}, 4)
	require.NoError(t, err)
	require.Len(t, tensor.Data, 16)
	for _, v := range tensor.Data {
		assert.InDelta(t, 1.0, v, 1e-6)
	}
}

func TestDecode_JPEG(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 20, 10))
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))

	decoded, err := Decode(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, 20, decoded.Bounds().Dx())
	assert.Equal(t, 10, decoded.Bounds().Dy())
}
