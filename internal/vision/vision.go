// Package vision turns raw frame bytes into a FrameResult by way of an
// external face detector and emotion classifier.
package vision

import (
	"context"
	"errors"
	"image"
)

var (
	// ErrDecode indicates the frame bytes are not a readable image.
	ErrDecode = errors.New("image decode failed")

	// ErrDetector indicates the face detector failed.
	ErrDetector = errors.New("face detector failed")

	// ErrClassifier indicates the emotion classifier failed or returned a
	// vector that does not match the label list.
	ErrClassifier = errors.New("emotion classifier failed")

	// ErrInvalidRegion indicates the detector returned a face region that
	// does not overlap the image.
	ErrInvalidRegion = errors.New("face region outside image")
)

// Region is a face bounding box in image pixel coordinates.
type Region struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Rect converts the region into an image.Rectangle.
func (r Region) Rect() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

// Tensor is a dense NHWC float32 input for the classifier.
type Tensor struct {
	Shape [4]int    `json:"shape"`
	Data  []float32 `json:"data"`
}

// FaceDetector finds zero or more faces in an image, in any order.
type FaceDetector interface {
	Detect(ctx context.Context, img image.Image) ([]Region, error)
}

// EmotionClassifier scores a normalized face crop. The returned vector is
// aligned with the analyzer's label list.
type EmotionClassifier interface {
	Classify(ctx context.Context, face Tensor) ([]float64, error)
}
