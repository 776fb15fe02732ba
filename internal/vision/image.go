package vision

import (
	"bytes"
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	_ "golang.org/x/image/webp"
)

// Decode reads JPEG, PNG, GIF, BMP, TIFF or WebP bytes and applies EXIF
// orientation.
func Decode(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrDecode)
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return img, nil
}

// Normalize crops region out of img, converts it to a single grayscale
// channel, resizes it to size×size and scales values to [0,1]. The tensor
// has shape [1, size, size, 1].
func Normalize(img image.Image, region Region, size int) (Tensor, error) {
	bounds := img.Bounds()
	rect := region.Rect().Add(bounds.Min).Intersect(bounds)
	if rect.Empty() {
		return Tensor{}, fmt.Errorf("%w: %+v in %v", ErrInvalidRegion, region, bounds)
	}

	face := imaging.Crop(img, rect)
	gray := imaging.Grayscale(face)
	small := imaging.Resize(gray, size, size, imaging.Linear)

	data := make([]float32, 0, size*size)
	for y := 0; y < size; y++ {
		row := small.Pix[y*small.Stride : y*small.Stride+size*4]
		for x := 0; x < size; x++ {
			// Grayscale leaves R, G and B equal.
			data = append(data, float32(row[x*4])/255.0)
		}
	}

	return Tensor{Shape: [4]int{1, size, size, 1}, Data: data}, nil
}
