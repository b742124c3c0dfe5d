package imageprep

import (
	"bytes"
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	"pharmatally/internal/domain"
)

// Prepared holds the two artifacts derived from one uploaded photo. OCRBytes
// is the contrast-enhanced grayscale JPEG submitted to recognition. Color is
// the resized but otherwise untouched original at the same dimensions, so
// token bounding boxes from OCR index directly into it. Handwriting
// detection samples the red channel, which grayscale conversion destroys,
// hence the separate artifact.
type Prepared struct {
	OCRBytes []byte
	Color    image.Image
}

// Prepare decodes an uploaded photo and produces the OCR and color
// artifacts. Images larger than maxDim on either side are scaled down
// proportionally.
func Prepare(raw []byte, maxDim int) (*Prepared, error) {
	src, err := imaging.Decode(bytes.NewReader(raw), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrImageLoad, err)
	}

	color := resizeToFit(src, maxDim)

	enhanced := imaging.Grayscale(color)
	enhanced = imaging.AdjustContrast(enhanced, 30)
	enhanced = imaging.Sharpen(enhanced, 1.5)
	enhanced = imaging.AdjustBrightness(enhanced, 10)
	enhanced = imaging.AdjustGamma(enhanced, 1.2)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, enhanced, imaging.JPEG, imaging.JPEGQuality(92)); err != nil {
		return nil, fmt.Errorf("encoding prepared image: %w", err)
	}

	return &Prepared{OCRBytes: buf.Bytes(), Color: color}, nil
}

func resizeToFit(img image.Image, maxDim int) image.Image {
	if maxDim <= 0 {
		return img
	}
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= maxDim && height <= maxDim {
		return img
	}
	if width >= height {
		return imaging.Resize(img, maxDim, 0, imaging.Lanczos)
	}
	return imaging.Resize(img, 0, maxDim, imaging.Lanczos)
}
