package port

import "context"

// RecognizedWord is a single OCR token with its bounding polygon.
// BoundingBox holds the four corner points as x1,y1,x2,y2,x3,y3,x4,y4 in
// pixel coordinates of the submitted image.
type RecognizedWord struct {
	Text        string
	BoundingBox []float64
	Confidence  float64
}

// LayoutResult is the output of a layout-capable recognizer. RawText carries
// the full transcript in reading order; Words may be empty when the provider
// recognized text but produced no usable coordinates.
type LayoutResult struct {
	Words   []RecognizedWord
	RawText string
}

// TextRecognizer turns an image into a plain-text transcript.
type TextRecognizer interface {
	RecognizeText(ctx context.Context, image []byte) (string, error)
}

// LayoutRecognizer turns an image into coordinate-tagged tokens plus the raw
// transcript. Providers that cannot produce coordinates implement only
// TextRecognizer.
type LayoutRecognizer interface {
	TextRecognizer
	RecognizeLayout(ctx context.Context, image []byte) (*LayoutResult, error)
}
