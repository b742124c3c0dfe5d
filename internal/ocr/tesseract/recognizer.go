package tesseract

import (
	"context"
	"fmt"

	"github.com/otiai10/gosseract/v2"

	"pharmatally/internal/config"
	"pharmatally/internal/ocr"
)

const defaultLanguage = "tur"

// Recognizer implements port.TextRecognizer with a local Tesseract engine
// via gosseract. It is the offline fallback when the cloud provider is
// unreachable; it produces plain text only, no word geometry, so extraction
// built on it always runs in textual mode.
type Recognizer struct {
	language string
}

// NewRecognizer creates a Tesseract-based text recognizer.
func NewRecognizer(cfg *config.OCRProviderConfig) (*Recognizer, error) {
	language := cfg.Language
	if language == "" {
		language = defaultLanguage
	}
	return &Recognizer{language: language}, nil
}

// RecognizeText runs Tesseract over the image bytes. A gosseract client is
// not safe for concurrent use, so each call gets its own.
func (r *Recognizer) RecognizeText(ctx context.Context, image []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	client := gosseract.NewClient()
	defer func() { _ = client.Close() }()

	if err := client.SetLanguage(r.language); err != nil {
		return "", fmt.Errorf("%w: setting language %q: %v", ocr.ErrProviderUnavailable, r.language, err)
	}
	if err := client.SetImageFromBytes(image); err != nil {
		return "", fmt.Errorf("tesseract: setting image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("tesseract: extracting text: %w", err)
	}
	return text, nil
}
