package ocr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pharmatally/internal/config"
	"pharmatally/internal/port"
	"pharmatally/mocks"
)

func TestNewRecognizer_UnknownProvider(t *testing.T) {
	_, err := NewRecognizer(&config.OCRProviderConfig{Provider: "does-not-exist"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown ocr provider")
}

func TestNewRecognizer_RegisteredFactory(t *testing.T) {
	rec := new(mocks.MockTextRecognizer)
	RegisterProvider("stub", func(cfg *config.OCRProviderConfig) (port.TextRecognizer, error) {
		return rec, nil
	})
	defer delete(providers, "stub")

	got, err := NewRecognizer(&config.OCRProviderConfig{Provider: "stub"})

	require.NoError(t, err)
	assert.Same(t, rec, got)
}
