package ocr

import (
	"fmt"

	"pharmatally/internal/config"
	"pharmatally/internal/port"
)

// ProviderFactory is a function that creates a TextRecognizer from a
// provider config. Layout-capable providers return a value that also
// implements port.LayoutRecognizer.
type ProviderFactory func(cfg *config.OCRProviderConfig) (port.TextRecognizer, error)

// registry of recognizer provider factories, populated explicitly via
// RegisterProvider at startup.
var providers = map[string]ProviderFactory{}

// RegisterProvider registers a recognizer provider factory by name.
func RegisterProvider(name string, factory ProviderFactory) {
	providers[name] = factory
}

// NewRecognizer creates a TextRecognizer from a provider config using the
// registered factory.
func NewRecognizer(cfg *config.OCRProviderConfig) (port.TextRecognizer, error) {
	factory, ok := providers[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("unknown ocr provider: %s", cfg.Provider)
	}
	return factory(cfg)
}
