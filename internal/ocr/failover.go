package ocr

import (
	"context"
	"errors"
	"log"
	"sync"

	"pharmatally/internal/port"
)

// namedRecognizer pairs a recognizer with the provider name it was built
// from, for logging.
type namedRecognizer struct {
	name string
	rec  port.TextRecognizer
}

// FailoverRecognizer tries an ordered list of text recognizers and serves
// from the first one that succeeds. A provider that fails is demoted behind
// the others for subsequent calls, so a flapping primary does not pay its
// timeout on every request. Context cancellation stops the chain
// immediately instead of walking the remaining providers.
type FailoverRecognizer struct {
	mu    sync.Mutex
	chain []namedRecognizer
}

// NewFailoverRecognizer builds a failover chain in the given priority order.
func NewFailoverRecognizer() *FailoverRecognizer {
	return &FailoverRecognizer{}
}

// Add appends a recognizer to the end of the chain.
func (f *FailoverRecognizer) Add(name string, rec port.TextRecognizer) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.chain = append(f.chain, namedRecognizer{name: name, rec: rec})
}

// Len returns the number of recognizers in the chain.
func (f *FailoverRecognizer) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.chain)
}

// RecognizeText runs the chain until one provider returns text.
func (f *FailoverRecognizer) RecognizeText(ctx context.Context, image []byte) (string, error) {
	f.mu.Lock()
	chain := make([]namedRecognizer, len(f.chain))
	copy(chain, f.chain)
	f.mu.Unlock()

	if len(chain) == 0 {
		return "", ErrProviderUnavailable
	}

	var lastErr error
	for i, nr := range chain {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		text, err := nr.rec.RecognizeText(ctx, image)
		if err == nil {
			return text, nil
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return "", err
		}
		log.Printf("ocr.FailoverRecognizer: provider %s failed: %v", nr.name, err)
		lastErr = err
		if i == 0 && len(chain) > 1 {
			f.demote(nr.name)
		}
	}
	return "", lastErr
}

// demote moves the named provider to the back of the chain.
func (f *FailoverRecognizer) demote(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, nr := range f.chain {
		if nr.name == name {
			f.chain = append(append(f.chain[:i:i], f.chain[i+1:]...), nr)
			log.Printf("ocr.FailoverRecognizer: demoted provider %s", name)
			return
		}
	}
}
