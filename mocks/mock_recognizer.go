package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"pharmatally/internal/port"
)

// MockTextRecognizer is a mock implementation of port.TextRecognizer.
type MockTextRecognizer struct {
	mock.Mock
}

func (m *MockTextRecognizer) RecognizeText(ctx context.Context, image []byte) (string, error) {
	args := m.Called(ctx, image)
	return args.String(0), args.Error(1)
}

// MockLayoutRecognizer is a mock implementation of port.LayoutRecognizer.
type MockLayoutRecognizer struct {
	mock.Mock
}

func (m *MockLayoutRecognizer) RecognizeText(ctx context.Context, image []byte) (string, error) {
	args := m.Called(ctx, image)
	return args.String(0), args.Error(1)
}

func (m *MockLayoutRecognizer) RecognizeLayout(ctx context.Context, image []byte) (*port.LayoutResult, error) {
	args := m.Called(ctx, image)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.LayoutResult), args.Error(1)
}
