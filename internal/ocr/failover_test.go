package ocr

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"pharmatally/mocks"
)

func TestFailoverRecognizer_FirstProviderServes(t *testing.T) {
	primary := new(mocks.MockTextRecognizer)
	primary.On("RecognizeText", mock.Anything, mock.Anything).Return("transcript", nil)
	backup := new(mocks.MockTextRecognizer)

	f := NewFailoverRecognizer()
	f.Add("primary", primary)
	f.Add("backup", backup)

	text, err := f.RecognizeText(context.Background(), []byte("img"))

	require.NoError(t, err)
	assert.Equal(t, "transcript", text)
	backup.AssertNotCalled(t, "RecognizeText", mock.Anything, mock.Anything)
}

func TestFailoverRecognizer_FallsThroughToBackup(t *testing.T) {
	primary := new(mocks.MockTextRecognizer)
	primary.On("RecognizeText", mock.Anything, mock.Anything).
		Return("", errors.New("service down"))
	backup := new(mocks.MockTextRecognizer)
	backup.On("RecognizeText", mock.Anything, mock.Anything).Return("from backup", nil)

	f := NewFailoverRecognizer()
	f.Add("primary", primary)
	f.Add("backup", backup)

	text, err := f.RecognizeText(context.Background(), []byte("img"))

	require.NoError(t, err)
	assert.Equal(t, "from backup", text)
}

func TestFailoverRecognizer_DemotesFailedPrimary(t *testing.T) {
	primary := new(mocks.MockTextRecognizer)
	primary.On("RecognizeText", mock.Anything, mock.Anything).
		Return("", errors.New("service down"))
	backup := new(mocks.MockTextRecognizer)
	backup.On("RecognizeText", mock.Anything, mock.Anything).Return("ok", nil)

	f := NewFailoverRecognizer()
	f.Add("primary", primary)
	f.Add("backup", backup)

	_, err := f.RecognizeText(context.Background(), []byte("img"))
	require.NoError(t, err)

	// after the demotion the healthy provider is consulted first
	_, err = f.RecognizeText(context.Background(), []byte("img"))
	require.NoError(t, err)

	primary.AssertNumberOfCalls(t, "RecognizeText", 1)
	backup.AssertNumberOfCalls(t, "RecognizeText", 2)
}

func TestFailoverRecognizer_EmptyChain(t *testing.T) {
	f := NewFailoverRecognizer()

	_, err := f.RecognizeText(context.Background(), []byte("img"))

	assert.ErrorIs(t, err, ErrProviderUnavailable)
}

func TestFailoverRecognizer_ContextCancellationStopsChain(t *testing.T) {
	primary := new(mocks.MockTextRecognizer)
	primary.On("RecognizeText", mock.Anything, mock.Anything).
		Return("", context.Canceled)
	backup := new(mocks.MockTextRecognizer)

	f := NewFailoverRecognizer()
	f.Add("primary", primary)
	f.Add("backup", backup)

	_, err := f.RecognizeText(context.Background(), []byte("img"))

	assert.ErrorIs(t, err, context.Canceled)
	backup.AssertNotCalled(t, "RecognizeText", mock.Anything, mock.Anything)
}

func TestFailoverRecognizer_AllFailReturnsLastError(t *testing.T) {
	first := new(mocks.MockTextRecognizer)
	first.On("RecognizeText", mock.Anything, mock.Anything).
		Return("", errors.New("first down"))
	second := new(mocks.MockTextRecognizer)
	secondErr := errors.New("second down")
	second.On("RecognizeText", mock.Anything, mock.Anything).Return("", secondErr)

	f := NewFailoverRecognizer()
	f.Add("first", first)
	f.Add("second", second)

	_, err := f.RecognizeText(context.Background(), []byte("img"))

	assert.ErrorIs(t, err, secondErr)
}

func TestProviderError_Retryable(t *testing.T) {
	assert.True(t, IsRetryable(NewNetworkError("azure", errors.New("dial tcp"))))
	assert.True(t, IsRetryable(NewResponseError("azure", 503, errors.New("busy"))))
	assert.False(t, IsRetryable(NewResponseError("azure", 400, errors.New("bad image"))))
	assert.False(t, IsRetryable(NewParseError("azure", errors.New("truncated json"))))
	assert.False(t, IsRetryable(errors.New("plain")))
	assert.False(t, IsRetryable(nil))
}

func TestProviderError_MessageAndUnwrap(t *testing.T) {
	cause := errors.New("busy")
	err := NewResponseError("azure", 503, cause)

	assert.Equal(t, "azure: status 503: busy", err.Error())
	assert.ErrorIs(t, err, cause)

	netErr := NewNetworkError("tesseract", cause)
	assert.Equal(t, "tesseract: busy", netErr.Error())
}
