package azure

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pharmatally/internal/config"
	"pharmatally/internal/ocr"
)

const succeededPayload = `{
	"status": "succeeded",
	"analyzeResult": {
		"readResults": [{
			"page": 1,
			"lines": [
				{
					"text": "4AD- APRANAX 275 MG",
					"words": [
						{"text": "4AD-", "boundingBox": [10,100,50,100,50,120,10,120], "confidence": 0.98},
						{"text": "APRANAX", "boundingBox": [60,100,140,100,140,120,60,120], "confidence": 0.95}
					]
				},
				{"text": "second line", "words": []}
			]
		}]
	}
}`

// readServer serves the two-step Read API: POST analyze returning an
// operation URL, then GET polls answered from the poll handler.
func readServer(t *testing.T, analyze, poll http.HandlerFunc) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc(analyzePath, analyze)
	mux.HandleFunc("/operations/op-1", poll)
	return httptest.NewServer(mux)
}

func newTestReader(t *testing.T, endpoint string, maxRetries int) *Reader {
	t.Helper()
	r, err := NewReader(&config.OCRProviderConfig{
		Provider:   "azure",
		Endpoint:   endpoint,
		APIKey:     "test-key",
		MaxRetries: maxRetries,
	})
	require.NoError(t, err)
	return r
}

func TestNewReader_RequiresCredentials(t *testing.T) {
	_, err := NewReader(&config.OCRProviderConfig{Provider: "azure"})
	assert.ErrorIs(t, err, ocr.ErrProviderUnavailable)

	_, err = NewReader(&config.OCRProviderConfig{Provider: "azure", Endpoint: "https://x"})
	assert.ErrorIs(t, err, ocr.ErrProviderUnavailable)
}

func TestReader_RecognizeLayout(t *testing.T) {
	var srv *httptest.Server
	srv = readServer(t,
		func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "test-key", r.Header.Get("Ocp-Apim-Subscription-Key"))
			assert.Equal(t, "tr", r.URL.Query().Get("language"))
			w.Header().Set("Operation-Location", srv.URL+"/operations/op-1")
			w.WriteHeader(http.StatusAccepted)
		},
		func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(succeededPayload))
		})
	defer srv.Close()

	reader := newTestReader(t, srv.URL, 0)
	layout, err := reader.RecognizeLayout(context.Background(), []byte("img"))

	require.NoError(t, err)
	require.Len(t, layout.Words, 2)
	assert.Equal(t, "4AD-", layout.Words[0].Text)
	assert.Len(t, layout.Words[0].BoundingBox, 8)
	assert.InDelta(t, 0.95, layout.Words[1].Confidence, 1e-9)
	assert.Equal(t, "4AD- APRANAX 275 MG\nsecond line", layout.RawText)
}

func TestReader_RecognizeText(t *testing.T) {
	var srv *httptest.Server
	srv = readServer(t,
		func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Operation-Location", srv.URL+"/operations/op-1")
			w.WriteHeader(http.StatusAccepted)
		},
		func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(succeededPayload))
		})
	defer srv.Close()

	reader := newTestReader(t, srv.URL, 0)
	text, err := reader.RecognizeText(context.Background(), []byte("img"))

	require.NoError(t, err)
	assert.Equal(t, "4AD- APRANAX 275 MG\nsecond line", text)
}

func TestReader_BadRequestFailsWithoutRetry(t *testing.T) {
	var calls atomic.Int32
	srv := readServer(t,
		func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			http.Error(w, `{"error":{"code":"InvalidImage"}}`, http.StatusBadRequest)
		},
		func(w http.ResponseWriter, r *http.Request) {
			t.Error("poll must not be reached")
		})
	defer srv.Close()

	reader := newTestReader(t, srv.URL, 3)
	_, err := reader.RecognizeText(context.Background(), []byte("img"))

	require.Error(t, err)
	assert.False(t, ocr.IsRetryable(err))
	assert.Equal(t, int32(1), calls.Load())
}

func TestReader_ServerErrorIsRetried(t *testing.T) {
	var srv *httptest.Server
	var calls atomic.Int32
	srv = readServer(t,
		func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) == 1 {
				http.Error(w, "busy", http.StatusServiceUnavailable)
				return
			}
			w.Header().Set("Operation-Location", srv.URL+"/operations/op-1")
			w.WriteHeader(http.StatusAccepted)
		},
		func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(succeededPayload))
		})
	defer srv.Close()

	reader := newTestReader(t, srv.URL, 2)
	_, err := reader.RecognizeText(context.Background(), []byte("img"))

	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestReader_RetriesExhausted(t *testing.T) {
	var calls atomic.Int32
	srv := readServer(t,
		func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			http.Error(w, "busy", http.StatusServiceUnavailable)
		},
		func(w http.ResponseWriter, r *http.Request) {})
	defer srv.Close()

	reader := newTestReader(t, srv.URL, 1)
	_, err := reader.RecognizeText(context.Background(), []byte("img"))

	require.Error(t, err)
	assert.True(t, ocr.IsRetryable(err))
	assert.Equal(t, int32(2), calls.Load())
}

func TestReader_MissingOperationLocation(t *testing.T) {
	srv := readServer(t,
		func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusAccepted)
		},
		func(w http.ResponseWriter, r *http.Request) {})
	defer srv.Close()

	reader := newTestReader(t, srv.URL, 0)
	_, err := reader.RecognizeText(context.Background(), []byte("img"))

	require.Error(t, err)
	assert.False(t, ocr.IsRetryable(err))
	assert.Contains(t, err.Error(), "Operation-Location")
}

func TestReader_PollsUntilSucceeded(t *testing.T) {
	var srv *httptest.Server
	var polls atomic.Int32
	srv = readServer(t,
		func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Operation-Location", srv.URL+"/operations/op-1")
			w.WriteHeader(http.StatusAccepted)
		},
		func(w http.ResponseWriter, r *http.Request) {
			if polls.Add(1) == 1 {
				_ = json.NewEncoder(w).Encode(map[string]string{"status": "running"})
				return
			}
			_, _ = w.Write([]byte(succeededPayload))
		})
	defer srv.Close()

	reader := newTestReader(t, srv.URL, 0)
	_, err := reader.RecognizeText(context.Background(), []byte("img"))

	require.NoError(t, err)
	assert.Equal(t, int32(2), polls.Load())
}

func TestReader_FailedOperation(t *testing.T) {
	var srv *httptest.Server
	srv = readServer(t,
		func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Operation-Location", srv.URL+"/operations/op-1")
			w.WriteHeader(http.StatusAccepted)
		},
		func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]string{"status": "failed"})
		})
	defer srv.Close()

	reader := newTestReader(t, srv.URL, 0)
	_, err := reader.RecognizeText(context.Background(), []byte("img"))

	require.Error(t, err)
	var pe *ocr.ProviderError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "azure", pe.Provider)
}

func TestReader_CanceledContext(t *testing.T) {
	srv := readServer(t,
		func(w http.ResponseWriter, r *http.Request) {
			t.Error("analyze must not be reached")
		},
		func(w http.ResponseWriter, r *http.Request) {
			t.Error("poll must not be reached")
		})
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	reader := newTestReader(t, srv.URL, 0)
	_, err := reader.RecognizeText(ctx, []byte("img"))
	assert.ErrorIs(t, err, context.Canceled)
}
