package azure

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"pharmatally/internal/config"
	"pharmatally/internal/ocr"
	"pharmatally/internal/port"
)

const (
	providerName = "azure"
	analyzePath  = "/vision/v3.2/read/analyze"

	defaultLanguage = "tr"
	pollInterval    = time.Second
	maxPolls        = 30
)

// Reader implements port.LayoutRecognizer using the Azure Computer Vision
// Read API (v3.2). Recognition is asynchronous on the Azure side: the
// analyze call returns an operation URL that is polled until the result is
// ready.
type Reader struct {
	endpoint   string
	apiKey     string
	language   string
	maxRetries int
	client     *http.Client
}

// NewReader creates an Azure Read recognizer from a provider config.
func NewReader(cfg *config.OCRProviderConfig) (*Reader, error) {
	if cfg.Endpoint == "" || cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: azure endpoint and api key required", ocr.ErrProviderUnavailable)
	}
	language := cfg.Language
	if language == "" {
		language = defaultLanguage
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	return &Reader{
		endpoint:   strings.TrimRight(cfg.Endpoint, "/"),
		apiKey:     cfg.APIKey,
		language:   language,
		maxRetries: cfg.MaxRetries,
		client:     &http.Client{Timeout: timeout},
	}, nil
}

// RecognizeText returns the recognized page text, one line per row.
func (r *Reader) RecognizeText(ctx context.Context, image []byte) (string, error) {
	result, err := r.analyze(ctx, image)
	if err != nil {
		return "", err
	}
	var lines []string
	for _, page := range result.AnalyzeResult.ReadResults {
		for _, line := range page.Lines {
			lines = append(lines, line.Text)
		}
	}
	return strings.Join(lines, "\n"), nil
}

// RecognizeLayout returns every recognized word with its bounding polygon,
// plus the raw page text for callers that need both from one round trip.
func (r *Reader) RecognizeLayout(ctx context.Context, image []byte) (*port.LayoutResult, error) {
	result, err := r.analyze(ctx, image)
	if err != nil {
		return nil, err
	}
	layout := &port.LayoutResult{}
	var lines []string
	for _, page := range result.AnalyzeResult.ReadResults {
		for _, line := range page.Lines {
			lines = append(lines, line.Text)
			for _, word := range line.Words {
				layout.Words = append(layout.Words, port.RecognizedWord{
					Text:        word.Text,
					BoundingBox: word.BoundingBox,
					Confidence:  word.Confidence,
				})
			}
		}
	}
	layout.RawText = strings.Join(lines, "\n")
	return layout, nil
}

// readResult models the Read operation result payload.
type readResult struct {
	Status        string `json:"status"`
	AnalyzeResult struct {
		ReadResults []struct {
			Page  int `json:"page"`
			Lines []struct {
				Text  string `json:"text"`
				Words []struct {
					Text        string    `json:"text"`
					BoundingBox []float64 `json:"boundingBox"`
					Confidence  float64   `json:"confidence"`
				} `json:"words"`
			} `json:"lines"`
		} `json:"readResults"`
	} `json:"analyzeResult"`
}

func (r *Reader) analyze(ctx context.Context, image []byte) (*readResult, error) {
	operationURL, err := r.submit(ctx, image)
	if err != nil {
		return nil, err
	}
	return r.poll(ctx, operationURL)
}

// submit posts the image and returns the operation URL to poll. Transient
// failures (network errors and 5xx responses) are retried with a linear
// backoff up to maxRetries; 4xx responses fail immediately.
func (r *Reader) submit(ctx context.Context, image []byte) (string, error) {
	url := fmt.Sprintf("%s%s?language=%s", r.endpoint, analyzePath, r.language)

	var lastErr error
	for attempt := 0; attempt <= r.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(time.Duration(attempt) * time.Second):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(image))
		if err != nil {
			return "", fmt.Errorf("creating request: %w", err)
		}
		req.Header.Set("Content-Type", "application/octet-stream")
		req.Header.Set("Ocp-Apim-Subscription-Key", r.apiKey)

		resp, err := r.client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			lastErr = ocr.NewNetworkError(providerName, err)
			continue
		}
		body, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if readErr != nil {
			lastErr = ocr.NewNetworkError(providerName, readErr)
			continue
		}

		if resp.StatusCode == http.StatusAccepted {
			operationURL := resp.Header.Get("Operation-Location")
			if operationURL == "" {
				return "", ocr.NewParseError(providerName, fmt.Errorf("accepted response missing Operation-Location header"))
			}
			return operationURL, nil
		}

		respErr := ocr.NewResponseError(providerName, resp.StatusCode,
			fmt.Errorf("analyze rejected: %s", truncate(string(body), 300)))
		if !respErr.Retryable {
			return "", respErr
		}
		lastErr = respErr
	}
	return "", lastErr
}

// poll fetches the operation result until Azure reports a terminal status.
func (r *Reader) poll(ctx context.Context, operationURL string) (*readResult, error) {
	for i := 0; i < maxPolls; i++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(pollInterval):
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, operationURL, nil)
		if err != nil {
			return nil, fmt.Errorf("creating poll request: %w", err)
		}
		req.Header.Set("Ocp-Apim-Subscription-Key", r.apiKey)

		resp, err := r.client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, ocr.NewNetworkError(providerName, err)
		}
		body, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if readErr != nil {
			return nil, ocr.NewNetworkError(providerName, readErr)
		}
		if resp.StatusCode != http.StatusOK {
			return nil, ocr.NewResponseError(providerName, resp.StatusCode,
				fmt.Errorf("poll rejected: %s", truncate(string(body), 300)))
		}

		var result readResult
		if err := json.Unmarshal(body, &result); err != nil {
			return nil, ocr.NewParseError(providerName, err)
		}
		switch result.Status {
		case "succeeded":
			return &result, nil
		case "failed":
			return nil, ocr.NewResponseError(providerName, resp.StatusCode,
				fmt.Errorf("read operation failed"))
		}
		// "notStarted" and "running" keep polling
	}
	return nil, ocr.NewNetworkError(providerName, fmt.Errorf("read operation did not complete after %d polls", maxPolls))
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
