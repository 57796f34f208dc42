package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// HTTP calls a remote inference service, typically the TF-IDF/SVM model
// served next to this process.
type HTTP struct {
	endpoint string
	apiKey   string
	http     *http.Client
}

var _ Classifier = (*HTTP)(nil)

type predictRequest struct {
	Message string `json:"message"`
}

type predictResponse struct {
	Label         string             `json:"label"`
	Confidence    *float64           `json:"confidence"`
	Probabilities map[string]float64 `json:"probabilities"`
}

// NewHTTP creates a client for the inference service at endpoint.
// timeout bounds each request; the caller's context may end it sooner.
func NewHTTP(endpoint, apiKey string, timeout time.Duration) *HTTP {
	return &HTTP{
		endpoint: strings.TrimRight(endpoint, "/"),
		apiKey:   apiKey,
		http:     &http.Client{Timeout: timeout},
	}
}

// Classify posts the message to {endpoint}/predict. When the response omits
// confidence it is taken from the probability of the predicted label.
func (c *HTTP) Classify(ctx context.Context, message string) (Result, error) {
	var resp predictResponse
	if err := c.post(ctx, "/predict", predictRequest{Message: message}, &resp); err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	if resp.Confidence != nil {
		return newResult(resp.Label, *resp.Confidence)
	}

	for label, p := range resp.Probabilities {
		if strings.EqualFold(label, resp.Label) {
			return newResult(resp.Label, p)
		}
	}

	return Result{}, fmt.Errorf("%w: response missing confidence", ErrUnavailable)
}

func (c *HTTP) post(ctx context.Context, path string, payload any, v any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}
