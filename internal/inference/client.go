// internal/inference/client.go
package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"storefinder/internal/common/config"
	stderrors "storefinder/internal/common/errors"
	"storefinder/internal/common/logger"
	"storefinder/internal/common/metrics"
)

// Client calls an external inference server exposing the classify and embed
// endpoints over HTTP.
type Client struct {
	config config.InferenceConfig
	client *http.Client
	logger logger.Logger
}

func NewClient(cfg config.InferenceConfig, log logger.Logger) *Client {
	return &Client{
		config: cfg,
		client: &http.Client{},
		logger: log.With(map[string]interface{}{
			"component": "inference",
		}),
	}
}

func (c *Client) Classify(ctx context.Context, text string, labels []string) (map[string]float64, error) {
	start := time.Now()
	defer func() {
		metrics.InferenceCallDuration.WithLabelValues("classify").Observe(time.Since(start).Seconds())
	}()

	payload := map[string]interface{}{
		"text":   text,
		"labels": labels,
		// Independent per-label scores: a query may match several
		// categories at once.
		"multi_label": true,
	}

	body, err := c.postJSON(ctx, "/v1/classify", payload,
		config.GetDuration(c.config.ClassifyTimeout),
		ErrClassifyTimeout, ErrClassifyFailed, stderrors.ErrCodeClassifyFailed)
	if err != nil {
		return nil, err
	}

	var apiResponse struct {
		Labels []string  `json:"labels"`
		Scores []float64 `json:"scores"`
	}
	if err := json.Unmarshal(body, &apiResponse); err != nil {
		return nil, fmt.Errorf("%w: decode error: %v", ErrClassifyFailed, err)
	}

	if len(apiResponse.Labels) == 0 || len(apiResponse.Labels) != len(apiResponse.Scores) {
		return nil, fmt.Errorf("%w: classify returned %d labels and %d scores",
			ErrMalformedResponse, len(apiResponse.Labels), len(apiResponse.Scores))
	}

	scores := make(map[string]float64, len(apiResponse.Labels))
	for i, label := range apiResponse.Labels {
		scores[label] = apiResponse.Scores[i]
	}

	c.logger.Debug("classification completed", map[string]interface{}{
		"labelCount": len(scores),
		"durationMs": time.Since(start).Milliseconds(),
	})

	return scores, nil
}

func (c *Client) Embed(ctx context.Context, text string) ([]float64, error) {
	start := time.Now()
	defer func() {
		metrics.InferenceCallDuration.WithLabelValues("embed").Observe(time.Since(start).Seconds())
	}()

	payload := map[string]interface{}{
		"text": text,
		// Mean-pooled, L2-normalized sentence vector.
		"pooling":   "mean",
		"normalize": true,
	}

	body, err := c.postJSON(ctx, "/v1/embed", payload,
		config.GetDuration(c.config.EmbedTimeout),
		ErrEmbedTimeout, ErrEmbedFailed, stderrors.ErrCodeEmbedFailed)
	if err != nil {
		return nil, err
	}

	var apiResponse struct {
		Embedding json.RawMessage `json:"embedding"`
	}
	if err := json.Unmarshal(body, &apiResponse); err != nil {
		return nil, fmt.Errorf("%w: decode error: %v", ErrEmbedFailed, err)
	}

	var vector []float64
	if err := json.Unmarshal(apiResponse.Embedding, &vector); err != nil {
		// A batched result ([[...]]) for a single input is a contract
		// violation, not something to silently unwrap.
		return nil, fmt.Errorf("%w: embed returned a non-flat vector", ErrMalformedResponse)
	}
	if len(vector) == 0 {
		return nil, fmt.Errorf("%w: embed returned an empty vector", ErrMalformedResponse)
	}

	c.logger.Debug("embedding completed", map[string]interface{}{
		"dimension":  len(vector),
		"durationMs": time.Since(start).Milliseconds(),
	})

	return vector, nil
}

func (c *Client) postJSON(ctx context.Context, path string, payload interface{}, timeout time.Duration, timeoutErr, failErr error, failCode stderrors.ErrorCode) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	reqBody, _ := json.Marshal(payload)

	// The retry policy for the error class caps the configured budget.
	maxRetries := c.config.MaxRetries
	if policy := stderrors.GetRetryCount(failCode); policy < maxRetries {
		maxRetries = policy
	}

	var resp *http.Response
	var lastErr error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			// Exponential backoff between retries
			backoff := time.Duration(100*(1<<(attempt-1))) * time.Millisecond
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, timeoutErr
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+path, bytes.NewBuffer(reqBody))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", failErr, err)
		}
		req.Header.Set("Content-Type", "application/json")
		if c.config.APIKey != "" {
			req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
		}

		resp, lastErr = c.client.Do(req)

		// If the context expired during the request, report timeout immediately.
		if ctx.Err() != nil ||
			errors.Is(lastErr, context.DeadlineExceeded) ||
			errors.Is(lastErr, context.Canceled) {
			return nil, timeoutErr
		}

		if lastErr == nil {
			if resp.StatusCode == http.StatusOK {
				break
			}
			status := resp.StatusCode
			resp.Body.Close()
			resp = nil
			lastErr = fmt.Errorf("status %d", status)

			// Client errors are deterministic; retrying cannot help.
			if status >= 400 && status < 500 {
				return nil, fmt.Errorf("%w: %v", failErr, lastErr)
			}
		}
	}

	if lastErr != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, timeoutErr
		}
		return nil, fmt.Errorf("%w: %v", failErr, lastErr)
	}

	if resp == nil {
		return nil, fmt.Errorf("%w: no successful response after retries", failErr)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", failErr, err)
	}

	return body, nil
}
