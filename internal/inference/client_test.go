package inference

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"storefinder/internal/common/config"
	"storefinder/internal/common/logger"
)

func testConfig(baseURL string) config.InferenceConfig {
	return config.InferenceConfig{
		BaseURL:         baseURL,
		ClassifyTimeout: 2000,
		EmbedTimeout:    2000,
		MaxRetries:      2,
	}
}

func TestClient_Classify_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/classify", r.URL.Path)

		var req map[string]interface{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "where can I buy sunscreen", req["text"])
		assert.Equal(t, true, req["multi_label"])

		json.NewEncoder(w).Encode(map[string]interface{}{
			"labels": []string{"pharmacy", "restaurant"},
			"scores": []float64{0.9, 0.05},
		})
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL), logger.NewTestLogger(t))
	scores, err := c.Classify(context.Background(), "where can I buy sunscreen", []string{"pharmacy", "restaurant"})

	assert.NoError(t, err)
	assert.Equal(t, map[string]float64{"pharmacy": 0.9, "restaurant": 0.05}, scores)
}

func TestClient_Classify_MalformedShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// More labels than scores.
		json.NewEncoder(w).Encode(map[string]interface{}{
			"labels": []string{"a", "b"},
			"scores": []float64{0.5},
		})
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL), logger.NewNoOpLogger())
	_, err := c.Classify(context.Background(), "q", []string{"a", "b"})

	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestClient_Classify_RetriesThenSucceeds(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"labels": []string{"a"},
			"scores": []float64{0.7},
		})
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL), logger.NewNoOpLogger())
	scores, err := c.Classify(context.Background(), "q", []string{"a"})

	assert.NoError(t, err)
	assert.Equal(t, 0.7, scores["a"])
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestClient_Classify_AllAttemptsFail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL), logger.NewNoOpLogger())
	_, err := c.Classify(context.Background(), "q", []string{"a"})

	assert.ErrorIs(t, err, ErrClassifyFailed)
}

func TestClient_Classify_ClientErrorNotRetried(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL), logger.NewNoOpLogger())
	_, err := c.Classify(context.Background(), "q", []string{"a"})

	assert.ErrorIs(t, err, ErrClassifyFailed)
	// A 4xx is deterministic; the retry budget must not be spent on it.
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestClient_Classify_RetryBudgetCappedByPolicy(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.MaxRetries = 10
	c := NewClient(cfg, logger.NewNoOpLogger())
	_, err := c.Classify(context.Background(), "q", []string{"a"})

	assert.ErrorIs(t, err, ErrClassifyFailed)
	// One initial attempt plus the policy's three retries for failed calls,
	// regardless of a larger configured budget.
	assert.Equal(t, int32(4), atomic.LoadInt32(&calls))
}

func TestClient_Classify_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.ClassifyTimeout = 50
	c := NewClient(cfg, logger.NewNoOpLogger())
	_, err := c.Classify(context.Background(), "q", []string{"a"})

	assert.ErrorIs(t, err, ErrClassifyTimeout)
}

func TestClient_Embed_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/embed", r.URL.Path)

		var req map[string]interface{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "mean", req["pooling"])
		assert.Equal(t, true, req["normalize"])

		json.NewEncoder(w).Encode(map[string]interface{}{
			"embedding": []float64{0.6, 0.8},
		})
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL), logger.NewTestLogger(t))
	vec, err := c.Embed(context.Background(), "sunscreen")

	assert.NoError(t, err)
	assert.Equal(t, []float64{0.6, 0.8}, vec)
}

func TestClient_Embed_RejectsBatchedResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Batched result for a single input violates the contract.
		json.NewEncoder(w).Encode(map[string]interface{}{
			"embedding": [][]float64{{0.6, 0.8}},
		})
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL), logger.NewNoOpLogger())
	_, err := c.Embed(context.Background(), "q")

	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestClient_Embed_RejectsEmptyVector(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"embedding": []float64{},
		})
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL), logger.NewNoOpLogger())
	_, err := c.Embed(context.Background(), "q")

	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestClient_Embed_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.EmbedTimeout = 50
	c := NewClient(cfg, logger.NewNoOpLogger())
	_, err := c.Embed(context.Background(), "q")

	assert.ErrorIs(t, err, ErrEmbedTimeout)
}

func TestClient_SendsAPIKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"embedding": []float64{1},
		})
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.APIKey = "secret"
	c := NewClient(cfg, logger.NewNoOpLogger())
	_, err := c.Embed(context.Background(), "q")

	assert.NoError(t, err)
}
