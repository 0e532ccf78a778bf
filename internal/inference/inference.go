// Package inference wraps the black-box classify and embed capabilities the
// scorer depends on. Backends are swappable as long as they keep the
// contract: multi-label classification with independent [0,1] scores, and
// mean-pooled L2-normalized embeddings.
package inference

import (
	"context"
	"errors"
)

var (
	ErrClassifyFailed    = errors.New("CLASSIFY_FAILED")
	ErrClassifyTimeout   = errors.New("CLASSIFY_TIMEOUT")
	ErrEmbedFailed       = errors.New("EMBED_FAILED")
	ErrEmbedTimeout      = errors.New("EMBED_TIMEOUT")
	ErrMalformedResponse = errors.New("MALFORMED_INFERENCE_RESPONSE")
	ErrInitFailed        = errors.New("INFERENCE_INIT_FAILED")
)

// Classifier scores each candidate label independently against the text.
// Scores are in [0,1] and are not required to sum to 1.
type Classifier interface {
	Classify(ctx context.Context, text string, labels []string) (map[string]float64, error)
}

// Embedder returns the semantic vector for a single text.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}
