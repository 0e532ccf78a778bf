// internal/inference/provider.go
package inference

import (
	"context"
	"fmt"
	"sync"

	"storefinder/internal/common/config"
	"storefinder/internal/common/logger"
)

// Provider lazily constructs the inference backends on first use and shares
// them for the rest of the process. Concurrent first callers join the same
// in-flight initialization rather than constructing duplicates. The cold
// first call is expected to be markedly slower than warm subsequent calls.
type Provider struct {
	newBackends func() (Classifier, Embedder, error)

	once       sync.Once
	classifier Classifier
	embedder   Embedder
	initErr    error
}

// NewProvider builds a Provider backed by the HTTP inference client. When
// cfg.Serialize is set, classify and embed calls share a single-slot mutex
// for backends that cannot run concurrent inference.
func NewProvider(cfg config.InferenceConfig, log logger.Logger) *Provider {
	return &Provider{
		newBackends: func() (Classifier, Embedder, error) {
			client := NewClient(cfg, log)
			var cl Classifier = client
			var em Embedder = client
			if cfg.Serialize {
				s := &serialized{classifier: cl, embedder: em}
				cl, em = s, s
			}
			return cl, em, nil
		},
	}
}

// NewProviderWithFactory builds a Provider around a custom backend factory.
// Used by tests and by hosts that embed their own inference engine.
func NewProviderWithFactory(factory func() (Classifier, Embedder, error)) *Provider {
	return &Provider{newBackends: factory}
}

func (p *Provider) ensure() error {
	p.once.Do(func() {
		p.classifier, p.embedder, p.initErr = p.newBackends()
	})
	if p.initErr != nil {
		return fmt.Errorf("%w: %v", ErrInitFailed, p.initErr)
	}
	return nil
}

func (p *Provider) Classify(ctx context.Context, text string, labels []string) (map[string]float64, error) {
	if err := p.ensure(); err != nil {
		return nil, err
	}
	return p.classifier.Classify(ctx, text, labels)
}

func (p *Provider) Embed(ctx context.Context, text string) ([]float64, error) {
	if err := p.ensure(); err != nil {
		return nil, err
	}
	return p.embedder.Embed(ctx, text)
}

// serialized funnels all inference calls through one mutex. Catalog reads
// never go through here; only the backend calls are serialized.
type serialized struct {
	mu         sync.Mutex
	classifier Classifier
	embedder   Embedder
}

func (s *serialized) Classify(ctx context.Context, text string, labels []string) (map[string]float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.classifier.Classify(ctx, text, labels)
}

func (s *serialized) Embed(ctx context.Context, text string) ([]float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.embedder.Embed(ctx, text)
}
