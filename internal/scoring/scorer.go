// internal/scoring/scorer.go
package scoring

import (
	"context"
	"time"

	"storefinder/internal/catalog"
	"storefinder/internal/inference"
	"storefinder/internal/vectormath"

	"storefinder/internal/common/logger"
)

// Scorer computes a composite relevance score for every catalog store.
//
// Per query it issues exactly one classification call over the catalog's
// category labels and exactly one embedding call for the query text, then
// combines them per store as categoryScore * (1 + bestProductSimilarity).
// The category score gates: an irrelevant category stays near zero no matter
// how well a product matches. The product similarity boosts within and
// across relevant categories by roughly x1 to x2.
type Scorer struct {
	catalog    *catalog.Catalog
	classifier inference.Classifier
	embedder   inference.Embedder
	logger     logger.Logger
}

func NewScorer(cat *catalog.Catalog, cl inference.Classifier, em inference.Embedder, log logger.Logger) *Scorer {
	return &Scorer{
		catalog:    cat,
		classifier: cl,
		embedder:   em,
		logger: log.With(map[string]interface{}{
			"component": "scorer",
		}),
	}
}

// Score returns one ScoredStore per catalog store, in catalog order. Any
// inference failure aborts the whole pass; there is no partial scoring.
func (s *Scorer) Score(ctx context.Context, query string) ([]ScoredStore, error) {
	start := time.Now()

	labels := s.catalog.Categories()

	categoryScores, err := s.classifier.Classify(ctx, query, labels)
	if err != nil {
		return nil, err
	}

	queryVector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, err
	}

	stores := s.catalog.Stores()
	scored := make([]ScoredStore, 0, len(stores))
	for _, store := range stores {
		// Missing label defaults to 0; never a failure.
		categoryScore := categoryScores[store.Category]

		best := 0.0
		for _, pe := range store.ProductEmbeddings {
			// A dimensionality mismatch yields similarity 0 for the
			// pair rather than failing the query.
			if sim := vectormath.CosineSimilarity(queryVector, pe.Embedding); sim > best {
				best = sim
			}
		}

		scored = append(scored, ScoredStore{
			Store: store,
			Score: categoryScore * (1 + best),
		})
	}

	s.logger.Info("scoring completed", map[string]interface{}{
		"storeCount": len(scored),
		"labelCount": len(labels),
		"durationMs": time.Since(start).Milliseconds(),
	})

	return scored, nil
}
