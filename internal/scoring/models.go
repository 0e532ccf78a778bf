// internal/scoring/models.go
package scoring

import "storefinder/internal/catalog"

// ScoredStore annotates a catalog store with its transient composite score.
// It only exists during ranking and is discarded after assembly.
type ScoredStore struct {
	Store catalog.Store
	Score float64
}
