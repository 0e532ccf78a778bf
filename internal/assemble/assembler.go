// Package assemble turns raw scored stores into the bounded, grouped result
// set the query service returns.
package assemble

import (
	"sort"

	"storefinder/internal/catalog"
	"storefinder/internal/common/config"
	"storefinder/internal/scoring"
)

// StoreGroup is the externally visible grouping unit: a category label with
// its ranked stores, scores stripped.
type StoreGroup struct {
	Category string          `json:"category"`
	Stores   []catalog.Store `json:"stores"`
}

// Assembler filters, sorts, caps and groups scored stores. The threshold and
// cap are empirically tuned constants surfaced through configuration.
type Assembler struct {
	threshold  float64
	maxResults int
}

func NewAssembler(cfg config.RankingConfig) *Assembler {
	return &Assembler{
		threshold:  cfg.ScoreThreshold,
		maxResults: cfg.MaxResults,
	}
}

// Assemble returns the grouped top results and whether the survivor list was
// truncated by the result cap. An empty result is a valid outcome, not an
// error.
func (a *Assembler) Assemble(scored []scoring.ScoredStore) ([]StoreGroup, bool) {
	survivors := make([]scoring.ScoredStore, 0, len(scored))
	for _, ss := range scored {
		if ss.Score > a.threshold {
			survivors = append(survivors, ss)
		}
	}

	// Stable sort: equal scores keep catalog order.
	sort.SliceStable(survivors, func(i, j int) bool {
		return survivors[i].Score > survivors[j].Score
	})

	truncated := len(survivors) > a.maxResults
	if truncated {
		survivors = survivors[:a.maxResults]
	}

	// Group in ranked order; a category's group is created on first
	// encounter, so group order is first-appearance order among the
	// capped results.
	var groups []StoreGroup
	index := make(map[string]int)
	for _, ss := range survivors {
		i, ok := index[ss.Store.Category]
		if !ok {
			i = len(groups)
			index[ss.Store.Category] = i
			groups = append(groups, StoreGroup{Category: ss.Store.Category})
		}
		groups[i].Stores = append(groups[i].Stores, ss.Store)
	}

	return groups, truncated
}
