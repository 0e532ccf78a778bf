// internal/catalog/loader.go
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	stderrors "storefinder/internal/common/errors"
)

// Load reads and validates the catalog artifact at path. Any failure here is
// fatal at startup; loading never happens on the per-query hot path.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, stderrors.NewCatalogLoadFailedError(path, err)
	}

	c, err := Parse(data)
	if err != nil {
		return nil, stderrors.NewCatalogLoadFailedError(path, err)
	}
	return c, nil
}

// Parse builds a Catalog from the raw artifact bytes.
func Parse(data []byte) (*Catalog, error) {
	schemaLoader := gojsonschema.NewStringLoader(artifactSchema)
	documentLoader := gojsonschema.NewBytesLoader(data)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return nil, fmt.Errorf("schema validation: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			msgs = append(msgs, desc.String())
		}
		return nil, fmt.Errorf("artifact does not match schema: %s", strings.Join(msgs, "; "))
	}

	var stores []Store
	if err := json.Unmarshal(data, &stores); err != nil {
		return nil, fmt.Errorf("unmarshal artifact: %w", err)
	}

	return New(stores)
}

// New builds a Catalog from already-decoded stores, enforcing the shared
// embedding dimensionality across the whole artifact.
func New(stores []Store) (*Catalog, error) {
	dimension := 0
	seen := make(map[string]bool)
	var categories []string

	for _, s := range stores {
		if !seen[s.Category] {
			seen[s.Category] = true
			categories = append(categories, s.Category)
		}

		for _, pe := range s.ProductEmbeddings {
			if len(pe.Embedding) == 0 {
				return nil, fmt.Errorf("store %d (%q): product %q has an empty embedding", s.ID, s.Name, pe.Product)
			}
			if dimension == 0 {
				dimension = len(pe.Embedding)
			} else if len(pe.Embedding) != dimension {
				return nil, fmt.Errorf("store %d (%q): product %q embedding has dimension %d, expected %d",
					s.ID, s.Name, pe.Product, len(pe.Embedding), dimension)
			}
		}
	}

	return &Catalog{
		stores:     stores,
		categories: categories,
		dimension:  dimension,
	}, nil
}
