// Package catalog holds the immutable, process-lifetime store catalog.
//
// The catalog is produced by the offline embedding job and loaded exactly
// once at startup. After loading it is read-only, so concurrent queries may
// read it without locking.
package catalog

// Location is a store's province/city pair.
type Location struct {
	Province string `json:"province"`
	City     string `json:"city"`
}

// ProductEmbedding pairs a product label with its precomputed vector.
type ProductEmbedding struct {
	Product   string    `json:"product"`
	Embedding []float64 `json:"embedding"`
}

// Store is a single catalog entry. Immutable after load.
type Store struct {
	ID                int                `json:"id"`
	Name              string             `json:"name"`
	Category          string             `json:"category"`
	Location          Location           `json:"location"`
	ProductEmbeddings []ProductEmbedding `json:"product_embeddings"`
	ProductTypes      []string           `json:"product_types"`
	Hours             string             `json:"hours"`
	Contact           string             `json:"contact"`
}

// Catalog is the loaded store set plus the derived category label set.
type Catalog struct {
	stores     []Store
	categories []string
	dimension  int
}

// Stores returns all catalog entries in artifact order.
func (c *Catalog) Stores() []Store {
	return c.stores
}

// Categories returns the distinct category labels across the catalog, in
// first-seen order. This is the classifier's candidate label set.
func (c *Catalog) Categories() []string {
	return c.categories
}

// Dimension returns the shared embedding dimensionality, or 0 when the
// catalog carries no embeddings at all.
func (c *Catalog) Dimension() int {
	return c.dimension
}

// Len returns the number of stores.
func (c *Catalog) Len() int {
	return len(c.stores)
}
