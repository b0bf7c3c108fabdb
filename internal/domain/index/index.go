package index

import (
	"fmt"
	"regexp"
)

var nameRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// Similarity is the vector similarity function of a search index.
type Similarity string

const (
	// Cosine similarity. The only metric the search step requests a score for.
	Cosine Similarity = "cosine"
	// Euclidean distance.
	Euclidean Similarity = "euclidean"
	// DotProduct similarity.
	DotProduct Similarity = "dotProduct"
)

// IsValid checks if the similarity is supported by the store.
func (s Similarity) IsValid() bool {
	return s == Cosine || s == Euclidean || s == DotProduct
}

// MaxDimensions is the upper bound on numDimensions accepted by the store.
const MaxDimensions = 8192

// Definition describes a vector search index (immutable value object).
type Definition struct {
	name       string
	path       string
	dimensions int
	similarity Similarity
}

// NewDefinition validates and creates a Definition.
// Name: ^[a-zA-Z0-9_-]+$, 1-64 chars. Path: non-empty. Dimensions: 1..MaxDimensions.
// An empty similarity defaults to Cosine.
func NewDefinition(name, path string, dimensions int, similarity Similarity) (Definition, error) {
	if name == "" {
		return Definition{}, fmt.Errorf("index name is required")
	}
	if len(name) > 64 {
		return Definition{}, fmt.Errorf("index name too long (max 64)")
	}
	if !nameRegex.MatchString(name) {
		return Definition{}, fmt.Errorf("index name must be alphanumeric with underscores and hyphens")
	}
	if path == "" {
		return Definition{}, fmt.Errorf("vector field path is required")
	}
	if dimensions <= 0 || dimensions > MaxDimensions {
		return Definition{}, fmt.Errorf("dimensions must be between 1 and %d, got %d", MaxDimensions, dimensions)
	}
	if similarity == "" {
		similarity = Cosine
	}
	if !similarity.IsValid() {
		return Definition{}, fmt.Errorf("invalid similarity: %q", similarity)
	}
	return Definition{name: name, path: path, dimensions: dimensions, similarity: similarity}, nil
}

// Name returns the index name.
func (d Definition) Name() string { return d.name }

// Path returns the document field holding the vectors.
func (d Definition) Path() string { return d.path }

// Dimensions returns the vector length.
func (d Definition) Dimensions() int { return d.dimensions }

// Similarity returns the similarity function.
func (d Definition) Similarity() Similarity { return d.similarity }
