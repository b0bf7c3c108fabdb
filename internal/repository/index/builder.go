package index

import (
	"fmt"

	"github.com/kailas-cloud/vecsearch/internal/db"
	domindex "github.com/kailas-cloud/vecsearch/internal/domain/index"
)

// buildIndex creates a SearchIndexDefinition with a single vector field from the domain definition.
func buildIndex(def domindex.Definition) (*db.SearchIndexDefinition, error) {
	var sim db.Similarity
	switch def.Similarity() {
	case domindex.Cosine:
		sim = db.SimilarityCosine
	case domindex.Euclidean:
		sim = db.SimilarityEuclidean
	case domindex.DotProduct:
		sim = db.SimilarityDotProduct
	default:
		return nil, fmt.Errorf("unknown similarity: %s", def.Similarity())
	}

	return db.NewVectorIndex(def.Name()).
		Vector(def.Path(), def.Dimensions(), sim).
		Build()
}
