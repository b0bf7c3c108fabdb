package search

import (
	"context"

	"github.com/kailas-cloud/vecsearch/internal/domain"
	"github.com/kailas-cloud/vecsearch/internal/domain/search/request"
	"github.com/kailas-cloud/vecsearch/internal/domain/search/result"
)

// Repository defines the storage contract for vector search.
type Repository interface {
	Search(ctx context.Context, req *request.Request) ([]result.Result, error)
}

// Embedder converts query text into a vector.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
