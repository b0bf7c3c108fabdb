package index

import (
	"context"

	domindex "github.com/kailas-cloud/vecsearch/internal/domain/index"
)

// Repository defines the storage contract for search indexes.
type Repository interface {
	Create(ctx context.Context, def domindex.Definition) error
	Get(ctx context.Context, name string) (domindex.Info, error)
	List(ctx context.Context) ([]domindex.Info, error)
	Drop(ctx context.Context, name string) error
}
