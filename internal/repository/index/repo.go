package index

import (
	"context"
	"errors"
	"fmt"

	"github.com/kailas-cloud/vecsearch/internal/db"
	"github.com/kailas-cloud/vecsearch/internal/domain"
	domindex "github.com/kailas-cloud/vecsearch/internal/domain/index"
)

// store is the consumer interface for search index management (ISP).
type store interface {
	CreateSearchIndex(ctx context.Context, def *db.SearchIndexDefinition) error
	ListSearchIndexes(ctx context.Context, name string) ([]db.SearchIndex, error)
	DropSearchIndex(ctx context.Context, name string) error
}

// Repo implements usecase/index.Repository.
type Repo struct {
	store store
}

// New creates an index repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Create submits a vector search index definition.
// A concurrent or earlier creation of the same name yields domain.ErrAlreadyExists.
func (r *Repo) Create(ctx context.Context, def domindex.Definition) error {
	sdef, err := buildIndex(def)
	if err != nil {
		return fmt.Errorf("%w: build index %s: %w", domain.ErrIndex, def.Name(), err)
	}

	if err := r.store.CreateSearchIndex(ctx, sdef); err != nil {
		if errors.Is(err, db.ErrIndexExists) {
			return fmt.Errorf("create index %s: %w", def.Name(), domain.ErrAlreadyExists)
		}
		return fmt.Errorf("%w: create index %s: %w", domain.ErrIndex, def.Name(), err)
	}
	return nil
}

// Get returns the listing entry for one index, or domain.ErrNotFound when the store
// does not report it.
func (r *Repo) Get(ctx context.Context, name string) (domindex.Info, error) {
	entries, err := r.store.ListSearchIndexes(ctx, name)
	if err != nil {
		return domindex.Info{}, fmt.Errorf("%w: list index %s: %w", domain.ErrIndex, name, err)
	}
	for _, e := range entries {
		if e.Name == name {
			return toInfo(e), nil
		}
	}
	return domindex.Info{}, domain.ErrNotFound
}

// List returns every search index on the collection in store order.
func (r *Repo) List(ctx context.Context) ([]domindex.Info, error) {
	entries, err := r.store.ListSearchIndexes(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("%w: list indexes: %w", domain.ErrIndex, err)
	}

	infos := make([]domindex.Info, 0, len(entries))
	for _, e := range entries {
		infos = append(infos, toInfo(e))
	}
	return infos, nil
}

// Drop removes a search index by name.
func (r *Repo) Drop(ctx context.Context, name string) error {
	if err := r.store.DropSearchIndex(ctx, name); err != nil {
		if errors.Is(err, db.ErrIndexNotFound) {
			return fmt.Errorf("%w: drop index %s: %w", domain.ErrIndex, name, domain.ErrNotFound)
		}
		return fmt.Errorf("%w: drop index %s: %w", domain.ErrIndex, name, err)
	}
	return nil
}

func toInfo(e db.SearchIndex) domindex.Info {
	return domindex.Info{
		Name:      e.Name,
		Type:      e.Type,
		Status:    domindex.ParseStatus(e.Status),
		RawStatus: e.Status,
		Queryable: e.Queryable,
	}
}
