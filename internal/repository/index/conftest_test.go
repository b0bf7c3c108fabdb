package index

import (
	"context"
	"testing"

	"github.com/kailas-cloud/vecsearch/internal/db"
	domindex "github.com/kailas-cloud/vecsearch/internal/domain/index"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	createFn func(ctx context.Context, def *db.SearchIndexDefinition) error
	listFn   func(ctx context.Context, name string) ([]db.SearchIndex, error)
	dropFn   func(ctx context.Context, name string) error
}

func (m *mockStore) CreateSearchIndex(ctx context.Context, def *db.SearchIndexDefinition) error {
	if m.createFn != nil {
		return m.createFn(ctx, def)
	}
	return nil
}

func (m *mockStore) ListSearchIndexes(ctx context.Context, name string) ([]db.SearchIndex, error) {
	if m.listFn != nil {
		return m.listFn(ctx, name)
	}
	return nil, nil
}

func (m *mockStore) DropSearchIndex(ctx context.Context, name string) error {
	if m.dropFn != nil {
		return m.dropFn(ctx, name)
	}
	return nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return New(ms), ms
}

func testDefinition(t *testing.T) domindex.Definition {
	t.Helper()
	def, err := domindex.NewDefinition("vector_index", "plot_embedding", 1536, domindex.Cosine)
	if err != nil {
		t.Fatalf("new definition: %v", err)
	}
	return def
}
