package search

import (
	"context"
	"testing"

	"github.com/kailas-cloud/vecsearch/internal/db"
	"github.com/kailas-cloud/vecsearch/internal/domain/search/request"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	vectorSearchFn func(ctx context.Context, q *db.VectorQuery) (*db.SearchResult, error)
}

func (m *mockStore) VectorSearch(ctx context.Context, q *db.VectorQuery) (*db.SearchResult, error) {
	if m.vectorSearchFn != nil {
		return m.vectorSearchFn(ctx, q)
	}
	return &db.SearchResult{}, nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return New(ms), ms
}

func testRequest(t *testing.T, numCandidates, limit int) *request.Request {
	t.Helper()
	req, err := request.New("vector_index", "plot_embedding", []float32{0.1, 0.2, 0.3}, numCandidates, limit, 3)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	return &req
}
