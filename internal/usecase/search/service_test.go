package search

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/vecsearch/internal/domain"
	"github.com/kailas-cloud/vecsearch/internal/domain/search/request"
	"github.com/kailas-cloud/vecsearch/internal/domain/search/result"
	"github.com/kailas-cloud/vecsearch/internal/metrics"
)

func TestMain(m *testing.M) {
	metrics.Register()
	os.Exit(m.Run())
}

// --- Mocks ---

type mockRepo struct {
	results []result.Result
	err     error
	calls   int
	lastReq *request.Request
}

func (m *mockRepo) Search(_ context.Context, req *request.Request) ([]result.Result, error) {
	m.calls++
	m.lastReq = req
	return m.results, m.err
}

type mockEmbedder struct {
	vector []float32
	err    error
	calls  int
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	m.calls++
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	return domain.EmbeddingResult{Embedding: m.vector}, nil
}

func makeResults(n int) []result.Result {
	out := make([]result.Result, n)
	for i := range out {
		out[i] = result.New(fmt.Sprintf("Movie %d", i), "A plot about a prison escape.", 0.99-float64(i)*0.01)
	}
	return out
}

func testQuery() Query {
	return Query{
		Text:          "imaginary characters from outer space at war",
		Index:         "vector_index",
		Path:          "plot_embedding",
		Dimensions:    3,
		NumCandidates: 150,
		Limit:         5,
	}
}

// --- Tests ---

func TestSearchText_ResultContract(t *testing.T) {
	repo := &mockRepo{results: makeResults(5)}
	emb := &mockEmbedder{vector: []float32{0.1, 0.2, 0.3}}
	svc := New(repo, emb, zap.NewNop())

	results, err := svc.SearchText(context.Background(), testQuery())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) > 5 {
		t.Fatalf("expected at most 5 results, got %d", len(results))
	}
	for i, r := range results {
		if r.Title() == "" || r.PlotPreview(150) == "" {
			t.Errorf("result %d missing title or plot", i)
		}
		if i > 0 && r.Score() > results[i-1].Score() {
			t.Errorf("results not in descending score order at %d", i)
		}
	}
	if repo.lastReq.NumCandidates() != 150 || repo.lastReq.Limit() != 5 {
		t.Errorf("unexpected request: candidates=%d limit=%d",
			repo.lastReq.NumCandidates(), repo.lastReq.Limit())
	}
}

func TestSearch_TruncatesToLimit(t *testing.T) {
	repo := &mockRepo{results: makeResults(8)}
	svc := New(repo, &mockEmbedder{}, nil)

	req, err := request.New("vector_index", "plot_embedding", []float32{1}, 150, 5, 1)
	if err != nil {
		t.Fatalf("request.New: %v", err)
	}

	results, err := svc.Search(context.Background(), &req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 5 {
		t.Errorf("expected 5 results, got %d", len(results))
	}
}

func TestSearchText_ZeroLimitNoNetwork(t *testing.T) {
	repo := &mockRepo{}
	emb := &mockEmbedder{vector: []float32{0.1, 0.2, 0.3}}
	svc := New(repo, emb, nil)

	q := testQuery()
	q.Limit = 0
	results, err := svc.SearchText(context.Background(), q)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected empty results, got %d", len(results))
	}
	if emb.calls != 0 || repo.calls != 0 {
		t.Errorf("expected no calls, got embed=%d search=%d", emb.calls, repo.calls)
	}
}

func TestSearchText_DimensionMismatch(t *testing.T) {
	repo := &mockRepo{}
	emb := &mockEmbedder{vector: []float32{0.1, 0.2}}
	svc := New(repo, emb, nil)

	_, err := svc.SearchText(context.Background(), testQuery())
	if !errors.Is(err, domain.ErrVectorDimMismatch) {
		t.Fatalf("expected ErrVectorDimMismatch, got %v", err)
	}
	if !errors.Is(err, domain.ErrQuery) {
		t.Errorf("expected ErrQuery, got %v", err)
	}
	if repo.calls != 0 {
		t.Error("mismatched vector must never reach the store")
	}
}

func TestSearchText_EmbeddingError(t *testing.T) {
	repo := &mockRepo{}
	emb := &mockEmbedder{err: fmt.Errorf("%w: 401", domain.ErrEmbedding)}
	svc := New(repo, emb, nil)

	_, err := svc.SearchText(context.Background(), testQuery())
	if !errors.Is(err, domain.ErrEmbedding) {
		t.Fatalf("expected ErrEmbedding, got %v", err)
	}
	if errors.Is(err, domain.ErrQuery) {
		t.Error("embedding failure must not be reported as a query error")
	}
}

func TestSearch_StoreError(t *testing.T) {
	repo := &mockRepo{err: errors.New("index not found")}
	emb := &mockEmbedder{vector: []float32{0.1, 0.2, 0.3}}
	svc := New(repo, emb, nil)

	_, err := svc.SearchText(context.Background(), testQuery())
	if !errors.Is(err, domain.ErrQuery) {
		t.Fatalf("expected ErrQuery, got %v", err)
	}
}
