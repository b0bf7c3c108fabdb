package orchestrator

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/kailas-cloud/vecsearch/internal/db"
	"github.com/kailas-cloud/vecsearch/internal/domain"
	domindex "github.com/kailas-cloud/vecsearch/internal/domain/index"
	"github.com/kailas-cloud/vecsearch/internal/domain/search/result"
	"github.com/kailas-cloud/vecsearch/internal/usecase/index"
)

// mockConn implements Conn. The index exists once created; statuses are replayed per listing.
type mockConn struct {
	pingErr   error
	closeErr  error
	closes    int
	exists    bool
	statuses  []string
	creates   int
	createErr error
	listErr   error
	dropErr   error
	dropped   []string
	searchFn  func(ctx context.Context, q *db.VectorQuery) (*db.SearchResult, error)
	searches  int
}

func (m *mockConn) Ping(_ context.Context) error { return m.pingErr }

func (m *mockConn) Close(_ context.Context) error {
	m.closes++
	return m.closeErr
}

func (m *mockConn) CreateSearchIndex(_ context.Context, _ *db.SearchIndexDefinition) error {
	m.creates++
	if m.createErr != nil {
		return m.createErr
	}
	m.exists = true
	return nil
}

func (m *mockConn) ListSearchIndexes(_ context.Context, name string) ([]db.SearchIndex, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	if !m.exists {
		return []db.SearchIndex{}, nil
	}
	status := "READY"
	if len(m.statuses) > 0 {
		status = m.statuses[0]
		if len(m.statuses) > 1 {
			m.statuses = m.statuses[1:]
		}
	}
	entry := db.SearchIndex{Name: "vector_index", Type: "vectorSearch", Status: status}
	if name != "" && name != entry.Name {
		return []db.SearchIndex{}, nil
	}
	return []db.SearchIndex{entry}, nil
}

func (m *mockConn) DropSearchIndex(_ context.Context, name string) error {
	if m.dropErr != nil {
		return m.dropErr
	}
	m.dropped = append(m.dropped, name)
	return nil
}

func (m *mockConn) VectorSearch(ctx context.Context, q *db.VectorQuery) (*db.SearchResult, error) {
	m.searches++
	if m.searchFn != nil {
		return m.searchFn(ctx, q)
	}
	return &db.SearchResult{Entries: []db.SearchEntry{
		{Score: 0.95, Fields: map[string]string{"title": "The Shawshank Redemption", "plot": "Two imprisoned men bond."}},
		{Score: 0.90, Fields: map[string]string{"title": "Escape from Alcatraz", "plot": "A prisoner plans an escape."}},
	}}, nil
}

// mockDecider answers per step and records every question asked.
type mockDecider struct {
	answers map[string]bool
	asked   []string
}

func (m *mockDecider) Confirm(step, _ string) bool {
	m.asked = append(m.asked, step)
	return m.answers[step]
}

func (m *mockDecider) wasAsked(step string) bool {
	for _, s := range m.asked {
		if s == step {
			return true
		}
	}
	return false
}

// mockPrinter records lines as "LEVEL message".
type mockPrinter struct {
	lines   []string
	results []result.Result
	indexes []domindex.Info
}

func (m *mockPrinter) add(level, format string, args ...any) {
	m.lines = append(m.lines, level+" "+fmt.Sprintf(format, args...))
}

func (m *mockPrinter) Banner(text string) { m.add("BANNER", "%s", text) }
func (m *mockPrinter) Infof(format string, args ...any) { m.add("INFO", format, args...) }
func (m *mockPrinter) Actionf(format string, args ...any) { m.add("ACTION", format, args...) }
func (m *mockPrinter) Successf(format string, args ...any) { m.add("SUCCESS", format, args...) }
func (m *mockPrinter) Warnf(format string, args ...any) { m.add("WARN", format, args...) }
func (m *mockPrinter) Errorf(format string, args ...any) { m.add("ERROR", format, args...) }
func (m *mockPrinter) Fatalf(format string, args ...any) { m.add("FATAL", format, args...) }
func (m *mockPrinter) Results(results []result.Result) { m.results = results }

func (m *mockPrinter) Indexes(_ string, infos []domindex.Info) { m.indexes = infos }

func (m *mockPrinter) count(level string) int {
	n := 0
	for _, l := range m.lines {
		if len(l) > len(level) && l[:len(level)+1] == level+" " {
			n++
		}
	}
	return n
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

func testConfig() Config {
	return Config{
		Collection:    "embedded_movies",
		IndexName:     "vector_index",
		VectorPath:    "plot_embedding",
		Dimensions:    3,
		Similarity:    domindex.Cosine,
		Poll:          index.PollPolicy{Interval: time.Second, MaxAttempts: 10},
		Query:         "A tale of redemption and friendship in a prison.",
		NumCandidates: 150,
		Limit:         5,
	}
}

type fixture struct {
	conn    *mockConn
	dials   int
	decider *mockDecider
	printer *mockPrinter
	embed   *mockEmbedder
	waits   int
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return &fixture{
		conn:    &mockConn{},
		decider: &mockDecider{answers: map[string]bool{StepSearch: true, StepDrop: true}},
		printer: &mockPrinter{},
		embed:   &mockEmbedder{vector: []float32{0.1, 0.2, 0.3}},
	}
}

func (f *fixture) runner(cfg Config, dialErr error) *Runner {
	dial := func(_ context.Context) (Conn, error) {
		f.dials++
		if dialErr != nil {
			return nil, dialErr
		}
		return f.conn, nil
	}
	return New(cfg, dial, f.embed, f.decider, f.printer, nil).
		WithWait(func(_ context.Context, _ time.Duration) error {
			f.waits++
			return nil
		})
}
