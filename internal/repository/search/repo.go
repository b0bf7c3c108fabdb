package search

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/vecsearch/internal/db"
	"github.com/kailas-cloud/vecsearch/internal/domain"
	"github.com/kailas-cloud/vecsearch/internal/domain/search/request"
	"github.com/kailas-cloud/vecsearch/internal/domain/search/result"
)

// Default document fields projected into results.
const (
	DefaultTitleField = "title"
	DefaultPlotField  = "plot"
)

const scoreField = "score"

// store is the consumer interface for search operations (ISP).
type store interface {
	VectorSearch(ctx context.Context, q *db.VectorQuery) (*db.SearchResult, error)
}

// Repo implements usecase/search.Repository.
type Repo struct {
	store      store
	titleField string
	plotField  string
}

// New creates a search repository projecting the default title and plot fields.
func New(s store) *Repo {
	return &Repo{store: s, titleField: DefaultTitleField, plotField: DefaultPlotField}
}

// WithFields overrides the projected document fields. Empty values keep the defaults.
func (r *Repo) WithFields(title, plot string) *Repo {
	if title != "" {
		r.titleField = title
	}
	if plot != "" {
		r.plotField = plot
	}
	return r
}

// Search runs an approximate nearest neighbour query and returns results in store order
// (descending score).
func (r *Repo) Search(ctx context.Context, req *request.Request) ([]result.Result, error) {
	q := &db.VectorQuery{
		IndexName:     req.Index(),
		Path:          req.Path(),
		Vector:        req.Vector(),
		NumCandidates: req.NumCandidates(),
		Limit:         req.Limit(),
		ReturnFields:  []string{r.titleField, r.plotField},
		ScoreField:    scoreField,
	}

	sr, err := r.store.VectorSearch(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("%w: vector search %s: %w", domain.ErrQuery, req.Index(), err)
	}

	results := make([]result.Result, 0, len(sr.Entries))
	for _, e := range sr.Entries {
		results = append(results, result.New(e.Fields[r.titleField], e.Fields[r.plotField], e.Score))
	}
	return results, nil
}
