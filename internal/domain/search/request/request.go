package request

import (
	"fmt"

	"github.com/kailas-cloud/vecsearch/internal/domain"
)

// Search parameter limits.
const (
	// MaxNumCandidates is the largest candidate pool the store accepts.
	MaxNumCandidates  = 10000
	DefaultCandidates = 150
	DefaultLimit      = 5
)

// Request is a validated vector similarity query.
type Request struct {
	index         string
	path          string
	vector        []float32
	numCandidates int
	limit         int
}

// New validates search parameters against the index dimensions.
// Requires numCandidates >= limit >= 0 and len(vector) == dimensions.
// A vector of the wrong length is rejected, never truncated or padded.
func New(
	index, path string,
	vector []float32,
	numCandidates, limit, dimensions int,
) (Request, error) {
	if index == "" {
		return Request{}, fmt.Errorf("index name is required")
	}
	if path == "" {
		return Request{}, fmt.Errorf("vector field path is required")
	}
	if limit < 0 {
		return Request{}, fmt.Errorf("limit must be non-negative, got %d", limit)
	}
	if numCandidates < limit {
		return Request{}, fmt.Errorf("numCandidates (%d) must be >= limit (%d)", numCandidates, limit)
	}
	if numCandidates > MaxNumCandidates {
		return Request{}, fmt.Errorf("numCandidates too large (max %d)", MaxNumCandidates)
	}
	if len(vector) != dimensions {
		return Request{}, fmt.Errorf("%w: expected %d, got %d",
			domain.ErrVectorDimMismatch, dimensions, len(vector))
	}

	return Request{
		index:         index,
		path:          path,
		vector:        vector,
		numCandidates: numCandidates,
		limit:         limit,
	}, nil
}

// Index returns the vector search index name.
func (r *Request) Index() string { return r.index }

// Path returns the document field holding the vectors.
func (r *Request) Path() string { return r.path }

// Vector returns the query vector.
func (r *Request) Vector() []float32 { return r.vector }

// NumCandidates returns the approximate nearest neighbour pool size.
func (r *Request) NumCandidates() int { return r.numCandidates }

// Limit returns the maximum results to return.
func (r *Request) Limit() int { return r.limit }
