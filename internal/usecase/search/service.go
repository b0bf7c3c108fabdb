package search

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/vecsearch/internal/domain"
	"github.com/kailas-cloud/vecsearch/internal/domain/search/request"
	"github.com/kailas-cloud/vecsearch/internal/domain/search/result"
	"github.com/kailas-cloud/vecsearch/internal/metrics"
)

// Query is a text similarity query against one vector index.
type Query struct {
	Text          string
	Index         string
	Path          string
	Dimensions    int
	NumCandidates int
	Limit         int
}

// Service runs vector similarity queries.
type Service struct {
	repo   Repository
	embed  Embedder
	logger *zap.Logger
}

// New creates a search service.
func New(repo Repository, embed Embedder, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, embed: embed, logger: logger}
}

// SearchText embeds q.Text and runs the similarity query.
// Embedding failures keep their domain.ErrEmbedding kind; everything after wraps domain.ErrQuery.
func (s *Service) SearchText(ctx context.Context, q Query) ([]result.Result, error) {
	if q.Limit == 0 {
		return []result.Result{}, nil
	}

	emb, err := s.embed.Embed(ctx, q.Text)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	req, err := request.New(q.Index, q.Path, emb.Embedding, q.NumCandidates, q.Limit, q.Dimensions)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrQuery, err)
	}

	return s.Search(ctx, &req)
}

// Search executes a validated request. Results keep store order and are capped at the limit.
func (s *Service) Search(ctx context.Context, req *request.Request) ([]result.Result, error) {
	if req.Limit() == 0 {
		return []result.Result{}, nil
	}

	start := time.Now()
	results, err := s.repo.Search(ctx, req)
	duration := time.Since(start)

	if err != nil {
		metrics.SearchRequestsTotal.WithLabelValues("error").Inc()
		s.logger.Error("Vector search failed",
			zap.String("index", req.Index()),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		if !errors.Is(err, domain.ErrQuery) {
			err = fmt.Errorf("%w: %w", domain.ErrQuery, err)
		}
		return nil, fmt.Errorf("search: %w", err)
	}

	metrics.SearchRequestsTotal.WithLabelValues("success").Inc()
	metrics.SearchRequestDuration.Observe(duration.Seconds())

	if len(results) > req.Limit() {
		results = results[:req.Limit()]
	}

	s.logger.Debug("Vector search completed",
		zap.String("index", req.Index()),
		zap.Int("num_candidates", req.NumCandidates()),
		zap.Int("limit", req.Limit()),
		zap.Int("results", len(results)),
		zap.Duration("duration", duration),
	)

	return results, nil
}
