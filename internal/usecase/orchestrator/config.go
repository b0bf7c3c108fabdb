package orchestrator

import (
	"fmt"

	"github.com/kailas-cloud/vecsearch/internal/domain"
	domindex "github.com/kailas-cloud/vecsearch/internal/domain/index"
	"github.com/kailas-cloud/vecsearch/internal/domain/search/request"
	"github.com/kailas-cloud/vecsearch/internal/usecase/index"
)

// Config is everything a Runner needs besides its collaborators.
type Config struct {
	Collection string

	IndexName  string
	VectorPath string
	Dimensions int
	Similarity domindex.Similarity
	Poll       index.PollPolicy

	Query         string
	NumCandidates int
	Limit         int
	TitleField    string
	PlotField     string
}

// Validate checks the run settings. Failures wrap domain.ErrConfiguration.
func (c Config) Validate() error {
	if _, err := c.definition(); err != nil {
		return err
	}
	if c.Limit < 0 {
		return fmt.Errorf("%w: search limit must be non-negative", domain.ErrConfiguration)
	}
	if c.NumCandidates < c.Limit {
		return fmt.Errorf("%w: numCandidates (%d) must be >= limit (%d)",
			domain.ErrConfiguration, c.NumCandidates, c.Limit)
	}
	if c.NumCandidates > request.MaxNumCandidates {
		return fmt.Errorf("%w: numCandidates too large (max %d)", domain.ErrConfiguration, request.MaxNumCandidates)
	}
	return nil
}

func (c Config) definition() (domindex.Definition, error) {
	def, err := domindex.NewDefinition(c.IndexName, c.VectorPath, c.Dimensions, c.Similarity)
	if err != nil {
		return domindex.Definition{}, fmt.Errorf("%w: index: %w", domain.ErrConfiguration, err)
	}
	return def, nil
}
