package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var registerOnce sync.Once

// Register registers all collectors with the default registry. Must be called from main
// (and from TestMain in packages asserting on the default registry); repeated calls are no-ops.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			EmbeddingRequestsTotal,
			EmbeddingRequestDuration,
			EmbeddingTokensTotal,
			EmbeddingErrorsTotal,
			EmbeddingCacheTotal,
			IndexPollsTotal,
			IndexBuildDuration,
			SearchRequestsTotal,
			SearchRequestDuration,
			httpRequestDuration,
			httpRequestsTotal,
		)
	})
}
