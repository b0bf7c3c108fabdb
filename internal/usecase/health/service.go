package health

import (
	"context"
	"sync"
	"time"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates every configured dependency answered.
	Healthy Status = "ok"
	// Degraded indicates some dependencies failed.
	Degraded Status = "degraded"
	// Unhealthy indicates every configured dependency failed.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing or timed out health check.
	CheckError CheckResult = "error"
)

// DefaultCheckTimeout bounds each dependency probe.
const DefaultCheckTimeout = 3 * time.Second

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

type probe func(ctx context.Context) error

// Service probes the optional run dependencies: embedding cache and embedding provider.
// The document store is not probed here because every run dials its own connection.
type Service struct {
	probes  map[string]probe
	timeout time.Duration
}

// New creates a Service. Both checkers can be nil; a nil checker is omitted from the report.
func New(cache CachePinger, embedding EmbeddingChecker) *Service {
	probes := make(map[string]probe, 2)
	if cache != nil {
		probes["cache"] = cache.Ping
	}
	if embedding != nil {
		probes["embedding"] = embedding.HealthCheck
	}
	return &Service{probes: probes, timeout: DefaultCheckTimeout}
}

// WithTimeout overrides the per-probe timeout.
func (s *Service) WithTimeout(d time.Duration) *Service {
	if d > 0 {
		s.timeout = d
	}
	return s
}

// Check runs all probes concurrently, each under its own timeout.
func (s *Service) Check(ctx context.Context) Report {
	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		checks = make(map[string]CheckResult, len(s.probes))
	)

	for name, p := range s.probes {
		wg.Add(1)
		go func() {
			defer wg.Done()

			probeCtx, cancel := context.WithTimeout(ctx, s.timeout)
			defer cancel()

			result := CheckOK
			if err := p(probeCtx); err != nil {
				result = CheckError
			}

			mu.Lock()
			checks[name] = result
			mu.Unlock()
		}()
	}
	wg.Wait()

	return Report{Status: aggregate(checks), Checks: checks}
}

func aggregate(checks map[string]CheckResult) Status {
	failed := 0
	for _, v := range checks {
		if v == CheckError {
			failed++
		}
	}
	switch {
	case failed == 0:
		return Healthy
	case failed == len(checks):
		return Unhealthy
	default:
		return Degraded
	}
}
