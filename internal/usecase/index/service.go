package index

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/vecsearch/internal/domain"
	domindex "github.com/kailas-cloud/vecsearch/internal/domain/index"
	"github.com/kailas-cloud/vecsearch/internal/metrics"
)

// Poll defaults.
const (
	DefaultPollInterval = 10 * time.Second
	DefaultMaxAttempts  = 60
	DefaultPollTimeout  = 15 * time.Minute
)

// PollPolicy bounds the wait for an index build. Zero values disable the corresponding bound,
// except Interval which falls back to DefaultPollInterval.
type PollPolicy struct {
	Interval    time.Duration
	MaxAttempts int
	Timeout     time.Duration
}

// DefaultPollPolicy returns the default 10s interval bounded by 60 attempts and 15 minutes.
func DefaultPollPolicy() PollPolicy {
	return PollPolicy{
		Interval:    DefaultPollInterval,
		MaxAttempts: DefaultMaxAttempts,
		Timeout:     DefaultPollTimeout,
	}
}

// WaitFunc blocks for d or until ctx is done.
type WaitFunc func(ctx context.Context, d time.Duration) error

// StatusFunc is notified after every status observation.
type StatusFunc func(attempt int, info domindex.Info)

// Service provisions search indexes: create-if-absent, then poll until READY or FAILED.
type Service struct {
	repo     Repository
	policy   PollPolicy
	wait     WaitFunc
	onStatus StatusFunc
	logger   *zap.Logger
}

// New creates an index service.
func New(repo Repository, policy PollPolicy, logger *zap.Logger) *Service {
	if policy.Interval <= 0 {
		policy.Interval = DefaultPollInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:   repo,
		policy: policy,
		wait:   sleep,
		logger: logger,
	}
}

// WithWait replaces the wait between observations.
func (s *Service) WithWait(w WaitFunc) *Service {
	if w != nil {
		s.wait = w
	}
	return s
}

// OnStatus registers a callback for every status observation.
func (s *Service) OnStatus(fn StatusFunc) *Service {
	s.onStatus = fn
	return s
}

// Policy returns the effective poll policy.
func (s *Service) Policy() PollPolicy { return s.policy }

// EnsureIndex creates def when absent and waits for a terminal status.
// An existing index (any non-absent status) is never re-created. A create that loses a
// race with another creator is treated as success. FAILED is returned without error;
// exhausting the poll policy returns domain.ErrTimeout.
func (s *Service) EnsureIndex(ctx context.Context, def domindex.Definition) (domindex.Status, error) {
	start := time.Now()
	name := def.Name()

	info, err := s.observe(ctx, name)
	if err != nil {
		return domindex.StatusAbsent, err
	}
	s.notify(1, info)

	if info.Status == domindex.StatusAbsent {
		s.logger.Info("Creating search index",
			zap.String("index", name),
			zap.String("path", def.Path()),
			zap.Int("dimensions", def.Dimensions()),
			zap.String("similarity", string(def.Similarity())),
		)
		if err := s.repo.Create(ctx, def); err != nil {
			if !errors.Is(err, domain.ErrAlreadyExists) {
				return domindex.StatusAbsent, fmt.Errorf("ensure index: %w", err)
			}
			s.logger.Info("Search index already exists, resuming poll", zap.String("index", name))
		}
	} else {
		s.logger.Info("Search index exists",
			zap.String("index", name),
			zap.String("status", info.DisplayStatus()),
		)
	}

	if info.Status.IsTerminal() {
		s.observeBuild(info.Status, start)
		return info.Status, nil
	}

	status, err := s.poll(ctx, name)
	if err != nil {
		return status, err
	}
	s.observeBuild(status, start)
	return status, nil
}

// poll waits between observations until a terminal status or the policy is exhausted.
// The first observation already happened, so the loop starts with a wait.
func (s *Service) poll(ctx context.Context, name string) (domindex.Status, error) {
	pollCtx := ctx
	if s.policy.Timeout > 0 {
		var cancel context.CancelFunc
		pollCtx, cancel = context.WithTimeout(ctx, s.policy.Timeout)
		defer cancel()
	}

	status := domindex.StatusAbsent
	for attempt := 2; s.policy.MaxAttempts <= 0 || attempt <= s.policy.MaxAttempts; attempt++ {
		if err := s.wait(pollCtx, s.policy.Interval); err != nil {
			return status, s.pollError(ctx, name, err)
		}

		info, err := s.observe(pollCtx, name)
		if err != nil {
			if pollCtx.Err() != nil {
				return status, s.pollError(ctx, name, pollCtx.Err())
			}
			return status, err
		}
		s.notify(attempt, info)
		status = info.Status

		if status.IsTerminal() {
			return status, nil
		}
	}

	s.logger.Warn("Search index not ready after max attempts",
		zap.String("index", name),
		zap.Int("max_attempts", s.policy.MaxAttempts),
	)
	return status, fmt.Errorf("%w: index %s not ready after %d observations",
		domain.ErrTimeout, name, s.policy.MaxAttempts)
}

// pollError distinguishes the poll deadline from caller cancellation.
func (s *Service) pollError(parent context.Context, name string, err error) error {
	if parent.Err() == nil && errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: index %s not ready after %s", domain.ErrTimeout, name, s.policy.Timeout)
	}
	return fmt.Errorf("wait for index %s: %w", name, err)
}

// observe reads the current status. A missing index is reported as StatusAbsent.
func (s *Service) observe(ctx context.Context, name string) (domindex.Info, error) {
	info, err := s.repo.Get(ctx, name)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			info = domindex.Info{Name: name, Status: domindex.StatusAbsent}
		} else {
			return domindex.Info{}, fmt.Errorf("observe index: %w", err)
		}
	}
	metrics.IndexPollsTotal.WithLabelValues(info.Status.String()).Inc()
	return info, nil
}

func (s *Service) notify(attempt int, info domindex.Info) {
	s.logger.Debug("Search index status",
		zap.String("index", info.Name),
		zap.Int("attempt", attempt),
		zap.String("status", info.Status.String()),
		zap.String("raw_status", info.RawStatus),
	)
	if s.onStatus != nil {
		s.onStatus(attempt, info)
	}
}

func (s *Service) observeBuild(status domindex.Status, start time.Time) {
	metrics.IndexBuildDuration.WithLabelValues(status.String()).Observe(time.Since(start).Seconds())
}

// List returns all search indexes on the collection.
func (s *Service) List(ctx context.Context) ([]domindex.Info, error) {
	infos, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list indexes: %w", err)
	}
	return infos, nil
}

// Drop removes a search index.
func (s *Service) Drop(ctx context.Context, name string) error {
	if err := s.repo.Drop(ctx, name); err != nil {
		return fmt.Errorf("drop index: %w", err)
	}
	s.logger.Info("Search index dropped", zap.String("index", name))
	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
