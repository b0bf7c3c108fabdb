package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/vecsearch/internal/config"
	"github.com/kailas-cloud/vecsearch/internal/console"
	dbMongo "github.com/kailas-cloud/vecsearch/internal/db/mongo"
	dbValkey "github.com/kailas-cloud/vecsearch/internal/db/valkey"
	"github.com/kailas-cloud/vecsearch/internal/domain"
	domindex "github.com/kailas-cloud/vecsearch/internal/domain/index"
	"github.com/kailas-cloud/vecsearch/internal/metrics"
	"github.com/kailas-cloud/vecsearch/internal/repository/embcache"
	chiTransport "github.com/kailas-cloud/vecsearch/internal/transport/chi"
	openaiEmb "github.com/kailas-cloud/vecsearch/internal/transport/openai"
	embeddinguc "github.com/kailas-cloud/vecsearch/internal/usecase/embedding"
	healthuc "github.com/kailas-cloud/vecsearch/internal/usecase/health"
	"github.com/kailas-cloud/vecsearch/internal/usecase/index"
	"github.com/kailas-cloud/vecsearch/internal/usecase/orchestrator"
)

// wiring holds the assembled components of one command and the resources to release.
type wiring struct {
	printer *console.Printer
	runner  *orchestrator.Runner
	closers []func()
}

func (w *wiring) close() {
	for i := len(w.closers) - 1; i >= 0; i-- {
		w.closers[i]()
	}
}

// wire is the composition root: cache, embedder chain, runner and the optional
// observability server.
func (a *app) wire(ctx context.Context, out io.Writer, decider orchestrator.Decider) *wiring {
	w := &wiring{
		printer: console.NewPrinter(out).WithPlotPreview(a.cfg.Search.PlotPreview),
	}

	cache := a.openCache()
	if cache != nil {
		w.closers = append(w.closers, cache.Close)
	}

	embedder := buildEmbedder(a.cfg, cache, a.logger)
	if embedder == nil {
		a.logger.Warn("Embedding API key not configured, search step will be skipped")
	}

	dial := mongoDialer(a.cfg.Database, a.logger)
	w.runner = orchestrator.New(runnerConfig(a.cfg), dial, embedder, decider, w.printer, a.logger)

	if a.cfg.Observability.Addr != "" {
		// The HTTP listing gets its own runner so it never writes to the operator console.
		lister := orchestrator.New(runnerConfig(a.cfg), dial, nil, declineAll{}, console.NewPrinter(io.Discard), a.logger)
		w.closers = append(w.closers, a.serveObservability(ctx, cache, embedder, lister))
	}
	return w
}

// openCache connects the optional embedding cache. A cache that cannot be created is
// logged and skipped.
func (a *app) openCache() *dbValkey.Store {
	if !a.cfg.CacheEnabled() {
		return nil
	}
	store, err := dbValkey.NewStore(dbValkey.Config{
		Addrs:    a.cfg.Cache.Addrs,
		Username: a.cfg.Cache.Username,
		Password: a.cfg.Cache.Password,
		DB:       a.cfg.Cache.DB,
	})
	if err != nil {
		a.logger.Warn("Embedding cache disabled", zap.Error(err))
		return nil
	}
	a.logger.Info("Embedding cache enabled", zap.Strings("addrs", a.cfg.Cache.Addrs))
	return store
}

// mongoDialer returns a DialFunc creating a fresh client per operation.
func mongoDialer(cfg config.DatabaseConfig, logger *zap.Logger) orchestrator.DialFunc {
	return func(ctx context.Context) (orchestrator.Conn, error) {
		store, err := dbMongo.NewStore(ctx, dbMongo.Config{
			URI:              cfg.URI,
			Database:         cfg.Name,
			Collection:       cfg.Collection,
			RetryWrites:      cfg.RetryWrites == nil || *cfg.RetryWrites,
			WriteMajority:    cfg.WriteMajority == nil || *cfg.WriteMajority,
			DirectConnection: cfg.DirectConnection,
			ConnectTimeout:   time.Duration(cfg.ConnectTimeoutSec) * time.Second,
		})
		if err != nil {
			// Explicit nil: a typed nil *Store would not compare equal to nil in the runner.
			return nil, fmt.Errorf("create client: %w", err)
		}
		logger.Debug("Document store client created",
			zap.String("uri", redactURI(cfg.URI)),
			zap.String("database", cfg.Name),
			zap.String("collection", cfg.Collection),
		)
		return store, nil
	}
}

func runnerConfig(cfg config.Config) orchestrator.Config {
	return orchestrator.Config{
		Collection: cfg.Database.Collection,
		IndexName:  cfg.Index.Name,
		VectorPath: cfg.Index.Path,
		Dimensions: cfg.Index.Dimensions,
		Similarity: domindex.Similarity(cfg.Index.Similarity),
		Poll: index.PollPolicy{
			Interval:    cfg.Index.PollInterval(),
			MaxAttempts: cfg.Index.MaxAttempts(),
			Timeout:     cfg.Index.PollTimeout(),
		},
		Query:         cfg.Search.Query,
		NumCandidates: cfg.Search.NumCandidates,
		Limit:         cfg.Search.ResultLimit(),
		TitleField:    cfg.Search.TitleField,
		PlotField:     cfg.Search.PlotField,
	}
}

// buildEmbedder assembles the decorator chain: OpenAI -> Cached -> Instrumented -> Instruction.
// It returns nil when no API key is configured.
func buildEmbedder(cfg config.Config, cache *dbValkey.Store, logger *zap.Logger) domain.Embedder {
	if !cfg.EmbeddingEnabled() {
		return nil
	}
	embCfg := cfg.Embedding

	base := openaiEmb.NewEmbedder(&openaiEmb.Config{
		Provider:   embCfg.Provider,
		APIKey:     embCfg.APIKey,
		BaseURL:    embCfg.BaseURL,
		APIVersion: embCfg.APIVersion,
		Model:      embCfg.Model,
		Dimensions: embCfg.Dimensions,
		Timeout:    time.Duration(embCfg.TimeoutSec) * time.Second,
		Logger:     logger,
	})

	var embedder domain.Embedder = base
	if cache != nil {
		ttl := time.Duration(cfg.Cache.TTLSec) * time.Second
		embedder = embcache.New(base, cache, embCfg.Model, ttl, metrics.EmbeddingCacheTotal, logger)
	}

	embedder = embeddinguc.NewInstrumentedEmbedder(
		embedder, embCfg.Provider, embCfg.Model, cfg.Index.Dimensions, logger,
	)

	// Instruction prefix is outermost so the cache key includes it.
	if embCfg.QueryInstruction != "" {
		return domain.NewInstructionEmbedder(embedder, embCfg.QueryInstruction)
	}
	return embedder
}

// serveObservability starts the chi server in the background and returns its shutdown func.
func (a *app) serveObservability(
	ctx context.Context,
	cache *dbValkey.Store,
	embedder domain.Embedder,
	lister chiTransport.IndexLister,
) func() {
	// Interfaces stay nil unless backed by a real component; a typed nil would be called.
	var cachePinger healthuc.CachePinger
	if cache != nil {
		cachePinger = cache
	}
	var embeddingChecker healthuc.EmbeddingChecker
	if embedder != nil {
		embeddingChecker = newEmbeddingHealthChecker(embedder)
	}

	server := chiTransport.NewServer(healthuc.New(cachePinger, embeddingChecker), lister, a.logger)
	srv := &http.Server{
		Addr:              a.cfg.Observability.Addr,
		Handler:           server.Router(a.cfg.Observability.APIKeys),
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
	}

	go func() {
		a.logger.Info("Starting observability server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("Observability server error", zap.Error(err))
		}
	}()

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(),
			time.Duration(a.cfg.Observability.ShutdownSec)*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			a.logger.Error("Error during observability server shutdown", zap.Error(err))
		}
	}
}

// embeddingHealthChecker wraps domain.Embedder to implement health.EmbeddingChecker.
type embeddingHealthChecker struct {
	embedder domain.Embedder
}

func newEmbeddingHealthChecker(embedder domain.Embedder) *embeddingHealthChecker {
	return &embeddingHealthChecker{embedder: embedder}
}

func (h *embeddingHealthChecker) HealthCheck(ctx context.Context) error {
	if hc, ok := h.embedder.(domain.HealthChecker); ok {
		if err := hc.HealthCheck(ctx); err != nil {
			return fmt.Errorf("embedding health check: %w", err)
		}
	}
	return nil
}

// declineAll answers no to every question.
type declineAll struct{}

func (declineAll) Confirm(string, string) bool { return false }

// redactURI hides credentials in a connection string for log output.
func redactURI(uri string) string {
	scheme, rest, ok := strings.Cut(uri, "://")
	if !ok {
		return uri
	}
	at := strings.LastIndex(rest, "@")
	if at < 0 {
		return uri
	}
	return scheme + "://***@" + rest[at+1:]
}
