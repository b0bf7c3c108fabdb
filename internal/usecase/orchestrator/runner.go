package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/vecsearch/internal/domain"
	domindex "github.com/kailas-cloud/vecsearch/internal/domain/index"
	"github.com/kailas-cloud/vecsearch/internal/domain/search/result"
	indexrepo "github.com/kailas-cloud/vecsearch/internal/repository/index"
	searchrepo "github.com/kailas-cloud/vecsearch/internal/repository/search"
	"github.com/kailas-cloud/vecsearch/internal/usecase/index"
	"github.com/kailas-cloud/vecsearch/internal/usecase/search"
)

const closeTimeout = 10 * time.Second

// Report summarizes one run. Warnings hold the non-fatal step failures in order.
type Report struct {
	IndexStatus domindex.Status
	Searched    bool
	Results     []result.Result
	Indexes     []domindex.Info
	Dropped     bool
	Warnings    []error
}

// Runner sequences connect, ensure index, optional search, listing and optional drop.
type Runner struct {
	cfg     Config
	dial    DialFunc
	embed   domain.Embedder
	decider Decider
	printer Printer
	wait    index.WaitFunc
	logger  *zap.Logger
}

// New creates a Runner. embed may be nil, in which case the search step is skipped.
func New(
	cfg Config, dial DialFunc, embed domain.Embedder,
	decider Decider, printer Printer, logger *zap.Logger,
) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		cfg:     cfg,
		dial:    dial,
		embed:   embed,
		decider: decider,
		printer: printer,
		logger:  logger,
	}
}

// WithWait replaces the wait between index status observations.
func (r *Runner) WithWait(w index.WaitFunc) *Runner {
	r.wait = w
	return r
}

// Run executes the full flow. Configuration and connection failures are returned;
// every other step failure is printed, recorded in Report.Warnings and ends only that step.
func (r *Runner) Run(ctx context.Context) (Report, error) {
	var rep Report

	err := r.withConn(ctx, func(ctx context.Context, conn Conn, def domindex.Definition) {
		indexes := r.indexService(conn)

		status, ok := r.ensureIndex(ctx, indexes, def, &rep)
		rep.IndexStatus = status
		if ok {
			r.searchStep(ctx, conn, def, &rep)
		}

		r.listStep(ctx, indexes, &rep)
		r.dropStep(ctx, indexes, def, &rep)
	})
	return rep, err
}

// ListIndexes connects and prints the collection's search indexes.
func (r *Runner) ListIndexes(ctx context.Context) ([]domindex.Info, error) {
	var (
		infos   []domindex.Info
		listErr error
	)
	err := r.withConn(ctx, func(ctx context.Context, conn Conn, _ domindex.Definition) {
		infos, listErr = r.indexService(conn).List(ctx)
		if listErr != nil {
			r.printer.Errorf("Failed to list indexes: %v", listErr)
			return
		}
		r.printer.Indexes(r.cfg.Collection, infos)
	})
	if err != nil {
		return nil, err
	}
	return infos, listErr
}

// DropIndex connects and drops the configured index after confirmation.
// It returns whether the index was dropped.
func (r *Runner) DropIndex(ctx context.Context) (bool, error) {
	var rep Report
	err := r.withConn(ctx, func(ctx context.Context, conn Conn, def domindex.Definition) {
		r.dropStep(ctx, r.indexService(conn), def, &rep)
	})
	if err != nil {
		return false, err
	}
	if len(rep.Warnings) > 0 {
		return false, rep.Warnings[0]
	}
	return rep.Dropped, nil
}

// withConn validates the config, dials, pings and runs fn. The connection is closed exactly
// once on every path after a successful dial.
func (r *Runner) withConn(
	ctx context.Context,
	fn func(ctx context.Context, conn Conn, def domindex.Definition),
) error {
	if err := r.cfg.Validate(); err != nil {
		r.printer.Fatalf("Configuration error: %v", err)
		return err
	}
	def, err := r.cfg.definition()
	if err != nil {
		r.printer.Fatalf("Configuration error: %v", err)
		return err
	}

	r.printer.Infof("Connecting to the document store...")
	conn, err := r.dial(ctx)
	if err != nil {
		err = wrapKind(domain.ErrConnection, err)
		r.printer.Fatalf("Connection failed: %v", err)
		return err
	}
	defer r.closeConn(conn)

	if err := conn.Ping(ctx); err != nil {
		err = wrapKind(domain.ErrConnection, err)
		r.printer.Fatalf("Connection failed: %v", err)
		return err
	}
	r.printer.Successf("Connection successful.")

	fn(ctx, conn, def)
	return nil
}

func (r *Runner) closeConn(conn Conn) {
	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()

	if err := conn.Close(ctx); err != nil {
		r.logger.Warn("Failed to close connection", zap.Error(err))
		r.printer.Warnf("Failed to close connection: %v", err)
		return
	}
	r.printer.Infof("Connection closed.")
}

func (r *Runner) indexService(conn Conn) *index.Service {
	svc := index.New(indexrepo.New(conn), r.cfg.Poll, r.logger)
	if r.wait != nil {
		svc.WithWait(r.wait)
	}
	return svc.OnStatus(func(attempt int, info domindex.Info) {
		switch {
		case attempt == 1 && info.Status != domindex.StatusAbsent:
			r.printer.Warnf("Index '%s' already exists (status: %s). Skipping creation.",
				info.Name, info.DisplayStatus())
		case attempt == 1:
		case info.Status == domindex.StatusAbsent:
			r.printer.Infof("Waiting for index creation to initialize...")
		default:
			r.printer.Infof("Current index status: %s", info.DisplayStatus())
		}
	})
}

// ensureIndex reports whether the index is Ready and the search step may run.
func (r *Runner) ensureIndex(
	ctx context.Context, indexes *index.Service, def domindex.Definition, rep *Report,
) (domindex.Status, bool) {
	r.printer.Actionf("Checking/Creating index '%s'...", def.Name())

	status, err := indexes.EnsureIndex(ctx, def)
	switch {
	case err != nil && errors.Is(err, domain.ErrTimeout):
		r.printer.Errorf("Index '%s' is not ready: %v", def.Name(), err)
		rep.Warnings = append(rep.Warnings, err)
		return status, false
	case err != nil:
		r.printer.Errorf("Index step failed: %v", err)
		rep.Warnings = append(rep.Warnings, err)
		return status, false
	case status == domindex.StatusFailed:
		r.printer.Errorf("Index creation failed. Check the cluster UI for details.")
		rep.Warnings = append(rep.Warnings,
			fmt.Errorf("%w: index %s build failed", domain.ErrIndex, def.Name()))
		return status, false
	case status != domindex.StatusReady:
		rep.Warnings = append(rep.Warnings,
			fmt.Errorf("%w: index %s is %s", domain.ErrIndexNotReady, def.Name(), status))
		return status, false
	}

	r.printer.Successf("Index '%s' is built and ready for use.", def.Name())
	return status, true
}

func (r *Runner) searchStep(ctx context.Context, conn Conn, def domindex.Definition, rep *Report) {
	if !r.decider.Confirm(StepSearch, "Do you want to perform a vector search?") {
		return
	}
	if r.embed == nil {
		r.printer.Warnf("Embedding provider is not configured. Skipping search.")
		rep.Warnings = append(rep.Warnings, fmt.Errorf("%w: no embedding provider configured", domain.ErrEmbedding))
		return
	}

	r.printer.Actionf("Generating embedding for query: '%s'", r.cfg.Query)
	svc := search.New(
		searchrepo.New(conn).WithFields(r.cfg.TitleField, r.cfg.PlotField),
		r.embed,
		r.logger,
	)

	results, err := svc.SearchText(ctx, search.Query{
		Text:          r.cfg.Query,
		Index:         def.Name(),
		Path:          def.Path(),
		Dimensions:    def.Dimensions(),
		NumCandidates: r.cfg.NumCandidates,
		Limit:         r.cfg.Limit,
	})
	if err != nil {
		if errors.Is(err, domain.ErrEmbedding) {
			r.printer.Errorf("Failed to generate embedding: %v", err)
		} else {
			r.printer.Errorf("Search failed: %v", err)
		}
		rep.Warnings = append(rep.Warnings, err)
		return
	}

	rep.Searched = true
	rep.Results = results
	r.printer.Results(results)
}

func (r *Runner) listStep(ctx context.Context, indexes *index.Service, rep *Report) {
	infos, err := indexes.List(ctx)
	if err != nil {
		r.printer.Errorf("Failed to list indexes: %v", err)
		rep.Warnings = append(rep.Warnings, err)
		return
	}
	rep.Indexes = infos
	r.printer.Indexes(r.cfg.Collection, infos)
}

func (r *Runner) dropStep(ctx context.Context, indexes *index.Service, def domindex.Definition, rep *Report) {
	question := fmt.Sprintf("Do you want to drop the index '%s'?", def.Name())
	if !r.decider.Confirm(StepDrop, question) {
		r.printer.Infof("Skipping index drop.")
		return
	}

	r.printer.Actionf("Dropping index '%s'...", def.Name())
	if err := indexes.Drop(ctx, def.Name()); err != nil {
		r.printer.Errorf("Failed to drop index: %v", err)
		rep.Warnings = append(rep.Warnings, err)
		return
	}
	rep.Dropped = true
	r.printer.Successf("Index '%s' dropped.", def.Name())
}

// wrapKind attaches kind to err unless it already carries it.
func wrapKind(kind, err error) error {
	if errors.Is(err, kind) {
		return err
	}
	return fmt.Errorf("%w: %w", kind, err)
}
