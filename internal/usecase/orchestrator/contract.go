package orchestrator

import (
	"context"

	"github.com/kailas-cloud/vecsearch/internal/db"
	domindex "github.com/kailas-cloud/vecsearch/internal/domain/index"
	"github.com/kailas-cloud/vecsearch/internal/domain/search/result"
)

// Conn is an open document-store connection, exclusively owned by one Runner operation.
type Conn interface {
	db.Pinger
	db.SearchIndexManager
	db.VectorSearcher
	Close(ctx context.Context) error
}

// DialFunc opens a connection. It must return a nil Conn on error.
type DialFunc func(ctx context.Context) (Conn, error)

// Decision steps passed to Decider.Confirm.
const (
	StepSearch = "search"
	StepDrop   = "drop"
)

// Decider answers the operator's yes/no questions.
type Decider interface {
	Confirm(step, question string) bool
}

// Printer renders operator-facing output.
type Printer interface {
	Banner(text string)
	Infof(format string, args ...any)
	Actionf(format string, args ...any)
	Successf(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
	Fatalf(format string, args ...any)
	Results(results []result.Result)
	Indexes(collection string, infos []domindex.Info)
}
