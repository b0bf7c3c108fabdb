package domain

import "errors"

// Failure kinds. Every external call site wraps its error into exactly one of these.
var (
	// ErrConfiguration signals invalid or placeholder settings. Fatal.
	ErrConfiguration = errors.New("configuration error")
	// ErrConnection signals an unreachable or unauthenticated document store. Fatal.
	ErrConnection = errors.New("connection error")
	// ErrIndex signals a failed create/list/drop of a search index.
	ErrIndex = errors.New("index error")
	// ErrEmbedding signals an embedding provider failure.
	ErrEmbedding = errors.New("embedding error")
	// ErrQuery signals a malformed or failed similarity query.
	ErrQuery = errors.New("query error")
	// ErrTimeout signals an exhausted poll budget while waiting for an index build.
	ErrTimeout = errors.New("timeout")
)

// Detail errors, wrapped together with one of the kinds above.
var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists signals a duplicate resource.
	ErrAlreadyExists = errors.New("already exists")
	// ErrVectorDimMismatch signals a query vector whose length differs from the index.
	ErrVectorDimMismatch = errors.New("vector dimension mismatch")
	// ErrIndexNotReady signals a search attempted against an index that is not READY.
	ErrIndexNotReady = errors.New("index not ready")
)

// IsFatal reports whether err terminates a run immediately.
func IsFatal(err error) bool {
	return errors.Is(err, ErrConfiguration) || errors.Is(err, ErrConnection)
}
