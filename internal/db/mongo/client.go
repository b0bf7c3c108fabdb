package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"

	"github.com/kailas-cloud/vecsearch/internal/db"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

// Server error codes the store maps onto sentinels.
const (
	codeIndexNotFound      = 27
	codeIndexAlreadyExists = 68
)

// Config holds connection parameters for a MongoDB store.
type Config struct {
	URI              string
	Database         string
	Collection       string
	RetryWrites      bool
	WriteMajority    bool
	DirectConnection bool
	ConnectTimeout   time.Duration
}

// Store implements db.Store over a single collection via the official driver.
type Store struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewStore creates a MongoDB store. The driver connects lazily: reachability is
// established by Ping.
func NewStore(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.URI == "" {
		return nil, fmt.Errorf("uri is required")
	}
	if cfg.Database == "" || cfg.Collection == "" {
		return nil, fmt.Errorf("database and collection are required")
	}

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetRetryWrites(cfg.RetryWrites)
	// URI options such as directConnection=true stay in force unless explicitly enabled here.
	if cfg.DirectConnection {
		opts.SetDirect(true)
	}
	if cfg.WriteMajority {
		opts.SetWriteConcern(writeconcern.Majority())
	}
	if cfg.ConnectTimeout > 0 {
		opts.SetConnectTimeout(cfg.ConnectTimeout).
			SetServerSelectionTimeout(cfg.ConnectTimeout)
	}

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return &Store{
		client: client,
		coll:   client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

// Ping checks connectivity against the primary.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx, nil); err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	return nil
}

// Close disconnects the client. Safe to call on a store built for tests.
func (s *Store) Close(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	if err := s.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("disconnect: %w", err)
	}
	return nil
}

// isServerErr reports whether err carries the given server code. Errors
// without a server code fall back to matching substr in the message.
func isServerErr(err error, code int, substr string) bool {
	var se mongo.ServerError
	if errors.As(err, &se) {
		if se.HasErrorCode(code) {
			return true
		}
		var ce mongo.CommandError
		if errors.As(err, &ce) && ce.Code != 0 {
			return false
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), substr)
}
