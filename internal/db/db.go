package db

import (
	"context"
	"time"
)

// Store is the document-store facade combining all sub-interfaces.
type Store interface {
	Pinger
	SearchIndexManager
	VectorSearcher
	Close(ctx context.Context) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// SearchIndexManager provides search index lifecycle operations.
type SearchIndexManager interface {
	CreateSearchIndex(ctx context.Context, def *SearchIndexDefinition) error
	// ListSearchIndexes lists search indexes; a non-empty name filters to that index.
	ListSearchIndexes(ctx context.Context, name string) ([]SearchIndex, error)
	DropSearchIndex(ctx context.Context, name string) error
}

// VectorSearcher runs approximate nearest neighbour queries over a vector search index.
type VectorSearcher interface {
	VectorSearch(ctx context.Context, q *VectorQuery) (*SearchResult, error)
}

// KVStore provides simple key-value operations.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// CacheStore is the key-value cache facade (Valkey/Redis).
type CacheStore interface {
	Pinger
	KVStore
	Close()
}
