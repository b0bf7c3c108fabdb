package mongo

import "go.mongodb.org/mongo-driver/mongo"

// NewStoreForTest creates a Store over the provided collection (test-only). Close is a no-op.
func NewStoreForTest(coll *mongo.Collection) *Store {
	return &Store{coll: coll}
}
