package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kailas-cloud/vecsearch/internal/db"
)

// CreateSearchIndex submits a search index definition. The build itself is asynchronous.
func (s *Store) CreateSearchIndex(ctx context.Context, def *db.SearchIndexDefinition) error {
	model, err := buildIndexModel(def)
	if err != nil {
		return err
	}

	if _, err := s.coll.SearchIndexes().CreateOne(ctx, model); err != nil {
		if isServerErr(err, codeIndexAlreadyExists, "already exists") {
			return db.ErrIndexExists
		}
		return &db.Error{Op: db.OpCreateSearchIndex, Err: err}
	}
	return nil
}

// ListSearchIndexes lists search indexes on the collection; name filters when non-empty.
func (s *Store) ListSearchIndexes(ctx context.Context, name string) ([]db.SearchIndex, error) {
	var filter *options.SearchIndexesOptions
	if name != "" {
		filter = options.SearchIndexes().SetName(name)
	}

	cur, err := s.coll.SearchIndexes().List(ctx, filter)
	if err != nil {
		return nil, &db.Error{Op: db.OpListSearchIndexes, Err: err}
	}
	defer func() { _ = cur.Close(ctx) }()

	var raw []searchIndexDoc
	if err := cur.All(ctx, &raw); err != nil {
		return nil, &db.Error{Op: db.OpListSearchIndexes, Err: err}
	}

	out := make([]db.SearchIndex, 0, len(raw))
	for _, d := range raw {
		out = append(out, db.SearchIndex{
			ID:        d.ID,
			Name:      d.Name,
			Type:      d.Type,
			Status:    d.Status,
			Queryable: d.Queryable,
		})
	}
	return out, nil
}

// DropSearchIndex removes a search index by name.
func (s *Store) DropSearchIndex(ctx context.Context, name string) error {
	if err := s.coll.SearchIndexes().DropOne(ctx, name); err != nil {
		if isServerErr(err, codeIndexNotFound, "index not found") {
			return db.ErrIndexNotFound
		}
		return &db.Error{Op: db.OpDropSearchIndex, Err: err}
	}
	return nil
}

type searchIndexDoc struct {
	ID        string `bson:"id"`
	Name      string `bson:"name"`
	Type      string `bson:"type"`
	Status    string `bson:"status"`
	Queryable bool   `bson:"queryable"`
}

// buildIndexModel renders {name, type, definition: {fields: [...]}}.
func buildIndexModel(def *db.SearchIndexDefinition) (mongo.SearchIndexModel, error) {
	if def == nil {
		return mongo.SearchIndexModel{}, errors.New("index definition is required")
	}
	if err := def.Validate(); err != nil {
		return mongo.SearchIndexModel{}, err
	}

	idxType := def.Type
	if idxType == "" {
		idxType = db.IndexTypeVectorSearch
	}

	return mongo.SearchIndexModel{
		Definition: buildDefinition(def),
		Options:    options.SearchIndexes().SetName(def.Name).SetType(string(idxType)),
	}, nil
}

func buildDefinition(def *db.SearchIndexDefinition) bson.D {
	fields := make(bson.A, 0, len(def.Fields))
	for i := range def.Fields {
		f := &def.Fields[i]
		switch f.Type {
		case db.IndexFieldVector:
			similarity := f.Similarity
			if similarity == "" {
				similarity = db.SimilarityCosine
			}
			fields = append(fields, bson.D{
				{Key: "type", Value: string(db.IndexFieldVector)},
				{Key: "path", Value: f.Path},
				{Key: "numDimensions", Value: f.NumDimensions},
				{Key: "similarity", Value: string(similarity)},
			})
		case db.IndexFieldFilter:
			fields = append(fields, bson.D{
				{Key: "type", Value: string(db.IndexFieldFilter)},
				{Key: "path", Value: f.Path},
			})
		}
	}
	return bson.D{{Key: "fields", Value: fields}}
}
