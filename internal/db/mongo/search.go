package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/kailas-cloud/vecsearch/internal/db"
)

const defaultScoreField = "score"

// VectorSearch runs a two-stage $vectorSearch + $project aggregation.
func (s *Store) VectorSearch(ctx context.Context, q *db.VectorQuery) (*db.SearchResult, error) {
	pipeline, err := buildVectorSearchPipeline(q)
	if err != nil {
		return nil, err
	}

	cur, err := s.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, &db.Error{Op: db.OpAggregate, Err: err}
	}
	defer func() { _ = cur.Close(ctx) }()

	var docs []bson.M
	if err := cur.All(ctx, &docs); err != nil {
		return nil, &db.Error{Op: db.OpAggregate, Err: err}
	}

	return parseVectorSearchResult(docs, q), nil
}

func buildVectorSearchPipeline(q *db.VectorQuery) (mongo.Pipeline, error) {
	if q.IndexName == "" {
		return nil, fmt.Errorf("index name is required")
	}
	if q.Path == "" {
		return nil, fmt.Errorf("path is required")
	}
	if len(q.Vector) == 0 {
		return nil, fmt.Errorf("vector is required")
	}
	if q.Limit <= 0 {
		return nil, fmt.Errorf("limit must be positive")
	}
	if q.NumCandidates < q.Limit {
		return nil, fmt.Errorf("numCandidates must be >= limit")
	}

	vector := make(bson.A, len(q.Vector))
	for i, v := range q.Vector {
		vector[i] = float64(v)
	}

	project := bson.D{{Key: "_id", Value: 0}}
	for _, f := range q.ReturnFields {
		project = append(project, bson.E{Key: f, Value: 1})
	}
	project = append(project, bson.E{Key: scoreField(q), Value: bson.D{{Key: "$meta", Value: "vectorSearchScore"}}})

	return mongo.Pipeline{
		{{Key: "$vectorSearch", Value: bson.D{
			{Key: "index", Value: q.IndexName},
			{Key: "path", Value: q.Path},
			{Key: "queryVector", Value: vector},
			{Key: "numCandidates", Value: q.NumCandidates},
			{Key: "limit", Value: q.Limit},
		}}},
		{{Key: "$project", Value: project}},
	}, nil
}

func parseVectorSearchResult(docs []bson.M, q *db.VectorQuery) *db.SearchResult {
	sf := scoreField(q)
	entries := make([]db.SearchEntry, 0, len(docs))
	for _, d := range docs {
		entry := db.SearchEntry{
			Score:  toFloat(d[sf]),
			Fields: make(map[string]string, len(q.ReturnFields)),
		}
		for _, f := range q.ReturnFields {
			if v, ok := d[f]; ok && v != nil {
				entry.Fields[f] = toString(v)
			}
		}
		entries = append(entries, entry)
	}
	return &db.SearchResult{Entries: entries}
}

func scoreField(q *db.VectorQuery) string {
	if q.ScoreField != "" {
		return q.ScoreField
	}
	return defaultScoreField
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	default:
		return 0
	}
}

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
