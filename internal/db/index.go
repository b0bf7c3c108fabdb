package db

import (
	"errors"
	"strconv"
)

// SearchIndexType selects the kind of search index.
type SearchIndexType string

const (
	// IndexTypeVectorSearch is an approximate nearest neighbour index.
	IndexTypeVectorSearch SearchIndexType = "vectorSearch"
	// IndexTypeSearch is a full-text search index.
	IndexTypeSearch SearchIndexType = "search"
)

// Similarity is the vector similarity function used by the index.
type Similarity string

const (
	// SimilarityCosine measures the angle between vectors.
	SimilarityCosine Similarity = "cosine"
	// SimilarityEuclidean measures the distance between vector ends.
	SimilarityEuclidean Similarity = "euclidean"
	// SimilarityDotProduct is cosine similarity without normalization.
	SimilarityDotProduct Similarity = "dotProduct"
)

// IndexFieldType enumerates supported vector search index field types.
type IndexFieldType string

const (
	// IndexFieldVector holds embeddings.
	IndexFieldVector IndexFieldType = "vector"
	// IndexFieldFilter is a pre-filter field.
	IndexFieldFilter IndexFieldType = "filter"
)

// IndexField describes a single field in a vector search index definition.
type IndexField struct {
	Type IndexFieldType
	Path string

	// vector options
	NumDimensions int
	Similarity    Similarity
}

// SearchIndexDefinition is a complete search index definition used by createSearchIndexes.
type SearchIndexDefinition struct {
	Name   string
	Type   SearchIndexType
	Fields []IndexField
}

// SearchIndex is one entry returned by $listSearchIndexes.
type SearchIndex struct {
	ID        string
	Name      string
	Type      string
	Status    string
	Queryable bool
}

// Validate checks that the index definition is well-formed.
func (idx *SearchIndexDefinition) Validate() error {
	if idx.Name == "" {
		return errors.New("index name is required")
	}
	if !IsValidIdentifier(idx.Name) {
		return errors.New("index name contains invalid characters")
	}
	if len(idx.Fields) == 0 {
		return errors.New("at least one field is required")
	}

	seen := make(map[string]bool)
	vectors := 0
	for i := range idx.Fields {
		f := &idx.Fields[i]
		if f.Path == "" {
			return errors.New("field path is required at index " + strconv.Itoa(i))
		}
		if seen[f.Path] {
			return errors.New("duplicate field path: " + f.Path)
		}
		seen[f.Path] = true

		switch f.Type {
		case IndexFieldVector:
			vectors++
			if f.NumDimensions <= 0 {
				return errors.New("vector field requires positive numDimensions")
			}
		case IndexFieldFilter:
		default:
			return errors.New("unknown field type: " + string(f.Type))
		}
	}
	if idx.Type == IndexTypeVectorSearch && vectors == 0 {
		return errors.New("vectorSearch index requires a vector field")
	}

	return nil
}

// IsValidIdentifier returns true if s matches [a-zA-Z0-9_-]+.
func IsValidIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		isAlpha := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		isDigit := r >= '0' && r <= '9'
		isSpecial := r == '_' || r == '-'
		if !isAlpha && !isDigit && !isSpecial {
			return false
		}
	}
	return true
}
