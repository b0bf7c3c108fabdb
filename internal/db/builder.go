package db

import (
	"strconv"
	"strings"
)

// IndexBuilder is a fluent builder for search index definitions.
type IndexBuilder struct {
	def SearchIndexDefinition
}

// NewVectorIndex starts building a vectorSearch index definition.
func NewVectorIndex(name string) *IndexBuilder {
	return &IndexBuilder{
		def: SearchIndexDefinition{
			Name: name,
			Type: IndexTypeVectorSearch,
		},
	}
}

// Vector adds a vector field to the index.
func (b *IndexBuilder) Vector(path string, dims int, similarity Similarity) *IndexBuilder {
	if similarity == "" {
		similarity = SimilarityCosine
	}
	b.def.Fields = append(b.def.Fields, IndexField{
		Type:          IndexFieldVector,
		Path:          path,
		NumDimensions: dims,
		Similarity:    similarity,
	})
	return b
}

// Filter adds a pre-filter field to the index.
func (b *IndexBuilder) Filter(path string) *IndexBuilder {
	b.def.Fields = append(b.def.Fields, IndexField{
		Type: IndexFieldFilter,
		Path: path,
	})
	return b
}

// Build validates and returns the index definition.
func (b *IndexBuilder) Build() (*SearchIndexDefinition, error) {
	if err := b.def.Validate(); err != nil {
		return nil, err
	}
	return &b.def, nil
}

// MustBuild calls Build and panics on error.
func (b *IndexBuilder) MustBuild() *SearchIndexDefinition {
	def, err := b.Build()
	if err != nil {
		panic(err)
	}
	return def
}

// String returns a compact debug representation of the definition.
func (idx *SearchIndexDefinition) String() string {
	parts := []string{string(idx.Type), idx.Name}
	for i := range idx.Fields {
		f := &idx.Fields[i]
		parts = append(parts, string(f.Type)+":"+f.Path)
		if f.Type == IndexFieldVector {
			parts = append(parts, strconv.Itoa(f.NumDimensions), string(f.Similarity))
		}
	}
	return strings.Join(parts, " ")
}
