package db

import (
	"strings"
	"testing"
)

func TestIndexBuilder_Vector(t *testing.T) {
	idx := NewVectorIndex("vector_index_plot").
		Vector("plot_embedding", 1536, SimilarityCosine).
		MustBuild()

	if err := idx.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if idx.Name != "vector_index_plot" {
		t.Errorf("name = %q, want vector_index_plot", idx.Name)
	}
	if idx.Type != IndexTypeVectorSearch {
		t.Errorf("type = %q, want vectorSearch", idx.Type)
	}
	if len(idx.Fields) != 1 {
		t.Fatalf("fields count = %d, want 1", len(idx.Fields))
	}
	f := idx.Fields[0]
	if f.Type != IndexFieldVector || f.Path != "plot_embedding" {
		t.Errorf("field = %+v, want vector plot_embedding", f)
	}
	if f.NumDimensions != 1536 {
		t.Errorf("dims = %d, want 1536", f.NumDimensions)
	}
	if f.Similarity != SimilarityCosine {
		t.Errorf("similarity = %q, want cosine", f.Similarity)
	}
}

func TestIndexBuilder_DefaultSimilarity(t *testing.T) {
	idx := NewVectorIndex("idx").Vector("emb", 8, "").MustBuild()
	if idx.Fields[0].Similarity != SimilarityCosine {
		t.Errorf("similarity = %q, want cosine default", idx.Fields[0].Similarity)
	}
}

func TestIndexBuilder_WithFilter(t *testing.T) {
	idx := NewVectorIndex("idx").
		Vector("plot_embedding", 1536, SimilarityDotProduct).
		Filter("year").
		MustBuild()

	if len(idx.Fields) != 2 {
		t.Fatalf("fields count = %d, want 2", len(idx.Fields))
	}
	if idx.Fields[1].Type != IndexFieldFilter || idx.Fields[1].Path != "year" {
		t.Errorf("field[1] = %+v, want filter year", idx.Fields[1])
	}
}

func TestIndexBuilder_Errors(t *testing.T) {
	tests := []struct {
		name string
		b    *IndexBuilder
	}{
		{"empty name", NewVectorIndex("").Vector("emb", 8, SimilarityCosine)},
		{"bad name", NewVectorIndex("bad name").Vector("emb", 8, SimilarityCosine)},
		{"no fields", NewVectorIndex("idx")},
		{"zero dims", NewVectorIndex("idx").Vector("emb", 0, SimilarityCosine)},
		{"duplicate path", NewVectorIndex("idx").Vector("emb", 8, SimilarityCosine).Filter("emb")},
		{"filter only", NewVectorIndex("idx").Filter("year")},
		{"empty path", NewVectorIndex("idx").Vector("", 8, SimilarityCosine)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := tc.b.Build(); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestIndexBuilder_MustBuildPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	NewVectorIndex("").MustBuild()
}

func TestSearchIndexDefinition_String(t *testing.T) {
	idx := NewVectorIndex("idx").Vector("plot_embedding", 1536, SimilarityCosine).MustBuild()
	s := idx.String()
	for _, want := range []string{"vectorSearch", "idx", "vector:plot_embedding", "1536", "cosine"} {
		if !strings.Contains(s, want) {
			t.Errorf("String() = %q, missing %q", s, want)
		}
	}
}

func TestIsValidIdentifier(t *testing.T) {
	tests := []struct {
		s    string
		want bool
	}{
		{"vector_index_plot", true},
		{"idx-1", true},
		{"", false},
		{"a b", false},
		{"a:b", false},
	}
	for _, tc := range tests {
		if got := IsValidIdentifier(tc.s); got != tc.want {
			t.Errorf("IsValidIdentifier(%q) = %v, want %v", tc.s, got, tc.want)
		}
	}
}
