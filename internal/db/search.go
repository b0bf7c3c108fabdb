package db

// VectorQuery is the input for a $vectorSearch aggregation.
type VectorQuery struct {
	IndexName     string
	Path          string
	Vector        []float32
	NumCandidates int
	Limit         int
	ReturnFields  []string
	ScoreField    string // projected name of the similarity score (default "score")
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Entries []SearchEntry
}

// SearchEntry is a single document hit from a search.
type SearchEntry struct {
	Score  float64
	Fields map[string]string
}
