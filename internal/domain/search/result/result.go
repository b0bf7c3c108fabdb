package result

// Result is a single similarity search hit projected to {title, plot, score}.
type Result struct {
	title string
	plot  string
	score float64
}

// New creates a search result.
func New(title, plot string, score float64) Result {
	return Result{title: title, plot: plot, score: score}
}

// Title returns the document title.
func (r *Result) Title() string { return r.title }

// Plot returns the full plot text.
func (r *Result) Plot() string { return r.plot }

// Score returns the similarity score (higher is more similar).
func (r *Result) Score() float64 { return r.score }

// PlotPreview returns at most n runes of the plot. n <= 0 returns the full plot.
func (r *Result) PlotPreview(n int) string {
	if n <= 0 {
		return r.plot
	}
	runes := []rune(r.plot)
	if len(runes) <= n {
		return r.plot
	}
	return string(runes[:n])
}
