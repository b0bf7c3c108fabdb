// Package console renders operator-facing status lines and reads yes/no answers.
package console

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	domindex "github.com/kailas-cloud/vecsearch/internal/domain/index"
	"github.com/kailas-cloud/vecsearch/internal/domain/search/result"
)

// DefaultPlotPreview is the number of plot runes shown per result.
const DefaultPlotPreview = 150

// Printer writes severity-prefixed lines. Colors are applied only when out is a terminal.
type Printer struct {
	out         io.Writer
	plotPreview int

	info    lipgloss.Style
	action  lipgloss.Style
	success lipgloss.Style
	warn    lipgloss.Style
	err     lipgloss.Style
	fatal   lipgloss.Style
	title   lipgloss.Style
	muted   lipgloss.Style
	header  lipgloss.Style
}

// NewPrinter creates a Printer writing to out.
func NewPrinter(out io.Writer) *Printer {
	r := lipgloss.NewRenderer(out)

	return &Printer{
		out:         out,
		plotPreview: DefaultPlotPreview,
		info:        r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#0891B2", Dark: "#06B6D4"}),
		action:      r.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "#7C3AED", Dark: "#A855F7"}),
		success:     r.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "#059669", Dark: "#10B981"}),
		warn:        r.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#F59E0B"}),
		err:         r.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "#DC2626", Dark: "#EF4444"}),
		fatal:       r.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF")).Background(lipgloss.Color("#DC2626")),
		title:       r.NewStyle().Bold(true),
		muted:       r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"}),
		header:      r.NewStyle().Bold(true).Underline(true),
	}
}

// WithPlotPreview sets how many plot runes are printed per result.
func (p *Printer) WithPlotPreview(n int) *Printer {
	if n > 0 {
		p.plotPreview = n
	}
	return p
}

// Banner prints a section header.
func (p *Printer) Banner(text string) {
	p.println(p.header.Render(text))
}

// Infof prints an [INFO] line.
func (p *Printer) Infof(format string, args ...any) { p.line(p.info, "INFO", format, args...) }

// Actionf prints an [ACTION] line.
func (p *Printer) Actionf(format string, args ...any) { p.line(p.action, "ACTION", format, args...) }

// Successf prints a [SUCCESS] line.
func (p *Printer) Successf(format string, args ...any) { p.line(p.success, "SUCCESS", format, args...) }

// Warnf prints a [WARN] line.
func (p *Printer) Warnf(format string, args ...any) { p.line(p.warn, "WARN", format, args...) }

// Errorf prints an [ERROR] line.
func (p *Printer) Errorf(format string, args ...any) { p.line(p.err, "ERROR", format, args...) }

// Fatalf prints a [FATAL] line. It does not exit.
func (p *Printer) Fatalf(format string, args ...any) { p.line(p.fatal, "FATAL", format, args...) }

// Results prints search hits: title, score with four decimals and a plot preview.
func (p *Printer) Results(results []result.Result) {
	p.println("")
	p.println(p.header.Render("--- Search Results ---"))
	if len(results) == 0 {
		p.println(p.muted.Render("  (no results)"))
		return
	}
	for i := range results {
		r := &results[i]
		title := r.Title()
		if title == "" {
			title = "N/A"
		}
		plot := r.PlotPreview(p.plotPreview)
		if len([]rune(r.Plot())) > p.plotPreview {
			plot += "..."
		}
		p.println(fmt.Sprintf("  %s %s", p.muted.Render("Title:"), p.title.Render(title)))
		p.println(fmt.Sprintf("     %s %.4f", p.muted.Render("Score:"), r.Score()))
		p.println(fmt.Sprintf("     %s %s", p.muted.Render("Plot:"), plot))
		p.println("")
	}
}

// Indexes prints one line per search index in store order.
func (p *Printer) Indexes(collection string, infos []domindex.Info) {
	p.Infof("Current search indexes for '%s':", collection)
	if len(infos) == 0 {
		p.println(p.muted.Render("  (none)"))
		return
	}
	for _, info := range infos {
		p.println(fmt.Sprintf("  - Name: %s, Status: %s", info.Name, info.DisplayStatus()))
	}
}

func (p *Printer) line(style lipgloss.Style, level, format string, args ...any) {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	p.println(style.Render("["+level+"]") + " " + msg)
}

func (p *Printer) println(s string) {
	_, _ = io.WriteString(p.out, strings.TrimRight(s, " ")+"\n")
}
