// Package report turns a pkg/clone.Analyze result into output the way
// internal/output renders every other report in this codebase: a
// Renderable that knows how to print itself as text, Markdown, or JSON.
package report

import (
	"fmt"
	"io"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/coursewatch/clonewatch/internal/output"
	"github.com/coursewatch/clonewatch/pkg/clone"
)

// Summary aggregates match-count statistics across every reported pair
// using gonum/stat for descriptive statistics.
type Summary struct {
	PairCount     int     `json:"pair_count"`
	WarningCount  int     `json:"warning_count"`
	MeanMatches   float64 `json:"mean_matches"`
	StdDevMatches float64 `json:"stddev_matches"`
	P90Matches    float64 `json:"p90_matches"`
	MaxMatches    int     `json:"max_matches"`
}

// Report is the top-level Renderable returned to cmd/clonewatch.
type Report struct {
	ProjectPairs []clone.ProjectPair `json:"project_pairs"`
	Warnings     []clone.Warning     `json:"warnings"`
	Summary      Summary             `json:"summary"`
}

// New builds a Report from an Analyze result, computing Summary statistics
// from the pairs' match counts.
func New(pairs []clone.ProjectPair, warnings []clone.Warning) *Report {
	r := &Report{ProjectPairs: pairs, Warnings: warnings}
	r.Summary = summarize(pairs, warnings)
	return r
}

func summarize(pairs []clone.ProjectPair, warnings []clone.Warning) Summary {
	s := Summary{PairCount: len(pairs), WarningCount: len(warnings)}
	if len(pairs) == 0 {
		return s
	}

	counts := make([]float64, len(pairs))
	for i, p := range pairs {
		counts[i] = float64(len(p.Matches))
		if len(p.Matches) > s.MaxMatches {
			s.MaxMatches = len(p.Matches)
		}
	}

	sorted := append([]float64(nil), counts...)
	sort.Float64s(sorted)

	s.MeanMatches = stat.Mean(counts, nil)
	// The sample standard deviation of a single count is NaN, which JSON
	// cannot encode; it stays 0 for one pair.
	if len(counts) > 1 {
		s.StdDevMatches = stat.StdDev(counts, nil)
	}
	s.P90Matches = stat.Quantile(0.90, stat.Empirical, sorted, nil)
	return s
}

// RenderData implements output.Renderable.
func (r *Report) RenderData() any { return r }

// RenderText implements output.Renderable.
func (r *Report) RenderText(w io.Writer, colored bool) error {
	fmt.Fprintf(w, "clonewatch report: %d project pair(s), %d warning(s)\n\n", r.Summary.PairCount, r.Summary.WarningCount)

	for _, pair := range r.ProjectPairs {
		headers := []string{"File A", "Span A", "File B", "Span B"}
		rows := make([][]string, 0, len(pair.Matches))
		for _, m := range pair.Matches {
			rows = append(rows, []string{
				m.Loc1.File.Path,
				fmt.Sprintf("[%d,%d)", m.Loc1.Span.Start, m.Loc1.Span.End),
				m.Loc2.File.Path,
				fmt.Sprintf("[%d,%d)", m.Loc2.Span.Start, m.Loc2.Span.End),
			})
		}
		title := fmt.Sprintf("%s <-> %s (%d matches)", pair.ProjectA, pair.ProjectB, len(pair.Matches))
		table := output.NewTable(title, headers, rows, nil, nil)
		if err := table.RenderText(w, colored); err != nil {
			return err
		}
	}

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			if warn.File != nil {
				fmt.Fprintf(w, "  [%s] %s/%s: %s\n", warn.Kind, warn.File.Project, warn.File.Path, warn.Message)
			} else {
				fmt.Fprintf(w, "  [%s] %s\n", warn.Kind, warn.Message)
			}
		}
	}
	return nil
}

// RenderMarkdown implements output.Renderable.
func (r *Report) RenderMarkdown(w io.Writer) error {
	fmt.Fprintf(w, "# clonewatch report\n\n%d project pair(s), %d warning(s)\n\n", r.Summary.PairCount, r.Summary.WarningCount)

	for _, pair := range r.ProjectPairs {
		fmt.Fprintf(w, "## %s <-> %s (%d matches)\n\n", pair.ProjectA, pair.ProjectB, len(pair.Matches))
		fmt.Fprintln(w, "| File A | Span A | File B | Span B |")
		fmt.Fprintln(w, "| --- | --- | --- | --- |")
		for _, m := range pair.Matches {
			fmt.Fprintf(w, "| %s | [%d,%d) | %s | [%d,%d) |\n",
				m.Loc1.File.Path, m.Loc1.Span.Start, m.Loc1.Span.End,
				m.Loc2.File.Path, m.Loc2.Span.Start, m.Loc2.Span.End)
		}
		fmt.Fprintln(w)
	}
	return nil
}

var _ output.Renderable = (*Report)(nil)
