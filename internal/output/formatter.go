package output

import (
	"io"

	"github.com/patchdeps/patchdeps/internal/errors"
	"github.com/patchdeps/patchdeps/internal/graph"
)

// Format selects a report renderer
type Format string

const (
	// FormatList - per commit, the commits it depends on
	FormatList Format = "list"
	// FormatMatrix - one row per commit, dependency columns to its right
	FormatMatrix Format = "matrix"
	// FormatDot - Graphviz digraph
	FormatDot Format = "dot"
	// FormatJSON - machine-readable report
	FormatJSON Format = "json"
)

// Formats lists the supported format names
func Formats() []Format {
	return []Format{FormatList, FormatMatrix, FormatDot, FormatJSON}
}

// CommitInfo is the display metadata for one analyzed commit
type CommitInfo struct {
	SHA     string
	Subject string
}

// Short returns the abbreviated SHA
func (c CommitInfo) Short() string {
	if len(c.SHA) < 7 {
		return c.SHA
	}
	return c.SHA[:7]
}

// Label renders the commit as reports show it
func (c CommitInfo) Label() string {
	if c.Subject == "" {
		return c.Short()
	}
	return c.Short() + " " + c.Subject
}

// Report is the read-only result of an analysis run handed to a renderer
type Report struct {
	RunID   string
	Commits []CommitInfo
	Graph   *graph.Graph
	// Reduce omits transitively implied edges from list/dot output
	Reduce bool
	// Color enables ANSI coloring of commit SHAs (terminal output)
	Color bool
}

// edgeSet returns the edges to render, reduced when requested
func (r *Report) edgeSet() []graph.Edge {
	if r.Reduce {
		return r.Graph.TransitiveReduction()
	}
	return r.Graph.Edges()
}

func (r *Report) colorSHA(short string) string {
	if !r.Color {
		return short
	}
	return "\033[33m" + short + "\033[39m"
}

// Formatter renders an analysis report
type Formatter interface {
	Format(r *Report, w io.Writer) error
}

// NewFormatter creates the formatter for a format name
func NewFormatter(f Format) (Formatter, error) {
	switch f {
	case FormatList:
		return &ListFormatter{}, nil
	case FormatMatrix:
		return &MatrixFormatter{}, nil
	case FormatDot:
		return &DotFormatter{}, nil
	case FormatJSON:
		return &JSONFormatter{}, nil
	default:
		return nil, errors.ConfigErrorf("unknown output format: %s", f)
	}
}
