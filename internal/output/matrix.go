package output

import (
	"fmt"
	"io"
	"strings"
)

// MatrixFormatter draws the reorder matrix: one row per commit and one
// column per later commit, with X marking "column commit depends on row
// commit" and | continuing a dependency that reaches further back.
type MatrixFormatter struct{}

func (f *MatrixFormatter) Format(r *Report, w io.Writer) error {
	n := len(r.Commits)
	if n == 0 {
		return nil
	}

	labels := make([]string, n)
	maxLen := 0
	for i, c := range r.Commits {
		labels[i] = c.Label()
		if len(labels[i]) > maxLen {
			maxLen = len(labels[i])
		}
	}

	// earliestDep[j] is the sequence position of commit j's earliest direct
	// dependency, or n when it has none
	earliestDep := make([]int, n)
	hasDeps := make([]bool, n)
	for j := range earliestDep {
		earliestDep[j] = n
	}
	for _, e := range r.Graph.Edges() {
		fi, _ := r.Graph.Position(e.From)
		ti, _ := r.Graph.Position(e.To)
		hasDeps[ti] = true
		if fi < earliestDep[ti] {
			earliestDep[ti] = fi
		}
	}

	var sb strings.Builder
	for i, c := range r.Commits {
		sb.Reset()
		sb.WriteString(r.colorSHA(c.Short()))
		if c.Subject != "" {
			sb.WriteString(" " + c.Subject)
		}
		pad := maxLen - len(labels[i]) + i*2
		if hasDeps[i] {
			sb.WriteString(" " + strings.Repeat("-", pad) + "' ")
		} else {
			sb.WriteString(" " + strings.Repeat(" ", pad) + "  ")
		}
		for j := i + 1; j < n; j++ {
			switch {
			case r.Graph.HasEdge(r.Commits[i].SHA, r.Commits[j].SHA):
				sb.WriteString("X ")
			case earliestDep[j] < i:
				sb.WriteString("| ")
			default:
				sb.WriteString("  ")
			}
		}
		if _, err := fmt.Fprintln(w, strings.TrimRight(sb.String(), " ")); err != nil {
			return err
		}
	}
	return nil
}
