package output

import (
	"fmt"
	"io"

	"github.com/patchdeps/patchdeps/internal/graph"
)

// ListFormatter prints, for each commit, the earlier commits it depends on
type ListFormatter struct{}

func (f *ListFormatter) Format(r *Report, w io.Writer) error {
	byCommit := make(map[string][]graph.Edge)
	for _, e := range r.edgeSet() {
		byCommit[e.To] = append(byCommit[e.To], e)
	}
	info := make(map[string]CommitInfo, len(r.Commits))
	for _, c := range r.Commits {
		info[c.SHA] = c
	}

	for _, c := range r.Commits {
		if _, err := fmt.Fprintf(w, "%s %s\n", r.colorSHA(c.Short()), c.Subject); err != nil {
			return err
		}
		for _, e := range byCommit[c.SHA] {
			dep := info[e.From]
			suffix := ""
			if n := len(e.Witnesses); n > 0 {
				suffix = fmt.Sprintf("  (%d %s)", n, plural(n, "line", "lines"))
			}
			if _, err := fmt.Fprintf(w, "  %s %s%s\n", r.colorSHA(dep.Short()), dep.Subject, suffix); err != nil {
				return err
			}
		}
	}
	return nil
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
