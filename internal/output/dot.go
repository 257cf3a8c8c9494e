package output

import (
	"fmt"
	"io"
	"strings"
)

// DotFormatter emits a Graphviz digraph of the dependency relation
type DotFormatter struct{}

func (f *DotFormatter) Format(r *Report, w io.Writer) error {
	if _, err := fmt.Fprintln(w, "digraph CommitDependencies {"); err != nil {
		return err
	}
	for _, c := range r.Commits {
		label := wrapLabel(escapeLabel(c.Label()), 25)
		if _, err := fmt.Fprintf(w, "  %q [label=\"%s\"]\n", c.SHA, label); err != nil {
			return err
		}
	}
	for _, e := range r.edgeSet() {
		if _, err := fmt.Fprintf(w, "  %q -> %q\n", e.From, e.To); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "}")
	return err
}

func escapeLabel(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}

// wrapLabel breaks a label into \n-joined rows of at most width characters,
// breaking at word boundaries where possible
func wrapLabel(s string, width int) string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return s
	}
	var rows []string
	row := words[0]
	for _, word := range words[1:] {
		if len(row)+1+len(word) > width {
			rows = append(rows, row)
			row = word
			continue
		}
		row += " " + word
	}
	rows = append(rows, row)
	return strings.Join(rows, `\n`)
}
