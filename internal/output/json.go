package output

import (
	"encoding/json"
	"io"

	"github.com/patchdeps/patchdeps/internal/graph"
)

// JSONFormatter emits the machine-readable report
type JSONFormatter struct{}

type jsonReport struct {
	RunID   string       `json:"run_id"`
	Commits []jsonCommit `json:"commits"`
	Edges   []graph.Edge `json:"edges"`
	Reduced bool         `json:"reduced"`
}

type jsonCommit struct {
	SHA      string `json:"sha"`
	Subject  string `json:"subject"`
	Position int    `json:"position"`
}

func (f *JSONFormatter) Format(r *Report, w io.Writer) error {
	doc := jsonReport{
		RunID:   r.RunID,
		Commits: make([]jsonCommit, 0, len(r.Commits)),
		Edges:   r.edgeSet(),
		Reduced: r.Reduce,
	}
	for i, c := range r.Commits {
		doc.Commits = append(doc.Commits, jsonCommit{SHA: c.SHA, Subject: c.Subject, Position: i})
	}
	if doc.Edges == nil {
		doc.Edges = []graph.Edge{}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
