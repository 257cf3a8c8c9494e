package deps

import (
	log "github.com/sirupsen/logrus"

	"github.com/patchdeps/patchdeps/internal/diff"
	"github.com/patchdeps/patchdeps/internal/graph"
	"github.com/patchdeps/patchdeps/internal/ledger"
)

// Policy controls how ledger ownership evolves as commits apply.
type Policy struct {
	// RestampContext re-assigns context lines to the applying commit. A hunk's
	// context is what anchors its placement, so the default treats proximity as
	// touching. The stricter variant leaves context lines with their original
	// owner and only tracks added lines.
	RestampContext bool
}

// DefaultPolicy restamps context lines
func DefaultPolicy() Policy {
	return Policy{RestampContext: true}
}

// Extractor walks each commit's hunks against the line ledger, emitting
// dependency edges into the graph and then updating the ledger with the
// commit's changes. Commits must be processed in strict sequence order.
type Extractor struct {
	ledger *ledger.Ledger
	graph  *graph.Graph
	policy Policy
	warned map[string]bool
}

// NewExtractor creates an extractor emitting into g
func NewExtractor(g *graph.Graph, policy Policy) *Extractor {
	return &Extractor{
		ledger: ledger.New(),
		graph:  g,
		policy: policy,
		warned: make(map[string]bool),
	}
}

// Ledger exposes the extractor's ledger for inspection
func (e *Extractor) Ledger() *ledger.Ledger {
	return e.ledger
}

// ProcessCommit discovers which prior commits id touches and then applies
// id's patches to the ledger. Discovery for a file runs against the
// pre-commit ledger state for all of its hunks before any mutation, so a
// partially applied commit can never influence its own edges.
func (e *Extractor) ProcessCommit(id string, patches []diff.FilePatch) error {
	e.graph.AddCommit(id)

	for _, fp := range patches {
		if err := e.processFile(id, fp); err != nil {
			return err
		}
	}
	return nil
}

func (e *Extractor) processFile(id string, fp diff.FilePatch) error {
	oldPath := fp.OrigPath
	renamed := oldPath != "" && fp.NewPath != "" && oldPath != fp.NewPath

	if oldPath != "" {
		if !e.ledger.Has(oldPath) && !e.warned[oldPath] {
			// Expected for files that predate the range; provenance unknown
			log.Debugf("no prior provenance for %s, treating as unowned", oldPath)
			e.warned[oldPath] = true
		}
		maxOld := 0
		for _, h := range fp.Hunks {
			if span := h.OldSpan(); span > maxOld {
				maxOld = span
			}
		}
		e.ledger.EnsureLen(oldPath, maxOld)
	}

	// Step 1: discovery against the pre-commit ledger state
	for _, h := range fp.Hunks {
		for _, ln := range h.Lines {
			if ln.Kind == diff.LineAdded {
				continue
			}
			owner, ok := e.ledger.Lookup(oldPath, ln.OldNum)
			if !ok || owner == id {
				continue
			}
			if err := e.graph.AddEdge(owner, id, graph.Witness{Path: oldPath, Line: ln.OldNum}); err != nil {
				return err
			}
		}
	}

	// A deletion (or rename, which is delete+add here) wipes every surviving
	// line, so every remaining owner becomes a dependency.
	if fp.IsDelete() || renamed {
		for i, owner := range e.ledger.Lines(oldPath) {
			if owner == "" || owner == id {
				continue
			}
			if err := e.graph.AddEdge(owner, id, graph.Witness{Path: oldPath, Line: i + 1}); err != nil {
				return err
			}
		}
	}

	// Step 2: apply the commit's changes to the ledger
	if fp.IsDelete() {
		e.ledger.Delete(oldPath)
		return nil
	}

	var base []string
	if oldPath != "" {
		base = e.ledger.Lines(oldPath)
	}
	e.ledger.Replace(fp.NewPath, e.applyHunks(base, fp.Hunks, id))
	if renamed {
		e.ledger.Delete(oldPath)
	}
	return nil
}

// applyHunks rebuilds a file's owner slice after applying hunks in order.
// old is the pre-commit owner slice; hunks are non-overlapping and sorted by
// old position, as unified diffs present them.
func (e *Extractor) applyHunks(old []string, hunks []diff.Hunk, id string) []string {
	out := make([]string, 0, len(old))
	cursor := 1 // next old line to copy, 1-based

	for _, h := range hunks {
		// Copy untouched lines before the hunk. A zero old-count hunk inserts
		// after line OrigStart, so that line itself is untouched.
		stop := h.OrigStart
		if h.OrigCount == 0 {
			stop = h.OrigStart + 1
		}
		for cursor < stop && cursor <= len(old) {
			out = append(out, old[cursor-1])
			cursor++
		}

		for _, ln := range h.Lines {
			switch ln.Kind {
			case diff.LineContext:
				owner := ""
				if cursor <= len(old) {
					owner = old[cursor-1]
				}
				if e.policy.RestampContext {
					owner = id
				}
				out = append(out, owner)
				cursor++
			case diff.LineRemoved:
				cursor++
			case diff.LineAdded:
				out = append(out, id)
			}
		}
	}

	for cursor <= len(old) {
		out = append(out, old[cursor-1])
		cursor++
	}
	return out
}
