// Package ledger tracks per-line provenance: for every line of every file,
// the commit that most recently touched it.
//
// Each file is held as a slice of owner ids where index i is current line
// i+1. Inserting or removing lines is a structural splice, so lookups by
// current line number never need re-keying; an empty owner marks a line that
// predates the analyzed range.
package ledger

import "sort"

// Ledger maps (file path, current line number) to the owning commit id.
// It is owned by a single analysis run and is not safe for concurrent use.
type Ledger struct {
	files map[string][]string
}

// New returns an empty ledger
func New() *Ledger {
	return &Ledger{files: make(map[string][]string)}
}

// Lookup returns the commit that owns line n (1-based) of path.
// ok is false when the file or line is unknown or the line predates the
// analyzed range; that is an expected state, not an error.
func (l *Ledger) Lookup(path string, n int) (string, bool) {
	lines, found := l.files[path]
	if !found || n < 1 || n > len(lines) {
		return "", false
	}
	owner := lines[n-1]
	if owner == "" {
		return "", false
	}
	return owner, true
}

// Record overwrites the owner of line n of path, extending the file with
// unknown-owner lines if n is past its current end.
func (l *Ledger) Record(path string, n int, commit string) {
	if n < 1 {
		return
	}
	lines := l.files[path]
	for len(lines) < n {
		lines = append(lines, "")
	}
	lines[n-1] = commit
	l.files[path] = lines
}

// EnsureLen extends path with unknown-owner lines up to n lines, creating
// the file entry if needed. Used when a pre-existing file is first seen
// mid-range: its untouched prefix has no known provenance.
func (l *Ledger) EnsureLen(path string, n int) {
	lines := l.files[path]
	for len(lines) < n {
		lines = append(lines, "")
	}
	l.files[path] = lines
}

// Has reports whether the ledger holds any entries for path
func (l *Ledger) Has(path string) bool {
	_, ok := l.files[path]
	return ok
}

// Len returns the current number of tracked lines for path
func (l *Ledger) Len(path string) int {
	return len(l.files[path])
}

// Lines returns a copy of the owner slice for path
func (l *Ledger) Lines(path string) []string {
	lines, ok := l.files[path]
	if !ok {
		return nil
	}
	out := make([]string, len(lines))
	copy(out, lines)
	return out
}

// Replace swaps in a new owner slice for path, as produced by applying a
// commit's hunks to the previous state
func (l *Ledger) Replace(path string, lines []string) {
	l.files[path] = lines
}

// Delete drops all entries for path (file removed from the tree)
func (l *Ledger) Delete(path string) {
	delete(l.files, path)
}

// Files returns the tracked paths in sorted order
func (l *Ledger) Files() []string {
	paths := make([]string, 0, len(l.files))
	for p := range l.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
