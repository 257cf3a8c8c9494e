package diff

// LineKind classifies one line-change record within a hunk.
type LineKind int

const (
	// LineContext - line present in both versions, unchanged
	LineContext LineKind = iota
	// LineRemoved - line present only in the old version
	LineRemoved
	// LineAdded - line present only in the new version
	LineAdded
)

func (k LineKind) String() string {
	switch k {
	case LineContext:
		return "context"
	case LineRemoved:
		return "removed"
	case LineAdded:
		return "added"
	default:
		return "unknown"
	}
}

// Line is a single line-change record.
// OldNum is set for context and removed lines, NewNum for context and added
// lines; the unset side is zero.
type Line struct {
	Kind   LineKind
	Text   string
	OldNum int
	NewNum int
}

// Hunk is one contiguous diff region for one file in one commit
type Hunk struct {
	OrigStart int
	OrigCount int
	NewStart  int
	NewCount  int
	Lines     []Line
}

// OldSpan returns the last old-file line covered by the hunk (0 for pure insertions)
func (h Hunk) OldSpan() int {
	if h.OrigCount == 0 {
		return h.OrigStart
	}
	return h.OrigStart + h.OrigCount - 1
}

// FilePatch is the ordered set of hunks a commit applies to one file.
// OrigPath is empty for file creations, NewPath is empty for deletions.
type FilePatch struct {
	OrigPath string
	NewPath  string
	Hunks    []Hunk
}

// IsNew reports whether the patch creates the file
func (fp FilePatch) IsNew() bool { return fp.OrigPath == "" }

// IsDelete reports whether the patch deletes the file
func (fp FilePatch) IsDelete() bool { return fp.NewPath == "" }

// Path returns the file path the patch refers to after it is applied
// (the old path for deletions)
func (fp FilePatch) Path() string {
	if fp.IsDelete() {
		return fp.OrigPath
	}
	return fp.NewPath
}
