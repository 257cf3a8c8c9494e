package deps

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patchdeps/patchdeps/internal/diff"
	"github.com/patchdeps/patchdeps/internal/graph"
)

func mustHunk(t *testing.T, origStart, origCount, newStart, newCount int, body ...string) diff.Hunk {
	t.Helper()
	lines, err := diff.ParseHunk(origStart, origCount, newStart, newCount, body)
	require.NoError(t, err)
	return diff.Hunk{
		OrigStart: origStart,
		OrigCount: origCount,
		NewStart:  newStart,
		NewCount:  newCount,
		Lines:     lines,
	}
}

func newFile(path string, hunks ...diff.Hunk) diff.FilePatch {
	return diff.FilePatch{NewPath: path, Hunks: hunks}
}

func modFile(path string, hunks ...diff.Hunk) diff.FilePatch {
	return diff.FilePatch{OrigPath: path, NewPath: path, Hunks: hunks}
}

func delFile(path string, hunks ...diff.Hunk) diff.FilePatch {
	return diff.FilePatch{OrigPath: path, Hunks: hunks}
}

func run(t *testing.T, ex *Extractor, id string, patches ...diff.FilePatch) {
	t.Helper()
	require.NoError(t, ex.ProcessCommit(id, patches))
}

func TestContextLinesCreateEdges(t *testing.T) {
	g := graph.New()
	ex := NewExtractor(g, DefaultPolicy())

	// A creates x.txt with five lines
	run(t, ex, "A", newFile("x.txt",
		mustHunk(t, 0, 0, 1, 5, "+one", "+two", "+three", "+four", "+five")))

	// B inserts after line 4, with lines 3 and 4 as context
	run(t, ex, "B", modFile("x.txt",
		mustHunk(t, 3, 2, 3, 3, " three", " four", "+new")))

	edges := g.Edges()
	require.Len(t, edges, 1)
	assert.Equal(t, "A", edges[0].From)
	assert.Equal(t, "B", edges[0].To)
	assert.Equal(t, []graph.Witness{
		{Path: "x.txt", Line: 3},
		{Path: "x.txt", Line: 4},
	}, edges[0].Witnesses)

	// restamping: the context lines and the insertion now belong to B
	assert.Equal(t, []string{"A", "A", "B", "B", "B", "A"}, ex.Ledger().Lines("x.txt"))
}

func TestRemovedLineCreatesEdge(t *testing.T) {
	g := graph.New()
	ex := NewExtractor(g, DefaultPolicy())

	run(t, ex, "A", newFile("y.txt",
		mustHunk(t, 0, 0, 1, 3, "+a", "+b", "+c")))
	run(t, ex, "B", modFile("y.txt",
		mustHunk(t, 2, 1, 2, 1, "-b", "+B")))

	require.True(t, g.HasEdge("A", "B"))
	assert.Equal(t, []string{"A", "B", "A"}, ex.Ledger().Lines("y.txt"))
}

// A adds a line, B removes it, C adds a fresh line at the same position.
// C touches nothing A or B still owns, so it depends on neither.
func TestRemovalBreaksChainToLaterAdds(t *testing.T) {
	g := graph.New()
	ex := NewExtractor(g, DefaultPolicy())

	run(t, ex, "A", newFile("y.txt",
		mustHunk(t, 0, 0, 1, 10,
			"+1", "+2", "+3", "+4", "+5", "+6", "+7", "+8", "+9", "+10")))
	run(t, ex, "B", modFile("y.txt",
		mustHunk(t, 10, 1, 9, 0, "-10")))
	run(t, ex, "C", modFile("y.txt",
		mustHunk(t, 9, 0, 10, 1, "+fresh")))

	assert.True(t, g.HasEdge("A", "B"))
	assert.False(t, g.HasEdge("A", "C"))
	assert.False(t, g.HasEdge("B", "C"))

	lines := ex.Ledger().Lines("y.txt")
	require.Len(t, lines, 10)
	assert.Equal(t, "C", lines[9])
	assert.Equal(t, "A", lines[8])
}

// Two commits touching disjoint regions of a pre-range file share no owned
// lines, so they stay independent and reorder-safe.
func TestDisjointRegionsAreReorderSafe(t *testing.T) {
	g := graph.New()
	ex := NewExtractor(g, DefaultPolicy())

	run(t, ex, "A", modFile("z.txt",
		mustHunk(t, 1, 2, 1, 2, "-old1", "-old2", "+new1", "+new2")))
	run(t, ex, "B", modFile("z.txt",
		mustHunk(t, 50, 2, 50, 2, "-old50", "-old51", "+new50", "+new51")))

	assert.Empty(t, g.Edges())
	safe, err := g.IsReorderSafe("A", "B")
	require.NoError(t, err)
	assert.True(t, safe)
}

func TestLineShiftTracking(t *testing.T) {
	g := graph.New()
	ex := NewExtractor(g, DefaultPolicy())

	run(t, ex, "A", newFile("s.txt",
		mustHunk(t, 0, 0, 1, 3, "+a", "+b", "+c")))

	// B inserts two lines at the top; A's lines shift to 3..5
	run(t, ex, "B", modFile("s.txt",
		mustHunk(t, 0, 0, 1, 2, "+top1", "+top2")))

	// C removes what is now line 4 (A's "b")
	run(t, ex, "C", modFile("s.txt",
		mustHunk(t, 4, 1, 3, 0, "-b")))

	assert.True(t, g.HasEdge("A", "C"))
	assert.False(t, g.HasEdge("B", "C"))
	assert.Equal(t, []string{"B", "B", "A", "A"}, ex.Ledger().Lines("s.txt"))
}

func TestFileDeletionDependsOnAllOwners(t *testing.T) {
	g := graph.New()
	ex := NewExtractor(g, DefaultPolicy())

	run(t, ex, "A", newFile("d.txt",
		mustHunk(t, 0, 0, 1, 2, "+one", "+two")))
	run(t, ex, "B", modFile("d.txt",
		mustHunk(t, 0, 0, 1, 1, "+zero")))
	run(t, ex, "C", delFile("d.txt",
		mustHunk(t, 1, 3, 0, 0, "-zero", "-one", "-two")))

	assert.True(t, g.HasEdge("A", "C"))
	assert.True(t, g.HasEdge("B", "C"))
	assert.False(t, ex.Ledger().Has("d.txt"))
}

func TestRenameIsDeletePlusAdd(t *testing.T) {
	g := graph.New()
	ex := NewExtractor(g, DefaultPolicy())

	run(t, ex, "A", newFile("old.txt",
		mustHunk(t, 0, 0, 1, 2, "+one", "+two")))
	run(t, ex, "B", diff.FilePatch{
		OrigPath: "old.txt",
		NewPath:  "new.txt",
		Hunks:    []diff.Hunk{mustHunk(t, 1, 2, 1, 2, " one", " two")},
	})

	assert.True(t, g.HasEdge("A", "B"))
	assert.False(t, ex.Ledger().Has("old.txt"))
	assert.Equal(t, []string{"B", "B"}, ex.Ledger().Lines("new.txt"))
}

func TestUnknownFileProducesNoEdges(t *testing.T) {
	g := graph.New()
	ex := NewExtractor(g, DefaultPolicy())

	g.AddCommit("A")
	run(t, ex, "B", modFile("never-seen.txt",
		mustHunk(t, 5, 2, 5, 2, " ctx", "-gone", "+here")))

	assert.Empty(t, g.Edges())
	// the file is now tracked, with B owning its changed region
	lines := ex.Ledger().Lines("never-seen.txt")
	require.Len(t, lines, 6)
	assert.Equal(t, "B", lines[4])
	assert.Equal(t, "B", lines[5])
	assert.Equal(t, "", lines[0])
}

func TestNoSelfEdgesAcrossHunks(t *testing.T) {
	g := graph.New()
	ex := NewExtractor(g, DefaultPolicy())

	run(t, ex, "A", newFile("m.txt",
		mustHunk(t, 0, 0, 1, 6, "+1", "+2", "+3", "+4", "+5", "+6")))
	// one commit, two hunks in the same file
	run(t, ex, "B", modFile("m.txt",
		mustHunk(t, 1, 1, 1, 1, "-1", "+one"),
		mustHunk(t, 5, 1, 5, 1, "-5", "+five")))

	edges := g.Edges()
	require.Len(t, edges, 1)
	assert.Equal(t, "A", edges[0].From)
	assert.Equal(t, []graph.Witness{
		{Path: "m.txt", Line: 1},
		{Path: "m.txt", Line: 5},
	}, edges[0].Witnesses)
}

func TestNoRestampPolicyKeepsOriginalOwner(t *testing.T) {
	g := graph.New()
	ex := NewExtractor(g, Policy{RestampContext: false})

	run(t, ex, "A", newFile("p.txt",
		mustHunk(t, 0, 0, 1, 3, "+a", "+b", "+c")))
	run(t, ex, "B", modFile("p.txt",
		mustHunk(t, 1, 2, 1, 3, " a", " b", "+after-b")))

	// context edges still recorded, but ownership of a and b stays with A
	assert.True(t, g.HasEdge("A", "B"))
	assert.Equal(t, []string{"A", "A", "B", "A"}, ex.Ledger().Lines("p.txt"))

	// C touching line 1 therefore depends on A, not B
	run(t, ex, "C", modFile("p.txt",
		mustHunk(t, 1, 1, 1, 1, "-a", "+A")))
	assert.True(t, g.HasEdge("A", "C"))
	assert.False(t, g.HasEdge("B", "C"))
}

func TestZeroContextWidth(t *testing.T) {
	g := graph.New()
	ex := NewExtractor(g, DefaultPolicy())

	run(t, ex, "A", newFile("q.txt",
		mustHunk(t, 0, 0, 1, 4, "+a", "+b", "+c", "+d")))
	// a -U0 style hunk: pure insertion after line 2, no context at all
	run(t, ex, "B", modFile("q.txt",
		mustHunk(t, 2, 0, 3, 1, "+mid")))

	assert.Empty(t, g.Edges())
	assert.Equal(t, []string{"A", "A", "B", "A", "A"}, ex.Ledger().Lines("q.txt"))
}
