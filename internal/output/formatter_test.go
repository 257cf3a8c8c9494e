package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patchdeps/patchdeps/internal/graph"
)

func buildReport(t *testing.T, commits []CommitInfo, edges [][2]string) *Report {
	t.Helper()
	g := graph.New()
	for _, c := range commits {
		g.AddCommit(c.SHA)
	}
	for _, e := range edges {
		require.NoError(t, g.AddEdge(e[0], e[1], graph.Witness{Path: "f.txt", Line: 1}))
	}
	return &Report{RunID: "test-run", Commits: commits, Graph: g}
}

func TestNewFormatter(t *testing.T) {
	for _, f := range Formats() {
		got, err := NewFormatter(f)
		require.NoError(t, err, "format %s", f)
		assert.NotNil(t, got)
	}
	_, err := NewFormatter("yaml")
	require.Error(t, err)
}

func TestCommitInfoLabel(t *testing.T) {
	c := CommitInfo{SHA: "0123456789abcdef", Subject: "fix parser"}
	assert.Equal(t, "0123456", c.Short())
	assert.Equal(t, "0123456 fix parser", c.Label())

	short := CommitInfo{SHA: "abc"}
	assert.Equal(t, "abc", short.Short())
	assert.Equal(t, "abc", short.Label())
}

func TestListFormat(t *testing.T) {
	commits := []CommitInfo{
		{SHA: "aaaaaaaaaa", Subject: "first"},
		{SHA: "bbbbbbbbbb", Subject: "second"},
	}
	r := buildReport(t, commits, nil)
	require.NoError(t, r.Graph.AddEdge("aaaaaaaaaa", "bbbbbbbbbb", graph.Witness{Path: "f.txt", Line: 3}))
	require.NoError(t, r.Graph.AddEdge("aaaaaaaaaa", "bbbbbbbbbb", graph.Witness{Path: "f.txt", Line: 4}))

	var buf bytes.Buffer
	require.NoError(t, (&ListFormatter{}).Format(r, &buf))

	want := strings.Join([]string{
		"aaaaaaa first",
		"bbbbbbb second",
		"  aaaaaaa first  (2 lines)",
		"",
	}, "\n")
	assert.Equal(t, want, buf.String())
}

func TestMatrixFormat(t *testing.T) {
	commits := []CommitInfo{
		{SHA: "1111111aaa", Subject: "add file"},
		{SHA: "2222222bbb", Subject: "tweak"},
		{SHA: "3333333ccc", Subject: "indep"},
	}
	r := buildReport(t, commits, [][2]string{{"1111111aaa", "2222222bbb"}})

	var buf bytes.Buffer
	require.NoError(t, (&MatrixFormatter{}).Format(r, &buf))

	want := strings.Join([]string{
		"1111111 add file   X",
		"2222222 tweak -----'",
		"3333333 indep",
		"",
	}, "\n")
	assert.Equal(t, want, buf.String())
}

// A dependency spanning several rows draws | continuation markers in its
// column on the rows in between.
func TestMatrixFormatContinuationColumn(t *testing.T) {
	commits := []CommitInfo{
		{SHA: "aaaaaaaaaa", Subject: "one"},
		{SHA: "bbbbbbbbbb", Subject: "two"},
		{SHA: "cccccccccc", Subject: "three"},
		{SHA: "dddddddddd", Subject: "four"},
	}
	r := buildReport(t, commits, [][2]string{{"aaaaaaaaaa", "dddddddddd"}})

	var buf bytes.Buffer
	require.NoError(t, (&MatrixFormatter{}).Format(r, &buf))

	want := strings.Join([]string{
		"aaaaaaa one          X",
		"bbbbbbb two          |",
		"ccccccc three        |",
		"ddddddd four -------'",
		"",
	}, "\n")
	assert.Equal(t, want, buf.String())
}

func TestMatrixFormatEmpty(t *testing.T) {
	var buf bytes.Buffer
	r := &Report{Graph: graph.New()}
	require.NoError(t, (&MatrixFormatter{}).Format(r, &buf))
	assert.Empty(t, buf.String())
}

func TestDotFormat(t *testing.T) {
	commits := []CommitInfo{
		{SHA: "aaaaaaaaaa", Subject: "one"},
		{SHA: "bbbbbbbbbb", Subject: "two"},
	}
	r := buildReport(t, commits, [][2]string{{"aaaaaaaaaa", "bbbbbbbbbb"}})

	var buf bytes.Buffer
	require.NoError(t, (&DotFormatter{}).Format(r, &buf))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "digraph CommitDependencies {\n"))
	assert.Contains(t, out, `"aaaaaaaaaa" [label="aaaaaaa one"]`)
	assert.Contains(t, out, `"aaaaaaaaaa" -> "bbbbbbbbbb"`)
	assert.True(t, strings.HasSuffix(out, "}\n"))
}

func TestDotFormatReduced(t *testing.T) {
	commits := []CommitInfo{
		{SHA: "aaaaaaaaaa", Subject: "one"},
		{SHA: "bbbbbbbbbb", Subject: "two"},
		{SHA: "cccccccccc", Subject: "three"},
	}
	r := buildReport(t, commits, [][2]string{
		{"aaaaaaaaaa", "bbbbbbbbbb"},
		{"bbbbbbbbbb", "cccccccccc"},
		{"aaaaaaaaaa", "cccccccccc"},
	})
	r.Reduce = true

	var buf bytes.Buffer
	require.NoError(t, (&DotFormatter{}).Format(r, &buf))
	out := buf.String()

	assert.Contains(t, out, `"aaaaaaaaaa" -> "bbbbbbbbbb"`)
	assert.Contains(t, out, `"bbbbbbbbbb" -> "cccccccccc"`)
	assert.NotContains(t, out, `"aaaaaaaaaa" -> "cccccccccc"`)
}

func TestWrapLabel(t *testing.T) {
	assert.Equal(t, `short`, wrapLabel("short", 25))
	assert.Equal(t, `one two\nthree`, wrapLabel("one two three", 8))
	assert.Equal(t, "", wrapLabel("", 10))
}

func TestJSONFormat(t *testing.T) {
	commits := []CommitInfo{
		{SHA: "aaaaaaaaaa", Subject: "one"},
		{SHA: "bbbbbbbbbb", Subject: "two"},
	}
	r := buildReport(t, commits, [][2]string{{"aaaaaaaaaa", "bbbbbbbbbb"}})

	var buf bytes.Buffer
	require.NoError(t, (&JSONFormatter{}).Format(r, &buf))

	var doc struct {
		RunID   string `json:"run_id"`
		Commits []struct {
			SHA      string `json:"sha"`
			Position int    `json:"position"`
		} `json:"commits"`
		Edges []struct {
			From      string `json:"from"`
			To        string `json:"to"`
			Witnesses []struct {
				Path string `json:"path"`
				Line int    `json:"line"`
			} `json:"witnesses"`
		} `json:"edges"`
		Reduced bool `json:"reduced"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))

	assert.Equal(t, "test-run", doc.RunID)
	require.Len(t, doc.Commits, 2)
	assert.Equal(t, 1, doc.Commits[1].Position)
	require.Len(t, doc.Edges, 1)
	assert.Equal(t, "aaaaaaaaaa", doc.Edges[0].From)
	require.Len(t, doc.Edges[0].Witnesses, 1)
	assert.Equal(t, "f.txt", doc.Edges[0].Witnesses[0].Path)
}

func TestJSONFormatEmptyEdges(t *testing.T) {
	r := buildReport(t, []CommitInfo{{SHA: "aaaaaaaaaa", Subject: "one"}}, nil)

	var buf bytes.Buffer
	require.NoError(t, (&JSONFormatter{}).Format(r, &buf))
	assert.Contains(t, buf.String(), `"edges": []`)
}

func TestColorSHA(t *testing.T) {
	r := &Report{Color: true}
	assert.Equal(t, "\033[33mabcdefg\033[39m", r.colorSHA("abcdefg"))
	r.Color = false
	assert.Equal(t, "abcdefg", r.colorSHA("abcdefg"))
}
