package diff

import (
	"strings"

	godiff "github.com/sourcegraph/go-diff/diff"

	"github.com/patchdeps/patchdeps/internal/errors"
)

// ParseHunk structures a hunk body into line-change records.
//
// body holds the raw hunk lines, each prefixed by exactly one of ' ', '-', '+'.
// Context and removed lines are numbered contiguously from origStart, context
// and added lines from newStart. The counts declared in the hunk header must
// match the body or the whole analysis is aborted: a miscounted hunk means
// every ledger update after it would be shifted.
func ParseHunk(origStart, origCount, newStart, newCount int, body []string) ([]Line, error) {
	lines := make([]Line, 0, len(body))
	oldNum := origStart
	newNum := newStart
	oldSeen := 0
	newSeen := 0

	for i, raw := range body {
		if raw == "" {
			// git emits a bare empty line for an empty context line
			raw = " "
		}
		switch raw[0] {
		case ' ':
			lines = append(lines, Line{Kind: LineContext, Text: raw[1:], OldNum: oldNum, NewNum: newNum})
			oldNum++
			newNum++
			oldSeen++
			newSeen++
		case '-':
			lines = append(lines, Line{Kind: LineRemoved, Text: raw[1:], OldNum: oldNum})
			oldNum++
			oldSeen++
		case '+':
			lines = append(lines, Line{Kind: LineAdded, Text: raw[1:], NewNum: newNum})
			newNum++
			newSeen++
		case '\\':
			// "\ No newline at end of file" marker, not a line-change record
			continue
		default:
			return nil, errors.MalformedHunkf("hunk body line %d has unrecognized prefix %q", i+1, raw[0])
		}
	}

	if oldSeen != origCount {
		return nil, errors.MalformedHunkf("hunk declares %d old lines but body has %d", origCount, oldSeen)
	}
	if newSeen != newCount {
		return nil, errors.MalformedHunkf("hunk declares %d new lines but body has %d", newCount, newSeen)
	}
	return lines, nil
}

// ParsePatch parses raw unified-diff output (as produced by git show / git
// diff) into per-file patches. File and hunk splitting is delegated to
// go-diff; hunk bodies are structured and validated by ParseHunk.
func ParsePatch(raw string) ([]FilePatch, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	fileDiffs, err := godiff.NewMultiFileDiffReader(strings.NewReader(raw)).ReadAllFiles()
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryMalformedHunk, errors.SeverityCritical, "failed to parse diff")
	}

	patches := make([]FilePatch, 0, len(fileDiffs))
	for _, fd := range fileDiffs {
		fp := FilePatch{
			OrigPath: normalizePath(fd.OrigName),
			NewPath:  normalizePath(fd.NewName),
		}
		for _, h := range fd.Hunks {
			hunk := Hunk{
				OrigStart: int(h.OrigStartLine),
				OrigCount: int(h.OrigLines),
				NewStart:  int(h.NewStartLine),
				NewCount:  int(h.NewLines),
			}
			body := splitBody(h.Body)
			lines, err := ParseHunk(hunk.OrigStart, hunk.OrigCount, hunk.NewStart, hunk.NewCount, body)
			if err != nil {
				if e, ok := err.(*errors.Error); ok {
					return nil, e.WithContext("file", fp.Path())
				}
				return nil, err
			}
			hunk.Lines = lines
			fp.Hunks = append(fp.Hunks, hunk)
		}
		patches = append(patches, fp)
	}
	return patches, nil
}

// normalizePath strips the a/ and b/ diff prefixes and maps /dev/null to ""
func normalizePath(name string) string {
	if name == "" || name == "/dev/null" {
		return ""
	}
	if strings.HasPrefix(name, "a/") || strings.HasPrefix(name, "b/") {
		return name[2:]
	}
	return name
}

func splitBody(body []byte) []string {
	s := strings.TrimSuffix(string(body), "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}
