package git

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/patchdeps/patchdeps/internal/diff"
	"github.com/patchdeps/patchdeps/internal/errors"
)

// PatchSource yields a commit's file patches by shelling out to git show.
// go-git generates patches with a fixed context width; the engine's
// sensitivity is driven by how much context surrounds each change, so the
// width must follow the --context flag and the git binary is the one tool
// that honors it.
type PatchSource struct {
	repo         *Repo
	contextLines int
}

// NewPatchSource creates a source producing hunks with the given context
// width (0 = changed lines only)
func NewPatchSource(repo *Repo, contextLines int) *PatchSource {
	if contextLines < 0 {
		contextLines = 0
	}
	return &PatchSource{repo: repo, contextLines: contextLines}
}

// Patches returns the ordered file patches of a commit.
// Renames are disabled so a moved file surfaces as delete+add, matching the
// engine's rename policy.
func (ps *PatchSource) Patches(ctx context.Context, id string) ([]diff.FilePatch, error) {
	cmd := exec.CommandContext(ctx, "git", showArgs(ps.repo.Root(), ps.contextLines, id)...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		e := errors.CommitNotFound(err, id)
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			e = e.WithContext("stderr", msg)
		}
		return nil, e
	}
	return diff.ParsePatch(stdout.String())
}

func showArgs(root string, contextLines int, id string) []string {
	return []string{
		"-C", root,
		"show",
		"--format=",
		"--no-renames",
		fmt.Sprintf("-U%d", contextLines),
		id,
	}
}
