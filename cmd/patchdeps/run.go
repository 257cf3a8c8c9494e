package main

import (
	"context"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/patchdeps/patchdeps/internal/deps"
	"github.com/patchdeps/patchdeps/internal/errors"
	"github.com/patchdeps/patchdeps/internal/git"
	"github.com/patchdeps/patchdeps/internal/graph"
	"github.com/patchdeps/patchdeps/internal/output"
)

// analysisResult bundles everything the commands render from
type analysisResult struct {
	runID   string
	repo    *git.Repo
	commits []git.Commit
	graph   *graph.Graph
}

// addAnalysisFlags registers the flags shared by every analyzing command
func addAnalysisFlags(cmd *cobra.Command) {
	cmd.Flags().IntP("context", "C", -1, "lines of context considered part of a change (0 = changed lines only)")
	cmd.Flags().String("repo", "", "repository path (default: current directory)")
	cmd.Flags().Int("prefetch", 0, "concurrent patch fetch workers")
}

// runAnalysis resolves the range and runs the full dependency analysis
func runAnalysis(ctx context.Context, cmd *cobra.Command, rangeExpr string) (*analysisResult, error) {
	repoPath, _ := cmd.Flags().GetString("repo")
	if repoPath == "" {
		repoPath = cfg.Repo
	}
	contextLines, _ := cmd.Flags().GetInt("context")
	if contextLines < 0 {
		contextLines = cfg.Context
	}
	prefetch, _ := cmd.Flags().GetInt("prefetch")
	if prefetch < 1 {
		prefetch = cfg.PrefetchWorkers
	}

	repo, err := git.Open(repoPath)
	if err != nil {
		return nil, err
	}

	commits, err := git.NewRangeResolver(repo).Resolve(ctx, rangeExpr)
	if err != nil {
		return nil, err
	}
	if len(commits) == 0 {
		return nil, errors.InvalidRangef("range %q selects no commits", rangeExpr)
	}

	ids := make([]string, len(commits))
	for i, c := range commits {
		ids[i] = c.SHA
	}

	source := git.NewPatchSource(repo, contextLines)
	analysis := deps.NewAnalysis(source, ids, deps.DefaultPolicy(), prefetch)
	g, err := analysis.Run(ctx)
	if err != nil {
		return nil, err
	}

	return &analysisResult{
		runID:   analysis.ID,
		repo:    repo,
		commits: commits,
		graph:   g,
	}, nil
}

// buildReport prepares the renderer input; color is only applied to the
// human-oriented formats on a terminal
func buildReport(res *analysisResult, format output.Format, reduce bool) *output.Report {
	infos := make([]output.CommitInfo, len(res.commits))
	for i, c := range res.commits {
		infos[i] = output.CommitInfo{SHA: c.SHA, Subject: c.Subject}
	}
	color := false
	if format == output.FormatList || format == output.FormatMatrix {
		color = isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	}
	return &output.Report{
		RunID:   res.runID,
		Commits: infos,
		Graph:   res.graph,
		Reduce:  reduce,
		Color:   color,
	}
}

// resolveInRange resolves a user-supplied revision to a commit in the
// analyzed range
func resolveInRange(res *analysisResult, rev string) (string, error) {
	sha, err := res.repo.ResolveRevision(rev)
	if err != nil {
		return "", err
	}
	if _, err := res.graph.Position(sha); err != nil {
		return "", err
	}
	return sha, nil
}
