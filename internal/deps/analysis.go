package deps

import (
	"context"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/patchdeps/patchdeps/internal/diff"
	"github.com/patchdeps/patchdeps/internal/graph"
	"github.com/patchdeps/patchdeps/internal/logging"
)

// CommitSource yields the ordered file patches of a commit
type CommitSource interface {
	Patches(ctx context.Context, id string) ([]diff.FilePatch, error)
}

// Analysis is one dependency-analysis run over an ordered commit sequence.
// The ledger and graph it builds are owned exclusively by the run; separate
// runs never share state.
type Analysis struct {
	// ID identifies the run in logs and reports
	ID string

	source   CommitSource
	commits  []string
	policy   Policy
	prefetch int
}

// NewAnalysis prepares a run over commits (earliest first).
// prefetchWorkers > 1 fetches patches concurrently ahead of processing;
// processing itself is always strictly sequential.
func NewAnalysis(source CommitSource, commits []string, policy Policy, prefetchWorkers int) *Analysis {
	if prefetchWorkers < 1 {
		prefetchWorkers = 1
	}
	return &Analysis{
		ID:       uuid.NewString(),
		source:   source,
		commits:  commits,
		policy:   policy,
		prefetch: prefetchWorkers,
	}
}

// Commits returns the sequence under analysis
func (a *Analysis) Commits() []string {
	out := make([]string, len(a.commits))
	copy(out, a.commits)
	return out
}

// Run processes the commit sequence in order and returns the completed
// dependency graph. Cancellation is honored at commit boundaries only;
// within a commit, discovery and ledger update are atomic. Any fatal error
// abandons the run, partial graph state is discarded.
func (a *Analysis) Run(ctx context.Context) (*graph.Graph, error) {
	logging.Info("starting analysis", "run_id", a.ID, "commits", len(a.commits))

	var prefetched [][]diff.FilePatch
	if a.prefetch > 1 {
		var err error
		prefetched, err = a.prefetchPatches(ctx)
		if err != nil {
			return nil, err
		}
	}

	g := graph.New()
	for _, id := range a.commits {
		g.AddCommit(id)
	}

	ex := NewExtractor(g, a.policy)
	for i, id := range a.commits {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var patches []diff.FilePatch
		if prefetched != nil {
			patches = prefetched[i]
		} else {
			var err error
			patches, err = a.source.Patches(ctx, id)
			if err != nil {
				return nil, err
			}
		}
		if err := ex.ProcessCommit(id, patches); err != nil {
			return nil, err
		}
		logging.Debug("processed commit", "run_id", a.ID, "commit", id, "position", i)
	}

	logging.Info("analysis complete", "run_id", a.ID, "edges", len(g.Edges()))
	return g, nil
}

// prefetchPatches overlaps patch retrieval across workers; results are
// indexed by sequence position so the extractor still consumes them in
// order.
func (a *Analysis) prefetchPatches(ctx context.Context) ([][]diff.FilePatch, error) {
	fetched := make([][]diff.FilePatch, len(a.commits))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(a.prefetch)
	for i, id := range a.commits {
		eg.Go(func() error {
			patches, err := a.source.Patches(egCtx, id)
			if err != nil {
				return err
			}
			fetched[i] = patches
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return fetched, nil
}
