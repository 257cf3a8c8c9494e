package git

import (
	"context"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/patchdeps/patchdeps/internal/errors"
)

// RangeResolver expands a revision range expression into an ordered list of
// commits, earliest first.
type RangeResolver struct {
	repo *Repo
}

// NewRangeResolver creates a resolver over repo
func NewRangeResolver(repo *Repo) *RangeResolver {
	return &RangeResolver{repo: repo}
}

// Resolve expands expr into commits in sequence order. Supported forms:
//
//	REV       - first-parent history from the root up to REV
//	A..B      - commits reachable from B but not from A, first-parent only
//
// An empty expression means HEAD. Merge commits are skipped with a warning;
// merge handling is out of scope and their combined diffs are not unified
// hunks. Fails with an invalid-range error when an endpoint cannot be
// resolved or A is not a first-parent ancestor of B.
func (rr *RangeResolver) Resolve(ctx context.Context, expr string) ([]Commit, error) {
	if expr == "" {
		expr = "HEAD"
	}
	if strings.Contains(expr, "...") {
		return nil, errors.InvalidRangef("symmetric-difference ranges are not supported: %s", expr)
	}

	fromRev, toRev := "", expr
	if i := strings.Index(expr, ".."); i >= 0 {
		fromRev, toRev = expr[:i], expr[i+2:]
		if toRev == "" {
			toRev = "HEAD"
		}
	}

	toSHA, err := rr.repo.ResolveRevision(toRev)
	if err != nil {
		return nil, err
	}
	fromSHA := ""
	if fromRev != "" {
		fromSHA, err = rr.repo.ResolveRevision(fromRev)
		if err != nil {
			return nil, err
		}
	}

	var commits []Commit
	cur, err := rr.repo.Lookup(toSHA)
	if err != nil {
		return nil, err
	}
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		sha := cur.Hash.String()
		if sha == fromSHA {
			break
		}
		if cur.NumParents() > 1 {
			log.Warnf("skipping merge commit %s (merge handling is out of scope)", sha[:7])
		} else {
			commits = append(commits, Commit{SHA: sha, Subject: subjectLine(cur.Message)})
		}
		if cur.NumParents() == 0 {
			if fromSHA != "" {
				return nil, errors.InvalidRangef("%s is not a first-parent ancestor of %s", fromRev, toRev)
			}
			break
		}
		parent, err := cur.Parent(0)
		if err != nil {
			return nil, errors.RepoError(err, "failed to walk commit parents").WithContext("commit", sha)
		}
		cur = parent
	}

	reverse(commits)
	return commits, nil
}

func reverse(commits []Commit) {
	for i, j := 0, len(commits)-1; i < j; i, j = i+1, j-1 {
		commits[i], commits[j] = commits[j], commits[i]
	}
}
