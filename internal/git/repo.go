package git

import (
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/patchdeps/patchdeps/internal/errors"
)

// Commit pairs a full SHA with the metadata renderers display
type Commit struct {
	SHA     string
	Subject string
}

// Short returns the abbreviated SHA used in reports
func (c Commit) Short() string {
	if len(c.SHA) < 7 {
		return c.SHA
	}
	return c.SHA[:7]
}

// Label renders the commit the way reports show it
func (c Commit) Label() string {
	if c.Subject == "" {
		return c.Short()
	}
	return c.Short() + " " + c.Subject
}

// Repo wraps an opened git repository
type Repo struct {
	root string
	repo *gogit.Repository
}

// Open opens the repository containing path, walking up to find .git
func Open(path string) (*Repo, error) {
	r, err := gogit.PlainOpenWithOptions(path, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, errors.RepoError(err, "failed to open repository").WithContext("path", path)
	}
	root := path
	if wt, werr := r.Worktree(); werr == nil {
		root = wt.Filesystem.Root()
	}
	return &Repo{root: root, repo: r}, nil
}

// Root returns the repository's top-level directory
func (r *Repo) Root() string {
	return r.root
}

// ResolveRevision resolves a revision expression (ref name, SHA, HEAD~n...)
// to a full commit SHA
func (r *Repo) ResolveRevision(rev string) (string, error) {
	h, err := r.repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return "", errors.InvalidRangef("cannot resolve revision %q: %v", rev, err)
	}
	return h.String(), nil
}

// Lookup returns the commit object for a SHA
func (r *Repo) Lookup(sha string) (*object.Commit, error) {
	c, err := r.repo.CommitObject(plumbing.NewHash(sha))
	if err != nil {
		return nil, errors.CommitNotFound(err, sha)
	}
	return c, nil
}

// Subject returns the first line of a commit's message
func (r *Repo) Subject(sha string) (string, error) {
	c, err := r.Lookup(sha)
	if err != nil {
		return "", err
	}
	return subjectLine(c.Message), nil
}

func subjectLine(message string) string {
	if i := strings.IndexByte(message, '\n'); i >= 0 {
		message = message[:i]
	}
	return strings.TrimSpace(message)
}
