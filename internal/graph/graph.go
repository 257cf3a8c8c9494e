// Package graph accumulates textual dependency edges over an ordered commit
// sequence and answers reachability queries on the result.
package graph

import (
	"sort"

	"github.com/patchdeps/patchdeps/internal/errors"
)

// Witness is one (file, line) pair justifying a dependency edge
type Witness struct {
	Path string `json:"path"`
	Line int    `json:"line"`
}

// Edge records that To modifies, removes or sits on lines From last touched.
// From is always earlier in the commit sequence than To.
type Edge struct {
	From      string    `json:"from"`
	To        string    `json:"to"`
	Witnesses []Witness `json:"witnesses"`
}

type edgeKey struct {
	from, to string
}

// Graph is a directed dependency graph over commit ids in sequence order.
// Edges only point backward in time, so the graph is acyclic by
// construction. Accumulate-only: edges are added during extraction and the
// graph is handed read-only to renderers.
type Graph struct {
	order   []string
	index   map[string]int
	edges   map[edgeKey]*Edge
	seen    map[edgeKey]map[Witness]struct{}
	closure map[string]map[string]bool // lazily computed, invalidated on AddEdge
}

// New returns an empty graph
func New() *Graph {
	return &Graph{
		index: make(map[string]int),
		edges: make(map[edgeKey]*Edge),
		seen:  make(map[edgeKey]map[Witness]struct{}),
	}
}

// AddCommit appends a commit to the sequence. Its position is its insertion
// order. Adding an already-present commit is a no-op.
func (g *Graph) AddCommit(id string) {
	if _, ok := g.index[id]; ok {
		return
	}
	g.index[id] = len(g.order)
	g.order = append(g.order, id)
}

// AddEdge inserts the edge (from -> to) or merges the witness into an
// existing edge. Both endpoints must be known, from must precede to in the
// sequence, and self edges are rejected; this is what keeps the graph
// acyclic.
func (g *Graph) AddEdge(from, to string, w Witness) error {
	fi, ok := g.index[from]
	if !ok {
		return errors.UnknownCommitf("edge endpoint not in graph: %s", from)
	}
	ti, ok := g.index[to]
	if !ok {
		return errors.UnknownCommitf("edge endpoint not in graph: %s", to)
	}
	if fi >= ti {
		return errors.Internalf("dependency edge must point backward in sequence: %s (pos %d) -> %s (pos %d)", from, fi, to, ti)
	}

	key := edgeKey{from, to}
	e, ok := g.edges[key]
	if !ok {
		e = &Edge{From: from, To: to}
		g.edges[key] = e
		g.seen[key] = make(map[Witness]struct{})
		g.closure = nil
	}
	if _, dup := g.seen[key][w]; !dup {
		g.seen[key][w] = struct{}{}
		e.Witnesses = append(e.Witnesses, w)
	}
	return nil
}

// Commits returns the commit ids in sequence order
func (g *Graph) Commits() []string {
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

// Position returns the sequence position of a commit
func (g *Graph) Position(id string) (int, error) {
	i, ok := g.index[id]
	if !ok {
		return 0, errors.UnknownCommitf("commit not in graph: %s", id)
	}
	return i, nil
}

// Edges returns every edge, ordered by (dependent, dependency) position
func (g *Graph) Edges() []Edge {
	out := make([]Edge, 0, len(g.edges))
	for _, e := range g.edges {
		out = append(out, g.copyEdge(e))
	}
	g.sortEdges(out)
	return out
}

// EdgesFor returns every edge with commit as either endpoint
func (g *Graph) EdgesFor(id string) ([]Edge, error) {
	if _, ok := g.index[id]; !ok {
		return nil, errors.UnknownCommitf("commit not in graph: %s", id)
	}
	var out []Edge
	for _, e := range g.edges {
		if e.From == id || e.To == id {
			out = append(out, g.copyEdge(e))
		}
	}
	g.sortEdges(out)
	return out, nil
}

// DependenciesOf returns the commits id directly depends on, earliest first
func (g *Graph) DependenciesOf(id string) ([]string, error) {
	if _, ok := g.index[id]; !ok {
		return nil, errors.UnknownCommitf("commit not in graph: %s", id)
	}
	var out []string
	for key := range g.edges {
		if key.to == id {
			out = append(out, key.from)
		}
	}
	g.sortByPosition(out)
	return out, nil
}

// DependentsOf returns the commits that directly depend on id, earliest first
func (g *Graph) DependentsOf(id string) ([]string, error) {
	if _, ok := g.index[id]; !ok {
		return nil, errors.UnknownCommitf("commit not in graph: %s", id)
	}
	var out []string
	for key := range g.edges {
		if key.from == id {
			out = append(out, key.to)
		}
	}
	g.sortByPosition(out)
	return out, nil
}

// HasEdge reports whether a direct edge (from -> to) exists
func (g *Graph) HasEdge(from, to string) bool {
	_, ok := g.edges[edgeKey{from, to}]
	return ok
}

// TransitiveClosure maps each commit to the set of commits it transitively
// depends on. Computed by a single pass in sequence order: a commit's
// closure is the union of its direct dependencies and their closures, which
// are already final because edges only point backward.
func (g *Graph) TransitiveClosure() map[string]map[string]bool {
	if g.closure != nil {
		return g.closure
	}
	closure := make(map[string]map[string]bool, len(g.order))
	for _, id := range g.order {
		set := make(map[string]bool)
		for key := range g.edges {
			if key.to != id {
				continue
			}
			set[key.from] = true
			for dep := range closure[key.from] {
				set[dep] = true
			}
		}
		closure[id] = set
	}
	g.closure = closure
	return closure
}

// DependsOn reports whether a transitively depends on b
func (g *Graph) DependsOn(a, b string) (bool, error) {
	if _, ok := g.index[a]; !ok {
		return false, errors.UnknownCommitf("commit not in graph: %s", a)
	}
	if _, ok := g.index[b]; !ok {
		return false, errors.UnknownCommitf("commit not in graph: %s", b)
	}
	return g.TransitiveClosure()[a][b], nil
}

// IsReorderSafe reports whether the later of a and b does not depend,
// directly or transitively, on the earlier: swapping their apply order
// would not break either patch textually.
func (g *Graph) IsReorderSafe(a, b string) (bool, error) {
	pa, err := g.Position(a)
	if err != nil {
		return false, err
	}
	pb, err := g.Position(b)
	if err != nil {
		return false, err
	}
	earlier, later := a, b
	if pa > pb {
		earlier, later = b, a
	}
	return !g.TransitiveClosure()[later][earlier], nil
}

// TransitiveReduction returns the edges that are not implied by other edges:
// (a, c) is dropped when some other direct dependency b of c already
// transitively depends on a.
func (g *Graph) TransitiveReduction() []Edge {
	closure := g.TransitiveClosure()
	var out []Edge
	for key, e := range g.edges {
		redundant := false
		for other := range g.edges {
			if other.to != key.to || other.from == key.from {
				continue
			}
			if closure[other.from][key.from] {
				redundant = true
				break
			}
		}
		if !redundant {
			out = append(out, g.copyEdge(e))
		}
	}
	g.sortEdges(out)
	return out
}

// DependencyPath returns one chain of direct dependency edges leading from
// start back to target (start first), or nil when start does not depend on
// target. Used to explain why a reorder is unsafe.
func (g *Graph) DependencyPath(start, target string) []string {
	if start == target {
		return []string{start}
	}
	deps, err := g.DependenciesOf(start)
	if err != nil {
		return nil
	}
	for _, dep := range deps {
		if tail := g.DependencyPath(dep, target); tail != nil {
			return append([]string{start}, tail...)
		}
	}
	return nil
}

func (g *Graph) copyEdge(e *Edge) Edge {
	ws := make([]Witness, len(e.Witnesses))
	copy(ws, e.Witnesses)
	sort.Slice(ws, func(i, j int) bool {
		if ws[i].Path != ws[j].Path {
			return ws[i].Path < ws[j].Path
		}
		return ws[i].Line < ws[j].Line
	})
	return Edge{From: e.From, To: e.To, Witnesses: ws}
}

func (g *Graph) sortEdges(edges []Edge) {
	sort.Slice(edges, func(i, j int) bool {
		if g.index[edges[i].To] != g.index[edges[j].To] {
			return g.index[edges[i].To] < g.index[edges[j].To]
		}
		return g.index[edges[i].From] < g.index[edges[j].From]
	})
}

func (g *Graph) sortByPosition(ids []string) {
	sort.Slice(ids, func(i, j int) bool {
		return g.index[ids[i]] < g.index[ids[j]]
	})
}
