package djgraph

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"github.com/flowlens/flowlens/pkg/cfg"
)

var (
	// ErrUnreachableEndpoint is returned by [Build] when a CFG edge
	// references a vertex that is not reachable from the entry through
	// the dominator tree. The caller must hand Build a graph whose edges
	// stay within the entry's reachable region.
	ErrUnreachableEndpoint = errors.New("edge endpoint not reachable from entry")

	// ErrMalformedDomTree is returned by [Build] when the dominator
	// oracle reports a child twice: a cycle or a duplicate parent. A
	// correct oracle never triggers it.
	ErrMalformedDomTree = errors.New("malformed dominator tree")

	// ErrUnknownKind is returned when decoding an edge kind name that is
	// not one of dominance, back-join, cross-join.
	ErrUnknownKind = errors.New("unknown edge kind")
)

// DominatorOracle is the dominator oracle capability [Build] consumes.
// *dom.Tree satisfies it.
type DominatorOracle[V cmp.Ordered] interface {
	// Children returns the vertices immediately dominated by v. The
	// result must be deterministic across calls, and every vertex
	// reachable from the tree root must appear under exactly one parent.
	Children(v V) []V

	// Dominates reports whether u dominates v, non-strictly: every
	// vertex dominates itself.
	Dominates(u, v V) bool
}

// Vertex is a DJ-graph vertex: an underlying CFG vertex together with its
// dominance level. Identity is the underlying vertex alone; the level is
// derived payload.
type Vertex[V cmp.Ordered] struct {
	ID    V
	Level int
}

// Edge is a labeled DJ-graph edge.
type Edge[V cmp.Ordered] struct {
	From V
	To   V
	Kind Kind
}

type pair[V cmp.Ordered] struct {
	from, to V
}

// Graph is a DJ-graph: the dominator tree of a CFG plus its classified
// join edges. Construct one with [Build]; the zero value is not usable.
//
// Graph implements [cfg.Digraph], so a DJ-graph feeds back into anything
// consuming the capability interface. A built graph is immutable.
type Graph[V cmp.Ordered] struct {
	entry V
	level map[V]int
	order []V // dominator-tree discovery order, drives iteration
	edges []Edge[V]
	succs map[V][]V
	preds map[V][]V
	kinds map[pair[V]]Kind
}

// Build constructs the DJ-graph of g rooted at entry, using dom as the
// dominator oracle. The oracle must have been computed over the same graph
// and entry; Build treats both as immutable snapshots.
//
// Build is pure: it owns all intermediate state, returns a fresh graph,
// and independent calls may run concurrently without synchronization.
func Build[V cmp.Ordered](g cfg.Digraph[V], entry V, dom DominatorOracle[V]) (*Graph[V], error) {
	out := &Graph[V]{
		entry: entry,
		level: make(map[V]int, g.VertexCount()),
		succs: make(map[V][]V),
		preds: make(map[V][]V),
		kinds: make(map[pair[V]]Kind),
	}

	// Pass 1: materialize the dominator tree, assigning each vertex its
	// level. Explicit stack: dominator trees of straight-line code
	// degenerate into chains as deep as the program is long.
	type item struct {
		v     V
		level int
	}
	stack := []item{{entry, 0}}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, dup := out.level[it.v]; dup {
			return nil, fmt.Errorf("%w: vertex %v reported under two parents", ErrMalformedDomTree, it.v)
		}
		out.level[it.v] = it.level
		out.order = append(out.order, it.v)
		children := dom.Children(it.v)
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, item{children[i], it.level + 1})
		}
	}

	// Pass 2: the tree itself, as Dominance edges.
	for _, v := range out.order {
		for _, c := range dom.Children(v) {
			out.addEdge(v, c, Dominance)
		}
	}

	// Pass 3: classify every CFG edge. Tree edges are already covered by
	// their Dominance edge and are skipped; the rest split on the
	// dominance predicate alone. The D → BJ → CJ order is load-bearing.
	var err error
	g.EachEdge(func(s, d V) bool {
		if _, ok := out.level[s]; !ok {
			err = fmt.Errorf("%w: edge %v→%v, source %v", ErrUnreachableEndpoint, s, d, s)
			return false
		}
		if _, ok := out.level[d]; !ok {
			err = fmt.Errorf("%w: edge %v→%v, destination %v", ErrUnreachableEndpoint, s, d, d)
			return false
		}
		if k, ok := out.kinds[pair[V]{s, d}]; ok && k == Dominance {
			return true
		}
		if dom.Dominates(d, s) {
			out.addEdge(s, d, BackJoin)
		} else {
			out.addEdge(s, d, CrossJoin)
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (g *Graph[V]) addEdge(from, to V, kind Kind) {
	g.edges = append(g.edges, Edge[V]{From: from, To: to, Kind: kind})
	g.succs[from] = append(g.succs[from], to)
	g.preds[to] = append(g.preds[to], from)
	if _, ok := g.kinds[pair[V]{from, to}]; !ok {
		g.kinds[pair[V]{from, to}] = kind
	}
}

// Entry returns the entry vertex (level 0, the dominator-tree root).
func (g *Graph[V]) Entry() V { return g.entry }

// Level returns the dominance level of v: 0 for the entry, one more than
// the immediate dominator for everything else. The second return is false
// when v is not part of the graph.
func (g *Graph[V]) Level(v V) (int, bool) {
	l, ok := g.level[v]
	return l, ok
}

// Vertices returns all vertices with their levels, in dominator-tree
// discovery order. The returned slice is a copy.
func (g *Graph[V]) Vertices() []Vertex[V] {
	out := make([]Vertex[V], len(g.order))
	for i, v := range g.order {
		out[i] = Vertex[V]{ID: v, Level: g.level[v]}
	}
	return out
}

// Edges returns a copy of all labeled edges in insertion order: Dominance
// edges first (tree order), then join edges in CFG edge order.
func (g *Graph[V]) Edges() []Edge[V] { return slices.Clone(g.edges) }

// EdgesOfKind returns the edges labeled kind, in insertion order.
func (g *Graph[V]) EdgesOfKind(kind Kind) []Edge[V] {
	var out []Edge[V]
	for _, e := range g.edges {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// Kind returns the label of the edge from→to. For parallel edges (which
// always classify identically) the single shared kind is returned. The
// second return is false when no such edge exists.
func (g *Graph[V]) Kind(from, to V) (Kind, bool) {
	k, ok := g.kinds[pair[V]{from, to}]
	return k, ok
}

// VertexCount returns the number of vertices.
func (g *Graph[V]) VertexCount() int { return len(g.order) }

// EdgeCount returns the number of labeled edges, counting parallel edges
// individually.
func (g *Graph[V]) EdgeCount() int { return len(g.edges) }

// EachVertex calls fn for every vertex in discovery order until fn
// returns false.
func (g *Graph[V]) EachVertex(fn func(v V) bool) {
	for _, v := range g.order {
		if !fn(v) {
			return
		}
	}
}

// EachEdge calls fn for every edge in insertion order until fn returns
// false.
func (g *Graph[V]) EachEdge(fn func(from, to V) bool) {
	for _, e := range g.edges {
		if !fn(e.From, e.To) {
			return
		}
	}
}

// Succs returns the successors of v across all edge kinds, one entry per
// edge. The returned slice is a read-only view.
func (g *Graph[V]) Succs(v V) []V { return g.succs[v] }

// Preds returns the predecessors of v across all edge kinds, one entry
// per edge. The returned slice is a read-only view.
func (g *Graph[V]) Preds(v V) []V { return g.preds[v] }

var _ cfg.Digraph[string] = (*Graph[string])(nil)
