package cfg

import (
	"cmp"
	"errors"
	"slices"
)

var (
	// ErrDuplicateVertex is returned by [Graph.AddVertex] when the vertex
	// already exists in the graph. Vertex identifiers must be unique.
	ErrDuplicateVertex = errors.New("duplicate vertex")

	// ErrUnknownSource is returned by [Graph.AddEdge] when the From vertex
	// does not exist in the graph.
	ErrUnknownSource = errors.New("unknown source vertex")

	// ErrUnknownTarget is returned by [Graph.AddEdge] when the To vertex
	// does not exist in the graph.
	ErrUnknownTarget = errors.New("unknown target vertex")

	// ErrUnknownVertex is returned by [Graph.SetEntry] when the vertex does
	// not exist in the graph.
	ErrUnknownVertex = errors.New("unknown vertex")
)

// Edge is a directed connection between two basic blocks.
type Edge[V cmp.Ordered] struct {
	From V
	To   V
}

// Graph is a mutable control-flow graph. Cycles, self-loops, and parallel
// edges are all allowed; a CFG with a loop is the normal case, not an
// error.
//
// The zero value is not usable - use [New]. Graph is not safe for
// concurrent mutation.
type Graph[V cmp.Ordered] struct {
	vertices map[V]struct{}
	order    []V // vertex insertion order, drives iteration
	edges    []Edge[V]
	succs    map[V][]V
	preds    map[V][]V
	entry    V
	hasEntry bool
}

// New creates an empty control-flow graph.
func New[V cmp.Ordered]() *Graph[V] {
	return &Graph[V]{
		vertices: make(map[V]struct{}),
		succs:    make(map[V][]V),
		preds:    make(map[V][]V),
	}
}

// AddVertex adds a basic block to the graph.
// Returns ErrDuplicateVertex if the vertex already exists.
func (g *Graph[V]) AddVertex(v V) error {
	if _, exists := g.vertices[v]; exists {
		return ErrDuplicateVertex
	}
	g.vertices[v] = struct{}{}
	g.order = append(g.order, v)
	return nil
}

// AddEdge adds a directed edge between two existing vertices.
// Returns ErrUnknownSource or ErrUnknownTarget if an endpoint is missing.
// Self-loops and parallel edges are allowed.
func (g *Graph[V]) AddEdge(from, to V) error {
	if _, ok := g.vertices[from]; !ok {
		return ErrUnknownSource
	}
	if _, ok := g.vertices[to]; !ok {
		return ErrUnknownTarget
	}
	g.edges = append(g.edges, Edge[V]{From: from, To: to})
	g.succs[from] = append(g.succs[from], to)
	g.preds[to] = append(g.preds[to], from)
	return nil
}

// SetEntry marks v as the graph's entry block.
// Returns ErrUnknownVertex if v has not been added.
func (g *Graph[V]) SetEntry(v V) error {
	if _, ok := g.vertices[v]; !ok {
		return ErrUnknownVertex
	}
	g.entry = v
	g.hasEntry = true
	return nil
}

// Entry returns the entry block and true, or the zero value and false if
// no entry has been set.
func (g *Graph[V]) Entry() (V, bool) { return g.entry, g.hasEntry }

// HasVertex reports whether v is in the graph.
func (g *Graph[V]) HasVertex(v V) bool {
	_, ok := g.vertices[v]
	return ok
}

// HasEdge reports whether at least one edge from→to exists.
func (g *Graph[V]) HasEdge(from, to V) bool {
	return slices.Contains(g.succs[from], to)
}

// Vertices returns all vertices in insertion order.
// The returned slice is a copy and can be modified freely.
func (g *Graph[V]) Vertices() []V { return slices.Clone(g.order) }

// Edges returns a copy of all edges in insertion order.
func (g *Graph[V]) Edges() []Edge[V] { return slices.Clone(g.edges) }

// VertexCount returns the number of vertices in the graph.
func (g *Graph[V]) VertexCount() int { return len(g.vertices) }

// EdgeCount returns the number of edges, counting parallel edges
// individually.
func (g *Graph[V]) EdgeCount() int { return len(g.edges) }

// EachVertex calls fn for every vertex in insertion order until fn
// returns false.
func (g *Graph[V]) EachVertex(fn func(v V) bool) {
	for _, v := range g.order {
		if !fn(v) {
			return
		}
	}
}

// EachEdge calls fn for every edge in insertion order until fn returns
// false. Parallel edges are yielded once per occurrence.
func (g *Graph[V]) EachEdge(fn func(from, to V) bool) {
	for _, e := range g.edges {
		if !fn(e.From, e.To) {
			return
		}
	}
}

// Succs returns the successors of v, one entry per outgoing edge.
// Returns nil if v has no outgoing edges or doesn't exist. The returned
// slice should not be modified - use it as a read-only view.
func (g *Graph[V]) Succs(v V) []V { return g.succs[v] }

// Preds returns the predecessors of v, one entry per incoming edge.
// Returns nil if v has no incoming edges or doesn't exist. The returned
// slice should not be modified - use it as a read-only view.
func (g *Graph[V]) Preds(v V) []V { return g.preds[v] }

// OutDegree returns the number of outgoing edges from v.
func (g *Graph[V]) OutDegree(v V) int { return len(g.succs[v]) }

// InDegree returns the number of incoming edges to v.
func (g *Graph[V]) InDegree(v V) int { return len(g.preds[v]) }

// Clone returns a deep copy of the graph.
func (g *Graph[V]) Clone() *Graph[V] {
	c := New[V]()
	for _, v := range g.order {
		c.vertices[v] = struct{}{}
	}
	c.order = slices.Clone(g.order)
	c.edges = slices.Clone(g.edges)
	for v, ss := range g.succs {
		c.succs[v] = slices.Clone(ss)
	}
	for v, ps := range g.preds {
		c.preds[v] = slices.Clone(ps)
	}
	c.entry = g.entry
	c.hasEntry = g.hasEntry
	return c
}

var _ Digraph[string] = (*Graph[string])(nil)
