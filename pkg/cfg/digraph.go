package cfg

import (
	"cmp"
	"slices"
)

// Digraph is the capability interface FlowLens analyses consume.
//
// It deliberately says nothing about mutation or storage: the dominator
// computation and the DJ-graph builder only ever count, iterate, and ask
// for neighbors. [Graph] implements it, and so does the DJ-graph itself,
// which lets analysis output feed back into anything that takes a Digraph.
//
// Implementations must yield parallel edges from EachEdge as often as they
// occur and must iterate deterministically: two walks over an unchanged
// graph see the same order.
type Digraph[V cmp.Ordered] interface {
	// VertexCount returns the number of vertices.
	VertexCount() int

	// EachVertex calls fn for every vertex until fn returns false.
	EachVertex(fn func(v V) bool)

	// EachEdge calls fn for every directed edge until fn returns false.
	// Parallel edges are yielded once per occurrence.
	EachEdge(fn func(from, to V) bool)

	// Preds returns the direct predecessors of v, one entry per incoming
	// edge. The returned slice is a read-only view.
	Preds(v V) []V

	// Succs returns the direct successors of v, one entry per outgoing
	// edge. The returned slice is a read-only view.
	Succs(v V) []V
}

// SortedVertices gathers all vertices of g and sorts them ascending, for
// output that must be canonical regardless of insertion order.
func SortedVertices[V cmp.Ordered](g Digraph[V]) []V {
	out := make([]V, 0, g.VertexCount())
	g.EachVertex(func(v V) bool {
		out = append(out, v)
		return true
	})
	slices.Sort(out)
	return out
}
