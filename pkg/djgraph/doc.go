// Package djgraph constructs DJ-graphs from control-flow graphs.
//
// # Overview
//
// A DJ-graph (Sreedhar, Gao, Lee: "Identifying loops using DJ graphs")
// overlays a CFG's dominator tree with the CFG edges the tree does not
// cover, classifying every edge into one of three kinds:
//
//   - Dominance (D): a dominator-tree edge, parent → immediate dominatee.
//   - BackJoin (BJ): a non-tree edge whose destination dominates its
//     source. A BJ edge closes a cycle back toward a dominance ancestor
//     and marks a natural loop.
//   - CrossJoin (CJ): every other non-tree edge.
//
// Each vertex carries its dominance level: the entry sits at level 0 and
// every vertex is one level below its immediate dominator. Levels plus the
// BJ/CJ split are exactly what loop-identification passes traverse.
//
// # Building
//
// [Build] takes any [cfg.Digraph], its entry vertex, and a dominator
// oracle (anything satisfying [DominatorOracle]; *dom.Tree does):
//
//	tree := dom.Compute[string](g, entry)
//	dj, err := djgraph.Build[string](g, entry, tree)
//	if err != nil {
//	    return err
//	}
//	for _, e := range dj.EdgesOfKind(djgraph.BackJoin) {
//	    // e.To is a loop header, e.From its latch
//	}
//
// Build is a pure function of its inputs and does exactly three passes:
// materialize the dominator tree (assigning levels), emit its edges as
// Dominance edges, then classify every CFG edge. A CFG edge that coincides
// with a tree edge is covered by the Dominance edge and never re-labeled;
// among the rest the dominance predicate alone decides BJ versus CJ.
// Total cost is O(V+E) on top of the oracle's query cost.
//
// The builder expects every CFG edge endpoint to be reachable from the
// entry. An edge into (or out of) unreachable territory fails the build
// with [ErrUnreachableEndpoint]; a dominator oracle that reports a cycle
// or re-parents a vertex fails it with [ErrMalformedDomTree]. On error no
// partial graph is returned.
//
// # The result
//
// [Graph] implements [cfg.Digraph] itself, so a DJ-graph can be handed to
// anything that consumes the capability interface, including dom.Compute.
// Concurrent builds over distinct inputs need no synchronization; a built
// Graph is immutable and safe for concurrent reads.
//
// String-vertex graphs additionally serialize to a JSON/BSON [Document]
// and render to Graphviz DOT with [ToDOT].
//
// # Edge kinds are not ordered
//
// [Kind] supports equality only. There is no meaningful order between
// Dominance, BackJoin, and CrossJoin, so Kind is deliberately a struct:
// comparing two kinds with < is a compile error, not a runtime surprise.
package djgraph
