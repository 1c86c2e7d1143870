// Package dom computes dominator trees for control-flow graphs.
//
// # Overview
//
// A vertex u dominates a vertex v when every path from the entry block to
// v passes through u. The immediate dominator of v is the closest strict
// dominator, and the parent→child relation over immediate dominators forms
// the dominator tree rooted at the entry block. The tree is the input every
// dominance-based analysis in this repository starts from, most notably
// the DJ-graph construction in package djgraph.
//
// # Algorithm
//
// [Compute] uses the iterative dataflow formulation by Cooper, Harvey, and
// Kennedy ("A Simple, Fast Dominance Algorithm"): immediate dominators are
// refined over the reverse postorder of the CFG until a fixed point, with
// the two-finger intersection walking up the partial tree. On reducible
// CFGs this converges in two passes; on irreducible ones it takes a few
// more, and it is simple enough to trust.
//
// Dominance queries run in O(1): the finished tree is numbered with
// pre/post intervals, and u dominates v exactly when u's interval contains
// v's.
//
// # Usage
//
//	tree := dom.Compute[string](g, "entry")
//	tree.Idom("loop.body")        // parent in the dominator tree
//	tree.Children("entry")        // immediately dominated blocks
//	tree.Dominates("entry", "x")  // true for every reachable x
//
// Vertices unreachable from the entry are simply absent: [Tree.Reachable]
// reports false and [Tree.Dominates] is false for any query touching them.
package dom
