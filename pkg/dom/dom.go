package dom

import (
	"cmp"
	"slices"

	"github.com/flowlens/flowlens/pkg/cfg"
)

// Tree is a dominator tree over the vertices reachable from the entry of a
// control-flow graph. Construct one with [Compute]; the zero value is not
// usable.
//
// A finished tree is immutable and safe for concurrent reads.
type Tree[V cmp.Ordered] struct {
	root     V
	idom     map[V]V   // vertex → immediate dominator; the root is absent
	children map[V][]V // vertex → immediately dominated vertices, sorted
	pre      map[V]int // dom-tree preorder number
	post     map[V]int // dom-tree postorder number
}

// Compute builds the dominator tree of g rooted at entry.
//
// Every vertex reachable from entry appears in the tree exactly once;
// unreachable vertices are absent. An entry that has no outgoing edges (or
// is not part of g at all) yields a tree containing only the entry.
func Compute[V cmp.Ordered](g cfg.Digraph[V], entry V) *Tree[V] {
	// CFG postorder from the entry, with an explicit stack: dominator
	// trees of lifted binaries can be thousands of blocks deep.
	type frame struct {
		v V
		i int // next successor index
	}
	seen := map[V]bool{entry: true}
	stack := []frame{{v: entry}}
	var order []V
	for len(stack) > 0 {
		f := &stack[len(stack)-1]
		succs := g.Succs(f.v)
		if f.i < len(succs) {
			s := succs[f.i]
			f.i++
			if !seen[s] {
				seen[s] = true
				stack = append(stack, frame{v: s})
			}
			continue
		}
		order = append(order, f.v)
		stack = stack[:len(stack)-1]
	}

	postnum := make(map[V]int, len(order))
	for i, v := range order {
		postnum[v] = i
	}

	// Iterate to a fixed point over reverse postorder. idom[entry] is
	// pinned to entry itself so the intersection walk terminates.
	idom := make(map[V]V, len(order))
	idom[entry] = entry
	for changed := true; changed; {
		changed = false
		for i := len(order) - 2; i >= 0; i-- {
			b := order[i]
			var newIdom V
			found := false
			for _, p := range g.Preds(b) {
				if _, ok := idom[p]; !ok {
					continue // unreachable or not yet processed
				}
				if !found {
					newIdom, found = p, true
				} else {
					newIdom = intersect(p, newIdom, idom, postnum)
				}
			}
			if !found {
				continue
			}
			if cur, ok := idom[b]; !ok || cur != newIdom {
				idom[b] = newIdom
				changed = true
			}
		}
	}
	delete(idom, entry)

	t := &Tree[V]{
		root:     entry,
		idom:     idom,
		children: make(map[V][]V),
		pre:      make(map[V]int, len(order)),
		post:     make(map[V]int, len(order)),
	}
	for v, p := range idom {
		t.children[p] = append(t.children[p], v)
	}
	for _, cs := range t.children {
		slices.Sort(cs)
	}
	t.number()
	return t
}

// intersect walks the two candidate dominators up the partial tree until
// they meet, following Cooper/Harvey/Kennedy's two-finger scheme.
func intersect[V cmp.Ordered](a, b V, idom map[V]V, postnum map[V]int) V {
	for a != b {
		for postnum[a] < postnum[b] {
			a = idom[a]
		}
		for postnum[b] < postnum[a] {
			b = idom[b]
		}
	}
	return a
}

// number assigns pre/post interval numbers to the finished tree, again
// with an explicit stack.
func (t *Tree[V]) number() {
	type frame struct {
		v V
		i int // next child index
	}
	n := 0
	stack := []frame{{v: t.root}}
	t.pre[t.root] = n
	n++
	for len(stack) > 0 {
		f := &stack[len(stack)-1]
		cs := t.children[f.v]
		if f.i < len(cs) {
			c := cs[f.i]
			f.i++
			t.pre[c] = n
			n++
			stack = append(stack, frame{v: c})
			continue
		}
		t.post[f.v] = n
		n++
		stack = stack[:len(stack)-1]
	}
}

// Root returns the entry vertex the tree is rooted at.
func (t *Tree[V]) Root() V { return t.root }

// Size returns the number of vertices in the tree, i.e. the number of
// vertices reachable from the root.
func (t *Tree[V]) Size() int { return len(t.pre) }

// Reachable reports whether v is reachable from the root.
func (t *Tree[V]) Reachable(v V) bool {
	_, ok := t.pre[v]
	return ok
}

// Idom returns the immediate dominator of v. The second return is false
// for the root (which has no parent) and for unreachable vertices.
func (t *Tree[V]) Idom(v V) (V, bool) {
	p, ok := t.idom[v]
	return p, ok
}

// Children returns the vertices immediately dominated by v, sorted
// ascending. The returned slice is a read-only view.
func (t *Tree[V]) Children(v V) []V { return t.children[v] }

// Dominates reports whether u dominates v, non-strictly: every vertex
// dominates itself. Queries involving unreachable vertices return false.
//
// The check is O(1) interval containment over the tree numbering.
func (t *Tree[V]) Dominates(u, v V) bool {
	upre, ok := t.pre[u]
	if !ok {
		return false
	}
	vpre, ok := t.pre[v]
	if !ok {
		return false
	}
	return upre <= vpre && t.post[v] <= t.post[u]
}
