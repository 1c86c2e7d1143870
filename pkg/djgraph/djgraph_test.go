package djgraph_test

import (
	"errors"
	"testing"

	"github.com/flowlens/flowlens/pkg/cfg"
	"github.com/flowlens/flowlens/pkg/djgraph"
	"github.com/flowlens/flowlens/pkg/dom"
)

// build constructs a graph from an edge list, adding vertices on first use
// in edge order.
func build(t *testing.T, entry string, edges [][2]string) *cfg.Graph[string] {
	t.Helper()
	g := cfg.New[string]()
	add := func(v string) {
		if !g.HasVertex(v) {
			if err := g.AddVertex(v); err != nil {
				t.Fatalf("AddVertex(%s) = %v", v, err)
			}
		}
	}
	add(entry)
	for _, e := range edges {
		add(e[0])
		add(e[1])
		if err := g.AddEdge(e[0], e[1]); err != nil {
			t.Fatalf("AddEdge(%s, %s) = %v", e[0], e[1], err)
		}
	}
	if err := g.SetEntry(entry); err != nil {
		t.Fatalf("SetEntry(%s) = %v", entry, err)
	}
	return g
}

func mustBuild(t *testing.T, g *cfg.Graph[string], entry string) *djgraph.Graph[string] {
	t.Helper()
	dj, err := djgraph.Build[string](g, entry, dom.Compute[string](g, entry))
	if err != nil {
		t.Fatalf("Build() = %v", err)
	}
	return dj
}

func wantKind(t *testing.T, dj *djgraph.Graph[string], from, to string, want djgraph.Kind) {
	t.Helper()
	got, ok := dj.Kind(from, to)
	if !ok {
		t.Errorf("Kind(%s, %s): edge missing", from, to)
		return
	}
	if got != want {
		t.Errorf("Kind(%s, %s) = %s, want %s", from, to, got, want)
	}
}

func TestBuild_SingleVertex(t *testing.T) {
	g := build(t, "a", nil)
	dj := mustBuild(t, g, "a")

	if dj.VertexCount() != 1 {
		t.Errorf("VertexCount() = %d, want 1", dj.VertexCount())
	}
	if dj.EdgeCount() != 0 {
		t.Errorf("EdgeCount() = %d, want 0", dj.EdgeCount())
	}
	if l, ok := dj.Level("a"); !ok || l != 0 {
		t.Errorf("Level(a) = %d, %v, want 0, true", l, ok)
	}
	if dj.Entry() != "a" {
		t.Errorf("Entry() = %s, want a", dj.Entry())
	}
}

func TestBuild_SelfLoop(t *testing.T) {
	// A vertex dominates itself, so a self-edge is always a back-join.
	g := build(t, "a", [][2]string{{"a", "a"}})
	dj := mustBuild(t, g, "a")

	if dj.EdgeCount() != 1 {
		t.Fatalf("EdgeCount() = %d, want 1", dj.EdgeCount())
	}
	wantKind(t, dj, "a", "a", djgraph.BackJoin)
}

func TestBuild_SimpleLoop(t *testing.T) {
	// a → b → a: tree edge a→b, back edge b→a since a dominates b.
	g := build(t, "a", [][2]string{{"a", "b"}, {"b", "a"}})
	dj := mustBuild(t, g, "a")

	wantKind(t, dj, "a", "b", djgraph.Dominance)
	wantKind(t, dj, "b", "a", djgraph.BackJoin)
	if l, _ := dj.Level("b"); l != 1 {
		t.Errorf("Level(b) = %d, want 1", l)
	}
}

func TestBuild_Diamond(t *testing.T) {
	//   a
	//  / \
	// b   c
	//  \ /
	//   d
	// d's immediate dominator is a, so b→d and c→d are cross-joins.
	g := build(t, "a", [][2]string{{"a", "b"}, {"a", "c"}, {"b", "d"}, {"c", "d"}})
	dj := mustBuild(t, g, "a")

	wantKind(t, dj, "a", "b", djgraph.Dominance)
	wantKind(t, dj, "a", "c", djgraph.Dominance)
	wantKind(t, dj, "a", "d", djgraph.Dominance)
	wantKind(t, dj, "b", "d", djgraph.CrossJoin)
	wantKind(t, dj, "c", "d", djgraph.CrossJoin)

	for v, want := range map[string]int{"a": 0, "b": 1, "c": 1, "d": 1} {
		if got, _ := dj.Level(v); got != want {
			t.Errorf("Level(%s) = %d, want %d", v, got, want)
		}
	}
	if got := len(dj.EdgesOfKind(djgraph.Dominance)); got != 3 {
		t.Errorf("Dominance edges = %d, want 3", got)
	}
	if got := len(dj.EdgesOfKind(djgraph.CrossJoin)); got != 2 {
		t.Errorf("CrossJoin edges = %d, want 2", got)
	}
}

func TestBuild_NaturalLoop(t *testing.T) {
	// a → b → c → d, with the latch d closing back to the header b.
	g := build(t, "a", [][2]string{{"a", "b"}, {"b", "c"}, {"c", "d"}, {"d", "b"}})
	dj := mustBuild(t, g, "a")

	wantKind(t, dj, "d", "b", djgraph.BackJoin)
	bjs := dj.EdgesOfKind(djgraph.BackJoin)
	if len(bjs) != 1 {
		t.Fatalf("BackJoin edges = %d, want 1", len(bjs))
	}
	if bjs[0].From != "d" || bjs[0].To != "b" {
		t.Errorf("back-join = %s→%s, want d→b", bjs[0].From, bjs[0].To)
	}
	// Back-joins never descend: level(to) <= level(from).
	lf, _ := dj.Level(bjs[0].From)
	lt, _ := dj.Level(bjs[0].To)
	if lt > lf {
		t.Errorf("back-join rises in level: %d → %d", lf, lt)
	}
}

func TestBuild_TreeEdgeNotRelabeled(t *testing.T) {
	// The CFG edge a→b coincides with the dominator-tree edge a→b. It
	// must stay a single Dominance edge, never gain a BJ/CJ duplicate.
	g := build(t, "a", [][2]string{{"a", "b"}})
	dj := mustBuild(t, g, "a")

	if dj.EdgeCount() != 1 {
		t.Fatalf("EdgeCount() = %d, want 1", dj.EdgeCount())
	}
	wantKind(t, dj, "a", "b", djgraph.Dominance)
}

func TestBuild_ParallelEdges(t *testing.T) {
	// Two parallel b→d cross edges both survive with identical kinds.
	g := build(t, "a", [][2]string{{"a", "b"}, {"a", "d"}, {"b", "d"}, {"b", "d"}})
	dj := mustBuild(t, g, "a")

	var cjs int
	for _, e := range dj.EdgesOfKind(djgraph.CrossJoin) {
		if e.From == "b" && e.To == "d" {
			cjs++
		}
	}
	if cjs != 2 {
		t.Errorf("parallel b→d cross-joins = %d, want 2", cjs)
	}
}

func TestBuild_EveryVertexOnce(t *testing.T) {
	g := build(t, "a", [][2]string{
		{"a", "b"}, {"b", "c"}, {"c", "b"}, {"c", "d"}, {"a", "d"},
	})
	dj := mustBuild(t, g, "a")

	if dj.VertexCount() != g.VertexCount() {
		t.Errorf("VertexCount() = %d, want %d", dj.VertexCount(), g.VertexCount())
	}
	seen := map[string]int{}
	dj.EachVertex(func(v string) bool {
		seen[v]++
		return true
	})
	for v, n := range seen {
		if n != 1 {
			t.Errorf("vertex %s iterated %d times", v, n)
		}
	}
}

func TestBuild_LevelsFollowTree(t *testing.T) {
	g := build(t, "a", [][2]string{
		{"a", "b"}, {"b", "c"}, {"b", "d"}, {"c", "e"}, {"d", "e"}, {"e", "b"},
	})
	dj := mustBuild(t, g, "a")

	for _, e := range dj.EdgesOfKind(djgraph.Dominance) {
		lf, _ := dj.Level(e.From)
		lt, _ := dj.Level(e.To)
		if lt != lf+1 {
			t.Errorf("dominance edge %s→%s: levels %d → %d, want +1", e.From, e.To, lf, lt)
		}
	}
}

func TestBuild_Deterministic(t *testing.T) {
	g := build(t, "a", [][2]string{
		{"a", "b"}, {"a", "c"}, {"b", "d"}, {"c", "d"}, {"d", "a"},
	})
	tree := dom.Compute[string](g, "a")

	first, err := djgraph.Build[string](g, "a", tree)
	if err != nil {
		t.Fatalf("Build() = %v", err)
	}
	second, err := djgraph.Build[string](g, "a", tree)
	if err != nil {
		t.Fatalf("Build() = %v", err)
	}

	a, _ := djgraph.Marshal(first)
	b, _ := djgraph.Marshal(second)
	if string(a) != string(b) {
		t.Errorf("two builds of the same inputs marshaled differently")
	}
}

func TestBuild_UnreachableEndpoint(t *testing.T) {
	g := build(t, "a", [][2]string{{"a", "b"}})
	if err := g.AddVertex("orphan"); err != nil {
		t.Fatalf("AddVertex(orphan) = %v", err)
	}
	if err := g.AddEdge("b", "orphan"); err != nil {
		t.Fatalf("AddEdge(b, orphan) = %v", err)
	}

	dj, err := djgraph.Build[string](g, "a", dom.Compute[string](g, "a"))
	if !errors.Is(err, djgraph.ErrUnreachableEndpoint) {
		t.Fatalf("Build() error = %v, want ErrUnreachableEndpoint", err)
	}
	if dj != nil {
		t.Errorf("Build() returned a partial graph alongside the error")
	}
}

// lyingOracle reports the same child under two parents.
type lyingOracle struct{}

func (lyingOracle) Children(v string) []string {
	switch v {
	case "a":
		return []string{"b", "c"}
	case "b":
		return []string{"c"}
	}
	return nil
}

func (lyingOracle) Dominates(u, v string) bool { return u == v || u == "a" }

func TestBuild_MalformedDomTree(t *testing.T) {
	g := build(t, "a", [][2]string{{"a", "b"}, {"a", "c"}})

	dj, err := djgraph.Build[string](g, "a", lyingOracle{})
	if !errors.Is(err, djgraph.ErrMalformedDomTree) {
		t.Fatalf("Build() error = %v, want ErrMalformedDomTree", err)
	}
	if dj != nil {
		t.Errorf("Build() returned a partial graph alongside the error")
	}
}

func TestGraph_IsDigraph(t *testing.T) {
	// A DJ-graph feeds back into the capability interface: computing
	// dominators over it must see the same vertex set.
	g := build(t, "a", [][2]string{{"a", "b"}, {"b", "a"}})
	dj := mustBuild(t, g, "a")

	tree := dom.Compute[string](dj, "a")
	if tree.Size() != dj.VertexCount() {
		t.Errorf("dom over DJ-graph: Size() = %d, want %d", tree.Size(), dj.VertexCount())
	}
}

func TestGraph_PredsSuccs(t *testing.T) {
	g := build(t, "a", [][2]string{{"a", "b"}, {"b", "c"}, {"c", "b"}})
	dj := mustBuild(t, g, "a")

	// b has the tree edge from a and the back-join from c.
	preds := dj.Preds("b")
	if len(preds) != 2 {
		t.Errorf("Preds(b) = %v, want 2 entries", preds)
	}
	succs := dj.Succs("b")
	if len(succs) != 1 || succs[0] != "c" {
		t.Errorf("Succs(b) = %v, want [c]", succs)
	}
}
