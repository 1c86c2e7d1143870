package cfg

import (
	"errors"
	"slices"
	"testing"
)

func TestGraph_AddVertex(t *testing.T) {
	g := New[string]()
	if err := g.AddVertex("a"); err != nil {
		t.Fatalf("AddVertex(a) = %v", err)
	}
	if err := g.AddVertex("a"); !errors.Is(err, ErrDuplicateVertex) {
		t.Errorf("AddVertex(a) again = %v, want ErrDuplicateVertex", err)
	}
	if !g.HasVertex("a") {
		t.Errorf("HasVertex(a) = false, want true")
	}
	if g.VertexCount() != 1 {
		t.Errorf("VertexCount() = %d, want 1", g.VertexCount())
	}
}

func TestGraph_AddEdge(t *testing.T) {
	g := New[string]()
	_ = g.AddVertex("a")
	_ = g.AddVertex("b")

	if err := g.AddEdge("a", "b"); err != nil {
		t.Fatalf("AddEdge(a, b) = %v", err)
	}
	if err := g.AddEdge("ghost", "b"); !errors.Is(err, ErrUnknownSource) {
		t.Errorf("AddEdge(ghost, b) = %v, want ErrUnknownSource", err)
	}
	if err := g.AddEdge("a", "ghost"); !errors.Is(err, ErrUnknownTarget) {
		t.Errorf("AddEdge(a, ghost) = %v, want ErrUnknownTarget", err)
	}
	if !g.HasEdge("a", "b") {
		t.Errorf("HasEdge(a, b) = false, want true")
	}
	if g.HasEdge("b", "a") {
		t.Errorf("HasEdge(b, a) = true, want false")
	}
}

func TestGraph_SelfLoopAndParallelEdges(t *testing.T) {
	// Both occur in real CFGs and must be preserved, not deduplicated.
	g := New[string]()
	_ = g.AddVertex("a")
	_ = g.AddVertex("b")

	if err := g.AddEdge("a", "a"); err != nil {
		t.Fatalf("AddEdge(a, a) = %v", err)
	}
	if err := g.AddEdge("a", "b"); err != nil {
		t.Fatalf("AddEdge(a, b) = %v", err)
	}
	if err := g.AddEdge("a", "b"); err != nil {
		t.Fatalf("AddEdge(a, b) again = %v", err)
	}

	if g.EdgeCount() != 3 {
		t.Errorf("EdgeCount() = %d, want 3", g.EdgeCount())
	}
	if g.OutDegree("a") != 3 {
		t.Errorf("OutDegree(a) = %d, want 3", g.OutDegree("a"))
	}
	if g.InDegree("b") != 2 {
		t.Errorf("InDegree(b) = %d, want 2", g.InDegree("b"))
	}
}

func TestGraph_Entry(t *testing.T) {
	g := New[string]()
	if _, ok := g.Entry(); ok {
		t.Errorf("Entry() on empty graph reported an entry")
	}
	if err := g.SetEntry("a"); !errors.Is(err, ErrUnknownVertex) {
		t.Errorf("SetEntry(a) = %v, want ErrUnknownVertex", err)
	}
	_ = g.AddVertex("a")
	if err := g.SetEntry("a"); err != nil {
		t.Fatalf("SetEntry(a) = %v", err)
	}
	if entry, ok := g.Entry(); !ok || entry != "a" {
		t.Errorf("Entry() = %s, %v, want a, true", entry, ok)
	}
}

func TestGraph_IterationOrder(t *testing.T) {
	g := New[string]()
	for _, v := range []string{"c", "a", "b"} {
		_ = g.AddVertex(v)
	}
	_ = g.AddEdge("c", "a")
	_ = g.AddEdge("a", "b")

	if got := g.Vertices(); !slices.Equal(got, []string{"c", "a", "b"}) {
		t.Errorf("Vertices() = %v, want insertion order [c a b]", got)
	}

	var edges [][2]string
	g.EachEdge(func(from, to string) bool {
		edges = append(edges, [2]string{from, to})
		return true
	})
	want := [][2]string{{"c", "a"}, {"a", "b"}}
	if !slices.Equal(edges, want) {
		t.Errorf("EachEdge order = %v, want %v", edges, want)
	}
}

func TestGraph_EachVertexEarlyExit(t *testing.T) {
	g := New[string]()
	for _, v := range []string{"a", "b", "c"} {
		_ = g.AddVertex(v)
	}

	count := 0
	g.EachVertex(func(string) bool {
		count++
		return count < 2
	})
	if count != 2 {
		t.Errorf("EachVertex visited %d vertices after early exit, want 2", count)
	}
}

func TestGraph_Clone(t *testing.T) {
	g := New[string]()
	_ = g.AddVertex("a")
	_ = g.AddVertex("b")
	_ = g.AddEdge("a", "b")
	_ = g.SetEntry("a")

	c := g.Clone()
	_ = c.AddVertex("c")
	_ = c.AddEdge("b", "c")

	if g.VertexCount() != 2 || g.EdgeCount() != 1 {
		t.Errorf("mutating the clone changed the original: %d vertices, %d edges",
			g.VertexCount(), g.EdgeCount())
	}
	if entry, ok := c.Entry(); !ok || entry != "a" {
		t.Errorf("clone Entry() = %s, %v, want a, true", entry, ok)
	}
}

func TestSortedVertices(t *testing.T) {
	g := New[string]()
	for _, v := range []string{"c", "a", "b"} {
		_ = g.AddVertex(v)
	}

	if got := SortedVertices[string](g); !slices.Equal(got, []string{"a", "b", "c"}) {
		t.Errorf("SortedVertices() = %v, want [a b c]", got)
	}
}
