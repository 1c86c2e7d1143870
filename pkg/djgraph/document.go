package djgraph

import (
	"bytes"
	"cmp"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
)

// =============================================================================
// Document - DJ-Graph Serialization
// =============================================================================

// Document is the canonical serialization format for DJ-graphs with string
// vertices. Used for CLI output, API responses, storage, and caching.
//
// The format is canonical: [FromGraph] sorts vertices and edges, so equal
// graphs marshal to identical bytes regardless of build order. Content
// hashes over the bytes are therefore stable cache keys.
type Document struct {
	Entry    string      `json:"entry" bson:"entry"`
	Vertices []VertexDoc `json:"vertices" bson:"vertices"`
	Edges    []EdgeDoc   `json:"edges" bson:"edges"`
}

// VertexDoc is the serialized form of a DJ vertex.
type VertexDoc struct {
	ID    string `json:"id" bson:"id"`
	Level int    `json:"level" bson:"level"`
}

// EdgeDoc is the serialized form of a labeled edge. Kind holds the kind
// name: dominance, back-join, or cross-join.
type EdgeDoc struct {
	From string `json:"from" bson:"from"`
	To   string `json:"to" bson:"to"`
	Kind string `json:"kind" bson:"kind"`
}

// =============================================================================
// Graph ↔ Document Conversion
// =============================================================================

// FromGraph converts a DJ-graph to its serialization format. Vertices are
// sorted by ID and edges by (from, to, kind) for deterministic output;
// parallel edges survive the stable sort.
func FromGraph(g *Graph[string]) Document {
	vertices := g.Vertices()
	slices.SortFunc(vertices, func(a, b Vertex[string]) int {
		return cmp.Compare(a.ID, b.ID)
	})

	edges := g.Edges()
	slices.SortStableFunc(edges, func(a, b Edge[string]) int {
		if c := cmp.Compare(a.From, b.From); c != 0 {
			return c
		}
		if c := cmp.Compare(a.To, b.To); c != 0 {
			return c
		}
		return cmp.Compare(a.Kind.String(), b.Kind.String())
	})

	out := Document{
		Entry:    g.Entry(),
		Vertices: make([]VertexDoc, len(vertices)),
		Edges:    make([]EdgeDoc, len(edges)),
	}
	for i, v := range vertices {
		out.Vertices[i] = VertexDoc{ID: v.ID, Level: v.Level}
	}
	for i, e := range edges {
		out.Edges[i] = EdgeDoc{From: e.From, To: e.To, Kind: e.Kind.String()}
	}
	return out
}

// ToGraph reconstructs a DJ-graph from a document. Levels and kinds are
// taken as recorded; the decoder validates structure (known kinds, edge
// endpoints present, entry at level 0) but does not re-run the builder.
func (d Document) ToGraph() (*Graph[string], error) {
	g := &Graph[string]{
		entry: d.Entry,
		level: make(map[string]int, len(d.Vertices)),
		succs: make(map[string][]string),
		preds: make(map[string][]string),
		kinds: make(map[pair[string]]Kind),
	}
	for _, v := range d.Vertices {
		if _, dup := g.level[v.ID]; dup {
			return nil, fmt.Errorf("vertex %s: duplicate", v.ID)
		}
		if v.Level < 0 {
			return nil, fmt.Errorf("vertex %s: negative level %d", v.ID, v.Level)
		}
		g.level[v.ID] = v.Level
		g.order = append(g.order, v.ID)
	}
	if entryLevel, ok := g.level[d.Entry]; !ok {
		return nil, fmt.Errorf("entry %s: not among vertices", d.Entry)
	} else if entryLevel != 0 {
		return nil, fmt.Errorf("entry %s: level %d, want 0", d.Entry, entryLevel)
	}
	for _, e := range d.Edges {
		kind, err := ParseKind(e.Kind)
		if err != nil {
			return nil, fmt.Errorf("edge %s→%s: %w", e.From, e.To, err)
		}
		if _, ok := g.level[e.From]; !ok {
			return nil, fmt.Errorf("edge %s→%s: unknown source", e.From, e.To)
		}
		if _, ok := g.level[e.To]; !ok {
			return nil, fmt.Errorf("edge %s→%s: unknown destination", e.From, e.To)
		}
		g.addEdge(e.From, e.To, kind)
	}
	return g, nil
}

// =============================================================================
// Serialization API
// =============================================================================

// Marshal converts a DJ-graph to canonical JSON bytes.
func Marshal(g *Graph[string]) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeTo(g, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes JSON bytes into a DJ-graph.
func Unmarshal(data []byte) (*Graph[string], error) {
	return Read(bytes.NewReader(data))
}

// Write writes a DJ-graph as indented JSON to w.
func Write(g *Graph[string], w io.Writer) error {
	return writeTo(g, w)
}

// Read decodes a JSON DJ-graph from r, validating structure as
// [Document.ToGraph] does.
func Read(r io.Reader) (*Graph[string], error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return doc.ToGraph()
}

// WriteFile writes a DJ-graph to a JSON file with 0644 permissions.
func WriteFile(g *Graph[string], path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return writeTo(g, f)
}

// ReadFile reads a JSON file and returns the decoded DJ-graph.
func ReadFile(path string) (*Graph[string], error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}

func writeTo(g *Graph[string], w io.Writer) error {
	out := FromGraph(g)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
