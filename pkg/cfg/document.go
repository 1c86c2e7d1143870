package cfg

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
// Document - CFG Serialization
// =============================================================================

// Document is the canonical serialization format for control-flow graphs.
// Used for CLI input, API requests, storage, and caching.
//
// The format is canonical: [FromGraph] sorts nodes and edges, so equal
// graphs marshal to identical bytes regardless of construction order. That
// property is what makes content hashes usable as cache keys.
type Document struct {
	Entry string    `json:"entry,omitempty" bson:"entry,omitempty"`
	Nodes []NodeDoc `json:"nodes" bson:"nodes"`
	Edges []EdgeDoc `json:"edges" bson:"edges"`
}

// NodeDoc is the serialized form of a basic block.
type NodeDoc struct {
	ID    string `json:"id" bson:"id"`
	Label string `json:"label,omitempty" bson:"label,omitempty"` // Display label (defaults to ID)
}

// EdgeDoc is the serialized form of a control-flow edge.
type EdgeDoc struct {
	From string `json:"from" bson:"from"`
	To   string `json:"to" bson:"to"`
}

// =============================================================================
// Graph ↔ Document Conversion
// =============================================================================

// FromGraph converts a graph to its serialization format.
// Nodes are sorted by ID and edges by (from, to) for deterministic output.
// Parallel edges survive: sorting is stable with respect to multiplicity.
func FromGraph(g *Graph[string]) Document {
	nodes := g.Vertices()
	slices.Sort(nodes)

	edges := g.Edges()
	slices.SortStableFunc(edges, func(a, b Edge[string]) int {
		if c := cmp.Compare(a.From, b.From); c != 0 {
			return c
		}
		return cmp.Compare(a.To, b.To)
	})

	out := Document{
		Nodes: make([]NodeDoc, len(nodes)),
		Edges: make([]EdgeDoc, len(edges)),
	}
	if entry, ok := g.Entry(); ok {
		out.Entry = entry
	}
	for i, v := range nodes {
		out.Nodes[i] = NodeDoc{ID: v}
	}
	for i, e := range edges {
		out.Edges[i] = EdgeDoc{From: e.From, To: e.To}
	}
	return out
}

// ToGraph converts a document to a graph.
// It validates through the same errors as [Graph.AddVertex] and
// [Graph.AddEdge]: duplicate node IDs and edges referencing unknown nodes
// are rejected, with the offending node or edge named in the error.
func (d Document) ToGraph() (*Graph[string], error) {
	g := New[string]()
	for _, n := range d.Nodes {
		if err := g.AddVertex(n.ID); err != nil {
			return nil, fmt.Errorf("node %s: %w", n.ID, err)
		}
	}
	for _, e := range d.Edges {
		if err := g.AddEdge(e.From, e.To); err != nil {
			return nil, fmt.Errorf("edge %s→%s: %w", e.From, e.To, err)
		}
	}
	if d.Entry != "" {
		if err := g.SetEntry(d.Entry); err != nil {
			return nil, fmt.Errorf("entry %s: %w", d.Entry, err)
		}
	}
	return g, nil
}

// =============================================================================
// Serialization API
// =============================================================================

// Marshal converts a graph to JSON bytes.
// Nodes and edges are sorted for deterministic output.
func Marshal(g *Graph[string]) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeTo(g, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes JSON bytes into a graph.
func Unmarshal(data []byte) (*Graph[string], error) {
	return Read(bytes.NewReader(data))
}

// Write writes a graph as indented JSON to w.
func Write(g *Graph[string], w io.Writer) error {
	return writeTo(g, w)
}

// Read decodes a JSON graph from r.
// Returns validation errors for malformed documents: duplicate nodes,
// dangling edges, or an unknown entry block.
func Read(r io.Reader) (*Graph[string], error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return doc.ToGraph()
}

// WriteFile writes a graph to a JSON file.
// The file is created with 0644 permissions.
func WriteFile(g *Graph[string], path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return writeTo(g, f)
}

// ReadFile reads a JSON file and returns the decoded graph.
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
