// Package cfg provides control-flow graph representations for FlowLens
// analyses.
//
// # Overview
//
// FlowLens consumes control-flow graphs (CFGs) produced elsewhere: a
// compiler front end, a binary lifter, or a hand-written test fixture.
// This package defines two things:
//
//   - [Digraph], the minimal capability interface every analysis in this
//     repository consumes. Any directed graph that can count its vertices,
//     iterate vertices and edges, and answer predecessor/successor queries
//     works as input, including the analyses' own output graphs.
//   - [Graph], a mutable concrete implementation used by the CLI, the API,
//     and tests.
//
// Unlike a dependency DAG, a CFG is allowed to contain cycles, self-loops,
// and parallel edges: loops, one-block spin loops, and multi-arm branches
// to a shared target all occur in real programs. Nothing in this package
// rejects them.
//
// # Basic Usage
//
// Create a graph with [New], add basic blocks with [Graph.AddVertex], and
// edges with [Graph.AddEdge]. Vertices must exist before edges reference
// them:
//
//	g := cfg.New[string]()
//	g.AddVertex("entry")
//	g.AddVertex("body")
//	g.AddVertex("exit")
//	g.AddEdge("entry", "body")
//	g.AddEdge("body", "body") // self-loop, fine
//	g.AddEdge("body", "exit")
//	g.SetEntry("entry")
//
// Query structure with [Graph.Succs], [Graph.Preds], [Graph.HasEdge], and
// related methods. Iteration follows insertion order, so a graph built the
// same way always iterates the same way.
//
// # Vertices
//
// Vertices are identifiers, not payloads: block IDs, addresses, labels.
// The type parameter is constrained to [cmp.Ordered], which supplies the
// three properties analyses need from a vertex: equality, usability as a
// map key, and a total order for canonical output.
//
// # Serialization
//
// [Document] is the JSON (and BSON) wire form of a string-vertex graph,
// read and written by the CLI and the HTTP API:
//
//	{
//	  "entry": "A",
//	  "nodes": [{"id": "A"}, {"id": "B"}],
//	  "edges": [{"from": "A", "to": "B"}]
//	}
//
// [FromGraph] produces a canonical document (nodes and edges sorted), so
// equal graphs marshal to identical bytes. [Document.ToGraph] validates
// through the same errors as [Graph.AddVertex] and [Graph.AddEdge].
//
// # Concurrency
//
// Graph instances are not safe for concurrent mutation. Read-only use from
// multiple goroutines is safe once construction is complete.
package cfg
