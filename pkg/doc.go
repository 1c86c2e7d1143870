// Package pkg provides the core libraries for Flowlens dominance analysis.
//
// # Overview
//
// Flowlens builds DJ-graphs from control-flow graphs: the dominator tree of
// a CFG overlaid with its join edges, each classified as a back-join (into
// a dominating vertex, marking a loop) or a cross-join (everything else).
// The pkg directory is organized into these areas:
//
//  1. [cfg] - Control-flow graph structure and JSON document format
//  2. [dom] - Dominator tree construction and O(1) dominance queries
//  3. [djgraph] - DJ-graph construction and edge classification
//  4. [render] - Graphviz DOT/SVG/PNG rendering
//  5. [pipeline] - Orchestration (load → dominators → DJ-graph → render)
//  6. [cache] / [store] - Content-addressed caching and analysis persistence
//
// # Architecture
//
// The typical data flow through Flowlens:
//
//	CFG document (JSON)
//	         ↓
//	    [cfg] package (graph structure + validation)
//	         ↓
//	    [dom] package (dominator tree)
//	         ↓
//	    [djgraph] package (overlay + edge classification)
//	         ↓
//	    JSON/DOT/SVG/PNG output
//
// # Quick Start
//
// Build a DJ-graph and render it:
//
//	import (
//	    "github.com/flowlens/flowlens/pkg/cfg"
//	    "github.com/flowlens/flowlens/pkg/djgraph"
//	    "github.com/flowlens/flowlens/pkg/dom"
//	)
//
//	// 1. Build the control-flow graph
//	g := cfg.New[string]()
//	g.AddEdge("entry", "body")
//	g.AddEdge("body", "entry")
//
//	// 2. Compute the dominator tree
//	tree := dom.Compute[string](g, "entry")
//
//	// 3. Overlay it into a DJ-graph
//	dj, err := djgraph.Build[string](g, "entry", tree)
//
//	// 4. Emit DOT
//	dot := djgraph.ToDOT(dj, djgraph.DOTOptions{EdgeLabels: true})
//
// # Main Packages
//
// ## Analysis
//
// [cfg] - Directed graph generic over ordered vertex types, with the JSON
// document format used by the CLI and HTTP API.
//
// [dom] - Iterative dominator tree construction (Cooper/Harvey/Kennedy)
// with constant-time Dominates queries via interval numbering.
//
// [djgraph] - The DJ-graph proper: dominance edges from the tree, join
// edges classified against it, level assignment, and the serialized
// document format.
//
// ## Output
//
// [render] - SVG and PNG rendering of DJ-graph DOT via Graphviz.
//
// ## Infrastructure
//
// [pipeline] - Complete analysis pipeline used by CLI and API. Caches both
// analysis results and rendered artifacts by content hash.
//
// [cache] - Cache backends: in-process LRU, filesystem, Redis, null.
//
// [store] - Analysis record persistence for the HTTP API, with memory and
// MongoDB backends.
//
// [observability] - Hook points for instrumenting builds, cache traffic,
// and HTTP handling.
//
// [xerrors] - Error codes shared between the library and the API surface.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...          # All tests
//	go test ./pkg/djgraph/...  # Specific package
//
// [cfg]: https://pkg.go.dev/github.com/flowlens/flowlens/pkg/cfg
// [dom]: https://pkg.go.dev/github.com/flowlens/flowlens/pkg/dom
// [djgraph]: https://pkg.go.dev/github.com/flowlens/flowlens/pkg/djgraph
// [render]: https://pkg.go.dev/github.com/flowlens/flowlens/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/flowlens/flowlens/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/flowlens/flowlens/pkg/cache
// [store]: https://pkg.go.dev/github.com/flowlens/flowlens/pkg/store
// [observability]: https://pkg.go.dev/github.com/flowlens/flowlens/pkg/observability
// [xerrors]: https://pkg.go.dev/github.com/flowlens/flowlens/pkg/xerrors
package pkg
