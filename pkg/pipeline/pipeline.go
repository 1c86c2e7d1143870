// Package pipeline provides the core analysis pipeline for Flowlens.
//
// This package implements the complete load → dominators → DJ-graph →
// encode/render pipeline that can be used by CLI and API components. By
// centralizing this logic, we ensure consistent behavior across all entry
// points and avoid code duplication.
//
// # Architecture
//
// The pipeline consists of two stages:
//
//  1. Analyze: Compute the dominator tree and build the labeled DJ-graph
//  2. Render: Encode the DJ-graph in various formats (JSON, DOT, SVG, PNG)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Formats: []string{"dot", "svg"},
//	}
//	result, err := runner.Execute(ctx, g, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	// Analyze only
//	dj, err := runner.Analyze(ctx, g, analyzeOpts)
//
//	// Render an existing DJ-graph
//	artifacts, err := runner.Render(ctx, dj, renderOpts)
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/flowlens/flowlens/pkg/cache"
	"github.com/flowlens/flowlens/pkg/djgraph"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

// Format constants for output formats.
const (
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatPNG  = "png"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatDOT:  true,
	FormatSVG:  true,
	FormatPNG:  true,
}

// DefaultParallelism bounds concurrent builds in [Runner.ExecuteAll].
const DefaultParallelism = 4

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the analysis pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Analyze options
	Entry   string `json:"entry,omitempty"` // entry override, empty uses the document's own entry
	Refresh bool   `json:"refresh,omitempty"`

	// Render options
	Formats     []string `json:"formats,omitempty"`
	RankByLevel bool     `json:"rank_by_level,omitempty"`
	EdgeLabels  bool     `json:"edge_labels,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// DJ is the labeled DJ-graph.
	DJ *djgraph.Graph[string]

	// Doc is the canonical serialization of DJ.
	Doc djgraph.Document

	// GraphHash is the content hash of the input CFG document.
	GraphHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	VertexCount    int `json:"vertex_count" bson:"vertex_count"`
	EdgeCount      int `json:"edge_count" bson:"edge_count"`
	DominanceCount int `json:"dominance_count" bson:"dominance_count"`
	BackJoinCount  int `json:"back_join_count" bson:"back_join_count"`
	CrossJoinCount int `json:"cross_join_count" bson:"cross_join_count"`

	BuildTime  time.Duration `json:"build_time" bson:"build_time"`
	RenderTime time.Duration `json:"render_time" bson:"render_time"`
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	AnalyzeHit bool // Whether the DJ-graph came from cache
	RenderHit  bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: json, dot, svg, png)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.SetAnalyzeDefaults()
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetAnalyzeDefaults sets default values for the analyze stage.
func (o *Options) SetAnalyzeDefaults() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatJSON}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	return ValidateFormats(o.Formats)
}

// AnalysisKeyOpts returns cache key options for the analyze stage.
func (o *Options) AnalysisKeyOpts() cache.AnalysisKeyOpts {
	return cache.AnalysisKeyOpts{Entry: o.Entry}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:      format,
		RankByLevel: o.RankByLevel,
		EdgeLabels:  o.EdgeLabels,
	}
}

// DOTOptions returns the DOT generation options.
func (o *Options) DOTOptions() djgraph.DOTOptions {
	return djgraph.DOTOptions{
		RankByLevel: o.RankByLevel,
		EdgeLabels:  o.EdgeLabels,
	}
}
