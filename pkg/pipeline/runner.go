package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/flowlens/flowlens/pkg/cache"
	"github.com/flowlens/flowlens/pkg/cfg"
	"github.com/flowlens/flowlens/pkg/djgraph"
	"github.com/flowlens/flowlens/pkg/dom"
	"github.com/flowlens/flowlens/pkg/observability"
	"github.com/flowlens/flowlens/pkg/render"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete analyze → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, g *cfg.Graph[string], opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	// Compute input hash for cache keys and API responses
	graphData, err := cfg.Marshal(g)
	if err != nil {
		return nil, fmt.Errorf("serialize input graph: %w", err)
	}
	result.GraphHash = cache.Hash(graphData)

	// Stage 1: Analyze
	buildStart := time.Now()
	dj, analyzeHit, err := r.AnalyzeWithCacheInfo(ctx, g, opts)
	if err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}
	result.DJ = dj
	result.Doc = djgraph.FromGraph(dj)
	result.Stats.BuildTime = time.Since(buildStart)
	result.Stats.VertexCount = dj.VertexCount()
	result.Stats.EdgeCount = dj.EdgeCount()
	result.Stats.DominanceCount = len(dj.EdgesOfKind(djgraph.Dominance))
	result.Stats.BackJoinCount = len(dj.EdgesOfKind(djgraph.BackJoin))
	result.Stats.CrossJoinCount = len(dj.EdgesOfKind(djgraph.CrossJoin))
	result.CacheInfo.AnalyzeHit = analyzeHit

	r.Logger.Info("built DJ-graph",
		"vertices", dj.VertexCount(),
		"edges", dj.EdgeCount(),
		"duration", result.Stats.BuildTime)

	// Stage 2: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, dj, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// AnalyzeWithCacheInfo builds the DJ-graph with caching and returns cache hit info.
func (r *Runner) AnalyzeWithCacheInfo(ctx context.Context, g *cfg.Graph[string], opts Options) (*djgraph.Graph[string], bool, error) {
	opts.SetAnalyzeDefaults()
	r.applyLogger(&opts)

	entry, err := resolveEntry(g, opts)
	if err != nil {
		return nil, false, err
	}

	// Compute cache key
	graphData, err := cfg.Marshal(g)
	if err != nil {
		return nil, false, fmt.Errorf("serialize input graph: %w", err)
	}
	graphHash := cache.Hash(graphData)
	cacheKey := r.Keyer.AnalysisKey(graphHash, opts.AnalysisKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			dj, err := djgraph.Unmarshal(data)
			if err == nil {
				observability.Cache().OnCacheHit(ctx, "analysis")
				return dj, true, nil // Cache hit
			}
			// If deserialization fails, fall through to rebuild
		}
	}
	observability.Cache().OnCacheMiss(ctx, "analysis")

	// Build
	start := time.Now()
	observability.Analysis().OnBuildStart(ctx, entry, g.VertexCount())

	tree := dom.Compute[string](g, entry)
	dj, err := djgraph.Build[string](g, entry, tree)

	edges := 0
	if dj != nil {
		edges = dj.EdgeCount()
	}
	observability.Analysis().OnBuildComplete(ctx, entry, edges, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	// Cache the result
	if data, err := djgraph.Marshal(dj); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLAnalysis)
		observability.Cache().OnCacheSet(ctx, "analysis", len(data))
	}

	return dj, false, nil // Cache miss
}

// Analyze is a convenience wrapper that calls AnalyzeWithCacheInfo and discards the cache hit info.
func (r *Runner) Analyze(ctx context.Context, g *cfg.Graph[string], opts Options) (*djgraph.Graph[string], error) {
	dj, _, err := r.AnalyzeWithCacheInfo(ctx, g, opts)
	return dj, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, dj *djgraph.Graph[string], opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	// Compute cache key from the canonical DJ document
	djData, err := djgraph.Marshal(dj)
	if err != nil {
		return nil, false, fmt.Errorf("serialize DJ-graph for cache key: %w", err)
	}
	djHash := cache.Hash(djData)

	// Try to get all formats from cache
	allCached := !opts.Refresh
	artifacts := make(map[string][]byte)

	if allCached {
		for _, format := range opts.Formats {
			cacheKey := r.Keyer.ArtifactKey(djHash, opts.ArtifactKeyOpts(format))
			if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
				artifacts[format] = data
			} else {
				allCached = false
				break
			}
		}
	}

	if allCached && len(artifacts) == len(opts.Formats) {
		observability.Cache().OnCacheHit(ctx, "artifact")
		return artifacts, true, nil // All artifacts from cache
	}
	observability.Cache().OnCacheMiss(ctx, "artifact")

	// Render all formats
	start := time.Now()
	observability.Analysis().OnRenderStart(ctx, opts.Formats)
	rendered, err := r.renderFormats(ctx, dj, djData, opts)
	observability.Analysis().OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	// Cache each format
	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(djHash, opts.ArtifactKeyOpts(format))
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact)
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}

	return rendered, false, nil // Cache miss
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, dj *djgraph.Graph[string], opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, dj, opts)
	return artifacts, err
}

// renderFormats produces the requested artifact bytes. DOT source is
// generated once and shared by the graphviz formats.
func (r *Runner) renderFormats(ctx context.Context, dj *djgraph.Graph[string], djData []byte, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))

	var dot string
	needsDOT := func() string {
		if dot == "" {
			dot = djgraph.ToDOT(dj, opts.DOTOptions())
		}
		return dot
	}

	for _, format := range opts.Formats {
		switch format {
		case FormatJSON:
			artifacts[format] = djData
		case FormatDOT:
			artifacts[format] = []byte(needsDOT())
		case FormatSVG:
			data, err := render.SVG(ctx, needsDOT())
			if err != nil {
				return nil, fmt.Errorf("render svg: %w", err)
			}
			artifacts[format] = data
		case FormatPNG:
			data, err := render.PNG(ctx, needsDOT())
			if err != nil {
				return nil, fmt.Errorf("render png: %w", err)
			}
			artifacts[format] = data
		default:
			return nil, ValidateFormat(format)
		}
	}
	return artifacts, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// resolveEntry picks the build entry: the override when set, otherwise the
// graph's own entry vertex.
func resolveEntry(g *cfg.Graph[string], opts Options) (string, error) {
	if opts.Entry != "" {
		if !g.HasVertex(opts.Entry) {
			return "", fmt.Errorf("entry %q: %w", opts.Entry, cfg.ErrUnknownVertex)
		}
		return opts.Entry, nil
	}
	entry, ok := g.Entry()
	if !ok {
		return "", fmt.Errorf("graph has no entry vertex (set one or pass an entry override)")
	}
	return entry, nil
}
