package cache

// AnalysisKeyOpts are the options that distinguish one DJ-graph build
// from another over the same CFG bytes.
type AnalysisKeyOpts struct {
	Entry string // entry override, empty means the document's own entry
}

// ArtifactKeyOpts are the options that distinguish rendered artifacts.
type ArtifactKeyOpts struct {
	Format      string // dot, svg, png
	RankByLevel bool
	EdgeLabels  bool
}

// Keyer generates cache keys for the pipeline stages.
type Keyer interface {
	// GraphKey generates a key for a CFG document by content hash.
	GraphKey(graphHash string) string

	// AnalysisKey generates a key for a DJ-graph document built from the
	// CFG with the given content hash.
	AnalysisKey(graphHash string, opts AnalysisKeyOpts) string

	// ArtifactKey generates a key for a rendered artifact of the
	// DJ-graph with the given content hash.
	ArtifactKey(djHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer is the standard key generator.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard key generator.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// GraphKey generates a key for a CFG document.
func (k *DefaultKeyer) GraphKey(graphHash string) string {
	return hashKey("graph", graphHash)
}

// AnalysisKey generates a key for a DJ-graph document.
func (k *DefaultKeyer) AnalysisKey(graphHash string, opts AnalysisKeyOpts) string {
	return hashKey("analysis", graphHash, opts)
}

// ArtifactKey generates a key for a rendered artifact.
func (k *DefaultKeyer) ArtifactKey(djHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", djHash, opts)
}

// ScopedKeyer wraps a Keyer with a prefix for multi-tenant isolation, so
// different API consumers can share one Redis without sharing entries.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer that prepends prefix to every key.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// GraphKey generates a prefixed key for a CFG document.
func (k *ScopedKeyer) GraphKey(graphHash string) string {
	return k.prefix + k.inner.GraphKey(graphHash)
}

// AnalysisKey generates a prefixed key for a DJ-graph document.
func (k *ScopedKeyer) AnalysisKey(graphHash string, opts AnalysisKeyOpts) string {
	return k.prefix + k.inner.AnalysisKey(graphHash, opts)
}

// ArtifactKey generates a prefixed key for a rendered artifact.
func (k *ScopedKeyer) ArtifactKey(djHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(djHash, opts)
}
