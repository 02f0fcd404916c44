package textrun

import "runtime"

// Option configures an Engine during creation.
// Use functional options to customize pipeline behavior.
//
// Example:
//
//	// Default: primary font only, notdef substitution, sequential shaping
//	eng, err := textrun.New(reg, reg)
//
//	// Fallback chain plus parallel shaping
//	eng, err := textrun.New(reg, reg,
//	    textrun.WithPrimaryFont("roboto"),
//	    textrun.WithFallback("noto-arabic", "noto-cjk"),
//	    textrun.WithParallelShaping(0),
//	)
type Option func(*config)

// config holds the per-engine configuration. It is immutable after New.
type config struct {
	primary         FontKey
	fallback        []FontKey
	fallbackEnabled bool
	notdefGID       uint32
	notdefEnabled   bool
	baseDir         Direction
	style           StyleFlags
	spans           []StyleSpan
	workers         int
}

// defaultConfig returns the default engine configuration.
func defaultConfig() config {
	return config{
		notdefEnabled: true, // substitute notdef rather than fail
		baseDir:       DirectionLTR,
	}
}

// WithPrimaryFont sets the font key assigned to every codepoint before
// fallback. The default is the empty key, which FontLookup implementations
// resolve to their default font.
func WithPrimaryFont(key FontKey) Option {
	return func(c *config) {
		c.primary = key
	}
}

// WithFallback enables per-codepoint font fallback. A codepoint the primary
// font does not cover is assigned the first key in order that covers it.
// Coverage is queried through the FontLookup collaborator.
func WithFallback(keys ...FontKey) Option {
	return func(c *config) {
		c.fallbackEnabled = true
		c.fallback = append([]FontKey(nil), keys...)
	}
}

// WithNotdef sets the replacement glyph used for codepoints without coverage
// and for missing glyphs reported by the shaper. The default policy is
// enabled with GID 0 (the font's own notdef).
func WithNotdef(gid uint32) Option {
	return func(c *config) {
		c.notdefEnabled = true
		c.notdefGID = gid
	}
}

// WithoutNotdef disables replacement-glyph substitution. A codepoint that no
// font in the fallback chain covers then fails the request with
// UnsupportedCodepointError.
func WithoutNotdef() Option {
	return func(c *config) {
		c.notdefEnabled = false
	}
}

// WithBaseDirection sets the paragraph base direction. Neutral codepoints at
// the start of the text inherit this direction. The default is LTR.
func WithBaseDirection(d Direction) Option {
	return func(c *config) {
		c.baseDir = d
	}
}

// WithStyle sets uniform style flags stamped on every codepoint.
func WithStyle(s StyleFlags) Option {
	return func(c *config) {
		c.style = s
	}
}

// WithStyleSpans overlays per-range style flags on top of the uniform style.
// Spans are clamped to the text length of each request; a span boundary
// always starts a new run. Later spans win on overlap.
func WithStyleSpans(spans ...StyleSpan) Option {
	return func(c *config) {
		c.spans = append([]StyleSpan(nil), spans...)
	}
}

// WithParallelShaping shapes runs concurrently on a bounded worker pool.
// workers <= 0 selects runtime.GOMAXPROCS(0). Output order is always logical
// run order regardless of completion order.
//
// The engine's FontLookup and RunShaper must be safe for concurrent reads;
// the built-in Registry is. Leave parallel shaping off for collaborators
// that are not.
func WithParallelShaping(workers int) Option {
	return func(c *config) {
		if workers <= 0 {
			workers = runtime.GOMAXPROCS(0)
		}
		c.workers = workers
	}
}
