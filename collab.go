package textrun

// FontHandle is an opaque handle to a resolved font, owned by the FontLookup
// that produced it. The pipeline passes handles through to the RunShaper and
// never inspects them beyond the key.
type FontHandle interface {
	// Key returns the FontKey the handle was resolved from.
	Key() FontKey
}

// FontLookup resolves font keys to handles and answers coverage and metric
// queries. Implementations must be safe for concurrent reads if parallel
// shaping is enabled (see WithParallelShaping).
type FontLookup interface {
	// ResolveFont resolves a key to a handle. The empty key resolves to the
	// lookup's default font. Returns an error (wrapped by the pipeline into
	// FontResolutionError) if the key does not map to a loadable font.
	ResolveFont(key FontKey) (FontHandle, error)

	// Covers reports whether the font has a non-notdef glyph for the rune.
	Covers(h FontHandle, r rune) bool

	// UnitsPerEm returns the design-unit grid size of the font.
	UnitsPerEm(h FontHandle) uint32
}

// RawGlyph is one glyph as reported by a RunShaper, in font design units.
//
// Cluster is the run-relative rune index of the first rune shaped into the
// glyph's cluster. Glyphs are reported in logical order: cluster values are
// non-decreasing regardless of direction. The pipeline derives cluster spans
// and visual ordering from this.
type RawGlyph struct {
	GID      uint32
	Cluster  int
	XAdvance float64
	YAdvance float64
	XOffset  float64
	YOffset  float64
}

// RunShaper selects and positions glyphs for one run of text. This is the
// boundary to the platform shaping capability; Registry provides a HarfBuzz
// backed implementation.
//
// Implementations receive the run's codepoints only (no surrounding context)
// and must report glyphs in logical order with design-unit metrics.
type RunShaper interface {
	ShapeRun(h FontHandle, runes []rune, dir Direction) ([]RawGlyph, error)
}
