package textrun

// Glyph represents one positioned glyph in pixel units.
//
// ClusterStart and ClusterEnd are rune indices into the ORIGINAL text, not
// the run the glyph came from. A ligature maps several runes to one glyph
// (span wider than one); a decomposition maps one rune to several glyphs
// (all sharing the same span). Cluster offsets always reference logical
// (unreversed) rune positions, including inside RTL runs.
type Glyph struct {
	// GID is the glyph index in the font.
	GID uint32

	// ClusterStart is the first rune of the cluster (inclusive).
	ClusterStart int

	// ClusterEnd is one past the last rune of the cluster.
	ClusterEnd int

	// XAdvance is the horizontal pen advance after this glyph.
	XAdvance float64

	// YAdvance is the vertical pen advance (vertical text).
	YAdvance float64

	// XOffset shifts the glyph from the pen position without moving the pen.
	XOffset float64

	// YOffset shifts the glyph vertically from the baseline.
	YOffset float64
}

// ShapedRun is the shaped form of one Run. It is produced by the shaping
// stage and consumed by assembly within a single request; it is never
// retained across requests.
//
// For RTL runs Glyphs are in visual order (reversed relative to logical
// rune order) while cluster offsets stay logical.
type ShapedRun struct {
	Run    Run
	Glyphs []Glyph
}

// Advance returns the run's total pen advance along the horizontal axis.
func (s *ShapedRun) Advance() float64 {
	total := 0.0
	for i := range s.Glyphs {
		total += s.Glyphs[i].XAdvance
	}
	return total
}

// GlyphStream is the assembled output of a shaping request: all glyphs in
// logical run order plus the final pen position. The stream is owned by the
// caller; the pipeline keeps no reference after returning it.
//
// Glyph positions are implicit: accumulate XAdvance/YAdvance from the start
// of the stream, applying each glyph's offsets on top of the running pen.
// Runs records the source run of every glyph span so a line-layout
// collaborator can perform visual (bidi) reordering downstream; the stream
// itself is strictly in logical order.
type GlyphStream struct {
	Glyphs []Glyph

	// Advance is the cumulative horizontal pen advance of all glyphs.
	Advance float64

	// YAdvance is the cumulative vertical pen advance of all glyphs.
	YAdvance float64

	// Runs are the source runs, in logical order.
	Runs []Run
}

// Empty reports whether the stream contains no glyphs.
func (g *GlyphStream) Empty() bool { return len(g.Glyphs) == 0 }
