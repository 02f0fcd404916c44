package textrun

// fallbackUnitsPerEm stands in for fonts reporting a zero em grid, which
// would otherwise poison the pixel conversion. 1000 is the CFF convention.
const fallbackUnitsPerEm = 1000

// shapeRun maps one run to positioned glyphs.
//
// The RunShaper collaborator reports glyphs in logical order with metrics in
// font design units. This stage owns the three conversions on top of that:
//
//   - cluster indices are remapped from run-relative to original text rune
//     offsets, and expanded into [ClusterStart, ClusterEnd) spans;
//   - design units become pixels via advance * fontSize / unitsPerEm;
//   - RTL runs are reversed into visual order, cluster offsets staying
//     logical.
//
// A missing glyph reported by the shaper (GID 0) is substituted with the
// configured notdef glyph and shaping continues; a single bad glyph never
// aborts the request.
func (e *Engine) shapeRun(run Run, runes []rune, fontSize float64) (ShapedRun, error) {
	shaped := ShapedRun{Run: run}
	if run.Len() == 0 {
		// Possible only for empty input; do not invoke the collaborator.
		return shaped, nil
	}

	h, err := e.fonts.ResolveFont(run.Attrs.Font)
	if err != nil {
		return shaped, &FontResolutionError{Key: run.Attrs.Font, Err: err}
	}

	upem := e.fonts.UnitsPerEm(h)
	if upem == 0 {
		upem = fallbackUnitsPerEm
	}
	scale := fontSize / float64(upem)

	raw, err := e.shaper.ShapeRun(h, runes[run.Start:run.End], run.Direction)
	if err != nil {
		return shaped, err
	}
	if len(raw) == 0 {
		return shaped, nil
	}

	shaped.Glyphs = e.convertGlyphs(raw, run, scale)

	if run.Direction == DirectionRTL {
		reverseGlyphs(shaped.Glyphs)
	}

	return shaped, nil
}

// convertGlyphs turns collaborator output into pixel-unit glyphs with
// cluster spans in original text offsets. Glyphs stay in logical order here;
// the caller applies visual reversal for RTL runs.
func (e *Engine) convertGlyphs(raw []RawGlyph, run Run, scale float64) []Glyph {
	glyphs := make([]Glyph, len(raw))

	for i, rg := range raw {
		gid := rg.GID
		if gid == 0 && e.cfg.notdefEnabled && e.cfg.notdefGID != 0 {
			Logger().Warn("textrun: substituting notdef glyph",
				"font", string(run.Attrs.Font), "cluster", rg.Cluster)
			gid = e.cfg.notdefGID
		}

		glyphs[i] = Glyph{
			GID:          gid,
			ClusterStart: run.Start + clampCluster(rg.Cluster, run.Len()),
			XAdvance:     rg.XAdvance * scale,
			YAdvance:     rg.YAdvance * scale,
			XOffset:      rg.XOffset * scale,
			YOffset:      rg.YOffset * scale,
		}
	}

	// Cluster ends: a cluster extends to the next distinct cluster start,
	// or to the end of the run for the last one. Glyphs sharing a cluster
	// (one rune decomposed into several glyphs) share the full span.
	end := run.End
	for i := len(glyphs) - 1; i >= 0; i-- {
		glyphs[i].ClusterEnd = end
		if i > 0 && glyphs[i-1].ClusterStart != glyphs[i].ClusterStart {
			end = glyphs[i].ClusterStart
		}
	}

	return glyphs
}

// clampCluster bounds a collaborator-reported cluster index to the run.
func clampCluster(c, runLen int) int {
	if c < 0 {
		return 0
	}
	if c >= runLen {
		return runLen - 1
	}
	return c
}

// reverseGlyphs flips a glyph slice in place (logical to visual order for
// RTL runs).
func reverseGlyphs(glyphs []Glyph) {
	for i, j := 0, len(glyphs)-1; i < j; i, j = i+1, j-1 {
		glyphs[i], glyphs[j] = glyphs[j], glyphs[i]
	}
}
