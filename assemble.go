package textrun

// assemble concatenates per-run shaped output into one GlyphStream.
//
// Runs are concatenated in logical text order, never visually reordered
// (that is a line-layout collaborator's job, using the stream's Runs and
// their direction flags). The pen advance accumulates across run boundaries,
// so each run's glyphs sit after the cumulative advance of all prior runs.
func assemble(shaped []ShapedRun) *GlyphStream {
	total := 0
	for i := range shaped {
		total += len(shaped[i].Glyphs)
	}

	stream := &GlyphStream{
		Glyphs: make([]Glyph, 0, total),
		Runs:   make([]Run, 0, len(shaped)),
	}

	for i := range shaped {
		stream.Glyphs = append(stream.Glyphs, shaped[i].Glyphs...)
		stream.Runs = append(stream.Runs, shaped[i].Run)
		for j := range shaped[i].Glyphs {
			stream.Advance += shaped[i].Glyphs[j].XAdvance
			stream.YAdvance += shaped[i].Glyphs[j].YAdvance
		}
	}

	return stream
}
