package textrun

import "testing"

func TestAssembleAccumulatesAdvance(t *testing.T) {
	shaped := []ShapedRun{
		{
			Run: Run{Start: 0, End: 2},
			Glyphs: []Glyph{
				{GID: 1, XAdvance: 10},
				{GID: 2, XAdvance: 12},
			},
		},
		{
			Run: Run{Start: 2, End: 3},
			Glyphs: []Glyph{
				{GID: 3, XAdvance: 8, YAdvance: 2},
			},
		},
	}

	stream := assemble(shaped)
	if len(stream.Glyphs) != 3 {
		t.Fatalf("got %d glyphs, want 3", len(stream.Glyphs))
	}
	if stream.Advance != 30 {
		t.Errorf("Advance = %v, want 30", stream.Advance)
	}
	if stream.YAdvance != 2 {
		t.Errorf("YAdvance = %v, want 2", stream.YAdvance)
	}
	if len(stream.Runs) != 2 {
		t.Fatalf("got %d runs, want 2", len(stream.Runs))
	}
	if stream.Runs[0].End != 2 || stream.Runs[1].Start != 2 {
		t.Error("run boundaries not preserved")
	}
}

func TestAssembleLogicalOrder(t *testing.T) {
	shaped := []ShapedRun{
		{Run: Run{Start: 0, End: 1}, Glyphs: []Glyph{{GID: 100}}},
		{Run: Run{Start: 1, End: 2}, Glyphs: []Glyph{{GID: 200}}},
		{Run: Run{Start: 2, End: 3}, Glyphs: []Glyph{{GID: 300}}},
	}

	stream := assemble(shaped)
	for i, want := range []uint32{100, 200, 300} {
		if stream.Glyphs[i].GID != want {
			t.Errorf("glyph %d: GID = %d, want %d", i, stream.Glyphs[i].GID, want)
		}
	}
}

func TestAssembleEmpty(t *testing.T) {
	stream := assemble(nil)
	if !stream.Empty() {
		t.Error("stream over no runs should be empty")
	}
	if stream.Advance != 0 {
		t.Errorf("Advance = %v, want 0", stream.Advance)
	}
}
