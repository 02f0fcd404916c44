package textrun

import (
	"errors"
	"math"
	"reflect"
	"testing"
)

func floatNear(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestShapeScaling(t *testing.T) {
	// The fake shaper reports 500 design units per glyph; at upem 1000 that
	// is half the font size in pixels.
	eng, lookup, _ := newFakeEngine(t)
	lookup.upem = 2000

	stream, err := eng.SplitAndShape("abc", 32)
	if err != nil {
		t.Fatalf("SplitAndShape: %v", err)
	}
	if len(stream.Glyphs) != 3 {
		t.Fatalf("got %d glyphs, want 3", len(stream.Glyphs))
	}
	want := 500.0 * 32 / 2000
	for i, g := range stream.Glyphs {
		if !floatNear(g.XAdvance, want) {
			t.Errorf("glyph %d: XAdvance = %v, want %v", i, g.XAdvance, want)
		}
	}
	if !floatNear(stream.Advance, 3*want) {
		t.Errorf("stream advance = %v, want %v", stream.Advance, 3*want)
	}
}

func TestShapeLigature(t *testing.T) {
	// Two runes shaped into one glyph: the glyph's cluster span covers both.
	eng, _, shaper := newFakeEngine(t)
	shaper.fn = func(h FontHandle, runes []rune, dir Direction) ([]RawGlyph, error) {
		return []RawGlyph{{GID: 77, Cluster: 0, XAdvance: 900}}, nil
	}

	stream, err := eng.SplitAndShape("fi", 16)
	if err != nil {
		t.Fatalf("SplitAndShape: %v", err)
	}
	if len(stream.Glyphs) != 1 {
		t.Fatalf("got %d glyphs, want 1", len(stream.Glyphs))
	}
	g := stream.Glyphs[0]
	if g.ClusterStart != 0 || g.ClusterEnd != 2 {
		t.Errorf("cluster span [%d,%d), want [0,2)", g.ClusterStart, g.ClusterEnd)
	}
}

func TestShapeDecomposition(t *testing.T) {
	// One rune shaped into two glyphs: both glyphs share the rune's span.
	eng, _, shaper := newFakeEngine(t)
	shaper.fn = func(h FontHandle, runes []rune, dir Direction) ([]RawGlyph, error) {
		return []RawGlyph{
			{GID: 10, Cluster: 0, XAdvance: 600},
			{GID: 11, Cluster: 0, XAdvance: 0},
			{GID: 12, Cluster: 1, XAdvance: 600},
		}, nil
	}

	stream, err := eng.SplitAndShape("éx", 16)
	if err != nil {
		t.Fatalf("SplitAndShape: %v", err)
	}
	if len(stream.Glyphs) != 3 {
		t.Fatalf("got %d glyphs, want 3", len(stream.Glyphs))
	}
	for i := 0; i < 2; i++ {
		g := stream.Glyphs[i]
		if g.ClusterStart != 0 || g.ClusterEnd != 1 {
			t.Errorf("glyph %d: cluster span [%d,%d), want [0,1)", i, g.ClusterStart, g.ClusterEnd)
		}
	}
	if g := stream.Glyphs[2]; g.ClusterStart != 1 || g.ClusterEnd != 2 {
		t.Errorf("glyph 2: cluster span [%d,%d), want [1,2)", g.ClusterStart, g.ClusterEnd)
	}
}

func TestShapeRTLVisualOrder(t *testing.T) {
	// The collaborator reports logical order; the engine emits RTL runs in
	// visual order with cluster offsets staying logical.
	eng, _, _ := newFakeEngine(t)

	stream, err := eng.SplitAndShape("مرحبا", 16)
	if err != nil {
		t.Fatalf("SplitAndShape: %v", err)
	}
	if len(stream.Glyphs) != 5 {
		t.Fatalf("got %d glyphs, want 5", len(stream.Glyphs))
	}
	// Fake shaper sets GID = rune value per logical position; reversal puts
	// the last rune's glyph first.
	runes := []rune("مرحبا")
	for i, g := range stream.Glyphs {
		logical := len(runes) - 1 - i
		if g.GID != uint32(runes[logical]) {
			t.Errorf("glyph %d: GID = %d, want %d (visual reversal)", i, g.GID, runes[logical])
		}
		if g.ClusterStart != logical {
			t.Errorf("glyph %d: ClusterStart = %d, want %d", i, g.ClusterStart, logical)
		}
		if g.ClusterEnd != logical+1 {
			t.Errorf("glyph %d: ClusterEnd = %d, want %d", i, g.ClusterEnd, logical+1)
		}
	}
}

func TestShapeNotdefSubstitution(t *testing.T) {
	eng, _, shaper := newFakeEngine(t, WithNotdef(42))
	shaper.fn = func(h FontHandle, runes []rune, dir Direction) ([]RawGlyph, error) {
		return []RawGlyph{{GID: 0, Cluster: 0, XAdvance: 500}}, nil
	}

	stream, err := eng.SplitAndShape("a", 16)
	if err != nil {
		t.Fatalf("SplitAndShape: %v", err)
	}
	if stream.Glyphs[0].GID != 42 {
		t.Errorf("GID = %d, want notdef 42", stream.Glyphs[0].GID)
	}
}

func TestShapeFontResolutionError(t *testing.T) {
	eng, lookup, _ := newFakeEngine(t, WithPrimaryFont("missing"))
	cause := errors.New("font file gone")
	lookup.resolveErr = map[FontKey]error{"missing": cause}

	_, err := eng.SplitAndShape("abc", 16)
	var frErr *FontResolutionError
	if !errors.As(err, &frErr) {
		t.Fatalf("err = %v, want FontResolutionError", err)
	}
	if frErr.Key != "missing" {
		t.Errorf("key = %q, want %q", frErr.Key, "missing")
	}
	if !errors.Is(err, cause) {
		t.Error("FontResolutionError should unwrap to the lookup error")
	}
}

func TestShapeMalformedTextBeforeCollaborators(t *testing.T) {
	eng, _, shaper := newFakeEngine(t)

	_, err := eng.SplitAndShape("a\x80b", 16)
	var mtErr *MalformedTextError
	if !errors.As(err, &mtErr) {
		t.Fatalf("err = %v, want MalformedTextError", err)
	}
	if n := shaper.calls.Load(); n != 0 {
		t.Errorf("shaper called %d times on malformed input, want 0", n)
	}
}

func TestShapeParallelMatchesSequential(t *testing.T) {
	text := "Hello مرحبا 世界 and Ελληνικά too"

	seq, _, _ := newFakeEngine(t)
	par, _, _ := newFakeEngine(t, WithParallelShaping(4))

	want, err := seq.SplitAndShape(text, 16)
	if err != nil {
		t.Fatalf("sequential: %v", err)
	}
	got, err := par.SplitAndShape(text, 16)
	if err != nil {
		t.Fatalf("parallel: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Error("parallel shaping diverges from sequential")
	}
}

func TestShapeShaperError(t *testing.T) {
	eng, _, shaper := newFakeEngine(t)
	boom := errors.New("shaper exploded")
	shaper.fn = func(h FontHandle, runes []rune, dir Direction) ([]RawGlyph, error) {
		return nil, boom
	}

	if _, err := eng.SplitAndShape("abc", 16); !errors.Is(err, boom) {
		t.Errorf("err = %v, want %v", err, boom)
	}
}

func TestShapeOffsetsScaled(t *testing.T) {
	eng, _, shaper := newFakeEngine(t)
	shaper.fn = func(h FontHandle, runes []rune, dir Direction) ([]RawGlyph, error) {
		return []RawGlyph{{GID: 1, Cluster: 0, XAdvance: 500, XOffset: 100, YOffset: -200}}, nil
	}

	stream, err := eng.SplitAndShape("a", 20)
	if err != nil {
		t.Fatalf("SplitAndShape: %v", err)
	}
	g := stream.Glyphs[0]
	scale := 20.0 / 1000
	if !floatNear(g.XOffset, 100*scale) || !floatNear(g.YOffset, -200*scale) {
		t.Errorf("offsets (%v, %v), want (%v, %v)", g.XOffset, g.YOffset, 100*scale, -200*scale)
	}
}
