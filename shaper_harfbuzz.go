package textrun

import (
	"fmt"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/math/fixed"
)

// ShapeRun implements RunShaper using go-text/typesetting's HarfBuzz port.
//
// Shaping is performed at Size = unitsPerEm, so the returned metrics are in
// font design units; the pipeline owns the conversion to pixels. HarfBuzz
// emits RTL runs in visual order, so the output is reversed back to logical
// order here to satisfy the RunShaper contract.
func (r *Registry) ShapeRun(h FontHandle, runes []rune, dir Direction) ([]RawGlyph, error) {
	rh, ok := h.(*registryHandle)
	if !ok {
		return nil, fmt.Errorf("textrun: foreign font handle %T", h)
	}
	if len(runes) == 0 {
		return nil, nil
	}

	r.mu.RLock()
	lang := r.lang
	r.mu.RUnlock()

	// font.Face is not safe for concurrent use; create a lightweight one
	// per call around the thread-safe *font.Font.
	face := font.NewFace(rh.entry.font)

	input := shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: mapDirection(dir),
		Face:      face,
		// Design-unit shaping: with Size equal to the em grid, advances
		// come out unscaled.
		Size:     fixed.Int26_6(rh.entry.upem) << 6,
		Script:   detectRunScript(runes),
		Language: lang,
	}

	hb := r.shaperPool.Get().(*shaping.HarfbuzzShaper)
	out := hb.Shape(input)
	r.shaperPool.Put(hb)

	glyphs := make([]RawGlyph, len(out.Glyphs))
	for i, g := range out.Glyphs {
		glyphs[i] = RawGlyph{
			GID:      uint32(g.GlyphID),
			Cluster:  g.TextIndex(),
			XAdvance: fixedToFloat(g.Advance),
			XOffset:  fixedToFloat(g.XOffset),
			YOffset:  fixedToFloat(g.YOffset),
		}
	}

	if dir == DirectionRTL {
		reverseRawGlyphs(glyphs)
	}

	return glyphs, nil
}

// mapDirection converts a pipeline Direction to go-text's di.Direction.
func mapDirection(d Direction) di.Direction {
	switch d {
	case DirectionRTL:
		return di.DirectionRTL
	case DirectionTTB:
		return di.DirectionTTB
	case DirectionBTT:
		return di.DirectionBTT
	default:
		return di.DirectionLTR
	}
}

// detectRunScript returns the script of the first non-space rune, for the
// shaper's script hint. Runs reaching this point are script-uniform apart
// from joined neutrals, so the first concrete hit is representative.
func detectRunScript(runes []rune) language.Script {
	for _, r := range runes {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			continue
		}
		return language.LookupScript(r)
	}
	return language.Latin
}

// fixedToFloat converts a fixed.Int26_6 value to float64.
func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64.0
}

// reverseRawGlyphs flips HarfBuzz's visual-order RTL output back to logical
// order (clusters ascending).
func reverseRawGlyphs(glyphs []RawGlyph) {
	for i, j := 0, len(glyphs)-1; i < j; i, j = i+1, j-1 {
		glyphs[i], glyphs[j] = glyphs[j], glyphs[i]
	}
}
