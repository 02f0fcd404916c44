// Package textrun segments Unicode text into shaping runs and maps each run
// to positioned glyphs.
//
// # Overview
//
// textrun implements the text-layout front half that sits between a string
// and a rasterizer: it partitions a paragraph into maximal runs sharing
// script, font, direction, and style, then shapes each run into glyphs with
// cluster mapping back to the source text. Rasterization, line breaking, and
// visual (bidi) reordering are left to downstream collaborators.
//
// # Quick Start
//
//	import "github.com/gogpu/textrun"
//
//	reg := textrun.NewRegistry()
//	if err := reg.RegisterFile("roboto", "Roboto-Regular.ttf"); err != nil {
//	    log.Fatal(err)
//	}
//
//	eng, err := textrun.New(reg, reg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	stream, err := eng.SplitAndShape("Hello مرحبا", 16)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, g := range stream.Glyphs {
//	    fmt.Println(g.GID, g.XAdvance)
//	}
//
// # Pipeline
//
// A shaping request flows through four stages:
//   - classification: per-codepoint script, direction, font, and style
//   - run splitting: maximal spans with identical attributes
//   - shaping: glyph selection and positioning, delegated to a RunShaper
//   - assembly: concatenation into a single logical-order GlyphStream
//
// # Collaborators
//
// Font access and glyph selection are abstracted behind the FontLookup and
// RunShaper interfaces. Registry is the built-in implementation of both,
// backed by go-text/typesetting's HarfBuzz port. Callers with their own font
// stack can plug in alternative implementations; the pipeline never touches
// font files directly.
package textrun
