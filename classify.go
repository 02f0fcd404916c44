package textrun

import (
	"github.com/go-text/typesetting/language"
	"golang.org/x/text/unicode/bidi"
)

// CodepointAttributes holds the effective attributes of one codepoint.
// Values are computed fresh per request and immutable once computed.
type CodepointAttributes struct {
	// Script is the Unicode script property of the codepoint.
	// Combining marks (script Inherited) are resolved to the script of the
	// preceding base character during classification.
	Script language.Script

	// RTL is the resolved direction: true for strong right-to-left
	// codepoints and for neutrals inheriting from a preceding RTL strong.
	RTL bool

	// Font is the key of the font assigned to the codepoint, after fallback.
	Font FontKey

	// Style is the codepoint's style bitset.
	Style StyleFlags
}

// classifier computes per-codepoint attributes for one request.
type classifier struct {
	cfg   *config
	fonts FontLookup
}

// classify returns one CodepointAttributes per rune, same length as input.
func (c *classifier) classify(runes []rune) ([]CodepointAttributes, error) {
	if len(runes) == 0 {
		return nil, nil
	}

	attrs := make([]CodepointAttributes, len(runes))

	marks := c.detectScripts(runes, attrs)
	resolveInheritedScripts(attrs)
	c.resolveDirections(runes, attrs)
	if err := c.assignFonts(runes, attrs, marks); err != nil {
		return nil, err
	}
	c.applyStyles(attrs)

	return attrs, nil
}

// detectScripts fills in the raw Unicode script property and returns which
// runes are combining marks (script Inherited).
func (c *classifier) detectScripts(runes []rune, attrs []CodepointAttributes) []bool {
	marks := make([]bool, len(runes))
	for i, r := range runes {
		s := language.LookupScript(r)
		attrs[i].Script = s
		marks[i] = s == language.Inherited
	}
	return marks
}

// resolveInheritedScripts replaces Inherited with the script of the nearest
// preceding concrete (non-Common, non-Inherited) codepoint. A mark with no
// preceding base degrades to Common.
func resolveInheritedScripts(attrs []CodepointAttributes) {
	lastConcrete := language.Common
	for i := range attrs {
		switch attrs[i].Script {
		case language.Inherited:
			attrs[i].Script = lastConcrete
		case language.Common:
			// keep; run splitting resolves Common from context
		default:
			lastConcrete = attrs[i].Script
		}
	}
}

// resolveDirections computes the RTL flag per rune from the bidi character
// class: strong L is LTR, strong R and AL are RTL, and everything else
// (neutrals, weak classes, marks) inherits the direction of the nearest
// preceding strong codepoint, defaulting to the base direction.
//
// This is run-boundary detection only; full UBA reordering is a downstream
// collaborator's job.
func (c *classifier) resolveDirections(runes []rune, attrs []CodepointAttributes) {
	cur := c.cfg.baseDir == DirectionRTL
	for i, r := range runes {
		props, _ := bidi.LookupRune(r)
		switch props.Class() {
		case bidi.L:
			cur = false
		case bidi.R, bidi.AL:
			cur = true
		}
		attrs[i].RTL = cur
	}
}

// chainFont pairs a fallback-chain key with its resolved handle.
type chainFont struct {
	key FontKey
	h   FontHandle
}

// assignFonts stamps a font key on every rune. With fallback disabled and
// notdef substitution enabled (the default) no coverage queries are needed
// and every rune gets the primary key. Otherwise the fallback chain is
// resolved up front and each rune takes the first covering font.
func (c *classifier) assignFonts(runes []rune, attrs []CodepointAttributes, marks []bool) error {
	primary := c.cfg.primary

	needCoverage := c.cfg.fallbackEnabled || !c.cfg.notdefEnabled
	if !needCoverage {
		for i := range attrs {
			attrs[i].Font = primary
		}
		return nil
	}

	chain := make([]chainFont, 0, 1+len(c.cfg.fallback))
	keys := append([]FontKey{primary}, c.cfg.fallback...)
	if !c.cfg.fallbackEnabled {
		keys = keys[:1]
	}
	for _, key := range keys {
		h, err := c.fonts.ResolveFont(key)
		if err != nil {
			return &FontResolutionError{Key: key, Err: err}
		}
		chain = append(chain, chainFont{key: key, h: h})
	}

	for i, r := range runes {
		// A combining mark must shape with its base: same font, whatever
		// the mark's own coverage says.
		if marks[i] && i > 0 {
			attrs[i].Font = attrs[i-1].Font
			continue
		}

		assigned := false
		for _, f := range chain {
			if c.fonts.Covers(f.h, r) {
				attrs[i].Font = f.key
				assigned = true
				break
			}
		}
		if assigned {
			continue
		}

		if !c.cfg.notdefEnabled {
			return &UnsupportedCodepointError{Rune: r, Offset: i}
		}
		// Substitution happens at shaping time; the primary font renders
		// its notdef glyph.
		attrs[i].Font = primary
		Logger().Debug("textrun: codepoint not covered, keeping primary for notdef",
			"rune", r, "offset", i)
	}

	return nil
}

// applyStyles stamps the uniform style and overlays configured spans.
// Spans are clamped to the text length; later spans win on overlap.
func (c *classifier) applyStyles(attrs []CodepointAttributes) {
	for i := range attrs {
		attrs[i].Style = c.cfg.style
	}
	for _, span := range c.cfg.spans {
		start, end := span.Start, span.End
		if start < 0 {
			start = 0
		}
		if end > len(attrs) {
			end = len(attrs)
		}
		for i := start; i < end; i++ {
			attrs[i].Style = c.cfg.style | span.Style
		}
	}
}
