package textrun

import "github.com/go-text/typesetting/language"

// Run is a maximal span of text sharing script, font, direction, and style.
// Start and End are rune indices into the source text (half-open). The run
// sequence produced by splitting is non-overlapping, in increasing offset
// order, and covers [0, rune count) exactly.
type Run struct {
	Start, End int
	Attrs      CodepointAttributes
	Direction  Direction
}

// Len returns the number of runes in the run.
func (r Run) Len() int { return r.End - r.Start }

// Text returns the run's slice of the source runes.
func (r Run) Text(runes []rune) []rune { return runes[r.Start:r.End] }

// splitRuns partitions the classified runes into maximal runs in a single
// left-to-right scan. A new run starts whenever the (script, font, direction,
// style) tuple changes. Empty input yields nil, not an error.
//
// Neutral-script (Common) codepoints are resolved from context before the
// scan: between two identical concrete scripts they adopt that script and so
// join the surrounding run; leading neutrals adopt the following script and
// trailing neutrals the preceding one. A neutral between two DIFFERENT
// concrete scripts stays Common and forms its own run, with its direction
// inherited from the left per the classifier.
func splitRuns(attrs []CodepointAttributes) []Run {
	if len(attrs) == 0 {
		return nil
	}

	scripts := resolveCommonScripts(attrs)

	runs := make([]Run, 0, 4)
	start := 0
	for i := 1; i < len(attrs); i++ {
		if scripts[i] == scripts[i-1] && sameRunAttrs(&attrs[i], &attrs[i-1]) {
			continue
		}
		runs = append(runs, makeRun(attrs, scripts, start, i))
		start = i
	}
	runs = append(runs, makeRun(attrs, scripts, start, len(attrs)))

	return runs
}

// sameRunAttrs reports whether two adjacent codepoints may share a run,
// ignoring script (handled separately via the resolved script slice).
func sameRunAttrs(a, b *CodepointAttributes) bool {
	return a.Font == b.Font && a.RTL == b.RTL && a.Style == b.Style
}

// makeRun builds the run for attrs[start:end]. The run's attributes are the
// shared tuple of its codepoints, with the resolved (possibly upgraded from
// Common) script.
func makeRun(attrs []CodepointAttributes, scripts []language.Script, start, end int) Run {
	dir := DirectionLTR
	if attrs[start].RTL {
		dir = DirectionRTL
	}
	return Run{
		Start: start,
		End:   end,
		Attrs: CodepointAttributes{
			Script: scripts[start],
			RTL:    attrs[start].RTL,
			Font:   attrs[start].Font,
			Style:  attrs[start].Style,
		},
		Direction: dir,
	}
}

// resolveCommonScripts returns the effective script per codepoint for run
// membership: Common codepoints adopt a neighboring concrete script when the
// scripts on both sides agree (or only one side has one), and stay Common
// when caught between two different scripts.
func resolveCommonScripts(attrs []CodepointAttributes) []language.Script {
	scripts := make([]language.Script, len(attrs))
	for i := range attrs {
		scripts[i] = attrs[i].Script
	}

	lastConcrete := language.Common
	for i := range scripts {
		if scripts[i] != language.Common {
			lastConcrete = scripts[i]
			continue
		}
		next := findNextConcreteScript(scripts, i+1)
		scripts[i] = resolveCommonScript(lastConcrete, next)
	}

	return scripts
}

// findNextConcreteScript finds the next non-Common script at or after start.
func findNextConcreteScript(scripts []language.Script, start int) language.Script {
	for j := start; j < len(scripts); j++ {
		if scripts[j] != language.Common {
			return scripts[j]
		}
	}
	return language.Common
}

// resolveCommonScript determines what script a Common codepoint adopts given
// its flanking concrete scripts.
func resolveCommonScript(prev, next language.Script) language.Script {
	switch {
	case prev != language.Common && prev == next:
		return prev
	case prev != language.Common && next == language.Common:
		return prev
	case prev == language.Common && next != language.Common:
		return next
	default:
		return language.Common
	}
}
