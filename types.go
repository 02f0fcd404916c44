package textrun

// unknownStr is the string returned for unknown enum values.
const unknownStr = "Unknown"

// Direction specifies text direction.
type Direction int

const (
	// DirectionLTR is left-to-right text (English, French, etc.)
	DirectionLTR Direction = iota
	// DirectionRTL is right-to-left text (Arabic, Hebrew)
	DirectionRTL
	// DirectionTTB is top-to-bottom text (traditional Chinese, Japanese).
	// Reserved: the pipeline currently emits only horizontal runs.
	DirectionTTB
	// DirectionBTT is bottom-to-top text (rare). Reserved.
	DirectionBTT
)

// String returns the string representation of the direction.
func (d Direction) String() string {
	switch d {
	case DirectionLTR:
		return "LTR"
	case DirectionRTL:
		return "RTL"
	case DirectionTTB:
		return "TTB"
	case DirectionBTT:
		return "BTT"
	default:
		return unknownStr
	}
}

// IsHorizontal returns true if the direction is horizontal (LTR or RTL).
func (d Direction) IsHorizontal() bool {
	return d == DirectionLTR || d == DirectionRTL
}

// IsVertical returns true if the direction is vertical (TTB or BTT).
func (d Direction) IsVertical() bool {
	return d == DirectionTTB || d == DirectionBTT
}

// FontKey is an opaque font identifier resolved by a FontLookup.
// The empty key resolves to the lookup's default font.
type FontKey string

// StyleFlags is a bitset of style attributes attached to each codepoint.
// Runs never span a style change.
type StyleFlags uint32

const (
	// StyleBold marks synthetic or selected bold.
	StyleBold StyleFlags = 1 << iota
	// StyleItalic marks synthetic or selected italic.
	StyleItalic
	// StyleUnderline marks underlined text.
	StyleUnderline
	// StyleStrikethrough marks struck-through text.
	StyleStrikethrough
)

// Has reports whether all bits of f are set in s.
func (s StyleFlags) Has(f StyleFlags) bool { return s&f == f }

// String returns a "|"-separated list of set flags, or "Regular".
func (s StyleFlags) String() string {
	if s == 0 {
		return "Regular"
	}
	names := []struct {
		flag StyleFlags
		name string
	}{
		{StyleBold, "Bold"},
		{StyleItalic, "Italic"},
		{StyleUnderline, "Underline"},
		{StyleStrikethrough, "Strikethrough"},
	}
	out := ""
	for _, n := range names {
		if s.Has(n.flag) {
			if out != "" {
				out += "|"
			}
			out += n.name
		}
	}
	if out == "" {
		return unknownStr
	}
	return out
}

// StyleSpan applies style flags to a half-open rune range [Start, End)
// of the input text. Spans participate in run splitting: a style change
// always starts a new run.
type StyleSpan struct {
	Start, End int
	Style      StyleFlags
}
