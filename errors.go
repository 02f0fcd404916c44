package textrun

import (
	"errors"
	"fmt"
)

// Sentinel errors for the textrun package.
var (
	// ErrInvalidFontSize is returned when the requested font size is not
	// strictly positive.
	ErrInvalidFontSize = errors.New("textrun: font size must be positive")

	// ErrNilFontLookup is returned by New when no FontLookup is provided.
	ErrNilFontLookup = errors.New("textrun: font lookup must not be nil")

	// ErrNilRunShaper is returned by New when no RunShaper is provided.
	ErrNilRunShaper = errors.New("textrun: run shaper must not be nil")

	// ErrNoFonts is returned by Registry lookups when no font has been
	// registered.
	ErrNoFonts = errors.New("textrun: no fonts registered")

	// ErrUnknownFont is returned by Registry lookups for keys that do not
	// map to a registered font.
	ErrUnknownFont = errors.New("textrun: unknown font key")
)

// UnsupportedCodepointError reports a codepoint that no font in the fallback
// chain covers, with notdef substitution disabled. Fatal for the request.
type UnsupportedCodepointError struct {
	Rune   rune
	Offset int // rune offset into the input text
}

func (e *UnsupportedCodepointError) Error() string {
	return fmt.Sprintf("textrun: no font covers U+%04X at rune offset %d", e.Rune, e.Offset)
}

// FontResolutionError reports a font key that did not resolve to a loadable
// font. Fatal for the request.
type FontResolutionError struct {
	Key FontKey
	Err error
}

func (e *FontResolutionError) Error() string {
	return fmt.Sprintf("textrun: resolving font %q: %v", string(e.Key), e.Err)
}

func (e *FontResolutionError) Unwrap() error { return e.Err }

// MalformedTextError reports invalid UTF-8 in the input. It is detected
// before any classification or shaping begins.
type MalformedTextError struct {
	Offset int // byte offset of the first invalid sequence
}

func (e *MalformedTextError) Error() string {
	return fmt.Sprintf("textrun: invalid UTF-8 at byte offset %d", e.Offset)
}
