package textrun

import "sync/atomic"

// fakeHandle is a FontHandle for collaborator fakes.
type fakeHandle struct {
	key FontKey
}

func (h fakeHandle) Key() FontKey { return h.key }

// fakeLookup is a configurable FontLookup. Coverage defaults to everything;
// unitsPerEm defaults to 1000.
type fakeLookup struct {
	upem       uint32
	covers     map[FontKey]func(rune) bool
	resolveErr map[FontKey]error
}

func (f *fakeLookup) ResolveFont(key FontKey) (FontHandle, error) {
	if err := f.resolveErr[key]; err != nil {
		return nil, err
	}
	return fakeHandle{key: key}, nil
}

func (f *fakeLookup) Covers(h FontHandle, r rune) bool {
	fn := f.covers[h.Key()]
	if fn == nil {
		return true
	}
	return fn(r)
}

func (f *fakeLookup) UnitsPerEm(FontHandle) uint32 {
	if f.upem == 0 {
		return 1000
	}
	return f.upem
}

// fakeShaper is a configurable RunShaper counting invocations. The default
// behavior is one glyph per rune with a 500-unit advance in logical order.
type fakeShaper struct {
	calls atomic.Int64
	fn    func(h FontHandle, runes []rune, dir Direction) ([]RawGlyph, error)
}

func (f *fakeShaper) ShapeRun(h FontHandle, runes []rune, dir Direction) ([]RawGlyph, error) {
	f.calls.Add(1)
	if f.fn != nil {
		return f.fn(h, runes, dir)
	}
	glyphs := make([]RawGlyph, len(runes))
	for i, r := range runes {
		glyphs[i] = RawGlyph{GID: uint32(r), Cluster: i, XAdvance: 500}
	}
	return glyphs, nil
}

// newFakeEngine builds an engine over fresh fakes with the given options.
func newFakeEngine(t interface{ Fatalf(string, ...any) }, opts ...Option) (*Engine, *fakeLookup, *fakeShaper) {
	lookup := &fakeLookup{}
	shaper := &fakeShaper{}
	eng, err := New(lookup, shaper, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return eng, lookup, shaper
}
