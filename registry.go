package textrun

import (
	"bytes"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
)

// Registry is a process-wide font store keyed by FontKey. It replaces the
// ambient global font caches common in native text stacks with an explicitly
// initialized, read-only-after-load collection, and implements both pipeline
// collaborators: FontLookup (resolution, coverage, metrics) and RunShaper
// (HarfBuzz shaping via go-text/typesetting).
//
// Fonts are registered up front; lookups afterwards take only a read lock,
// so a Registry is safe for concurrent use, including under parallel
// shaping. Reload and Remove provide the teardown/reload contract: handles
// resolved before a Reload keep shaping against the old font data, and a
// fresh ResolveFont picks up the new data.
type Registry struct {
	mu         sync.RWMutex
	fonts      map[FontKey]*registryEntry
	defaultKey FontKey
	lang       language.Language

	// shaperPool pools HarfbuzzShaper instances. The shaper has internal
	// mutable buffers and is not safe for concurrent use, but reuse across
	// sequential calls avoids reallocating them.
	shaperPool sync.Pool
}

// registryEntry is one loaded font. The parsed *font.Font is read-only and
// safe for concurrent use; per-call font.Face instances are created on
// demand since Face is not.
type registryEntry struct {
	font     *font.Font
	upem     uint32
	coverage *coverageMap
}

// registryHandle implements FontHandle for fonts resolved from a Registry.
type registryHandle struct {
	key   FontKey
	entry *registryEntry
}

// Key returns the FontKey the handle was resolved from.
func (h *registryHandle) Key() FontKey { return h.key }

// NewRegistry creates an empty font registry.
func NewRegistry() *Registry {
	return &Registry{
		fonts: make(map[FontKey]*registryEntry),
		lang:  language.NewLanguage("en"),
		shaperPool: sync.Pool{
			New: func() any {
				return &shaping.HarfbuzzShaper{}
			},
		},
	}
}

// Register parses TTF/OTF font data and stores it under key. The first
// registered font becomes the registry default (resolved by the empty key)
// unless SetDefaultFont overrides it. Registering an existing key is an
// error; use Reload to swap font data.
func (r *Registry) Register(key FontKey, data []byte) error {
	entry, err := parseFont(data)
	if err != nil {
		return fmt.Errorf("textrun: parsing font %q: %w", string(key), err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.fonts[key]; exists {
		return fmt.Errorf("textrun: font %q already registered", string(key))
	}
	r.fonts[key] = entry
	if len(r.fonts) == 1 {
		r.defaultKey = key
	}
	return nil
}

// RegisterFile loads a font file and registers it under key.
func (r *Registry) RegisterFile(key FontKey, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("textrun: reading font file: %w", err)
	}
	return r.Register(key, data)
}

// Reload atomically replaces the font data under an existing key. Handles
// resolved before the call keep referencing the old data.
func (r *Registry) Reload(key FontKey, data []byte) error {
	entry, err := parseFont(data)
	if err != nil {
		return fmt.Errorf("textrun: parsing font %q: %w", string(key), err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.fonts[key]; !exists {
		return fmt.Errorf("textrun: font %q not registered: %w", string(key), ErrUnknownFont)
	}
	r.fonts[key] = entry
	return nil
}

// Remove deletes a font. Removing the default font promotes no replacement;
// set a new default explicitly. Returns false if the key was not registered.
func (r *Registry) Remove(key FontKey) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.fonts[key]; !exists {
		return false
	}
	delete(r.fonts, key)
	if r.defaultKey == key {
		r.defaultKey = ""
	}
	return true
}

// Reset drops all fonts and the default key. Handles resolved earlier stay
// usable; the registry simply stops handing them out.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fonts = make(map[FontKey]*registryEntry)
	r.defaultKey = ""
}

// SetDefaultFont selects the font resolved by the empty key.
func (r *Registry) SetDefaultFont(key FontKey) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.fonts[key]; !exists {
		return fmt.Errorf("textrun: font %q not registered: %w", string(key), ErrUnknownFont)
	}
	r.defaultKey = key
	return nil
}

// SetLanguage sets the BCP-47 language hint passed to the shaper
// (e.g. "en", "ar", "ja"). The default is "en".
func (r *Registry) SetLanguage(tag string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lang = language.NewLanguage(tag)
}

// Keys returns the registered font keys in sorted order.
func (r *Registry) Keys() []FontKey {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]FontKey, 0, len(r.fonts))
	for k := range r.fonts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// ResolveFont implements FontLookup. The empty key resolves to the default
// font.
func (r *Registry) ResolveFont(key FontKey) (FontHandle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.fonts) == 0 {
		return nil, ErrNoFonts
	}
	resolved := key
	if resolved == "" {
		resolved = r.defaultKey
		if resolved == "" {
			return nil, ErrUnknownFont
		}
	}
	entry, ok := r.fonts[resolved]
	if !ok {
		return nil, ErrUnknownFont
	}
	return &registryHandle{key: resolved, entry: entry}, nil
}

// Covers implements FontLookup. Results are memoized per font.
func (r *Registry) Covers(h FontHandle, rn rune) bool {
	rh, ok := h.(*registryHandle)
	if !ok {
		return false
	}

	if covered, checked := rh.entry.coverage.lookup(rn); checked {
		return covered
	}
	_, covered := rh.entry.font.NominalGlyph(rn)
	rh.entry.coverage.store(rn, covered)
	return covered
}

// UnitsPerEm implements FontLookup.
func (r *Registry) UnitsPerEm(h FontHandle) uint32 {
	rh, ok := h.(*registryHandle)
	if !ok {
		return 0
	}
	return rh.entry.upem
}

// parseFont parses TTF/OTF bytes into a registry entry.
func parseFont(data []byte) (*registryEntry, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty font data")
	}
	face, err := font.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return &registryEntry{
		font:     face.Font,
		upem:     uint32(face.Font.Upem()),
		coverage: newCoverageMap(),
	}, nil
}

// defaultRegistry backs DefaultRegistry, created on first use.
var (
	defaultRegistryOnce sync.Once
	defaultRegistry     *Registry
)

// DefaultRegistry returns the process-wide registry used by the default
// engine. Fonts must be registered explicitly; the registry starts empty.
func DefaultRegistry() *Registry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}
