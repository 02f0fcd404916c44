package textrun

import (
	"sync"
	"sync/atomic"
	"unicode/utf8"
)

// Engine is one configured shaping pipeline. It holds the collaborators and
// the request-independent configuration; all per-request state lives on the
// stack of the call, so an Engine is safe for concurrent use as long as its
// collaborators are.
type Engine struct {
	fonts  FontLookup
	shaper RunShaper
	cfg    config
}

// New creates an Engine over the given collaborators. Registry implements
// both interfaces, so the common case is New(reg, reg).
func New(fonts FontLookup, shaper RunShaper, opts ...Option) (*Engine, error) {
	if fonts == nil {
		return nil, ErrNilFontLookup
	}
	if shaper == nil {
		return nil, ErrNilRunShaper
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Engine{fonts: fonts, shaper: shaper, cfg: cfg}, nil
}

// SplitIntoRuns partitions text into maximal runs sharing script, font,
// direction, and style. No shaping is performed. The returned runs are
// contiguous, non-overlapping, in increasing rune-offset order, and cover
// the whole input; empty input yields an empty slice and no error.
func (e *Engine) SplitIntoRuns(text string, fontSize float64) ([]Run, error) {
	if fontSize <= 0 {
		return nil, ErrInvalidFontSize
	}
	if err := validateUTF8(text); err != nil {
		return nil, err
	}

	runes := []rune(text)
	cl := classifier{cfg: &e.cfg, fonts: e.fonts}
	attrs, err := cl.classify(runes)
	if err != nil {
		return nil, err
	}

	runs := splitRuns(attrs)
	Logger().Debug("textrun: split", "runes", len(runes), "runs", len(runs))
	return runs, nil
}

// SplitAndShape executes the full pipeline: classification, run splitting,
// per-run shaping, and assembly into a single logical-order GlyphStream.
// Empty input yields an empty stream and no error.
func (e *Engine) SplitAndShape(text string, fontSize float64) (*GlyphStream, error) {
	runs, err := e.SplitIntoRuns(text, fontSize)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return &GlyphStream{}, nil
	}

	runes := []rune(text)
	shaped, err := e.shapeAll(runs, runes, fontSize)
	if err != nil {
		return nil, err
	}

	stream := assemble(shaped)
	Logger().Debug("textrun: shaped", "runs", len(runs), "glyphs", len(stream.Glyphs))
	return stream, nil
}

// shapeAll shapes every run, sequentially or on a bounded worker pool.
// Results are collected back into logical run order regardless of
// completion order; the first error in run order wins.
func (e *Engine) shapeAll(runs []Run, runes []rune, fontSize float64) ([]ShapedRun, error) {
	shaped := make([]ShapedRun, len(runs))

	if e.cfg.workers <= 1 || len(runs) < 2 {
		for i, run := range runs {
			s, err := e.shapeRun(run, runes, fontSize)
			if err != nil {
				return nil, err
			}
			shaped[i] = s
		}
		return shaped, nil
	}

	workers := min(e.cfg.workers, len(runs))
	jobs := make(chan int)
	errs := make([]error, len(runs))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				shaped[i], errs[i] = e.shapeRun(runs[i], runes, fontSize)
			}
		}()
	}
	for i := range runs {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return shaped, nil
}

// validateUTF8 rejects malformed input before any processing begins.
func validateUTF8(text string) error {
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		if r == utf8.RuneError && size == 1 {
			return &MalformedTextError{Offset: i}
		}
		i += size
	}
	return nil
}

// defaultEngine backs the package-level entry points. Built lazily over the
// default registry; replaceable for callers that want configured defaults.
var defaultEngine atomic.Pointer[Engine]

// DefaultEngine returns the process-wide engine used by the package-level
// SplitIntoRuns and SplitAndShape. It shapes with DefaultRegistry and
// default options.
func DefaultEngine() *Engine {
	if e := defaultEngine.Load(); e != nil {
		return e
	}
	reg := DefaultRegistry()
	e, err := New(reg, reg)
	if err != nil {
		// Unreachable: both collaborators are non-nil.
		panic(err)
	}
	defaultEngine.CompareAndSwap(nil, e)
	return defaultEngine.Load()
}

// SetDefaultEngine replaces the engine behind the package-level entry
// points. Pass nil to restore the built-in default on next use.
// Safe for concurrent use.
func SetDefaultEngine(e *Engine) {
	defaultEngine.Store(e)
}

// SplitIntoRuns splits text into runs using the default engine.
// See Engine.SplitIntoRuns.
func SplitIntoRuns(text string, fontSize float64) ([]Run, error) {
	return DefaultEngine().SplitIntoRuns(text, fontSize)
}

// SplitAndShape runs the full pipeline using the default engine.
// See Engine.SplitAndShape.
func SplitAndShape(text string, fontSize float64) (*GlyphStream, error) {
	return DefaultEngine().SplitAndShape(text, fontSize)
}
