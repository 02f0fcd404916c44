// Command runsplit splits text into shaping runs and prints them.
//
// With no -font flags the embedded Go Regular face is used, which covers
// Latin, Greek, and Cyrillic. Register real fonts for other scripts:
//
//	runsplit -font Roboto-Regular.ttf -fallback NotoNaskhArabic.ttf -shape "Hello مرحبا"
package main

import (
	"flag"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/pterm/pterm"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/gogpu/textrun"
)

func main() {
	var (
		fontPath  = flag.String("font", "", "primary font file (TTF/OTF); embedded Go Regular if empty")
		size      = flag.Float64("size", 16, "font size in pixels")
		shape     = flag.Bool("shape", false, "also shape and print the glyph stream")
		rtl       = flag.Bool("rtl", false, "use an RTL paragraph base direction")
		fallbacks fontList
	)
	flag.Var(&fallbacks, "fallback", "fallback font file; may be repeated")
	flag.Parse()

	text := strings.Join(flag.Args(), " ")
	if text == "" {
		text = "Hello مرحبا 世界!"
	}

	reg := textrun.NewRegistry()
	opts := buildOptions(reg, *fontPath, fallbacks, *rtl)

	eng, err := textrun.New(reg, reg, opts...)
	if err != nil {
		log.Fatalf("creating engine: %v", err)
	}

	runs, err := eng.SplitIntoRuns(text, *size)
	if err != nil {
		log.Fatalf("splitting %q: %v", text, err)
	}

	printRuns(text, runs)

	if *shape {
		stream, err := eng.SplitAndShape(text, *size)
		if err != nil {
			log.Fatalf("shaping %q: %v", text, err)
		}
		printStream(stream)
	}
}

// fontList collects repeated -fallback flags.
type fontList []string

func (f *fontList) String() string { return strings.Join(*f, ",") }

func (f *fontList) Set(v string) error {
	*f = append(*f, v)
	return nil
}

// buildOptions registers the requested fonts and returns the matching engine
// options. Font keys are the file basenames without extension.
func buildOptions(reg *textrun.Registry, primary string, fallbacks fontList, rtl bool) []textrun.Option {
	var opts []textrun.Option

	if primary == "" {
		if err := reg.Register("goregular", goregular.TTF); err != nil {
			log.Fatalf("registering embedded font: %v", err)
		}
	} else {
		key := fontKey(primary)
		if err := reg.RegisterFile(key, primary); err != nil {
			log.Fatalf("registering %s: %v", primary, err)
		}
		opts = append(opts, textrun.WithPrimaryFont(key))
	}

	if len(fallbacks) > 0 {
		keys := make([]textrun.FontKey, 0, len(fallbacks))
		for _, path := range fallbacks {
			key := fontKey(path)
			if err := reg.RegisterFile(key, path); err != nil {
				log.Fatalf("registering %s: %v", path, err)
			}
			keys = append(keys, key)
		}
		opts = append(opts, textrun.WithFallback(keys...))
	}

	if rtl {
		opts = append(opts, textrun.WithBaseDirection(textrun.DirectionRTL))
	}

	return opts
}

func fontKey(path string) textrun.FontKey {
	base := filepath.Base(path)
	return textrun.FontKey(strings.TrimSuffix(base, filepath.Ext(base)))
}

func printRuns(text string, runs []textrun.Run) {
	runes := []rune(text)

	data := pterm.TableData{
		{"#", "Range", "Text", "Script", "Dir", "Font", "Style"},
	}
	for i, run := range runs {
		font := string(run.Attrs.Font)
		if font == "" {
			font = "(default)"
		}
		data = append(data, []string{
			fmt.Sprintf("%d", i),
			fmt.Sprintf("[%d,%d)", run.Start, run.End),
			fmt.Sprintf("%q", string(run.Text(runes))),
			scriptTag(uint32(run.Attrs.Script)),
			run.Direction.String(),
			font,
			run.Attrs.Style.String(),
		})
	}

	pterm.DefaultSection.Printf("%d runs\n", len(runs))
	if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
		log.Fatalf("rendering table: %v", err)
	}
}

func printStream(stream *textrun.GlyphStream) {
	data := pterm.TableData{
		{"#", "GID", "Cluster", "XAdvance", "XOffset", "YOffset"},
	}
	for i, g := range stream.Glyphs {
		data = append(data, []string{
			fmt.Sprintf("%d", i),
			fmt.Sprintf("%d", g.GID),
			fmt.Sprintf("[%d,%d)", g.ClusterStart, g.ClusterEnd),
			fmt.Sprintf("%.2f", g.XAdvance),
			fmt.Sprintf("%.2f", g.XOffset),
			fmt.Sprintf("%.2f", g.YOffset),
		})
	}

	pterm.DefaultSection.Printf("%d glyphs, advance %.2fpx\n", len(stream.Glyphs), stream.Advance)
	if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
		log.Fatalf("rendering table: %v", err)
	}
}

// scriptTag renders a script identifier as its 4-letter ISO 15924 tag.
func scriptTag(s uint32) string {
	return string([]byte{byte(s >> 24), byte(s >> 16), byte(s >> 8), byte(s)})
}
