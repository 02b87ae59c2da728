// Package render formats checker alerts for presentation. The highlight
// markers and line breaks vary with the output target (a terminal vs. an HTML
// page), so the variation is isolated behind the Renderer interface and the
// rest of the engine stays presentation-agnostic.
package render

import (
	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/termenv"

	"github.com/elarsonSU/egret/internal/alert"
)

// Renderer supplies the presentation-specific pieces of a formatted alert:
// how a source span is highlighted and what a line break looks like.
type Renderer interface {
	Highlight(span string, sev alert.Severity) string
	Break() string
}

// Web renders for HTML output: <mark> highlights and <br> line breaks.
type Web struct{}

func (Web) Highlight(span string, _ alert.Severity) string {
	return "<mark>" + span + "</mark>"
}

func (Web) Break() string { return "<br>" }

// Highlight colors. Violations get the saturated blue; warnings get the same
// blue pulled toward gray, so the two read as related but distinct in any
// terminal that can show the difference.
var (
	highlightFg   = mustHex("#ffdf33")
	violationBg   = mustHex("#2850b4")
	warningBg     = violationBg.BlendLuv(mustHex("#6f6f6f"), 0.4)
)

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// ANSI renders for a terminal. When the output is not a terminal (a pipe or
// a file), highlights degrade to the bare span so the text stays grep-able.
type ANSI struct {
	profile termenv.Profile
}

// NewANSI returns a terminal renderer. tty should report whether the output
// stream is an interactive terminal; the caller decides (go-isatty on the
// real stdout, false in tests and pipes).
func NewANSI(tty bool) *ANSI {
	profile := termenv.Ascii
	if tty {
		profile = termenv.ColorProfile()
	}
	return &ANSI{profile: profile}
}

func (a *ANSI) Highlight(span string, sev alert.Severity) string {
	if a.profile == termenv.Ascii {
		return span
	}
	bg := violationBg
	if sev == alert.Warning {
		bg = warningBg
	}
	return termenv.String(span).
		Foreground(a.profile.FromColor(highlightFg)).
		Background(a.profile.FromColor(bg)).
		Bold().
		String()
}

func (a *ANSI) Break() string { return "\n" }
