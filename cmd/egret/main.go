// Command egret analyzes a regular expression and prints a lint report and a
// boundary-probing test-input suite for it.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	flag "github.com/spf13/pflag"

	"github.com/elarsonSU/egret/internal/engine"
	"github.com/elarsonSU/egret/internal/oracle"
	"github.com/elarsonSU/egret/internal/render"
	"github.com/elarsonSU/egret/internal/unescape"
)

var version = "1.0.0"

func main() {
	if err := run(os.Args, os.Stdout, os.Stderr); err != nil {
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("egret", flag.ContinueOnError)
	fs.SetOutput(stderr)

	regex := fs.StringP("regex", "r", "", "Regex to analyze")
	file := fs.StringP("file", "f", "", "File containing the regex to analyze")
	base := fs.StringP("base-substring", "b", engine.DefaultBaseSubstring, "Base substring for generated test strings")
	check := fs.BoolP("check", "c", false, "Check mode: report violations only, generate no test strings")
	web := fs.BoolP("web", "w", false, "Web mode: highlight with <mark> and break lines with <br>")
	debug := fs.BoolP("debug", "d", false, "Print engine tracing")
	statMode := fs.BoolP("stats", "s", false, "Print engine statistics")
	verify := fs.Bool("verify", false, "Report each generated string's accept/reject verdict from a second regex engine")
	unesc := fs.Bool("unescape", false, "Interpret string-literal escapes (\\\\d, \\n, \\t) in the pattern before analysis")
	showVersion := fs.BoolP("version", "v", false, "Show version")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "egret - Generate evil test strings and lint findings for regular expressions\n\n")
		fmt.Fprintf(stderr, "Usage:\n")
		fmt.Fprintf(stderr, "  egret -r <regex> [flags]\n")
		fmt.Fprintf(stderr, "  egret -f <file> [flags]\n\n")
		fmt.Fprintf(stderr, "Flags:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  egret -r '^[a-z]+$'\n")
		fmt.Fprintf(stderr, "  egret -r '[A-z]' -c\n")
		fmt.Fprintf(stderr, "  egret -f pattern.txt -b wiki\n")
	}

	err := fs.Parse(args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	if err != nil {
		return err
	}

	if *showVersion {
		fmt.Fprintf(stdout, "egret version %s\n", version)
		return nil
	}

	pattern, err := getPattern(*regex, *file, stderr, fs.Usage)
	if err != nil {
		return err
	}

	if *unesc {
		pattern = unescape.Pattern(pattern)
	} else if unescape.HasDoubleEscapes(pattern) {
		fmt.Fprintf(stderr, "Warning: pattern contains double backslashes; pass --unescape if it was copied from a string literal\n")
	}

	var renderer render.Renderer
	if *web {
		renderer = render.Web{}
	} else {
		renderer = render.NewANSI(isTerminal(stdout))
	}

	ctx := &engine.Ctx{
		Regex:         pattern,
		BaseSubstring: *base,
		CheckMode:     *check,
		WebMode:       *web,
		DebugMode:     *debug,
		StatMode:      *statMode,
		Renderer:      renderer,
		Out:           stdout,
	}

	lines, runErr := engine.Run(ctx)

	if *verify && !*check && runErr == nil {
		return printVerified(stdout, stderr, pattern, lines)
	}

	for _, l := range lines {
		fmt.Fprintln(stdout, l)
	}
	return runErr
}

// getPattern resolves the pattern source: exactly one of -r and -f.
func getPattern(regex, file string, stderr io.Writer, usage func()) (string, error) {
	switch {
	case regex != "" && file != "":
		fmt.Fprintf(stderr, "Error: -r and -f are mutually exclusive\n")
		usage()
		return "", fmt.Errorf("both -r and -f given")
	case regex != "":
		return regex, nil
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return "", fmt.Errorf("reading pattern file: %w", err)
		}
		return strings.TrimSpace(string(data)), nil
	default:
		fmt.Fprintf(stderr, "Error: no pattern provided\n")
		usage()
		return "", fmt.Errorf("no pattern provided")
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

// printVerified re-prints the engine output with each generated test string
// paired with the oracle's accept/reject verdict.
func printVerified(stdout, stderr io.Writer, pattern string, lines []string) error {
	m, err := oracle.Compile(pattern)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return err
	}

	inStrings := false
	for _, l := range lines {
		if !inStrings {
			fmt.Fprintln(stdout, l)
			if l == "BEGIN" {
				inStrings = true
			}
			continue
		}
		accepted, err := m.Accepts(l)
		switch {
		case err != nil:
			fmt.Fprintf(stdout, "%-40q ERROR %v\n", l, err)
		case accepted:
			fmt.Fprintf(stdout, "%-40q accept\n", l)
		default:
			fmt.Fprintf(stdout, "%-40q reject\n", l)
		}
	}
	return nil
}
