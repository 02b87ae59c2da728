package engine

import (
	"reflect"
	"strings"
	"testing"
)

// runTestGen runs the engine in test-generation mode and splits the output
// into the alert region and the test-string region around the BEGIN sentinel.
func runTestGen(t *testing.T, regex string) (alerts, strs []string) {
	t.Helper()
	lines, err := Run(&Ctx{Regex: regex})
	if err != nil {
		t.Fatalf("Run(%q): %v", regex, err)
	}
	for i, l := range lines {
		if l == "BEGIN" {
			return lines[:i], lines[i+1:]
		}
	}
	t.Fatalf("Run(%q): no BEGIN sentinel in %v", regex, lines)
	return nil, nil
}

func runCheck(t *testing.T, regex string) []string {
	t.Helper()
	lines, err := Run(&Ctx{Regex: regex, CheckMode: true})
	if err != nil {
		t.Fatalf("Run(%q) check mode: %v", regex, err)
	}
	return lines
}

func containsString(strs []string, want string) bool {
	for _, s := range strs {
		if s == want {
			return true
		}
	}
	return false
}

func TestLowercaseWordRegex(t *testing.T) {
	alerts, strs := runTestGen(t, `^[a-z]+$`)
	if len(alerts) != 0 {
		t.Errorf("expected no alerts, got %v", alerts)
	}
	for _, want := range []string{"evil", "", "_", "6", " ", "e", "ev4il", "EVIL", "eVil"} {
		if !containsString(strs, want) {
			t.Errorf("expected test string %q, got %v", want, strs)
		}
	}
}

func TestBoundedRepeatBoundaries(t *testing.T) {
	alerts, strs := runTestGen(t, `^a{3,5}$`)
	if len(alerts) != 0 {
		t.Errorf("expected no alerts, got %v", alerts)
	}
	for _, want := range []string{"aaa", "aa", "aaaaa", "aaaaaa"} {
		if !containsString(strs, want) {
			t.Errorf("expected test string %q, got %v", want, strs)
		}
	}
}

func TestExactRepeatBoundaries(t *testing.T) {
	_, strs := runTestGen(t, `^a{3}$`)
	for _, want := range []string{"aaa", "aa", "aaaa"} {
		if !containsString(strs, want) {
			t.Errorf("expected test string %q, got %v", want, strs)
		}
	}
}

func TestCharsetSeparatorViolation(t *testing.T) {
	lines := runCheck(t, `[a|b]`)
	if len(lines) != 1 {
		t.Fatalf("expected exactly one alert, got %v", lines)
	}
	a := lines[0]
	if !strings.Contains(a, "VIOLATION (charset sep)") {
		t.Errorf("expected charset sep violation, got %q", a)
	}
	if !strings.Contains(a, "...Suggested fix: (a|b)") {
		t.Errorf("expected (a|b) suggestion, got %q", a)
	}
	if !strings.Contains(a, "...Example accepted string: |") {
		t.Errorf("expected | example, got %q", a)
	}
}

func TestBadRangeViolation(t *testing.T) {
	lines := runCheck(t, `[A-z]`)
	if len(lines) != 1 {
		t.Fatalf("expected exactly one alert, got %v", lines)
	}
	a := lines[0]
	if !strings.Contains(a, "VIOLATION (bad range)") {
		t.Errorf("expected bad range violation, got %q", a)
	}
	if !strings.Contains(a, "...Suggested fix: [A-Za-z]") {
		t.Errorf("expected [A-Za-z] suggestion, got %q", a)
	}
}

func TestOptionalGroup(t *testing.T) {
	alerts, strs := runTestGen(t, `(foo)?bar`)
	if len(alerts) != 0 {
		t.Errorf("expected no alerts, got %v", alerts)
	}
	for _, want := range []string{"foobar", "bar"} {
		if !containsString(strs, want) {
			t.Errorf("expected test string %q, got %v", want, strs)
		}
	}
}

func TestWildPunctuationAdjacency(t *testing.T) {
	lines := runCheck(t, `a.\.`)
	found := false
	for _, l := range lines {
		if strings.Contains(l, "VIOLATION (wild punctuation)") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected wild punctuation violation, got %v", lines)
	}

	clean := runCheck(t, `.foo`)
	if len(clean) != 1 || clean[0] != "No violations detected." {
		t.Errorf("expected no violations for .foo, got %v", clean)
	}
}

func TestBackreferenceResolvesCapture(t *testing.T) {
	_, strs := runTestGen(t, `(ab)\1`)
	if !containsString(strs, "abab") {
		t.Errorf("expected backreference to repeat the capture, got %v", strs)
	}
}

func TestAnchorUsageMismatch(t *testing.T) {
	lines := runCheck(t, `^abc|def$`)
	var caret, dollar bool
	for _, l := range lines {
		if strings.Contains(l, "Some but not all strings start with a ^ anchor") {
			caret = true
		}
		if strings.Contains(l, "Some but not all strings end with a $ anchor") {
			dollar = true
		}
	}
	if !caret || !dollar {
		t.Errorf("expected both anchor usage violations, got %v", lines)
	}
	// fix_anchors drops the stray anchors and wraps the remainder.
	fixed := false
	for _, l := range lines {
		if strings.Contains(l, "...Suggested fix: ^(abc|def)$") {
			fixed = true
		}
	}
	if !fixed {
		t.Errorf("expected ^(abc|def)$ anchor fix, got %v", lines)
	}
}

func TestIgnoredExtensionWarningOnlyInTestGenMode(t *testing.T) {
	alerts, _ := runTestGen(t, `(?i)abc`)
	found := false
	for _, a := range alerts {
		if strings.Contains(a, "WARNING (ignored)") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected ignored-extension warning in test-gen mode, got %v", alerts)
	}

	lines := runCheck(t, `(?i)abc`)
	if len(lines) != 1 || lines[0] != "No violations detected." {
		t.Errorf("expected warning suppressed in check mode, got %v", lines)
	}
}

func TestDeterministicOutput(t *testing.T) {
	first, err := Run(&Ctx{Regex: `^(foo|ba[rz])\d{2,4}$`})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	second, err := Run(&Ctx{Regex: `^(foo|ba[rz])\d{2,4}$`})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("identical inputs produced different outputs:\n%v\n%v", first, second)
	}
}

func TestErrorOutputs(t *testing.T) {
	tests := []struct {
		name  string
		ctx   Ctx
		wants string
	}{
		{"short base substring", Ctx{Regex: "abc", BaseSubstring: "e"}, "ERROR (bad arguments)"},
		{"non-letter base substring", Ctx{Regex: "abc", BaseSubstring: "ev1l"}, "ERROR (bad arguments)"},
		{"pointless alternation", Ctx{Regex: "|"}, "ERROR (pointless alternation)"},
		{"pointless repeat", Ctx{Regex: "x{0,0}"}, "ERROR (pointless repeat)"},
		{"unterminated named group", Ctx{Regex: "(?P<x"}, "ERROR (parse error)"},
		{"dangling backslash", Ctx{Regex: `ab\`}, "ERROR (parse error)"},
		{"unsupported escape", Ctx{Regex: `a\n`}, "ERROR (unsupported)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines, err := Run(&tt.ctx)
			if err == nil {
				t.Fatalf("expected error, got output %v", lines)
			}
			if len(lines) != 1 || !strings.HasPrefix(lines[0], tt.wants) {
				t.Errorf("expected single %q line, got %v", tt.wants, lines)
			}
		})
	}
}

func TestUnsupportedEscapeToleratedInCheckMode(t *testing.T) {
	lines, err := Run(&Ctx{Regex: `a\n`, CheckMode: true})
	if err != nil {
		t.Fatalf("check mode should tolerate \\n, got %v (%v)", err, lines)
	}
}

func TestWebModeBreaks(t *testing.T) {
	lines, err := Run(&Ctx{Regex: `[a|b]`, CheckMode: true, WebMode: true})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(lines) != 1 || !strings.Contains(lines[0], "<br>") || !strings.Contains(lines[0], "<mark>") {
		t.Errorf("expected web-mode markup, got %v", lines)
	}
}
