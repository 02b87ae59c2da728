package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// run() function tests
// ---------------------------------------------------------------------------

func TestRunValidPattern(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := run([]string{"egret", "-r", "^[a-z]+$"}, &stdout, &stderr)
	if err != nil {
		t.Fatalf("expected no error, got: %v\nstderr: %s", err, stderr.String())
	}

	out := stdout.String()
	if !strings.Contains(out, "BEGIN") {
		t.Errorf("expected BEGIN sentinel in output, got: %s", out)
	}
	if !strings.Contains(out, "evil") {
		t.Errorf("expected base substring in output, got: %s", out)
	}
}

func TestRunCheckMode(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := run([]string{"egret", "-r", "[a|b]", "-c"}, &stdout, &stderr)
	if err != nil {
		t.Fatalf("expected no error, got: %v\nstderr: %s", err, stderr.String())
	}

	out := stdout.String()
	if !strings.Contains(out, "VIOLATION (charset sep)") {
		t.Errorf("expected charset sep violation, got: %s", out)
	}
	if strings.Contains(out, "BEGIN") {
		t.Error("check mode must not emit the BEGIN sentinel")
	}
}

func TestRunCleanCheck(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := run([]string{"egret", "-r", "^[a-z]+$", "-c"}, &stdout, &stderr)
	if err != nil {
		t.Fatalf("expected no error, got: %v\nstderr: %s", err, stderr.String())
	}
	if !strings.Contains(stdout.String(), "No violations detected.") {
		t.Errorf("expected clean report, got: %s", stdout.String())
	}
}

func TestRunEngineError(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := run([]string{"egret", "-r", "(?P<x"}, &stdout, &stderr)
	if err == nil {
		t.Fatal("expected error for malformed pattern, got nil")
	}
	if !strings.Contains(stdout.String(), "ERROR (parse error)") {
		t.Errorf("expected parse error line, got: %s", stdout.String())
	}
}

func TestRunNoPattern(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := run([]string{"egret"}, &stdout, &stderr)
	if err == nil {
		t.Fatal("expected error when no pattern given, got nil")
	}
	if stderr.Len() == 0 {
		t.Error("expected usage message on stderr")
	}
}

func TestRunBothPatternSources(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := run([]string{"egret", "-r", "abc", "-f", "x.txt"}, &stdout, &stderr)
	if err == nil {
		t.Fatal("expected error when both -r and -f given, got nil")
	}
}

func TestRunPatternFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pattern.txt")
	if err := os.WriteFile(path, []byte("^a{2,3}$\n"), 0644); err != nil {
		t.Fatal(err)
	}

	var stdout, stderr bytes.Buffer
	err := run([]string{"egret", "-f", path}, &stdout, &stderr)
	if err != nil {
		t.Fatalf("expected no error, got: %v\nstderr: %s", err, stderr.String())
	}
	if !strings.Contains(stdout.String(), "aa") {
		t.Errorf("expected generated strings, got: %s", stdout.String())
	}
}

func TestRunBaseSubstringFlag(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := run([]string{"egret", "-r", "^[a-z]+$", "-b", "wiki"}, &stdout, &stderr)
	if err != nil {
		t.Fatalf("expected no error, got: %v\nstderr: %s", err, stderr.String())
	}
	if !strings.Contains(stdout.String(), "wiki") {
		t.Errorf("expected custom base substring in output, got: %s", stdout.String())
	}
}

func TestRunBadBaseSubstring(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := run([]string{"egret", "-r", "abc", "-b", "x"}, &stdout, &stderr)
	if err == nil {
		t.Fatal("expected error for one-letter base substring, got nil")
	}
	if !strings.Contains(stdout.String(), "ERROR (bad arguments)") {
		t.Errorf("expected bad arguments line, got: %s", stdout.String())
	}
}

func TestRunWebMode(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := run([]string{"egret", "-r", "[a|b]", "-c", "-w"}, &stdout, &stderr)
	if err != nil {
		t.Fatalf("expected no error, got: %v\nstderr: %s", err, stderr.String())
	}
	if !strings.Contains(stdout.String(), "<mark>") {
		t.Errorf("expected <mark> highlighting in web mode, got: %s", stdout.String())
	}
}

// ---------------------------------------------------------------------------
// --unescape flag tests
// ---------------------------------------------------------------------------

func TestRunUnescapeFlag(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := run([]string{"egret", "--unescape", "-r", `^\\d{2}$`}, &stdout, &stderr)
	if err != nil {
		t.Fatalf("expected no error with --unescape, got: %v\nstderr: %s", err, stderr.String())
	}
	if strings.Contains(stderr.String(), "double backslashes") {
		t.Error("expected no double-escape warning with --unescape")
	}
}

func TestRunDoubleEscapeWarning(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := run([]string{"egret", "-r", `^\\d{2}$`}, &stdout, &stderr)
	if err != nil {
		t.Fatalf("expected no error, got: %v\nstderr: %s", err, stderr.String())
	}
	if !strings.Contains(stderr.String(), "--unescape") {
		t.Errorf("expected warning mentioning --unescape, got: %s", stderr.String())
	}
}

// ---------------------------------------------------------------------------
// --verify flag tests
// ---------------------------------------------------------------------------

func TestRunVerify(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := run([]string{"egret", "-r", "^a{2,3}$", "--verify"}, &stdout, &stderr)
	if err != nil {
		t.Fatalf("expected no error, got: %v\nstderr: %s", err, stderr.String())
	}

	out := stdout.String()
	if !strings.Contains(out, "accept") || !strings.Contains(out, "reject") {
		t.Errorf("expected accept and reject verdicts, got: %s", out)
	}
}

func TestRunVersion(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := run([]string{"egret", "--version"}, &stdout, &stderr)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if !strings.Contains(stdout.String(), "egret version") {
		t.Errorf("expected version output, got: %s", stdout.String())
	}
}
