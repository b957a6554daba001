package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRun(t *testing.T) {
	dir := t.TempDir()

	grammarFile := filepath.Join(dir, "any.peg")
	if err := os.WriteFile(grammarFile, []byte("doc = .* // anything"), 0o644); err != nil {
		t.Fatal(err)
	}

	tt := []struct {
		name   string
		args   []string
		input  string
		code   int
		stdout string
		stderr string
	}{
		{name: "format", input: "a   b\n", stdout: "a b\n"},
		{name: "format from dash", args: []string{"-"}, input: "a\n\n\nb", stdout: "a\n\nb\n"},
		{name: "width", args: []string{"-w", "3"}, input: "one two", stdout: "one\ntwo\n"},
		{name: "spaces", args: []string{"-tabs=false", "-tabwidth", "4"}, input: "\\begin{center}x\\end{center}", stdout: "\\begin{center}\n    x\n\\end{center}\n"},
		{name: "fix", args: []string{"-fix"}, input: "{\\bf x}", stdout: "\\textbf{x}\n"},
		{name: "check formatted", args: []string{"-check"}, input: "a b\n", stdout: ""},
		{name: "check not formatted", args: []string{"-check"}, input: "a  b\n", code: 1, stdout: "<stdin>\n"},
		{name: "parse error", input: "$x", code: 1, stderr: "math is not closed"},
		{name: "lint", args: []string{"-lint"}, input: "$$x$$", stdout: "no-tex-display-math: use \\[...\\] instead of $$...$$ (1:1)\n"},
		{name: "lint error", args: []string{"-lint"}, input: "\\includegraphics[angle=x]{a}", code: 1, stdout: "includegraphics-options: option \"angle\" must be a number, got \"x\" (1:17)\n"},
		{name: "ast", args: []string{"-ast"}, input: "x", stdout: "{\n  \"type\": \"root\",\n  \"content\": [\n    {\n      \"type\": \"string\",\n      \"content\": \"x\"\n    }\n  ]\n}\n"},
		{name: "doc", args: []string{"-doc"}, input: "a b", stdout: "[\"a\", group([line, \"b\"])]\n"},
		{name: "grammar", args: []string{"-grammar", grammarFile}, input: "x", stdout: "doc [0,1) \"x\"\n"},
		{name: "missing grammar", args: []string{"-grammar", filepath.Join(dir, "missing.peg")}, input: "x", code: 2},
		{name: "unknown flag", args: []string{"-nope"}, code: 2, stderr: "flag provided but not defined"},
		{name: "two files", args: []string{"a.tex", "b.tex"}, code: 2, stderr: "at most one file is expected"},
		{name: "bad width", args: []string{"-w", "0"}, code: 2, stderr: "width must be positive"},
		{name: "check with ast", args: []string{"-check", "-ast"}, input: "x", code: 2},
		{name: "missing file", args: []string{filepath.Join(dir, "missing.tex")}, code: 1, stderr: "missing.tex"},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer

			code := run(tc.args, strings.NewReader(tc.input), &stdout, &stderr)
			if code != tc.code {
				t.Errorf("run() = %d, want %d (stderr: %s)", code, tc.code, stderr.String())
			}

			if diff := cmp.Diff(tc.stdout, stdout.String()); diff != "" {
				t.Errorf("stdout mismatch (-want +got):\n%s", diff)
			}

			if tc.stderr != "" && !strings.Contains(stderr.String(), tc.stderr) {
				t.Errorf("stderr %q does not contain %q", stderr.String(), tc.stderr)
			}
		})
	}
}

func TestRunFile(t *testing.T) {
	name := filepath.Join(t.TempDir(), "doc.tex")
	if err := os.WriteFile(name, []byte("x  y"), 0o644); err != nil {
		t.Fatal(err)
	}

	var stdout, stderr bytes.Buffer
	if code := run([]string{"-check", name}, strings.NewReader(""), &stdout, &stderr); code != 1 {
		t.Errorf("run() = %d, want 1", code)
	}

	if stdout.String() != name+"\n" {
		t.Errorf("stdout = %q, want file name", stdout.String())
	}
}

func TestCommand(t *testing.T) {
	tt := []struct {
		name  string
		line  string
		quit  bool
		err   bool
		check func(cfg config) bool
	}{
		{name: "quit", line: ":quit", quit: true},
		{name: "width", line: ":width 20", check: func(cfg config) bool { return cfg.opts.PrintWidth == 20 }},
		{name: "bad width", line: ":width x", err: true},
		{name: "missing width", line: ":width", err: true},
		{name: "fix", line: ":fix", check: func(cfg config) bool { return cfg.opts.FixLints }},
		{name: "ast", line: ":ast", check: func(cfg config) bool { return cfg.view == viewAST }},
		{name: "doc", line: ":doc", check: func(cfg config) bool { return cfg.view == viewDoc }},
		{name: "lint", line: ":LINT", check: func(cfg config) bool { return cfg.view == viewLint }},
		{name: "unknown", line: ":bogus", err: true},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config{view: viewFormat}

			var out bytes.Buffer
			quit, err := command(&cfg, tc.line, &out)

			if quit != tc.quit {
				t.Errorf("command(%q) quit = %v, want %v", tc.line, quit, tc.quit)
			}

			if (err != nil) != tc.err {
				t.Errorf("command(%q) error = %v", tc.line, err)
			}

			if tc.check != nil && !tc.check(cfg) {
				t.Errorf("command(%q) config = %+v", tc.line, cfg)
			}
		})
	}
}
