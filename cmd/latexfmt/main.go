package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/eolymp/latex-playground/lint"
	"github.com/eolymp/latex-playground/playground"
)

const appName = "latexfmt"

func red(s string) string    { return "\x1b[31m" + s + "\x1b[0m" }
func yellow(s string) string { return "\x1b[33m" + s + "\x1b[0m" }

type view string

const (
	viewFormat view = "format"
	viewAST    view = "ast"
	viewDoc    view = "doc"
	viewLint   view = "lint"
)

// config is a state shared by command line mode and REPL
type config struct {
	opts    playground.Options
	view    view
	grammar string
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet(appName, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: %s [flags] [file]\n\nFormats LaTeX file (or standard input when file is - or omitted).\nStarts interactive mode when no file is given and input is a terminal.\n\nFlags:\n", appName)
		fs.PrintDefaults()
	}

	defaults := playground.DefaultOptions()

	width := fs.Int("w", defaults.PrintWidth, "target line width")
	tabs := fs.Bool("tabs", defaults.UseTabs, "indent with tabs")
	tabWidth := fs.Int("tabwidth", defaults.TabWidth, "indentation width in spaces")
	fix := fs.Bool("fix", false, "apply lint fixes before formatting")
	lints := fs.Bool("lint", false, "print lint diagnostics instead of formatting")
	ast := fs.Bool("ast", false, "print syntax tree as JSON")
	dump := fs.Bool("doc", false, "print the print document")
	grammarPath := fs.String("grammar", "", "match top-level nodes against grammar from `file`")
	check := fs.Bool("check", false, "exit with 1 when input is not formatted")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}

		return 2
	}

	if fs.NArg() > 1 {
		fmt.Fprintf(stderr, "%s: at most one file is expected\n", appName)
		fs.Usage()
		return 2
	}

	if *width <= 0 {
		fmt.Fprintf(stderr, "%s: width must be positive, got %d\n", appName, *width)
		return 2
	}

	cfg := config{
		opts: playground.Options{PrintWidth: *width, UseTabs: *tabs, TabWidth: *tabWidth, FixLints: *fix},
		view: viewFormat,
	}

	switch {
	case *lints:
		cfg.view = viewLint
	case *ast:
		cfg.view = viewAST
	case *dump:
		cfg.view = viewDoc
	}

	if *grammarPath != "" {
		data, err := os.ReadFile(*grammarPath)
		if err != nil {
			fmt.Fprintln(stderr, red(err.Error()))
			return 2
		}

		cfg.grammar = string(data)
	}

	name := fs.Arg(0)
	if name == "" && interactive(stdin) {
		return repl(cfg, stdout, stderr)
	}

	src, err := read(name, stdin)
	if err != nil {
		fmt.Fprintln(stderr, red(err.Error()))
		return 1
	}

	out, err := process(src, cfg)
	if err != nil {
		fmt.Fprintln(stderr, red(fmt.Sprintf("%s: %v", display(name), err)))
		return 1
	}

	if *check {
		if cfg.view != viewFormat || cfg.grammar != "" {
			fmt.Fprintf(stderr, "%s: -check can only be used for formatting\n", appName)
			return 2
		}

		if out != src {
			fmt.Fprintln(stdout, display(name))
			return 1
		}

		return 0
	}

	fmt.Fprint(stdout, out)

	if cfg.view == viewLint && hasErrors(src) {
		return 1
	}

	return 0
}

// process runs the pipeline on src according to cfg and returns text to print
func process(src string, cfg config) (string, error) {
	if cfg.grammar != "" {
		m, err := playground.ParseWithGrammar(src, cfg.grammar)
		if err != nil {
			return "", err
		}

		return m.String(), nil
	}

	switch cfg.view {
	case viewAST:
		root, err := playground.Parse(src)
		if err != nil {
			return "", err
		}

		data, err := playground.JSON(root)
		if err != nil {
			return "", err
		}

		return string(data) + "\n", nil
	case viewDoc:
		out, err := playground.FormatDoc(src, cfg.opts)
		if err != nil {
			return "", err
		}

		return out + "\n", nil
	case viewLint:
		diagnostics, err := playground.Lints(src)
		if err != nil {
			return "", err
		}

		var b strings.Builder
		for _, d := range diagnostics {
			b.WriteString(d.String() + "\n")
		}

		return b.String(), nil
	default:
		out, err := playground.Format(src, cfg.opts)
		if err != nil {
			return "", err
		}

		return out + "\n", nil
	}
}

func hasErrors(src string) bool {
	diagnostics, _ := playground.Lints(src)
	for _, d := range diagnostics {
		if d.Severity == lint.SeverityError {
			return true
		}
	}

	return false
}

func read(name string, stdin io.Reader) (string, error) {
	if name == "" || name == "-" {
		var b bytes.Buffer
		if _, err := b.ReadFrom(stdin); err != nil {
			return "", fmt.Errorf("failed to read standard input: %w", err)
		}

		return b.String(), nil
	}

	data, err := os.ReadFile(name)
	if err != nil {
		return "", err
	}

	return string(data), nil
}

func display(name string) string {
	if name == "" || name == "-" {
		return "<stdin>"
	}

	return name
}

// interactive reports whether input is a terminal
func interactive(stdin io.Reader) bool {
	f, ok := stdin.(*os.File)
	if !ok {
		return false
	}

	info, err := f.Stat()
	if err != nil {
		return false
	}

	return info.Mode()&os.ModeCharDevice != 0
}
