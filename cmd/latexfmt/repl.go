package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/peterh/liner"
)

const (
	historyFile = ".latexfmt_history"
	promptMain  = "tex> "
	promptCont  = "...> "
	banner      = "LaTeX formatter. Enter source, finish it with an empty line. Type :help for commands."
)

func repl(cfg config, stdout, stderr io.Writer) int {
	fmt.Fprintln(stdout, banner)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		ln.Close()
		os.Exit(130)
	}()

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	for {
		src, ok := readEntry(ln)
		if !ok {
			fmt.Fprintln(stdout)
			return 0
		}

		if strings.HasPrefix(strings.TrimSpace(src), ":") {
			quit, err := command(&cfg, strings.TrimSpace(src), stdout)
			if err != nil {
				fmt.Fprintln(stderr, red(err.Error()))
			}

			if quit {
				return 0
			}

			continue
		}

		if strings.TrimSpace(src) == "" {
			continue
		}

		ln.AppendHistory(strings.ReplaceAll(src, "\n", " "))

		out, err := process(src, cfg)
		if err != nil {
			fmt.Fprintln(stderr, red(err.Error()))
			continue
		}

		if cfg.view == viewLint && out != "" {
			out = yellow(strings.TrimSuffix(out, "\n")) + "\n"
		}

		fmt.Fprint(stdout, out)
	}
}

// readEntry reads lines until an empty line. A command (line starting with :) is
// an entry on its own.
func readEntry(ln *liner.State) (string, bool) {
	var lines []string

	for {
		prompt := promptMain
		if len(lines) > 0 {
			prompt = promptCont
		}

		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			if len(lines) > 0 {
				return strings.Join(lines, "\n"), true
			}

			return "", false
		}

		if err != nil {
			// ctrl+c drops the current entry
			return "", true
		}

		if len(lines) == 0 && strings.HasPrefix(strings.TrimSpace(line), ":") {
			return line, true
		}

		if strings.TrimSpace(line) == "" {
			return strings.Join(lines, "\n"), true
		}

		lines = append(lines, line)
	}
}

// command handles REPL commands, it returns true when REPL should exit
func command(cfg *config, line string, stdout io.Writer) (bool, error) {
	fields := strings.Fields(line)

	switch strings.ToLower(fields[0]) {
	case ":quit", ":q":
		return true, nil
	case ":help":
		fmt.Fprintln(stdout, ":width N   set target line width")
		fmt.Fprintln(stdout, ":fix       toggle lint fixes")
		fmt.Fprintln(stdout, ":format    print formatted source")
		fmt.Fprintln(stdout, ":ast       print syntax tree")
		fmt.Fprintln(stdout, ":doc       print print document")
		fmt.Fprintln(stdout, ":lint      print lint diagnostics")
		fmt.Fprintln(stdout, ":quit      exit")
	case ":width":
		if len(fields) != 2 {
			return false, errors.New("usage: :width N")
		}

		width, err := strconv.Atoi(fields[1])
		if err != nil || width <= 0 {
			return false, fmt.Errorf("width must be a positive number, got %q", fields[1])
		}

		cfg.opts.PrintWidth = width
		fmt.Fprintf(stdout, "width is %d\n", width)
	case ":fix":
		cfg.opts.FixLints = !cfg.opts.FixLints
		fmt.Fprintf(stdout, "lint fixes are %s\n", onOff(cfg.opts.FixLints))
	case ":format":
		cfg.view = viewFormat
	case ":ast":
		cfg.view = viewAST
	case ":doc":
		cfg.view = viewDoc
	case ":lint":
		cfg.view = viewLint
	default:
		return false, fmt.Errorf("unknown command %s, type :help for the list of commands", fields[0])
	}

	return false, nil
}

func onOff(v bool) string {
	if v {
		return "on"
	}

	return "off"
}
