package main

import (
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"github.com/mattn/go-isatty"
)

// outcome is the bracketed tag that leads a status line.
type outcome int

const (
	outcomeBuilt outcome = iota
	outcomeUnchanged
	outcomePass
	outcomeFail
)

const (
	ansiReset = "\x1b[0m"
	ansiRed   = "\x1b[31m"
	ansiGreen = "\x1b[32m"
	ansiCyan  = "\x1b[36m"
)

func (o outcome) tag() string {
	switch o {
	case outcomeBuilt:
		return "BUILT"
	case outcomeUnchanged:
		return "UNCHANGED"
	case outcomePass:
		return "PASS"
	default:
		return "FAIL"
	}
}

func (o outcome) color() string {
	switch o {
	case outcomeBuilt, outcomePass:
		return ansiGreen
	case outcomeUnchanged:
		return ansiCyan
	default:
		return ansiRed
	}
}

// statusWriter prints one aligned line per folder or check. The name column
// is as wide as the longest name it was created with.
type statusWriter struct {
	out      io.Writer
	width    int
	colorize bool
}

func newStatusWriter(out io.Writer, names []string) *statusWriter {
	width := 0
	for _, name := range names {
		width = max(width, utf8.RuneCountInString(name))
	}
	return &statusWriter{out: out, width: width, colorize: shouldColorize(out)}
}

func (w *statusWriter) line(name string, o outcome, detail string) {
	fmt.Fprintln(w.out, formatStatus(name, w.width, o, detail, w.colorize))
}

func formatStatus(name string, width int, o outcome, detail string, colorize bool) string {
	tag := "[" + o.tag() + "]"
	if colorize {
		tag = o.color() + tag + ansiReset
	}
	line := fmt.Sprintf("  %-*s  %s", width, name, tag)
	if detail != "" {
		line += " " + detail
	}
	return line
}

// shouldColorize reports whether writer is a terminal and NO_COLOR is unset.
func shouldColorize(writer io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
