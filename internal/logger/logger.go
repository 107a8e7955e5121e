package logger

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/fatih/color"
)

type (
	Color     func() PrintFunc
	PrintFunc func(io.Writer, string, ...any)
)

func Default() PrintFunc {
	return color.New(envColor("SMALLSH_COLOR_RESET", color.Reset)).FprintfFunc()
}

func Yellow() PrintFunc {
	return color.New(envColor("SMALLSH_COLOR_YELLOW", color.FgYellow)).FprintfFunc()
}

func Magenta() PrintFunc {
	return color.New(envColor("SMALLSH_COLOR_MAGENTA", color.FgMagenta)).FprintfFunc()
}

func Red() PrintFunc {
	return color.New(envColor("SMALLSH_COLOR_RED", color.FgRed)).FprintfFunc()
}

func envColor(env string, defaultColor color.Attribute) color.Attribute {
	override, err := strconv.Atoi(os.Getenv(env))
	if err == nil {
		return color.Attribute(override)
	}
	return defaultColor
}

// Logger prints to STDOUT or STDERR, with optional color. With color off the
// text is written exactly as formatted.
type Logger struct {
	Stdout  io.Writer
	Stderr  io.Writer
	Verbose bool
	Color   bool
}

// Outf prints stuff to STDOUT.
func (l *Logger) Outf(color Color, s string, args ...any) {
	l.fprintf(l.Stdout, color, s, args...)
}

// Errf prints stuff to STDERR.
func (l *Logger) Errf(color Color, s string, args ...any) {
	l.fprintf(l.Stderr, color, s, args...)
}

// VerboseErrf prints stuff to STDERR if verbose mode is enabled.
func (l *Logger) VerboseErrf(color Color, s string, args ...any) {
	if l.Verbose {
		l.Errf(color, s, args...)
	}
}

func (l *Logger) fprintf(w io.Writer, c Color, s string, args ...any) {
	if len(args) == 0 {
		s, args = "%s", []any{s}
	}
	if !l.Color {
		// Plain output never carries escape sequences, even on a terminal.
		fmt.Fprintf(w, s+"\n", args...)
		return
	}
	print := c()
	print(w, s+"\n", args...)
}
