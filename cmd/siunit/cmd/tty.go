package cmd

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

// useColor reports whether w is a terminal.
func useColor(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// paint wraps s in color when w is a terminal.
func paint(w io.Writer, color, s string) string {
	if !useColor(w) {
		return s
	}
	return color + s + colorReset
}
