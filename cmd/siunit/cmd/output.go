package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/corey/siunit/internal/app"
	"github.com/corey/siunit/internal/domain/unit"
)

// ANSI color codes for terminal output.
const (
	colorReset = "\033[0m"
	colorBold  = "\033[1m"
	colorCyan  = "\033[36m"
	colorGray  = "\033[90m"
)

// unitNames returns the names of units, space separated.
func unitNames(reg *unit.Registry, units []unit.Unit) string {
	names := make([]string, len(units))
	for i, u := range units {
		names[i] = reg.Name(u)
	}
	return strings.Join(names, " ")
}

// writeSummary prints vector statistics one per line.
//
//	count   3
//	min     1 m
//	max     1.8 m
func writeSummary(w io.Writer, svc *app.Service, s app.Summary) {
	fmt.Fprintf(w, "count   %d\n", s.Count)
	rows := []struct {
		label string
		v     float64
	}{
		{"min", s.Min},
		{"max", s.Max},
		{"mean", s.Mean},
		{"median", s.Median},
		{"stddev", s.StdDev},
	}
	for _, r := range rows {
		fmt.Fprintf(w, "%-7s %s %s\n", r.label, svc.FormatValue(r.v), s.Unit)
	}
}
