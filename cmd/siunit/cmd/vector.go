package cmd

import (
	"fmt"
	"strings"

	"github.com/corey/siunit/internal/app"
	"github.com/spf13/cobra"
)

var (
	vectorTo    string
	vectorStats bool
)

var vectorCmd = &cobra.Command{
	Use:   "vector <values...> <unit>",
	Short: "Convert a list of values",
	Long: "Reads values followed by their unit, e.g. 'siunit vector 100 150 180 cm --to m', and prints them converted.\n" +
		"Negative values must follow '--' so they are not read as flags: 'siunit vector --to K -- -5 10 C'.",
	Args: cobra.MinimumNArgs(2),
	RunE: runVector,
}

func init() {
	vectorCmd.Flags().StringVar(&vectorTo, "to", "", "Target unit (default: the input unit)")
	vectorCmd.Flags().BoolVar(&vectorStats, "stats", false, "Print summary statistics instead of the values")
}

func runVector(cmd *cobra.Command, args []string) error {
	vec, vals, err := rt.svc.ConvertVector(strings.Join(args, " "), vectorTo)
	if err != nil {
		return err
	}
	target := vectorTo
	if target == "" {
		target = rt.svc.Registry().Name(vec.IOUnit)
	}

	out := cmd.OutOrStdout()
	if !vectorStats {
		fmt.Fprintln(out, rt.svc.FormatValues(vals, target))
		return nil
	}
	summary, err := app.Summarize(vals, target)
	if err != nil {
		return err
	}
	writeSummary(out, rt.svc, summary)
	return nil
}
