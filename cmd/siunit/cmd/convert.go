package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var convertCmd = &cobra.Command{
	Use:   "convert <value> <from> <to>",
	Short: "Convert a value between units",
	Long: "Converts a single value between two units of the same dimension, e.g. 'siunit convert 20 C K'.\n" +
		"Negative values must follow '--' so they are not read as flags: 'siunit convert -- -5 C K'.",
	Args: cobra.ExactArgs(3),
	RunE: runConvert,
}

func runConvert(cmd *cobra.Command, args []string) error {
	v, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return fmt.Errorf("invalid value %q", args[0])
	}
	out, err := rt.svc.Convert(v, args[1], args[2])
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", rt.svc.FormatValue(out), args[2])
	return nil
}
