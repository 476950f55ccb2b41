package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	checkAbove     bool
	checkExclusive bool
)

var checkCmd = &cobra.Command{
	Use:   "check <value> <limit>",
	Short: "Check a quantity against a limit",
	Long: "Checks that a quantity does not exceed a limit (or, with --above, does not fall below it).\n" +
		"Both are given as 'name = value unit' and must share name and dimension, e.g.\n" +
		"  siunit check 'T = 20 C' 'T = 300 K'",
	Args: cobra.ExactArgs(2),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().BoolVar(&checkAbove, "above", false, "Limit is a lower bound")
	checkCmd.Flags().BoolVar(&checkExclusive, "exclusive", false, "Reject values equal to the limit")
}

func runCheck(cmd *cobra.Command, args []string) error {
	if err := rt.svc.Check(args[0], args[1], checkAbove, !checkExclusive); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "ok")
	return nil
}
