package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	integralSpace bool
	integralTime  bool
	integralLabel bool
)

var integralCmd = &cobra.Command{
	Use:   "integral <unit>",
	Short: "Show the integral unit of a unit",
	Long: "Prints the unit obtained by integrating over time (--time, default) and/or space (--space), e.g. W/m2 -> J/m2.\n" +
		"With --label the argument is a label such as 'Heat flux [W/m2]' whose bracketed unit is replaced by its time integral.",
	Args: cobra.ExactArgs(1),
	RunE: runIntegral,
}

func init() {
	integralCmd.Flags().BoolVar(&integralSpace, "space", false, "Integrate over space")
	integralCmd.Flags().BoolVar(&integralTime, "time", true, "Integrate over time")
	integralCmd.Flags().BoolVar(&integralLabel, "label", false, "Treat the argument as a label with a [unit]")
}

func runIntegral(cmd *cobra.Command, args []string) error {
	var out string
	var err error
	if integralLabel {
		out, err = rt.svc.IntegralLabel(args[0])
	} else {
		out, err = rt.svc.Integral(args[0], integralSpace, integralTime)
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}
