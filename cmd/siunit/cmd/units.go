package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	unitsBaseOnly    bool
	unitsExcludeSelf bool
)

var unitsCmd = &cobra.Command{
	Use:   "units [unit]",
	Short: "List units",
	Long: "Without arguments, lists every dimension group as its base unit followed by its derived units.\n" +
		"With a unit, lists the units it converts to.",
	Args: cobra.MaximumNArgs(1),
	RunE: runUnits,
}

func init() {
	unitsCmd.Flags().BoolVar(&unitsBaseOnly, "base", false, "List base units only")
	unitsCmd.Flags().BoolVar(&unitsExcludeSelf, "exclude-self", false, "Leave the given unit out")
}

func runUnits(cmd *cobra.Command, args []string) error {
	reg := rt.svc.Registry()
	out := cmd.OutOrStdout()

	if len(args) == 1 {
		u, err := reg.Unit(args[0])
		if err != nil {
			return err
		}
		units, err := reg.ConvertibleUnits(u, unitsExcludeSelf)
		if err != nil {
			return err
		}
		if canonical, ok := reg.Canonical(args[0]); ok {
			fmt.Fprintf(out, "%s\n", paint(out, colorGray, fmt.Sprintf("%s is a deprecated spelling of %s", args[0], canonical)))
		}
		fmt.Fprintln(out, unitNames(reg, units))
		return nil
	}

	bases := reg.BaseUnits()
	if len(bases) > 0 && bases[0].IsUndefined() {
		bases = bases[1:]
	}
	if unitsBaseOnly {
		fmt.Fprintln(out, unitNames(reg, bases))
		return nil
	}

	for _, b := range bases {
		units, err := reg.ConvertibleUnits(b, true)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s  %s\n", paint(out, colorCyan, fmt.Sprintf("%-10s", reg.Name(b))), unitNames(reg, units))
	}
	return nil
}
