package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	tableOutput      string
	tableFingerprint bool
)

var tableCmd = &cobra.Command{
	Use:   "table",
	Short: "Print the active unit table",
	Long:  "Writes the active unit table in table grammar. The output can be edited and used as .siunit/units.txt.",
	Args:  cobra.NoArgs,
	RunE:  runTable,
}

func init() {
	tableCmd.Flags().StringVarP(&tableOutput, "output", "o", "", "Write to file instead of stdout")
	tableCmd.Flags().BoolVar(&tableFingerprint, "fingerprint", false, "Print the table fingerprint and unit count only")
}

func runTable(cmd *cobra.Command, args []string) error {
	reg := rt.svc.Registry()
	if tableFingerprint {
		fmt.Fprintf(cmd.OutOrStdout(), "%016x %d units\n", reg.Fingerprint(), reg.Len())
		return nil
	}
	if tableOutput == "" {
		_, err := reg.WriteTo(cmd.OutOrStdout())
		return err
	}

	f, err := os.Create(tableOutput)
	if err != nil {
		return err
	}
	if _, err := reg.WriteTo(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
