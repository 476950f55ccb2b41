// siunit converts physical quantities between the units of a unit table.
// Single binary, built-in table, optional project-local overrides in .siunit/.
package main

import (
	"os"

	"github.com/corey/siunit/cmd/siunit/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
