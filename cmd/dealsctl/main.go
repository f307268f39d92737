// dealsctl runs the catalog tool server over stdio and the maintenance checks.
package main

import (
	"os"

	"agentdeals/cmd/dealsctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(cmd.Report(os.Stderr, err))
	}
}
