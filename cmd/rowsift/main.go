// Command rowsift validates CSV data against a declarative rule set.
package main

import (
	"fmt"
	"os"

	"github.com/rowsift-labs/rowsift/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
