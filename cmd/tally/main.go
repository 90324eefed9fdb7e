// cmd/tally/main.go
//
// Entry point for the tally CLI. Running `tally` in a directory opens the
// invoice view for that project; subcommands inspect and validate it.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/kingrea/tally/internal/cli"
)

func main() {
	if err := cli.New().Execute(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
