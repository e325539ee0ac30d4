package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/de-tools/policy-report/pkg/runtime/terminal"
	"github.com/de-tools/policy-report/pkg/runtime/terminal/commands"
	"github.com/de-tools/policy-report/pkg/services/downloads"
)

func main() {
	cli := terminal.NewCLI(terminal.Options{
		Sinks:  downloads.DefaultRegistry(),
		Output: os.Stdout,
		Status: os.Stderr,
	})

	if err := cli.Execute(); err != nil {
		if !errors.Is(err, commands.ErrReported) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
