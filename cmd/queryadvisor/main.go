package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"

	"github.com/krew-solutions/ascetic-query-advisor/queryadvisor/cli"
)

func main() {
	err := cli.NewRootCommand().Execute()
	if err == nil {
		return
	}

	code := cli.GetExitCode(err)
	// command errors carrying an ExitError were already written by the output formatter
	var exitErr *cli.ExitError
	if !errors.As(err, &exitErr) || code == cli.ExitFailure {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(code)
}
