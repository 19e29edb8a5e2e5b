package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/fastcmsdomain/szybkafucha/cmd/devrun"
	"github.com/fastcmsdomain/szybkafucha/internal/runner"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := devrun.Execute(version, commit, date); err != nil {
		var exitErr *runner.ExitError
		if errors.As(err, &exitErr) {
			if exitErr.Message != "" {
				fmt.Fprintf(os.Stderr, "Error: %s\n", exitErr.Message)
			}
			os.Exit(exitErr.Code)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
