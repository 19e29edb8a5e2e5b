package flutter

import (
	"errors"
	"io"
	"os"
	"os/exec"
)

// Command describes a single subprocess invocation
type Command struct {
	Name   string
	Args   []string
	Dir    string
	Stdout io.Writer
	Stderr io.Writer
}

// Executor runs commands to completion.
//
// Execute returns the process exit code. err is non-nil only when the
// process could not be started at all; a non-zero exit is not an error.
type Executor interface {
	Execute(cmd Command) (int, error)
}

// ExecExecutor runs commands with os/exec. The child inherits the
// environment and stdin.
type ExecExecutor struct{}

func (ExecExecutor) Execute(c Command) (int, error) {
	cmd := exec.Command(c.Name, c.Args...)
	cmd.Dir = c.Dir
	cmd.Stdin = os.Stdin
	cmd.Stdout = c.Stdout
	cmd.Stderr = c.Stderr

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	// the process ran but copying its output failed
	if cmd.ProcessState != nil {
		return cmd.ProcessState.ExitCode(), nil
	}
	return -1, err
}
