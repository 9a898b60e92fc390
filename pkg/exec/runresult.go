// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package exec

import (
	"fmt"
	"os/exec"
)

// RunResult is the result of running a command.
type RunResult struct {
	// The exit code of the command.
	ExitCode int
	// The stdout output captured from running the command.
	Stdout string
	// The stderr output captured from running the command.
	Stderr string
}

func NewRunResult(code int, stdout, stderr string) RunResult {
	return RunResult{
		ExitCode: code,
		Stdout:   stdout,
		Stderr:   stderr,
	}
}

// ExitError is the error returned when a command unsuccessfully exits.
type ExitError struct {
	// The path or name of the command being invoked.
	Cmd string
	// The exit code of the command.
	ExitCode int

	stdErr string
}

func newExitError(exitErr *exec.ExitError, cmd string, stdErr string) error {
	return &ExitError{
		Cmd:      cmd,
		ExitCode: exitErr.ExitCode(),
		stdErr:   stdErr,
	}
}

func (e *ExitError) Error() string {
	if e.stdErr == "" {
		return fmt.Sprintf("exit code: %d", e.ExitCode)
	}

	return fmt.Sprintf("exit code: %d, stderr: %s", e.ExitCode, e.stdErr)
}

// StderrOutput returns the stderr output captured from the command.
func (e *ExitError) StderrOutput() string {
	return e.stdErr
}
