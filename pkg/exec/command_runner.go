// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package exec

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log"
	"os"
	osexec "os/exec"
	"runtime"
	"strings"
)

// CommandRunner exposes the contract for executing console/shell commands for the specified runArgs.
// It is the platform service of the dispatcher: downloaded installers are launched through it with
// RunArgs.Elevated set.
type CommandRunner interface {
	Run(ctx context.Context, args RunArgs) (RunResult, error)
}

type RunnerOptions struct {
	// Stdin is the input stream. If nil, os.Stdin is used.
	Stdin io.Reader
	// Stdout is the output stream. If nil, os.Stdout is used.
	Stdout io.Writer
	// Stderr is the error stream. If nil, os.Stderr is used.
	Stderr io.Writer
	// Whether debug logging is enabled. False by default.
	DebugLogging bool
}

// NewCommandRunner creates a new default instance of the CommandRunner.
// Passing nil will use the default values for RunnerOptions.
func NewCommandRunner(opt *RunnerOptions) CommandRunner {
	if opt == nil {
		opt = &RunnerOptions{}
	}

	runner := &commandRunner{
		stdin:        opt.Stdin,
		stdout:       opt.Stdout,
		stderr:       opt.Stderr,
		debugLogging: opt.DebugLogging,
	}

	if runner.stdin == nil {
		runner.stdin = os.Stdin
	}

	if runner.stdout == nil {
		runner.stdout = os.Stdout
	}

	if runner.stderr == nil {
		runner.stderr = os.Stderr
	}

	return runner
}

// commandRunner is the default private implementation of the CommandRunner interface.
// This implementation executes actual commands on the underlying console/shell.
type commandRunner struct {
	stdin        io.Reader
	stdout       io.Writer
	stderr       io.Writer
	debugLogging bool
}

// Run runs the command specified in 'args'.
//
// Returns a RunResult that is the result of the command.
//   - If interactive is true, standard input/output is not captured in the returned result.
//   - If the underlying command exits unsuccessfully, *ExitError is returned. Other possible
//     errors would likely be I/O errors or context cancellation.
func (r *commandRunner) Run(ctx context.Context, args RunArgs) (RunResult, error) {
	cmdName, cmdArgs := elevate(args)

	cmd := osexec.CommandContext(ctx, cmdName, cmdArgs...)
	cmd.Dir = args.Cwd

	if len(args.Env) > 0 {
		cmd.Env = append(os.Environ(), args.Env...)
	}

	var stdout, stderr bytes.Buffer

	if args.Interactive {
		cmd.Stdin = r.stdin
		cmd.Stdout = r.stdout
		cmd.Stderr = r.stderr
	} else {
		cmd.Stdin = args.StdIn
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr
	}

	err := cmd.Run()

	exitCode := -1
	if cmd.ProcessState != nil {
		exitCode = cmd.ProcessState.ExitCode()
	}

	result := NewRunResult(exitCode, stdout.String(), stderr.String())

	if args.Debug || r.debugLogging {
		log.Printf("exec: '%s %s', exit code: %d", args.Cmd, strings.Join(args.Args, " "), result.ExitCode)
	}

	var exitErr *osexec.ExitError
	if errors.As(err, &exitErr) {
		return result, newExitError(exitErr, args.Cmd, result.Stderr)
	}

	return result, err
}

// elevate rewrites the command invocation when elevated privileges were
// requested. On Windows elevation is delegated to the shell; elsewhere the
// command is wrapped in sudo.
func elevate(args RunArgs) (string, []string) {
	if !args.Elevated || runtime.GOOS == "windows" {
		return args.Cmd, args.Args
	}

	return "sudo", append([]string{args.Cmd}, args.Args...)
}
