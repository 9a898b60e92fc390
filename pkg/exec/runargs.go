// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package exec

import "io"

// RunArgs exposes the command, arguments and other options when running console/shell commands
type RunArgs struct {
	Cmd  string
	Args []string
	Cwd  string
	Env  []string

	// Debug will `log.Printf` the command and its results after it completes.
	Debug bool

	// When set the command runs with elevated privileges: on Windows the
	// command is started through the shell, elsewhere it is wrapped in sudo.
	Elevated bool

	// When set will attach commands to std input/output
	Interactive bool

	// When set will call the command with the specified StdIn
	StdIn io.Reader
}

// NewRunArgs creates a new instance with the specified cmd and args
func NewRunArgs(cmd string, args ...string) RunArgs {
	return RunArgs{
		Cmd:  cmd,
		Args: args,
	}
}

// AppendParams appends additional command params
func (b RunArgs) AppendParams(params ...string) RunArgs {
	b.Args = append(b.Args, params...)
	return b
}

// WithCwd updates the current working directory (cwd) for the command
func (b RunArgs) WithCwd(cwd string) RunArgs {
	b.Cwd = cwd
	return b
}

// WithEnv updates the environment variables used for the command
func (b RunArgs) WithEnv(env []string) RunArgs {
	b.Env = env
	return b
}

// WithElevated marks the command to run with elevated privileges
func (b RunArgs) WithElevated(elevated bool) RunArgs {
	b.Elevated = elevated
	return b
}

// WithInteractive updates whether or not this will be an interactive command.
// Interactive commands set stdin, stdout & stderr to the OS console/terminal.
func (b RunArgs) WithInteractive(interactive bool) RunArgs {
	b.Interactive = interactive
	return b
}

// WithStdIn updates the stdin reader that will be used while invoking the command
func (b RunArgs) WithStdIn(stdIn io.Reader) RunArgs {
	b.StdIn = stdIn
	return b
}
