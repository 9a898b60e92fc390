// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"

	"github.com/mattn/go-colorable"

	"github.com/datastudio-tools/resourcedeploy/cmd"
	"github.com/datastudio-tools/resourcedeploy/pkg/output"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	restoreColorMode := colorable.EnableColorsStdout(nil)
	defer restoreColorMode()

	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	if !isDebugEnabled() {
		log.SetOutput(io.Discard)
	}

	rootCmd := cmd.NewRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, output.WithErrorFormat("ERROR: %s", err.Error()))
		os.Exit(1)
	}
}

// isDebugEnabled checks for the --debug flag ahead of cobra parsing so
// diagnostic logging covers command setup as well.
func isDebugEnabled() bool {
	for _, arg := range os.Args[1:] {
		if arg == "--debug" {
			return true
		}
	}

	return false
}
