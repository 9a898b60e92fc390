// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package internal

// Version is substituted at build time with the release version.
var Version = "0.1.0-dev"

type GlobalCommandOptions struct {
	// EnableDebugLogging indicates you should turn on verbose/debug logging in
	// your command and any launched tools. It's enabled with `--debug`, for
	// any command.
	EnableDebugLogging bool

	// RegistryFile points the resource type registry at a local JSON file
	// instead of the definitions compiled into the binary.
	RegistryFile string

	// RegistryUrl points the resource type registry at a remote JSON
	// document instead of the definitions compiled into the binary.
	RegistryUrl string
}
