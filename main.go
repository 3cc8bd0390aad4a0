// cmeow - A small CLI tool to simplify working with CMake projects.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"os"

	"github.com/jeranaias/cmeow/internal/cli"
)

// Version information (set at build time)
var (
	Version   = ""
	GitCommit = "unknown"
)

func init() {
	// Sync version info with cli package
	if Version != "" {
		cli.Version = Version
	}
	cli.GitCommit = GitCommit
}

func main() {
	// Ctrl-C cancels the running command, which then gets a chance to clean
	// up before the process exits. A second Ctrl-C exits immediately.
	ctx, stop := cli.InterruptContext(context.Background())
	code := cli.Execute(ctx, os.Args[1:], cli.Env{})
	stop()
	os.Exit(code)
}
