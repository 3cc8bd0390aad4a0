// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli parses the cmeow command line and runs the selected command.
//
// # Commands
//
//   - new <project-name>: create a project under --path
//   - init [project-name]: create a project in the current directory
//   - build [-d|-r]: configure and build when something changed
//   - run [-d|-r] [-- args]: build, then run the executable
//   - watch [-d|-r]: rebuild on every source change
//
// # Exit codes
//
// ExitCodeFor maps every error a command can return to a distinct exit
// code. The project's own exit code passes through `run`, and an
// interrupted command exits with 130.
package cli
