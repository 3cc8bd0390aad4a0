// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package orchestrator implements the cmeow commands on top of the project
// file, the staleness checks and cmake.
//
// # Commands
//
//   - Create: scaffold a project and configure the debug profile
//   - Build: reconfigure and build only when needed, then record the build
//   - Run: build, then execute the program from the project root
//   - Watch: rebuild whenever sources change
//
// # Interruption
//
// Commands run through a Dispatcher. When the context is cancelled (Ctrl-C)
// the dispatcher runs the command's registered Recover, such as offering to
// delete a half-created project. Commands without one report
// ErrInterrupted.
package orchestrator
