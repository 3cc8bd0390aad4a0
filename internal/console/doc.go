// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package console provides styled terminal output and y/n prompts.
//
// Colors follow the terminal: they are disabled for non-TTY output and
// when NO_COLOR is set.
package console
