// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

//go:build !unix

package orchestrator

// executable is always true where there is no execute permission bit.
func executable(string) bool {
	return true
}
