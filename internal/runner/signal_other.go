// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

//go:build !unix

package runner

import "os"

// interrupt kills the child. Windows has no SIGINT for other processes.
func interrupt(p *os.Process) error {
	if p == nil {
		return nil
	}
	return p.Kill()
}
