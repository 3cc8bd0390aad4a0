// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

//go:build unix

package runner

import (
	"os"

	"golang.org/x/sys/unix"
)

// interrupt asks the child to stop the way a terminal Ctrl-C would.
func interrupt(p *os.Process) error {
	if p == nil {
		return nil
	}
	return p.Signal(unix.SIGINT)
}
