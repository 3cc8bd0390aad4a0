// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// signal.go - Ctrl-C handling for the process.
package cli

import (
	"context"
	"os"
	"os/signal"
)

type notifyFunc func(context.Context, ...os.Signal) (context.Context, context.CancelFunc)

// InterruptContext returns a context cancelled by the first Ctrl-C. After
// that the default handler is restored, so a second Ctrl-C during cleanup
// kills the process.
func InterruptContext(parent context.Context) (context.Context, context.CancelFunc) {
	return interruptContext(parent, signal.NotifyContext)
}

func interruptContext(parent context.Context, notify notifyFunc) (context.Context, context.CancelFunc) {
	ctx, stop := notify(parent, os.Interrupt)
	context.AfterFunc(ctx, stop)
	return ctx, stop
}
