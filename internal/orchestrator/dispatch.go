// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package orchestrator

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/jeranaias/cmeow/internal/logging"
)

// =============================================================================
// INTERRUPTION RECOVERY
// =============================================================================

// Policy pairs a command with its compensation for an interrupted run.
type Policy struct {
	Run func(ctx context.Context) error
	// Recover runs after Run fails because ctx was cancelled. A nil Recover
	// lets the interruption propagate.
	Recover func(ctx context.Context) error
}

// InterruptedError reports a cancelled command.
type InterruptedError struct {
	Command string
	// Recovered is true when a policy handled the interruption and already
	// told the user about it.
	Recovered bool
}

func (e *InterruptedError) Error() string {
	return fmt.Sprintf("`cmeow %s` was interrupted", e.Command)
}

func (e *InterruptedError) Is(target error) bool {
	return target == ErrInterrupted
}

// UnknownCommandError is a dispatch to a name with no policy.
type UnknownCommandError struct {
	Name  string
	Known []string
}

func (e *UnknownCommandError) Error() string {
	return fmt.Sprintf("unknown command %q (expected one of %s)", e.Name, strings.Join(e.Known, ", "))
}

// Dispatcher maps command names to policies. Interruption is only observed
// here, at the command boundary.
type Dispatcher struct {
	policies map[string]Policy
}

// NewDispatcher returns an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{policies: make(map[string]Policy)}
}

// Register adds or replaces the policy for name.
func (d *Dispatcher) Register(name string, p Policy) {
	d.policies[name] = p
}

// Dispatch runs the named command. If ctx is cancelled while it runs, the
// registered Recover runs on a context that is no longer cancelled.
func (d *Dispatcher) Dispatch(ctx context.Context, name string) error {
	p, ok := d.policies[name]
	if !ok {
		known := make([]string, 0, len(d.policies))
		for k := range d.policies {
			known = append(known, k)
		}
		sort.Strings(known)
		return &UnknownCommandError{Name: name, Known: known}
	}

	err := p.Run(ctx)
	if err == nil || ctx.Err() == nil {
		return err
	}

	logging.FromContext(ctx).Debug("command interrupted", "command", name, "error", err)
	if p.Recover == nil {
		return &InterruptedError{Command: name}
	}
	if rerr := p.Recover(context.WithoutCancel(ctx)); rerr != nil {
		return fmt.Errorf("%w: recovery failed: %v", &InterruptedError{Command: name}, rerr)
	}
	return &InterruptedError{Command: name, Recovered: true}
}

// WarnOnInterrupt returns a Recover that only tells the user what state
// the project may be in.
func (o *Orchestrator) WarnOnInterrupt(msg string) func(context.Context) error {
	return func(context.Context) error {
		o.Out.Warn("%s", msg)
		return nil
	}
}
