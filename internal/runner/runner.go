// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package runner executes external commands for cmeow.
//
// Output is either streamed line by line (verbose), captured silently
// (background) or passed straight through (foreground). Background commands
// can be decorated with a spinner that is stopped and joined before Run
// returns.
package runner

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/jeranaias/cmeow/internal/console"
	"github.com/jeranaias/cmeow/internal/logging"
	"github.com/jeranaias/cmeow/internal/util"
)

// =============================================================================
// COMMAND
// =============================================================================

// Command describes one subprocess invocation.
type Command struct {
	Name string
	Args []string
	Dir  string

	// Verbose streams combined stdout and stderr through the printer.
	Verbose bool
	// Background discards output, keeping a tail for error reports.
	// Without Verbose or Background, stdio is inherited.
	Background bool
	// Spinner shows a progress indicator. Ignored when Verbose.
	Spinner bool
	// Title labels the spinner.
	Title string
}

// String renders the command line for messages.
func (c Command) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// Runner runs a Command and reports how long it took.
type Runner interface {
	Run(ctx context.Context, c Command) (time.Duration, error)
}

// ExitError is a command that ran and exited non-zero.
type ExitError struct {
	Command string
	Code    int
	Output  string // tail of captured output, if any
}

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("`%s` failed with exit code %d", e.Command, e.Code)
	if out := strings.TrimSpace(e.Output); out != "" {
		msg += "\n" + out
	}
	return msg
}

// =============================================================================
// EXEC RUNNER
// =============================================================================

// tailSize bounds the output kept for error reports.
const tailSize = 8 << 10

// Exec runs commands with os/exec.
type Exec struct {
	Printer *console.Printer
	Stdin   io.Reader
	Stdout  io.Writer
	Stderr  io.Writer

	// SpinnerEnabled allows the spinner at all, typically stdout is a TTY.
	SpinnerEnabled bool
	// GracePeriod is how long an interrupted child gets before it is killed.
	GracePeriod time.Duration
}

// NewExec returns a runner bound to the process's stdio.
func NewExec(p *console.Printer) *Exec {
	return &Exec{
		Printer:        p,
		Stdin:          os.Stdin,
		Stdout:         os.Stdout,
		Stderr:         os.Stderr,
		SpinnerEnabled: console.IsStdoutTTY(),
		GracePeriod:    3 * time.Second,
	}
}

// Run executes c. A cancelled ctx interrupts the child, and the returned
// error then wraps ctx.Err().
func (e *Exec) Run(ctx context.Context, c Command) (time.Duration, error) {
	logger := logging.FromContext(ctx)

	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	cmd.Cancel = func() error { return interrupt(cmd.Process) }
	cmd.WaitDelay = e.GracePeriod

	tail := &tailBuffer{max: tailSize}
	var stream *lineStream
	switch {
	case c.Verbose:
		stream = newLineStream(e.Printer, tail)
		cmd.Stdout = stream.w
		cmd.Stderr = stream.w
	case c.Background:
		cmd.Stdout = tail
		cmd.Stderr = tail
	default:
		cmd.Stdin, cmd.Stdout, cmd.Stderr = e.Stdin, e.Stdout, e.Stderr
	}

	var spin *Spinner
	if c.Spinner && !c.Verbose && e.SpinnerEnabled && e.Printer != nil {
		indent := console.StatusWidth + 1
		title := util.TruncateWidth(c.Title, console.TerminalWidth()-indent-2)
		spin = StartSpinner(e.Printer.Writer(), indent, title)
	}

	logger.Debug("running command", "cmd", c.String(), "dir", c.Dir, "verbose", c.Verbose)
	start := time.Now()
	err := cmd.Run()
	elapsed := time.Since(start)

	stream.close()
	spin.Stop()

	if err == nil {
		logger.Debug("command finished", "cmd", c.String(), "elapsed", elapsed)
		return elapsed, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return elapsed, fmt.Errorf("`%s` interrupted: %w", c, ctxErr)
	}
	return elapsed, classify(c, err, tail, logger)
}

func classify(c Command, err error, tail *tailBuffer, logger *slog.Logger) error {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		logger.Debug("command failed", "cmd", c.String(), "code", exitErr.ExitCode())
		return &ExitError{Command: c.String(), Code: exitErr.ExitCode(), Output: tail.String()}
	}
	if errors.Is(err, exec.ErrNotFound) {
		return fmt.Errorf("`%s` is not installed or not on PATH: %w", c.Name, err)
	}
	return fmt.Errorf("could not run `%s`: %w", c, err)
}

// =============================================================================
// OUTPUT PLUMBING
// =============================================================================

// tailBuffer keeps the last max bytes written to it.
type tailBuffer struct {
	mu  sync.Mutex
	buf []byte
	max int
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.buf = append(t.buf, p...)
	if over := len(t.buf) - t.max; over > 0 {
		t.buf = append(t.buf[:0], t.buf[over:]...)
	}
	return len(p), nil
}

func (t *tailBuffer) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return string(t.buf)
}

// lineStream forwards complete lines to the printer as they arrive.
type lineStream struct {
	w    *io.PipeWriter
	done chan struct{}
}

func newLineStream(p *console.Printer, tail *tailBuffer) *lineStream {
	pr, pw := io.Pipe()
	s := &lineStream{w: pw, done: make(chan struct{})}
	go func() {
		defer close(s.done)
		sc := bufio.NewScanner(pr)
		sc.Buffer(make([]byte, 64<<10), 1<<20)
		for sc.Scan() {
			line := sc.Text() + "\n"
			tail.Write([]byte(line))
			if p != nil {
				p.Output(line)
			}
		}
		// Drain anything the scanner gave up on so the child never blocks.
		_, _ = io.Copy(io.Discard, pr)
	}()
	return s
}

// close ends the stream and waits for the last line to be printed.
func (s *lineStream) close() {
	if s == nil {
		return
	}
	s.w.Close()
	<-s.done
}
