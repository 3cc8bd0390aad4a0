// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package console

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jeranaias/cmeow/internal/util"
)

// StatusWidth is the column the status verbs are right-aligned to.
const StatusWidth = 12

// Printer writes user-facing messages. Status lines and warnings go to Out,
// errors to Err.
type Printer struct {
	Out io.Writer
	Err io.Writer
}

// NewPrinter returns a printer on stdout and stderr.
func NewPrinter() *Printer {
	return &Printer{Out: os.Stdout, Err: os.Stderr}
}

// Status prints a line such as "    Finished debug build ...".
func (p *Printer) Status(verb, format string, args ...any) {
	fmt.Fprintf(p.Out, "%s %s\n", StatusStyle.Render(util.PadLeft(verb, StatusWidth)), fmt.Sprintf(format, args...))
}

// Warn prints a "warning:" line.
func (p *Printer) Warn(format string, args ...any) {
	fmt.Fprintf(p.Out, "%s %s\n", WarningStyle.Render("warning:"), fmt.Sprintf(format, args...))
}

// Error prints an "error:" line.
func (p *Printer) Error(format string, args ...any) {
	fmt.Fprintf(p.Err, "%s %s\n", ErrorStyle.Render("error:"), fmt.Sprintf(format, args...))
}

// Output prints subprocess output dimmed and indented under the status
// column.
func (p *Printer) Output(line string) {
	line = strings.TrimRight(line, "\r\n")
	fmt.Fprintln(p.Out, DimStyle.Render(util.Indent(line, StatusWidth+1)))
}

// Writer exposes Out for streaming consumers.
func (p *Printer) Writer() io.Writer {
	return p.Out
}
