// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// prompt.go - Yes/no questions for overwrite and cleanup decisions.

package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"
)

// Prompter asks the user a yes/no question.
type Prompter interface {
	Confirm(question string) (bool, error)
}

var (
	yesAnswers = map[string]bool{"y": true, "yes": true, "ye": true, "yea": true, "yeah": true}
	noAnswers  = map[string]bool{"n": true, "no": true, "nope": true}
)

// LinePrompter reads answers from a terminal with line editing, or from In
// when stdin is not a terminal. End of input or Ctrl-C counts as "no".
type LinePrompter struct {
	In      io.Reader
	Out     io.Writer
	Printer *Printer

	// Interactive selects liner. Defaults to IsTTY() in NewLinePrompter.
	Interactive bool

	reader *bufio.Reader
}

// NewLinePrompter returns a prompter on stdin and stdout.
func NewLinePrompter(p *Printer) *LinePrompter {
	return &LinePrompter{In: os.Stdin, Out: os.Stdout, Printer: p, Interactive: IsTTY()}
}

// Confirm asks until the answer is recognizably yes or no.
func (lp *LinePrompter) Confirm(question string) (bool, error) {
	for {
		answer, err := lp.readLine(question + " (y/n): ")
		switch {
		case errors.Is(err, io.EOF), errors.Is(err, liner.ErrPromptAborted):
			fmt.Fprintln(lp.Out)
			return false, nil
		case err != nil:
			return false, fmt.Errorf("failed to read answer: %w", err)
		}

		answer = strings.ToLower(strings.TrimSpace(answer))
		if yesAnswers[answer] {
			return true, nil
		}
		if noAnswers[answer] {
			return false, nil
		}
		if lp.Printer != nil {
			lp.Printer.Error("invalid input (enter 'y'/'yes' or 'n'/'no')")
		}
	}
}

func (lp *LinePrompter) readLine(prompt string) (string, error) {
	if lp.Interactive {
		line := liner.NewLiner()
		defer line.Close()
		line.SetCtrlCAborts(true)
		return line.Prompt(prompt)
	}

	// liner measures the prompt itself, so only the plain path is styled.
	fmt.Fprint(lp.Out, PromptStyle.Render(prompt))
	if lp.reader == nil {
		lp.reader = bufio.NewReader(lp.In)
	}
	s, err := lp.reader.ReadString('\n')
	if err != nil && s != "" && errors.Is(err, io.EOF) {
		// Last line without a trailing newline.
		return s, nil
	}
	return s, err
}
