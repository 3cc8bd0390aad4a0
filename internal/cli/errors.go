// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// errors.go - Exit codes and the single place errors are classified.
//
// Commands always return errors. Nothing below the CLI prints an error or
// picks an exit code; Execute reports once and maps the error here.

package cli

import (
	"errors"
	"fmt"

	"github.com/jeranaias/cmeow/internal/config"
	"github.com/jeranaias/cmeow/internal/console"
	"github.com/jeranaias/cmeow/internal/orchestrator"
	"github.com/jeranaias/cmeow/internal/schema"
)

// =============================================================================
// EXIT CODES
// =============================================================================

const (
	ExitSuccess            = 0
	ExitFailure            = 1
	ExitInvalidCommand     = 2
	ExitInvalidArgs        = 3
	ExitProjectExists      = 4
	ExitDirExists          = 5
	ExitCannotCreate       = 6
	ExitProjectNotFound    = 7
	ExitInvalidKeyType     = 8
	ExitInvalidKeyValue    = 9
	ExitMalformedFile      = 10 // also duplicate keys
	ExitMissingKeys        = 11
	ExitDirNotFound        = 12
	ExitExecutableNotFound = 13
	ExitInterrupted        = 130
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ArgError is a command-line value that parsed but is not acceptable.
type ArgError struct {
	Arg string // flag or positional name, e.g. "--std"
	Err error
}

func (e *ArgError) Error() string {
	return fmt.Sprintf("argument %s: %v", e.Arg, e.Err)
}

func (e *ArgError) Unwrap() error { return e.Err }

// =============================================================================
// CLASSIFICATION
// =============================================================================

// ExitCodeFor maps an error returned by a command to the process exit code.
// A failing child program passes its own code through.
func ExitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	if errors.Is(err, orchestrator.ErrInterrupted) {
		return ExitInterrupted
	}

	var child *orchestrator.ChildExitError
	if errors.As(err, &child) {
		if child.Code > 0 {
			return child.Code
		}
		return ExitFailure
	}

	// Argument errors may wrap a schema.ValueError, so they go first.
	var argErr *ArgError
	if errors.As(err, &argErr) {
		return ExitInvalidArgs
	}

	var unknown *orchestrator.UnknownCommandError
	if errors.As(err, &unknown) {
		return ExitInvalidCommand
	}

	var (
		projectExists *orchestrator.ProjectExistsError
		dirExists     *orchestrator.DirExistsError
		cannotCreate  *orchestrator.CannotCreateError
		dirNotFound   *orchestrator.DirNotFoundError
		exeNotFound   *orchestrator.ExecutableNotFoundError
	)
	switch {
	case errors.As(err, &projectExists):
		return ExitProjectExists
	case errors.As(err, &dirExists):
		return ExitDirExists
	case errors.As(err, &cannotCreate):
		return ExitCannotCreate
	case errors.As(err, &dirNotFound):
		return ExitDirNotFound
	case errors.As(err, &exeNotFound):
		return ExitExecutableNotFound
	}

	var (
		notFound  *config.NotFoundError
		malformed *config.MalformedError
		value     *schema.ValueError
		missing   *schema.MissingKeysError
	)
	switch {
	case errors.As(err, &notFound):
		return ExitProjectNotFound
	case errors.As(err, &malformed):
		return ExitMalformedFile
	case errors.As(err, &value):
		if hasTypeError(err) {
			return ExitInvalidKeyType
		}
		return ExitInvalidKeyValue
	case errors.As(err, &missing):
		return ExitMissingKeys
	}

	return ExitFailure
}

// hasTypeError reports whether any ValueError in err's tree is a type error.
// errors.As stops at the first match, so joined errors are walked here.
func hasTypeError(err error) bool {
	switch e := err.(type) {
	case nil:
		return false
	case *schema.ValueError:
		return e.Kind == schema.InvalidType
	case interface{ Unwrap() []error }:
		for _, inner := range e.Unwrap() {
			if hasTypeError(inner) {
				return true
			}
		}
		return false
	case interface{ Unwrap() error }:
		return hasTypeError(e.Unwrap())
	}
	return false
}

// report prints err once and returns its exit code. A child's failure and a
// handled interruption have already been shown to the user.
func report(out *console.Printer, err error) int {
	code := ExitCodeFor(err)
	if err == nil {
		return code
	}

	var child *orchestrator.ChildExitError
	var interrupted *orchestrator.InterruptedError
	switch {
	case errors.As(err, &child):
	case errors.As(err, &interrupted) && interrupted.Recovered:
	default:
		out.Error("%v", err)
	}
	return code
}
