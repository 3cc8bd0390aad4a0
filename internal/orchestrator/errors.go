// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package orchestrator

import (
	"errors"
	"fmt"
	"path/filepath"
)

// ErrInterrupted is returned when a command is cancelled and no recovery
// policy handles it.
var ErrInterrupted = errors.New("interrupted")

// ProjectExistsError means the user declined to override an existing project.
type ProjectExistsError struct {
	Dir string
}

func (e *ProjectExistsError) Error() string {
	return fmt.Sprintf("project `%s` already exists", filepath.Base(e.Dir))
}

// DirExistsError means the user declined to initialize inside an existing
// directory.
type DirExistsError struct {
	Dir string
}

func (e *DirExistsError) Error() string {
	return fmt.Sprintf("directory `%s` already exists", filepath.Base(e.Dir))
}

// CannotCreateError is a filesystem failure while laying out a new project.
type CannotCreateError struct {
	Path string
	Err  error
}

func (e *CannotCreateError) Error() string {
	return fmt.Sprintf("could not create %s: %v", filepath.Base(e.Path), e.Err)
}

func (e *CannotCreateError) Unwrap() error { return e.Err }

// DirNotFoundError is a required project directory that is missing.
type DirNotFoundError struct {
	Path string
}

func (e *DirNotFoundError) Error() string {
	return fmt.Sprintf("could not find directory `%s`", filepath.Base(e.Path))
}

// ExecutableNotFoundError means the build left no runnable binary.
type ExecutableNotFoundError struct {
	Path   string
	Reason string
}

func (e *ExecutableNotFoundError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("could not find executable `%s`: %s", filepath.Base(e.Path), e.Reason)
	}
	return fmt.Sprintf("could not find executable `%s`", filepath.Base(e.Path))
}

// ChildExitError carries the exit status of the project's executable so the
// caller can exit with the same code.
type ChildExitError struct {
	Path string
	Code int
}

func (e *ChildExitError) Error() string {
	return fmt.Sprintf("process `%s` exited with code %d", filepath.Base(e.Path), e.Code)
}
