// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package staleness decides whether a profile must be reconfigured or
// rebuilt.
//
// Two checks run in order. The cheap one looks for the files CMake leaves
// behind after configuring a build directory. The expensive one walks the
// whole project tree and compares modification times against the last
// recorded build.
package staleness

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/jeranaias/cmeow/internal/project"
)

// Marker files CMake writes into a configured build directory.
var (
	MarkerDirs  = []string{"CMakeFiles"}
	MarkerFiles = []string{"CMakeCache.txt", "cmake_install.cmake", "Makefile"}
	// BaseFiles must exist in the project root.
	BaseFiles = []string{project.CMakeLists}
)

// Decision is the outcome of Check.
type Decision struct {
	Reconfigure bool
	Build       bool
	Reason      string
}

// errNewer stops the walk at the first modified file.
var errNewer = errors.New("newer file found")

// ToolStateReady reports whether the profile's build directory has been
// configured. State for the opposite profile never counts.
func ToolStateReady(l project.Layout, p project.Profile) bool {
	dir := l.BuildDir(p)
	for _, name := range MarkerDirs {
		info, err := os.Stat(filepath.Join(dir, name))
		if err != nil || !info.IsDir() {
			return false
		}
	}
	for _, name := range MarkerFiles {
		info, err := os.Stat(filepath.Join(dir, name))
		if err != nil || info.IsDir() {
			return false
		}
	}
	for _, name := range BaseFiles {
		info, err := os.Stat(filepath.Join(l.Root, name))
		if err != nil || info.IsDir() {
			return false
		}
	}
	return true
}

// ModifiedSince reports whether any regular file under root changed
// strictly after since. The walk covers the whole tree, generated output
// included. The project file at the root is skipped: recording a build
// rewrites it after the timestamp is taken. A zero since means the project
// was never built.
func ModifiedSince(root string, since time.Time) (bool, error) {
	if since.IsZero() {
		return true, nil
	}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Files can vanish mid-walk while cmake runs in another shell.
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if d.Name() == project.FileName && filepath.Dir(path) == filepath.Clean(root) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if info.ModTime().After(since) {
			return errNewer
		}
		return nil
	})
	switch {
	case errors.Is(err, errNewer):
		return true, nil
	case err != nil:
		return false, err
	}
	return false, nil
}

// Check combines both checks. Missing tool state forces a reconfigure and a
// build without walking the tree.
func Check(l project.Layout, p project.Profile, lastBuild time.Time) (Decision, error) {
	if !ToolStateReady(l, p) {
		return Decision{Reconfigure: true, Build: true, Reason: "build directory not configured"}, nil
	}
	if lastBuild.IsZero() {
		return Decision{Build: true, Reason: "never built"}, nil
	}
	stale, err := ModifiedSince(l.Root, lastBuild)
	if err != nil {
		return Decision{}, err
	}
	if stale {
		return Decision{Build: true, Reason: "files changed since last build"}, nil
	}
	return Decision{Reason: "up to date"}, nil
}
