// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package project

import (
	"path/filepath"
	"runtime"
)

// =============================================================================
// FIXED NAMES
// =============================================================================

const (
	// FileName is the project file at the root of every project.
	FileName = ".cmeow-project"

	SrcDir        = "src"
	TargetDir     = "target"
	BuildDirName  = "cmake_build"
	MainFile      = "main.cpp"
	CMakeLists    = "CMakeLists.txt"
	DefaultReadme = "README.md"
)

// Layout derives every project path from the root. It is never persisted.
type Layout struct {
	Root string
}

// NewLayout returns the layout for root, made absolute when possible.
func NewLayout(root string) Layout {
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}
	return Layout{Root: root}
}

func (l Layout) ProjectFile() string { return filepath.Join(l.Root, FileName) }
func (l Layout) Src() string         { return filepath.Join(l.Root, SrcDir) }
func (l Layout) Target() string      { return filepath.Join(l.Root, TargetDir) }
func (l Layout) MainSource() string  { return filepath.Join(l.Root, SrcDir, MainFile) }
func (l Layout) CMakeLists() string  { return filepath.Join(l.Root, CMakeLists) }

// Readme resolves the readme path recorded in the project file.
func (l Layout) Readme(name string) string {
	if name == "" {
		name = DefaultReadme
	}
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(l.Root, name)
}

// ProfileDir is target/<profile>.
func (l Layout) ProfileDir(p Profile) string {
	return filepath.Join(l.Root, TargetDir, p.String())
}

// BuildDir is target/<profile>/cmake_build.
func (l Layout) BuildDir(p Profile) string {
	return filepath.Join(l.ProfileDir(p), BuildDirName)
}

// RelBuildDir is BuildDir relative to the root, as passed to cmake.
func (l Layout) RelBuildDir(p Profile) string {
	return filepath.Join(TargetDir, p.String(), BuildDirName)
}

// Executable is where the generated CMakeLists.txt places the binary.
func (l Layout) Executable(p Profile, name string) string {
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	return filepath.Join(l.ProfileDir(p), name)
}
