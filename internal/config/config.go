// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"time"

	"github.com/jeranaias/cmeow/internal/schema"
)

// =============================================================================
// TOOL CONSTANTS
// =============================================================================

// ToolVersion is the version of cmeow written into new project files.
const ToolVersion = "0.4.0"

// KnownToolVersions lists every release that may have written a project file.
var KnownToolVersions = []string{"0.1.0", "0.2.0", "0.3.0", ToolVersion}

// Standards is the accepted set of C++ standards. CMake still knows 98 but
// the generated CMakeLists.txt never targets it.
var Standards = schema.Standard{
	Supported:   []int{11, 14, 17, 20, 23, 26},
	Unsupported: []int{98},
}

// Defaults for fields not given on the command line.
const (
	DefaultCMakeVersion = "3.25"
	DefaultStd          = 17
	DefaultVersion      = "0.1.0"
	DefaultDescription  = "Add your description here!"
	DefaultReadme       = "README.md"
)

// NeverBuilt marks a project that has not completed a build. It sorts before
// every real timestamp and is never written to disk.
var NeverBuilt = time.Time{}

// =============================================================================
// CONFIGURATION TYPES
// =============================================================================

// Config is the validated content of a project file.
type Config struct {
	Project      Project
	Dependencies Dependencies
	Cmeow        Tool
	CMake        Generator
}

// Project holds the [project] group.
type Project struct {
	LastBuild   time.Time
	Name        string
	Version     string
	Description string
	Readme      string
	Std         int
}

// Dependencies is the reserved [dependencies] group. It has no fields yet.
type Dependencies struct{}

// Tool holds the [cmeow] group: the version of cmeow that wrote the file.
type Tool struct {
	Version string
}

// Generator holds the [cmake] group: the minimum required CMake version.
type Generator struct {
	Version string
}

// CreateParams are the user-provided inputs for a new project.
type CreateParams struct {
	Name         string
	Version      string
	CMakeVersion string
	Std          int
	Description  string
}

// New builds the configuration for a freshly created project.
func New(p CreateParams) *Config {
	if p.Version == "" {
		p.Version = DefaultVersion
	}
	if p.CMakeVersion == "" {
		p.CMakeVersion = DefaultCMakeVersion
	}
	if p.Std == 0 {
		p.Std = DefaultStd
	}
	if p.Description == "" {
		p.Description = DefaultDescription
	}
	return &Config{
		Project: Project{
			LastBuild:   NeverBuilt,
			Name:        p.Name,
			Version:     p.Version,
			Description: p.Description,
			Readme:      DefaultReadme,
			Std:         p.Std,
		},
		Cmeow: Tool{Version: ToolVersion},
		CMake: Generator{Version: p.CMakeVersion},
	}
}

// NeverBuilt reports whether no build has been recorded.
func (c *Config) NeverBuilt() bool {
	return !c.Project.LastBuild.After(NeverBuilt)
}

// RecordBuild stamps a completed build. Callers persist with Save.
func (c *Config) RecordBuild(now time.Time) {
	c.Project.LastBuild = now.UTC()
}
