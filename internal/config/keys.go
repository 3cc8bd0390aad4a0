// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// keys.go - Schema of the project file and conversion to and from Config.

package config

import (
	"github.com/jeranaias/cmeow/internal/schema"
)

// Schema is the key-group tree of the project file. It is built once.
var Schema = schema.NewGroup("",
	schema.Nested(schema.NewGroup("project",
		schema.Optional("last_build", schema.Timestamp{}, nil),
		schema.Required("name", schema.String{}),
		schema.Required("version", schema.Semver{}),
		schema.Optional("description", schema.String{}, DefaultDescription),
		schema.Optional("readme", schema.Path{}, DefaultReadme),
		schema.Required("std", Standards),
	)),
	schema.OptionalNested(schema.NewGroup("dependencies")),
	schema.Nested(schema.NewGroup("cmeow",
		schema.Required("version", schema.Release{Subject: "cmeow", Known: KnownToolVersions}),
	)),
	schema.Nested(schema.NewGroup("cmake",
		schema.Required("version", schema.Text{}),
	)),
)

// FromRecord maps a decoded record onto Config.
func FromRecord(r *schema.Record) *Config {
	p := r.Sub("project")
	cfg := &Config{
		Project: Project{
			LastBuild:   NeverBuilt,
			Name:        p.String("name"),
			Version:     p.String("version"),
			Description: p.String("description"),
			Readme:      p.String("readme"),
			Std:         p.Int("std"),
		},
		Cmeow: Tool{Version: r.Sub("cmeow").String("version")},
		CMake: Generator{Version: r.Sub("cmake").String("version")},
	}
	if t := p.Time("last_build"); !t.IsZero() {
		cfg.Project.LastBuild = t.UTC()
	}
	return cfg
}

// Record maps Config back onto the schema. The never-built sentinel is left
// unset so it is omitted from the file.
func (c *Config) Record() *schema.Record {
	projectGroup, _ := Schema.Field("project")
	depsGroup, _ := Schema.Field("dependencies")
	cmeowGroup, _ := Schema.Field("cmeow")
	cmakeGroup, _ := Schema.Field("cmake")

	p := schema.NewRecord(projectGroup.Group).
		Set("name", c.Project.Name).
		Set("version", c.Project.Version).
		Set("std", c.Project.Std).
		Set("description", c.Project.Description)
	if !c.NeverBuilt() {
		p.Set("last_build", c.Project.LastBuild.UTC())
	}
	if c.Project.Readme != "" {
		p.Set("readme", c.Project.Readme)
	}

	return schema.NewRecord(Schema).
		Set("project", p).
		Set("dependencies", schema.NewRecord(depsGroup.Group)).
		Set("cmeow", schema.NewRecord(cmeowGroup.Group).Set("version", c.Cmeow.Version)).
		Set("cmake", schema.NewRecord(cmakeGroup.Group).Set("version", c.CMake.Version))
}

// Structured renders Config as the nested map written to disk.
func (c *Config) Structured() map[string]any {
	return Schema.Encode(c.Record())
}
