// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config loads, validates and saves the per-project file.
//
// Every project root holds a TOML file named .cmeow-project. Its keys are
// declared once in Schema and decoded through package schema.
//
// # Key Types
//
//   - Config: validated file content
//   - Project: name, version, description, readme, std and last build time
//   - Tool: version of cmeow that wrote the file
//   - Generator: minimum required CMake version
//
// # Error Classes
//
//   - NotFoundError: no project file at or above a directory
//   - MalformedError: invalid TOML, duplicate keys included
//   - KeyError: wraps schema.ValueError and schema.MissingKeysError
//
// # Usage
//
//	cfg, warnings, err := config.Load(root)
//	if err != nil {
//	    return err
//	}
//	cfg.RecordBuild(time.Now())
//	err = config.Save(root, cfg)
package config
