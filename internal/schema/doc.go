// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package schema provides declarative key groups for validating the
// project file.
//
// A schema is an ordered tree of Group values. Each Group holds Field
// descriptors that name a key, its kind, whether it is required and the
// Validator bound to it. Decoding walks a raw map (as produced by a TOML
// decoder) against the tree and yields a Record.
//
// # Decoding Rules
//
//   - Unknown keys produce one Warning each and are otherwise ignored
//   - Optional fields that are absent receive their declared default
//   - Every absent required key is reported together in a single
//     MissingKeysError
//   - Every invalid value is reported as a ValueError
//
// # Usage
//
//	root := schema.NewGroup("",
//	    schema.Nested(schema.NewGroup("project",
//	        schema.Required("name", schema.String{}),
//	        schema.Optional("readme", schema.Path{}, "README.md"),
//	    )),
//	)
//	rec, warnings, err := root.Decode(raw)
package schema
