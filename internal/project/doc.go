// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package project defines build profiles, the on-disk project layout and
// the files scaffolded into a new project.
package project
