// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small file and text helpers shared by cmeow.
//
// # Key Functions
//
//   - AtomicWriteFile: crash-safe file writing with fsync
//   - PadLeft, TruncateWidth: display-width aware text layout
//   - Indent: prefix streamed subprocess output
package util
