// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package schema

import (
	"fmt"
	"strings"
)

// ErrorKind separates wrong-type values from well-typed but rejected ones.
type ErrorKind int

const (
	InvalidType ErrorKind = iota + 1
	InvalidValue
)

// ValueError reports a key whose value failed validation.
type ValueError struct {
	Key     string // dotted key, e.g. "project.std"
	Kind    ErrorKind
	Message string
	Info    string // optional format hint
}

func (e *ValueError) Error() string {
	msg := e.Message
	if e.Key != "" {
		msg = fmt.Sprintf("key `%s`: %s", e.Key, e.Message)
	}
	if e.Info != "" {
		msg += " (" + e.Info + ")"
	}
	return msg
}

// MissingKeysError lists every required key absent from a document.
type MissingKeysError struct {
	Keys []string
}

func (e *MissingKeysError) Error() string {
	return "missing keys: " + strings.Join(e.Keys, ", ")
}

// Warning is a non-fatal finding from Decode.
type Warning struct {
	Key string
}

func (w Warning) String() string {
	return "ignoring unrecognized key: " + w.Key
}
