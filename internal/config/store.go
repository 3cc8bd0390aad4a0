// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/cmeow/internal/project"
	"github.com/jeranaias/cmeow/internal/schema"
	"github.com/jeranaias/cmeow/internal/util"
)

// =============================================================================
// ERRORS
// =============================================================================

// MalformedError is a project file that is not valid TOML, including
// duplicate keys.
type MalformedError struct {
	Path string
	Line int
	Err  error
}

func (e *MalformedError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("`%s`: line %d: %v", filepath.Base(e.Path), e.Line, e.Err)
	}
	return fmt.Sprintf("`%s`: %v", filepath.Base(e.Path), e.Err)
}

func (e *MalformedError) Unwrap() error { return e.Err }

// NotFoundError means no project file exists at or above a directory.
type NotFoundError struct {
	Dir string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("could not find `%s` in `%s` or any parent directory", project.FileName, e.Dir)
}

// KeyError wraps schema findings with the file they came from.
type KeyError struct {
	Path string
	Err  error
}

func (e *KeyError) Error() string {
	return fmt.Sprintf("`%s`: %v", filepath.Base(e.Path), e.Err)
}

func (e *KeyError) Unwrap() error { return e.Err }

// =============================================================================
// LOAD / SAVE
// =============================================================================

// Load reads and validates <root>/.cmeow-project. Unrecognized keys are
// returned as warnings alongside a usable Config.
func Load(root string) (*Config, []schema.Warning, error) {
	path := filepath.Join(root, project.FileName)

	var raw map[string]any
	if _, err := toml.DecodeFile(path, &raw); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil, &NotFoundError{Dir: root}
		}
		var perr toml.ParseError
		if errors.As(err, &perr) {
			return nil, nil, &MalformedError{Path: path, Line: perr.Position.Line, Err: errors.New(perr.Message)}
		}
		return nil, nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	rec, warnings, err := Schema.Decode(raw)
	if err != nil {
		return nil, warnings, &KeyError{Path: path, Err: err}
	}
	return FromRecord(rec), warnings, nil
}

// Save writes cfg to <root>/.cmeow-project atomically.
// RELIABILITY: a crash leaves either the old or the new file, never a mix.
func Save(root string, cfg *Config) error {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, "# cmeow project file")
	fmt.Fprintln(&buf, "# Generated by cmeow - edit with care")
	fmt.Fprintln(&buf, "")

	if err := toml.NewEncoder(&buf).Encode(cfg.Structured()); err != nil {
		return fmt.Errorf("failed to encode project file: %w", err)
	}

	path := filepath.Join(root, project.FileName)
	if err := util.AtomicWriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// FindRoot walks from start towards the filesystem root and returns the
// first directory holding a project file.
func FindRoot(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", err
	}
	origin := dir
	for {
		info, err := os.Stat(filepath.Join(dir, project.FileName))
		if err == nil && info.Mode().IsRegular() {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", &NotFoundError{Dir: origin}
		}
		dir = parent
	}
}

// Exists reports whether dir holds a project file.
func Exists(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, project.FileName))
	return err == nil && info.Mode().IsRegular()
}
