// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/jeranaias/cmeow/internal/config"
	"github.com/jeranaias/cmeow/internal/console"
	"github.com/jeranaias/cmeow/internal/logging"
	"github.com/jeranaias/cmeow/internal/project"
	"github.com/jeranaias/cmeow/internal/staleness"
)

// CreateOptions configures Create.
type CreateOptions struct {
	// Root is the project directory. For `new` it is <path>/<name>, for
	// `init` the current directory.
	Root string
	// InPlace skips the existing-folder question, as `init` does.
	InPlace bool
	Params  config.CreateParams
	Verbose bool
}

// Created records what Create made, in order, so an interrupted creation
// can be undone without touching anything that was already there.
type Created struct {
	Root        string
	RootExisted bool
	Paths       []string
}

func (c *Created) add(path string) {
	c.Paths = append(c.Paths, path)
}

// Create scaffolds a project and configures its debug profile.
func (o *Orchestrator) Create(ctx context.Context, opts CreateOptions, track *Created) error {
	if track == nil {
		track = &Created{}
	}
	l := project.NewLayout(opts.Root)
	name := opts.Params.Name
	track.Root = l.Root

	info, err := os.Stat(l.Root)
	switch {
	case err == nil && !info.IsDir():
		return &CannotCreateError{Path: l.Root, Err: errors.New("a file with that name exists")}
	case err == nil:
		track.RootExisted = true
		if err := o.confirmExisting(l, opts.InPlace); err != nil {
			return err
		}
	case !errors.Is(err, fs.ErrNotExist):
		return &CannotCreateError{Path: l.Root, Err: err}
	}

	logging.FromContext(ctx).Debug("creating project", "name", name, "root", l.Root, "in_place", opts.InPlace)

	for _, dir := range []string{l.Root, l.Src(), l.Target()} {
		existed := isDir(dir)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return &CannotCreateError{Path: dir, Err: err}
		}
		if !existed && dir != l.Root {
			track.add(dir)
		}
	}

	cfg := config.New(opts.Params)

	preexisting := map[string]bool{}
	for _, p := range []string{l.CMakeLists(), l.MainSource(), l.Readme(cfg.Project.Readme), l.ProjectFile()} {
		preexisting[p] = isFile(p)
	}

	written, err := project.Scaffold{
		Name:         name,
		Description:  cfg.Project.Description,
		CMakeVersion: cfg.CMake.Version,
		Std:          cfg.Project.Std,
	}.Write(l, cfg.Project.Readme)
	for _, p := range written {
		if !preexisting[p] {
			track.add(p)
		}
	}
	if err != nil {
		return &CannotCreateError{Path: l.Root, Err: err}
	}

	if err := config.Save(l.Root, cfg); err != nil {
		return &CannotCreateError{Path: l.ProjectFile(), Err: err}
	}
	if !preexisting[l.ProjectFile()] {
		track.add(l.ProjectFile())
	}

	return o.reconfigure(ctx, l, cfg, project.Debug, opts.Verbose, !track.RootExisted)
}

// confirmExisting asks before reusing an existing directory.
func (o *Orchestrator) confirmExisting(l project.Layout, inPlace bool) error {
	base := filepath.Base(l.Root)

	if config.Exists(l.Root) {
		suffix, question := "", fmt.Sprintf("override `%s`", project.FileName)
		if staleness.ToolStateReady(l, project.Debug) {
			suffix = fmt.Sprintf(" (with %s profile)", console.Highlight(project.Debug.String()))
			question += " & build files"
		}
		o.Out.Warn("project `%s` exists%s.", base, suffix)
		ok, err := o.Prompt.Confirm(question + "?")
		if err != nil {
			return err
		}
		if !ok {
			return &ProjectExistsError{Dir: l.Root}
		}
		return nil
	}

	if inPlace {
		return nil
	}
	o.Out.Warn("folder `%s` exists.", base)
	ok, err := o.Prompt.Confirm("initialize new project here?")
	if err != nil {
		return err
	}
	if !ok {
		return &DirExistsError{Dir: l.Root}
	}
	return nil
}

// RecoverCreate is the interruption policy for new and init. It offers to
// remove what Create produced. A directory that Create made from nothing is
// removed whole. Otherwise only the paths Create added are removed.
func (o *Orchestrator) RecoverCreate(name string, track *Created) error {
	o.Out.Warn("new project `%s` may not have been fully initialized.", name)
	if track == nil || track.Root == "" {
		return nil
	}

	if !track.RootExisted {
		if !isDir(track.Root) {
			return nil
		}
		ok, err := o.Prompt.Confirm(fmt.Sprintf("remove partially created directory `%s`?", filepath.Base(track.Root)))
		if err != nil || !ok {
			return err
		}
		return os.RemoveAll(track.Root)
	}

	if len(track.Paths) == 0 {
		return nil
	}
	ok, err := o.Prompt.Confirm(fmt.Sprintf("remove the %d file(s) created so far?", len(track.Paths)))
	if err != nil || !ok {
		return err
	}
	for i := len(track.Paths) - 1; i >= 0; i-- {
		if err := os.RemoveAll(track.Paths[i]); err != nil {
			return fmt.Errorf("cleanup failed: %w", err)
		}
	}
	return nil
}
