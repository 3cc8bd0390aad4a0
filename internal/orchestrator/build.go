// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/jeranaias/cmeow/internal/config"
	"github.com/jeranaias/cmeow/internal/logging"
	"github.com/jeranaias/cmeow/internal/project"
	"github.com/jeranaias/cmeow/internal/runner"
	"github.com/jeranaias/cmeow/internal/staleness"
)

// BuildOptions configures Build.
type BuildOptions struct {
	Profile project.Profile
	Verbose bool
}

// BuildResult describes what Build did.
type BuildResult struct {
	Reconfigured bool
	Built        bool
	Elapsed      time.Duration
	Reason       string
}

// decide runs the cheap checks first: build directory state, then the
// executable, and only then the full tree walk.
func decide(l project.Layout, cfg *config.Config, p project.Profile) (staleness.Decision, error) {
	switch {
	case !staleness.ToolStateReady(l, p):
		return staleness.Decision{Reconfigure: true, Build: true, Reason: "build directory not configured"}, nil
	case !isFile(l.Executable(p, cfg.Project.Name)):
		return staleness.Decision{Build: true, Reason: "executable missing"}, nil
	}
	return staleness.Check(l, p, cfg.Project.LastBuild)
}

// Build brings the profile up to date. After a build the completion time is
// recorded in the project file. When nothing changed the file is left alone.
func (o *Orchestrator) Build(ctx context.Context, l project.Layout, cfg *config.Config, opts BuildOptions) (BuildResult, error) {
	p := opts.Profile
	if p == "" {
		p = project.Debug
	}

	d, err := decide(l, cfg, p)
	if err != nil {
		return BuildResult{}, fmt.Errorf("failed to check for changes: %w", err)
	}
	logging.FromContext(ctx).Debug("build decision",
		"profile", p, "reconfigure", d.Reconfigure, "build", d.Build, "reason", d.Reason)

	res := BuildResult{Reason: d.Reason}
	if d.Reconfigure {
		if err := o.reconfigure(ctx, l, cfg, p, opts.Verbose, false); err != nil {
			return res, err
		}
		res.Reconfigured = true
	}

	if !isDir(l.Src()) {
		return res, &DirNotFoundError{Path: l.Src()}
	}

	if d.Build {
		res.Elapsed, err = o.compile(ctx, l, cfg, p, opts.Verbose)
		if err != nil {
			return res, err
		}
		res.Built = true
	}

	summary := fmt.Sprintf("%s build %s target(s) in %.2fs", p, p.Summary(), res.Elapsed.Seconds())
	if !res.Built {
		o.Out.Status("Finished", "%s [files unchanged]", summary)
		return res, nil
	}
	o.Out.Status("Finished", "%s", summary)

	cfg.RecordBuild(o.Now())
	if err := config.Save(l.Root, cfg); err != nil {
		return res, fmt.Errorf("failed to record build: %w", err)
	}
	return res, nil
}

// RunOptions configures Run.
type RunOptions struct {
	BuildOptions
	// Args are passed to the executable.
	Args []string
}

// Run builds the profile and executes the result from the project root with
// the terminal attached. A non-zero exit becomes a ChildExitError.
func (o *Orchestrator) Run(ctx context.Context, l project.Layout, cfg *config.Config, opts RunOptions) error {
	if opts.Profile == "" {
		opts.Profile = project.Debug
	}
	if _, err := o.Build(ctx, l, cfg, opts.BuildOptions); err != nil {
		return err
	}

	exe := l.Executable(opts.Profile, cfg.Project.Name)
	if !isFile(exe) {
		return &ExecutableNotFoundError{Path: exe}
	}
	if !executable(exe) {
		return &ExecutableNotFoundError{Path: exe, Reason: "permission denied"}
	}

	rel, err := filepath.Rel(l.Root, exe)
	if err != nil {
		rel = exe
	}
	o.Out.Status("Running", "`./%s`", filepath.ToSlash(rel))

	_, err = o.Runner.Run(ctx, runner.Command{Name: exe, Args: opts.Args, Dir: l.Root})
	var exitErr *runner.ExitError
	if errors.As(err, &exitErr) {
		return &ChildExitError{Path: exe, Code: exitErr.Code}
	}
	return err
}
