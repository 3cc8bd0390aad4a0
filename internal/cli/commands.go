// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// commands.go - new, init, build, run and watch.
package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/jeranaias/cmeow/internal/config"
	"github.com/jeranaias/cmeow/internal/orchestrator"
	"github.com/jeranaias/cmeow/internal/project"
	"github.com/jeranaias/cmeow/internal/schema"
)

// Interruption warnings, shown before any cleanup question.
const (
	buildInterrupted = "project may not have been fully built."
	runInterrupted   = "could not run project executable."
)

// =============================================================================
// SHARED FLAGS
// =============================================================================

// ScaffoldFlags are the project parameters taken by new and init.
type ScaffoldFlags struct {
	Verbose bool   `short:"v" help:"Enable verbose logging for project initialization."`
	CMake   string `name:"cmake" default:"${cmake_default}" placeholder:"<CMAKE>" help:"Min. required CMake version [default: ${default}]."`
	Std     int    `default:"${std_default}" placeholder:"<STD>" help:"CMAKE_CXX_STANDARD, one of ${stds} [default: ${default}]."`
	Version string `name:"version" default:"${version_default}" placeholder:"<VERSION>" help:"Project version [default: ${default}]."`
}

// params validates the flags with the same rules the project file uses.
func (f ScaffoldFlags) params(name string) (config.CreateParams, error) {
	if err := validateName(name); err != nil {
		return config.CreateParams{}, &ArgError{Arg: "project-name", Err: err}
	}
	if verr := config.Standards.Check(f.Std); verr != nil {
		return config.CreateParams{}, &ArgError{Arg: "--std", Err: verr}
	}
	if !schema.IsSemver(f.Version) {
		return config.CreateParams{}, &ArgError{
			Arg: "--version",
			Err: fmt.Errorf("`%s` is not a valid version (%s)", f.Version, schema.SemverFormat),
		}
	}
	if strings.TrimSpace(f.CMake) == "" {
		return config.CreateParams{}, &ArgError{Arg: "--cmake", Err: errors.New("expected a CMake version")}
	}
	return config.CreateParams{
		Name:         name,
		Version:      f.Version,
		CMakeVersion: f.CMake,
		Std:          f.Std,
	}, nil
}

// validateName rejects names that cannot be a directory and a CMake target.
func validateName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return errors.New("project name is empty")
	case name == "." || name == "..":
		return fmt.Errorf("`%s` is not a valid project name", name)
	case strings.ContainsAny(name, `/\`):
		return fmt.Errorf("project name `%s` must not contain path separators", name)
	case strings.ContainsAny(name, " \t\n"):
		return fmt.Errorf("project name `%s` must not contain whitespace", name)
	}
	return nil
}

// ProfileFlags select the build profile. Debug is the default.
type ProfileFlags struct {
	Debug   bool `short:"d" xor:"profile" help:"Use the debug profile (default)."`
	Release bool `short:"r" xor:"profile" help:"Use the release profile."`
}

// Profile returns the selected profile.
func (f ProfileFlags) Profile() project.Profile {
	if f.Release {
		return project.Release
	}
	return project.Debug
}

// =============================================================================
// NEW / INIT
// =============================================================================

// NewCmd creates <path>/<name>.
type NewCmd struct {
	Name string `arg:"" name:"project-name" help:"Name of the project."`
	Path string `placeholder:"<PATH>" help:"Project location [default: current directory]."`

	ScaffoldFlags
}

func (c *NewCmd) Run(app *App) error {
	params, err := c.params(c.Name)
	if err != nil {
		return err
	}
	base := app.WorkDir
	if c.Path != "" {
		base = resolve(app.WorkDir, c.Path)
	}
	return app.create("new", orchestrator.CreateOptions{
		Root:    filepath.Join(base, c.Name),
		Params:  params,
		Verbose: c.Verbose,
	})
}

// InitCmd turns the working directory into a project.
type InitCmd struct {
	Name string `arg:"" optional:"" name:"project-name" help:"Name of the project [default: directory name]."`

	ScaffoldFlags
}

func (c *InitCmd) Run(app *App) error {
	name := c.Name
	if name == "" {
		name = filepath.Base(app.WorkDir)
	}
	params, err := c.params(name)
	if err != nil {
		return err
	}
	return app.create("init", orchestrator.CreateOptions{
		Root:    app.WorkDir,
		InPlace: true,
		Params:  params,
		Verbose: c.Verbose,
	})
}

func (a *App) create(name string, opts orchestrator.CreateOptions) error {
	track := &orchestrator.Created{}
	return a.dispatch(name, orchestrator.Policy{
		Run: func(ctx context.Context) error {
			return a.Orch.Create(ctx, opts, track)
		},
		Recover: func(context.Context) error {
			return a.Orch.RecoverCreate(opts.Params.Name, track)
		},
	})
}

// =============================================================================
// BUILD / RUN / WATCH
// =============================================================================

// BuildCmd builds the enclosing project.
type BuildCmd struct {
	Verbose bool `short:"v" help:"Enable verbose logging for the build process."`

	ProfileFlags
}

func (c *BuildCmd) Run(app *App) error {
	return app.dispatch("build", orchestrator.Policy{
		Run: func(ctx context.Context) error {
			l, cfg, err := app.Orch.Open(app.WorkDir)
			if err != nil {
				return err
			}
			_, err = app.Orch.Build(ctx, l, cfg, orchestrator.BuildOptions{Profile: c.Profile(), Verbose: c.Verbose})
			return err
		},
		Recover: app.Orch.WarnOnInterrupt(buildInterrupted),
	})
}

// RunCmd builds, then runs the project executable.
type RunCmd struct {
	Verbose bool     `short:"v" help:"Enable verbose logging for the build process."`
	Args    []string `arg:"" optional:"" passthrough:"" help:"Arguments for the executable, after --."`

	ProfileFlags
}

func (c *RunCmd) Run(app *App) error {
	args := c.Args
	if len(args) > 0 && args[0] == "--" {
		args = args[1:]
	}
	return app.dispatch("run", orchestrator.Policy{
		Run: func(ctx context.Context) error {
			l, cfg, err := app.Orch.Open(app.WorkDir)
			if err != nil {
				return err
			}
			return app.Orch.Run(ctx, l, cfg, orchestrator.RunOptions{
				BuildOptions: orchestrator.BuildOptions{Profile: c.Profile(), Verbose: c.Verbose},
				Args:         args,
			})
		},
		Recover: app.Orch.WarnOnInterrupt(runInterrupted),
	})
}

// WatchCmd rebuilds on every change until interrupted.
type WatchCmd struct {
	Verbose  bool          `short:"v" help:"Enable verbose logging for the build process."`
	Debounce time.Duration `default:"300ms" help:"Quiet period before a rebuild [default: ${default}]."`

	ProfileFlags
}

func (c *WatchCmd) Run(app *App) error {
	return app.dispatch("watch", orchestrator.Policy{
		Run: func(ctx context.Context) error {
			l, cfg, err := app.Orch.Open(app.WorkDir)
			if err != nil {
				return err
			}
			err = app.Orch.Watch(ctx, l, cfg, orchestrator.WatchOptions{
				BuildOptions: orchestrator.BuildOptions{Profile: c.Profile(), Verbose: c.Verbose},
				Debounce:     c.Debounce,
			})
			if err == nil && ctx.Err() != nil {
				app.Out.Status("Stopped", "watching `%s`", cfg.Project.Name)
			}
			return err
		},
	})
}

func resolve(base, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(base, path)
}
