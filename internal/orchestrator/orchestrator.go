// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package orchestrator

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jeranaias/cmeow/internal/config"
	"github.com/jeranaias/cmeow/internal/console"
	"github.com/jeranaias/cmeow/internal/project"
	"github.com/jeranaias/cmeow/internal/runner"
)

// Orchestrator drives project creation, builds and runs.
type Orchestrator struct {
	Runner runner.Runner
	Prompt console.Prompter
	Out    *console.Printer

	// CMake is the cmake binary, "cmake" unless overridden.
	CMake string
	// Now stamps completed builds.
	Now func() time.Time
}

// New returns an orchestrator using the system cmake and clock.
func New(r runner.Runner, p console.Prompter, out *console.Printer) *Orchestrator {
	return &Orchestrator{Runner: r, Prompt: p, Out: out, CMake: "cmake", Now: time.Now}
}

// Open finds the project enclosing dir and loads its file. Unrecognized keys
// are reported as warnings.
func (o *Orchestrator) Open(dir string) (project.Layout, *config.Config, error) {
	root, err := config.FindRoot(dir)
	if err != nil {
		return project.Layout{}, nil, err
	}
	cfg, warnings, err := config.Load(root)
	for _, w := range warnings {
		o.Out.Warn("ignoring unrecognized key in `%s`: %s", project.FileName, w.Key)
	}
	if err != nil {
		return project.Layout{}, nil, err
	}
	return project.NewLayout(root), cfg, nil
}

// =============================================================================
// CMAKE INVOCATIONS
// =============================================================================

// reconfigure runs `cmake -DCMAKE_BUILD_TYPE=<type> -B target/<profile>/cmake_build`.
func (o *Orchestrator) reconfigure(ctx context.Context, l project.Layout, cfg *config.Config, p project.Profile, verbose, fresh bool) error {
	name := cfg.Project.Name
	if fresh {
		o.Out.Status("Creating", "cmeow project: `%s`", name)
	} else {
		o.Out.Status("Initializing", "%s build files for `%s`", p, name)
	}
	o.Out.Status("with", "CMake v%s & C++ Standard %d", cfg.CMake.Version, cfg.Project.Std)

	_, err := o.Runner.Run(ctx, runner.Command{
		Name:       o.CMake,
		Args:       []string{"-DCMAKE_BUILD_TYPE=" + p.BuildType(), "-B", l.RelBuildDir(p)},
		Dir:        l.Root,
		Verbose:    verbose,
		Background: true,
		Spinner:    true,
		Title:      "configuring",
	})
	if err != nil {
		return fmt.Errorf("cmake configure failed: %w", err)
	}
	return nil
}

// compile runs `cmake --build target/<profile>/cmake_build`.
func (o *Orchestrator) compile(ctx context.Context, l project.Layout, cfg *config.Config, p project.Profile, verbose bool) (time.Duration, error) {
	o.Out.Status("Compiling", "%s (%s)", cfg.Project.Name, l.Root)

	elapsed, err := o.Runner.Run(ctx, runner.Command{
		Name:       o.CMake,
		Args:       []string{"--build", l.RelBuildDir(p)},
		Dir:        l.Root,
		Verbose:    verbose,
		Background: true,
		Spinner:    true,
		Title:      "building",
	})
	if err != nil {
		return elapsed, fmt.Errorf("cmake build failed: %w", err)
	}
	return elapsed, nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
