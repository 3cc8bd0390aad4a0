// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package orchestrator

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/cmeow/internal/config"
	"github.com/jeranaias/cmeow/internal/console"
	"github.com/jeranaias/cmeow/internal/project"
	"github.com/jeranaias/cmeow/internal/runner"
	"github.com/jeranaias/cmeow/internal/staleness"
)

// =============================================================================
// FAKES
// =============================================================================

// fakeCMake stands in for cmake: configuring drops the marker files, building
// drops an executable. Anything else is treated as running the program.
type fakeCMake struct {
	mu       sync.Mutex
	name     string
	calls    []runner.Command
	exitCode int
	// hook runs before each command; a non-nil error is returned as is.
	hook func(c runner.Command) error
}

func (f *fakeCMake) Run(ctx context.Context, c runner.Command) (time.Duration, error) {
	f.mu.Lock()
	f.calls = append(f.calls, c)
	f.mu.Unlock()
	if f.hook != nil {
		if err := f.hook(c); err != nil {
			return 0, err
		}
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	switch {
	case c.Name == "cmake" && strings.HasPrefix(c.Args[0], "-DCMAKE_BUILD_TYPE="):
		dir := filepath.Join(c.Dir, c.Args[2])
		if err := os.MkdirAll(filepath.Join(dir, "CMakeFiles"), 0o755); err != nil {
			return 0, err
		}
		for _, name := range staleness.MarkerFiles {
			if err := os.WriteFile(filepath.Join(dir, name), []byte("#"), 0o644); err != nil {
				return 0, err
			}
		}
	case c.Name == "cmake" && c.Args[0] == "--build":
		parts := strings.Split(filepath.ToSlash(c.Args[1]), "/")
		p, err := project.ParseProfile(parts[1])
		if err != nil {
			return 0, err
		}
		exe := project.Layout{Root: c.Dir}.Executable(p, f.name)
		if err := os.WriteFile(exe, []byte("#!/bin/sh\n"), 0o755); err != nil {
			return 0, err
		}
		return 1500 * time.Millisecond, nil
	default:
		if f.exitCode != 0 {
			return 0, &runner.ExitError{Command: c.String(), Code: f.exitCode}
		}
	}
	return 0, nil
}

func (f *fakeCMake) count(arg string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if len(c.Args) > 0 && strings.HasPrefix(c.Args[0], arg) {
			n++
		}
	}
	return n
}

// scripted answers questions in order and remembers them.
type scripted struct {
	answers   []bool
	questions []string
}

func (s *scripted) Confirm(q string) (bool, error) {
	s.questions = append(s.questions, q)
	if len(s.answers) == 0 {
		return false, nil
	}
	a := s.answers[0]
	s.answers = s.answers[1:]
	return a, nil
}

type harness struct {
	o      *Orchestrator
	cmake  *fakeCMake
	prompt *scripted
	out    *bytes.Buffer
}

func newHarness(t *testing.T, name string, answers ...bool) *harness {
	t.Helper()
	out := &bytes.Buffer{}
	h := &harness{
		cmake:  &fakeCMake{name: name},
		prompt: &scripted{answers: answers},
		out:    out,
	}
	h.o = New(h.cmake, h.prompt, &console.Printer{Out: out, Err: out})
	// Leave room for coarse filesystem timestamps.
	h.o.Now = func() time.Time { return time.Now().Add(time.Second) }
	return h
}

func (h *harness) create(t *testing.T, root, name string) (project.Layout, *config.Config) {
	t.Helper()
	require.NoError(t, h.o.Create(context.Background(), CreateOptions{
		Root:   root,
		Params: config.CreateParams{Name: name},
	}, nil))
	l, cfg, err := h.o.Open(root)
	require.NoError(t, err)
	return l, cfg
}

// =============================================================================
// CREATE
// =============================================================================

func TestCreate_ScaffoldsAndConfiguresDebug(t *testing.T) {
	root := filepath.Join(t.TempDir(), "demo")
	h := newHarness(t, "demo")

	l, cfg := h.create(t, root, "demo")

	assert.FileExists(t, l.CMakeLists())
	assert.FileExists(t, l.MainSource())
	assert.FileExists(t, l.Readme(cfg.Project.Readme))
	assert.DirExists(t, l.Target())
	assert.True(t, cfg.NeverBuilt())
	assert.Equal(t, "demo", cfg.Project.Name)
	assert.Equal(t, config.DefaultStd, cfg.Project.Std)
	assert.Equal(t, config.ToolVersion, cfg.Cmeow.Version)

	assert.True(t, staleness.ToolStateReady(l, project.Debug))
	assert.False(t, staleness.ToolStateReady(l, project.Release))
	assert.Contains(t, h.out.String(), "cmeow project: `demo`")
	assert.Contains(t, h.out.String(), "C++ Standard 17")
}

func TestCreate_ExistingProjectDeclined(t *testing.T) {
	root := filepath.Join(t.TempDir(), "demo")
	h := newHarness(t, "demo")
	h.create(t, root, "demo")

	h.prompt.answers = []bool{false}
	err := h.o.Create(context.Background(), CreateOptions{Root: root, Params: config.CreateParams{Name: "demo"}}, nil)

	var exists *ProjectExistsError
	require.ErrorAs(t, err, &exists)
	require.Len(t, h.prompt.questions, 1)
	assert.Equal(t, "override `.cmeow-project` & build files?", h.prompt.questions[0])
	assert.Contains(t, h.out.String(), "project `demo` exists")
}

func TestCreate_ExistingFolder(t *testing.T) {
	t.Run("declined", func(t *testing.T) {
		root := t.TempDir()
		h := newHarness(t, "demo", false)
		err := h.o.Create(context.Background(), CreateOptions{Root: root, Params: config.CreateParams{Name: "demo"}}, nil)

		var exists *DirExistsError
		require.ErrorAs(t, err, &exists)
		assert.NoFileExists(t, filepath.Join(root, project.FileName))
	})

	t.Run("accepted keeps existing sources", func(t *testing.T) {
		root := t.TempDir()
		main := filepath.Join(root, project.SrcDir, project.MainFile)
		require.NoError(t, os.MkdirAll(filepath.Dir(main), 0o755))
		require.NoError(t, os.WriteFile(main, []byte("int main() { return 7; }\n"), 0o644))

		h := newHarness(t, "demo", true)
		require.NoError(t, h.o.Create(context.Background(), CreateOptions{Root: root, Params: config.CreateParams{Name: "demo"}}, nil))

		data, err := os.ReadFile(main)
		require.NoError(t, err)
		assert.Equal(t, "int main() { return 7; }\n", string(data))
		assert.FileExists(t, filepath.Join(root, project.FileName))
	})

	t.Run("in place asks nothing", func(t *testing.T) {
		root := t.TempDir()
		h := newHarness(t, "demo")
		require.NoError(t, h.o.Create(context.Background(), CreateOptions{Root: root, InPlace: true, Params: config.CreateParams{Name: "demo"}}, nil))
		assert.Empty(t, h.prompt.questions)
	})
}

func TestCreate_RootIsAFile(t *testing.T) {
	root := filepath.Join(t.TempDir(), "demo")
	require.NoError(t, os.WriteFile(root, nil, 0o644))

	h := newHarness(t, "demo")
	err := h.o.Create(context.Background(), CreateOptions{Root: root, Params: config.CreateParams{Name: "demo"}}, nil)

	var cannot *CannotCreateError
	assert.ErrorAs(t, err, &cannot)
}

// =============================================================================
// BUILD
// =============================================================================

func TestBuild_FirstBuildRecordsTimestamp(t *testing.T) {
	root := filepath.Join(t.TempDir(), "demo")
	h := newHarness(t, "demo")
	l, cfg := h.create(t, root, "demo")

	res, err := h.o.Build(context.Background(), l, cfg, BuildOptions{Profile: project.Debug})
	require.NoError(t, err)
	assert.True(t, res.Built)
	assert.False(t, res.Reconfigured)
	assert.FileExists(t, l.Executable(project.Debug, "demo"))

	_, reloaded, err := h.o.Open(root)
	require.NoError(t, err)
	assert.False(t, reloaded.NeverBuilt())
	assert.Contains(t, h.out.String(), "debug build [unoptimized + debuginfo] target(s) in 1.50s")
}

func TestBuild_UnchangedSkipsAndLeavesFileAlone(t *testing.T) {
	root := filepath.Join(t.TempDir(), "demo")
	h := newHarness(t, "demo")
	l, cfg := h.create(t, root, "demo")

	_, err := h.o.Build(context.Background(), l, cfg, BuildOptions{Profile: project.Debug})
	require.NoError(t, err)
	before, err := os.ReadFile(l.ProjectFile())
	require.NoError(t, err)

	h.out.Reset()
	res, err := h.o.Build(context.Background(), l, cfg, BuildOptions{Profile: project.Debug})
	require.NoError(t, err)
	assert.False(t, res.Built)
	assert.Equal(t, 1, h.cmake.count("--build"))
	assert.Contains(t, h.out.String(), "[files unchanged]")

	after, err := os.ReadFile(l.ProjectFile())
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))
}

func TestBuild_ChangedSourceRebuilds(t *testing.T) {
	root := filepath.Join(t.TempDir(), "demo")
	h := newHarness(t, "demo")
	l, cfg := h.create(t, root, "demo")

	_, err := h.o.Build(context.Background(), l, cfg, BuildOptions{Profile: project.Debug})
	require.NoError(t, err)

	later := cfg.Project.LastBuild.Add(time.Hour)
	require.NoError(t, os.Chtimes(l.MainSource(), later, later))

	res, err := h.o.Build(context.Background(), l, cfg, BuildOptions{Profile: project.Debug})
	require.NoError(t, err)
	assert.True(t, res.Built)
	assert.Equal(t, "files changed since last build", res.Reason)
}

func TestBuild_OppositeProfileReconfigures(t *testing.T) {
	root := filepath.Join(t.TempDir(), "demo")
	h := newHarness(t, "demo")
	l, cfg := h.create(t, root, "demo")

	_, err := h.o.Build(context.Background(), l, cfg, BuildOptions{Profile: project.Debug})
	require.NoError(t, err)

	res, err := h.o.Build(context.Background(), l, cfg, BuildOptions{Profile: project.Release})
	require.NoError(t, err)
	assert.True(t, res.Reconfigured)
	assert.True(t, res.Built)
	assert.True(t, staleness.ToolStateReady(l, project.Release))
	assert.Contains(t, h.out.String(), "Initializing")

	last := h.cmake.calls[len(h.cmake.calls)-2]
	assert.Equal(t, "-DCMAKE_BUILD_TYPE=Release", last.Args[0])
}

func TestBuild_MissingExecutableRebuilds(t *testing.T) {
	root := filepath.Join(t.TempDir(), "demo")
	h := newHarness(t, "demo")
	l, cfg := h.create(t, root, "demo")

	_, err := h.o.Build(context.Background(), l, cfg, BuildOptions{Profile: project.Debug})
	require.NoError(t, err)
	require.NoError(t, os.Remove(l.Executable(project.Debug, "demo")))

	res, err := h.o.Build(context.Background(), l, cfg, BuildOptions{Profile: project.Debug})
	require.NoError(t, err)
	assert.True(t, res.Built)
	assert.Equal(t, "executable missing", res.Reason)
}

func TestBuild_MissingSrc(t *testing.T) {
	root := filepath.Join(t.TempDir(), "demo")
	h := newHarness(t, "demo")
	l, cfg := h.create(t, root, "demo")
	require.NoError(t, os.RemoveAll(l.Src()))

	_, err := h.o.Build(context.Background(), l, cfg, BuildOptions{Profile: project.Debug})
	var nf *DirNotFoundError
	assert.ErrorAs(t, err, &nf)
}

// =============================================================================
// RUN
// =============================================================================

func TestRun_ExecutesFromRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "demo")
	h := newHarness(t, "demo")
	l, cfg := h.create(t, root, "demo")

	err := h.o.Run(context.Background(), l, cfg, RunOptions{
		BuildOptions: BuildOptions{Profile: project.Debug},
		Args:         []string{"--flag", "x"},
	})
	require.NoError(t, err)

	last := h.cmake.calls[len(h.cmake.calls)-1]
	assert.Equal(t, l.Executable(project.Debug, "demo"), last.Name)
	assert.Equal(t, []string{"--flag", "x"}, last.Args)
	assert.Equal(t, l.Root, last.Dir)
	assert.Contains(t, h.out.String(), "`./target/debug/demo")
}

func TestRun_ChildExitCodePassesThrough(t *testing.T) {
	root := filepath.Join(t.TempDir(), "demo")
	h := newHarness(t, "demo")
	l, cfg := h.create(t, root, "demo")
	h.cmake.exitCode = 42

	err := h.o.Run(context.Background(), l, cfg, RunOptions{BuildOptions: BuildOptions{Profile: project.Debug}})
	var child *ChildExitError
	require.ErrorAs(t, err, &child)
	assert.Equal(t, 42, child.Code)
}

func TestRun_ExecutableNotFound(t *testing.T) {
	root := filepath.Join(t.TempDir(), "demo")
	h := newHarness(t, "demo")
	l, cfg := h.create(t, root, "demo")

	// The build succeeds but writes a binary under another name.
	h.cmake.name = "something-else"

	err := h.o.Run(context.Background(), l, cfg, RunOptions{BuildOptions: BuildOptions{Profile: project.Debug}})
	var nf *ExecutableNotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, l.Executable(project.Debug, "demo"), nf.Path)
}

// =============================================================================
// INTERRUPTION
// =============================================================================

func TestDispatch_RecoversInterruptedCreate(t *testing.T) {
	parent := t.TempDir()
	root := filepath.Join(parent, "demo")
	h := newHarness(t, "demo", true)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h.cmake.hook = func(runner.Command) error {
		cancel()
		return ctx.Err()
	}

	track := &Created{}
	d := NewDispatcher()
	d.Register("new", Policy{
		Run: func(ctx context.Context) error {
			return h.o.Create(ctx, CreateOptions{Root: root, Params: config.CreateParams{Name: "demo"}}, track)
		},
		Recover: func(context.Context) error { return h.o.RecoverCreate("demo", track) },
	})

	err := d.Dispatch(ctx, "new")
	require.ErrorIs(t, err, ErrInterrupted)
	var ie *InterruptedError
	require.ErrorAs(t, err, &ie)
	assert.True(t, ie.Recovered)

	assert.NoDirExists(t, root)
	assert.Contains(t, h.out.String(), "new project `demo` may not have been fully initialized.")
	require.Len(t, h.prompt.questions, 1)
	assert.Contains(t, h.prompt.questions[0], "remove partially created directory `demo`")
}

func TestRecoverCreate_KeepsPreexistingFiles(t *testing.T) {
	root := t.TempDir()
	keep := filepath.Join(root, "notes.txt")
	require.NoError(t, os.WriteFile(keep, []byte("mine"), 0o644))

	// First answer initializes in the folder, second confirms the cleanup.
	h := newHarness(t, "demo", true, true)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h.cmake.hook = func(runner.Command) error {
		cancel()
		return ctx.Err()
	}

	track := &Created{}
	err := h.o.Create(ctx, CreateOptions{Root: root, Params: config.CreateParams{Name: "demo"}}, track)
	require.Error(t, err)
	require.True(t, track.RootExisted)
	require.NotEmpty(t, track.Paths)

	require.NoError(t, h.o.RecoverCreate("demo", track))
	assert.DirExists(t, root)
	assert.FileExists(t, keep)
	assert.NoFileExists(t, filepath.Join(root, project.FileName))
	assert.NoDirExists(t, filepath.Join(root, project.SrcDir))
}

func TestRecoverCreate_Declined(t *testing.T) {
	root := filepath.Join(t.TempDir(), "demo")
	require.NoError(t, os.MkdirAll(root, 0o755))

	h := newHarness(t, "demo", false)
	require.NoError(t, h.o.RecoverCreate("demo", &Created{Root: root}))
	assert.DirExists(t, root)
}

func TestDispatch_WithoutRecover(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	d := NewDispatcher()
	d.Register("build", Policy{Run: func(ctx context.Context) error {
		cancel()
		return ctx.Err()
	}})

	err := d.Dispatch(ctx, "build")
	require.ErrorIs(t, err, ErrInterrupted)
	var ie *InterruptedError
	require.ErrorAs(t, err, &ie)
	assert.False(t, ie.Recovered)
	assert.Equal(t, "build", ie.Command)
}

func TestDispatch_WarnOnInterrupt(t *testing.T) {
	h := newHarness(t, "demo")
	ctx, cancel := context.WithCancel(context.Background())
	d := NewDispatcher()
	d.Register("run", Policy{
		Run: func(ctx context.Context) error {
			cancel()
			return ctx.Err()
		},
		Recover: h.o.WarnOnInterrupt("could not run project executable."),
	})

	err := d.Dispatch(ctx, "run")
	require.ErrorIs(t, err, ErrInterrupted)
	assert.Contains(t, h.out.String(), "warning: could not run project executable.")
}

func TestDispatch_PassesThroughOrdinaryErrors(t *testing.T) {
	boom := errors.New("boom")
	d := NewDispatcher()
	d.Register("build", Policy{
		Run:     func(context.Context) error { return boom },
		Recover: func(context.Context) error { t.Fatal("recover must not run"); return nil },
	})
	assert.ErrorIs(t, d.Dispatch(context.Background(), "build"), boom)
}

func TestDispatch_UnknownCommand(t *testing.T) {
	d := NewDispatcher()
	d.Register("build", Policy{Run: func(context.Context) error { return nil }})
	d.Register("new", Policy{Run: func(context.Context) error { return nil }})

	err := d.Dispatch(context.Background(), "deploy")
	var unknown *UnknownCommandError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, []string{"build", "new"}, unknown.Known)
}
