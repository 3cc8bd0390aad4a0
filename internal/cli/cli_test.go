// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/cmeow/internal/config"
	"github.com/jeranaias/cmeow/internal/orchestrator"
	"github.com/jeranaias/cmeow/internal/project"
	"github.com/jeranaias/cmeow/internal/runner"
	"github.com/jeranaias/cmeow/internal/schema"
	"github.com/jeranaias/cmeow/internal/staleness"
)

// =============================================================================
// TEST DOUBLES
// =============================================================================

// stubCMake fakes cmake and the built program.
type stubCMake struct {
	calls    []runner.Command
	exitCode int
}

func (s *stubCMake) Run(ctx context.Context, c runner.Command) (time.Duration, error) {
	s.calls = append(s.calls, c)
	switch {
	case len(c.Args) > 2 && strings.HasPrefix(c.Args[0], "-DCMAKE_BUILD_TYPE="):
		dir := filepath.Join(c.Dir, c.Args[2])
		if err := os.MkdirAll(filepath.Join(dir, "CMakeFiles"), 0o755); err != nil {
			return 0, err
		}
		for _, name := range staleness.MarkerFiles {
			if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
				return 0, err
			}
		}
	case len(c.Args) > 1 && c.Args[0] == "--build":
		cfg, _, err := config.Load(c.Dir)
		if err != nil {
			return 0, err
		}
		profile := project.Debug
		if strings.Contains(filepath.ToSlash(c.Args[1]), "/release/") {
			profile = project.Release
		}
		exe := project.Layout{Root: c.Dir}.Executable(profile, cfg.Project.Name)
		return time.Second, os.WriteFile(exe, []byte("#!/bin/sh\n"), 0o755)
	default:
		if s.exitCode != 0 {
			return 0, &runner.ExitError{Command: c.String(), Code: s.exitCode}
		}
	}
	return 0, nil
}

type always bool

func (a always) Confirm(string) (bool, error) { return bool(a), nil }

type result struct {
	code   int
	stdout string
	stderr string
}

func execute(t *testing.T, dir string, stub *stubCMake, args ...string) result {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := Execute(context.Background(), args, Env{
		Stdin:   strings.NewReader(""),
		Stdout:  &stdout,
		Stderr:  &stderr,
		WorkDir: dir,
		Runner:  stub,
		Prompt:  always(false),
	})
	return result{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

// newProject runs `cmeow new demo` in a fresh directory and returns the
// project root.
func newProject(t *testing.T, stub *stubCMake) string {
	t.Helper()
	dir := t.TempDir()
	res := execute(t, dir, stub, "new", "demo")
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	return filepath.Join(dir, "demo")
}

func rewriteProjectFile(t *testing.T, root, old, replacement string) {
	t.Helper()
	path := filepath.Join(root, project.FileName)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), old)
	require.NoError(t, os.WriteFile(path, []byte(strings.Replace(string(data), old, replacement, 1)), 0o644))
}

// =============================================================================
// EXIT CODE CLASSIFICATION
// =============================================================================

func TestExitCodeFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"generic", errors.New("boom"), ExitFailure},
		{"argument", &ArgError{Arg: "--std", Err: &schema.ValueError{Kind: schema.InvalidValue}}, ExitInvalidArgs},
		{"unknown command", &orchestrator.UnknownCommandError{Name: "x"}, ExitInvalidCommand},
		{"project exists", &orchestrator.ProjectExistsError{Dir: "d"}, ExitProjectExists},
		{"dir exists", &orchestrator.DirExistsError{Dir: "d"}, ExitDirExists},
		{"cannot create", &orchestrator.CannotCreateError{Path: "d", Err: os.ErrPermission}, ExitCannotCreate},
		{"not found", &config.NotFoundError{Dir: "d"}, ExitProjectNotFound},
		{"malformed", &config.MalformedError{Path: "p", Err: errors.New("bad")}, ExitMalformedFile},
		{"key type", &config.KeyError{Err: errors.Join(&schema.ValueError{Kind: schema.InvalidType})}, ExitInvalidKeyType},
		{"key value", &config.KeyError{Err: &schema.ValueError{Kind: schema.InvalidValue}}, ExitInvalidKeyValue},
		{"type wins over value", &config.KeyError{Err: errors.Join(
			&schema.ValueError{Kind: schema.InvalidValue},
			&schema.ValueError{Kind: schema.InvalidType},
		)}, ExitInvalidKeyType},
		{"missing keys", &config.KeyError{Err: errors.Join(&schema.MissingKeysError{Keys: []string{"a"}})}, ExitMissingKeys},
		{"dir not found", fmt.Errorf("wrapped: %w", &orchestrator.DirNotFoundError{Path: "src"}), ExitDirNotFound},
		{"exe not found", &orchestrator.ExecutableNotFoundError{Path: "x"}, ExitExecutableNotFound},
		{"interrupted", &orchestrator.InterruptedError{Command: "build"}, ExitInterrupted},
		{"child", &orchestrator.ChildExitError{Code: 42}, 42},
		{"child killed", &orchestrator.ChildExitError{Code: -1}, ExitFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCodeFor(tt.err))
		})
	}
}

func TestSuggestCommand(t *testing.T) {
	assert.Equal(t, "build", SuggestCommand("biuld"))
	assert.Equal(t, "watch", SuggestCommand("wach"))
	assert.Equal(t, "run", SuggestCommand("rn"))
	assert.Equal(t, "", SuggestCommand("build"))
	assert.Equal(t, "", SuggestCommand("deploy"))
	assert.Equal(t, "", SuggestCommand("x"))
}

func TestFirstCommandWord(t *testing.T) {
	assert.Equal(t, "biuld", firstCommandWord([]string{"--log-level", "debug", "biuld"}))
	assert.Equal(t, "biuld", firstCommandWord([]string{"--log-level=debug", "biuld", "-r"}))
	assert.Equal(t, "", firstCommandWord([]string{"--no-color"}))
}

// =============================================================================
// PARSING
// =============================================================================

func TestExecute_NoArgsPrintsHelp(t *testing.T) {
	res := execute(t, t.TempDir(), &stubCMake{})
	assert.Equal(t, ExitSuccess, res.code)
	assert.Contains(t, res.stdout, "Usage: cmeow")
}

func TestExecute_ToolVersion(t *testing.T) {
	res := execute(t, t.TempDir(), &stubCMake{}, "-V")
	assert.Equal(t, ExitSuccess, res.code)
	assert.Contains(t, res.stdout, "cmeow "+config.ToolVersion)
}

func TestExecute_UnknownCommand(t *testing.T) {
	res := execute(t, t.TempDir(), &stubCMake{}, "biuld")
	assert.Equal(t, ExitInvalidCommand, res.code)
	assert.Contains(t, res.stderr, "unrecognized command `biuld`")
	assert.Contains(t, res.stdout, "`build`")
}

func TestExecute_InvalidArgs(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unsupported std", []string{"new", "demo", "--std", "98"}, "std version 98 is unsupported"},
		{"invalid std", []string{"new", "demo", "--std", "18"}, "std version 18 is invalid"},
		{"std not an int", []string{"new", "demo", "--std", "seventeen"}, "--std"},
		{"bad version", []string{"new", "demo", "--version", "1.0"}, "--version"},
		{"bad name", []string{"new", "a/b"}, "path separators"},
		{"both profiles", []string{"build", "-d", "-r"}, "--debug"},
		{"missing name", []string{"new"}, "project-name"},
		{"unknown flag", []string{"build", "--fast"}, "--fast"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			res := execute(t, dir, &stubCMake{}, tt.args...)
			assert.Equal(t, ExitInvalidArgs, res.code)
			assert.Contains(t, res.stderr, tt.want)

			entries, err := os.ReadDir(dir)
			require.NoError(t, err)
			assert.Empty(t, entries, "nothing may be created for rejected arguments")
		})
	}
}

// =============================================================================
// COMMANDS
// =============================================================================

func TestExecute_NewCreatesProject(t *testing.T) {
	stub := &stubCMake{}
	root := newProject(t, stub)

	cfg, _, err := config.Load(root)
	require.NoError(t, err)
	assert.Equal(t, "demo", cfg.Project.Name)
	assert.Equal(t, config.DefaultVersion, cfg.Project.Version)
	assert.True(t, cfg.NeverBuilt())

	require.Len(t, stub.calls, 1)
	assert.Equal(t, []string{"-DCMAKE_BUILD_TYPE=Debug", "-B", filepath.Join("target", "debug", "cmake_build")}, stub.calls[0].Args)
	assert.Equal(t, root, stub.calls[0].Dir)
}

func TestExecute_NewWithFlags(t *testing.T) {
	dir := t.TempDir()
	res := execute(t, dir, &stubCMake{}, "new", "demo", "--path", "nested", "--std", "20", "--version", "1.2.3-beta", "--cmake", "3.28")
	require.Equal(t, ExitSuccess, res.code, res.stderr)

	cfg, _, err := config.Load(filepath.Join(dir, "nested", "demo"))
	require.NoError(t, err)
	assert.Equal(t, 20, cfg.Project.Std)
	assert.Equal(t, "1.2.3-beta", cfg.Project.Version)
	assert.Equal(t, "3.28", cfg.CMake.Version)
}

func TestExecute_NewDeclinedOverExistingProject(t *testing.T) {
	stub := &stubCMake{}
	root := newProject(t, stub)

	res := execute(t, filepath.Dir(root), stub, "new", "demo")
	assert.Equal(t, ExitProjectExists, res.code)
}

func TestExecute_InitNamesAfterDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "widget")
	require.NoError(t, os.Mkdir(dir, 0o755))

	res := execute(t, dir, &stubCMake{}, "init")
	require.Equal(t, ExitSuccess, res.code, res.stderr)

	cfg, _, err := config.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "widget", cfg.Project.Name)
}

func TestExecute_BuildTwice(t *testing.T) {
	stub := &stubCMake{}
	root := newProject(t, stub)

	res := execute(t, filepath.Join(root, "src"), stub, "build")
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Contains(t, res.stdout, "debug build [unoptimized + debuginfo]")
	assert.FileExists(t, project.Layout{Root: root}.Executable(project.Debug, "demo"))

	res = execute(t, root, stub, "build")
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Contains(t, res.stdout, "[files unchanged]")
}

func TestExecute_BuildRelease(t *testing.T) {
	stub := &stubCMake{}
	root := newProject(t, stub)

	res := execute(t, root, stub, "build", "--release")
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Contains(t, res.stdout, "release build [optimized]")
	assert.FileExists(t, project.Layout{Root: root}.Executable(project.Release, "demo"))
}

func TestExecute_BuildOutsideProject(t *testing.T) {
	res := execute(t, t.TempDir(), &stubCMake{}, "build")
	assert.Equal(t, ExitProjectNotFound, res.code)
	assert.Contains(t, res.stderr, "could not find `.cmeow-project`")
}

func TestExecute_ProjectFileErrors(t *testing.T) {
	t.Run("wrong type", func(t *testing.T) {
		root := newProject(t, &stubCMake{})
		rewriteProjectFile(t, root, "std = 17", `std = "17"`)
		res := execute(t, root, &stubCMake{}, "build")
		assert.Equal(t, ExitInvalidKeyType, res.code)
	})

	t.Run("bad value", func(t *testing.T) {
		root := newProject(t, &stubCMake{})
		rewriteProjectFile(t, root, "std = 17", "std = 98")
		res := execute(t, root, &stubCMake{}, "build")
		assert.Equal(t, ExitInvalidKeyValue, res.code)
		assert.Contains(t, res.stderr, "unsupported")
	})

	t.Run("wrong type alongside bad value", func(t *testing.T) {
		root := newProject(t, &stubCMake{})
		rewriteProjectFile(t, root, "std = 17", `std = "abc"`)
		rewriteProjectFile(t, root, fmt.Sprintf("version = %q", config.ToolVersion), `version = "9.9.9"`)
		res := execute(t, root, &stubCMake{}, "build")
		assert.Equal(t, ExitInvalidKeyType, res.code)
	})

	t.Run("missing keys", func(t *testing.T) {
		root := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(root, project.FileName), []byte("[project]\nstd = 17\n"), 0o644))
		res := execute(t, root, &stubCMake{}, "build")
		assert.Equal(t, ExitMissingKeys, res.code)
		assert.Contains(t, res.stderr, "project.name")
	})

	t.Run("duplicate key", func(t *testing.T) {
		root := t.TempDir()
		body := "[project]\nname = \"a\"\nname = \"b\"\n"
		require.NoError(t, os.WriteFile(filepath.Join(root, project.FileName), []byte(body), 0o644))
		res := execute(t, root, &stubCMake{}, "build")
		assert.Equal(t, ExitMalformedFile, res.code)
	})
}

func TestExecute_BuildWithoutSrc(t *testing.T) {
	stub := &stubCMake{}
	root := newProject(t, stub)
	require.NoError(t, os.RemoveAll(filepath.Join(root, "src")))

	res := execute(t, root, stub, "build")
	assert.Equal(t, ExitDirNotFound, res.code)
}

func TestExecute_RunPassesArgsAndExitCode(t *testing.T) {
	stub := &stubCMake{}
	root := newProject(t, stub)

	res := execute(t, root, stub, "run", "-r", "--", "--answer", "42")
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	last := stub.calls[len(stub.calls)-1]
	assert.Equal(t, []string{"--answer", "42"}, last.Args)
	assert.Equal(t, root, last.Dir)

	stub.exitCode = 3
	res = execute(t, root, stub, "run")
	assert.Equal(t, 3, res.code)
	assert.Empty(t, res.stderr)
}
