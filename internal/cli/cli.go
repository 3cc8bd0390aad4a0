// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - Argument parsing and the top-level Execute entry point.
package cli

import (
	"context"
	"errors"
	"io"
	"os"
	"strconv"

	"github.com/alecthomas/kong"

	"github.com/jeranaias/cmeow/internal/config"
	"github.com/jeranaias/cmeow/internal/console"
	"github.com/jeranaias/cmeow/internal/logging"
	"github.com/jeranaias/cmeow/internal/orchestrator"
	"github.com/jeranaias/cmeow/internal/runner"
)

// Version information (can be overridden at build time)
var (
	Version   = config.ToolVersion
	GitCommit = "unknown"
)

const description = "Small CLI tool to simplify working with CMake projects."

// Globals are accepted before any command.
type Globals struct {
	LogLevel  string           `help:"Diagnostic log level (${enum})." enum:"debug,info,warn,error" default:"warn" env:"CMEOW_LOG_LEVEL"`
	LogFormat string           `help:"Diagnostic log format (${enum})." enum:"text,json" default:"text" env:"CMEOW_LOG_FORMAT"`
	NoColor   bool             `help:"Disable colored output."`
	CMakeBin  string           `name:"cmake-bin" help:"CMake binary to invoke." default:"cmake" env:"CMEOW_CMAKE" hidden:""`
	Version   kong.VersionFlag `name:"tool-version" short:"V" help:"Print the cmeow version and exit."`
}

// CLI is the full command grammar.
type CLI struct {
	Globals

	New   NewCmd   `cmd:"" help:"Create a new cmeow project."`
	Init  InitCmd  `cmd:"" help:"Create a new cmeow project in the current directory (and named as such)."`
	Build BuildCmd `cmd:"" help:"Build the project."`
	Run   RunCmd   `cmd:"" help:"Build and run the project executable."`
	Watch WatchCmd `cmd:"" help:"Rebuild the project whenever its sources change."`
}

// Env is everything Execute takes from the outside world. Zero fields fall
// back to the process's own.
type Env struct {
	Stdin   io.Reader
	Stdout  io.Writer
	Stderr  io.Writer
	WorkDir string

	Runner runner.Runner
	Prompt console.Prompter
}

func (e Env) withDefaults() Env {
	if e.Stdin == nil {
		e.Stdin = os.Stdin
	}
	if e.Stdout == nil {
		e.Stdout = os.Stdout
	}
	if e.Stderr == nil {
		e.Stderr = os.Stderr
	}
	if e.WorkDir == "" {
		if wd, err := os.Getwd(); err == nil {
			e.WorkDir = wd
		} else {
			e.WorkDir = "."
		}
	}
	return e
}

// App is bound into every command's Run method.
type App struct {
	Ctx        context.Context
	Out        *console.Printer
	Orch       *orchestrator.Orchestrator
	Dispatcher *orchestrator.Dispatcher
	WorkDir    string
}

// dispatch registers the command's policy and runs it, so that interruption
// is handled in one place.
func (a *App) dispatch(name string, p orchestrator.Policy) error {
	a.Dispatcher.Register(name, p)
	return a.Dispatcher.Dispatch(a.Ctx, name)
}

// exitRequest carries kong's exit code out of Parse.
type exitRequest int

// Execute parses args, runs the selected command and returns the exit code.
// Cancelling ctx interrupts the command.
func Execute(ctx context.Context, args []string, env Env) (code int) {
	env = env.withDefaults()
	out := &console.Printer{Out: env.Stdout, Err: env.Stderr}

	var grammar CLI
	parser, err := kong.New(&grammar,
		kong.Name("cmeow"),
		kong.Description(description),
		kong.Writers(env.Stdout, env.Stderr),
		kong.Exit(func(c int) { panic(exitRequest(c)) }),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
		kong.Vars{
			"version":         "cmeow " + Version + " (" + GitCommit + ")",
			"cmake_default":   config.DefaultCMakeVersion,
			"std_default":     strconv.Itoa(config.DefaultStd),
			"stds":            config.Standards.Choices(),
			"version_default": config.DefaultVersion,
		},
	)
	if err != nil {
		out.Error("%v", err)
		return ExitFailure
	}

	// Help and --tool-version end the run from inside Parse.
	defer func() {
		if r := recover(); r != nil {
			req, ok := r.(exitRequest)
			if !ok {
				panic(r)
			}
			code = int(req)
		}
	}()

	if len(args) == 0 {
		args = []string{"--help"}
	}
	kctx, err := parser.Parse(args)
	if err != nil {
		return parseFailure(out, err, args)
	}

	if grammar.NoColor {
		console.DisableColors()
	}
	logger, err := logging.New(logging.Options{Level: grammar.LogLevel, Format: grammar.LogFormat}, env.Stderr)
	if err != nil {
		out.Error("%v", err)
		return ExitInvalidArgs
	}
	ctx = logging.WithLogger(ctx, logger)
	logger.Debug("starting", "command", kctx.Command(), "version", Version, "workdir", env.WorkDir)

	r := env.Runner
	if r == nil {
		ex := runner.NewExec(out)
		ex.Stdin = env.Stdin
		r = ex
	}
	prompt := env.Prompt
	if prompt == nil {
		lp := console.NewLinePrompter(out)
		lp.In, lp.Out = env.Stdin, env.Stdout
		lp.Interactive = lp.Interactive && env.Stdin == io.Reader(os.Stdin)
		prompt = lp
	}
	orch := orchestrator.New(r, prompt, out)
	orch.CMake = grammar.CMakeBin

	app := &App{
		Ctx:        ctx,
		Out:        out,
		Orch:       orch,
		Dispatcher: orchestrator.NewDispatcher(),
		WorkDir:    env.WorkDir,
	}
	return report(out, kctx.Run(app))
}

// parseFailure reports a grammar error. Nothing selected means the command
// word itself was wrong.
func parseFailure(out *console.Printer, err error, args []string) int {
	var perr *kong.ParseError
	if errors.As(err, &perr) && perr.Context != nil && perr.Context.Selected() == nil {
		word := firstCommandWord(args)
		if word == "" {
			out.Error("%v", err)
		} else {
			out.Error("unrecognized command `%s`", word)
		}
		if s := SuggestCommand(word); s != "" {
			out.Status("tip:", "a similar command exists: `%s`", s)
		}
		return ExitInvalidCommand
	}
	out.Error("%v", err)
	return ExitInvalidArgs
}
