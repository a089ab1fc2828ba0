// Command cargo-px is a cargo subcommand that runs the code generators
// declared in a workspace before delegating to cargo.
//
// Usage:
//
//	cargo px <cargo command> [args...]
//	cargo px verify-freshness [args...]
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/vk/cargopx/internal/app"
	"github.com/vk/cargopx/internal/cli"
	"github.com/vk/cargopx/internal/hcl_adapter"
	"github.com/vk/cargopx/internal/runner"
	"github.com/vk/cargopx/internal/shell"
)

// main is the entrypoint for the cargo-px application.
func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Getenv, os.Stderr, runner.NewExec()))
}

// run encapsulates the main application logic for easier testing. It returns
// the process exit code.
func run(ctx context.Context, args []string, getenv func(string) string, stderr io.Writer, r runner.Runner) int {
	sh := shell.New(stderr)

	if err := execute(ctx, args, getenv, stderr, sh, r); err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			if exitErr.Message != "" {
				sh.Error(exitErr.Message)
			}
			return exitErr.Code
		}
		cli.Report(sh, err)
		return 1
	}
	return 0
}

func execute(ctx context.Context, args []string, getenv func(string) string, stderr io.Writer, sh *shell.Shell, r runner.Runner) error {
	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to determine the current working directory: %w", err)
	}

	settings, err := app.LoadSettings(ctx, hcl_adapter.NewLoader(), wd)
	if err != nil {
		return err
	}

	inv := cli.Parse(args, settings.ExtraCodegenCommands)
	if err := sh.SetColor(inv.Color); err != nil {
		return err
	}

	cfg, err := app.NewConfig(app.Config{
		CargoPath:  getenv("CARGO"),
		WorkingDir: wd,
		Args:       inv.Args,
		Quiet:      inv.Quiet,
		LogLevel:   getenv(app.LogEnv),
		Settings:   settings,
	})
	if err != nil {
		return err
	}
	px := app.NewApp(stderr, cfg, app.WithRunner(r), app.WithShell(sh))

	switch inv.Mode {
	case cli.Verify:
		if err := px.Verify(ctx); err != nil {
			cli.Report(sh, err)
			return &cli.ExitError{Code: 1, Message: cli.VerifyFailed}
		}
		return nil
	case cli.Codegen:
		if err := px.Codegen(ctx); err != nil {
			cli.Report(sh, err)
			return &cli.ExitError{Code: 1, Message: cli.CodegenFailed}
		}
	}

	return delegate(ctx, r, cfg.CargoPath, inv.Forwarded)
}

// delegate hands the invocation over to cargo and propagates its exit code.
func delegate(ctx context.Context, r runner.Runner, cargoPath string, args []string) error {
	err := r.Run(ctx, &runner.Command{Path: cargoPath, Args: args})
	if err == nil {
		return nil
	}
	var exitErr *runner.ExitError
	if errors.As(err, &exitErr) {
		// Killed by a signal.
		if exitErr.Code < 0 {
			return &cli.ExitError{Code: 1}
		}
		return &cli.ExitError{Code: exitErr.Code}
	}
	return fmt.Errorf("Failed to execute `cargo` command: %w", err)
}
