// Package executor runs a codegen plan: for every unit it compiles the
// generator (or verifier) binary with cargo, then runs it against the target
// package. Units run one at a time, in plan order, and the first failure
// stops the run.
package executor

import (
	"context"
	"fmt"
	"maps"
	"time"

	"github.com/vk/cargopx/internal/ctxlog"
	"github.com/vk/cargopx/internal/runner"
	"github.com/vk/cargopx/internal/shell"
	"github.com/vk/cargopx/internal/unit"
	"github.com/vk/cargopx/pxenv"
)

// Options configure how binaries are built and invoked.
type Options struct {
	// CargoPath is the cargo executable used for every spawned command.
	CargoPath string
	// WorkspaceRoot is exported to binaries as CARGO_PX_WORKSPACE_ROOT_DIR.
	WorkspaceRoot string
	// Quiet forwards --quiet to the spawned cargo commands.
	Quiet bool
	// Env is added to the environment of every spawned command.
	Env map[string]string
}

// Executor drives the compile and run steps of a plan.
type Executor struct {
	runner runner.Runner
	shell  *shell.Shell
	opts   Options
}

// New creates an Executor.
func New(r runner.Runner, sh *shell.Shell, opts Options) *Executor {
	return &Executor{runner: r, shell: sh, opts: opts}
}

// Generate runs the generator of every unit in order.
func (e *Executor) Generate(ctx context.Context, plan []unit.CodegenUnit) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Starting code generation.", "unit_count", len(plan))
	for i := range plan {
		if err := e.process(ctx, &plan[i], plan[i].Generator, RoleGenerator); err != nil {
			return err
		}
	}
	logger.Debug("Code generation finished.")
	return nil
}

// Verify runs the verifier of every unit in order. A unit without a
// verifier fails the run with ErrMissingVerifier.
func (e *Executor) Verify(ctx context.Context, plan []unit.CodegenUnit) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Starting freshness verification.", "unit_count", len(plan))
	for i := range plan {
		u := &plan[i]
		if u.Verifier == nil {
			return &MissingVerifierError{Package: u.PackageName}
		}
		if err := e.process(ctx, u, *u.Verifier, RoleVerifier); err != nil {
			return err
		}
	}
	logger.Debug("Freshness verification finished.")
	return nil
}

func (e *Executor) process(ctx context.Context, u *unit.CodegenUnit, inv unit.Invocation, role Role) error {
	ctx, logger := ctxlog.With(ctx, "package", u.PackageName, "binary", inv.Binary.Name)

	start := time.Now()
	subject := fmt.Sprintf("`%s`, the %s for `%s`", inv.Binary.Name, role, u.PackageName)
	e.shell.Status("Compiling", subject)
	logger.Debug("Compiling binary.")
	if err := e.spawn(ctx, e.buildCommand(inv), StepCompile, role, inv, u); err != nil {
		return err
	}
	e.shell.Status("Compiled", fmt.Sprintf("%s, in %s", subject, elapsed(start)))

	start = time.Now()
	e.shell.Status(role.running(), fmt.Sprintf("`%s`", u.PackageName))
	logger.Debug("Running binary.", "args", inv.Args)
	if err := e.spawn(ctx, e.runCommand(inv, u), StepRun, role, inv, u); err != nil {
		return err
	}
	e.shell.Status(role.done(), fmt.Sprintf("`%s` in %s", u.PackageName, elapsed(start)))
	return nil
}

func (e *Executor) spawn(ctx context.Context, cmd *runner.Command, step Step, role Role, inv unit.Invocation, u *unit.CodegenUnit) error {
	err := e.runner.Run(ctx, cmd)
	if err == nil {
		return nil
	}
	ctxlog.FromContext(ctx).Debug("Process failed.", "command", cmd.String(), "error", err)
	return newProcessError(step, role, inv.Binary.Name, u.PackageName, err)
}

func (e *Executor) buildCommand(inv unit.Invocation) *runner.Command {
	args := []string{"build", "--package", inv.Binary.PackageName, "--bin", inv.Binary.Name}
	if e.opts.Quiet {
		args = append(args, "--quiet")
	}
	return &runner.Command{Path: e.opts.CargoPath, Args: args, Env: e.env(nil)}
}

func (e *Executor) runCommand(inv unit.Invocation, u *unit.CodegenUnit) *runner.Command {
	args := []string{"run", "--package", inv.Binary.PackageName, "--bin", inv.Binary.Name}
	if e.opts.Quiet {
		args = append(args, "--quiet")
	}
	if len(inv.Args) > 0 {
		args = append(args, "--")
		args = append(args, inv.Args...)
	}
	return &runner.Command{
		Path: e.opts.CargoPath,
		Args: args,
		Env:  e.env(map[string]string{pxenv.GeneratedPkgManifestPathEnv: u.ManifestPath}),
	}
}

func (e *Executor) env(extra map[string]string) map[string]string {
	env := maps.Clone(e.opts.Env)
	if env == nil {
		env = make(map[string]string)
	}
	env[pxenv.WorkspaceRootDirEnv] = e.opts.WorkspaceRoot
	maps.Copy(env, extra)
	return env
}

func elapsed(start time.Time) string {
	return fmt.Sprintf("%.3fs", time.Since(start).Seconds())
}
