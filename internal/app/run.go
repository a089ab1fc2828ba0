package app

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/vk/cargopx/internal/ctxlog"
	"github.com/vk/cargopx/internal/dag"
	"github.com/vk/cargopx/internal/executor"
	"github.com/vk/cargopx/internal/metadata"
	"github.com/vk/cargopx/internal/targets"
	"github.com/vk/cargopx/internal/unit"
)

// Codegen regenerates every codegen unit relevant to the invocation, in
// dependency order.
func (a *App) Codegen(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Codegen method started.")

	ex, plan, err := a.prepare(ctx)
	if err != nil {
		return err
	}
	if err := ex.Generate(ctx, plan); err != nil {
		return err
	}
	a.logger.Debug("App.Codegen method finished.")
	return nil
}

// Verify checks that every codegen unit relevant to the invocation is fresh,
// using each unit's verifier.
func (a *App) Verify(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Verify method started.")

	ex, plan, err := a.prepare(ctx)
	if err != nil {
		return err
	}
	if err := ex.Verify(ctx, plan); err != nil {
		return err
	}
	a.logger.Debug("App.Verify method finished.")
	return nil
}

// prepare computes the filtered plan and an executor bound to the
// canonical workspace root.
func (a *App) prepare(ctx context.Context) (*executor.Executor, []unit.CodegenUnit, error) {
	ws, err := a.packageGraph(ctx)
	if err != nil {
		return nil, nil, err
	}

	plan, err := a.plan(ctx, ws)
	if err != nil {
		return nil, nil, err
	}

	root, err := filepath.EvalSymlinks(ws.Root)
	if err != nil {
		return nil, nil, fmt.Errorf("Failed to get the canonical path to the root directory of this workspace: %w", err)
	}
	if root, err = filepath.Abs(root); err != nil {
		return nil, nil, fmt.Errorf("Failed to get the canonical path to the root directory of this workspace: %w", err)
	}

	ex := executor.New(a.runner, a.shell, executor.Options{
		CargoPath:     a.config.CargoPath,
		WorkspaceRoot: root,
		Quiet:         a.config.Quiet,
		Env:           a.config.Settings.Env,
	})
	return ex, plan, nil
}

func (a *App) packageGraph(ctx context.Context) (*metadata.Workspace, error) {
	start := time.Now()
	a.shell.Status("Computing", "package graph")
	ws, err := a.provider.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	a.shell.Status("Computed", fmt.Sprintf("package graph in %.3fs", time.Since(start).Seconds()))
	return ws, nil
}

// plan extracts the codegen units, orders them and keeps the ones the
// invocation targets.
func (a *App) plan(ctx context.Context, ws *metadata.Workspace) ([]unit.CodegenUnit, error) {
	logger := ctxlog.FromContext(ctx)

	units, err := unit.Extract(ctx, ws)
	if err != nil {
		return nil, err
	}
	logger.Debug("Determined the codegen units of the workspace.", "unit_count", len(units))

	graph, err := dag.Build(ctx, ws, units)
	if err != nil {
		return nil, err
	}
	plan := graph.Plan()

	scope := targets.Determine(ctx, a.config.Args, a.config.WorkingDir, ws)
	logger.Debug("Determined the target packages for this invocation.", "targets", scope)

	plan = targets.Filter(plan, scope, ws)
	logger.Debug("Retaining the codegen units relevant to the targets.", "unit_count", len(plan), "units", unitNames(plan))
	return plan, nil
}

func unitNames(plan []unit.CodegenUnit) []string {
	names := make([]string, len(plan))
	for i, u := range plan {
		names[i] = u.PackageName
	}
	return names
}
