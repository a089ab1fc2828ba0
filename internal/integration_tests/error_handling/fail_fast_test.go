package integration_tests

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/cargopx/internal/app"
	"github.com/vk/cargopx/internal/dag"
	"github.com/vk/cargopx/internal/executor"
	"github.com/vk/cargopx/internal/runner"
	"github.com/vk/cargopx/internal/testutil"
)

const chain = `
packages:
  - name: app
    px: {generator: app_gen}
  - name: app_gen
    bins: [app_gen]
    deps: [models]
  - name: models
    px: {generator: models_gen}
  - name: models_gen
    bins: [models_gen]
`

// Test for: a generator that fails to compile stops the run
func TestErrorHandling_FailingCompile_TriggersFailFast(t *testing.T) {
	// --- Arrange ---
	root := t.TempDir()
	spec := testutil.DecodeWorkspaceSpec(t, chain)
	spec.Root = root
	cargo := testutil.NewFakeCargo(t, spec.CargoMetadata(t), "build --package models_gen")

	a, out := newApp(t, app.Config{CargoPath: cargo.Path, WorkingDir: root})
	ctx, _ := testutil.LoggedContext(t)

	// --- Act ---
	err := a.Codegen(ctx)

	// --- Assert ---
	require.Error(t, err)
	assert.EqualError(t, err, "Failed to compile `models_gen`, the code generator for `models`")
	assert.ErrorIs(t, err, executor.ErrProcessFailure)

	var procErr *executor.ProcessError
	require.True(t, errors.As(err, &procErr))
	assert.Equal(t, executor.StepCompile, procErr.Step)
	assert.Equal(t, 7, procErr.ExitCode)

	assert.Equal(t, []string{"build --package models_gen --bin models_gen"}, cargo.Args(t),
		"nothing runs after the first failure")
	assert.NotContains(t, out.String(), "Generating `app`")
}

// Test for: a generator exiting with an error stops the run
func TestErrorHandling_FailingGenerator_TriggersFailFast(t *testing.T) {
	// --- Arrange ---
	root := t.TempDir()
	spec := testutil.DecodeWorkspaceSpec(t, chain)
	spec.Root = root
	cargo := testutil.NewFakeCargo(t, spec.CargoMetadata(t), "run --package models_gen")

	a, _ := newApp(t, app.Config{CargoPath: cargo.Path, WorkingDir: root})
	ctx, _ := testutil.LoggedContext(t)

	// --- Act ---
	err := a.Codegen(ctx)

	// --- Assert ---
	require.Error(t, err)
	assert.EqualError(t, err, "Failed to run `models_gen`, the code generator for package `models`")
	var procErr *executor.ProcessError
	require.True(t, errors.As(err, &procErr))
	assert.Equal(t, executor.StepRun, procErr.Step)
	assert.Equal(t, []string{
		"build --package models_gen --bin models_gen",
		"run --package models_gen --bin models_gen",
	}, cargo.Args(t))
}

// Test for: a failure in the middle of the plan skips every later unit
func TestErrorHandling_FailingMiddleUnit_SkipsTheRest(t *testing.T) {
	// --- Arrange ---
	root := t.TempDir()
	spec := testutil.DecodeWorkspaceSpec(t, `
packages:
  - name: a
    px: {generator: a_gen}
  - name: b
    px: {generator: b_gen}
  - name: c
    px: {generator: c_gen}
  - name: a_tools
    bins: [a_gen]
  - name: b_tools
    bins: [b_gen]
    deps: [a]
  - name: c_tools
    bins: [c_gen]
    deps: [b]
`)
	spec.Root = root
	cargo := testutil.NewFakeCargo(t, spec.CargoMetadata(t), "run --package b_tools")

	a, out := newApp(t, app.Config{CargoPath: cargo.Path, WorkingDir: root})
	ctx, _ := testutil.LoggedContext(t)

	// --- Act ---
	err := a.Codegen(ctx)

	// --- Assert ---
	require.Error(t, err)
	assert.EqualError(t, err, "Failed to run `b_gen`, the code generator for package `b`")
	assert.Equal(t, []string{
		"build --package a_tools --bin a_gen",
		"run --package a_tools --bin a_gen",
		"build --package b_tools --bin b_gen",
		"run --package b_tools --bin b_gen",
	}, cargo.Args(t), "c is never compiled once b has failed")
	assert.Contains(t, out.String(), "Generated `a` in ")
	assert.NotContains(t, out.String(), "`c_gen`")
}

// Test for: a cargo executable that cannot be started
func TestErrorHandling_MissingCargo_FailsBeforeRunning(t *testing.T) {
	// --- Arrange ---
	root := t.TempDir()
	a, _ := newApp(t, app.Config{CargoPath: root + "/no-such-cargo", WorkingDir: root})
	ctx, _ := testutil.LoggedContext(t)

	// --- Act ---
	err := a.Codegen(ctx)

	// --- Assert ---
	require.Error(t, err)
	assert.ErrorContains(t, err, "failed to execute `cargo metadata`")
	var exitErr *runner.ExitError
	assert.False(t, errors.As(err, &exitErr))
}

// Test for: unparseable `cargo metadata` output
func TestErrorHandling_BrokenMetadata_IsRejected(t *testing.T) {
	// --- Arrange ---
	root := t.TempDir()
	cargo := testutil.NewFakeCargo(t, []byte(`{"packages": [`), "")

	a, _ := newApp(t, app.Config{CargoPath: cargo.Path, WorkingDir: root})
	ctx, _ := testutil.LoggedContext(t)

	// --- Act ---
	err := a.Codegen(ctx)

	// --- Assert ---
	require.Error(t, err)
	assert.ErrorContains(t, err, "failed to build a package graph starting from the output of `cargo metadata`")
	assert.Empty(t, cargo.Calls(t))
}

// Test for: a generator depending on the package it generates
func TestErrorHandling_CyclicCodegen_IsRejected(t *testing.T) {
	// --- Arrange ---
	root := t.TempDir()
	spec := testutil.DecodeWorkspaceSpec(t, `
packages:
  - name: api
    px: {generator: api_gen}
  - name: api_tools
    bins: [api_gen]
    deps: [api]
`)
	spec.Root = root
	cargo := testutil.NewFakeCargo(t, spec.CargoMetadata(t), "")

	a, _ := newApp(t, app.Config{CargoPath: cargo.Path, WorkingDir: root})
	ctx, _ := testutil.LoggedContext(t)

	// --- Act ---
	err := a.Codegen(ctx)

	// --- Assert ---
	require.Error(t, err)
	assert.ErrorIs(t, err, dag.ErrCyclicDependency)
	assert.ErrorContains(t, err, "`api` is generated by `api_tools`")
	assert.ErrorContains(t, err, "`api_tools` depends on `api`")
	assert.Empty(t, cargo.Calls(t), "no generator runs when the plan is rejected")
}

// Test for: verifying a unit that has no verifier
func TestErrorHandling_MissingVerifier_StopsVerification(t *testing.T) {
	// --- Arrange ---
	root := t.TempDir()
	spec := testutil.DecodeWorkspaceSpec(t, chain)
	spec.Root = root
	cargo := testutil.NewFakeCargo(t, spec.CargoMetadata(t), "")

	a, _ := newApp(t, app.Config{CargoPath: cargo.Path, WorkingDir: root})
	ctx, _ := testutil.LoggedContext(t)

	// --- Act ---
	err := a.Verify(ctx)

	// --- Assert ---
	require.Error(t, err)
	assert.ErrorIs(t, err, executor.ErrMissingVerifier)
	assert.EqualError(t, err, "`models` doesn't define a verifier, therefore we can't verify if it's fresh")
	assert.Empty(t, cargo.Calls(t))
}
