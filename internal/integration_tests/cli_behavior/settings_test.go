package integration_tests

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/cargopx/internal/app"
	"github.com/vk/cargopx/internal/cli"
	"github.com/vk/cargopx/internal/config"
	"github.com/vk/cargopx/internal/hcl_adapter"
	"github.com/vk/cargopx/internal/testutil"
)

const workspace = `
packages:
  - name: proto
    px: {generator: proto_gen}
  - name: proto_gen
    bins: [proto_gen]
`

// Test for: settings discovered above the working directory drive the run
func TestCLIBehavior_SettingsFileConfiguresRun(t *testing.T) {
	// --- Arrange ---
	root := t.TempDir()
	settingsHCL := `
extra_codegen_commands = ["nextest"]
env = {
  PX_FIXTURE = "${config_dir}/fixtures"
}
`
	require.NoError(t, os.WriteFile(filepath.Join(root, config.FileName), []byte(settingsHCL), 0o644))
	workingDir := filepath.Join(root, "proto")
	require.NoError(t, os.MkdirAll(workingDir, 0o755))

	spec := testutil.DecodeWorkspaceSpec(t, workspace)
	spec.Root = root
	cargo := testutil.NewFakeCargo(t, spec.CargoMetadata(t), "")
	ctx, _ := testutil.LoggedContext(t)

	// --- Act ---
	settings, err := app.LoadSettings(ctx, hcl_adapter.NewLoader(), workingDir)
	require.NoError(t, err)
	inv := cli.Parse([]string{"px", "nextest", "run"}, settings.ExtraCodegenCommands)
	require.Equal(t, cli.Codegen, inv.Mode, "extra codegen commands trigger code generation")

	a, _ := newApp(t, app.Config{
		CargoPath:  cargo.Path,
		WorkingDir: workingDir,
		Args:       inv.Args,
		Settings:   settings,
	})
	err = a.Codegen(ctx)

	// --- Assert ---
	require.NoError(t, err)
	calls := cargo.Calls(t)
	require.Len(t, calls, 2)
	for _, call := range calls {
		assert.Equal(t, filepath.Join(root, "fixtures"), call.Fixture)
	}
}

// Test for: a settings file that does not parse aborts before anything runs
func TestCLIBehavior_InvalidSettingsFile_IsRejected(t *testing.T) {
	// --- Arrange ---
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, config.FileName), []byte(`log_level = "debug`), 0o644))
	ctx, _ := testutil.LoggedContext(t)

	// --- Act ---
	_, err := app.LoadSettings(ctx, hcl_adapter.NewLoader(), root)

	// --- Assert ---
	require.Error(t, err)
	assert.ErrorContains(t, err, "failed to parse settings file")
}

// Test for: the verify verb selects verification without a settings file
func TestCLIBehavior_VerifyVerbWithDefaults(t *testing.T) {
	// --- Arrange ---
	root := t.TempDir()
	spec := testutil.DecodeWorkspaceSpec(t, `
packages:
  - name: proto
    px: {generator: proto_gen, verifier: proto_check}
  - name: proto_gen
    bins: [proto_gen, proto_check]
`)
	spec.Root = root
	cargo := testutil.NewFakeCargo(t, spec.CargoMetadata(t), "")
	ctx, _ := testutil.LoggedContext(t)

	// --- Act ---
	settings, err := app.LoadSettings(ctx, hcl_adapter.NewLoader(), root)
	require.NoError(t, err)
	inv := cli.Parse([]string{"px", cli.VerifyCommand, "-q"}, settings.ExtraCodegenCommands)

	a, out := newApp(t, app.Config{
		CargoPath:  cargo.Path,
		WorkingDir: root,
		Args:       inv.Args,
		Quiet:      inv.Quiet,
		Settings:   settings,
	})
	err = a.Verify(ctx)

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, cli.Verify, inv.Mode)
	assert.Empty(t, settings.Path, "no settings file was found")
	assert.Empty(t, out.String())
	assert.Equal(t, []string{
		"build --package proto_gen --bin proto_check --quiet",
		"run --package proto_gen --bin proto_check --quiet",
	}, cargo.Args(t))
}
