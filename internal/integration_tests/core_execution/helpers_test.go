package integration_tests

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/cargopx/internal/app"
	"github.com/vk/cargopx/internal/runner"
	"github.com/vk/cargopx/internal/shell"
)

// newApp wires an App the way the binary does, with the real metadata
// provider and process runner pointed at a fake cargo. Status lines are
// captured in the returned buffer.
func newApp(t *testing.T, cfg app.Config) (*app.App, *bytes.Buffer) {
	t.Helper()

	conf, err := app.NewConfig(cfg)
	require.NoError(t, err)

	out := &bytes.Buffer{}
	sh := shell.New(out)
	require.NoError(t, sh.SetColor(shell.ColorNever))
	a := app.NewApp(io.Discard, conf,
		app.WithShell(sh),
		app.WithRunner(&runner.Exec{Stdout: io.Discard, Stderr: io.Discard}),
	)
	return a, out
}
