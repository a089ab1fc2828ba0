package runner

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireShell(t *testing.T) string {
	t.Helper()
	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh not available")
	}
	return sh
}

func TestExec_Run(t *testing.T) {
	sh := requireShell(t)

	t.Run("success streams output and env", func(t *testing.T) {
		out := &bytes.Buffer{}
		r := &Exec{Stdout: out, Stderr: out}
		err := r.Run(context.Background(), &Command{
			Path: sh,
			Args: []string{"-c", "echo $PX_TEST_VALUE"},
			Env:  map[string]string{"PX_TEST_VALUE": "hello"},
		})
		require.NoError(t, err)
		assert.Equal(t, "hello\n", out.String())
	})

	t.Run("non-zero exit", func(t *testing.T) {
		r := &Exec{Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}}
		err := r.Run(context.Background(), &Command{Path: sh, Args: []string{"-c", "exit 3"}})
		var exitErr *ExitError
		require.True(t, errors.As(err, &exitErr))
		assert.Equal(t, 3, exitErr.Code)
		assert.EqualError(t, err, "exit status 3")
	})

	t.Run("spawn failure", func(t *testing.T) {
		r := &Exec{Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}}
		err := r.Run(context.Background(), &Command{Path: "/no/such/binary"})
		require.Error(t, err)
		var exitErr *ExitError
		assert.False(t, errors.As(err, &exitErr))
	})
}

func TestCommand_String(t *testing.T) {
	c := &Command{Path: "cargo", Args: []string{"build", "--package", "a"}}
	assert.Equal(t, "cargo build --package a", c.String())
	assert.Equal(t, "cargo", (&Command{Path: "cargo"}).String())
}
