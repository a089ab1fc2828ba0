// Package runner spawns external processes and waits for them to exit.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/vk/cargopx/internal/ctxlog"
)

// Command describes a single process invocation.
type Command struct {
	Path string
	Args []string
	// Env holds variables added on top of the orchestrator's own environment.
	Env map[string]string
}

// String renders the command line for logs and error messages.
func (c *Command) String() string {
	return strings.TrimSpace(c.Path + " " + strings.Join(c.Args, " "))
}

// Runner spawns a command and blocks until it exits. A nil error means the
// process exited with status zero.
type Runner interface {
	Run(ctx context.Context, cmd *Command) error
}

// ExitError reports a process that ran but exited with a non-zero status.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// Exec runs commands as child processes, streaming their output to Stdout
// and Stderr.
type Exec struct {
	Stdout io.Writer
	Stderr io.Writer
}

// NewExec returns a runner bound to the orchestrator's stdout and stderr.
func NewExec() *Exec {
	return &Exec{Stdout: os.Stdout, Stderr: os.Stderr}
}

// Run implements Runner.
func (r *Exec) Run(ctx context.Context, cmd *Command) error {
	logger := ctxlog.FromContext(ctx)

	c := exec.CommandContext(ctx, cmd.Path, cmd.Args...)
	c.Stdin = os.Stdin
	c.Stdout = r.Stdout
	c.Stderr = r.Stderr
	c.Env = os.Environ()
	for k, v := range cmd.Env {
		c.Env = append(c.Env, k+"="+v)
	}

	logger.Debug("Spawning process.", "command", cmd.String())
	err := c.Run()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &ExitError{Code: exitErr.ExitCode()}
	}
	return err
}
