package testutil

import (
	"context"
	"strings"

	"github.com/vk/cargopx/internal/runner"
)

// FakeRunner records every command instead of spawning it. FailOn decides
// which command fails: the first registered substring contained in the
// rendered command line selects the returned error.
type FakeRunner struct {
	Commands []*runner.Command
	FailOn   map[string]error
}

// Run implements runner.Runner.
func (r *FakeRunner) Run(ctx context.Context, cmd *runner.Command) error {
	r.Commands = append(r.Commands, cmd)
	line := cmd.String()
	for needle, err := range r.FailOn {
		if strings.Contains(line, needle) {
			return err
		}
	}
	return nil
}

// Lines renders every recorded command line, in order.
func (r *FakeRunner) Lines() []string {
	out := make([]string, len(r.Commands))
	for i, c := range r.Commands {
		out[i] = c.String()
	}
	return out
}
