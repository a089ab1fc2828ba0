package cli

import (
	"slices"
	"strings"

	"github.com/vk/cargopx/internal/shell"
)

// Mode is what cargo px does before, or instead of, delegating to cargo.
type Mode int

const (
	// Passthrough forwards the invocation to cargo untouched.
	Passthrough Mode = iota
	// Codegen regenerates code, then forwards the invocation to cargo.
	Codegen
	// Verify checks generated code is fresh and does not delegate.
	Verify
)

// VerifyCommand is the px-specific verb running freshness verification.
const VerifyCommand = "verify-freshness"

// codegenCommands are the cargo verbs whose outcome may depend on generated
// code.
var codegenCommands = []string{"build", "b", "test", "t", "check", "c", "run", "r", "doc", "d", "bench", "publish"}

// Invocation is a parsed cargo px command line.
type Invocation struct {
	Mode Mode
	// Command is the cargo verb, empty when none was given.
	Command string
	// Forwarded is everything handed to cargo when delegating, verb included.
	Forwarded []string
	// Args are the arguments following the verb.
	Args  []string
	Quiet bool
	Color shell.ColorChoice
}

// Parse interprets the arguments of the px subcommand. A leading `px`, as
// passed by cargo, is skipped. extraCodegen lists verbs that trigger code
// generation on top of the built-in ones.
func Parse(args []string, extraCodegen []string) *Invocation {
	if len(args) > 0 && args[0] == "px" {
		args = args[1:]
	}

	inv := &Invocation{Forwarded: args, Color: shell.ColorAuto}
	if len(args) == 0 {
		return inv
	}
	inv.Command = args[0]
	inv.Args = args[1:]

	switch {
	case inv.Command == VerifyCommand:
		inv.Mode = Verify
	case slices.Contains(codegenCommands, inv.Command), slices.Contains(extraCodegen, inv.Command):
		inv.Mode = Codegen
	}

	for i := 0; i < len(inv.Args); i++ {
		arg := inv.Args[i]
		switch {
		case arg == "--":
			return inv
		case arg == "--quiet" || arg == "-q":
			inv.Quiet = true
		case arg == "--color" && i+1 < len(inv.Args):
			inv.Color = shell.ColorChoice(inv.Args[i+1])
			i++
		case strings.HasPrefix(arg, "--color="):
			inv.Color = shell.ColorChoice(strings.TrimPrefix(arg, "--color="))
		}
	}
	return inv
}
