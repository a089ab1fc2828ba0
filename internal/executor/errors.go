package executor

import (
	"errors"
	"fmt"

	"github.com/vk/cargopx/internal/runner"
)

var (
	// ErrProcessFailure is the kind of every ProcessError.
	ErrProcessFailure = errors.New("process failure")
	// ErrMissingVerifier is returned when verification reaches a unit that
	// does not declare a verifier.
	ErrMissingVerifier = errors.New("missing verifier")
)

// MissingVerifierError names the unit that has no verifier.
type MissingVerifierError struct {
	Package string
}

func (e *MissingVerifierError) Error() string {
	return fmt.Sprintf("`%s` doesn't define a verifier, therefore we can't verify if it's fresh", e.Package)
}

func (e *MissingVerifierError) Unwrap() error { return ErrMissingVerifier }

// Step is the phase of a unit that failed.
type Step string

const (
	StepCompile Step = "compile"
	StepRun     Step = "run"
)

// Role tells generators and verifiers apart.
type Role string

const (
	RoleGenerator Role = "code generator"
	RoleVerifier  Role = "verifier"
)

func (r Role) running() string {
	if r == RoleVerifier {
		return "Verifying"
	}
	return "Generating"
}

func (r Role) done() string {
	if r == RoleVerifier {
		return "Verified"
	}
	return "Generated"
}

// ProcessError reports a spawned cargo command that could not be started or
// exited unsuccessfully.
type ProcessError struct {
	Step    Step
	Role    Role
	Binary  string
	Package string
	// ExitCode is the status of a process that ran, -1 when it never started.
	ExitCode int
	// Err is the spawn failure, nil when the process ran and failed.
	Err error
}

func newProcessError(step Step, role Role, binary, pkg string, err error) *ProcessError {
	pe := &ProcessError{Step: step, Role: role, Binary: binary, Package: pkg, ExitCode: -1}
	var exitErr *runner.ExitError
	if errors.As(err, &exitErr) {
		pe.ExitCode = exitErr.Code
	} else {
		pe.Err = err
	}
	return pe
}

func (e *ProcessError) Error() string {
	var msg string
	switch {
	case e.Step == StepCompile:
		msg = fmt.Sprintf("Failed to compile `%s`, the %s for `%s`", e.Binary, e.Role, e.Package)
	case e.Role == RoleGenerator:
		msg = fmt.Sprintf("Failed to run `%s`, the code generator for package `%s`", e.Binary, e.Package)
	default:
		msg = fmt.Sprintf("Failed to run `%s`, the %s for `%s`", e.Binary, e.Role, e.Package)
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *ProcessError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrProcessFailure, e.Err}
	}
	return []error{ErrProcessFailure}
}
