package cli

import (
	"errors"
	"reflect"
	"strings"

	"github.com/vk/cargopx/internal/shell"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Printed after the errors of a failed pipeline.
const (
	CodegenFailed = "Something went wrong during code generation"
	VerifyFailed  = "Something went wrong while verifying the freshness of the generated code"
)

// Report prints err through the shell. Joined errors are printed one by one,
// each followed by its chain of causes.
func Report(sh *shell.Shell, err error) {
	for _, e := range Flatten(err) {
		chain := Chain(e)
		sh.Error(chain[0])
		sh.Causes(chain[1:])
	}
}

// Chain splits err into its own message followed by the messages of its
// causes, outermost first. A cause is split off only when the message ends
// with ": " and the cause's message, which is what fmt.Errorf("...: %w")
// produces; sentinel kinds that are not part of the text stay hidden.
func Chain(err error) []string {
	var out []string
	for err != nil {
		msg := err.Error()
		cause := causeOf(err, msg)
		if cause == nil {
			out = append(out, msg)
			break
		}
		out = append(out, strings.TrimSuffix(msg, ": "+cause.Error()))
		err = cause
	}
	return out
}

func causeOf(err error, msg string) error {
	var candidates []error
	switch u := err.(type) {
	case interface{ Unwrap() error }:
		candidates = []error{u.Unwrap()}
	case interface{ Unwrap() []error }:
		candidates = u.Unwrap()
	}
	for i := len(candidates) - 1; i >= 0; i-- {
		c := candidates[i]
		if c == nil {
			continue
		}
		suffix := ": " + c.Error()
		if len(msg) > len(suffix) && strings.HasSuffix(msg, suffix) {
			return c
		}
	}
	return nil
}

// joinType is the dynamic type of errors.Join results. Other multi-errors,
// such as the ones pairing a kind with its cause, are printed whole.
var joinType = reflect.TypeOf(errors.Join(errors.New("")))

// Flatten expands errors created with errors.Join, recursively, into their
// components. Other errors are returned as is.
func Flatten(err error) []error {
	if err == nil {
		return nil
	}
	joined, ok := err.(interface{ Unwrap() []error })
	if !ok || reflect.TypeOf(err) != joinType {
		return []error{err}
	}
	var out []error
	for _, e := range joined.Unwrap() {
		out = append(out, Flatten(e)...)
	}
	return out
}
