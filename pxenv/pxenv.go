// Package pxenv gives code generators and verifiers typed access to the
// environment variables cargo px sets when it invokes them.
//
//	root, err := pxenv.WorkspaceRootDir()
//	if err != nil {
//		log.Fatal(err)
//	}
package pxenv

import (
	"errors"
	"fmt"
	"os"
	"unicode/utf8"
)

const (
	// WorkspaceRootDirEnv holds the path to the root directory of the
	// current workspace.
	WorkspaceRootDirEnv = "CARGO_PX_WORKSPACE_ROOT_DIR"
	// GeneratedPkgManifestPathEnv holds the path to the manifest of the
	// package that must be generated.
	GeneratedPkgManifestPathEnv = "CARGO_PX_GENERATED_PKG_MANIFEST_PATH"
)

var (
	// ErrMissing is the kind of a VarError for an unset variable.
	ErrMissing = errors.New("environment variable not set")
	// ErrInvalidUnicode is the kind of a VarError for a variable holding
	// invalid UTF-8.
	ErrInvalidUnicode = errors.New("environment variable is not valid unicode")
)

// VarError reports a cargo px variable that cannot be used.
type VarError struct {
	Name string
	// Kind is ErrMissing or ErrInvalidUnicode.
	Kind error
}

func (e *VarError) Error() string {
	if errors.Is(e.Kind, ErrInvalidUnicode) {
		return fmt.Sprintf("The environment variable `%s` contains invalid Unicode data.", e.Name)
	}
	return fmt.Sprintf("The environment variable `%s` is missing. Are you running the command through `cargo px`?", e.Name)
}

func (e *VarError) Unwrap() error { return e.Kind }

// WorkspaceRootDir returns the path to the workspace root directory.
func WorkspaceRootDir() (string, error) {
	return lookup(WorkspaceRootDirEnv)
}

// GeneratedPkgManifestPath returns the path to the manifest of the package
// being generated.
func GeneratedPkgManifestPath() (string, error) {
	return lookup(GeneratedPkgManifestPathEnv)
}

func lookup(name string) (string, error) {
	v, ok := os.LookupEnv(name)
	if !ok {
		return "", &VarError{Name: name, Kind: ErrMissing}
	}
	if !utf8.ValidString(v) {
		return "", &VarError{Name: name, Kind: ErrInvalidUnicode}
	}
	return v, nil
}
