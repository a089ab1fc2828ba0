package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// FakeCargo is a shell script standing in for the cargo executable. It
// answers `cargo metadata` with a canned document and records every other
// invocation, one line per call:
//
//	<args>|<workspace root>|<generated manifest>|<$PX_FIXTURE>
type FakeCargo struct {
	Path    string
	logPath string
}

// CargoCall is one recorded invocation of a FakeCargo.
type CargoCall struct {
	Args         string
	RootDir      string
	ManifestPath string
	Fixture      string
}

// NewFakeCargo writes the script into a temporary directory. Any call whose
// arguments contain failOn prints a message to stderr and exits with status
// 7; an empty failOn never fails.
func NewFakeCargo(t *testing.T, metadataJSON []byte, failOn string) *FakeCargo {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("the fake cargo executable is a POSIX shell script")
	}

	dir := t.TempDir()
	metaPath := filepath.Join(dir, "metadata.json")
	require.NoError(t, os.WriteFile(metaPath, metadataJSON, 0o600))

	c := &FakeCargo{Path: filepath.Join(dir, "cargo"), logPath: filepath.Join(dir, "calls.log")}

	var script strings.Builder
	script.WriteString("#!/bin/sh\n")
	fmt.Fprintf(&script, "if [ \"$1\" = metadata ]; then cat '%s'; exit 0; fi\n", metaPath)
	fmt.Fprintf(&script, "printf '%%s|%%s|%%s|%%s\\n' \"$*\" \"$CARGO_PX_WORKSPACE_ROOT_DIR\" \"$CARGO_PX_GENERATED_PKG_MANIFEST_PATH\" \"$PX_FIXTURE\" >> '%s'\n", c.logPath)
	if failOn != "" {
		fmt.Fprintf(&script, "case \"$*\" in *'%s'*) echo \"error: could not compile\" >&2; exit 7;; esac\n", failOn)
	}
	script.WriteString("exit 0\n")

	require.NoError(t, os.WriteFile(c.Path, []byte(script.String()), 0o755))
	return c
}

// Calls returns the recorded invocations, excluding `cargo metadata`.
func (c *FakeCargo) Calls(t *testing.T) []CargoCall {
	t.Helper()
	data, err := os.ReadFile(c.logPath)
	if os.IsNotExist(err) {
		return nil
	}
	require.NoError(t, err)

	var calls []CargoCall
	for _, line := range strings.Split(strings.TrimRight(string(data), "\n"), "\n") {
		fields := strings.Split(line, "|")
		require.Len(t, fields, 4, "malformed call log line %q", line)
		calls = append(calls, CargoCall{Args: fields[0], RootDir: fields[1], ManifestPath: fields[2], Fixture: fields[3]})
	}
	return calls
}

// Args returns the argument line of every recorded invocation.
func (c *FakeCargo) Args(t *testing.T) []string {
	t.Helper()
	calls := c.Calls(t)
	out := make([]string, len(calls))
	for i, call := range calls {
		out[i] = call.Args
	}
	return out
}
