// Package metadata models the workspace package graph that the code-generation
// pipeline reads from. It is a read-only view: packages, their build targets,
// and their direct dependency links, keyed by an opaque PackageID.
//
// The graph is produced by a Provider. CargoProvider shells out to
// `cargo metadata`, while tests use in-memory workspaces built with
// NewWorkspace.
package metadata
