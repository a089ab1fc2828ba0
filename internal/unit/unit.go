// Package unit defines codegen units, the packages whose source is produced
// by running a binary from elsewhere in the workspace, and extracts them from
// package manifests.
package unit

import "github.com/vk/cargopx/internal/metadata"

// BinaryRef names a binary target and the workspace package defining it.
type BinaryRef struct {
	Name        string
	PackageID   metadata.PackageID
	PackageName string
}

// Invocation is a binary together with the extra arguments forwarded to it.
type Invocation struct {
	Binary BinaryRef
	Args   []string
}

// CodegenUnit is a package whose source must be regenerated by Generator, and
// optionally checked for freshness by Verifier.
type CodegenUnit struct {
	PackageID    metadata.PackageID
	PackageName  string
	ManifestPath string
	Generator    Invocation
	Verifier     *Invocation
}
