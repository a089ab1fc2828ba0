package dag

import (
	"github.com/vk/cargopx/internal/metadata"
	"github.com/vk/cargopx/internal/unit"
)

// EdgeKind distinguishes plain dependency links from generation links.
type EdgeKind int

const (
	// DependsOn means From has a non-dev dependency on To.
	DependsOn EdgeKind = iota
	// GeneratedBy means From is the target package of Unit, whose generator
	// lives in To.
	GeneratedBy
)

func (k EdgeKind) String() string {
	switch k {
	case DependsOn:
		return "depends on"
	case GeneratedBy:
		return "is generated by"
	default:
		return "unknown"
	}
}

// Edge is a directed link between two node indices.
type Edge struct {
	From int
	To   int
	Kind EdgeKind
	// Unit is set for GeneratedBy edges only.
	Unit *unit.CodegenUnit
}

// Graph is the dependency graph augmented with codegen relationships. Nodes
// and edges live in slices and are addressed by index; index maps stable
// package ids to node indices. A Graph is not safe for concurrent mutation.
type Graph struct {
	ws *metadata.Workspace

	// ids holds the package id of every node, by node index.
	ids   []metadata.PackageID
	index map[metadata.PackageID]int

	edges []Edge
	// out and in hold edge indices, by node index, in insertion order.
	out [][]int
	in  [][]int
	// pairs maps a (from, to) pair to its edge index. There is at most one
	// edge per ordered pair.
	pairs map[[2]int]int
}
