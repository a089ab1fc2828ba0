package metadata

import (
	"encoding/json"
	"path/filepath"
	"slices"
)

// PackageID uniquely identifies a package within a workspace graph.
type PackageID string

// Target is a single build target of a package.
type Target struct {
	Name string
	Kind []string
}

// IsBinary reports whether the target produces an executable.
func (t Target) IsBinary() bool {
	return slices.Contains(t.Kind, "bin")
}

// Dependency is a direct link from one package to another.
type Dependency struct {
	ID      PackageID
	DevOnly bool
}

// Package is the metadata of a single package.
type Package struct {
	ID           PackageID
	Name         string
	ManifestPath string
	Targets      []Target
	Dependencies []Dependency
	// Metadata is the raw `package.metadata` table of the manifest, or nil.
	Metadata json.RawMessage
}

// Dir returns the directory containing the package manifest.
func (p *Package) Dir() string {
	return filepath.Dir(p.ManifestPath)
}

// HasBinary reports whether the package defines a binary target named name.
func (p *Package) HasBinary(name string) bool {
	for _, t := range p.Targets {
		if t.IsBinary() && t.Name == name {
			return true
		}
	}
	return false
}

// Workspace is the package graph of a workspace.
type Workspace struct {
	// Root is the workspace root directory.
	Root string
	// Members lists the workspace member ids in provider order.
	Members  []PackageID
	Packages map[PackageID]*Package

	dependents map[PackageID][]Dependency
}

// NewWorkspace indexes the given packages. Dependency links pointing at
// unknown packages are dropped.
func NewWorkspace(root string, members []PackageID, packages []*Package) *Workspace {
	ws := &Workspace{
		Root:       root,
		Members:    members,
		Packages:   make(map[PackageID]*Package, len(packages)),
		dependents: make(map[PackageID][]Dependency),
	}
	for _, p := range packages {
		ws.Packages[p.ID] = p
	}
	for _, p := range packages {
		for _, dep := range p.Dependencies {
			if _, ok := ws.Packages[dep.ID]; !ok {
				continue
			}
			ws.dependents[dep.ID] = append(ws.dependents[dep.ID], Dependency{ID: p.ID, DevOnly: dep.DevOnly})
		}
	}
	return ws
}

// Package looks up a package by id.
func (w *Workspace) Package(id PackageID) (*Package, bool) {
	p, ok := w.Packages[id]
	return p, ok
}

// MemberPackages returns the workspace members in provider order.
func (w *Workspace) MemberPackages() []*Package {
	out := make([]*Package, 0, len(w.Members))
	for _, id := range w.Members {
		if p, ok := w.Packages[id]; ok {
			out = append(out, p)
		}
	}
	return out
}

// MemberByName returns the workspace member with the given name.
func (w *Workspace) MemberByName(name string) (*Package, bool) {
	for _, p := range w.MemberPackages() {
		if p.Name == name {
			return p, true
		}
	}
	return nil, false
}

// Dependents returns the reverse links of id: every package with a direct
// dependency on it. Each returned Dependency.ID is the dependent package.
func (w *Workspace) Dependents(id PackageID) []Dependency {
	return w.dependents[id]
}

// NewDependsCache returns a cache for transitive dependency queries.
func (w *Workspace) NewDependsCache() *DependsCache {
	return &DependsCache{ws: w, closure: make(map[PackageID]map[PackageID]struct{})}
}

// DependsCache answers "does A depend on B" over the full graph, dev links
// included, memoising the dependency closure of every queried package.
type DependsCache struct {
	ws      *Workspace
	closure map[PackageID]map[PackageID]struct{}
}

// DependsOn reports whether from directly or transitively depends on to.
func (c *DependsCache) DependsOn(from, to PackageID) bool {
	set, ok := c.closure[from]
	if !ok {
		set = c.compute(from)
		c.closure[from] = set
	}
	_, found := set[to]
	return found
}

func (c *DependsCache) compute(from PackageID) map[PackageID]struct{} {
	seen := make(map[PackageID]struct{})
	stack := []PackageID{from}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		p, ok := c.ws.Packages[id]
		if !ok {
			continue
		}
		for _, dep := range p.Dependencies {
			if _, done := seen[dep.ID]; done {
				continue
			}
			seen[dep.ID] = struct{}{}
			stack = append(stack, dep.ID)
		}
	}
	return seen
}
