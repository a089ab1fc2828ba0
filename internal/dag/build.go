package dag

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/vk/cargopx/internal/ctxlog"
	"github.com/vk/cargopx/internal/metadata"
	"github.com/vk/cargopx/internal/unit"
)

// Build constructs the augmented dependency graph for the given codegen
// units and rejects it if it contains cycles.
//
// The graph covers the workspace members plus every package that
// transitively depends on one of them through non-dev links: packages that
// cannot reach a workspace crate are irrelevant to code generation. Each
// unit then adds a GeneratedBy edge from its target package to the package
// defining its generator.
//
// When cycles are found the returned error joins one *CycleError per cycle.
func Build(ctx context.Context, ws *metadata.Workspace, units []unit.CodegenUnit) (*Graph, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Build: Starting graph construction.", "members", len(ws.Members), "units", len(units))
	g := New(ws)

	processed := make(map[metadata.PackageID]bool)
	toVisit := slices.Clone(ws.Members)
	for len(toVisit) > 0 {
		id := toVisit[len(toVisit)-1]
		toVisit = toVisit[:len(toVisit)-1]
		if processed[id] {
			continue
		}
		node := g.AddNode(id)

		// Reverse links only: we walk towards the packages that depend on
		// the current one.
		for _, dependent := range ws.Dependents(id) {
			if dependent.DevOnly {
				continue
			}
			from := g.AddNode(dependent.ID)
			g.SetEdge(from, node, DependsOn, nil)
			if !processed[dependent.ID] {
				toVisit = append(toVisit, dependent.ID)
			}
		}
		processed[id] = true
	}
	logger.Debug("Build: Reverse dependency closure complete.", "node_count", g.Len())

	owned := slices.Clone(units)
	for i := range owned {
		u := &owned[i]
		target := g.mustIndex(u.PackageID, "target", u)
		generator := g.mustIndex(u.Generator.Binary.PackageID, "generator", u)
		if u.Verifier != nil {
			g.mustIndex(u.Verifier.Binary.PackageID, "verifier", u)
		}
		g.SetEdge(target, generator, GeneratedBy, u)
	}
	logger.Debug("Build: Codegen edges added.", "edge_count", len(g.edges))

	cycles := FindCycles(g)
	if len(cycles) > 0 {
		errs := make([]error, 0, len(cycles))
		for _, c := range cycles {
			errs = append(errs, g.cycleError(c))
		}
		logger.Debug("Build: Cycle detection failed.", "cycles", len(cycles))
		return nil, errors.Join(errs...)
	}
	logger.Debug("Build: Cycle detection passed.")
	return g, nil
}

// mustIndex resolves a package referenced by a unit. Units are validated
// against the workspace at extraction time, so a miss is a programming error.
func (g *Graph) mustIndex(id metadata.PackageID, role string, u *unit.CodegenUnit) int {
	i, ok := g.index[id]
	if !ok {
		panic(fmt.Sprintf("dag: %s package %q of codegen unit %q is not part of the graph", role, id, u.PackageName))
	}
	return i
}
