package dag

import (
	"github.com/vk/cargopx/internal/unit"
)

// Plan returns the codegen units in an order that respects their
// dependency relationships: running them in sequence, each unit is
// generated after every unit its generator depends on.
//
// The graph must be acyclic, which Build guarantees.
func (g *Graph) Plan() []unit.CodegenUnit {
	if g.Len() == 0 {
		return nil
	}

	var sources []int
	for i := range g.Len() {
		if len(g.in[i]) == 0 {
			sources = append(sources, i)
		}
	}
	if len(sources) == 0 {
		panic("dag: acyclic graph without source nodes")
	}

	type frame struct {
		node int
		next int
	}

	var plan []unit.CodegenUnit
	visited := make([]bool, g.Len())
	for _, source := range sources {
		if visited[source] {
			continue
		}
		visited[source] = true
		stack := []frame{{node: source}}

		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			if top.next < len(g.out[top.node]) {
				next := g.edges[g.out[top.node][top.next]].To
				top.next++
				if !visited[next] {
					visited[next] = true
					stack = append(stack, frame{node: next})
				}
				continue
			}

			// top.node is finished: every package it depends on, and every
			// unit generating those packages, is already accounted for.
			for _, ei := range g.in[top.node] {
				if e := g.edges[ei]; e.Kind == GeneratedBy {
					plan = append(plan, *e.Unit)
				}
			}
			stack = stack[:len(stack)-1]
		}
	}
	return plan
}
