package dag

import (
	"errors"
	"fmt"
	"strings"
)

// ErrCyclicDependency is the kind shared by every CycleError.
var ErrCyclicDependency = errors.New("cyclic dependency")

// CycleLink is one hop around a cycle.
type CycleLink struct {
	Dependent  string
	Kind       EdgeKind
	Dependency string
}

// CycleError reports a single cycle, as the chain of relationships that
// closes the loop.
type CycleError struct {
	Links []CycleLink
}

func (e *CycleError) Error() string {
	var sb strings.Builder
	sb.WriteString("There is a cyclic dependency in your workspace: this is not allowed!\n")
	sb.WriteString("The cycle looks like this:")
	for _, l := range e.Links {
		fmt.Fprintf(&sb, "\n- `%s` %s `%s`", l.Dependent, l.Kind, l.Dependency)
	}
	return sb.String()
}

func (e *CycleError) Unwrap() error { return ErrCyclicDependency }

// FindCycles returns the cycles reachable by a depth-first traversal started
// from every unvisited node, as slices of node indices in traversal order.
//
// Every strongly connected component containing a cycle yields at least one
// entry, but overlapping cycles in the same component are not all
// enumerated.
func FindCycles(g *Graph) [][]int {
	type frame struct {
		node int
		next int
	}

	visited := make([]bool, g.Len())
	// pathPos holds 1 + the position of a node in path while it is on the
	// current traversal path, 0 otherwise.
	pathPos := make([]int, g.Len())
	var cycles [][]int

	for start := range g.Len() {
		if visited[start] {
			continue
		}
		visited[start] = true
		path := []int{start}
		pathPos[start] = 1
		stack := []frame{{node: start}}

		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			if top.next < len(g.out[top.node]) {
				next := g.edges[g.out[top.node][top.next]].To
				top.next++
				if !visited[next] {
					visited[next] = true
					path = append(path, next)
					pathPos[next] = len(path)
					stack = append(stack, frame{node: next})
				} else if pos := pathPos[next]; pos > 0 {
					cycles = append(cycles, append([]int(nil), path[pos-1:]...))
				}
				continue
			}
			pathPos[top.node] = 0
			path = path[:len(path)-1]
			stack = stack[:len(stack)-1]
		}
	}
	return cycles
}

// cycleError renders a cycle found by FindCycles. The first link is the one
// closing the loop, from the last node back to the first.
func (g *Graph) cycleError(cycle []int) *CycleError {
	links := make([]CycleLink, 0, len(cycle))
	for i, node := range cycle {
		dependent := cycle[len(cycle)-1]
		if i > 0 {
			dependent = cycle[i-1]
		}
		e, ok := g.Edge(dependent, node)
		if !ok {
			panic(fmt.Sprintf("dag: cycle hop %s -> %s has no edge", g.Name(dependent), g.Name(node)))
		}
		links = append(links, CycleLink{
			Dependent:  g.Name(dependent),
			Kind:       e.Kind,
			Dependency: g.Name(node),
		})
	}
	return &CycleError{Links: links}
}
