package dag

import (
	"github.com/vk/cargopx/internal/metadata"
	"github.com/vk/cargopx/internal/unit"
)

// New creates and returns an initialized, empty Graph. ws is used to render
// package names and may be nil.
func New(ws *metadata.Workspace) *Graph {
	return &Graph{
		ws:    ws,
		index: make(map[metadata.PackageID]int),
		pairs: make(map[[2]int]int),
	}
}

// AddNode returns the node index of id, creating the node when it does not
// exist yet.
func (g *Graph) AddNode(id metadata.PackageID) int {
	if i, ok := g.index[id]; ok {
		return i
	}
	i := len(g.ids)
	g.ids = append(g.ids, id)
	g.index[id] = i
	g.out = append(g.out, nil)
	g.in = append(g.in, nil)
	return i
}

// SetEdge inserts an edge from -> to. If the pair is already linked the
// existing edge is updated in place with the new kind and unit.
func (g *Graph) SetEdge(from, to int, kind EdgeKind, u *unit.CodegenUnit) {
	key := [2]int{from, to}
	if ei, ok := g.pairs[key]; ok {
		g.edges[ei].Kind = kind
		g.edges[ei].Unit = u
		return
	}
	ei := len(g.edges)
	g.edges = append(g.edges, Edge{From: from, To: to, Kind: kind, Unit: u})
	g.pairs[key] = ei
	g.out[from] = append(g.out[from], ei)
	g.in[to] = append(g.in[to], ei)
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.ids)
}

// Index returns the node index of a package id.
func (g *Graph) Index(id metadata.PackageID) (int, bool) {
	i, ok := g.index[id]
	return i, ok
}

// ID returns the package id of node i.
func (g *Graph) ID(i int) metadata.PackageID {
	return g.ids[i]
}

// Name returns the display name of node i: the package name when known,
// the raw id otherwise.
func (g *Graph) Name(i int) string {
	if g.ws != nil {
		if p, ok := g.ws.Package(g.ids[i]); ok {
			return p.Name
		}
	}
	return string(g.ids[i])
}

// Edge returns the edge linking from -> to, if any.
func (g *Graph) Edge(from, to int) (Edge, bool) {
	ei, ok := g.pairs[[2]int{from, to}]
	if !ok {
		return Edge{}, false
	}
	return g.edges[ei], true
}

// Outgoing returns the edges leaving node i.
func (g *Graph) Outgoing(i int) []Edge {
	return g.collect(g.out[i])
}

// Incoming returns the edges entering node i.
func (g *Graph) Incoming(i int) []Edge {
	return g.collect(g.in[i])
}

func (g *Graph) collect(idx []int) []Edge {
	out := make([]Edge, len(idx))
	for k, ei := range idx {
		out[k] = g.edges[ei]
	}
	return out
}
