package graph

import (
	"errors"
	"fmt"
	"io"
	"sort"

	dgraph "github.com/dominikbraun/graph"
	"github.com/dominikbraun/graph/draw"
)

// ToGraph converts g into a directed graph keyed by function name. Every
// visited name is a vertex; stubs are drawn dashed. An edge is added for each
// call whose target was visited.
func ToGraph(g *DependencyGraph) (dgraph.Graph[string, string], error) {
	out := dgraph.New(dgraph.StringHash, dgraph.Directed())

	for _, node := range g.Nodes() {
		attrs := []func(*dgraph.VertexProperties){
			dgraph.VertexAttribute("shape", "box"),
		}
		switch {
		case node.Stub:
			attrs = append(attrs, dgraph.VertexAttribute("style", "dashed"))
		case node.Name == g.Root():
			attrs = append(attrs, dgraph.VertexAttribute("style", "bold"))
		}
		if node.Location != "" {
			attrs = append(attrs, dgraph.VertexAttribute("tooltip", node.Location))
		}
		if err := out.AddVertex(node.Name, attrs...); err != nil {
			return nil, fmt.Errorf("failed to add vertex %s: %w", node.Name, err)
		}
	}

	for _, node := range g.Nodes() {
		for _, call := range node.Calls {
			if !g.Has(call) {
				continue
			}
			err := out.AddEdge(node.Name, call)
			if err != nil && !errors.Is(err, dgraph.ErrEdgeAlreadyExists) {
				return nil, fmt.Errorf("failed to add edge %s -> %s: %w", node.Name, call, err)
			}
		}
	}

	return out, nil
}

// WriteDOT renders g in Graphviz DOT format.
func WriteDOT(w io.Writer, g *DependencyGraph) error {
	dg, err := ToGraph(g)
	if err != nil {
		return err
	}
	if err := draw.DOT(dg, w, draw.GraphAttribute("rankdir", "BT")); err != nil {
		return fmt.Errorf("failed to render DOT: %w", err)
	}
	return nil
}

// Cycles returns the groups of resolved functions that call each other,
// directly or transitively, including functions that call themselves.
// Members of each group are sorted and groups are sorted by first member.
func Cycles(g *DependencyGraph) ([][]string, error) {
	dg, err := ToGraph(g)
	if err != nil {
		return nil, err
	}
	components, err := dgraph.StronglyConnectedComponents(dg)
	if err != nil {
		return nil, fmt.Errorf("failed to compute components: %w", err)
	}

	var cycles [][]string
	for _, comp := range components {
		if len(comp) == 1 && !callsItself(g, comp[0]) {
			continue
		}
		members := append([]string(nil), comp...)
		sort.Strings(members)
		cycles = append(cycles, members)
	}
	sort.Slice(cycles, func(i, j int) bool {
		return cycles[i][0] < cycles[j][0]
	})
	return cycles, nil
}

func callsItself(g *DependencyGraph, name string) bool {
	n, ok := g.Node(name)
	if !ok {
		return false
	}
	for _, call := range n.Calls {
		if call == name {
			return true
		}
	}
	return false
}
