// Package depgraph builds and orders the "depends-on" graph over package
// names: nodes are package names, edges say "this package depends on
// that one". GenOrder produces an installation order (dependencies
// before dependents) or reports a cycle.
package depgraph

import (
	"fmt"
	"io"

	"github.com/forgepm/forge/internal/domain"
)

// Graph is a directed graph of package names.
type Graph struct {
	index map[string]int
	names []string
	edges map[string][]string
}

// New returns an empty Graph.
func New() *Graph {
	return &Graph{
		index: make(map[string]int),
		edges: make(map[string][]string),
	}
}

// AddNode inserts name as a node. Inserting the same name twice is an
// error (spec.md §4.5 "duplicate insert is an error").
func (g *Graph) AddNode(name string) error {
	if _, exists := g.index[name]; exists {
		return domain.ErrDuplicatePackage{Name: name}
	}
	g.index[name] = len(g.names)
	g.names = append(g.names, name)
	return nil
}

// AddEdge records that from depends on to. to need not already be a
// node: a dependency on an unknown package is permitted in the graph
// (spec.md §4.5), and surfaces later as a missing-package error when the
// transaction engine tries to resolve it.
func (g *Graph) AddEdge(from, to string) {
	g.edges[from] = append(g.edges[from], to)
}

// HasNode reports whether name was added with AddNode.
func (g *Graph) HasNode(name string) bool {
	_, ok := g.index[name]
	return ok
}

// Dependencies returns the direct dependencies recorded for name.
func (g *Graph) Dependencies(name string) []string {
	deps := g.edges[name]
	out := make([]string, len(deps))
	copy(out, deps)
	return out
}

// Nodes returns every node name, in insertion order.
func (g *Graph) Nodes() []string {
	out := make([]string, len(g.names))
	copy(out, g.names)
	return out
}

const (
	white = 0
	gray  = 1
	black = 2
)

// GenOrder returns the nodes in dependency order: every node appears
// after all the nodes it depends on (a post-order DFS over the
// depends-on edges). If the graph contains a cycle, it returns
// domain.ErrCyclicDependency naming every package on the cycle, not
// just one participant.
func (g *Graph) GenOrder() ([]string, error) {
	state := make(map[string]int, len(g.names))
	parent := make(map[string]string, len(g.names))
	var order []string

	var visit func(node string) error
	visit = func(node string) error {
		state[node] = gray
		for _, dep := range g.edges[node] {
			switch state[dep] {
			case white:
				parent[dep] = node
				if err := visit(dep); err != nil {
					return err
				}
			case gray:
				return domain.ErrCyclicDependency{Cycle: reconstructCycle(node, dep, parent)}
			case black:
				// already ordered
			}
		}
		state[node] = black
		order = append(order, node)
		return nil
	}

	for _, node := range g.names {
		if state[node] == white {
			if err := visit(node); err != nil {
				return nil, err
			}
		}
	}
	return order, nil
}

// reconstructCycle walks parent pointers from current back to
// cycleStart and returns the cycle in forward (depends-on) order,
// repeating cycleStart at both ends.
func reconstructCycle(current, cycleStart string, parent map[string]string) []string {
	if current == cycleStart {
		return []string{cycleStart, cycleStart}
	}

	cycle := []string{cycleStart}
	node := current
	for node != cycleStart {
		cycle = append(cycle, node)
		next, ok := parent[node]
		if !ok {
			break
		}
		node = next
	}
	cycle = append(cycle, cycleStart)

	for i, j := 0, len(cycle)-1; i < j; i, j = i+1, j-1 {
		cycle[i], cycle[j] = cycle[j], cycle[i]
	}
	return cycle
}

// Dump writes a human-readable adjacency listing to w, one "name ->
// dep, dep" line per node in insertion order.
func (g *Graph) Dump(w io.Writer) {
	for _, node := range g.names {
		deps := g.edges[node]
		if len(deps) == 0 {
			fmt.Fprintf(w, "%s\n", node)
			continue
		}
		fmt.Fprintf(w, "%s -> %v\n", node, deps)
	}
}
