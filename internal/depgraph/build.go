package depgraph

import "context"

// BuildFromRows constructs a Graph from a flat list of package names and
// a lookup function returning each name's direct dependencies, without
// depgraph importing internal/catalog (catalog is a lower layer; this
// keeps the dependency direction one-way). Only this package's tests
// call it; pkg/forge's InstallOrder builds its graph with New, AddNode
// and AddEdge directly.
func BuildFromRows(ctx context.Context, names []string, depsOf func(ctx context.Context, name string) ([]string, error)) (*Graph, error) {
	g := New()
	for _, name := range names {
		if err := g.AddNode(name); err != nil {
			return nil, err
		}
	}
	for _, name := range names {
		deps, err := depsOf(ctx, name)
		if err != nil {
			return nil, err
		}
		for _, dep := range deps {
			g.AddEdge(name, dep)
		}
	}
	return g, nil
}
