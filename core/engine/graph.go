package engine

// ParentEdge declares one parent kind of a child kind in the taxonomy.
type ParentEdge struct {
	Kind     EntityKind
	Required bool
}

// Graph is the fixed entity-kind dependency DAG. It is defined once per
// entity taxonomy, never discovered at runtime; cycles are impossible by
// construction, but Validate and the auto-create revisit check defend
// against malformed declarations anyway.
type Graph struct {
	parents map[EntityKind][]ParentEdge
	order   []EntityKind
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{parents: make(map[EntityKind][]ParentEdge)}
}

// Add declares a kind and its parent edges. Calls chain so a taxonomy
// reads as one declaration block.
func (g *Graph) Add(kind EntityKind, parents ...ParentEdge) *Graph {
	if _, ok := g.parents[kind]; !ok {
		g.order = append(g.order, kind)
	}
	g.parents[kind] = append(g.parents[kind], parents...)
	return g
}

// Known reports whether the kind is part of the taxonomy.
func (g *Graph) Known(kind EntityKind) bool {
	_, ok := g.parents[kind]
	return ok
}

// Parents returns the declared parent edges of a kind.
func (g *Graph) Parents(kind EntityKind) []ParentEdge {
	return g.parents[kind]
}

// Kinds returns every declared kind in declaration order.
func (g *Graph) Kinds() []EntityKind {
	out := make([]EntityKind, len(g.order))
	copy(out, g.order)
	return out
}

// Validate checks that every edge targets a declared kind and that the
// graph is acyclic.
func (g *Graph) Validate() error {
	for kind, edges := range g.parents {
		for _, e := range edges {
			if !g.Known(e.Kind) {
				return NewConfiguration("kind %s references undeclared parent %s", kind, e.Kind)
			}
		}
	}
	_, err := g.Order(g.Kinds())
	return err
}

// Order returns the requested kinds sorted so that every kind follows
// the kinds it depends on. Duplicates are dropped; unknown kinds and
// cycles are configuration errors.
func (g *Graph) Order(kinds []EntityKind) ([]EntityKind, error) {
	requested := make(map[EntityKind]bool, len(kinds))
	for _, k := range kinds {
		if !g.Known(k) {
			return nil, NewConfiguration("unknown entity kind %q", k)
		}
		requested[k] = true
	}

	var out []EntityKind
	visited := make(map[EntityKind]bool)
	visiting := make(map[EntityKind]bool)

	var visit func(kind EntityKind) error
	visit = func(kind EntityKind) error {
		if visited[kind] {
			return nil
		}
		if visiting[kind] {
			return NewConfiguration("dependency cycle detected at kind %s", kind)
		}
		visiting[kind] = true
		for _, edge := range g.parents[kind] {
			if err := visit(edge.Kind); err != nil {
				return err
			}
		}
		delete(visiting, kind)
		visited[kind] = true
		if requested[kind] {
			out = append(out, kind)
		}
		return nil
	}

	for _, k := range kinds {
		if err := visit(k); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Requires returns the transitive parent kinds of the given kind,
// ordered parents-first.
func (g *Graph) Requires(kind EntityKind) ([]EntityKind, error) {
	if !g.Known(kind) {
		return nil, NewConfiguration("unknown entity kind %q", kind)
	}

	var out []EntityKind
	visited := make(map[EntityKind]bool)

	var visit func(k EntityKind) error
	visit = func(k EntityKind) error {
		for _, edge := range g.parents[k] {
			if visited[edge.Kind] {
				continue
			}
			visited[edge.Kind] = true
			if err := visit(edge.Kind); err != nil {
				return err
			}
			out = append(out, edge.Kind)
		}
		return nil
	}

	if err := visit(kind); err != nil {
		return nil, err
	}
	return out, nil
}
