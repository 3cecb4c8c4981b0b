package graph

// Edges maps each resolved function to the resolved functions it calls.
// Keys and targets keep insertion order so sorting is reproducible.
type Edges struct {
	keys []string
	deps map[string][]string
}

// NewEdges creates an empty edge set.
func NewEdges() *Edges {
	return &Edges{deps: make(map[string][]string)}
}

// Add records name with the given dependencies. Adding an existing name
// appends to its dependency list.
func (e *Edges) Add(name string, deps ...string) {
	if _, ok := e.deps[name]; !ok {
		e.keys = append(e.keys, name)
		e.deps[name] = nil
	}
	e.deps[name] = append(e.deps[name], deps...)
}

// Keys returns every name in insertion order.
func (e *Edges) Keys() []string {
	out := make([]string, len(e.keys))
	copy(out, e.keys)
	return out
}

// Deps returns the dependencies recorded for name.
func (e *Edges) Deps(name string) []string {
	return e.deps[name]
}

// Has reports whether name is a key.
func (e *Edges) Has(name string) bool {
	_, ok := e.deps[name]
	return ok
}

// Count returns the total number of dependency entries.
func (e *Edges) Count() int {
	n := 0
	for _, d := range e.deps {
		n += len(d)
	}
	return n
}

// SortableEdges derives the edge set to order from g: only resolved nodes are
// keys, and only calls to resolved nodes are edges. Calls to names outside the
// graph stay visible on the node but are not edges here.
func SortableEdges(g *DependencyGraph) *Edges {
	e := NewEdges()
	for _, node := range g.Nodes() {
		if !node.Resolved() {
			continue
		}
		e.Add(node.Name, g.ResolvedCalls(node.Name)...)
	}
	return e
}

type visitState uint8

const (
	unvisited visitState = iota
	inProgress
	done
)

// TopologicalSort orders the keys of e so that every function comes after
// the functions it depends on. A dependency that is already in progress
// closes a cycle; the traversal stops there without error, so every member of
// a cycle still appears exactly once. Every key is used as a traversal root.
func TopologicalSort(e *Edges) []string {
	result := make([]string, 0, len(e.keys))
	state := make(map[string]visitState, len(e.keys))

	var visit func(name string)
	visit = func(name string) {
		switch state[name] {
		case inProgress, done:
			return
		}
		state[name] = inProgress
		for _, dep := range e.deps[name] {
			if e.Has(dep) {
				visit(dep)
			}
		}
		state[name] = done
		result = append(result, name)
	}

	for _, name := range e.keys {
		visit(name)
	}
	return result
}
