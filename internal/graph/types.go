package graph

// DependencyNode is a function reached while expanding calls from the root.
// A stub node was reached by name but has no cached definition; its Location
// and Body are empty and it has no calls.
type DependencyNode struct {
	Name     string   `json:"name"`
	Location string   `json:"location,omitempty"` // source path of the definition
	Body     string   `json:"body,omitempty"`
	Calls    []string `json:"calls"` // every call found in Body, first-seen order
	Depth    int      `json:"depth"` // expansion level; the root is 0
	Stub     bool     `json:"stub,omitempty"`
}

// Resolved reports whether the node has a definition.
func (n *DependencyNode) Resolved() bool {
	return !n.Stub
}

// DependencyGraph holds the nodes visited from one root, keyed by name.
// Iteration follows the order nodes were visited.
type DependencyGraph struct {
	root  string
	nodes map[string]*DependencyNode
	order []string
}

// NewDependencyGraph creates an empty graph for root.
func NewDependencyGraph(root string) *DependencyGraph {
	return &DependencyGraph{
		root:  root,
		nodes: make(map[string]*DependencyNode),
	}
}

// Root returns the name expansion started from.
func (g *DependencyGraph) Root() string {
	return g.root
}

// RootFound reports whether the root has a definition. A graph whose root is
// a stub means the function was not found, which is different from a root
// that was found but calls nothing.
func (g *DependencyGraph) RootFound() bool {
	n, ok := g.nodes[g.root]
	return ok && n.Resolved()
}

// Node returns the node for name.
func (g *DependencyGraph) Node(name string) (*DependencyNode, bool) {
	n, ok := g.nodes[name]
	return n, ok
}

// Has reports whether name was visited.
func (g *DependencyGraph) Has(name string) bool {
	_, ok := g.nodes[name]
	return ok
}

// Len returns the number of visited names, stubs included.
func (g *DependencyGraph) Len() int {
	return len(g.order)
}

// Names returns visited names in visit order.
func (g *DependencyGraph) Names() []string {
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

// Nodes returns the nodes in visit order.
func (g *DependencyGraph) Nodes() []*DependencyNode {
	out := make([]*DependencyNode, 0, len(g.order))
	for _, name := range g.order {
		out = append(out, g.nodes[name])
	}
	return out
}

// Unresolved returns the names of stub nodes in visit order.
func (g *DependencyGraph) Unresolved() []string {
	var out []string
	for _, name := range g.order {
		if g.nodes[name].Stub {
			out = append(out, name)
		}
	}
	return out
}

// ResolvedCalls returns the calls of name that point at resolved nodes in
// this graph, in call order.
func (g *DependencyGraph) ResolvedCalls(name string) []string {
	n, ok := g.nodes[name]
	if !ok {
		return nil
	}
	var out []string
	for _, call := range n.Calls {
		if callee, ok := g.nodes[call]; ok && callee.Resolved() {
			out = append(out, call)
		}
	}
	return out
}

// Add inserts node unless a node with the same name exists.
// It reports whether the node was inserted.
func (g *DependencyGraph) Add(node *DependencyNode) bool {
	if _, exists := g.nodes[node.Name]; exists {
		return false
	}
	g.nodes[node.Name] = node
	g.order = append(g.order, node.Name)
	return true
}
