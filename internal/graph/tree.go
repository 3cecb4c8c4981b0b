// Package graph builds the dependency graph reachable from a root function
// and orders it leaves first.
//
// Expansion is breadth-first and bounded by a maximum depth, so cost grows
// with the number of distinct names per level rather than the number of call
// paths. Ordering is a depth-first postorder that tolerates cycles. Neither
// step is safe for concurrent use against the same graph.
package graph

import (
	"log/slog"

	"github.com/radosverse/shader-fn-dep-analyzer/internal/cache"
	"github.com/radosverse/shader-fn-dep-analyzer/internal/extract"
)

// DefaultMaxDepth is the number of expansion levels used when none is given.
const DefaultMaxDepth = 10

// Lookup is the read side of the function cache.
type Lookup interface {
	Get(name string) (cache.FunctionRecord, bool)
	Has(name string) bool
}

// TreeBuilder expands call relationships from a root name.
type TreeBuilder struct {
	maxDepth int
	logger   *slog.Logger
}

// BuilderOption configures a TreeBuilder.
type BuilderOption func(*TreeBuilder)

// WithMaxDepth limits expansion to n breadth-first levels. Values below 1
// select DefaultMaxDepth.
func WithMaxDepth(n int) BuilderOption {
	return func(b *TreeBuilder) {
		if n > 0 {
			b.maxDepth = n
		}
	}
}

// WithLogger sets the logger used for expansion tracing.
func WithLogger(logger *slog.Logger) BuilderOption {
	return func(b *TreeBuilder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// NewTreeBuilder creates a builder.
func NewTreeBuilder(opts ...BuilderOption) *TreeBuilder {
	b := &TreeBuilder{
		maxDepth: DefaultMaxDepth,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build expands from root and returns every name visited.
//
// Each level takes the current frontier, looks every unprocessed name up in
// the cache and queues the callees that have definitions for the next level.
// A name missing from the cache becomes a stub and is not expanded. Names
// queued beyond the last permitted level are never visited and do not appear
// in the graph.
func (b *TreeBuilder) Build(funcs Lookup, root string) *DependencyGraph {
	g := NewDependencyGraph(root)
	frontier := []string{root}
	processed := make(map[string]bool)

	b.logger.Debug("building dependency tree", slog.String("root", root), slog.Int("max_depth", b.maxDepth))

	for depth := 0; len(frontier) > 0 && depth < b.maxDepth; depth++ {
		b.logger.Debug("expanding level",
			slog.Int("level", depth+1),
			slog.Int("batch", len(frontier)))

		var next []string
		queued := make(map[string]bool)

		for _, name := range frontier {
			if processed[name] {
				continue
			}
			processed[name] = true

			rec, ok := funcs.Get(name)
			if !ok {
				g.Add(&DependencyNode{Name: name, Depth: depth, Stub: true})
				b.logger.Debug("function not in cache", slog.String("name", name))
				continue
			}

			calls := extract.ExtractCalls(rec.Body)
			g.Add(&DependencyNode{
				Name:     name,
				Location: rec.Location,
				Body:     rec.Body,
				Calls:    calls,
				Depth:    depth,
			})

			added := 0
			for _, call := range calls {
				if processed[call] || queued[call] {
					continue
				}
				if !funcs.Has(call) {
					continue
				}
				queued[call] = true
				next = append(next, call)
				added++
			}
			b.logger.Debug("expanded function",
				slog.String("name", name),
				slog.Int("calls", len(calls)),
				slog.Int("queued", added))
		}
		frontier = next
	}

	b.logger.Debug("dependency tree built", slog.String("root", root), slog.Int("nodes", g.Len()))
	return g
}

// BuildTree expands from root with maxDepth levels using a default builder.
func BuildTree(funcs Lookup, root string, maxDepth int) *DependencyGraph {
	return NewTreeBuilder(WithMaxDepth(maxDepth)).Build(funcs, root)
}
