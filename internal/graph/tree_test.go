package graph

import (
	"fmt"
	"testing"

	"github.com/radosverse/shader-fn-dep-analyzer/internal/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for TreeBuilder:
// - Worked example: main calls add, both resolved, add at depth 1
// - Root absent from the cache yields a single stub root
// - Root present with no calls is resolved, distinguishable from absent
// - Calls missing from the cache are kept on the node but never visited
// - Depth bound: a 20-function chain with max depth 5 visits exactly 5
// - Non-positive max depth falls back to the default
// - Two-node cycle terminates with each node visited once
// - A callee reachable along several paths is visited once, at its shallowest level

func cacheOf(t *testing.T, defs ...[3]string) *cache.FunctionCache {
	t.Helper()
	c := cache.NewFunctionCache()
	for _, d := range defs {
		require.True(t, c.Add(d[0], d[1], d[2]), "duplicate fixture %s", d[0])
	}
	return c
}

func TestBuild_WorkedExample(t *testing.T) {
	t.Parallel()

	c := cacheOf(t,
		[3]string{"add", "a.c", "add(int a, int b){ return a + b; }"},
		[3]string{"main", "a.c", "main(){ return add(1,2); }"},
	)

	g := BuildTree(c, "main", 10)

	require.True(t, g.RootFound())
	assert.Equal(t, []string{"main", "add"}, g.Names())

	mainNode, ok := g.Node("main")
	require.True(t, ok)
	assert.Equal(t, []string{"add"}, mainNode.Calls)
	assert.Equal(t, "a.c", mainNode.Location)
	assert.Equal(t, 0, mainNode.Depth)

	addNode, ok := g.Node("add")
	require.True(t, ok)
	assert.Empty(t, addNode.Calls)
	assert.Equal(t, 1, addNode.Depth)

	assert.Empty(t, g.Unresolved())
}

func TestBuild_RootNotFound(t *testing.T) {
	t.Parallel()

	c := cacheOf(t, [3]string{"other", "a.c", "other() { nothing(); }"})
	g := BuildTree(c, "missing", 10)

	assert.False(t, g.RootFound())
	require.Equal(t, 1, g.Len())

	root, ok := g.Node("missing")
	require.True(t, ok)
	assert.True(t, root.Stub)
	assert.Empty(t, root.Location)
	assert.Empty(t, root.Body)
	assert.Empty(t, root.Calls)
	assert.Empty(t, g.ResolvedCalls("missing"))
	assert.Equal(t, []string{"missing"}, g.Unresolved())
}

func TestBuild_RootWithoutCalls(t *testing.T) {
	t.Parallel()

	c := cacheOf(t, [3]string{"lonely", "a.c", "lonely() { return 42; }"})
	g := BuildTree(c, "lonely", 10)

	assert.True(t, g.RootFound())
	root, _ := g.Node("lonely")
	assert.False(t, root.Stub)
	assert.Empty(t, root.Calls)
	assert.Empty(t, g.Unresolved())
}

func TestBuild_UncachedCallsAreNotVisited(t *testing.T) {
	t.Parallel()

	c := cacheOf(t,
		[3]string{"main", "m.c", "main() { printf(\"x\"); helper(); }"},
		[3]string{"helper", "h.c", "helper() { puts(\"y\"); }"},
	)
	g := BuildTree(c, "main", 10)

	assert.Equal(t, []string{"main", "helper"}, g.Names())
	root, _ := g.Node("main")
	assert.Equal(t, []string{"printf", "helper"}, root.Calls)
	assert.False(t, g.Has("printf"))
	assert.Equal(t, []string{"helper"}, g.ResolvedCalls("main"))
}

func chainCache(t *testing.T, n int) *cache.FunctionCache {
	t.Helper()
	c := cache.NewFunctionCache()
	for i := 0; i < n; i++ {
		body := fmt.Sprintf("f%d() { return 0; }", i)
		if i < n-1 {
			body = fmt.Sprintf("f%d() { return f%d(); }", i, i+1)
		}
		c.Add(fmt.Sprintf("f%d", i), "chain.c", body)
	}
	return c
}

func TestBuild_DepthBound(t *testing.T) {
	t.Parallel()

	g := BuildTree(chainCache(t, 20), "f0", 5)

	assert.Equal(t, []string{"f0", "f1", "f2", "f3", "f4"}, g.Names())
	assert.False(t, g.Has("f5"))
	assert.Empty(t, g.Unresolved(), "names cut off by depth are absent, not stubs")
}

func TestBuild_DefaultDepth(t *testing.T) {
	t.Parallel()

	g := BuildTree(chainCache(t, 20), "f0", 0)
	assert.Equal(t, DefaultMaxDepth, g.Len())
}

func TestBuild_Cycle(t *testing.T) {
	t.Parallel()

	c := cacheOf(t,
		[3]string{"ping", "p.c", "ping() { pong(); }"},
		[3]string{"pong", "p.c", "pong() { ping(); }"},
	)
	g := BuildTree(c, "ping", 10)

	assert.Equal(t, []string{"ping", "pong"}, g.Names())
	pong, _ := g.Node("pong")
	assert.Equal(t, []string{"ping"}, pong.Calls)
}

func TestBuild_DiamondVisitedOnce(t *testing.T) {
	t.Parallel()

	c := cacheOf(t,
		[3]string{"top", "d.c", "top() { left(); right(); }"},
		[3]string{"left", "d.c", "left() { bottom(); }"},
		[3]string{"right", "d.c", "right() { bottom(); }"},
		[3]string{"bottom", "d.c", "bottom() { return 1; }"},
	)
	g := BuildTree(c, "top", 10)

	assert.Equal(t, []string{"top", "left", "right", "bottom"}, g.Names())
	bottom, _ := g.Node("bottom")
	assert.Equal(t, 2, bottom.Depth)
}

func TestDependencyGraph_AddKeepsFirst(t *testing.T) {
	t.Parallel()

	g := NewDependencyGraph("a1")
	assert.True(t, g.Add(&DependencyNode{Name: "a1", Location: "x.c"}))
	assert.False(t, g.Add(&DependencyNode{Name: "a1", Location: "y.c"}))

	n, _ := g.Node("a1")
	assert.Equal(t, "x.c", n.Location)
	assert.Equal(t, 1, g.Len())
}
