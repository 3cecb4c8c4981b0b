package analyzer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radosverse/shader-fn-dep-analyzer/internal/scanner"
)

// Test Plan for Analyzer:
// - Worked example: add/main resolves to [add main] with no unresolved names
// - Root not found yields a stub result and Err() wraps ErrRootNotFound
// - Blank root is rejected before scanning
// - No code files still completes with the root reported as not found
// - First definition wins in lexicographic path order across files
// - Python and shader sources mix, indented headers never count as self-calls
// - Read failures are counted and skipped
// - Depth limit is applied and reported
// - Progress callbacks fire in order with matching counts
// - Each run gets its own identifier and cache
// - Cancelled context aborts the scan
// - Results are byte-identical in content across runs (fingerprint)

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		full := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0644))
	}
	return root
}

func newAnalyzer(t *testing.T, root string, opts ...Option) *Analyzer {
	t.Helper()
	fd, err := scanner.NewFileDiscovery(root, []string{"**/*.c", "**/*.glsl", "**/*.py"}, nil)
	require.NoError(t, err)
	return New(fd, scanner.NewReader(root, scanner.WithWorkers(4)), opts...)
}

const workedExample = "int add(int a, int b){ return a + b; }\nint main(){ return add(1,2); }\n"

func TestAnalyze_WorkedExample(t *testing.T) {
	t.Parallel()

	root := writeFiles(t, map[string]string{"a.c": workedExample})
	res, err := newAnalyzer(t, root).Analyze(context.Background(), "main")
	require.NoError(t, err)
	require.NoError(t, res.Err())

	assert.True(t, res.RootFound)
	assert.Equal(t, []string{"add", "main"}, res.Sorted)
	assert.Empty(t, res.Unresolved)
	assert.Empty(t, res.Cycles)

	require.Len(t, res.Functions, 2)
	assert.Equal(t, "add", res.Functions[0].Name)
	assert.Equal(t, "a.c", res.Functions[0].Location)
	assert.Equal(t, "add(int a, int b){ return a + b; }", res.Functions[0].Body)
	assert.False(t, res.Functions[0].Root)
	assert.True(t, res.Functions[1].Root)
	assert.Equal(t, []string{"add"}, res.Functions[1].Calls)

	assert.Equal(t, Stats{
		FilesScanned:      1,
		FilesProcessed:    1,
		FunctionsFound:    2,
		DependenciesFound: 2,
	}, res.Stats)

	_, err = uuid.Parse(res.RunID)
	assert.NoError(t, err)
	assert.Equal(t, ResultVersion, res.Version)
	assert.NotNil(t, res.Graph)
}

func TestAnalyze_RootNotFound(t *testing.T) {
	t.Parallel()

	root := writeFiles(t, map[string]string{"a.c": workedExample})
	res, err := newAnalyzer(t, root).Analyze(context.Background(), "render")
	require.NoError(t, err)

	assert.False(t, res.RootFound)
	assert.ErrorIs(t, res.Err(), ErrRootNotFound)
	assert.Contains(t, res.Err().Error(), "'render'")
	assert.Empty(t, res.Sorted)
	assert.NotNil(t, res.Sorted)
	assert.Empty(t, res.Functions)
	assert.Equal(t, []string{"render"}, res.Unresolved)
	assert.Equal(t, 1, res.Stats.DependenciesFound)
	assert.Equal(t, 2, res.Stats.FunctionsFound)
}

func TestAnalyze_EmptyRoot(t *testing.T) {
	t.Parallel()

	root := writeFiles(t, map[string]string{"a.c": workedExample})
	_, err := newAnalyzer(t, root).Analyze(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyRoot)
}

func TestAnalyze_NoFiles(t *testing.T) {
	t.Parallel()

	root := writeFiles(t, map[string]string{"README.md": "# nothing here"})
	res, err := newAnalyzer(t, root).Analyze(context.Background(), "main")
	require.NoError(t, err)

	assert.True(t, res.NoCodeFiles())
	assert.False(t, res.RootFound)
	assert.ErrorIs(t, res.Err(), ErrRootNotFound)
	assert.Equal(t, []string{"main"}, res.Unresolved)
	assert.Equal(t, 1, res.Stats.FilesScanned)
	assert.Equal(t, 0, res.Stats.FilesProcessed)
}

func TestAnalyze_FirstDefinitionWins(t *testing.T) {
	t.Parallel()

	root := writeFiles(t, map[string]string{
		"b.c":       "float helper(float x) { return x * 2.0; }\n",
		"a/z.c":     "float helper(float x) { return x + 1.0; }\n",
		"main.glsl": "void main() { gl_FragColor = vec4(helper(1.0)); }\n",
	})

	res, err := newAnalyzer(t, root).Analyze(context.Background(), "main")
	require.NoError(t, err)

	require.Equal(t, []string{"helper", "main"}, res.Sorted)
	assert.Equal(t, "a/z.c", res.Functions[0].Location)
	assert.Contains(t, res.Functions[0].Body, "x + 1.0")
}

func TestAnalyze_PythonAndShaderMix(t *testing.T) {
	t.Parallel()

	root := writeFiles(t, map[string]string{
		"tool.py": "def build(items):\n    return pack(items)\n\n" +
			"def pack(items):\n    return list(items)\n\n" +
			"def tag(x):\n    y = helper(x)\n    d = {'k': y}\n    return wrap(d)\n\n" +
			"def helper(x):\n    return str(x)\n",
		"light.glsl": "float attenuate(float d) { return 1.0 / (d * d); }\n" +
			"float shade(float n) { return n * attenuate(2.0); }\n",
	})
	a := newAnalyzer(t, root)

	t.Run("indented definitions do not call themselves", func(t *testing.T) {
		res, err := a.Analyze(context.Background(), "build")
		require.NoError(t, err)

		assert.Equal(t, []string{"pack", "build"}, res.Sorted)
		assert.Empty(t, res.Cycles)
		require.Len(t, res.Functions, 2)
		assert.Equal(t, []string{"pack"}, res.Functions[1].Calls)
	})

	t.Run("dict literal keeps earlier calls", func(t *testing.T) {
		res, err := a.Analyze(context.Background(), "tag")
		require.NoError(t, err)

		assert.Equal(t, []string{"helper", "tag"}, res.Sorted)
		assert.Empty(t, res.Cycles)
	})

	t.Run("shader functions resolve alongside", func(t *testing.T) {
		res, err := a.Analyze(context.Background(), "shade")
		require.NoError(t, err)

		assert.Equal(t, []string{"attenuate", "shade"}, res.Sorted)
		require.Len(t, res.Functions, 2)
		assert.Equal(t, "light.glsl", res.Functions[0].Location)
		assert.Empty(t, res.Cycles)
	})
}

func TestAnalyze_DepthLimit(t *testing.T) {
	t.Parallel()

	root := writeFiles(t, map[string]string{"chain.c": `
int f1() { return f2(); }
int f2() { return f3(); }
int f3() { return f4(); }
int f4() { return 4 + 4; }
`})

	res, err := newAnalyzer(t, root, WithMaxDepth(2)).Analyze(context.Background(), "f1")
	require.NoError(t, err)

	assert.Equal(t, 2, res.MaxDepth)
	assert.Equal(t, []string{"f2", "f1"}, res.Sorted)
}

func TestAnalyze_Cycle(t *testing.T) {
	t.Parallel()

	root := writeFiles(t, map[string]string{"loop.c": `
int ping(int n) { return pong(n - 1); }
int pong(int n) { return ping(n - 1); }
`})

	res, err := newAnalyzer(t, root).Analyze(context.Background(), "ping")
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"ping", "pong"}, res.Sorted)
	assert.Equal(t, [][]string{{"ping", "pong"}}, res.Cycles)
}

type staticDiscovery struct {
	files []string
}

func (d staticDiscovery) Discover(ctx context.Context) (*scanner.Discovery, error) {
	return &scanner.Discovery{Files: d.files, Scanned: len(d.files)}, nil
}

type failingReader struct{}

func (failingReader) ReadAll(ctx context.Context, paths []string) ([]scanner.Source, []scanner.ReadError, error) {
	return []scanner.Source{{Path: "ok.c", Content: workedExample}},
		[]scanner.ReadError{{Path: "broken.c", Err: os.ErrPermission}},
		nil
}

func TestAnalyze_ReadErrorsAreSkipped(t *testing.T) {
	t.Parallel()

	a := New(staticDiscovery{files: []string{"broken.c", "ok.c"}}, failingReader{})
	res, err := a.Analyze(context.Background(), "main")
	require.NoError(t, err)

	assert.True(t, res.RootFound)
	assert.Equal(t, 1, res.Stats.ReadErrors)
	assert.Equal(t, 1, res.Stats.FilesProcessed)
	assert.Equal(t, 2, res.Stats.FilesScanned)
}

type errDiscovery struct{}

func (errDiscovery) Discover(ctx context.Context) (*scanner.Discovery, error) {
	return nil, errors.New("disk on fire")
}

func TestAnalyze_DiscoveryError(t *testing.T) {
	t.Parallel()

	_, err := New(errDiscovery{}, failingReader{}).Analyze(context.Background(), "main")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk on fire")
}

type recordingProgress struct {
	mu        sync.Mutex
	events    []string
	processed int
	nodes     int
	stats     *Stats
}

func (p *recordingProgress) add(e string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func (p *recordingProgress) OnDiscoveryStart()                          { p.add("discovery_start") }
func (p *recordingProgress) OnDiscoveryComplete(scanned, codeFiles int) { p.add("discovery_complete") }
func (p *recordingProgress) OnFileProcessingStart(totalFiles int)       { p.add("processing_start") }
func (p *recordingProgress) OnFileProcessed(fileName string, functions int) {
	p.processed++
}
func (p *recordingProgress) OnTreeBuilt(nodes int, duration time.Duration) {
	p.nodes = nodes
	p.add("tree_built")
}
func (p *recordingProgress) OnComplete(stats *Stats) {
	p.stats = stats
	p.add("complete")
}

func TestAnalyze_ReportsProgress(t *testing.T) {
	t.Parallel()

	root := writeFiles(t, map[string]string{"a.c": workedExample, "b.c": "int unused() { return 123456; }"})
	progress := &recordingProgress{}

	res, err := newAnalyzer(t, root, WithProgress(progress)).Analyze(context.Background(), "main")
	require.NoError(t, err)

	assert.Equal(t, []string{"discovery_start", "discovery_complete", "processing_start", "tree_built", "complete"}, progress.events)
	assert.Equal(t, 2, progress.processed)
	assert.Equal(t, 2, progress.nodes)
	require.NotNil(t, progress.stats)
	assert.Equal(t, res.Stats, *progress.stats)
}

func TestScan_RunsAreIndependent(t *testing.T) {
	t.Parallel()

	root := writeFiles(t, map[string]string{"a.c": workedExample})
	a := newAnalyzer(t, root)

	first, err := a.Scan(context.Background())
	require.NoError(t, err)
	second, err := a.Scan(context.Background())
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.NotSame(t, first.Cache, second.Cache)
	assert.Equal(t, first.Cache.Names(), second.Cache.Names())

	r1 := first.Resolve("main", 10)
	r2 := second.Resolve("main", 10)
	assert.Equal(t, r1.Fingerprint, r2.Fingerprint)
	assert.Equal(t, r1.Sorted, r2.Sorted)
}

func TestAnalyze_Cancelled(t *testing.T) {
	t.Parallel()

	root := writeFiles(t, map[string]string{"a.c": workedExample})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newAnalyzer(t, root).Analyze(ctx, "main")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestResult_ByLocation(t *testing.T) {
	t.Parallel()

	res := &Result{Functions: []Function{
		{Name: "c1", Location: "z.c"},
		{Name: "a1", Location: "a.c"},
		{Name: "b1", Location: "z.c"},
	}}

	files, groups := res.ByLocation()
	assert.Equal(t, []string{"z.c", "a.c"}, files, "first appearance order")
	assert.Equal(t, "c1", groups["z.c"][0].Name)
	assert.Equal(t, "b1", groups["z.c"][1].Name)
}
