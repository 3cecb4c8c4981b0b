// Package analyzer runs the end-to-end dependency analysis: discover files,
// extract functions into a fresh cache, expand from a root function and
// order the result leaves first.
//
// Every run owns its own cache and identifier; nothing is shared between
// runs, so one Analyzer can serve repeated analyses (for example in watch
// mode) without carrying state across them.
package analyzer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/radosverse/shader-fn-dep-analyzer/internal/cache"
	"github.com/radosverse/shader-fn-dep-analyzer/internal/extract"
	"github.com/radosverse/shader-fn-dep-analyzer/internal/graph"
	"github.com/radosverse/shader-fn-dep-analyzer/internal/scanner"
)

// ResultVersion is the current version of the result format.
const ResultVersion = "1.0"

// Discoverer selects the files of a run.
type Discoverer interface {
	Discover(ctx context.Context) (*scanner.Discovery, error)
}

// SourceReader loads discovered files in request order.
type SourceReader interface {
	ReadAll(ctx context.Context, paths []string) ([]scanner.Source, []scanner.ReadError, error)
}

// Analyzer wires discovery, extraction and graph building together.
type Analyzer struct {
	discovery Discoverer
	reader    SourceReader
	extractor *extract.FunctionExtractor
	maxDepth  int
	logger    *slog.Logger
	progress  ProgressReporter
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithMaxDepth limits expansion to n levels. Values <= 0 keep the default.
func WithMaxDepth(n int) Option {
	return func(a *Analyzer) {
		if n > 0 {
			a.maxDepth = n
		}
	}
}

// WithExtractor replaces the default function extractor.
func WithExtractor(e *extract.FunctionExtractor) Option {
	return func(a *Analyzer) {
		if e != nil {
			a.extractor = e
		}
	}
}

// WithLogger sets the logger passed to every stage.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Analyzer) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithProgress sets the progress reporter.
func WithProgress(progress ProgressReporter) Option {
	return func(a *Analyzer) {
		if progress != nil {
			a.progress = progress
		}
	}
}

// New creates an analyzer over the given file source.
func New(discovery Discoverer, reader SourceReader, opts ...Option) *Analyzer {
	a := &Analyzer{
		discovery: discovery,
		reader:    reader,
		extractor: extract.NewFunctionExtractor(),
		maxDepth:  graph.DefaultMaxDepth,
		logger:    slog.Default(),
		progress:  &NoOpProgressReporter{},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run is the state of one analysis: its identifier, the populated cache and
// the scan statistics. It is created by Scan and read-only afterwards.
type Run struct {
	ID         string
	Cache      *cache.FunctionCache
	Stats      Stats
	ReadErrors []scanner.ReadError
	Truncated  bool // the file budget stopped discovery

	logger   *slog.Logger
	progress ProgressReporter
}

// Scan discovers and reads the files and extracts every function into a new
// cache. Files are extracted in lexicographic path order so the first
// definition of a name is always the same one.
func (a *Analyzer) Scan(ctx context.Context) (*Run, error) {
	run := &Run{
		ID:       uuid.NewString(),
		Cache:    cache.NewFunctionCache(),
		logger:   a.logger,
		progress: a.progress,
	}
	logger := a.logger.With("run_id", run.ID)

	a.progress.OnDiscoveryStart()
	disc, err := a.discovery.Discover(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to discover files: %w", err)
	}
	a.progress.OnDiscoveryComplete(disc.Scanned, len(disc.Files))

	run.Stats.FilesScanned = disc.Scanned
	run.Truncated = disc.Truncated
	if disc.Truncated {
		logger.Warn("file budget reached, remaining files skipped", "scanned", disc.Scanned)
	}
	if len(disc.Files) == 0 {
		logger.Warn("no code files found", "scanned", disc.Scanned)
	}

	sources, failures, err := a.reader.ReadAll(ctx, disc.Files)
	if err != nil {
		return nil, fmt.Errorf("failed to read files: %w", err)
	}
	run.ReadErrors = failures
	run.Stats.ReadErrors = len(failures)

	a.progress.OnFileProcessingStart(len(sources))
	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		candidates := a.extractor.ExtractFunctions(src.Content)
		for _, c := range candidates {
			run.Cache.Add(c.Name, src.Path, c.Body)
		}
		run.Cache.MarkFileProcessed()

		if len(candidates) > 0 {
			logger.Debug("extracted functions", "path", src.Path, "count", len(candidates), "hash", src.Hash)
		}
		a.progress.OnFileProcessed(src.Path, len(candidates))
	}

	run.Stats.FilesProcessed = run.Cache.FilesProcessed()
	run.Stats.FunctionsFound = run.Cache.FunctionsFound()

	logger.Info("scan complete",
		"files_scanned", run.Stats.FilesScanned,
		"files_processed", run.Stats.FilesProcessed,
		"functions", run.Stats.FunctionsFound,
		"read_errors", run.Stats.ReadErrors)

	return run, nil
}

// Analyze scans the files and resolves root against them. A root with no
// definition is not an error here; see Result.Err.
func (a *Analyzer) Analyze(ctx context.Context, root string) (*Result, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return nil, ErrEmptyRoot
	}

	run, err := a.Scan(ctx)
	if err != nil {
		return nil, err
	}
	return run.Resolve(root, a.maxDepth), nil
}

// Resolve expands root against the run's cache and orders the reachable
// functions leaves first.
func (r *Run) Resolve(root string, maxDepth int) *Result {
	if maxDepth <= 0 {
		maxDepth = graph.DefaultMaxDepth
	}
	logger := r.logger.With("run_id", r.ID)

	start := time.Now()
	g := graph.NewTreeBuilder(
		graph.WithMaxDepth(maxDepth),
		graph.WithLogger(logger),
	).Build(r.Cache, root)
	r.progress.OnTreeBuilt(g.Len(), time.Since(start))

	sorted := graph.TopologicalSort(graph.SortableEdges(g))

	cycles, err := graph.Cycles(g)
	if err != nil {
		logger.Warn("failed to detect cycles", "error", err)
	}

	functions := make([]Function, 0, len(sorted))
	for _, name := range sorted {
		node, _ := g.Node(name)
		functions = append(functions, Function{
			Name:         node.Name,
			Location:     node.Location,
			Calls:        append([]string{}, node.Calls...),
			Dependencies: append([]string{}, g.ResolvedCalls(name)...),
			Depth:        node.Depth,
			Root:         node.Name == root,
			Body:         node.Body,
		})
	}

	unresolved := g.Unresolved()
	if unresolved == nil {
		unresolved = []string{}
	}

	stats := r.Stats
	stats.DependenciesFound = g.Len()

	res := &Result{
		Version:     ResultVersion,
		RunID:       r.ID,
		GeneratedAt: time.Now(),
		Root:        root,
		RootFound:   g.RootFound(),
		MaxDepth:    maxDepth,
		Functions:   functions,
		Sorted:      sorted,
		Unresolved:  unresolved,
		Cycles:      cycles,
		Fingerprint: graph.Fingerprint(g, sorted),
		Stats:       stats,
		Graph:       g,
	}
	if res.Sorted == nil {
		res.Sorted = []string{}
	}

	if res.RootFound {
		logger.Info("analysis complete", "root", root, "functions", len(sorted), "unresolved", len(unresolved))
	} else {
		logger.Info("root function not found", "root", root)
	}
	r.progress.OnComplete(&res.Stats)

	return res
}
