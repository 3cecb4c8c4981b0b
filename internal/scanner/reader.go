package scanner

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	"github.com/zeebo/xxh3"
	"golang.org/x/sync/errgroup"
)

// Source is one file's content, addressed by its path relative to the root.
type Source struct {
	Path    string
	Content string
	Hash    string
}

// ReadError records a file that could not be read. Read failures are
// skipped, never fatal.
type ReadError struct {
	Path string
	Err  error
}

func (e ReadError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e ReadError) Unwrap() error {
	return e.Err
}

// Reader loads files concurrently and hands them back in request order.
type Reader struct {
	rootDir string
	workers int
	logger  *slog.Logger
}

// ReaderOption configures a Reader.
type ReaderOption func(*Reader)

// WithWorkers bounds the number of concurrent reads. Values <= 0 use the
// number of CPUs.
func WithWorkers(n int) ReaderOption {
	return func(r *Reader) {
		if n > 0 {
			r.workers = n
		}
	}
}

// WithReaderLogger sets the logger used for read failures.
func WithReaderLogger(logger *slog.Logger) ReaderOption {
	return func(r *Reader) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewReader creates a reader for paths relative to rootDir.
func NewReader(rootDir string, opts ...ReaderOption) *Reader {
	r := &Reader{
		rootDir: rootDir,
		workers: runtime.NumCPU(),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ReadAll reads every path. Sources come back in the order of paths with
// unreadable files left out; their failures are returned separately. The
// only error is context cancellation.
func (r *Reader) ReadAll(ctx context.Context, paths []string) ([]Source, []ReadError, error) {
	type readResult struct {
		source Source
		err    error
	}

	results := make([]readResult, len(paths))
	numWorkers := r.workers
	if numWorkers > len(paths) {
		numWorkers = len(paths)
	}
	if numWorkers < 1 {
		numWorkers = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(numWorkers)
	for i, relPath := range paths {
		i, relPath := i, relPath
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			src, err := r.readOne(relPath)
			results[i] = readResult{source: src, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	sources := make([]Source, 0, len(paths))
	var failures []ReadError
	for i, res := range results {
		if res.err != nil {
			r.logger.Warn("failed to read file", "path", paths[i], "error", res.err)
			failures = append(failures, ReadError{Path: paths[i], Err: res.err})
			continue
		}
		sources = append(sources, res.source)
	}
	return sources, failures, nil
}

func (r *Reader) readOne(relPath string) (Source, error) {
	data, err := os.ReadFile(filepath.Join(r.rootDir, filepath.FromSlash(relPath)))
	if err != nil {
		return Source{}, err
	}
	return Source{
		Path:    relPath,
		Content: string(data),
		Hash:    fmt.Sprintf("%016x", xxh3.Hash(data)),
	}, nil
}
