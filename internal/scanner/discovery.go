// Package scanner selects the source files of a project and reads them in a
// stable order for function extraction.
package scanner

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"
)

// DefaultMaxFiles is the file budget used when none is configured.
const DefaultMaxFiles = 5000

// compiledPattern holds both the pattern string and compiled glob
type compiledPattern struct {
	pattern string
	glob    glob.Glob
}

// FileDiscovery handles file discovery with glob patterns and ignore rules.
type FileDiscovery struct {
	rootDir              string
	codePatterns         []compiledPattern
	ignorePatterns       []compiledPattern
	alwaysIgnore         []string
	includeExtensionless bool
	maxFiles             int
	logger               *slog.Logger
}

// DiscoveryOption configures a FileDiscovery.
type DiscoveryOption func(*FileDiscovery)

// WithMaxFiles caps how many files are counted before discovery stops.
// Values <= 0 keep the default.
func WithMaxFiles(n int) DiscoveryOption {
	return func(fd *FileDiscovery) {
		if n > 0 {
			fd.maxFiles = n
		}
	}
}

// WithExtensionless treats files without an extension as code.
func WithExtensionless(include bool) DiscoveryOption {
	return func(fd *FileDiscovery) {
		fd.includeExtensionless = include
	}
}

// WithIgnoredDir always skips the given directory (relative to the root),
// regardless of ignore patterns. Used for the tool's own output directory.
func WithIgnoredDir(dir string) DiscoveryOption {
	return func(fd *FileDiscovery) {
		dir = strings.Trim(filepath.ToSlash(dir), "/")
		if dir != "" && dir != "." {
			fd.alwaysIgnore = append(fd.alwaysIgnore, dir)
		}
	}
}

// WithDiscoveryLogger sets the logger for paths that cannot be walked.
func WithDiscoveryLogger(logger *slog.Logger) DiscoveryOption {
	return func(fd *FileDiscovery) {
		if logger != nil {
			fd.logger = logger
		}
	}
}

// Discovery is the outcome of a walk. Files holds the code files to read,
// as slash-separated paths relative to the root, in lexicographic order.
type Discovery struct {
	Files []string

	// Scanned counts every file charged against the budget, code or not.
	Scanned int

	// Truncated is set when the budget stopped the scan early.
	Truncated bool
}

// NewFileDiscovery creates a new file discovery instance.
func NewFileDiscovery(rootDir string, codePatterns, ignorePatterns []string, opts ...DiscoveryOption) (*FileDiscovery, error) {
	fd := &FileDiscovery{
		rootDir:  rootDir,
		maxFiles: DefaultMaxFiles,
		logger:   slog.Default(),
	}

	for _, pattern := range codePatterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid code pattern %q: %w", pattern, err)
		}
		fd.codePatterns = append(fd.codePatterns, compiledPattern{pattern: pattern, glob: g})
	}

	for _, pattern := range ignorePatterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid ignore pattern %q: %w", pattern, err)
		}
		fd.ignorePatterns = append(fd.ignorePatterns, compiledPattern{pattern: pattern, glob: g})
	}

	for _, opt := range opts {
		opt(fd)
	}

	return fd, nil
}

// RootDir returns the directory discovery walks.
func (fd *FileDiscovery) RootDir() string {
	return fd.rootDir
}

// Discover walks the tree and returns the code files to analyze. Every
// non-ignored file counts toward the budget in path order, whether or not it
// turns out to be code.
func (fd *FileDiscovery) Discover(ctx context.Context) (*Discovery, error) {
	var candidates []string

	err := filepath.Walk(fd.rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if path == fd.rootDir {
				return err
			}
			// Unreadable entries below the root are skipped.
			fd.logger.Warn("skipping unreadable path", "path", path, "error", err)
			if info != nil && info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		relPath, err := filepath.Rel(fd.rootDir, path)
		if err != nil {
			return err
		}
		relPath = filepath.ToSlash(relPath)

		if info.IsDir() {
			if relPath != "." && fd.shouldIgnore(relPath) {
				return filepath.SkipDir
			}
			return nil
		}
		if !info.Mode().IsRegular() {
			return nil
		}

		if fd.shouldIgnore(relPath) {
			return nil
		}

		candidates = append(candidates, relPath)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", fd.rootDir, err)
	}

	// Walk order puts "a/b.c" before "a.c"; the cache depends on plain
	// lexicographic order.
	sort.Strings(candidates)

	result := &Discovery{Files: []string{}}
	for _, relPath := range candidates {
		if result.Scanned >= fd.maxFiles {
			result.Truncated = true
			break
		}
		result.Scanned++

		if fd.IsCode(relPath) {
			result.Files = append(result.Files, relPath)
		}
	}

	return result, nil
}

// IsCode reports whether a slash-separated relative path should be analyzed.
// JSON files never are.
func (fd *FileDiscovery) IsCode(relPath string) bool {
	ext := strings.ToLower(filepath.Ext(relPath))
	if ext == ".json" {
		return false
	}
	if ext == "" {
		return fd.includeExtensionless
	}
	return fd.matchesAnyPattern(relPath, fd.codePatterns) ||
		fd.matchesAnyPattern(strings.ToLower(relPath), fd.codePatterns)
}

// Matches reports whether Discover would pick up relPath, budget aside.
func (fd *FileDiscovery) Matches(relPath string) bool {
	return !fd.shouldIgnore(relPath) && fd.IsCode(relPath)
}

// shouldIgnore checks if a path matches any ignore pattern.
func (fd *FileDiscovery) shouldIgnore(relPath string) bool {
	for _, dir := range fd.alwaysIgnore {
		if relPath == dir || strings.HasPrefix(relPath, dir+"/") {
			return true
		}
	}

	if fd.matchesAnyPattern(relPath, fd.ignorePatterns) {
		return true
	}

	// "node_modules" should match pattern "node_modules/**"
	pathWithSuffix := relPath + "/**"
	return fd.matchesAnyPattern(pathWithSuffix, fd.ignorePatterns)
}

// matchesAnyPattern checks if a path matches any of the given patterns.
func (fd *FileDiscovery) matchesAnyPattern(path string, patterns []compiledPattern) bool {
	for _, cp := range patterns {
		if cp.glob.Match(path) {
			return true
		}
	}

	// A path in the root has no slash, so "**/*.c" must also match "main.c".
	if !strings.Contains(path, "/") {
		for _, cp := range patterns {
			if strings.HasPrefix(cp.pattern, "**/") {
				simplified := strings.TrimPrefix(cp.pattern, "**/")
				if simplifiedGlob, err := glob.Compile(simplified, '/'); err == nil {
					if simplifiedGlob.Match(path) {
						return true
					}
				}
			}
		}
	}

	return false
}
