package config

import (
	"github.com/radosverse/shader-fn-dep-analyzer/internal/scanner"
)

// NewFileDiscovery builds the file discovery for rootDir from the paths and
// analysis sections. The output directory is never scanned. Extra options
// are applied after the configured ones.
func (c *Config) NewFileDiscovery(rootDir string, opts ...scanner.DiscoveryOption) (*scanner.FileDiscovery, error) {
	opts = append([]scanner.DiscoveryOption{
		scanner.WithMaxFiles(c.Analysis.MaxFiles),
		scanner.WithExtensionless(c.Paths.IncludeExtensionless),
		scanner.WithIgnoredDir(c.Output.Dir),
	}, opts...)
	return scanner.NewFileDiscovery(rootDir, c.Paths.Code, c.Paths.Ignore, opts...)
}

// NewReader builds a concurrent file reader for rootDir.
func (c *Config) NewReader(rootDir string, opts ...scanner.ReaderOption) *scanner.Reader {
	opts = append([]scanner.ReaderOption{scanner.WithWorkers(c.Analysis.ReadWorkers)}, opts...)
	return scanner.NewReader(rootDir, opts...)
}
