package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gobwas/glob"
)

var (
	// ErrInvalidDepth indicates a non-positive max depth
	ErrInvalidDepth = errors.New("invalid max depth")

	// ErrInvalidMaxFiles indicates a non-positive file budget
	ErrInvalidMaxFiles = errors.New("invalid max files")

	// ErrInvalidMinBody indicates a negative minimum body length
	ErrInvalidMinBody = errors.New("invalid min body length")

	// ErrInvalidWorkers indicates a non-positive read worker count
	ErrInvalidWorkers = errors.New("invalid read workers")

	// ErrInvalidFormat indicates an unsupported output format
	ErrInvalidFormat = errors.New("invalid output format")

	// ErrInvalidPattern indicates a glob that does not compile
	ErrInvalidPattern = errors.New("invalid glob pattern")

	// ErrEmptyOutputDir indicates a missing output directory
	ErrEmptyOutputDir = errors.New("empty output directory")
)

// Validate checks that the configuration is valid and complete.
// All problems are reported together.
func Validate(cfg *Config) error {
	return errors.Join(
		validatePaths(&cfg.Paths),
		validateAnalysis(&cfg.Analysis),
		validateOutput(&cfg.Output),
	)
}

func validatePaths(cfg *PathsConfig) error {
	var errs []error

	// An empty code list is allowed; only extension-less files, if enabled,
	// will be analyzed.
	for _, pattern := range cfg.Code {
		if _, err := glob.Compile(pattern, '/'); err != nil {
			errs = append(errs, fmt.Errorf("%w: code pattern %q: %v", ErrInvalidPattern, pattern, err))
		}
	}
	for _, pattern := range cfg.Ignore {
		if _, err := glob.Compile(pattern, '/'); err != nil {
			errs = append(errs, fmt.Errorf("%w: ignore pattern %q: %v", ErrInvalidPattern, pattern, err))
		}
	}

	return errors.Join(errs...)
}

func validateAnalysis(cfg *AnalysisConfig) error {
	var errs []error

	if cfg.MaxDepth <= 0 {
		errs = append(errs, fmt.Errorf("%w: max_depth must be positive, got %d", ErrInvalidDepth, cfg.MaxDepth))
	}

	if cfg.MaxFiles <= 0 {
		errs = append(errs, fmt.Errorf("%w: max_files must be positive, got %d", ErrInvalidMaxFiles, cfg.MaxFiles))
	}

	if cfg.MinBodyLength < 0 {
		errs = append(errs, fmt.Errorf("%w: min_body_length cannot be negative, got %d", ErrInvalidMinBody, cfg.MinBodyLength))
	}

	if cfg.ReadWorkers <= 0 {
		errs = append(errs, fmt.Errorf("%w: read_workers must be positive, got %d", ErrInvalidWorkers, cfg.ReadWorkers))
	}

	return errors.Join(errs...)
}

func validateOutput(cfg *OutputConfig) error {
	var errs []error

	if !IsValidFormat(cfg.Format) {
		errs = append(errs, fmt.Errorf("%w: must be 'text', 'json' or 'dot', got '%s'", ErrInvalidFormat, cfg.Format))
	}

	if strings.TrimSpace(cfg.Dir) == "" {
		errs = append(errs, fmt.Errorf("%w: output.dir is required", ErrEmptyOutputDir))
	}

	return errors.Join(errs...)
}

// IsValidFormat reports whether format names a supported output format.
func IsValidFormat(format string) bool {
	switch strings.ToLower(format) {
	case FormatText, FormatJSON, FormatDOT:
		return true
	}
	return false
}
