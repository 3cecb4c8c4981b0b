// Package config loads project configuration for fndep.
//
// Configuration is layered, highest priority first:
//  1. Environment variables (FNDEP_*, nested keys joined with underscores)
//  2. Project config file (.fndep/config.yml or .fndep/config.yaml)
//  3. Built-in defaults
package config

// DirName is the per-project directory holding config and saved results.
const DirName = ".fndep"

// Config represents the complete fndep configuration.
type Config struct {
	Paths    PathsConfig    `yaml:"paths" mapstructure:"paths"`
	Analysis AnalysisConfig `yaml:"analysis" mapstructure:"analysis"`
	Output   OutputConfig   `yaml:"output" mapstructure:"output"`
}

// PathsConfig defines which files to analyze and which to ignore.
type PathsConfig struct {
	Code                 []string `yaml:"code" mapstructure:"code"`                                   // glob patterns for code files
	Ignore               []string `yaml:"ignore" mapstructure:"ignore"`                               // glob patterns to ignore
	IncludeExtensionless bool     `yaml:"include_extensionless" mapstructure:"include_extensionless"` // treat files without extension as code
}

// AnalysisConfig bounds the work done per run.
type AnalysisConfig struct {
	MaxDepth      int `yaml:"max_depth" mapstructure:"max_depth"`             // BFS levels below and including the root
	MaxFiles      int `yaml:"max_files" mapstructure:"max_files"`             // files counted before scanning stops
	MinBodyLength int `yaml:"min_body_length" mapstructure:"min_body_length"` // trimmed bodies this short are dropped
	ReadWorkers   int `yaml:"read_workers" mapstructure:"read_workers"`       // concurrent file reads
}

// OutputConfig controls rendering and saved results.
type OutputConfig struct {
	Format string `yaml:"format" mapstructure:"format"` // "text", "json" or "dot"
	Dir    string `yaml:"dir" mapstructure:"dir"`       // relative to the project root
}

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatDOT  = "dot"
)

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Paths: PathsConfig{
			Code: []string{
				"**/*.js",
				"**/*.ts",
				"**/*.jsx",
				"**/*.tsx",
				"**/*.c",
				"**/*.cpp",
				"**/*.cc",
				"**/*.h",
				"**/*.hpp",
				"**/*.glsl",
				"**/*.vert",
				"**/*.frag",
				"**/*.comp",
				"**/*.geom",
				"**/*.tesc",
				"**/*.tese",
				"**/*.rchit",
				"**/*.rgen",
				"**/*.rmiss",
				"**/*.slang",
				"**/*.py",
				"**/*.java",
				"**/*.cs",
				"**/*.go",
				"**/*.rust",
				"**/*.rs",
			},
			Ignore: []string{
				"node_modules/**",
				"vendor/**",
				".git/**",
				"dist/**",
				"build/**",
				"target/**",
				"__pycache__/**",
			},
			IncludeExtensionless: false,
		},
		Analysis: AnalysisConfig{
			MaxDepth:      10,
			MaxFiles:      5000,
			MinBodyLength: 10,
			ReadWorkers:   8,
		},
		Output: OutputConfig{
			Format: FormatText,
			Dir:    DirName,
		},
	}
}

// GetSourceExtensions extracts unique file extensions from code patterns.
// Returns extensions with leading dot (e.g., []string{".glsl", ".c"}).
func (c *Config) GetSourceExtensions() []string {
	seen := make(map[string]bool)
	var extensions []string
	for _, pattern := range c.Paths.Code {
		ext := extractExtension(pattern)
		if ext == "" || seen[ext] {
			continue
		}
		seen[ext] = true
		extensions = append(extensions, ext)
	}
	return extensions
}

// extractExtension extracts the file extension from a glob pattern.
// Examples: "**/*.glsl" -> ".glsl", "*.c" -> ".c", "src/main" -> ""
func extractExtension(pattern string) string {
	for i := len(pattern) - 1; i >= 1; i-- {
		if pattern[i] == '.' && pattern[i-1] == '*' {
			return pattern[i:]
		}
	}
	return ""
}
