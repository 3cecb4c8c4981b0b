package analyzer

import (
	"fmt"
	"time"

	"github.com/radosverse/shader-fn-dep-analyzer/internal/graph"
)

// Stats summarizes one run.
type Stats struct {
	FilesScanned      int `json:"files_scanned"`      // files charged against the budget
	FilesProcessed    int `json:"files_processed"`    // code files read and extracted
	FunctionsFound    int `json:"functions_found"`    // distinct names in the cache
	DependenciesFound int `json:"dependencies_found"` // graph nodes, stubs included
	ReadErrors        int `json:"read_errors"`
}

// Function is one resolved function in dependency order.
type Function struct {
	Name         string   `json:"name"`
	Location     string   `json:"location"`
	Calls        []string `json:"calls"`        // every call in the body
	Dependencies []string `json:"dependencies"` // calls resolved within the graph
	Depth        int      `json:"depth"`
	Root         bool     `json:"root,omitempty"`
	Body         string   `json:"body"`
}

// Result is the outcome of analyzing one root function.
type Result struct {
	Version     string    `json:"version"`
	RunID       string    `json:"run_id"`
	GeneratedAt time.Time `json:"generated_at"`

	Root      string `json:"root"`
	RootFound bool   `json:"root_found"`
	MaxDepth  int    `json:"max_depth"`

	// Functions are the resolved functions, callees before callers.
	Functions  []Function `json:"functions"`
	Sorted     []string   `json:"sorted"`
	Unresolved []string   `json:"unresolved"`
	Cycles     [][]string `json:"cycles,omitempty"`

	Fingerprint string `json:"fingerprint"`
	Stats       Stats  `json:"stats"`

	// Graph is the expanded graph; it is not persisted.
	Graph *graph.DependencyGraph `json:"-"`
}

// Err returns ErrRootNotFound, wrapped with the name, when the root has no
// definition. The result is still complete in that case.
func (r *Result) Err() error {
	if r.RootFound {
		return nil
	}
	return fmt.Errorf("%w: '%s'", ErrRootNotFound, r.Root)
}

// NoCodeFiles reports whether the run had no code files to extract from,
// in which case the root cannot have been found.
func (r *Result) NoCodeFiles() bool {
	return r.Stats.FilesProcessed == 0 && r.Stats.ReadErrors == 0
}

// ByLocation groups the resolved functions by source file. Files are
// returned in order of first appearance in dependency order, so the file
// holding the first leaf comes first. Functions keep dependency order
// within a file.
func (r *Result) ByLocation() ([]string, map[string][]Function) {
	groups := make(map[string][]Function)
	var files []string
	for _, fn := range r.Functions {
		if _, ok := groups[fn.Location]; !ok {
			files = append(files, fn.Location)
		}
		groups[fn.Location] = append(groups[fn.Location], fn)
	}
	return files, groups
}
