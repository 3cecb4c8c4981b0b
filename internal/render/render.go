// Package render formats analysis results for the terminal and for other
// tools: a dependency tree grouped by file, a flattened listing of bodies in
// dependency order, JSON and Graphviz DOT.
package render

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/radosverse/shader-fn-dep-analyzer/internal/analyzer"
	"github.com/radosverse/shader-fn-dep-analyzer/internal/cache"
	"github.com/radosverse/shader-fn-dep-analyzer/internal/config"
	"github.com/radosverse/shader-fn-dep-analyzer/internal/graph"
)

// ErrNoGraph indicates a result without its graph, such as one loaded from
// disk, was passed to a renderer that needs it.
var ErrNoGraph = errors.New("result has no dependency graph")

const (
	boxWidth   = 75
	bannerRule = 76
)

// Write renders res in the given format. The text format is the tree
// followed by the flattened listing.
func Write(w io.Writer, format string, res *analyzer.Result, searchPath string) error {
	switch strings.ToLower(format) {
	case config.FormatJSON:
		return JSON(w, res)
	case config.FormatDOT:
		return DOT(w, res)
	case config.FormatText, "":
		if err := Tree(w, res); err != nil {
			return err
		}
		if _, err := io.WriteString(w, "\n\n"); err != nil {
			return err
		}
		return Flattened(w, res, searchPath)
	default:
		return fmt.Errorf("%w: %s", config.ErrInvalidFormat, format)
	}
}

// Tree writes the functions grouped by source file, each with the calls it
// makes to other resolved functions.
func Tree(w io.Writer, res *analyzer.Result) error {
	var b strings.Builder

	title := "╔═ Dependency Tree "
	b.WriteString(title + strings.Repeat("═", boxWidth-len([]rune(title))-1) + "╗\n")
	fmt.Fprintf(&b, "Root function: %s\n\n", res.Root)

	files, groups := res.ByLocation()
	for _, file := range files {
		fmt.Fprintf(&b, "%s\n", file)
		for _, fn := range groups[file] {
			if fn.Root {
				fmt.Fprintf(&b, "  ★ %s() [ROOT]\n", fn.Name)
			} else {
				fmt.Fprintf(&b, "  ├─ %s()\n", fn.Name)
			}
			for i, call := range fn.Dependencies {
				prefix := "├──"
				if i == len(fn.Dependencies)-1 {
					prefix = "└──"
				}
				fmt.Fprintf(&b, "    %s calls: %s()\n", prefix, call)
			}
		}
		b.WriteString("\n")
	}

	if len(res.Unresolved) > 0 {
		b.WriteString("✗ Not found:\n")
		for _, name := range res.Unresolved {
			fmt.Fprintf(&b, "  ├─ %s()\n", name)
		}
		b.WriteString("\n")
	}

	b.WriteString("╚" + strings.Repeat("═", boxWidth-2) + "╝\n")
	fmt.Fprintf(&b, "Total: %d functions found, %d not found\n", len(res.Functions), len(res.Unresolved))

	_, err := io.WriteString(w, b.String())
	return err
}

// Flattened writes every resolved body in dependency order, leaves first,
// each under a comment banner naming its source and calls.
func Flattened(w io.Writer, res *analyzer.Result, searchPath string) error {
	var b strings.Builder
	rule := "// " + strings.Repeat("=", bannerRule) + "\n"

	b.WriteString("// Function definitions with dependencies\n")
	fmt.Fprintf(&b, "// Search path: %s\n", searchPath)
	b.WriteString("// Ordered bottom-up by dependencies (leaf functions first)\n")
	fmt.Fprintf(&b, "// Total unique functions: %d\n\n", len(res.Functions))

	for _, fn := range res.Functions {
		b.WriteString(rule)
		fmt.Fprintf(&b, "// Function: %s\n", fn.Name)
		fmt.Fprintf(&b, "// Source: %s\n", fn.Location)
		if len(fn.Calls) > 0 {
			fmt.Fprintf(&b, "// Calls: %s\n", strings.Join(fn.Calls, ", "))
		}
		if fn.Root {
			b.WriteString("// [ROOT FUNCTION]\n")
		}
		b.WriteString(rule + "\n")
		b.WriteString(fn.Body)
		b.WriteString("\n\n")
	}

	if len(res.Unresolved) > 0 {
		b.WriteString("\n" + rule)
		b.WriteString("// NOT FOUND FUNCTIONS\n")
		b.WriteString(rule)
		for _, name := range res.Unresolved {
			fmt.Fprintf(&b, "// - %s\n", name)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// JSON writes res as indented JSON.
func JSON(w io.Writer, res *analyzer.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	return nil
}

// DOT writes the dependency graph of res in Graphviz format.
func DOT(w io.Writer, res *analyzer.Result) error {
	if res.Graph == nil {
		return ErrNoGraph
	}
	return graph.WriteDOT(w, res.Graph)
}

// Stats writes the one-line run summary.
func Stats(w io.Writer, s analyzer.Stats) error {
	line := fmt.Sprintf("Files scanned: %d | Files processed: %d | Functions found: %d",
		s.FilesScanned, s.FilesProcessed, s.FunctionsFound)
	if s.DependenciesFound > 0 {
		line += fmt.Sprintf(" | Dependencies: %d", s.DependenciesFound)
	}
	if s.ReadErrors > 0 {
		line += fmt.Sprintf(" | Read errors: %d", s.ReadErrors)
	}
	_, err := fmt.Fprintln(w, line)
	return err
}

// Functions writes one row per cached function: name and location.
func Functions(w io.Writer, records []cache.FunctionRecord) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FUNCTION\tLOCATION")
	for _, rec := range records {
		fmt.Fprintf(tw, "%s\t%s\n", rec.Name, rec.Location)
	}
	return tw.Flush()
}
