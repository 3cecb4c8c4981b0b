package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/radosverse/shader-fn-dep-analyzer/internal/cache"
	"github.com/radosverse/shader-fn-dep-analyzer/internal/render"
)

var filterFlag string

// functionsCmd represents the functions command
var functionsCmd = &cobra.Command{
	Use:   "functions [directory]",
	Short: "List every function definition found",
	Long: `Functions scans the directory like analyze does and lists each function
name with the file that defines it. When a name is defined more than once,
only the first definition in path order is listed, the same one analyze
would use.

Examples:
  # List all functions in ./shaders
  fndep functions ./shaders

  # Only names containing "light", case-insensitive
  fndep functions --filter light
`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFunctions,
}

func init() {
	rootCmd.AddCommand(functionsCmd)
	functionsCmd.Flags().StringVar(&filterFlag, "filter", "", "Only list names containing this text (case-insensitive)")
	functionsCmd.Flags().IntVar(&maxFilesFlag, "max-files", 0, "Maximum number of files to scan (default from config: 5000)")
	functionsCmd.Flags().BoolVarP(&quietFlag, "quiet", "q", false, "Disable progress output and statistics")
}

func runFunctions(cmd *cobra.Command, args []string) error {
	rootDir, err := resolveDir(args, 0)
	if err != nil {
		return err
	}

	opts := analyzeOptions{
		rootDir:    rootDir,
		configFile: cfgFile,
		maxFiles:   maxFilesFlag,
		quiet:      quietFlag,
		logger:     logger,
	}

	s, err := newSession(opts, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	return s.listFunctions(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), filterFlag)
}

// listFunctions scans the directory and writes the functions whose names
// contain filter.
func (s *session) listFunctions(ctx context.Context, out, errOut io.Writer, filter string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	run, err := s.analyzer.Scan(ctx)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	records := filterRecords(run.Cache, filter)
	if err := render.Functions(out, records); err != nil {
		return err
	}

	if !s.opts.quiet {
		render.Stats(errOut, run.Stats)
	}
	return nil
}

// filterRecords returns the cached functions, in cache order, whose names
// contain filter case-insensitively. An empty filter keeps everything.
func filterRecords(c *cache.FunctionCache, filter string) []cache.FunctionRecord {
	filter = strings.ToLower(filter)

	var records []cache.FunctionRecord
	for _, name := range c.Names() {
		if filter != "" && !strings.Contains(strings.ToLower(name), filter) {
			continue
		}
		if rec, ok := c.Get(name); ok {
			records = append(records, rec)
		}
	}
	return records
}
