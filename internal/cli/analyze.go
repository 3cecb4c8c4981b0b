package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/radosverse/shader-fn-dep-analyzer/internal/analyzer"
	"github.com/radosverse/shader-fn-dep-analyzer/internal/config"
	"github.com/radosverse/shader-fn-dep-analyzer/internal/extract"
	"github.com/radosverse/shader-fn-dep-analyzer/internal/render"
	"github.com/radosverse/shader-fn-dep-analyzer/internal/scanner"
	"github.com/radosverse/shader-fn-dep-analyzer/internal/watcher"
)

var (
	depthFlag    int
	maxFilesFlag int
	formatFlag   string
	quietFlag    bool
	saveFlag     bool
	watchFlag    bool
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze <function> [directory]",
	Short: "Resolve a function and all of its dependencies",
	Long: `Analyze scans the directory (default: current directory) for source files,
extracts every function definition and walks the calls made by the named
function, breadth first, up to the depth limit.

The text output is a tree of the resolved functions grouped by file,
followed by every body in dependency order (leaf functions first) and a
list of calls that had no definition.

Examples:
  # Resolve "main" in the current directory
  fndep analyze main

  # Resolve a shader entry point in another directory, three levels deep
  fndep analyze fragment ./shaders --depth 3

  # Emit JSON and keep a copy in .fndep/
  fndep analyze main --format json --save

  # Re-run whenever a source file changes
  fndep analyze main --watch
`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().IntVarP(&depthFlag, "depth", "d", 0, "Maximum dependency depth (default from config: 10)")
	analyzeCmd.Flags().IntVar(&maxFilesFlag, "max-files", 0, "Maximum number of files to scan (default from config: 5000)")
	analyzeCmd.Flags().StringVarP(&formatFlag, "format", "f", "", "Output format: text, json or dot (default from config: text)")
	analyzeCmd.Flags().BoolVarP(&quietFlag, "quiet", "q", false, "Disable progress output and statistics")
	analyzeCmd.Flags().BoolVar(&saveFlag, "save", false, "Save the result as JSON in the output directory")
	analyzeCmd.Flags().BoolVarP(&watchFlag, "watch", "w", false, "Watch for file changes and re-run the analysis")
}

// analyzeOptions holds everything a run needs besides its writers.
// Zero values of the overrides keep the configured value.
type analyzeOptions struct {
	rootDir    string
	function   string
	configFile string
	depth      int
	maxFiles   int
	format     string
	quiet      bool
	save       bool
	logger     *slog.Logger
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	// Set up context with cancellation for Ctrl+C
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case <-sigChan:
			fmt.Fprintln(cmd.ErrOrStderr(), "\nInterrupted! Cancelling analysis...")
			cancel()
		case <-ctx.Done():
		}
	}()

	rootDir, err := resolveDir(args, 1)
	if err != nil {
		return err
	}

	opts := analyzeOptions{
		rootDir:    rootDir,
		function:   args[0],
		configFile: cfgFile,
		depth:      depthFlag,
		maxFiles:   maxFilesFlag,
		format:     formatFlag,
		quiet:      quietFlag,
		save:       saveFlag,
		logger:     logger,
	}

	s, err := newSession(opts, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	if watchFlag {
		return s.watch(ctx, cmd.OutOrStdout(), cmd.ErrOrStderr())
	}
	return s.analyze(ctx, cmd.OutOrStdout(), cmd.ErrOrStderr())
}

// session is a configured analyzer for one directory. It is reused across
// runs in watch mode.
type session struct {
	opts      analyzeOptions
	cfg       *config.Config
	discovery *scanner.FileDiscovery
	analyzer  *analyzer.Analyzer
	logger    *slog.Logger
}

// newSession loads the configuration, applies the overrides and builds the
// analyzer. Progress goes to progressOut.
func newSession(opts analyzeOptions, progressOut io.Writer) (*session, error) {
	log := opts.logger
	if log == nil {
		log = slog.Default()
	}

	cfg, err := loadConfig(opts.rootDir, opts.configFile)
	if err != nil {
		return nil, err
	}

	if opts.depth != 0 {
		cfg.Analysis.MaxDepth = opts.depth
	}
	if opts.maxFiles != 0 {
		cfg.Analysis.MaxFiles = opts.maxFiles
	}
	if opts.format != "" {
		cfg.Output.Format = opts.format
	}
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	fd, err := cfg.NewFileDiscovery(opts.rootDir, scanner.WithDiscoveryLogger(log))
	if err != nil {
		return nil, fmt.Errorf("failed to create file discovery: %w", err)
	}
	reader := cfg.NewReader(opts.rootDir, scanner.WithReaderLogger(log))

	a := analyzer.New(fd, reader,
		analyzer.WithMaxDepth(cfg.Analysis.MaxDepth),
		analyzer.WithExtractor(extract.NewFunctionExtractor(
			extract.WithMinBodyLength(cfg.Analysis.MinBodyLength),
		)),
		analyzer.WithLogger(log),
		analyzer.WithProgress(NewCLIProgressReporter(progressOut, opts.quiet)),
	)

	return &session{
		opts:      opts,
		cfg:       cfg,
		discovery: fd,
		analyzer:  a,
		logger:    log,
	}, nil
}

// outputDir returns the absolute output directory.
func (s *session) outputDir() string {
	if filepath.IsAbs(s.cfg.Output.Dir) {
		return s.cfg.Output.Dir
	}
	return filepath.Join(s.opts.rootDir, s.cfg.Output.Dir)
}

// outputDirInRoot returns the output directory relative to the analyzed
// root. ok is false when it lies outside the root or is the root itself.
func (s *session) outputDirInRoot() (string, bool) {
	rel, err := filepath.Rel(s.opts.rootDir, s.outputDir())
	if err != nil {
		return "", false
	}
	rel = filepath.ToSlash(rel)
	if rel == "." || rel == ".." || strings.HasPrefix(rel, "../") {
		return "", false
	}
	return rel, true
}

// analyze runs one analysis and writes the rendered result to out. Progress,
// statistics and notices go to errOut. A root without a definition is
// reported as an error after the statistics.
func (s *session) analyze(ctx context.Context, out, errOut io.Writer) error {
	res, err := s.analyzer.Analyze(ctx, s.opts.function)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("analysis cancelled")
		}
		return fmt.Errorf("analysis failed: %w", err)
	}

	if !res.RootFound {
		if !s.opts.quiet {
			render.Stats(errOut, res.Stats)
		}
		if res.NoCodeFiles() {
			return fmt.Errorf("%w (%w in %s)", res.Err(), analyzer.ErrNoFiles, s.opts.rootDir)
		}
		return res.Err()
	}

	if err := render.Write(out, s.cfg.Output.Format, res, s.opts.rootDir); err != nil {
		return fmt.Errorf("failed to render result: %w", err)
	}

	if s.opts.save {
		store, err := analyzer.NewStorage(s.outputDir())
		if err != nil {
			return err
		}
		if err := store.Save(res); err != nil {
			return err
		}
		if !s.opts.quiet {
			fmt.Fprintf(errOut, "✓ Result saved to %s\n", store.Path())
		}
	}

	if !s.opts.quiet {
		render.Stats(errOut, res.Stats)
	}
	return nil
}

// watch runs the analysis once, then again after every batch of changes to
// matching files, until ctx is cancelled. Failed runs are reported and do
// not end the watch.
func (s *session) watch(ctx context.Context, out, errOut io.Writer) error {
	if err := s.analyze(ctx, out, errOut); err != nil && ctx.Err() == nil {
		fmt.Fprintln(errOut, "Error:", err)
	}

	watchOpts := []watcher.Option{
		watcher.WithSkipDirs(".git"),
		watcher.WithLogger(s.logger),
	}
	if rel, ok := s.outputDirInRoot(); ok {
		watchOpts = append(watchOpts, watcher.WithSkipPaths(rel))
	}

	fw, err := watcher.NewFileWatcher(s.opts.rootDir, s.discovery.Matches, watchOpts...)
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer fw.Stop()

	err = fw.Start(ctx, func(files []string) {
		s.logger.Info("change detected", "files", files)
		if !s.opts.quiet {
			fmt.Fprintf(errOut, "\nChange detected in %d file(s), re-analyzing...\n", len(files))
		}
		if err := s.analyze(ctx, out, errOut); err != nil && ctx.Err() == nil {
			fmt.Fprintln(errOut, "Error:", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to start file watcher: %w", err)
	}

	if !s.opts.quiet {
		fmt.Fprintln(errOut, "Watching for changes (Ctrl+C to stop)...")
	}

	<-ctx.Done()

	if !s.opts.quiet {
		fmt.Fprintln(errOut, "Watch mode stopped")
	}
	return nil
}
