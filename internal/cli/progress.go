package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/radosverse/shader-fn-dep-analyzer/internal/analyzer"
)

// CLIProgressReporter implements progress reporting with a progress bar.
type CLIProgressReporter struct {
	w              io.Writer
	quiet          bool
	fileBar        *progressbar.ProgressBar
	startTime      time.Time
	totalFiles     int
	processedFiles int
	functions      int
}

var _ analyzer.ProgressReporter = (*CLIProgressReporter)(nil)

// NewCLIProgressReporter creates a reporter that writes to w.
func NewCLIProgressReporter(w io.Writer, quiet bool) *CLIProgressReporter {
	return &CLIProgressReporter{
		w:         w,
		quiet:     quiet,
		startTime: time.Now(),
	}
}

func (c *CLIProgressReporter) OnDiscoveryStart() {
	if c.quiet {
		return
	}
	c.startTime = time.Now()
	fmt.Fprintln(c.w, "Discovering files...")
}

func (c *CLIProgressReporter) OnDiscoveryComplete(scanned, codeFiles int) {
	if c.quiet {
		return
	}
	fmt.Fprintf(c.w, "Processing %d code files (%d files scanned)\n", codeFiles, scanned)
}

func (c *CLIProgressReporter) OnFileProcessingStart(totalFiles int) {
	if c.quiet {
		return
	}
	c.totalFiles = totalFiles
	c.processedFiles = 0
	c.functions = 0
	c.fileBar = nil
	if totalFiles <= 0 {
		return
	}

	c.fileBar = progressbar.NewOptions(totalFiles,
		progressbar.OptionSetWriter(c.w),
		progressbar.OptionSetDescription("Extracting functions"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("files/s"),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(c.w)
		}),
	)
}

func (c *CLIProgressReporter) OnFileProcessed(fileName string, functions int) {
	if c.quiet {
		return
	}
	c.processedFiles++
	c.functions += functions
	if c.fileBar != nil {
		c.fileBar.Add(1)
	}
}

func (c *CLIProgressReporter) OnTreeBuilt(nodes int, duration time.Duration) {
	if c.quiet {
		return
	}
	if c.fileBar != nil {
		c.fileBar.Finish()
		c.fileBar = nil
	}
	fmt.Fprintf(c.w, "✓ Dependency tree built: %d functions (took %s)\n", nodes, duration.Round(time.Microsecond))
}

func (c *CLIProgressReporter) OnComplete(stats *analyzer.Stats) {
	if c.quiet {
		return
	}
	fmt.Fprintf(c.w, "✓ Analysis complete in %.2fs\n", time.Since(c.startTime).Seconds())
}
