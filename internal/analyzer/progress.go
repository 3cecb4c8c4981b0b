package analyzer

import "time"

// ProgressReporter provides callbacks for reporting analysis progress.
// Implementations can display progress bars, log messages, or remain silent.
type ProgressReporter interface {
	// OnDiscoveryStart is called when file discovery begins.
	OnDiscoveryStart()

	// OnDiscoveryComplete is called when file discovery finishes.
	OnDiscoveryComplete(scanned, codeFiles int)

	// OnFileProcessingStart is called before extracting functions from files.
	OnFileProcessingStart(totalFiles int)

	// OnFileProcessed is called after each file is extracted.
	OnFileProcessed(fileName string, functions int)

	// OnTreeBuilt is called once the dependency graph is expanded.
	OnTreeBuilt(nodes int, duration time.Duration)

	// OnComplete is called when analysis completes successfully.
	OnComplete(stats *Stats)
}

// NoOpProgressReporter is a progress reporter that does nothing.
// Used when progress reporting is disabled (e.g., --quiet flag).
type NoOpProgressReporter struct{}

func (n *NoOpProgressReporter) OnDiscoveryStart()                              {}
func (n *NoOpProgressReporter) OnDiscoveryComplete(scanned, codeFiles int)     {}
func (n *NoOpProgressReporter) OnFileProcessingStart(totalFiles int)           {}
func (n *NoOpProgressReporter) OnFileProcessed(fileName string, functions int) {}
func (n *NoOpProgressReporter) OnTreeBuilt(nodes int, duration time.Duration)  {}
func (n *NoOpProgressReporter) OnComplete(stats *Stats)                        {}
