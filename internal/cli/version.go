package cli

import (
	"fmt"
	"io"
	"runtime/debug"

	"github.com/spf13/cobra"
)

var (
	// Set via -ldflags at release build time.
	Version   = "dev"
	GitCommit = "none"
	BuildDate = "unknown"
)

var shortVersionFlag bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of fndep",
	Long: `Version prints the release, commit and build date of this binary.
Builds made with "go install" carry no ldflags, so the module version and
VCS revision recorded by the Go toolchain are used instead.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		info := currentBuild()
		if shortVersionFlag {
			fmt.Fprintln(cmd.OutOrStdout(), info.version)
			return
		}
		info.write(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().BoolVar(&shortVersionFlag, "short", false, "Print only the version")

	rootCmd.Version = currentBuild().version
	rootCmd.SetVersionTemplate("fndep {{.Version}}\n")
}

// buildInfo is the version triple reported by the binary.
type buildInfo struct {
	version string
	commit  string
	date    string
}

// currentBuild returns the ldflags values, falling back to the module
// metadata embedded by the toolchain for anything left at its default.
func currentBuild() buildInfo {
	info := buildInfo{version: Version, commit: GitCommit, date: BuildDate}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	if info.version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.commit == "none" && s.Value != "" {
				info.commit = s.Value
			}
		case "vcs.time":
			if info.date == "unknown" && s.Value != "" {
				info.date = s.Value
			}
		}
	}
	return info
}

func (b buildInfo) write(w io.Writer) {
	fmt.Fprintf(w, "fndep %s\n", b.version)
	fmt.Fprintf(w, "Git commit: %s\n", b.commit)
	fmt.Fprintf(w, "Build date: %s\n", b.date)
}
