// Package cli implements the cobra command surface. Commands talk to
// the core through the driving ports; concrete services are wired in
// Execute and swapped for mocks in tests.
package cli

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/JoLichtenfeld/ros2bag-tools/internal/adapters/driven/config/file"
	"github.com/JoLichtenfeld/ros2bag-tools/internal/adapters/driven/plot"
	"github.com/JoLichtenfeld/ros2bag-tools/internal/adapters/driven/storage"
	"github.com/JoLichtenfeld/ros2bag-tools/internal/adapters/driven/term"
	"github.com/JoLichtenfeld/ros2bag-tools/internal/core/ports/driving"
	"github.com/JoLichtenfeld/ros2bag-tools/internal/core/services"
	"github.com/JoLichtenfeld/ros2bag-tools/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Services used by the commands. Package-level so tests can swap in
// mocks.
var (
	overlapService driving.OverlapService
	splitService   driving.SplitService
	inspectService driving.InspectService
	report         driving.ReportRenderer

	defaultOutputDir  = "cropped_bags"
	defaultMaxSegment = int64(1024 * 1024 * 1024)
)

var verboseFlag bool

var rootCmd = &cobra.Command{
	Use:   "ros2bag-tools",
	Short: "Find temporal overlap between bags and crop them",
	Long: `Tools for working with recorded bag files: find the temporal overlap
between independently recorded bags, crop them to the shared window,
split bags into size-capped segments, and inspect their contents.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verboseFlag)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable verbose logging")
}

// Execute wires the concrete adapters into the services and runs the
// root command.
func Execute() error {
	store := storage.New()
	discovery := services.NewDiscovery(store)
	resolver := services.NewTimeRangeResolver(store)

	out := rootCmd.OutOrStdout()
	cropper := services.NewCropper(store, term.New(), out)
	overlapService = services.NewOverlapService(discovery, resolver, cropper)
	splitService = services.NewSplitter(discovery, store, out)
	inspectService = services.NewInspector(store)
	report = services.NewReport(plot.New(out))

	if cfg, err := file.NewConfigStore(""); err == nil {
		defaultOutputDir = cfg.OutputDir()
		defaultMaxSegment = cfg.MaxSegmentBytes()
	} else {
		logger.Warn("config unavailable, using built-in defaults: %v", err)
	}

	return rootCmd.Execute()
}

// expandGlobs turns glob patterns into concrete paths, leaving
// non-matching arguments untouched so discovery reports them as
// missing.
func expandGlobs(args []string) []string {
	var paths []string
	for _, arg := range args {
		arg = filepath.Clean(arg)
		matches, err := filepath.Glob(arg)
		if err != nil || len(matches) == 0 {
			paths = append(paths, arg)
			continue
		}
		paths = append(paths, matches...)
	}
	return paths
}
