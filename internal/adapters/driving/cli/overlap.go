package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JoLichtenfeld/ros2bag-tools/internal/core/ports/driving"
)

var (
	overlapCrop      bool
	overlapOutputDir string
	overlapOutput    string
	overlapOverwrite bool
	overlapPlot      bool
	overlapMaxSize   int64
)

var overlapCmd = &cobra.Command{
	Use:   "overlap [bags...]",
	Short: "Find temporal overlap between bags and optionally crop them",
	Long: `Finds the time window shared by all given bags. Paths may be bag
directories, directories containing bags one level down, or glob
patterns. With --crop, each bag is rewritten restricted to the shared
window; bags already inside the window are copied verbatim.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runOverlap,
}

func init() {
	overlapCmd.Flags().BoolVar(&overlapCrop, "crop", false, "crop bags to the overlap window")
	overlapCmd.Flags().StringVar(&overlapOutputDir, "output-dir", "", "output directory for cropped bags (default \"cropped_bags\")")
	overlapCmd.Flags().StringVarP(&overlapOutput, "output", "o", "", "explicit output bag (single input only)")
	overlapCmd.Flags().BoolVar(&overlapOverwrite, "overwrite", false, "overwrite existing output bags without asking")
	overlapCmd.Flags().BoolVar(&overlapPlot, "plot", false, "plot the bag time ranges")
	overlapCmd.Flags().Int64Var(&overlapMaxSize, "max-size", 0, "maximum output segment size in bytes (default 1 GiB)")
	rootCmd.AddCommand(overlapCmd)
}

func runOverlap(cmd *cobra.Command, args []string) error {
	if overlapService == nil {
		return errors.New("overlap service not configured")
	}
	paths := expandGlobs(args)
	ctx := context.Background()
	w := cmd.OutOrStdout()

	if !overlapCrop {
		res, err := overlapService.FindOverlap(ctx, paths)
		if err != nil {
			return err
		}
		report.RenderOverlap(w, res, overlapPlot)
		return nil
	}

	opts := driving.CropOptions{
		OutputDir:       overlapOutputDir,
		Output:          overlapOutput,
		Overwrite:       overlapOverwrite,
		MaxSegmentBytes: overlapMaxSize,
	}
	if opts.OutputDir == "" {
		opts.OutputDir = defaultOutputDir
	}
	if opts.MaxSegmentBytes == 0 {
		opts.MaxSegmentBytes = defaultMaxSegment
	}

	res, crop, err := overlapService.CropToOverlap(ctx, paths, opts)
	if res != nil {
		report.RenderOverlap(w, res, overlapPlot)
	}
	if err != nil {
		return err
	}
	report.RenderCrop(w, crop)
	if !crop.OK() {
		return fmt.Errorf("cropped %d/%d bags", crop.Succeeded, crop.Total)
	}
	return nil
}
