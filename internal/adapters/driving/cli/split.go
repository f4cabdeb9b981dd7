package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/JoLichtenfeld/ros2bag-tools/internal/core/ports/driving"
)

var (
	splitOutput   string
	splitMaxSize  int64
	splitInPlace  bool
	splitValidate bool
)

var splitCmd = &cobra.Command{
	Use:   "split [bags...]",
	Short: "Split bags into size-capped segments",
	Long: `Rewrites each bag into segments no larger than --max-size bytes.
Message content and topic schemas are preserved; only the physical
file layout changes.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSplit,
}

func init() {
	splitCmd.Flags().StringVarP(&splitOutput, "output", "o", "", "output bag name (single input only)")
	splitCmd.Flags().Int64Var(&splitMaxSize, "max-size", 1000000000, "maximum segment size in bytes")
	splitCmd.Flags().BoolVar(&splitInPlace, "inplace", false, "replace the original bag with the split version")
	splitCmd.Flags().BoolVar(&splitValidate, "validate", true, "validate message count after splitting")
	rootCmd.AddCommand(splitCmd)
}

func runSplit(cmd *cobra.Command, args []string) error {
	if splitService == nil {
		return errors.New("split service not configured")
	}
	cmd.Printf("Splitting with max segment size %s\n", humanize.IBytes(uint64(splitMaxSize)))

	res, err := splitService.Split(context.Background(), expandGlobs(args), driving.SplitOptions{
		Output:          splitOutput,
		MaxSegmentBytes: splitMaxSize,
		InPlace:         splitInPlace,
		Validate:        splitValidate,
	})
	if err != nil {
		return err
	}
	report.RenderSplit(cmd.OutOrStdout(), res)
	if !res.OK() {
		return fmt.Errorf("split %d/%d bags", res.Succeeded, res.Total)
	}
	return nil
}
