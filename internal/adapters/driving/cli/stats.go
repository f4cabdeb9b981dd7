package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
)

var statsTopics []string

var statsCmd = &cobra.Command{
	Use:   "stats [bag]",
	Short: "Print timestamp statistics for a bag",
	Long: `Scans a bag once and prints per-topic record-timestamp statistics:
message count, first and last stamp, mean period and the inter-arrival
delta range. Message payloads are never inspected.`,
	Args: cobra.ExactArgs(1),
	RunE: runStats,
}

func init() {
	statsCmd.Flags().StringSliceVar(&statsTopics, "topics", nil, "restrict to specific topics")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	if inspectService == nil {
		return errors.New("inspect service not configured")
	}
	res, err := inspectService.Stats(context.Background(), args[0], statsTopics)
	if err != nil {
		return err
	}
	report.RenderStats(cmd.OutOrStdout(), res)
	return nil
}
