package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info [bag]",
	Short: "Print a bag's metadata",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	if inspectService == nil {
		return errors.New("inspect service not configured")
	}
	meta, err := inspectService.Info(context.Background(), args[0])
	if err != nil {
		return err
	}
	report.RenderInfo(cmd.OutOrStdout(), args[0], meta)
	return nil
}
