package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"openpublish/internal/logging"
	"openpublish/internal/logs"
)

func newLogsCommand(ctx *commandContext) *cobra.Command {
	var lines int
	var follow bool
	var query logs.Query

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show the openpublish log",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			path := filepath.Join(cfg.Logging.Dir, logging.LogFileName)
			query.Limit = lines

			result, err := logs.Tail(cmd.Context(), path, query)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, line := range result.Lines {
				fmt.Fprintln(out, line)
			}
			if !follow {
				return nil
			}

			err = logs.Follow(cmd.Context(), path, result.Offset, query, logs.DefaultPollInterval, func(line string) error {
				_, err := fmt.Fprintln(out, line)
				return err
			})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}

	cmd.Flags().IntVarP(&lines, "lines", "n", 50, "Number of lines to show (0 for all)")
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Keep printing new lines")
	cmd.Flags().StringVar(&query.RunID, "run", "", "Only show lines from this run ID")
	cmd.Flags().StringVar(&query.Plugin, "plugin", "", "Only show lines mentioning this plugin")
	return cmd
}
