package main

import (
	"context"
	"errors"
	"vcfclean/internal/cleaner"
	"vcfclean/internal/config"
	"vcfclean/pkg/logger"
	"vcfclean/pkg/serrors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// runClean runs one cleaning pass. An input without any record is reported
// and is not a failure.
func runClean(ctx context.Context, c cleaner.Cleaner, req cleaner.Request, reportPath string) error {
	res, err := c.Clean(ctx, req)
	if errors.Is(err, serrors.ErrEmptyInput) {
		logger.Warn(ctx, "no contacts loaded, nothing written", zap.String("input", req.Input))

		return nil
	}
	if err != nil {
		logger.Error(ctx, "could not clean contacts", zap.Error(err))

		return err
	}

	logger.Info(ctx, "processing complete",
		zap.String("valid", req.ValidOutput),
		zap.Int("validWritten", res.ValidWritten),
		zap.String("invalid", req.InvalidOutput),
		zap.Int("invalidWritten", res.InvalidWritten))
	logger.Info(ctx, "invalid contact reasons saved", zap.String("report", reportPath))

	return nil
}

func cleanCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean <input> <valid-output> <invalid-output>",
		Short: "Writes valid and invalid contacts to separate files and explains the rejections",
		Args:  cobra.ExactArgs(3), //nolint: mnd
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c, closeCleaner := newCleaner(ctx, cfg)
			defer closeCleaner()

			return runClean(ctx, c, cleaner.Request{
				Input:         args[0],
				ValidOutput:   args[1],
				InvalidOutput: args[2],
			}, cfg.Report.Path)
		},
	}

	return cmd
}
