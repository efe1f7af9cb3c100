package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"vcfclean/internal/cleaner"
	"vcfclean/internal/config"
	"vcfclean/pkg/logger"
	"vcfclean/pkg/serrors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// runCheck analyzes input without writing anything and prints the report to out.
func runCheck(ctx context.Context, c cleaner.Cleaner, input string, out io.Writer) error {
	res, err := c.Check(ctx, input)
	if errors.Is(err, serrors.ErrEmptyInput) {
		logger.Warn(ctx, "no contacts loaded", zap.String("input", input))
		_, err = fmt.Fprintln(out, "no contacts found")

		return err
	}
	if err != nil {
		logger.Error(ctx, "could not check contacts", zap.Error(err))

		return err
	}

	if _, err := io.WriteString(out, res.Report); err != nil {
		return fmt.Errorf("could not print report: %w", err)
	}
	_, err = fmt.Fprintf(out, "%d contacts: %d valid, %d invalid\n",
		res.Records, len(res.Classified.Valid), len(res.Classified.Invalid))

	return err
}

func checkCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <input>",
		Short: "Prints the explanation report without writing any file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c, closeCleaner := newCleaner(ctx, cfg)
			defer closeCleaner()

			return runCheck(ctx, c, args[0], cmd.OutOrStdout())
		},
	}

	return cmd
}
