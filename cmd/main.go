// Package main provides the CLI entrypoint for vcfclean.
// It wires subcommands (clean, check), loads configuration, and initializes logging.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"vcfclean/internal/cleaner"
	"vcfclean/internal/config"
	"vcfclean/pkg/logger"
	"vcfclean/pkg/metrics"
	"vcfclean/pkg/storage/filesystem"
	"vcfclean/pkg/vcard"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// newCleaner creates a Cleaner on the local filesystem using configuration
// values and returns it along with a cleanup function that flushes metrics.
func newCleaner(ctx context.Context, cfg *config.Config) (cleaner.Cleaner, func()) {
	recorder := metrics.Nop()
	if cfg.Metrics.TextfilePath != "" {
		var err error
		if recorder, err = metrics.New(); err != nil {
			logger.Fatal(ctx, "could not create metrics recorder", zap.Error(err))
		}
	}

	c := cleaner.New(
		filesystem.New(filesystem.Options{}),
		vcard.New(vcard.Options{DefaultVersion: cfg.VCard.DefaultVersion}),
		recorder,
		cleaner.NewOptions(cfg),
	)

	return c, func() {
		if err := recorder.Shutdown(ctx); err != nil {
			logger.Warn(ctx, "could not shutdown metrics recorder", zap.Error(err))
		}
	}
}

// main sets up the root Cobra command, loads configuration and logging, and
// registers subcommands before executing the CLI.
func main() {
	rootCmd := &cobra.Command{
		Use:          "vcfclean",
		Short:        "Splits a vCard file into valid and invalid contacts",
		SilenceUsage: true,
	}

	// there is no way to access flags before command execution in cobra.
	// configPath here is parsed using the standard flags package.
	// following line is just added to prevent errors when Cobra is parsing the flags.
	rootCmd.PersistentFlags().StringP("config", "c", "config.yml", "Config File Path")

	configPath := flag.String("c", "config.yml", "The config file path")
	flag.Parse()

	// a missing .env is fine, the environment may already be set.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("could not load config file: ", err)
	}

	logger.Setup(cfg.Environment)

	ctx := context.Background()

	defer func() {
		if p := recover(); p != nil {
			logger.Error(ctx, "captured panic, exiting...", zap.Any("panic", p))
			logger.Sync(ctx)

			panic(p)
		}
	}()

	rootCmd.AddCommand(
		cleanCommand(cfg),
		checkCommand(cfg),
	)

	err = rootCmd.ExecuteContext(ctx)
	logger.Sync(ctx)
	if err != nil {
		os.Exit(1) //nolint: gocritic
	}
}
