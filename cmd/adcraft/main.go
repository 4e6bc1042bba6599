package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/unclebandit/adcraft/internal/config"
	"github.com/unclebandit/adcraft/internal/generator"
	"github.com/unclebandit/adcraft/internal/logging"
	"github.com/unclebandit/adcraft/internal/queue"
	"github.com/unclebandit/adcraft/internal/repository"
	"github.com/unclebandit/adcraft/internal/service"
)

var (
	// Global flags
	cfgPath  string
	provider string
	verbose  bool

	logger *zap.Logger

	// openApp builds the application for one command. Tests replace it.
	openApp = openConfiguredApp
)

var rootCmd = &cobra.Command{
	Use:   "adcraft",
	Short: "Generate platform-tailored ad copy from the command line",
	Long: `adcraft turns a product description into headlines, descriptions and
calls to action for Google Ads, Facebook, Instagram, LinkedIn, TikTok or Email.

Results share the history of the web app when both point at the same storage.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := "warn"
		if verbose {
			level = "debug"
		}
		var err error
		logger, err = logging.New(level, true)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", envOr("ADCRAFT_CONFIG", "config.yaml"), "path to the YAML config file")
	rootCmd.PersistentFlags().StringVar(&provider, "provider", "", "override AI_PROVIDER (gemini, openai, mock)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output to stderr")

	historyCmd.AddCommand(historyListCmd, historyShowCmd, historyClearCmd)
	rootCmd.AddCommand(generateCmd, historyCmd, copyCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// openConfiguredApp wires storage, events and the model backend from config.
// The returned func releases them once the command is done.
func openConfiguredApp(ctx context.Context) (*service.App, func(), error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, nil, err
	}
	if provider != "" {
		cfg.AI.Provider = provider
		if err := cfg.Validate(); err != nil {
			return nil, nil, err
		}
	}

	driver, dsn := cfg.DSN()
	store, err := repository.OpenStorage(driver, dsn)
	if err != nil {
		return nil, nil, err
	}

	events, closeEvents, err := queue.OpenEvents(cfg.Queue.AMQPURL, store.LogRepository(), logger)
	if err != nil {
		store.Close()
		return nil, nil, err
	}

	llm, err := generator.NewLLMFromSettings(ctx, cfg.LLMSettings())
	if err != nil {
		closeEvents()
		store.Close()
		return nil, nil, err
	}
	client, err := generator.NewClient(llm)
	if err != nil {
		closeEvents()
		store.Close()
		return nil, nil, err
	}

	app := service.NewApp(client, store.KV, events, logger)
	return app, func() {
		closeEvents()
		store.Close()
	}, nil
}
