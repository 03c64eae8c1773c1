package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/phrazzld/wallet-wrapped/internal/app"
	"github.com/phrazzld/wallet-wrapped/internal/config"
	"github.com/phrazzld/wallet-wrapped/internal/platform/logger"
	"github.com/phrazzld/wallet-wrapped/internal/platform/postgres"
	"github.com/spf13/cobra"
)

// options are the persistent flags shared by every command.
type options struct {
	configPath string
	logLevel   string
}

func rootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:           "wrapctl",
		Short:         "Generate and inspect wallet wrapped decks",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Override the configured log level")

	cmd.AddCommand(
		generateCmd(opts),
		latestCmd(opts),
		collectionCmd(opts),
		generatorsCmd(opts),
		migrateCmd(opts),
	)
	return cmd
}

func generateCmd(opts *options) *cobra.Command {
	var (
		force     bool
		generator string
	)
	cmd := &cobra.Command{
		Use:   "generate <address>",
		Short: "Generate a deck, or a single card with --generator",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app.App) error {
				if generator != "" {
					card, err := a.Service.GenerateCard(ctx, args[0], generator)
					if err != nil {
						return err
					}
					return printJSON(cmd.OutOrStdout(), card)
				}
				deck, err := a.Service.GenerateDeck(ctx, args[0], force)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), deck)
			})
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Regenerate even when a cached collection exists")
	cmd.Flags().StringVarP(&generator, "generator", "g", "", "Run only this generator and upsert its card")
	return cmd
}

func latestCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "latest <address>",
		Short: "Print the most recently archived deck",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app.App) error {
				deck, err := a.Service.LatestDeck(ctx, args[0])
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), deck)
			})
		},
	}
}

func collectionCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "collection <address>",
		Short: "Print the cached card collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app.App) error {
				c, err := a.Service.Collection(ctx, args[0])
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), c)
			})
		},
	}
}

func generatorsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "generators",
		Short: "List the registered generators",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(_ context.Context, a *app.App) error {
				return printJSON(cmd.OutOrStdout(), a.Service.Generators())
			})
		},
	}
}

func migrateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down|reset|status|version]",
		Short:     "Manage the Postgres archive schema",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "down", "reset", "status", "version"},
		RunE: func(cmd *cobra.Command, args []string) error {
			command := "up"
			if len(args) == 1 {
				command = args[0]
			}

			cfg, l, err := loadConfig(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if cfg.Archive.DatabaseURL == "" {
				return fmt.Errorf("archive.database_url is required for migrations")
			}

			ctx := cmd.Context()
			db, err := postgres.Open(ctx, cfg.Archive.DatabaseURL)
			if err != nil {
				return err
			}
			defer func() {
				if cerr := db.Close(); cerr != nil {
					l.Error("failed to close database", "error", cerr)
				}
			}()

			return postgres.Migrate(ctx, db, command, l)
		},
	}
}

// loadConfig loads configuration and sets up a logger writing to w, so
// command output on stdout stays machine readable.
func loadConfig(opts *options, w io.Writer) (*config.Config, *slog.Logger, error) {
	cfg, err := config.LoadFrom(opts.configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if opts.logLevel != "" {
		cfg.Server.LogLevel = opts.logLevel
	}
	l, err := logger.SetupWithWriter(cfg.Server, w)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up logger: %w", err)
	}
	return cfg, l, nil
}

// withApp builds the application, runs fn and releases the application.
func withApp(cmd *cobra.Command, opts *options, fn func(context.Context, *app.App) error) error {
	cfg, l, err := loadConfig(opts, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := app.New(ctx, cfg, l)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(ctx, a)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

