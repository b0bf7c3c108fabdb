package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/vecsearch/internal/config"
	"github.com/kailas-cloud/vecsearch/internal/console"
	logpkg "github.com/kailas-cloud/vecsearch/internal/logger"
	"github.com/kailas-cloud/vecsearch/internal/metrics"
	"github.com/kailas-cloud/vecsearch/internal/usecase/orchestrator"
	"github.com/kailas-cloud/vecsearch/internal/version"
)

const skipSetup = "skip-setup"

// app carries state shared by all subcommands after PersistentPreRunE.
type app struct {
	configPath string
	env        string
	assumeYes  bool

	cfg    config.Config
	logger *zap.Logger
}

func main() {
	if err := newRootCmd(&app{}).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "vecsearch",
		Short:         "Semantic movie search over a MongoDB vector search index",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Annotations[skipSetup] != "" {
				return nil
			}
			return a.setup(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "path to config file (default config/<env>.yaml)")
	root.PersistentFlags().StringVar(&a.env, "env", "", "environment name (default $ENV or local)")
	root.PersistentFlags().BoolVarP(&a.assumeYes, "yes", "y", false, "answer yes to every prompt")

	root.AddCommand(newRunCmd(a), newIndexesCmd(a), newDropCmd(a), newVersionCmd())
	return root
}

// setup loads .env, the config and the logger, and registers metrics.
func (a *app) setup(cmd *cobra.Command) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	if a.env == "" {
		a.env = config.GetEnv()
	}

	cfg, err := config.Load(a.configPath, a.env)
	if err != nil {
		console.NewPrinter(cmd.ErrOrStderr()).Fatalf("%v", err)
		return err
	}
	a.cfg = cfg

	logger, err := logpkg.NewLogger(a.env, cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	a.logger = logger

	metrics.Register()

	logger.Debug("Configuration loaded",
		zap.String("version", version.Version),
		zap.String("env", a.env),
		zap.String("database", cfg.Database.Name),
		zap.String("collection", cfg.Database.Collection),
		zap.String("index", cfg.Index.Name),
		zap.String("embedding_provider", cfg.Embedding.Provider),
		zap.Bool("cache", cfg.CacheEnabled()),
	)
	return nil
}

func newRunCmd(a *app) *cobra.Command {
	var (
		search bool
		drop   bool
		query  string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Ensure the index, search it, list indexes and optionally drop the index",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if query != "" {
				a.cfg.Search.Query = query
			}

			prompter := a.prompter(cmd)
			if cmd.Flags().Changed("search") {
				prompter.Preset(orchestrator.StepSearch, search)
			}
			if cmd.Flags().Changed("drop") {
				prompter.Preset(orchestrator.StepDrop, drop)
			}

			w := a.wire(ctx, cmd.OutOrStdout(), prompter)
			defer w.close()

			w.printer.Banner("MongoDB Atlas Vector Search with Azure OpenAI Embeddings")
			rep, err := w.runner.Run(ctx)
			if err != nil {
				return err
			}

			a.logger.Info("Run finished",
				zap.String("index_status", rep.IndexStatus.String()),
				zap.Bool("searched", rep.Searched),
				zap.Int("results", len(rep.Results)),
				zap.Bool("dropped", rep.Dropped),
				zap.Int("warnings", len(rep.Warnings)),
			)
			return nil
		},
	}

	cmd.Flags().BoolVar(&search, "search", false, "answer the search prompt (--search=false skips the search)")
	cmd.Flags().BoolVar(&drop, "drop", false, "answer the drop prompt (--drop=false keeps the index)")
	cmd.Flags().StringVarP(&query, "query", "q", "", "override the configured query text")
	return cmd
}

func newIndexesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "indexes",
		Short: "List the search indexes of the configured collection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			w := a.wire(ctx, cmd.OutOrStdout(), a.prompter(cmd))
			defer w.close()

			_, err := w.runner.ListIndexes(ctx)
			return err
		},
	}
}

func newDropCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "drop",
		Short: "Drop the configured search index after confirmation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			w := a.wire(ctx, cmd.OutOrStdout(), a.prompter(cmd))
			defer w.close()

			dropped, err := w.runner.DropIndex(ctx)
			if err != nil {
				return err
			}
			a.logger.Info("Drop finished", zap.Bool("dropped", dropped))
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Print build information",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipSetup: "true"},
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}

func (a *app) prompter(cmd *cobra.Command) *console.Prompter {
	p := console.NewPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
	if a.assumeYes {
		p.AssumeYes()
	}
	return p
}

