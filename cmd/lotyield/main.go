package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/twd38/alamo-app-sub003/internal/config"
	"github.com/twd38/alamo-app-sub003/internal/logging"
)

// app carries state resolved once in the root command's pre-run hook.
type app struct {
	configFile string
	envFile    string

	cfg    *config.Config
	logger *zap.Logger
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	a := &app{}
	err := a.rootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "lotyield",
		Short:        "Site feasibility and pro-forma screening for residential schemes",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(config.Options{
				ConfigFile: a.configFile,
				EnvFile:    a.envFile,
				Flags:      cmd.Flags(),
			})
			if err != nil {
				return err
			}
			logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.logger = logger
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configFile, "config", "", "config file (yaml, toml or json)")
	pf.StringVar(&a.envFile, "env-file", "", "dotenv file to load (default .env if present)")
	pf.String("log-level", "", "log level: debug, info, warn, error")
	pf.String("log-format", "", "log format: json or console")
	pf.String("catalog", "", "scheme catalog YAML (default: built-in catalog)")

	root.AddCommand(a.validateCmd())
	root.AddCommand(a.evaluateCmd())
	root.AddCommand(a.screenCmd())
	root.AddCommand(a.schemesCmd())
	root.AddCommand(a.serveCmd())

	return root
}

func (a *app) validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [project-path]",
		Short: "Validate a project's lots, schemes and assumptions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runValidate(cmd.OutOrStdout(), args[0])
		},
	}
}

func (a *app) evaluateCmd() *cobra.Command {
	var schemes []string

	cmd := &cobra.Command{
		Use:   "evaluate [project-path]",
		Short: "Evaluate every lot against the catalog and print ranked scenarios",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runEvaluate(cmd.OutOrStdout(), args[0], schemes)
		},
	}

	cmd.Flags().StringSliceVarP(&schemes, "scheme", "s", nil, "limit evaluation to these schemes")
	return cmd
}

func (a *app) screenCmd() *cobra.Command {
	var opts screenOptions

	cmd := &cobra.Command{
		Use:   "screen [project-path]",
		Short: "Screen all lots concurrently and write ranked results to a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runScreen(cmd.Context(), cmd.OutOrStdout(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.out, "out", "o", "screen.csv", "output file")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "csv", "output format: csv or json")
	cmd.Flags().BoolVar(&opts.noProgress, "no-progress", false, "disable the progress bar")
	cmd.Flags().IntP("workers", "w", 0, "concurrent evaluations (default GOMAXPROCS)")
	return cmd
}

func (a *app) schemesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schemes",
		Short: "List the schemes in the active catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runSchemes(cmd.OutOrStdout())
		},
	}
}

func (a *app) serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve [project-path]",
		Short: "Start the local HTTP API",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var projectPath string
			if len(args) == 1 {
				projectPath = args[0]
			}
			return a.runServe(cmd.Context(), projectPath)
		},
	}

	cmd.Flags().IntP("port", "p", 0, "HTTP server port (default 3000)")
	cmd.Flags().IntP("workers", "w", 0, "concurrent evaluations per project screen")
	return cmd
}
