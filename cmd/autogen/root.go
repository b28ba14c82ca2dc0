package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/devknowscode/autogen/config"
	"github.com/devknowscode/autogen/console"
	"github.com/devknowscode/autogen/core"
	"github.com/devknowscode/autogen/logging"
	"github.com/devknowscode/autogen/patch"
	"github.com/devknowscode/autogen/runner"
	"github.com/devknowscode/autogen/ui"
)

// app holds the state shared by subcommands after flag parsing.
type app struct {
	cfg     *config.Config
	logger  *logging.StructuredLogger
	metrics *console.Metrics
	patchUI bool
	server  *http.Server
}

func newRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:           "autogen",
		Short:         "Render agent item streams in the terminal",
		Long:          `autogen replays recorded agent transcripts or runs an assistant and renders its stream with panels, streamed tokens and usage statistics.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return a.shutdown(cmd.Context())
		},
	}

	flags := cmd.PersistentFlags()
	flags.String("config", "", "Path to a YAML config file")
	flags.Bool("stats", false, "Print token usage annotations and summary panels")
	flags.Bool("no-inline-images", false, "Never paint images inline")
	flags.Bool("markdown", false, "Render message text as markdown")
	flags.Bool("patch-ui", false, "Render through ui.Console after patching it with the rich console")
	flags.String("log-level", "", "Log level (debug, info, warn, error)")
	flags.String("metrics-addr", "", "Serve Prometheus metrics on this address")

	cmd.AddCommand(newReplayCmd(a), newRunCmd(a))
	return cmd
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func (a *app) setup(cmd *cobra.Command) error {
	loadEnv()

	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if err := applyFlags(cmd, cfg); err != nil {
		return err
	}
	a.cfg = cfg
	a.patchUI, _ = cmd.Flags().GetBool("patch-ui")

	a.logger = logging.NewLogger(&logging.LoggerConfig{
		Level:     logging.ParseLevel(cfg.Log.Level),
		Format:    cfg.Log.Format,
		Output:    cmd.ErrOrStderr(),
		Component: "cli",
	})

	if cfg.Metrics.Addr != "" {
		reg := prometheus.NewRegistry()
		a.metrics = console.NewMetrics(reg)
		a.serveMetrics(cfg.Metrics.Addr, reg)
	}
	return nil
}

// applyFlags overrides file values with explicitly set flags.
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("stats") {
		cfg.Console.Statistics, _ = flags.GetBool("stats")
	}
	if flags.Changed("no-inline-images") {
		cfg.Console.SuppressInlineImages, _ = flags.GetBool("no-inline-images")
	}
	if flags.Changed("markdown") {
		cfg.Console.Markdown, _ = flags.GetBool("markdown")
	}
	if flags.Changed("log-level") {
		cfg.Log.Level, _ = flags.GetString("log-level")
	}
	if flags.Changed("metrics-addr") {
		cfg.Metrics.Addr, _ = flags.GetString("metrics-addr")
	}
	if flags.Changed("provider") {
		cfg.Model.Provider, _ = flags.GetString("provider")
	}
	if flags.Changed("model") {
		cfg.Model.Name, _ = flags.GetString("model")
	}
	if flags.Changed("human") {
		cfg.Agent.HumanInput, _ = flags.GetBool("human")
	}
	return cfg.Validate()
}

func (a *app) serveMetrics(addr string, reg *prometheus.Registry) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	a.server = &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		a.logger.Info("serving metrics", "addr", addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("metrics server failed", "error", err)
		}
	}()
}

func (a *app) shutdown(ctx context.Context) error {
	if a.server == nil {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return a.server.Shutdown(ctx)
}

// render consumes stream with the configured console.
func (a *app) render(cmd *cobra.Command, stream core.Stream, bridge console.InputNotifier) (core.Result, error) {
	r, err := a.renderer(cmd, bridge)
	if err != nil {
		return nil, err
	}

	defer a.logger.StartTimer("render")()

	return r.Run(cmd.Context(), stream)
}

// renderer builds the console for cmd. With --patch-ui the console is
// installed as ui.Console and the returned renderer calls through it.
func (a *app) renderer(cmd *cobra.Command, bridge console.InputNotifier) (runner.Renderer, error) {
	c := console.New(func(o *console.Options) {
		o.Writer = cmd.OutOrStdout()
		o.EmitStatistics = a.cfg.Console.Statistics
		o.SuppressInlineImages = a.cfg.Console.SuppressInlineImages
		o.Markdown = a.cfg.Console.Markdown
		o.InputBridge = bridge
		o.Logger = a.logger.WithComponent("console")
		o.Metrics = a.metrics
	})

	if !a.patchUI {
		return c, nil
	}
	if err := patch.Patch(ui.ModulePath, "Console", c.Run); err != nil {
		return nil, fmt.Errorf("patch ui console: %w", err)
	}
	return runner.RendererFunc(func(ctx context.Context, stream core.Stream) (core.Result, error) {
		return ui.Console(ctx, stream)
	}), nil
}

// loadEnv loads the nearest .env file walking up from the working directory.
// Missing files are ignored; the process environment is used as is.
func loadEnv() {
	dir, err := os.Getwd()
	if err != nil {
		return
	}
	for {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			_ = godotenv.Load(envPath)
			return
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return
		}
		dir = parent
	}
}
