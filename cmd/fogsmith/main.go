package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"fogsmith/internal/build"
	"fogsmith/internal/cache"
	"fogsmith/internal/catalog"
	"fogsmith/internal/config"
	"fogsmith/internal/server"
)

var (
	configPath string
	verbose    bool

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "fogsmith",
	Short: "fogsmith - generative Dead by Daylight build recommendations",
	Long: `fogsmith aggregates game catalog data into daily-refreshed cache
artifacts and feeds them, together with a natural-language request, into the
Gemini API to synthesize a build recommendation.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zcfg.Build()
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

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE:  runServe,
}

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Regenerate every cache artifact from the upstream catalog",
	RunE:  runRefresh,
}

var buildCmd = &cobra.Command{
	Use:   "build [request]",
	Short: "Generate one build recommendation and print it",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runBuild,
}

var buildBalance string

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "fogsmith.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	buildCmd.Flags().StringVar(&buildBalance, "balance", "Mid", "balance tier (Low, Mid, High)")
	rootCmd.AddCommand(serveCmd, refreshCmd, buildCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	orch, err := newOrchestrator(ctx, cfg)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: server.New(orch, logger),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", cfg.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func runRefresh(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	store, err := cache.NewStore(cfg.ContentDir)
	if err != nil {
		return err
	}
	refresher := cache.NewRefresher(store, catalog.New(cfg.CatalogBaseURL, logger), cfg.Icons(), logger)

	if err := refresher.Refresh(cmd.Context()); err != nil {
		return err
	}
	logger.Info("all artifacts refreshed", zap.String("dir", cfg.ContentDir))
	return nil
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	orch, err := newOrchestrator(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	result := orch.RequestBuild(cmd.Context(), strings.Join(args, " "), build.ParseBalance(buildBalance))
	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func newOrchestrator(ctx context.Context, cfg *config.Config) (*build.Orchestrator, error) {
	store, err := cache.NewStore(cfg.ContentDir)
	if err != nil {
		return nil, err
	}
	refresher := cache.NewRefresher(store, catalog.New(cfg.CatalogBaseURL, logger), cfg.Icons(), logger)

	gemini, err := build.NewGemini(ctx, cfg.Gemini)
	if err != nil {
		return nil, err
	}

	return build.NewOrchestrator(refresher, store, gemini, cfg.Gemini.Prompt, logger), nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
