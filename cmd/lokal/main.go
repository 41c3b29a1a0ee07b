package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/amoylab/lokal/internal/common/config"
	"github.com/amoylab/lokal/internal/database"
	"github.com/amoylab/lokal/pkg/helper"
	"github.com/amoylab/lokal/pkg/trace"
	"github.com/amoylab/lokal/pkg/version"
)

const defaultConfigFile = "lokal.yaml"

var (
	configPath string

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of lokal",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("lokal version %s\n", version.Get())
		},
	}

	testCmd = &cobra.Command{
		Use:   "test",
		Short: "Test the configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, path, err := config.LoadConfig(getConfigPath())
			if err != nil {
				return fmt.Errorf("configuration %s is invalid: %w", path, err)
			}
			fmt.Printf("configuration %s is valid\n", path)
			return nil
		},
	}

	seedCmd = &cobra.Command{
		Use:   "seed",
		Short: "Insert the demo businesses and their deals",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := config.LoadConfig(getConfigPath())
			if err != nil {
				return err
			}
			db, err := database.NewDatabase(&cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close()

			n, err := database.SeedTestBusinesses(cmd.Context(), db, cfg.Catalog.TestBusinessIDs)
			if err != nil {
				return fmt.Errorf("failed to seed businesses: %w", err)
			}
			fmt.Printf("seeded %d businesses\n", n)
			return nil
		},
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Start the lokal API server",
		Run: func(cmd *cobra.Command, args []string) {
			run()
		},
	}

	rootCmd = &cobra.Command{
		Use:   "lokal",
		Short: "Lokal API Server",
		Long:  `Lokal serves local deals, redemptions, the admin console and AI generated content`,
		Run: func(cmd *cobra.Command, args []string) {
			run()
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "conf", "", "path to configuration file")
	rootCmd.AddCommand(serveCmd, versionCmd, testCmd, seedCmd)
}

func getConfigPath() string {
	if configPath != "" {
		return configPath
	}
	if envPath := os.Getenv("LOKAL_CONFIG"); envPath != "" {
		return envPath
	}
	return defaultConfigFile
}

func run() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, cfgPath, err := config.LoadConfig(getConfigPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration %s: %v\n", cfgPath, err)
		os.Exit(1)
	}

	logger := initLogger(cfg)
	defer logger.Sync()

	logger.Info("Loaded configuration",
		zap.String("path", cfgPath),
		zap.String("version", version.Get()))

	shutdownTracing, err := trace.InitTracing(ctx, &cfg.Tracing, logger)
	if err != nil {
		logger.Fatal("failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Warn("failed to flush traces", zap.Error(err))
		}
	}()

	initI18n(logger, &cfg.I18n)

	app, err := initApp(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize server", zap.Error(err))
	}
	defer app.Close()

	pid := helper.NewPIDFile(cfg.Server.PID)
	if err := pid.Write(); err != nil {
		logger.Warn("failed to write PID file", zap.String("path", pid.Path()), zap.Error(err))
	} else {
		defer pid.Remove()
	}

	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	srv := &http.Server{
		Addr:    net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler: app.router,
	}

	go func() {
		logger.Info("Starting lokal server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	logger.Info("Shutting down server", zap.String("signal", sig.String()))

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shutdown server", zap.Error(err))
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
