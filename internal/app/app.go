// Package app holds the flightlog command line
package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"flightlog-service/internal/infrastructure/config"
	"flightlog-service/internal/interface/eml"
	httpapi "flightlog-service/internal/interface/http"
	"flightlog-service/internal/interface/pdf"
	repoImpl "flightlog-service/internal/interface/repository"
	"flightlog-service/internal/usecase"
	"flightlog-service/pkg/airports"
	"flightlog-service/pkg/flightparser"
	"flightlog-service/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "flightlog",
	Short: "Flightlog Service",
	Long:  "Finds flight bookings in a mailbox and keeps a deduplicated flight history",
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		defer log.Sync()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		c, err := buildComponents(ctx, cfg, log, false)
		if err != nil {
			return err
		}
		defer c.close(log)

		// a nil *ScanOrchestrator must not become a non-nil Scanner
		var scanner httpapi.Scanner
		if c.orchestrator != nil {
			scanner = c.orchestrator
		}

		var metricsHandler http.Handler
		if cfg.MetricsEnabled {
			metricsHandler = promhttp.Handler()
		}

		gin.SetMode(gin.ReleaseMode)
		handler := httpapi.NewHandler(scanner, c.processor, c.flightRepo, c.userRepo, c.syncRepo, c.scanLogRepo, log)

		server := &http.Server{
			Addr:         ":" + cfg.Port,
			Handler:      httpapi.NewRouter(handler, metricsHandler),
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		}

		errChan := make(chan error, 1)
		go func() {
			log.Info("Starting HTTP server", "port", cfg.Port)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errChan <- err
			}
		}()

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-sigChan:
			log.Info("Received signal", "signal", sig)
		case err := <-errChan:
			return fmt.Errorf("http server error: %w", err)
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error("HTTP server shutdown error", "error", err)
		}

		log.Info("Service stopped")
		return nil
	},
}

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan the configured mailbox once and print the report",
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		if email == "" {
			return fmt.Errorf("--email is required")
		}

		cfg, log, err := setup()
		if err != nil {
			return err
		}
		defer log.Sync()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		c, err := buildComponents(ctx, cfg, log, true)
		if err != nil {
			return err
		}
		defer c.close(log)

		report, err := c.orchestrator.Scan(ctx, email)
		if err != nil {
			return err
		}

		return printJSON(report)
	},
}

var parseCmd = &cobra.Command{
	Use:   "parse <file.eml>",
	Short: "Run extraction on a saved email without storing anything",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		defer log.Sync()

		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		email, err := eml.Parse(f)
		if err != nil {
			return err
		}

		processor := usecase.NewFlightProcessor(
			usecase.NewNormalizer(nil, pdf.NewExtractor(log), cfg.AttachmentTimeout, log),
			flightparser.NewFlightParser(airports.IsValidCode, log),
			newFallback(cfg, log),
			usecase.NewDedupEngine(nil, log),
			nil, nil, nil,
			newMetrics(cfg),
			log,
		)

		flight, entry := processor.Extract(cmd.Context(), email)
		if flight == nil {
			return printJSON(map[string]string{"status": string(entry.Status), "reason": entry.Reason})
		}
		return printJSON(flight)
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create PostgreSQL tables and seed airport and airline data",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		defer log.Sync()

		ctx := context.Background()
		c, err := buildComponents(ctx, cfg, log, false)
		if err != nil {
			return err
		}
		defer c.close(log)

		if err := c.gormDB.AutoMigrate(repoImpl.GormModels()...); err != nil {
			return fmt.Errorf("failed to migrate: %w", err)
		}

		if err := repoImpl.NewGormAirportRepository(c.gormDB).Seed(ctx, airports.All()); err != nil {
			return fmt.Errorf("failed to seed airports: %w", err)
		}
		if err := repoImpl.NewGormAirlineRepository(c.gormDB).Seed(ctx, airports.Airlines()); err != nil {
			return fmt.Errorf("failed to seed airlines: %w", err)
		}

		log.Info("Migration completed",
			"airports", len(airports.All()),
			"airlines", len(airports.Airlines()))
		return nil
	},
}

func init() {
	scanCmd.Flags().String("email", "", "Owner email to record flights under")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(migrateCmd)
}

func setup() (*config.Config, logger.Logger, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.NewLogger(cfg.LogLevel)
	log.Info("Starting Flightlog Service", "version", cfg.AppVersion)
	return cfg, log, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
