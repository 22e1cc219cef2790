package app

import (
	"context"
	"fmt"

	"flightlog-service/internal/domain/repository"
	"flightlog-service/internal/infrastructure/config"
	"flightlog-service/internal/infrastructure/oauth"
	"flightlog-service/internal/infrastructure/persistence"
	"flightlog-service/internal/interface/gemini"
	"flightlog-service/internal/interface/gmail"
	"flightlog-service/internal/interface/pdf"
	repoImpl "flightlog-service/internal/interface/repository"
	"flightlog-service/internal/usecase"
	"flightlog-service/pkg/airports"
	"flightlog-service/pkg/flightparser"
	"flightlog-service/pkg/logger"
	"flightlog-service/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// components holds everything a command needs, built from config
type components struct {
	mongoClient *mongo.Client
	gormDB      *gorm.DB

	flightRepo  repository.FlightRepository
	userRepo    repository.UserRepository
	syncRepo    repository.SyncStatusRepository
	scanLogRepo repository.ScanLogRepository

	processor    *usecase.FlightProcessor
	orchestrator *usecase.ScanOrchestrator
}

func newMetrics(cfg *config.Config) *metrics.Metrics {
	if cfg.MetricsEnabled {
		return metrics.NewMetrics(cfg.MetricsNamespace, prometheus.DefaultRegisterer)
	}
	return metrics.NewMetrics(cfg.MetricsNamespace, prometheus.NewRegistry())
}

func newFallback(cfg *config.Config, log logger.Logger) *usecase.FallbackExtractor {
	client := gemini.NewClient(cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GeminiEndpoint, cfg.GeminiTimeout, log)
	if !client.Enabled() {
		log.Info("GEMINI_API_KEY not set, fallback extraction disabled")
	}
	return usecase.NewFallbackExtractor(client, log)
}

// buildComponents connects to MongoDB and PostgreSQL and wires the pipeline.
// When requireMail is false a missing Gmail configuration leaves the
// orchestrator nil instead of failing.
func buildComponents(ctx context.Context, cfg *config.Config, log logger.Logger, requireMail bool) (*components, error) {
	if cfg.PostgresDSN == "" {
		return nil, fmt.Errorf("POSTGRES_DSN is not configured")
	}

	log.Info("Connecting to MongoDB")
	mongoClient, err := persistence.NewMongoClient(ctx, cfg.MongoURI, cfg.MongoUser, cfg.MongoPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	db := persistence.GetDatabase(mongoClient, cfg.MongoDB)

	log.Info("Connecting to PostgreSQL")
	gormDB, err := persistence.NewPostgresDB(cfg.PostgresDSN)
	if err != nil {
		mongoClient.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	c := &components{
		mongoClient: mongoClient,
		gormDB:      gormDB,
		flightRepo:  repoImpl.NewMongoFlightRepository(db),
		userRepo:    repoImpl.NewGormUserRepository(gormDB),
		syncRepo:    repoImpl.NewMongoSyncStatusRepository(db),
		scanLogRepo: repoImpl.NewMongoScanLogRepository(db),
	}

	var mailSource usecase.MailSource
	gmailOAuth := oauth.NewGmailOAuth(cfg.GmailClientID, cfg.GmailClientSecret, cfg.GmailRefreshToken, cfg.GmailRedirectURL, log)
	tokenSource, err := gmailOAuth.GetTokenSource(ctx)
	switch {
	case err != nil && requireMail:
		c.close(log)
		return nil, err
	case err != nil:
		log.Warn("Gmail credentials not configured, scanning disabled")
	default:
		gmailService, err := gmail.NewGmailService(ctx, tokenSource, log)
		if err != nil {
			c.close(log)
			return nil, fmt.Errorf("failed to create Gmail service: %w", err)
		}
		mailSource = gmailService
	}

	normalizer := usecase.NewNormalizer(mailSource, pdf.NewExtractor(log), cfg.AttachmentTimeout, log)
	c.processor = usecase.NewFlightProcessor(
		normalizer,
		flightparser.NewFlightParser(airports.IsValidCode, log),
		newFallback(cfg, log),
		usecase.NewDedupEngine(c.flightRepo, log),
		c.flightRepo,
		repoImpl.NewGormAirportRepository(gormDB),
		repoImpl.NewGormAirlineRepository(gormDB),
		newMetrics(cfg),
		log,
	)

	if mailSource != nil {
		c.orchestrator = usecase.NewScanOrchestrator(
			mailSource,
			c.processor,
			c.userRepo,
			c.syncRepo,
			c.scanLogRepo,
			usecase.ScanOptions{
				Query:         cfg.ScanQuery,
				LookbackYears: cfg.ScanLookbackYears,
				MaxResults:    cfg.ScanMaxResults,
				Concurrency:   cfg.ScanConcurrency,
			},
			log,
		)
	}

	return c, nil
}

func (c *components) close(log logger.Logger) {
	if err := c.mongoClient.Disconnect(context.Background()); err != nil {
		log.Error("MongoDB disconnect error", "error", err)
	}
	if err := persistence.ClosePostgresDB(c.gormDB); err != nil {
		log.Error("PostgreSQL close error", "error", err)
	}
}
