package usecase

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"flightlog-service/internal/domain/entity"
	"flightlog-service/internal/domain/repository"
	"flightlog-service/pkg/logger"

	"golang.org/x/sync/errgroup"
)

// DefaultScanQuery matches the mail most likely to hold bookings
const DefaultScanQuery = "(flight OR booking OR confirmation OR itinerary)"

const unparseableSampleSize = 10

// finalizeTimeout bounds the sync status and scan log writes that run after
// the caller's context has ended
const finalizeTimeout = 10 * time.Second

// ScanOptions bounds one mailbox scan
type ScanOptions struct {
	Query         string
	LookbackYears int
	MaxResults    int
	Concurrency   int
}

// ScanReport is what a scan returns to its caller
type ScanReport struct {
	ScanID        string                `json:"scanId"`
	UserID        string                `json:"userId"`
	EmailsScanned int                   `json:"emailsScanned"`
	FlightsFound  int                   `json:"flightsFound"`
	Summary       entity.ScanSummary    `json:"summary"`
	Unparseable   []entity.ScanLogEntry `json:"unparseable,omitempty"`
}

// ScanOrchestrator drives a full mailbox scan for one user
type ScanOrchestrator struct {
	mailSource  MailSource
	processor   *FlightProcessor
	userRepo    repository.UserRepository
	syncRepo    repository.SyncStatusRepository
	scanLogRepo repository.ScanLogRepository
	options     ScanOptions
	logger      logger.Logger
}

// NewScanOrchestrator creates a new scan orchestrator
func NewScanOrchestrator(
	mailSource MailSource,
	processor *FlightProcessor,
	userRepo repository.UserRepository,
	syncRepo repository.SyncStatusRepository,
	scanLogRepo repository.ScanLogRepository,
	options ScanOptions,
	logger logger.Logger,
) *ScanOrchestrator {
	if options.Query == "" {
		options.Query = DefaultScanQuery
	}
	if options.MaxResults <= 0 {
		options.MaxResults = 100
	}
	if options.Concurrency <= 0 {
		options.Concurrency = 1
	}
	if options.LookbackYears <= 0 {
		options.LookbackYears = 2
	}

	return &ScanOrchestrator{
		mailSource:  mailSource,
		processor:   processor,
		userRepo:    userRepo,
		syncRepo:    syncRepo,
		scanLogRepo: scanLogRepo,
		options:     options,
		logger:      logger,
	}
}

// BuildScanQuery appends the lookback bound to the base query
func BuildScanQuery(base string, now time.Time, lookbackYears int) string {
	after := now.AddDate(-lookbackYears, 0, 0).Unix()
	return fmt.Sprintf("%s after:%d", base, after)
}

// Scan lists candidate messages for userEmail and runs each through the processor
func (o *ScanOrchestrator) Scan(ctx context.Context, userEmail string) (*ScanReport, error) {
	user, err := o.userRepo.Upsert(ctx, &entity.User{Email: userEmail})
	if err != nil {
		return nil, fmt.Errorf("failed to upsert user: %w", err)
	}

	o.updateSyncStatus(ctx, &entity.EmailSyncStatus{
		UserID:     user.ID,
		SyncStatus: entity.SyncStatusInProgress,
		LastSyncAt: time.Now(),
	})

	report, err := o.scanMailbox(ctx, user.ID)

	finalCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), finalizeTimeout)
	defer cancel()

	if err != nil {
		o.updateSyncStatus(finalCtx, &entity.EmailSyncStatus{
			UserID:       user.ID,
			SyncStatus:   entity.SyncStatusFailed,
			LastSyncAt:   time.Now(),
			ErrorMessage: err.Error(),
		})
		return nil, err
	}

	o.updateSyncStatus(finalCtx, &entity.EmailSyncStatus{
		UserID:        user.ID,
		SyncStatus:    entity.SyncStatusCompleted,
		LastSyncAt:    time.Now(),
		EmailsScanned: report.EmailsScanned,
		FlightsFound:  report.FlightsFound,
	})

	return report, nil
}

func (o *ScanOrchestrator) scanMailbox(ctx context.Context, userID string) (*ScanReport, error) {
	query := BuildScanQuery(o.options.Query, time.Now(), o.options.LookbackYears)

	ids, err := o.mailSource.ListCandidateMessages(ctx, query, o.options.MaxResults)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}

	session := NewScanSession(userID)
	log := o.logger.With("scanID", session.ID, "userID", userID)
	log.Info("Starting scan", "candidates", len(ids), "concurrency", o.options.Concurrency)

	var scanned, accepted atomic.Int64

	// ctx only gates dispatch; an email already started runs to completion
	workCtx := context.WithoutCancel(ctx)

	var g errgroup.Group
	g.SetLimit(o.options.Concurrency)

	for _, id := range ids {
		if ctx.Err() != nil {
			break
		}

		id := id
		g.Go(func() error {
			email, err := o.mailSource.GetMessage(workCtx, id)
			if err != nil {
				log.Error("Failed to fetch message", "emailID", id, "error", err)
				session.Log.Record(entity.ScanLogEntry{
					ScanID:  session.ID,
					UserID:  userID,
					EmailID: id,
					Status:  entity.ScanStatusFailed,
					Reason:  "failed to fetch message",
				})
				return nil
			}

			scanned.Add(1)
			if result := o.processor.ProcessEmail(workCtx, session, email); result.Accepted {
				accepted.Add(1)
			}
			return nil
		})
	}

	g.Wait()

	if o.scanLogRepo != nil {
		saveCtx, cancel := context.WithTimeout(workCtx, finalizeTimeout)
		err := o.scanLogRepo.SaveAll(saveCtx, session.Log.All())
		cancel()
		if err != nil {
			log.Error("Failed to save scan logs", "error", err)
		}
	}

	if err := ctx.Err(); err != nil {
		log.Warn("Scan interrupted",
			"emailsScanned", scanned.Load(),
			"candidates", len(ids))
		return nil, fmt.Errorf("scan interrupted: %w", err)
	}

	unparseable := session.Log.Unparseable()
	if len(unparseable) > unparseableSampleSize {
		unparseable = unparseable[:unparseableSampleSize]
	}

	report := &ScanReport{
		ScanID:        session.ID,
		UserID:        userID,
		EmailsScanned: int(scanned.Load()),
		FlightsFound:  int(accepted.Load()),
		Summary:       session.Log.Summary(),
		Unparseable:   unparseable,
	}

	log.Info("Scan completed",
		"emailsScanned", report.EmailsScanned,
		"flightsFound", report.FlightsFound,
		"successRate", report.Summary.SuccessRate)

	return report, nil
}

func (o *ScanOrchestrator) updateSyncStatus(ctx context.Context, status *entity.EmailSyncStatus) {
	if o.syncRepo == nil {
		return
	}
	if err := o.syncRepo.Upsert(ctx, status); err != nil {
		o.logger.Error("Failed to update sync status",
			"userID", status.UserID,
			"status", status.SyncStatus,
			"error", err)
	}
}
