package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"flightlog-service/internal/domain/entity"
	"flightlog-service/internal/domain/repository"
	"flightlog-service/pkg/airports"
	"flightlog-service/pkg/flightparser"
	"flightlog-service/pkg/logger"
	"flightlog-service/pkg/metrics"

	"github.com/google/uuid"
)

const (
	reasonNotBooking   = "not a booking confirmation"
	reasonNoFlightData = "no flight data extracted"
)

var (
	// ErrInvalidAirport is returned for manual entries with an unknown airport code
	ErrInvalidAirport = errors.New("invalid airport code")
	// ErrMissingFlightNumber is returned for manual entries without a flight number
	ErrMissingFlightNumber = errors.New("flight number is required")
)

// ScanSession is the state shared by every email of one scan
type ScanSession struct {
	ID     string
	UserID string
	Dedup  *DedupSession
	Log    *ScanLogger
}

// NewScanSession creates a session with a fresh ID
func NewScanSession(userID string) *ScanSession {
	return &ScanSession{
		ID:     uuid.NewString(),
		UserID: userID,
		Dedup:  NewDedupSession(),
		Log:    NewScanLogger(),
	}
}

// ProcessResult is the outcome of one email
type ProcessResult struct {
	Accepted bool
	Flight   *entity.Flight
	Entry    entity.ScanLogEntry
}

// FlightProcessor runs one email through normalize, classify, extract,
// dedup and insert
type FlightProcessor struct {
	normalizer  *Normalizer
	parser      *flightparser.FlightParser
	fallback    *FallbackExtractor
	dedup       *DedupEngine
	flightRepo  repository.FlightRepository
	airportRepo repository.AirportRepository
	airlineRepo repository.AirlineRepository
	metrics     *metrics.Metrics
	logger      logger.Logger

	ownerLocks sync.Map
}

// NewFlightProcessor creates a new flight processor. airportRepo and
// airlineRepo are optional.
func NewFlightProcessor(
	normalizer *Normalizer,
	parser *flightparser.FlightParser,
	fallback *FallbackExtractor,
	dedup *DedupEngine,
	flightRepo repository.FlightRepository,
	airportRepo repository.AirportRepository,
	airlineRepo repository.AirlineRepository,
	metrics *metrics.Metrics,
	logger logger.Logger,
) *FlightProcessor {
	return &FlightProcessor{
		normalizer:  normalizer,
		parser:      parser,
		fallback:    fallback,
		dedup:       dedup,
		flightRepo:  flightRepo,
		airportRepo: airportRepo,
		airlineRepo: airlineRepo,
		metrics:     metrics,
		logger:      logger,
	}
}

// ProcessEmail processes one email and records the outcome in the session log
func (fp *FlightProcessor) ProcessEmail(ctx context.Context, session *ScanSession, email *entity.RawEmail) ProcessResult {
	start := time.Now()
	log := fp.logger.With("emailID", email.ID, "scanID", session.ID)

	result := fp.process(ctx, log, session, email)
	result.Entry.ScanID = session.ID
	result.Entry.UserID = session.UserID
	result.Entry.EmailID = email.ID
	result.Entry.Subject = email.Subject
	result.Entry.From = email.From
	result.Entry.Date = email.Date
	session.Log.Record(result.Entry)

	fp.metrics.EmailsScanned.Inc()
	fp.metrics.ScanOutcomes.WithLabelValues(string(result.Entry.Status)).Inc()
	fp.metrics.ProcessingTime.Observe(time.Since(start).Seconds())
	if result.Accepted {
		fp.metrics.FlightsAccepted.Inc()
	}

	log.Info("Email processed",
		"status", result.Entry.Status,
		"reason", result.Entry.Reason)

	return result
}

// Extract runs normalize, classify and extraction without touching storage.
// When no flight comes out, the returned entry says why.
func (fp *FlightProcessor) Extract(ctx context.Context, email *entity.RawEmail) (*entity.ExtractedFlight, entity.ScanLogEntry) {
	text := fp.normalizer.Normalize(ctx, email)

	keyword, ok := flightparser.Classify(text)
	if !ok {
		fp.logger.Debug("Email rejected by classifier", "emailID", email.ID, "keyword", keyword)
		return nil, entity.ScanLogEntry{
			Status: entity.ScanStatusSkipped,
			Reason: reasonNotBooking,
		}
	}

	flight := fp.parser.Extract(text)
	if !flight.IsUsable() {
		flight = fp.runFallback(ctx, email.Subject, text)
	}
	if flight == nil {
		return nil, entity.ScanLogEntry{
			Status: entity.ScanStatusNoFlightData,
			Reason: reasonNoFlightData,
		}
	}

	return flight, entity.ScanLogEntry{ExtractedData: flight}
}

func (fp *FlightProcessor) process(ctx context.Context, log logger.Logger, session *ScanSession, email *entity.RawEmail) ProcessResult {
	flight, entry := fp.Extract(ctx, email)
	if flight == nil {
		return ProcessResult{Entry: entry}
	}

	unlock := fp.lockOwner(session.UserID)
	defer unlock()

	reason, err := fp.dedup.ShouldSkip(ctx, session.UserID, flight, session.Dedup)
	if err != nil {
		log.Error("Duplicate check failed", "error", err)
		fp.metrics.ErrorsCount.WithLabelValues("dedup_lookup").Inc()
		entry.Status = entity.ScanStatusFailed
		entry.Reason = err.Error()
		return ProcessResult{Entry: entry}
	}
	if reason != SkipNone {
		entry.Status = entity.ScanStatusSkipped
		entry.Reason = string(reason)
		return ProcessResult{Entry: entry}
	}

	record := fp.buildFlight(ctx, session.UserID, flight)
	record.RawEmailSubject = email.Subject
	record.SourceEmailID = email.ID

	if err := fp.flightRepo.Insert(ctx, record); err != nil {
		if errors.Is(err, repository.ErrDuplicateFlight) {
			entry.Status = entity.ScanStatusSkipped
			entry.Reason = string(SkipDuplicateInStorage)
			return ProcessResult{Entry: entry}
		}
		log.Error("Failed to insert flight", "error", err)
		fp.metrics.ErrorsCount.WithLabelValues("insert_flight").Inc()
		entry.Status = entity.ScanStatusFailed
		entry.Reason = err.Error()
		return ProcessResult{Entry: entry}
	}

	entry.Status = entity.ScanStatusSuccess
	return ProcessResult{Accepted: true, Flight: record, Entry: entry}
}

func (fp *FlightProcessor) runFallback(ctx context.Context, subject, text string) *entity.ExtractedFlight {
	if fp.fallback == nil || !fp.fallback.Enabled() {
		fp.metrics.FallbackCalls.WithLabelValues("disabled").Inc()
		return nil
	}

	flight := fp.fallback.Extract(ctx, subject, text)
	if flight == nil {
		fp.metrics.FallbackCalls.WithLabelValues("miss").Inc()
		return nil
	}
	fp.metrics.FallbackCalls.WithLabelValues("hit").Inc()
	return flight
}

// AddManualFlight validates and stores a user-entered flight. It runs the
// persisted duplicate checks only; a non-empty SkipReason means nothing was stored.
func (fp *FlightProcessor) AddManualFlight(ctx context.Context, userID string, flight *entity.ExtractedFlight) (*entity.Flight, SkipReason, error) {
	flight.DepartureAirport = strings.ToUpper(strings.TrimSpace(flight.DepartureAirport))
	flight.ArrivalAirport = strings.ToUpper(strings.TrimSpace(flight.ArrivalAirport))
	flight.FlightNumber = normalizeFlightNumber(flight.FlightNumber)

	for _, code := range []string{flight.DepartureAirport, flight.ArrivalAirport} {
		if !airports.IsValidCode(code) {
			return nil, SkipNone, fmt.Errorf("%w: %q", ErrInvalidAirport, code)
		}
	}
	if flight.FlightNumber == "" {
		return nil, SkipNone, ErrMissingFlightNumber
	}

	unlock := fp.lockOwner(userID)
	defer unlock()

	reason, err := fp.dedup.CheckStorage(ctx, userID, flight)
	if err != nil {
		return nil, SkipNone, err
	}
	if reason != SkipNone {
		return nil, reason, nil
	}

	record := fp.buildFlight(ctx, userID, flight)
	if err := fp.flightRepo.Insert(ctx, record); err != nil {
		if errors.Is(err, repository.ErrDuplicateFlight) {
			return nil, SkipDuplicateInStorage, nil
		}
		return nil, SkipNone, fmt.Errorf("failed to insert flight: %w", err)
	}

	fp.metrics.FlightsAccepted.Inc()
	return record, SkipNone, nil
}

// buildFlight converts an extracted record into a stored flight with airport
// and airline data filled in
func (fp *FlightProcessor) buildFlight(ctx context.Context, userID string, f *entity.ExtractedFlight) *entity.Flight {
	now := time.Now()
	record := &entity.Flight{
		UserID:           userID,
		DedupKey:         DedupKey(f),
		ConfirmationCode: f.ConfirmationCode,
		Airline:          f.Airline,
		FlightNumber:     f.FlightNumber,
		DepartureAirport: f.DepartureAirport,
		DepartureDate:    f.DepartureDate,
		ArrivalAirport:   f.ArrivalAirport,
		ArrivalDate:      f.ArrivalDate,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if dep := fp.lookupAirport(ctx, f.DepartureAirport); dep != nil {
		record.DepartureCity = dep.City
		record.DepartureCountry = dep.Country
		record.DepartureLat = &dep.Lat
		record.DepartureLng = &dep.Lng
	}
	if arr := fp.lookupAirport(ctx, f.ArrivalAirport); arr != nil {
		record.ArrivalCity = arr.City
		record.ArrivalCountry = arr.Country
		record.ArrivalLat = &arr.Lat
		record.ArrivalLng = &arr.Lng
	}

	if record.Airline == "" {
		record.Airline = fp.lookupAirline(ctx, f.FlightNumber)
	}

	return record
}

func (fp *FlightProcessor) lookupAirport(ctx context.Context, code string) *entity.Airport {
	if fp.airportRepo != nil {
		airport, err := fp.airportRepo.GetByCode(ctx, code)
		if err == nil {
			return airport
		}
		if !errors.Is(err, repository.ErrNotFound) {
			fp.logger.Warn("Airport lookup failed, using static table", "code", code, "error", err)
		}
	}
	return airports.Lookup(code)
}

func (fp *FlightProcessor) lookupAirline(ctx context.Context, flightNumber string) string {
	if fp.airlineRepo == nil || len(flightNumber) < 2 {
		return ""
	}

	airline, err := fp.airlineRepo.GetByCode(ctx, flightNumber[:2])
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			fp.logger.Warn("Airline lookup failed", "code", flightNumber[:2], "error", err)
		}
		return ""
	}
	return airline.Name
}

// lockOwner serializes the check-then-insert sequence per owner
func (fp *FlightProcessor) lockOwner(owner string) func() {
	value, _ := fp.ownerLocks.LoadOrStore(owner, &sync.Mutex{})
	mu := value.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
