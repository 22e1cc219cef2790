package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"flightlog-service/internal/domain/entity"
	"flightlog-service/internal/domain/repository"
	"flightlog-service/pkg/logger"
)

// SkipReason explains why a candidate record was not stored. Empty means accept.
type SkipReason string

const (
	SkipNone                  SkipReason = ""
	SkipNoFlightNumber        SkipReason = "no flight number"
	SkipDuplicateInScan       SkipReason = "duplicate within this scan"
	SkipDuplicateConfirmation SkipReason = "duplicate confirmation code in storage"
	SkipDuplicateFlightRoute  SkipReason = "duplicate flight number+route"
	SkipDuplicateByDate       SkipReason = "duplicate by date"
	SkipDuplicateInStorage    SkipReason = "duplicate flight in storage"
)

// DedupSession is the set of composite keys seen during one scan
type DedupSession struct {
	mu   sync.Mutex
	keys map[string]struct{}
}

// NewDedupSession creates an empty session
func NewDedupSession() *DedupSession {
	return &DedupSession{keys: make(map[string]struct{})}
}

// Add inserts key and reports whether it was new
func (s *DedupSession) Add(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.keys[key]; ok {
		return false
	}
	s.keys[key] = struct{}{}
	return true
}

// DedupKey builds the composite key for a record, preferring the confirmation
// code, then the flight number, then the departure date.
func DedupKey(f *entity.ExtractedFlight) string {
	switch {
	case f.ConfirmationCode != "":
		return strings.Join([]string{f.ConfirmationCode, f.DepartureAirport, f.ArrivalAirport}, "|")
	case f.FlightNumber != "":
		return strings.Join([]string{f.FlightNumber, f.DepartureAirport, f.ArrivalAirport}, "|")
	default:
		date := ""
		if f.DepartureDate != nil {
			date = f.DepartureDate.Format("2006-01-02")
		}
		return strings.Join([]string{f.DepartureAirport, f.ArrivalAirport, date}, "|")
	}
}

// DedupEngine decides whether a candidate record duplicates one already seen
type DedupEngine struct {
	flightRepo repository.FlightRepository
	logger     logger.Logger
}

// NewDedupEngine creates a new dedup engine
func NewDedupEngine(flightRepo repository.FlightRepository, logger logger.Logger) *DedupEngine {
	return &DedupEngine{
		flightRepo: flightRepo,
		logger:     logger,
	}
}

// ShouldSkip runs the checks in order and returns the first reason that
// applies. A lookup error aborts the check and is returned to the caller.
func (d *DedupEngine) ShouldSkip(ctx context.Context, owner string, f *entity.ExtractedFlight, session *DedupSession) (SkipReason, error) {
	if f.FlightNumber == "" {
		return SkipNoFlightNumber, nil
	}

	if !session.Add(DedupKey(f)) {
		return SkipDuplicateInScan, nil
	}

	return d.checkStorage(ctx, owner, f)
}

// CheckStorage runs only the persisted checks, for records that bypass a scan
func (d *DedupEngine) CheckStorage(ctx context.Context, owner string, f *entity.ExtractedFlight) (SkipReason, error) {
	return d.checkStorage(ctx, owner, f)
}

func (d *DedupEngine) checkStorage(ctx context.Context, owner string, f *entity.ExtractedFlight) (SkipReason, error) {
	if f.ConfirmationCode != "" {
		found, err := exists(d.flightRepo.FindByConfirmationCode(ctx, owner, f.ConfirmationCode))
		if err != nil {
			return SkipNone, fmt.Errorf("lookup by confirmation code: %w", err)
		}
		if found {
			return SkipDuplicateConfirmation, nil
		}
	}

	found, err := exists(d.flightRepo.FindByFlightRoute(ctx, owner, f.FlightNumber, f.DepartureAirport, f.ArrivalAirport))
	if err != nil {
		return SkipNone, fmt.Errorf("lookup by flight route: %w", err)
	}
	if found {
		return SkipDuplicateFlightRoute, nil
	}

	if f.DepartureDate != nil {
		found, err := exists(d.flightRepo.FindByRouteAndDate(ctx, owner, f.DepartureAirport, f.ArrivalAirport, *f.DepartureDate))
		if err != nil {
			return SkipNone, fmt.Errorf("lookup by route and date: %w", err)
		}
		if found {
			return SkipDuplicateByDate, nil
		}
	}

	d.logger.Debug("No stored duplicate", "owner", owner, "flightNumber", f.FlightNumber)
	return SkipNone, nil
}

func exists(flight *entity.Flight, err error) (bool, error) {
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return flight != nil, nil
}
