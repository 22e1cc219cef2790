package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"flightlog-service/internal/domain/entity"
	"flightlog-service/pkg/logger"
)

func TestDedupKey(t *testing.T) {
	tests := []struct {
		name     string
		flight   entity.ExtractedFlight
		expected string
	}{
		{
			name:     "Confirmation code wins",
			flight:   entity.ExtractedFlight{ConfirmationCode: "ABC123", FlightNumber: "BA456", DepartureAirport: "LHR", ArrivalAirport: "JFK"},
			expected: "ABC123|LHR|JFK",
		},
		{
			name:     "Flight number next",
			flight:   entity.ExtractedFlight{FlightNumber: "BA456", DepartureAirport: "LHR", ArrivalAirport: "JFK"},
			expected: "BA456|LHR|JFK",
		},
		{
			name:     "Route and date",
			flight:   entity.ExtractedFlight{DepartureAirport: "LHR", ArrivalAirport: "JFK", DepartureDate: timePtr(2024, 6, 15)},
			expected: "LHR|JFK|2024-06-15",
		},
		{
			name:     "Route without date",
			flight:   entity.ExtractedFlight{DepartureAirport: "LHR", ArrivalAirport: "JFK"},
			expected: "LHR|JFK|",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DedupKey(&tt.flight); got != tt.expected {
				t.Errorf("DedupKey() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestShouldSkip(t *testing.T) {
	stored := []*entity.Flight{
		{UserID: "u1", ConfirmationCode: "STORED", FlightNumber: "XX1", DepartureAirport: "AMS", ArrivalAirport: "FRA"},
		{UserID: "u1", FlightNumber: "TK1", DepartureAirport: "IST", ArrivalAirport: "LHR"},
		{UserID: "u1", FlightNumber: "LH400", DepartureAirport: "FRA", ArrivalAirport: "JFK", DepartureDate: timePtr(2024, 5, 1)},
	}

	tests := []struct {
		name     string
		owner    string
		flight   entity.ExtractedFlight
		expected SkipReason
	}{
		{
			name:     "No flight number",
			owner:    "u1",
			flight:   entity.ExtractedFlight{ConfirmationCode: "STORED", DepartureAirport: "AMS", ArrivalAirport: "FRA"},
			expected: SkipNoFlightNumber,
		},
		{
			name:     "Stored confirmation code",
			owner:    "u1",
			flight:   entity.ExtractedFlight{ConfirmationCode: "STORED", FlightNumber: "KL10", DepartureAirport: "CDG", ArrivalAirport: "AMS"},
			expected: SkipDuplicateConfirmation,
		},
		{
			name:     "Unknown confirmation code falls through to route lookup",
			owner:    "u1",
			flight:   entity.ExtractedFlight{ConfirmationCode: "NEW123", FlightNumber: "TK1", DepartureAirport: "IST", ArrivalAirport: "LHR"},
			expected: SkipDuplicateFlightRoute,
		},
		{
			name:     "Unknown confirmation code falls through to date lookup",
			owner:    "u1",
			flight:   entity.ExtractedFlight{ConfirmationCode: "NEW123", FlightNumber: "UA900", DepartureAirport: "FRA", ArrivalAirport: "JFK", DepartureDate: timePtr(2024, 5, 1)},
			expected: SkipDuplicateByDate,
		},
		{
			name:     "Unknown confirmation code new flight",
			owner:    "u1",
			flight:   entity.ExtractedFlight{ConfirmationCode: "NEW123", FlightNumber: "KL10", DepartureAirport: "CDG", ArrivalAirport: "AMS"},
			expected: SkipNone,
		},
		{
			name:     "Stored flight number and route",
			owner:    "u1",
			flight:   entity.ExtractedFlight{FlightNumber: "TK1", DepartureAirport: "IST", ArrivalAirport: "LHR"},
			expected: SkipDuplicateFlightRoute,
		},
		{
			name:     "Stored route and date",
			owner:    "u1",
			flight:   entity.ExtractedFlight{FlightNumber: "UA900", DepartureAirport: "FRA", ArrivalAirport: "JFK", DepartureDate: timePtr(2024, 5, 1)},
			expected: SkipDuplicateByDate,
		},
		{
			name:     "Same route other date",
			owner:    "u1",
			flight:   entity.ExtractedFlight{FlightNumber: "UA900", DepartureAirport: "FRA", ArrivalAirport: "JFK", DepartureDate: timePtr(2024, 5, 2)},
			expected: SkipNone,
		},
		{
			name:     "Other owner",
			owner:    "u2",
			flight:   entity.ExtractedFlight{ConfirmationCode: "STORED", FlightNumber: "KL10", DepartureAirport: "CDG", ArrivalAirport: "AMS"},
			expected: SkipNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := NewDedupEngine(&fakeFlightRepo{flights: stored}, logger.NewNopLogger())
			got, err := engine.ShouldSkip(context.Background(), tt.owner, &tt.flight, NewDedupSession())
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("ShouldSkip() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestShouldSkip_NoFlightNumberBeatsSessionCollision(t *testing.T) {
	engine := NewDedupEngine(&fakeFlightRepo{}, logger.NewNopLogger())
	session := NewDedupSession()
	flight := &entity.ExtractedFlight{DepartureAirport: "LHR", ArrivalAirport: "JFK"}
	session.Add(DedupKey(flight))

	got, err := engine.ShouldSkip(context.Background(), "u1", flight, session)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got != SkipNoFlightNumber {
		t.Errorf("ShouldSkip() = %q, want %q", got, SkipNoFlightNumber)
	}
}

func TestShouldSkip_DuplicateWithinSession(t *testing.T) {
	engine := NewDedupEngine(&fakeFlightRepo{}, logger.NewNopLogger())
	session := NewDedupSession()
	flight := &entity.ExtractedFlight{ConfirmationCode: "ABC123", FlightNumber: "BA456", DepartureAirport: "LHR", ArrivalAirport: "JFK"}

	first, _ := engine.ShouldSkip(context.Background(), "u1", flight, session)
	second, _ := engine.ShouldSkip(context.Background(), "u1", flight, session)

	if first != SkipNone {
		t.Errorf("First verdict = %q, want accept", first)
	}
	if second != SkipDuplicateInScan {
		t.Errorf("Second verdict = %q, want %q", second, SkipDuplicateInScan)
	}
}

func TestShouldSkip_ConcurrentSameKeyAcceptsOnce(t *testing.T) {
	engine := NewDedupEngine(&fakeFlightRepo{}, logger.NewNopLogger())
	session := NewDedupSession()

	const workers = 16
	verdicts := make([]SkipReason, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			flight := &entity.ExtractedFlight{FlightNumber: "BA456", DepartureAirport: "LHR", ArrivalAirport: "JFK"}
			verdicts[i], _ = engine.ShouldSkip(context.Background(), "u1", flight, session)
		}(i)
	}
	wg.Wait()

	accepted := 0
	for _, v := range verdicts {
		switch v {
		case SkipNone:
			accepted++
		case SkipDuplicateInScan:
		default:
			t.Errorf("Unexpected verdict %q", v)
		}
	}
	if accepted != 1 {
		t.Errorf("Expected exactly one acceptance, got %d", accepted)
	}
}

func TestShouldSkip_FreshSessionIsIdempotent(t *testing.T) {
	repo := &fakeFlightRepo{flights: []*entity.Flight{
		{UserID: "u1", FlightNumber: "TK1", DepartureAirport: "IST", ArrivalAirport: "LHR"},
	}}
	engine := NewDedupEngine(repo, logger.NewNopLogger())

	for _, flight := range []*entity.ExtractedFlight{
		{FlightNumber: "TK1", DepartureAirport: "IST", ArrivalAirport: "LHR"},
		{FlightNumber: "TK2", DepartureAirport: "LHR", ArrivalAirport: "IST"},
	} {
		first, _ := engine.ShouldSkip(context.Background(), "u1", flight, NewDedupSession())
		second, _ := engine.ShouldSkip(context.Background(), "u1", flight, NewDedupSession())
		if first != second {
			t.Errorf("Verdicts differ for %s: %q vs %q", flight.FlightNumber, first, second)
		}
	}
}

func TestShouldSkip_LookupError(t *testing.T) {
	repoErr := errors.New("connection refused")
	engine := NewDedupEngine(&fakeFlightRepo{lookupErr: repoErr}, logger.NewNopLogger())
	flight := &entity.ExtractedFlight{FlightNumber: "BA456", DepartureAirport: "LHR", ArrivalAirport: "JFK"}

	_, err := engine.ShouldSkip(context.Background(), "u1", flight, NewDedupSession())
	if !errors.Is(err, repoErr) {
		t.Errorf("Expected wrapped repository error, got %v", err)
	}
}
