package usecase

import (
	"sync"
	"testing"

	"flightlog-service/internal/domain/entity"
)

func TestScanLogger_Summary(t *testing.T) {
	log := NewScanLogger()
	for _, status := range []entity.ScanStatus{
		entity.ScanStatusSuccess,
		entity.ScanStatusSuccess,
		entity.ScanStatusSkipped,
		entity.ScanStatusFailed,
		entity.ScanStatusNoFlightData,
		entity.ScanStatusNoFlightData,
	} {
		log.Record(entity.ScanLogEntry{EmailID: string(status), Status: status})
	}

	got := log.Summary()
	want := entity.ScanSummary{Total: 6, Success: 2, Skipped: 1, Failed: 1, NoFlightData: 2, SuccessRate: "33.3"}
	if got != want {
		t.Errorf("Summary() = %+v, want %+v", got, want)
	}

	if n := len(log.Unparseable()); n != 3 {
		t.Errorf("Unparseable() returned %d entries, want 3", n)
	}
	if n := len(log.Successful()); n != 2 {
		t.Errorf("Successful() returned %d entries, want 2", n)
	}
}

func TestScanLogger_EmptySummary(t *testing.T) {
	got := NewScanLogger().Summary()
	if got.Total != 0 || got.SuccessRate != "0.0" {
		t.Errorf("Summary() = %+v, want zero total and rate 0.0", got)
	}
}

func TestScanLogger_ConcurrentRecord(t *testing.T) {
	log := NewScanLogger()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			log.Record(entity.ScanLogEntry{Status: entity.ScanStatusSuccess})
		}()
	}
	wg.Wait()

	summary := log.Summary()
	if summary.Total != 50 || summary.SuccessRate != "100.0" {
		t.Errorf("Summary() = %+v, want 50 entries at 100.0", summary)
	}
	for _, e := range log.All() {
		if e.LoggedAt.IsZero() {
			t.Error("Expected LoggedAt to be set")
			break
		}
	}
}
