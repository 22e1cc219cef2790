package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"flightlog-service/internal/domain/entity"
	"flightlog-service/pkg/logger"
)

func TestBuildScanQuery(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	got := BuildScanQuery(DefaultScanQuery, now, 2)

	want := fmt.Sprintf("(flight OR booking OR confirmation OR itinerary) after:%d", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Unix())
	if got != want {
		t.Errorf("BuildScanQuery() = %q, want %q", got, want)
	}
}

func TestScan(t *testing.T) {
	mail := &fakeMailSource{
		ids: []string{"m1", "m2", "m3", "m4", "missing"},
		messages: map[string]*entity.RawEmail{
			"m1": plainEmail("m1", "Your booking confirmation – BA456", bookingBody),
			"m2": plainEmail("m2", "Fwd: Your booking confirmation – BA456", bookingBody),
			"m3": plainEmail("m3", "Summer sale on flights", "LHR to JFK from 199"),
			"m4": plainEmail("m4", "Your itinerary", "Thanks for travelling"),
		},
	}
	repo := &fakeFlightRepo{}
	syncRepo := &fakeSyncRepo{}
	logRepo := &fakeScanLogRepo{}

	orchestrator := NewScanOrchestrator(
		mail,
		newTestProcessor(repo, mail, nil),
		&fakeUserRepo{},
		syncRepo,
		logRepo,
		ScanOptions{MaxResults: 50, Concurrency: 3},
		logger.NewNopLogger(),
	)

	report, err := orchestrator.Scan(context.Background(), "jane@example.com")
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	if report.UserID != "user-jane@example.com" {
		t.Errorf("UserID = %q", report.UserID)
	}
	if report.EmailsScanned != 4 || report.FlightsFound != 1 {
		t.Errorf("Scanned/found = %d/%d, want 4/1", report.EmailsScanned, report.FlightsFound)
	}

	summary := report.Summary
	if summary.Total != 5 || summary.Success != 1 || summary.Skipped != 2 || summary.Failed != 1 || summary.NoFlightData != 1 {
		t.Errorf("Unexpected summary %+v", summary)
	}
	if len(report.Unparseable) != 2 {
		t.Errorf("Expected 2 unparseable entries, got %d", len(report.Unparseable))
	}

	if !strings.HasPrefix(mail.lastQuery, DefaultScanQuery+" after:") || mail.lastLimit != 50 {
		t.Errorf("Unexpected list call: %q limit %d", mail.lastQuery, mail.lastLimit)
	}
	if len(logRepo.saved) != 5 || logRepo.saved[0].ScanID != report.ScanID {
		t.Errorf("Expected 5 scan logs saved under the scan ID, got %d", len(logRepo.saved))
	}

	if len(syncRepo.statuses) != 2 {
		t.Fatalf("Expected 2 sync status updates, got %d", len(syncRepo.statuses))
	}
	if syncRepo.statuses[0].SyncStatus != entity.SyncStatusInProgress {
		t.Errorf("First status = %q", syncRepo.statuses[0].SyncStatus)
	}
	final := syncRepo.statuses[1]
	if final.SyncStatus != entity.SyncStatusCompleted || final.EmailsScanned != 4 || final.FlightsFound != 1 {
		t.Errorf("Final status = %+v", final)
	}
}

func TestScan_UnparseableSampleIsBounded(t *testing.T) {
	mail := &fakeMailSource{messages: map[string]*entity.RawEmail{}}
	for i := 0; i < 15; i++ {
		id := fmt.Sprintf("m%d", i)
		mail.ids = append(mail.ids, id)
		mail.messages[id] = plainEmail(id, "Your itinerary", "nothing useful")
	}

	orchestrator := NewScanOrchestrator(mail, newTestProcessor(&fakeFlightRepo{}, mail, nil), &fakeUserRepo{}, nil, nil, ScanOptions{}, logger.NewNopLogger())

	report, err := orchestrator.Scan(context.Background(), "jane@example.com")
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if report.Summary.NoFlightData != 15 {
		t.Errorf("NoFlightData = %d, want 15", report.Summary.NoFlightData)
	}
	if len(report.Unparseable) != unparseableSampleSize {
		t.Errorf("Unparseable sample = %d, want %d", len(report.Unparseable), unparseableSampleSize)
	}
}

func TestScan_ListFailureMarksSyncFailed(t *testing.T) {
	mail := &fakeMailSource{listErr: errors.New("quota exceeded")}
	syncRepo := &fakeSyncRepo{}

	orchestrator := NewScanOrchestrator(mail, newTestProcessor(&fakeFlightRepo{}, mail, nil), &fakeUserRepo{}, syncRepo, nil, ScanOptions{}, logger.NewNopLogger())

	if _, err := orchestrator.Scan(context.Background(), "jane@example.com"); err == nil {
		t.Fatal("Expected error")
	}

	status, _ := syncRepo.GetByUserID(context.Background(), "user-jane@example.com")
	if status == nil || status.SyncStatus != entity.SyncStatusFailed || !strings.Contains(status.ErrorMessage, "quota exceeded") {
		t.Errorf("Final status = %+v", status)
	}
}

func TestScan_UserUpsertFailure(t *testing.T) {
	mail := &fakeMailSource{}
	orchestrator := NewScanOrchestrator(mail, newTestProcessor(&fakeFlightRepo{}, mail, nil), &fakeUserRepo{err: errors.New("db down")}, nil, nil, ScanOptions{}, logger.NewNopLogger())

	if _, err := orchestrator.Scan(context.Background(), "jane@example.com"); err == nil {
		t.Fatal("Expected error")
	}
}

func TestScan_CallerCancelStopsDispatchButFinishes(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mail := &fakeMailSource{
		ids: []string{"m1", "m2", "m3"},
		messages: map[string]*entity.RawEmail{
			"m1": plainEmail("m1", "Your booking confirmation – BA456", bookingBody),
			"m2": plainEmail("m2", "Lunch", "see you"),
			"m3": plainEmail("m3", "Lunch", "see you"),
		},
		onGet: func(id string) {
			if id == "m1" {
				cancel()
			}
		},
	}
	repo := &fakeFlightRepo{}
	syncRepo := &fakeSyncRepo{}
	logRepo := &fakeScanLogRepo{}

	orchestrator := NewScanOrchestrator(mail, newTestProcessor(repo, mail, nil), &fakeUserRepo{}, syncRepo, logRepo, ScanOptions{Concurrency: 1}, logger.NewNopLogger())

	_, err := orchestrator.Scan(ctx, "jane@example.com")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Scan() error = %v, want context.Canceled", err)
	}

	if len(repo.flights) != 1 {
		t.Errorf("In-flight email should still be stored, got %d flights", len(repo.flights))
	}
	if n := len(logRepo.saved); n == 0 || n == len(mail.ids) {
		t.Errorf("Expected a partial scan log to be saved, got %d entries", n)
	}

	status, _ := syncRepo.GetByUserID(context.Background(), "user-jane@example.com")
	if status == nil || status.SyncStatus != entity.SyncStatusFailed {
		t.Errorf("Final status = %+v, want failed", status)
	}
}
