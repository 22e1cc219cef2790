package usecase

import (
	"fmt"
	"sync"
	"time"

	"flightlog-service/internal/domain/entity"
)

// ScanLogger collects one entry per processed email
type ScanLogger struct {
	mu      sync.Mutex
	entries []entity.ScanLogEntry
}

// NewScanLogger creates an empty scan logger
func NewScanLogger() *ScanLogger {
	return &ScanLogger{}
}

// Record appends an entry
func (l *ScanLogger) Record(entry entity.ScanLogEntry) {
	if entry.LoggedAt.IsZero() {
		entry.LoggedAt = time.Now()
	}

	l.mu.Lock()
	l.entries = append(l.entries, entry)
	l.mu.Unlock()
}

// Summary counts entries per status
func (l *ScanLogger) Summary() entity.ScanSummary {
	l.mu.Lock()
	defer l.mu.Unlock()

	summary := entity.ScanSummary{Total: len(l.entries)}
	for _, e := range l.entries {
		switch e.Status {
		case entity.ScanStatusSuccess:
			summary.Success++
		case entity.ScanStatusSkipped:
			summary.Skipped++
		case entity.ScanStatusFailed:
			summary.Failed++
		case entity.ScanStatusNoFlightData:
			summary.NoFlightData++
		}
	}

	rate := 0.0
	if summary.Total > 0 {
		rate = float64(summary.Success) / float64(summary.Total) * 100
	}
	summary.SuccessRate = fmt.Sprintf("%.1f", rate)

	return summary
}

// Unparseable returns failed and no_flight_data entries
func (l *ScanLogger) Unparseable() []entity.ScanLogEntry {
	return l.filter(func(e entity.ScanLogEntry) bool {
		return e.Status == entity.ScanStatusFailed || e.Status == entity.ScanStatusNoFlightData
	})
}

// Successful returns success entries
func (l *ScanLogger) Successful() []entity.ScanLogEntry {
	return l.filter(func(e entity.ScanLogEntry) bool {
		return e.Status == entity.ScanStatusSuccess
	})
}

// All returns a copy of every entry in record order
func (l *ScanLogger) All() []entity.ScanLogEntry {
	return l.filter(func(entity.ScanLogEntry) bool { return true })
}

func (l *ScanLogger) filter(keep func(entity.ScanLogEntry) bool) []entity.ScanLogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	var out []entity.ScanLogEntry
	for _, e := range l.entries {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}
