// internal/domain/entity/scan_log.go
package entity

import "time"

// ScanStatus is the outcome of processing one email
type ScanStatus string

const (
	ScanStatusSuccess      ScanStatus = "success"
	ScanStatusSkipped      ScanStatus = "skipped"
	ScanStatusFailed       ScanStatus = "failed"
	ScanStatusNoFlightData ScanStatus = "no_flight_data"
)

// ScanLogEntry records what happened to one email during a scan
type ScanLogEntry struct {
	ScanID        string           `json:"scanId,omitempty" bson:"scanId"`
	UserID        string           `json:"userId,omitempty" bson:"userId"`
	EmailID       string           `json:"emailId" bson:"emailId"`
	Subject       string           `json:"subject" bson:"subject"`
	From          string           `json:"from,omitempty" bson:"from,omitempty"`
	Date          string           `json:"date,omitempty" bson:"date,omitempty"`
	Status        ScanStatus       `json:"status" bson:"status"`
	Reason        string           `json:"reason,omitempty" bson:"reason,omitempty"`
	ExtractedData *ExtractedFlight `json:"extractedData,omitempty" bson:"extractedData,omitempty"`
	LoggedAt      time.Time        `json:"loggedAt" bson:"loggedAt"`
}

// ScanSummary aggregates scan log entries by status
type ScanSummary struct {
	Total        int    `json:"total"`
	Success      int    `json:"success"`
	Skipped      int    `json:"skipped"`
	Failed       int    `json:"failed"`
	NoFlightData int    `json:"noFlightData"`
	SuccessRate  string `json:"successRate"`
}
