package entity

import "time"

// Email sync status
const (
	SyncStatusPending    = "pending"
	SyncStatusInProgress = "in_progress"
	SyncStatusCompleted  = "completed"
	SyncStatusFailed     = "failed"
)

// EmailSyncStatus tracks the last scan of a user's mailbox
type EmailSyncStatus struct {
	UserID        string    `json:"userId" bson:"userId"`
	SyncStatus    string    `json:"syncStatus" bson:"syncStatus"`
	LastSyncAt    time.Time `json:"lastSyncAt" bson:"lastSyncAt"`
	EmailsScanned int       `json:"emailsScanned" bson:"emailsScanned"`
	FlightsFound  int       `json:"flightsFound" bson:"flightsFound"`
	ErrorMessage  string    `json:"errorMessage,omitempty" bson:"errorMessage,omitempty"`
}
