package repository

import (
	"context"

	"flightlog-service/internal/domain/entity"
)

// ScanLogRepository stores per-email scan outcomes
type ScanLogRepository interface {
	SaveAll(ctx context.Context, entries []entity.ScanLogEntry) error
	FindByScanID(ctx context.Context, scanID string) ([]entity.ScanLogEntry, error)
}

// SyncStatusRepository tracks mailbox scan progress per user
type SyncStatusRepository interface {
	Upsert(ctx context.Context, status *entity.EmailSyncStatus) error
	GetByUserID(ctx context.Context, userID string) (*entity.EmailSyncStatus, error)
}
