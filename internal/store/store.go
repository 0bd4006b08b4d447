// Package store persists users, MCQ results and system logs. Each concern
// has a GORM implementation for PostgreSQL and an in-memory one used by
// tests and by STORAGE_DRIVER=memory.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/prepwise/backend/internal/models"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

// UserStore owns User records.
type UserStore interface {
	// Create inserts u and fills its ID and timestamps. It returns
	// ErrDuplicate when the email is already taken.
	Create(ctx context.Context, u *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// ResultStore owns MCQResult records. Listing methods return newest first
// and an empty, non-nil slice when nothing matches.
type ResultStore interface {
	Save(ctx context.Context, r *models.MCQResult) error
	ListByOwner(ctx context.Context, kind, ownerID string) ([]models.MCQResult, error)
	ListRecent(ctx context.Context, kind string, limit int) ([]models.MCQResult, error)
	ListAll(ctx context.Context, kind string) ([]models.MCQResult, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.MCQResult, error)
}

// LogStore receives batched system log records.
type LogStore interface {
	InsertLogs(ctx context.Context, logs []models.SystemLog) error
	DeleteLogsBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
