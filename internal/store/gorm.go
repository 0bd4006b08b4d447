package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/prepwise/backend/internal/models"
)

// batchSize bounds a single multi-row log insert.
const batchSize = 50

type GormUserStore struct {
	db *gorm.DB
}

func NewGormUserStore(db *gorm.DB) *GormUserStore {
	return &GormUserStore{db: db}
}

func (s *GormUserStore) Create(ctx context.Context, u *models.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if err := s.db.WithContext(ctx).Create(u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (s *GormUserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *GormUserStore) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

type GormResultStore struct {
	db *gorm.DB
}

func NewGormResultStore(db *gorm.DB) *GormResultStore {
	return &GormResultStore{db: db}
}

func (s *GormResultStore) Save(ctx context.Context, r *models.MCQResult) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	if err := s.db.WithContext(ctx).Create(r).Error; err != nil {
		return fmt.Errorf("failed to save mcq result: %w", err)
	}
	return nil
}

func (s *GormResultStore) ListByOwner(ctx context.Context, kind, ownerID string) ([]models.MCQResult, error) {
	results := make([]models.MCQResult, 0)
	err := s.db.WithContext(ctx).
		Where("owner_kind = ? AND owner_id = ?", kind, ownerID).
		Order("created_at DESC").
		Find(&results).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list mcq results: %w", err)
	}
	return results, nil
}

func (s *GormResultStore) ListRecent(ctx context.Context, kind string, limit int) ([]models.MCQResult, error) {
	results := make([]models.MCQResult, 0)
	err := s.db.WithContext(ctx).
		Where("owner_kind = ?", kind).
		Order("created_at DESC").
		Limit(limit).
		Find(&results).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list recent mcq results: %w", err)
	}
	return results, nil
}

func (s *GormResultStore) ListAll(ctx context.Context, kind string) ([]models.MCQResult, error) {
	results := make([]models.MCQResult, 0)
	if err := s.db.WithContext(ctx).Where("owner_kind = ?", kind).Find(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to list mcq results: %w", err)
	}
	return results, nil
}

func (s *GormResultStore) GetByID(ctx context.Context, id uuid.UUID) (*models.MCQResult, error) {
	var result models.MCQResult
	if err := s.db.WithContext(ctx).First(&result, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &result, nil
}

type GormLogStore struct {
	db *gorm.DB
}

func NewGormLogStore(db *gorm.DB) *GormLogStore {
	return &GormLogStore{db: db}
}

func (s *GormLogStore) InsertLogs(ctx context.Context, logs []models.SystemLog) error {
	if len(logs) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).CreateInBatches(logs, batchSize).Error
}

func (s *GormLogStore) DeleteLogsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := s.db.WithContext(ctx).Where("timestamp < ?", cutoff).Delete(&models.SystemLog{})
	return result.RowsAffected, result.Error
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
