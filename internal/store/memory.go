package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/prepwise/backend/internal/models"
)

type MemoryUserStore struct {
	mu      sync.RWMutex
	byID    map[uuid.UUID]models.User
	byEmail map[string]uuid.UUID
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{
		byID:    make(map[uuid.UUID]models.User),
		byEmail: make(map[string]uuid.UUID),
	}
}

func (s *MemoryUserStore) Create(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byEmail[u.Email]; ok {
		return ErrDuplicate
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	s.byID[u.ID] = *u
	s.byEmail[u.Email] = u.ID
	return nil
}

func (s *MemoryUserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[email]
	if !ok {
		return nil, ErrNotFound
	}
	u := s.byID[id]
	return &u, nil
}

func (s *MemoryUserStore) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

// MemoryResultStore keeps results in insertion order. Ties on CreatedAt
// are broken by insertion order so listings stay deterministic.
type MemoryResultStore struct {
	mu      sync.RWMutex
	results []models.MCQResult
}

func NewMemoryResultStore() *MemoryResultStore {
	return &MemoryResultStore{}
}

func (s *MemoryResultStore) Save(_ context.Context, r *models.MCQResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	s.results = append(s.results, copyResult(*r))
	return nil
}

func (s *MemoryResultStore) ListByOwner(_ context.Context, kind, ownerID string) ([]models.MCQResult, error) {
	return s.newestFirst(func(r *models.MCQResult) bool {
		return r.OwnerKind == kind && r.OwnerID == ownerID
	}, 0), nil
}

func (s *MemoryResultStore) ListRecent(_ context.Context, kind string, limit int) ([]models.MCQResult, error) {
	return s.newestFirst(func(r *models.MCQResult) bool {
		return r.OwnerKind == kind
	}, limit), nil
}

func (s *MemoryResultStore) ListAll(_ context.Context, kind string) ([]models.MCQResult, error) {
	return s.newestFirst(func(r *models.MCQResult) bool {
		return r.OwnerKind == kind
	}, 0), nil
}

func (s *MemoryResultStore) GetByID(_ context.Context, id uuid.UUID) (*models.MCQResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.results {
		if s.results[i].ID == id {
			r := copyResult(s.results[i])
			return &r, nil
		}
	}
	return nil, ErrNotFound
}

// newestFirst returns matching records sorted by CreatedAt descending,
// truncated to limit when limit > 0.
func (s *MemoryResultStore) newestFirst(match func(*models.MCQResult) bool, limit int) []models.MCQResult {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.MCQResult, 0)
	for i := len(s.results) - 1; i >= 0; i-- {
		if match(&s.results[i]) {
			out = append(out, copyResult(s.results[i]))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func copyResult(r models.MCQResult) models.MCQResult {
	if r.Questions != nil {
		qs := make([]models.QuestionAnswer, len(r.Questions))
		copy(qs, r.Questions)
		r.Questions = qs
	}
	return r
}

// MemoryLogStore is used when no database is configured.
type MemoryLogStore struct {
	mu   sync.Mutex
	logs []models.SystemLog
}

func NewMemoryLogStore() *MemoryLogStore {
	return &MemoryLogStore{}
}

func (s *MemoryLogStore) InsertLogs(_ context.Context, logs []models.SystemLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logs = append(s.logs, logs...)
	return nil
}

func (s *MemoryLogStore) DeleteLogsBefore(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.logs[:0]
	var deleted int64
	for _, l := range s.logs {
		if l.Timestamp.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, l)
	}
	s.logs = kept
	return deleted, nil
}

// Logs returns a snapshot of stored records.
func (s *MemoryLogStore) Logs() []models.SystemLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.SystemLog, len(s.logs))
	copy(out, s.logs)
	return out
}
