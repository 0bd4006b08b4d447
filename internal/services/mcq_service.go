package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/segmentio/ksuid"

	"github.com/prepwise/backend/internal/dto"
	"github.com/prepwise/backend/internal/models"
	"github.com/prepwise/backend/internal/store"
)

// GuestListLimit caps the public listing of recent guest results.
const GuestListLimit = 50

const guestIDPrefix = "guest_"

type MCQService struct {
	results store.ResultStore
}

func NewMCQService(results store.ResultStore) *MCQService {
	return &MCQService{results: results}
}

// SaveUserResult stores one answered question for a signed-in user. The
// caller's isCorrect must be present but the stored flag is derived from
// the two options.
func (s *MCQService) SaveUserResult(ctx context.Context, userID uuid.UUID, req *dto.SaveMCQRequest) (*dto.MCQResultResponse, error) {
	if req.Question == "" || req.SelectedOption == "" || req.CorrectOption == "" || req.IsCorrect == nil {
		return nil, fmt.Errorf("%w: question, selectedOption, correctOption and isCorrect are required", ErrInvalidInput)
	}

	questionType := req.QuestionType
	if questionType == "" {
		questionType = models.SourceTopic
	}
	if !validSource(questionType) {
		return nil, fmt.Errorf("%w: questionType must be topic or pdf", ErrInvalidInput)
	}

	isCorrect := req.SelectedOption == req.CorrectOption
	if isCorrect != *req.IsCorrect {
		slog.Warn("client isCorrect disagrees with options",
			"user_id", userID.String(),
			"client_is_correct", *req.IsCorrect,
			"is_correct", isCorrect,
		)
	}

	record := models.MCQResult{
		OwnerKind:      models.OwnerUser,
		OwnerID:        userID.String(),
		Question:       req.Question,
		SelectedOption: req.SelectedOption,
		CorrectOption:  req.CorrectOption,
		IsCorrect:      isCorrect,
		QuestionType:   questionType,
		Topic:          req.Topic,
	}
	if err := s.results.Save(ctx, &record); err != nil {
		return nil, err
	}

	resp := toMCQResultResponse(&record)
	return &resp, nil
}

func (s *MCQService) History(ctx context.Context, userID uuid.UUID) ([]dto.MCQResultResponse, error) {
	records, err := s.results.ListByOwner(ctx, models.OwnerUser, userID.String())
	if err != nil {
		return nil, err
	}
	out := make([]dto.MCQResultResponse, 0, len(records))
	for i := range records {
		out = append(out, toMCQResultResponse(&records[i]))
	}
	return out, nil
}

func (s *MCQService) UserStats(ctx context.Context, userID uuid.UUID) (dto.UserStats, error) {
	records, err := s.results.ListByOwner(ctx, models.OwnerUser, userID.String())
	if err != nil {
		return dto.UserStats{}, err
	}
	return ComputeUserStats(records), nil
}

// SaveGuestResult stores a whole scored quiz. A missing guestId is replaced
// by a generated one.
func (s *MCQService) SaveGuestResult(ctx context.Context, req *dto.GuestResultRequest) (*dto.GuestResultResponse, error) {
	if err := validateGuestResult(req); err != nil {
		return nil, err
	}

	guestID := strings.TrimSpace(req.GuestID)
	if guestID == "" {
		guestID = guestIDPrefix + ksuid.New().String()
	}

	questions := make([]models.QuestionAnswer, 0, len(req.Questions))
	for _, q := range req.Questions {
		questions = append(questions, models.QuestionAnswer(q))
	}

	record := models.MCQResult{
		OwnerKind:      models.OwnerGuest,
		OwnerID:        guestID,
		Type:           req.Type,
		Topic:          req.Topic,
		PDFName:        req.PDFName,
		Questions:      questions,
		Score:          *req.Score,
		TotalQuestions: *req.TotalQuestions,
	}
	if err := s.results.Save(ctx, &record); err != nil {
		return nil, err
	}

	resp := toGuestResultResponse(&record)
	return &resp, nil
}

func (s *MCQService) RecentGuestResults(ctx context.Context) ([]dto.GuestResultResponse, error) {
	records, err := s.results.ListRecent(ctx, models.OwnerGuest, GuestListLimit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.GuestResultResponse, 0, len(records))
	for i := range records {
		out = append(out, toGuestResultResponse(&records[i]))
	}
	return out, nil
}

// GetResult looks up a guest result. Malformed ids and records owned by
// registered users are both reported as ErrNotFound.
func (s *MCQService) GetResult(ctx context.Context, id string) (*dto.GuestResultResponse, error) {
	rid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrNotFound
	}
	record, err := s.results.GetByID(ctx, rid)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if record.OwnerKind != models.OwnerGuest {
		return nil, ErrNotFound
	}
	resp := toGuestResultResponse(record)
	return &resp, nil
}

func (s *MCQService) TypeStats(ctx context.Context) ([]dto.TypeStats, error) {
	records, err := s.results.ListAll(ctx, models.OwnerGuest)
	if err != nil {
		return nil, err
	}
	return ComputeTypeStats(records), nil
}

func validateGuestResult(req *dto.GuestResultRequest) error {
	var missing []string
	if req.Type == "" {
		missing = append(missing, "type")
	}
	if req.Topic == "" && req.PDFName == "" {
		missing = append(missing, "topic or pdfName")
	}
	if req.Score == nil {
		missing = append(missing, "score")
	}
	if req.TotalQuestions == nil {
		missing = append(missing, "totalQuestions")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrInvalidInput, strings.Join(missing, ", "))
	}

	if !validSource(req.Type) {
		return fmt.Errorf("%w: type must be topic or pdf", ErrInvalidInput)
	}
	if *req.Score < 0 || *req.TotalQuestions < 0 {
		return fmt.Errorf("%w: score and totalQuestions must not be negative", ErrInvalidInput)
	}
	if *req.TotalQuestions > 0 && *req.Score > *req.TotalQuestions {
		return fmt.Errorf("%w: score exceeds totalQuestions", ErrInvalidInput)
	}
	return nil
}

func validSource(t string) bool {
	return t == models.SourceTopic || t == models.SourcePDF
}

func toMCQResultResponse(r *models.MCQResult) dto.MCQResultResponse {
	return dto.MCQResultResponse{
		ID:             r.ID,
		UserID:         r.OwnerID,
		Question:       r.Question,
		SelectedOption: r.SelectedOption,
		CorrectOption:  r.CorrectOption,
		IsCorrect:      r.IsCorrect,
		QuestionType:   r.QuestionType,
		Topic:          r.Topic,
		Timestamp:      r.CreatedAt,
	}
}

func toGuestResultResponse(r *models.MCQResult) dto.GuestResultResponse {
	questions := make([]dto.QuestionAnswer, 0, len(r.Questions))
	for _, q := range r.Questions {
		questions = append(questions, dto.QuestionAnswer(q))
	}
	return dto.GuestResultResponse{
		ID:             r.ID,
		GuestID:        r.OwnerID,
		Type:           r.Type,
		Topic:          r.Topic,
		PDFName:        r.PDFName,
		Questions:      questions,
		Score:          r.Score,
		TotalQuestions: r.TotalQuestions,
		CreatedAt:      r.CreatedAt,
	}
}
