package dto

import (
	"time"

	"github.com/google/uuid"
)

// SaveMCQRequest is a single answered question from a signed-in user.
// IsCorrect is a pointer so that an explicit false is told apart from an
// absent field.
type SaveMCQRequest struct {
	Question       string `json:"question"`
	SelectedOption string `json:"selectedOption"`
	CorrectOption  string `json:"correctOption"`
	IsCorrect      *bool  `json:"isCorrect"`
	QuestionType   string `json:"questionType"`
	Topic          string `json:"topic"`
}

type MCQResultResponse struct {
	ID             uuid.UUID `json:"id"`
	UserID         string    `json:"userId"`
	Question       string    `json:"question"`
	SelectedOption string    `json:"selectedOption"`
	CorrectOption  string    `json:"correctOption"`
	IsCorrect      bool      `json:"isCorrect"`
	QuestionType   string    `json:"questionType"`
	Topic          string    `json:"topic"`
	Timestamp      time.Time `json:"timestamp"`
}

type SaveMCQResponse struct {
	Status  string            `json:"status"`
	Message string            `json:"message"`
	Result  MCQResultResponse `json:"result"`
}

type HistoryResponse struct {
	Status  string              `json:"status"`
	Results []MCQResultResponse `json:"results"`
}

type QuestionAnswer struct {
	Question      string `json:"question"`
	CorrectAnswer string `json:"correctAnswer"`
	UserAnswer    string `json:"userAnswer,omitempty"`
	IsCorrect     bool   `json:"isCorrect"`
}

// GuestResultRequest is a whole scored quiz submitted without an account.
type GuestResultRequest struct {
	GuestID        string           `json:"guestId"`
	Type           string           `json:"type"`
	Topic          string           `json:"topic"`
	PDFName        string           `json:"pdfName"`
	Questions      []QuestionAnswer `json:"questions"`
	Score          *int             `json:"score"`
	TotalQuestions *int             `json:"totalQuestions"`
}

type GuestResultResponse struct {
	ID             uuid.UUID        `json:"_id"`
	GuestID        string           `json:"guestId"`
	Type           string           `json:"type"`
	Topic          string           `json:"topic,omitempty"`
	PDFName        string           `json:"pdfName,omitempty"`
	Questions      []QuestionAnswer `json:"questions"`
	Score          int              `json:"score"`
	TotalQuestions int              `json:"totalQuestions"`
	CreatedAt      time.Time        `json:"createdAt"`
}

type SaveGuestResultResponse struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Result  GuestResultResponse `json:"result"`
}

type TopicStats struct {
	Total    int     `json:"total"`
	Correct  int     `json:"correct"`
	Accuracy float64 `json:"accuracy"`
}

type UserStats struct {
	Total    int                   `json:"total"`
	Correct  int                   `json:"correct"`
	Accuracy float64               `json:"accuracy"`
	ByTopic  map[string]TopicStats `json:"byTopic"`
}

type UserStatsResponse struct {
	Status string    `json:"status"`
	Stats  UserStats `json:"stats"`
}

// TypeStats aggregates guest quizzes of one source type. Scores are
// percentages rounded to two decimals.
type TypeStats struct {
	Type          string  `json:"_id"`
	TotalAttempts int     `json:"totalAttempts"`
	AvgScore      float64 `json:"avgScore"`
	BestScore     float64 `json:"bestScore"`
}

type TypeStatsResponse struct {
	Success bool        `json:"success"`
	Stats   []TypeStats `json:"stats"`
}
