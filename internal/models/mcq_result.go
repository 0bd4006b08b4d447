package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Owner kinds of an MCQ result.
const (
	OwnerUser  = "user"
	OwnerGuest = "guest"
)

// Source types of a question set.
const (
	SourceTopic = "topic"
	SourcePDF   = "pdf"
)

// QuestionAnswer is one answered question inside a guest quiz result.
type QuestionAnswer struct {
	Question      string `json:"question"`
	CorrectAnswer string `json:"correctAnswer"`
	UserAnswer    string `json:"userAnswer,omitempty"`
	IsCorrect     bool   `json:"isCorrect"`
}

// MCQResult stores both kinds of attempt: a single answered question owned
// by a registered user, or a whole scored quiz owned by a guest id.
type MCQResult struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OwnerKind string    `gorm:"size:10;not null;index:idx_mcq_results_owner,priority:1" json:"owner_kind"`
	OwnerID   string    `gorm:"size:64;not null;index:idx_mcq_results_owner,priority:2" json:"owner_id"`

	// Per-question attempt (user results)
	Question       string `gorm:"type:text" json:"question,omitempty"`
	SelectedOption string `gorm:"type:text" json:"selected_option,omitempty"`
	CorrectOption  string `gorm:"type:text" json:"correct_option,omitempty"`
	IsCorrect      bool   `gorm:"default:false" json:"is_correct"`
	QuestionType   string `gorm:"size:10" json:"question_type,omitempty"`

	// Whole quiz (guest results)
	Type           string                              `gorm:"size:10;index" json:"type,omitempty"`
	PDFName        string                              `gorm:"size:255" json:"pdf_name,omitempty"`
	Questions      datatypes.JSONSlice[QuestionAnswer] `gorm:"type:jsonb" json:"questions,omitempty"`
	Score          int                                 `json:"score"`
	TotalQuestions int                                 `json:"total_questions"`

	Topic     string    `gorm:"size:255;index" json:"topic"`
	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
}

func (MCQResult) TableName() string {
	return "mcq_results"
}
