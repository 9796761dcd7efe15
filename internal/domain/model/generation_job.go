package model

import "time"

const (
	JobStatusQueued     = "queued"
	JobStatusProcessing = "processing"
	JobStatusCompleted  = "completed"
	JobStatusFailed     = "failed"
)

// GenerationJob asks the worker to generate a quiz and load it into the question store.
type GenerationJob struct {
	ID            string    `json:"id"`
	UserID        int64     `json:"user_id"`
	Topic         string    `json:"topic"`
	Count         int       `json:"count"`
	Difficulty    string    `json:"difficulty"`
	Status        string    `json:"status"`
	Attempts      int       `json:"attempts"`
	QuestionCount int       `json:"question_count,omitempty"`
	ArchiveKey    string    `json:"archive_key,omitempty"`
	LastError     *string   `json:"last_error,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
