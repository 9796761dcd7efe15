package model

import "time"

// QuizAttempt is immutable once recorded.
type QuizAttempt struct {
	ID             int64     `json:"id"`
	UserID         int64     `json:"-"`
	Score          int       `json:"score"`
	TotalQuestions int       `json:"total_questions"`
	TimeTaken      float64   `json:"time_taken"`
	Level          string    `json:"level"`
	Timestamp      time.Time `json:"timestamp"`
}

type QuizAttemptAnswer struct {
	ID            int64   `json:"-"`
	AttemptID     int64   `json:"-"`
	Position      int     `json:"-"`
	QuestionID    *int64  `json:"-"` // weak reference, the question may be gone
	QuestionText  string  `json:"question_text"`
	UserAnswer    *string `json:"user_answer"`
	CorrectAnswer string  `json:"correct_answer"`
	IsCorrect     bool    `json:"is_correct"`
}

type AttemptDetail struct {
	Summary QuizAttempt         `json:"summary"`
	Answers []QuizAttemptAnswer `json:"answers"`
}
