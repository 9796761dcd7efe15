package service

import (
	"context"
	"fmt"
	"strings"

	"learnex_quiz/internal/common"
	"learnex_quiz/internal/platform/llm"
)

const (
	DefaultQuestionCount = 5
	MaxQuestionCount     = 50
	DefaultDifficulty    = "Medium"
)

// GenerationService turns generation requests into prompts and returns the
// model's raw text. Nothing here parses or validates what the model says.
type GenerationService struct {
	gen llm.Generator
}

func NewGenerationService(gen llm.Generator) *GenerationService {
	return &GenerationService{gen: gen}
}

type GenerateQuizRequest struct {
	Topic      string `json:"topic"`
	Count      int    `json:"count"`
	Difficulty string `json:"difficulty"`
	Load       bool   `json:"load"`
}

func (r *GenerateQuizRequest) normalize() error {
	r.Topic = strings.TrimSpace(r.Topic)
	if r.Topic == "" {
		return fmt.Errorf("%w: topic is required", common.ErrValidation)
	}
	if r.Count == 0 {
		r.Count = DefaultQuestionCount
	}
	if r.Count < 1 || r.Count > MaxQuestionCount {
		return fmt.Errorf("%w: count must be between 1 and %d", common.ErrValidation, MaxQuestionCount)
	}
	if strings.TrimSpace(r.Difficulty) == "" {
		r.Difficulty = DefaultDifficulty
	}
	return nil
}

type AskRequest struct {
	Context  string `json:"context"`
	Question string `json:"question"`
}

func (s *GenerationService) GenerateQuiz(ctx context.Context, req GenerateQuizRequest) (string, error) {
	if err := req.normalize(); err != nil {
		return "", err
	}
	return s.generate(ctx, llm.QuizPrompt(req.Topic, req.Count, req.Difficulty))
}

// Ask answers a question from the supplied reference text only.
func (s *GenerationService) Ask(ctx context.Context, req AskRequest) (string, error) {
	if strings.TrimSpace(req.Question) == "" {
		return "", fmt.Errorf("%w: question is required", common.ErrValidation)
	}
	return s.generate(ctx, llm.AskPrompt(req.Context, req.Question))
}

func (s *GenerationService) GenerateFromData(ctx context.Context, prompt string, offset int, data string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", fmt.Errorf("%w: prompt is required", common.ErrValidation)
	}
	return s.generate(ctx, llm.DataPrompt(prompt, offset, data))
}

func (s *GenerationService) generate(ctx context.Context, prompt string) (string, error) {
	text, err := s.gen.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("generation failed: %w", err)
	}
	return text, nil
}
