package worker

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"learnex_quiz/internal/domain/model"
)

var errNoQuestionArray = errors.New("model output contains no JSON array of questions")

// ExtractQuestions pulls the question array out of raw model output. Models
// often wrap it in a ```json fence or add a sentence around it.
func ExtractQuestions(raw string) ([]model.QuestionInput, error) {
	text := stripFence(strings.TrimSpace(raw))
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start < 0 || end <= start {
		return nil, errNoQuestionArray
	}

	var items []model.QuestionInput
	if err := json.Unmarshal([]byte(text[start:end+1]), &items); err != nil {
		return nil, fmt.Errorf("model output is not a valid question array: %w", err)
	}
	if len(items) == 0 {
		return nil, errNoQuestionArray
	}
	return items, nil
}

func stripFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	if nl := strings.Index(s, "\n"); nl >= 0 {
		s = s[nl+1:]
	}
	return strings.TrimSuffix(strings.TrimSpace(s), "```")
}
