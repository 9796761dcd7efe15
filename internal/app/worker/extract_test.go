package worker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractQuestions(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		count int
	}{
		{"bare array", `[{"question":"q","options":["a","b"],"answer":"a"}]`, 1},
		{"fenced", "```json\n[{\"question\":\"q\",\"options\":[\"a\"],\"answer\":\"a\"}]\n```", 1},
		{"with chatter", "Here you go:\n[{\"question\":\"q1\",\"options\":[\"a\"],\"answer\":\"a\"},{\"question\":\"q2\",\"options\":[\"b\"],\"answer\":\"b\"}]\nEnjoy!", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := ExtractQuestions(tt.raw)
			require.NoError(t, err)
			assert.Len(t, items, tt.count)
		})
	}
}

func TestExtractQuestionsRejects(t *testing.T) {
	for _, raw := range []string{"", "no json here", "[]", `[{"question": }]`} {
		_, err := ExtractQuestions(raw)
		assert.Error(t, err, raw)
	}
}

func TestArchiveKey(t *testing.T) {
	assert.Equal(t, "quizzes/ipl-2024-stats-abc.json", ArchiveKey("IPL 2024: Stats!", "abc"))
	assert.Equal(t, "quizzes/quiz-abc.json", ArchiveKey("!!!", "abc"))
}
