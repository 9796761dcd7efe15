package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"learnex_quiz/internal/common"
	"learnex_quiz/internal/domain/model"
	"learnex_quiz/internal/domain/repository"
	"learnex_quiz/internal/platform/llm"
)

func TestGenerateQuizDefaults(t *testing.T) {
	gen := &fakeGenerator{reply: "raw model text"}
	svc := NewGenerationService(gen)

	text, err := svc.GenerateQuiz(context.Background(), GenerateQuizRequest{Topic: "  Cricket "})
	require.NoError(t, err)
	assert.Equal(t, "raw model text", text)
	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "Generate 5 multiple-choice quiz questions about 'Cricket'")
	assert.Contains(t, gen.prompts[0], "Difficulty: Medium.")
}

func TestGenerateQuizValidation(t *testing.T) {
	svc := NewGenerationService(&fakeGenerator{})

	_, err := svc.GenerateQuiz(context.Background(), GenerateQuizRequest{})
	assert.ErrorIs(t, err, common.ErrValidation)

	_, err = svc.GenerateQuiz(context.Background(), GenerateQuizRequest{Topic: "Go", Count: MaxQuestionCount + 1})
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestAskTruncatesContext(t *testing.T) {
	gen := &fakeGenerator{reply: "an answer"}
	svc := NewGenerationService(gen)

	context40k := strings.Repeat("x", 40000)
	answer, err := svc.Ask(context.Background(), AskRequest{Context: context40k, Question: "Why?"})
	require.NoError(t, err)
	assert.Equal(t, "an answer", answer)
	assert.Contains(t, gen.prompts[0], strings.Repeat("x", llm.MaxContextChars))
	assert.NotContains(t, gen.prompts[0], strings.Repeat("x", llm.MaxContextChars+1))

	_, err = svc.Ask(context.Background(), AskRequest{Context: "abc"})
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestGenerationUpstreamErrorKeepsKind(t *testing.T) {
	gen := &fakeGenerator{err: &llm.Error{Kind: llm.KindRateLimited, Op: "generate"}}
	svc := NewGenerationService(gen)

	_, err := svc.GenerateFromData(context.Background(), "make questions", 3, "data")
	assert.ErrorIs(t, err, common.ErrTooManyRequests)
	assert.Contains(t, gen.prompts[0], "Data Context (Offset: 3):")
}

func newTestJobService(t *testing.T) (*GenerationJobService, repository.GenerationJobRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	jobs := repository.NewRedisGenerationJobRepository(rdb, time.Hour)
	return NewGenerationJobService(jobs, rdb, "test_queue"), jobs, mr
}

func TestEnqueuePushesJobID(t *testing.T) {
	svc, _, mr := newTestJobService(t)
	ctx := context.Background()

	job, err := svc.Enqueue(ctx, 7, GenerateQuizRequest{Topic: "Cricket", Load: true})
	require.NoError(t, err)
	assert.Equal(t, model.JobStatusQueued, job.Status)
	assert.Equal(t, 5, job.Count)

	queued, err := mr.List("test_queue")
	require.NoError(t, err)
	assert.Equal(t, []string{job.ID}, queued)

	got, err := svc.GetJob(ctx, 7, job.ID)
	require.NoError(t, err)
	assert.Equal(t, "Cricket", got.Topic)
}

func TestGetJobOwnership(t *testing.T) {
	svc, _, _ := newTestJobService(t)
	ctx := context.Background()

	job, err := svc.Enqueue(ctx, 7, GenerateQuizRequest{Topic: "Cricket"})
	require.NoError(t, err)

	_, err = svc.GetJob(ctx, 8, job.ID)
	assert.ErrorIs(t, err, common.ErrForbidden)

	_, err = svc.GetJob(ctx, 7, "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestEnqueueRejectsInvalidRequest(t *testing.T) {
	svc, _, mr := newTestJobService(t)

	_, err := svc.Enqueue(context.Background(), 7, GenerateQuizRequest{Count: 3})
	assert.ErrorIs(t, err, common.ErrValidation)
	assert.False(t, mr.Exists("test_queue"))
}
