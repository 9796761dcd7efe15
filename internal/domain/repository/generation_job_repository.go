package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"learnex_quiz/internal/common"
	"learnex_quiz/internal/domain/model"
)

type GenerationJobRepository interface {
	CreateJob(ctx context.Context, job *model.GenerationJob) error
	GetJobByID(ctx context.Context, id string) (*model.GenerationJob, error)
	UpdateJobStatus(ctx context.Context, jobID string, status string, lastError *string) error
	IncrementJobAttempts(ctx context.Context, jobID string) error
	CompleteJob(ctx context.Context, jobID string, questionCount int, archiveKey string) error
}

// redisGenerationJobRepository keeps job records as JSON values that expire after ttl.
type redisGenerationJobRepository struct {
	rdb *redis.Client
	ttl time.Duration
	now func() time.Time
}

func NewRedisGenerationJobRepository(rdb *redis.Client, ttl time.Duration) GenerationJobRepository {
	return &redisGenerationJobRepository{rdb: rdb, ttl: ttl, now: time.Now}
}

func jobKey(id string) string {
	return "generation_job:" + id
}

func (r *redisGenerationJobRepository) CreateJob(ctx context.Context, job *model.GenerationJob) error {
	now := r.now().UTC()
	job.CreatedAt = now
	job.UpdatedAt = now
	if job.Status == "" {
		job.Status = model.JobStatusQueued
	}
	if err := r.save(ctx, job); err != nil {
		return fmt.Errorf("redisGenerationJobRepository.CreateJob: %w", err)
	}
	return nil
}

func (r *redisGenerationJobRepository) GetJobByID(ctx context.Context, id string) (*model.GenerationJob, error) {
	raw, err := r.rdb.Get(ctx, jobKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("redisGenerationJobRepository.GetJobByID: %w", err)
	}
	job := &model.GenerationJob{}
	if err := json.Unmarshal(raw, job); err != nil {
		return nil, fmt.Errorf("redisGenerationJobRepository.GetJobByID: decode %s: %w", id, err)
	}
	return job, nil
}

func (r *redisGenerationJobRepository) UpdateJobStatus(ctx context.Context, jobID string, status string, lastError *string) error {
	return r.update(ctx, jobID, func(job *model.GenerationJob) {
		job.Status = status
		job.LastError = lastError
	})
}

func (r *redisGenerationJobRepository) IncrementJobAttempts(ctx context.Context, jobID string) error {
	return r.update(ctx, jobID, func(job *model.GenerationJob) {
		job.Attempts++
	})
}

func (r *redisGenerationJobRepository) CompleteJob(ctx context.Context, jobID string, questionCount int, archiveKey string) error {
	return r.update(ctx, jobID, func(job *model.GenerationJob) {
		job.Status = model.JobStatusCompleted
		job.QuestionCount = questionCount
		job.ArchiveKey = archiveKey
		job.LastError = nil
	})
}

// update is a read-modify-write. Only the single worker mutates a job after creation.
func (r *redisGenerationJobRepository) update(ctx context.Context, jobID string, mutate func(*model.GenerationJob)) error {
	job, err := r.GetJobByID(ctx, jobID)
	if err != nil {
		return err
	}
	mutate(job)
	job.UpdatedAt = r.now().UTC()
	if err := r.save(ctx, job); err != nil {
		return fmt.Errorf("redisGenerationJobRepository.update %s: %w", jobID, err)
	}
	return nil
}

func (r *redisGenerationJobRepository) save(ctx context.Context, job *model.GenerationJob) error {
	raw, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return r.rdb.Set(ctx, jobKey(job.ID), raw, r.ttl).Err()
}
