package service

import (
	"context"
	"log"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"learnex_quiz/internal/common"
	"learnex_quiz/internal/domain/model"
	"learnex_quiz/internal/domain/repository"
)

type GenerationJobService struct {
	jobRepo   repository.GenerationJobRepository
	rdb       *redis.Client
	queueName string
}

func NewGenerationJobService(jobRepo repository.GenerationJobRepository, rdb *redis.Client, queueName string) *GenerationJobService {
	return &GenerationJobService{jobRepo: jobRepo, rdb: rdb, queueName: queueName}
}

// Enqueue creates a job record and pushes its ID to the Redis queue.
func (s *GenerationJobService) Enqueue(ctx context.Context, userID int64, req GenerateQuizRequest) (*model.GenerationJob, error) {
	if err := req.normalize(); err != nil {
		return nil, err
	}

	job := &model.GenerationJob{
		ID:         uuid.NewString(),
		UserID:     userID,
		Topic:      req.Topic,
		Count:      req.Count,
		Difficulty: req.Difficulty,
		Status:     model.JobStatusQueued,
	}
	if err := s.jobRepo.CreateJob(ctx, job); err != nil {
		return nil, common.Errorf("failed to create generation job: %w", err)
	}

	if err := s.rdb.LPush(ctx, s.queueName, job.ID).Err(); err != nil {
		msg := "could not be queued: " + err.Error()
		if uErr := s.jobRepo.UpdateJobStatus(ctx, job.ID, model.JobStatusFailed, &msg); uErr != nil {
			log.Printf("ERROR: Failed to mark unqueued job %s as failed: %v", job.ID, uErr)
		}
		return nil, common.Errorf("failed to push job ID to Redis queue: %w", err)
	}

	log.Printf("INFO: Generation job %s for topic %q enqueued by user %d", job.ID, job.Topic, userID)
	return job, nil
}

func (s *GenerationJobService) GetJob(ctx context.Context, userID int64, jobID string) (*model.GenerationJob, error) {
	job, err := s.jobRepo.GetJobByID(ctx, jobID)
	if err != nil {
		return nil, common.Errorf("failed to load job %s: %w", jobID, err)
	}
	if job.UserID != userID {
		return nil, common.Errorf("job belongs to another user: %w", common.ErrForbidden)
	}
	return job, nil
}
