package worker

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/redis/go-redis/v9"

	"learnex_quiz/internal/app/service"
	"learnex_quiz/internal/domain/model"
	"learnex_quiz/internal/domain/repository"
	"learnex_quiz/internal/platform/blob"
)

type Options struct {
	QueueName string
	LockKey   string
	LockTTL   time.Duration
	// PollTimeout bounds each BRPOP so shutdown is noticed promptly.
	PollTimeout time.Duration
}

// GenerationWorker drains the generation queue: it asks the model for a quiz,
// loads the parsed questions into the question store and archives the raw output.
type GenerationWorker struct {
	rdb       *redis.Client
	jobRepo   repository.GenerationJobRepository
	generator *service.GenerationService
	questions *service.QuestionService
	store     blob.Store
	opts      Options
}

func NewGenerationWorker(
	rdb *redis.Client,
	jobRepo repository.GenerationJobRepository,
	generator *service.GenerationService,
	questions *service.QuestionService,
	store blob.Store,
	opts Options,
) *GenerationWorker {
	if opts.PollTimeout <= 0 {
		opts.PollTimeout = 5 * time.Second
	}
	return &GenerationWorker{
		rdb:       rdb,
		jobRepo:   jobRepo,
		generator: generator,
		questions: questions,
		store:     store,
		opts:      opts,
	}
}

var releaseScript = redis.NewScript(`
	if redis.call("get", KEYS[1]) == ARGV[1] then
		return redis.call("del", KEYS[1])
	else
		return 0
	end
`)

func (w *GenerationWorker) Start(ctx context.Context) {
	log.Println("Generation worker started, listening to queue:", w.opts.QueueName)
	for {
		select {
		case <-ctx.Done():
			log.Println("Generation worker stopping...")
			return
		default:
		}

		res, err := w.rdb.BRPop(ctx, w.opts.PollTimeout, w.opts.QueueName).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				continue
			}
			log.Printf("ERROR: Failed to BRPop from Redis queue '%s': %v", w.opts.QueueName, err)
			sleep(ctx, 5*time.Second)
			continue
		}

		// res is [queueName, value]
		if len(res) < 2 || res[1] == "" {
			log.Println("WARN: BRPop returned empty job ID.")
			continue
		}
		log.Printf("Worker picked up job ID: %s", res[1])
		w.ProcessJob(ctx, res[1])
	}
}

// ProcessJob runs one job while holding the replace lock. A job that cannot
// take the lock goes back on the queue.
func (w *GenerationWorker) ProcessJob(ctx context.Context, jobID string) {
	lockValue := uuid.NewString()
	ok, err := w.rdb.SetNX(ctx, w.opts.LockKey, lockValue, w.opts.LockTTL).Result()
	if err != nil {
		log.Printf("ERROR: Failed to attempt lock acquisition for job %s: %v", jobID, err)
		w.requeueJob(ctx, jobID)
		return
	}
	if !ok {
		log.Printf("INFO: Could not acquire generation lock for job %s, another worker is busy. Re-queueing.", jobID)
		w.requeueJob(ctx, jobID)
		sleep(ctx, time.Second)
		return
	}

	defer func() {
		deleted, err := releaseScript.Run(context.WithoutCancel(ctx), w.rdb, []string{w.opts.LockKey}, lockValue).Int64()
		if err != nil {
			log.Printf("ERROR: Failed to release lock %s (job %s): %v", w.opts.LockKey, jobID, err)
		} else if deleted == 0 {
			log.Printf("WARN: Did not release lock for job %s; it might have expired or been taken by another.", jobID)
		}
	}()

	w.handleJob(ctx, jobID)
}

// requeueJob puts the job back at the far end of the queue, behind any jobs
// already waiting.
func (w *GenerationWorker) requeueJob(ctx context.Context, jobID string) {
	if err := w.rdb.LPush(context.WithoutCancel(ctx), w.opts.QueueName, jobID).Err(); err != nil {
		log.Printf("ERROR: Failed to re-queue job %s: %v", jobID, err)
	}
}

func (w *GenerationWorker) handleJob(ctx context.Context, jobID string) {
	job, err := w.jobRepo.GetJobByID(ctx, jobID)
	if err != nil {
		if ctx.Err() != nil {
			w.requeueJob(ctx, jobID)
			return
		}
		log.Printf("ERROR: Failed to fetch job %s: %v", jobID, err)
		return
	}
	if err := w.jobRepo.IncrementJobAttempts(ctx, job.ID); err != nil {
		log.Printf("ERROR: Failed to count attempt for job %s: %v", job.ID, err)
	}
	if err := w.jobRepo.UpdateJobStatus(ctx, job.ID, model.JobStatusProcessing, nil); err != nil {
		log.Printf("ERROR: Failed to update job %s status to processing: %v", job.ID, err)
	}

	count, archiveKey, err := w.run(ctx, job)
	// Status writes outlive shutdown so a job is never left in processing.
	statusCtx := context.WithoutCancel(ctx)
	if err != nil {
		if ctx.Err() != nil || errors.Is(err, context.Canceled) {
			w.putBack(statusCtx, job.ID)
			return
		}
		w.fail(statusCtx, job.ID, err)
		return
	}
	if err := w.jobRepo.CompleteJob(statusCtx, job.ID, count, archiveKey); err != nil {
		log.Printf("ERROR: Failed to mark job %s completed: %v", job.ID, err)
		return
	}
	log.Printf("INFO: Job %s loaded %d questions about %q", job.ID, count, job.Topic)
}

func (w *GenerationWorker) run(ctx context.Context, job *model.GenerationJob) (int, string, error) {
	raw, err := w.generator.GenerateQuiz(ctx, service.GenerateQuizRequest{
		Topic:      job.Topic,
		Count:      job.Count,
		Difficulty: job.Difficulty,
	})
	if err != nil {
		return 0, "", err
	}

	items, err := ExtractQuestions(raw)
	if err != nil {
		return 0, "", err
	}
	count, err := w.questions.ReplaceAll(ctx, items)
	if err != nil {
		return 0, "", err
	}
	return count, w.archive(ctx, job, raw), nil
}

// archive is best-effort: a stored quiz is not rolled back because the copy failed.
func (w *GenerationWorker) archive(ctx context.Context, job *model.GenerationJob, raw string) string {
	if !blob.Configured(w.store) {
		return ""
	}
	key := ArchiveKey(job.Topic, job.ID)
	if err := w.store.Put(ctx, key, []byte(raw)); err != nil {
		log.Printf("WARN: Failed to archive job %s output to %s: %v", job.ID, key, err)
		return ""
	}
	return key
}

// putBack returns a job interrupted by shutdown to the queue.
func (w *GenerationWorker) putBack(ctx context.Context, jobID string) {
	log.Printf("INFO: Job %s interrupted, re-queueing", jobID)
	if err := w.jobRepo.UpdateJobStatus(ctx, jobID, model.JobStatusQueued, nil); err != nil {
		log.Printf("ERROR: Failed to reset job %s to queued: %v", jobID, err)
	}
	w.requeueJob(ctx, jobID)
}

func (w *GenerationWorker) fail(ctx context.Context, jobID string, cause error) {
	msg := cause.Error()
	log.Printf("ERROR: Job %s failed: %s", jobID, msg)
	if err := w.jobRepo.UpdateJobStatus(ctx, jobID, model.JobStatusFailed, &msg); err != nil {
		log.Printf("ERROR: Failed to update job %s status to failed: %v", jobID, err)
	}
}

func ArchiveKey(topic, jobID string) string {
	name := slug.Make(topic)
	if name == "" {
		name = "quiz"
	}
	return fmt.Sprintf("quizzes/%s-%s.json", name, jobID)
}

func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
