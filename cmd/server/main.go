package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"learnex_quiz/internal/api"
	"learnex_quiz/internal/app/service"
	"learnex_quiz/internal/app/worker"
	"learnex_quiz/internal/common/security"
	"learnex_quiz/internal/domain/repository"
	"learnex_quiz/internal/platform/blob"
	"learnex_quiz/internal/platform/config"
	"learnex_quiz/internal/platform/database"
	"learnex_quiz/internal/platform/llm"
	"learnex_quiz/internal/platform/queue"
)

func main() {
	ctx := context.Background()

	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	fmt.Println("Configuration loaded.")

	// 2. Initialize Database
	db, err := database.Connect(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	if err := database.Migrate(ctx, db); err != nil {
		log.Fatalf("Failed to apply schema: %v", err)
	}
	fmt.Println("Database connected and migrated.")

	// 3. Initialize Redis
	rdb, err := queue.ConnectRedis(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer rdb.Close()
	fmt.Println("Redis connected.")

	// 4. External collaborators
	generator, err := llm.NewGenerator(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		log.Fatalf("Failed to initialize Gemini client: %v", err)
	}
	store, err := blob.NewStore(ctx, cfg.AzureConnectionString, cfg.AzureContainerName)
	if err != nil {
		log.Printf("WARN: Blob storage unavailable, generated quizzes will not be archived: %v", err)
		store, _ = blob.NewStore(ctx, "", cfg.AzureContainerName)
	}

	// 5. Initialize Repositories
	tx := repository.NewTransactor(db)
	userRepo := repository.NewPgUserRepository(db)
	questionRepo := repository.NewPgQuestionRepository(db)
	attemptRepo := repository.NewPgAttemptRepository(db)
	jobRepo := repository.NewRedisGenerationJobRepository(rdb, cfg.GenerationJobTTL)

	// 6. Initialize Services
	tokens := security.NewTokenIssuer(cfg.JWTKey, cfg.JWTExp)
	authService := service.NewAuthService(userRepo, tokens)
	userService := service.NewUserService(userRepo)
	questionService := service.NewQuestionService(questionRepo, tx)
	attemptService := service.NewAttemptService(attemptRepo, tx)
	historyService := service.NewHistoryService(attemptRepo)
	generationService := service.NewGenerationService(generator)
	jobService := service.NewGenerationJobService(jobRepo, rdb, cfg.GenerationQueueName)

	// 7. Initialize Generation Worker (as a goroutine)
	generationWorker := worker.NewGenerationWorker(rdb, jobRepo, generationService, questionService, store, worker.Options{
		QueueName: cfg.GenerationQueueName,
		LockKey:   cfg.GenerationLockKey,
		LockTTL:   time.Duration(cfg.GenerationLockTTLSeconds) * time.Second,
	})
	workerCtx, workerCancel := context.WithCancel(ctx)
	defer workerCancel()
	workerDone := make(chan struct{})
	go func() {
		generationWorker.Start(workerCtx)
		close(workerDone)
	}()
	fmt.Println("Generation worker started.")

	// 8. Initialize Router & HTTP Server
	router := api.NewRouter(api.Dependencies{
		AuthService:        authService,
		UserService:        userService,
		QuestionService:    questionService,
		AttemptService:     attemptService,
		HistoryService:     historyService,
		GenerationService:  generationService,
		GenerationJobs:     jobService,
		GenerationLimiter:  queue.NewRateLimiter(rdb, cfg.GenerationRateLimitPerMinute, time.Minute),
		LoaderAPIKey:       cfg.LoaderAPIKey,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})

	server := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 9. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on port %s", cfg.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v\n", cfg.APIPort, err)
		}
	}()

	<-stop

	log.Println("Shutting down server...")
	workerCancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("ERROR: Server shutdown failed: %v", err)
	}
	select {
	case <-workerDone:
	case <-shutdownCtx.Done():
		log.Println("WARN: Worker did not stop before the shutdown deadline")
	}

	log.Println("Server and worker stopped gracefully.")
}
