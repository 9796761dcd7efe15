package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"learnex_quiz/internal/api/handler"
	"learnex_quiz/internal/api/middleware"
	"learnex_quiz/internal/app/service"
)

type Dependencies struct {
	AuthService        *service.AuthService
	UserService        *service.UserService
	QuestionService    *service.QuestionService
	AttemptService     *service.AttemptService
	HistoryService     *service.HistoryService
	GenerationService  *service.GenerationService
	GenerationJobs     *service.GenerationJobService
	GenerationLimiter  middleware.Limiter
	LoaderAPIKey       string
	CORSAllowedOrigins []string
}

func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(90 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: deps.CORSAllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", middleware.APIKeyHeader},
		MaxAge:         300,
	}))

	// Verify only resolves the bearer token; Authenticator decides per route group.
	r.Use(middleware.Verify(deps.AuthService))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Quiz App Backend is Running!"))
	})
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	r.Route("/api", func(api chi.Router) {
		api.Group(handler.NewAuthHandler(deps.AuthService).RegisterRoutes)
		api.Group(handler.NewUserHandler(deps.UserService).RegisterRoutes)
		api.Group(handler.NewQuizHandler(deps.QuestionService, deps.AttemptService, deps.LoaderAPIKey).RegisterRoutes)
		api.Group(handler.NewHistoryHandler(deps.HistoryService).RegisterRoutes)
		api.Group(handler.NewGenerationHandler(deps.GenerationService, deps.GenerationJobs, deps.GenerationLimiter).RegisterRoutes)
	})

	return r
}
