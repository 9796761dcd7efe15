package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"learnex_quiz/internal/api/middleware"
	"learnex_quiz/internal/app/service"
	"learnex_quiz/internal/common"
	"learnex_quiz/internal/domain/model"
)

type QuizHandler struct {
	questionService *service.QuestionService
	attemptService  *service.AttemptService
	loaderAPIKey    string
}

func NewQuizHandler(qs *service.QuestionService, as *service.AttemptService, loaderAPIKey string) *QuizHandler {
	return &QuizHandler{questionService: qs, attemptService: as, loaderAPIKey: loaderAPIKey}
}

type quizDataResponse struct {
	Message string `json:"message"`
	Count   int    `json:"count"`
}

func (h *QuizHandler) RegisterRoutes(r chi.Router) {
	r.Group(func(loader chi.Router) {
		loader.Use(middleware.RequireAPIKey(h.loaderAPIKey))
		loader.Post("/quiz/data", h.receiveQuizData)
	})

	r.Group(func(protected chi.Router) {
		protected.Use(middleware.Authenticator)
		protected.Get("/quiz", h.getQuiz)
		protected.Post("/quiz/submit", h.submitQuiz)
	})
}

func (h *QuizHandler) receiveQuizData(w http.ResponseWriter, r *http.Request) {
	var items []model.QuestionInput
	if err := json.NewDecoder(r.Body).Decode(&items); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid data format. Expected a list of questions.")
		return
	}

	count, err := h.questionService.ReplaceAll(r.Context(), items)
	if err != nil {
		if errors.Is(err, common.ErrValidation) {
			common.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		common.RespondWithError(w, http.StatusInternalServerError, "Error storing data: "+err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, quizDataResponse{
		Message: "Quiz data received and stored successfully",
		Count:   count,
	})
}

func (h *QuizHandler) getQuiz(w http.ResponseWriter, r *http.Request) {
	questions, err := h.questionService.ListAll(r.Context())
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, questions)
}

func (h *QuizHandler) submitQuiz(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	var req service.SubmitAttemptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid data")
		return
	}
	attempt, err := h.attemptService.Submit(r.Context(), userID, req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, service.SubmitAttemptResponse{
		Message:   "Quiz submitted successfully",
		AttemptID: attempt.ID,
	})
}
