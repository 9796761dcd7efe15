package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"learnex_quiz/internal/api/middleware"
	"learnex_quiz/internal/app/service"
	"learnex_quiz/internal/common"
)

type GenerationHandler struct {
	generationService *service.GenerationService
	jobService        *service.GenerationJobService
	limiter           middleware.Limiter
}

func NewGenerationHandler(gs *service.GenerationService, js *service.GenerationJobService, limiter middleware.Limiter) *GenerationHandler {
	return &GenerationHandler{generationService: gs, jobService: js, limiter: limiter}
}

type generateResponse struct {
	Result string `json:"result"`
}

type enqueueResponse struct {
	JobID  string `json:"job_id"`
	Status string `json:"status"`
}

type askResponse struct {
	Answer string `json:"answer"`
}

func (h *GenerationHandler) RegisterRoutes(r chi.Router) {
	r.Use(middleware.Authenticator)
	r.Get("/quiz/jobs/{jobID}", h.getJob)

	r.Group(func(limited chi.Router) {
		limited.Use(middleware.RateLimit(h.limiter, "generate"))
		limited.Post("/quiz/generate", h.generateQuiz)
		limited.Post("/chat", h.chat)
	})
}

func (h *GenerationHandler) generateQuiz(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	var req service.GenerateQuizRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	if req.Load {
		job, err := h.jobService.Enqueue(r.Context(), userID, req)
		if err != nil {
			common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
			return
		}
		common.RespondWithJSON(w, http.StatusAccepted, enqueueResponse{JobID: job.ID, Status: job.Status})
		return
	}

	text, err := h.generationService.GenerateQuiz(r.Context(), req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, generateResponse{Result: text})
}

func (h *GenerationHandler) chat(w http.ResponseWriter, r *http.Request) {
	var req service.AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	answer, err := h.generationService.Ask(r.Context(), req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, askResponse{Answer: answer})
}

func (h *GenerationHandler) getJob(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}
	job, err := h.jobService.GetJob(r.Context(), userID, chi.URLParam(r, "jobID"))
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, job)
}
