package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"learnex_quiz/internal/api/middleware"
	"learnex_quiz/internal/app/service"
	"learnex_quiz/internal/common"
)

type HistoryHandler struct {
	historyService *service.HistoryService
}

func NewHistoryHandler(hs *service.HistoryService) *HistoryHandler {
	return &HistoryHandler{historyService: hs}
}

func (h *HistoryHandler) RegisterRoutes(r chi.Router) {
	r.Use(middleware.Authenticator)
	r.Get("/history", h.listHistory)
	r.Get("/history/{attemptID}", h.getAttempt)
}

func (h *HistoryHandler) listHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}
	attempts, err := h.historyService.ListForUser(r.Context(), userID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, attempts)
}

func (h *HistoryHandler) getAttempt(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}
	attemptID, err := strconv.ParseInt(chi.URLParam(r, "attemptID"), 10, 64)
	if err != nil {
		common.RespondWithError(w, http.StatusNotFound, "Attempt not found")
		return
	}

	detail, err := h.historyService.GetDetail(r.Context(), userID, attemptID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, detail)
}
