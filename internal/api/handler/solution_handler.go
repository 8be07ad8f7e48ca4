package handler

import (
	"encoding/json"
	"net/http"

	"poi_network/internal/api/middleware"
	"poi_network/internal/app/service"
	"poi_network/internal/common"

	"github.com/go-chi/chi/v5"
)

type SolutionHandler struct {
	solutionService *service.SolutionService
}

func NewSolutionHandler(solutionService *service.SolutionService) *SolutionHandler {
	return &SolutionHandler{solutionService: solutionService}
}

func (h *SolutionHandler) RegisterRoutes(r chi.Router) {
	r.Use(middleware.Authenticator)
	r.Post("/", h.submitSolution)
	r.With(middleware.ValidatorOnly).Get("/pending", h.listPending)
}

func (h *SolutionHandler) submitSolution(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	var req service.SubmitSolutionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	solution, err := h.solutionService.SubmitSolution(r.Context(), userID, req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, solution)
}

func (h *SolutionHandler) listPending(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	solutions, err := h.solutionService.ListPendingSolutions(r.Context(), userID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, solutions)
}
