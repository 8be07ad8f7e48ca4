package handler

import (
	"encoding/json"
	"net/http"

	"poi_network/internal/api/middleware"
	"poi_network/internal/app/service"
	"poi_network/internal/common"

	"github.com/go-chi/chi/v5"
)

type ValidationHandler struct {
	validationService *service.ValidationService
}

func NewValidationHandler(validationService *service.ValidationService) *ValidationHandler {
	return &ValidationHandler{validationService: validationService}
}

func (h *ValidationHandler) RegisterRoutes(r chi.Router) {
	r.Use(middleware.Authenticator)
	r.Use(middleware.ValidatorOnly)
	r.Post("/", h.submitValidation)
}

func (h *ValidationHandler) submitValidation(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	var req service.SubmitValidationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	validation, err := h.validationService.SubmitValidation(r.Context(), userID, req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, validation)
}
