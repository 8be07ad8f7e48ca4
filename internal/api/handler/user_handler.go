package handler

import (
	"net/http"

	"poi_network/internal/api/middleware"
	"poi_network/internal/app/service"
	"poi_network/internal/common"
	"poi_network/internal/domain/model"

	"github.com/go-chi/chi/v5"
)

type UserHandler struct {
	authService   *service.AuthService
	ledgerService *service.LedgerService
}

func NewUserHandler(authService *service.AuthService, ledgerService *service.LedgerService) *UserHandler {
	return &UserHandler{authService: authService, ledgerService: ledgerService}
}

func (h *UserHandler) RegisterRoutes(r chi.Router) {
	r.Use(middleware.Authenticator)
	r.Get("/me", h.getProfile)
	r.Get("/me/reputation", h.getReputationLevel)
	r.Get("/me/transactions", h.listTransactions)
}

func (h *UserHandler) getProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}
	user, err := h.authService.GetProfile(r.Context(), userID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, user)
}

func (h *UserHandler) getReputationLevel(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}
	user, err := h.authService.GetProfile(r.Context(), userID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, model.LevelForReputation(user.Reputation))
}

// listTransactions is caller-scoped: a user can only read their own ledger.
func (h *UserHandler) listTransactions(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}
	transactions, err := h.ledgerService.ListUserTransactions(r.Context(), userID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, transactions)
}
