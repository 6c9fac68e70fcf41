package handlers

import (
	"net/http"

	"claims-api/internal/services"
)

type QuotaHandler struct {
	quotaService services.QuotaService
}

func NewQuotaHandler(quotaService services.QuotaService) *QuotaHandler {
	return &QuotaHandler{quotaService: quotaService}
}

// GetQuota reports the caller's evaluation allowance for today. Reuses the
// check path, so the first call of a new day also applies the lazy reset.
func (h *QuotaHandler) GetQuota(w http.ResponseWriter, r *http.Request) {
	actor, ok := services.ActorFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	status := h.quotaService.Check(r.Context(), actor.UserID)
	writeJSON(w, http.StatusOK, status)
}
