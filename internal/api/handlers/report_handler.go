package handlers

import (
	"net/http"

	"claims-api/internal/pkg/errors"
	"claims-api/internal/services"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type ReportHandler struct {
	reportService services.ReportService
}

func NewReportHandler(reportService services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// GetReport serves the anonymous report API. A private claim answers 403
// while an absent one answers 404; holders of the shared key can therefore
// tell the two apart, which is kept deliberately to help API integrators
// debug their references.
func (h *ReportHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	idStr := mux.Vars(r)["id"]
	id, err := uuid.Parse(idStr)
	if err != nil {
		http.Error(w, "Report not found", http.StatusNotFound)
		return
	}

	report, err := h.reportService.GetPublicReport(r.Context(), id)
	if err != nil {
		if err == errors.ErrInsufficientPermission {
			http.Error(w, "This report is not public", http.StatusForbidden)
			return
		}
		http.Error(w, "Report not found", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"data": report})
}
