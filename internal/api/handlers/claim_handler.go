package handlers

import (
	"encoding/json"
	"net/http"

	"claims-api/internal/services"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type ClaimHandler struct {
	claimService      services.ClaimService
	evaluationService services.EvaluationService
}

func NewClaimHandler(claimService services.ClaimService, evaluationService services.EvaluationService) *ClaimHandler {
	return &ClaimHandler{
		claimService:      claimService,
		evaluationService: evaluationService,
	}
}

type createClaimRequest struct {
	Description string `json:"description"`
	DamageType  string `json:"damage_type"`
	DamageCause string `json:"damage_cause"`
}

func (h *ClaimHandler) CreateClaim(w http.ResponseWriter, r *http.Request) {
	actor, ok := services.ActorFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req createClaimRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	claim, err := h.claimService.CreateClaim(r.Context(), actor, services.CreateClaimInput{
		Description: req.Description,
		DamageType:  req.DamageType,
		DamageCause: req.DamageCause,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, claim)
}

func (h *ClaimHandler) GetClaim(w http.ResponseWriter, r *http.Request) {
	actor, ok := services.ActorFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid claim ID", http.StatusBadRequest)
		return
	}

	claim, err := h.claimService.GetClaim(r.Context(), actor, id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, claim)
}

func (h *ClaimHandler) ListClaims(w http.ResponseWriter, r *http.Request) {
	actor, ok := services.ActorFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	limit, offset := ParsePaginationParams(r)
	claims, err := h.claimService.ListClaims(r.Context(), actor, limit, offset)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, claims)
}

type damageDetailRequest struct {
	PartName      string  `json:"part_name"`
	Description   string  `json:"description"`
	Severity      string  `json:"severity"`
	RepairType    string  `json:"repair_type"`
	EstimatedCost float64 `json:"estimated_cost"`
}

func (h *ClaimHandler) AddDamageDetail(w http.ResponseWriter, r *http.Request) {
	actor, ok := services.ActorFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid claim ID", http.StatusBadRequest)
		return
	}

	var req damageDetailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.PartName == "" {
		http.Error(w, "part_name is required", http.StatusBadRequest)
		return
	}

	detail, err := h.claimService.AddDamageDetail(r.Context(), actor, id, services.DamageDetailInput{
		PartName:      req.PartName,
		Description:   req.Description,
		Severity:      req.Severity,
		RepairType:    req.RepairType,
		EstimatedCost: req.EstimatedCost,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, detail)
}

type vehicleVerificationRequest struct {
	VIN      string `json:"vin"`
	Make     string `json:"make"`
	Model    string `json:"model"`
	Year     int    `json:"year"`
	Verified bool   `json:"verified"`
	Notes    string `json:"notes"`
}

func (h *ClaimHandler) AddVehicleVerification(w http.ResponseWriter, r *http.Request) {
	actor, ok := services.ActorFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid claim ID", http.StatusBadRequest)
		return
	}

	var req vehicleVerificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	verification, err := h.claimService.AddVehicleVerification(r.Context(), actor, id, services.VehicleVerificationInput{
		VIN:      req.VIN,
		Make:     req.Make,
		Model:    req.Model,
		Year:     req.Year,
		Verified: req.Verified,
		Notes:    req.Notes,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, verification)
}

type assessmentRequest struct {
	ApprovedAmount float64 `json:"approved_amount"`
	Deductible     float64 `json:"deductible"`
	Currency       string  `json:"currency"`
	Notes          string  `json:"notes"`
}

func (h *ClaimHandler) AddAssessment(w http.ResponseWriter, r *http.Request) {
	actor, ok := services.ActorFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid claim ID", http.StatusBadRequest)
		return
	}

	var req assessmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	assessment, err := h.claimService.AddAssessment(r.Context(), actor, id, services.AssessmentInput{
		ApprovedAmount: req.ApprovedAmount,
		Deductible:     req.Deductible,
		Currency:       req.Currency,
		Notes:          req.Notes,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, assessment)
}

type visibilityRequest struct {
	IsPublic bool `json:"is_public"`
}

func (h *ClaimHandler) SetVisibility(w http.ResponseWriter, r *http.Request) {
	actor, ok := services.ActorFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid claim ID", http.StatusBadRequest)
		return
	}

	var req visibilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	claim, err := h.claimService.SetVisibility(r.Context(), actor, id, req.IsPublic)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, claim)
}

type assignTeamRequest struct {
	CompanyCode string `json:"company_code"`
}

func (h *ClaimHandler) AssignTeam(w http.ResponseWriter, r *http.Request) {
	actor, ok := services.ActorFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid claim ID", http.StatusBadRequest)
		return
	}

	var req assignTeamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.CompanyCode == "" {
		http.Error(w, "company_code is required", http.StatusBadRequest)
		return
	}

	claim, err := h.claimService.AssignTeam(r.Context(), actor, id, req.CompanyCode)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, claim)
}

// Evaluate runs an AI analysis against the claim, gated by the daily quota.
func (h *ClaimHandler) Evaluate(w http.ResponseWriter, r *http.Request) {
	actor, ok := services.ActorFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid claim ID", http.StatusBadRequest)
		return
	}

	result, err := h.evaluationService.Evaluate(r.Context(), actor, id)
	if err != nil {
		if quotaErr, ok := err.(*services.QuotaExceededError); ok {
			writeJSON(w, http.StatusTooManyRequests, map[string]interface{}{
				"error": quotaErr.Error(),
				"plan":  quotaErr.Plan,
				"limit": quotaErr.Limit,
			})
			return
		}
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
