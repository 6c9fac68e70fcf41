package services

import (
	"context"
	"encoding/json"
	"time"

	"claims-api/internal/logger"
	"claims-api/internal/models"
	"claims-api/internal/pkg/errors"
	"claims-api/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// AggregatedReport is the anonymous-API projection of a public claim bundle.
// Optional dependents serialize as null, never as omitted fields.
type AggregatedReport struct {
	ID                  string                   `json:"id"`
	ClaimNumber         string                   `json:"claimNumber"`
	Status              string                   `json:"status"`
	CreatedAt           time.Time                `json:"createdAt"`
	Damage              DamageSummary            `json:"damage"`
	VehicleVerification *VehicleVerificationView `json:"vehicleVerification"`
	Financials          *FinancialsView          `json:"financials"`
	Investigation       InvestigationView        `json:"investigation"`
	SafetyConcerns      []string                 `json:"safetyConcerns"`
	RecommendedActions  []string                 `json:"recommendedActions"`
}

type DamageSummary struct {
	Type                    string           `json:"type"`
	Cause                   string           `json:"cause"`
	OverallSeverity         string           `json:"overallSeverity"`
	RepairComplexity        string           `json:"repairComplexity"`
	EstimatedTotalCost      float64          `json:"estimatedTotalCost"`
	ConfidenceScore         float64          `json:"confidenceScore"`
	Parts                   []DamagePartView `json:"parts"`
	InferredInternalDamages []DamagePartView `json:"inferredInternalDamages"`
}

type DamagePartView struct {
	PartName      string  `json:"partName"`
	Description   string  `json:"description"`
	Severity      string  `json:"severity"`
	RepairType    string  `json:"repairType"`
	EstimatedCost float64 `json:"estimatedCost"`
}

type VehicleVerificationView struct {
	VIN      string `json:"vin"`
	Make     string `json:"make"`
	Model    string `json:"model"`
	Year     int    `json:"year"`
	Verified bool   `json:"verified"`
}

type FinancialsView struct {
	ApprovedAmount float64 `json:"approvedAmount"`
	Deductible     float64 `json:"deductible"`
	Payout         float64 `json:"payout"`
	Currency       string  `json:"currency"`
}

type InvestigationView struct {
	Needed bool   `json:"needed"`
	Reason string `json:"reason"`
}

// ReportService is the anonymous read surface over claim bundles. Access is
// decided by the claim's is_public flag alone; the ACL governs the separate
// authenticated surface.
type ReportService interface {
	// GetPublicReport returns the aggregated view of a public claim.
	// Errors: errors.ErrNotFound for an absent claim or any lookup fault,
	// errors.ErrInsufficientPermission for a claim that exists but is not
	// public.
	GetPublicReport(ctx context.Context, claimID uuid.UUID) (*AggregatedReport, error)
}

type reportService struct {
	claimRepo repository.ClaimRepository
	cache     CacheService
	cacheTTL  time.Duration
}

func NewReportService(claimRepo repository.ClaimRepository, cache CacheService, cacheTTL time.Duration) ReportService {
	return &reportService{
		claimRepo: claimRepo,
		cache:     cache,
		cacheTTL:  cacheTTL,
	}
}

func (s *reportService) GetPublicReport(ctx context.Context, claimID uuid.UUID) (*AggregatedReport, error) {
	if cached := s.fromCache(ctx, claimID); cached != nil {
		return cached, nil
	}

	claim, err := s.claimRepo.GetByID(ctx, claimID)
	if err != nil {
		if err != errors.ErrNotFound {
			logger.Logger.WithFields(logrus.Fields{
				"claim_id": claimID,
				"error":    err.Error(),
			}).Error("public report lookup failed")
		}
		return nil, errors.ErrNotFound
	}

	if !claim.IsPublic {
		return nil, errors.ErrInsufficientPermission
	}

	report, err := s.aggregate(ctx, claim)
	if err != nil {
		logger.Logger.WithFields(logrus.Fields{
			"claim_id": claimID,
			"error":    err.Error(),
		}).Error("public report aggregation failed")
		return nil, errors.ErrNotFound
	}

	s.toCache(ctx, claimID, report)
	return report, nil
}

func (s *reportService) aggregate(ctx context.Context, claim *models.Claim) (*AggregatedReport, error) {
	details, err := s.claimRepo.ListDamageDetails(ctx, claim.ID)
	if err != nil {
		return nil, err
	}

	parts := []DamagePartView{}
	inferred := []DamagePartView{}
	for _, d := range details {
		view := DamagePartView{
			PartName:      d.PartName,
			Description:   d.Description,
			Severity:      d.Severity,
			RepairType:    d.RepairType,
			EstimatedCost: d.EstimatedCost,
		}
		if d.IsInferred {
			inferred = append(inferred, view)
		} else {
			parts = append(parts, view)
		}
	}

	report := &AggregatedReport{
		ID:          claim.ID.String(),
		ClaimNumber: claim.ClaimNumber,
		Status:      string(claim.Status),
		CreatedAt:   claim.CreatedAt,
		Damage: DamageSummary{
			Type:                    claim.DamageType,
			Cause:                   claim.DamageCause,
			OverallSeverity:         claim.OverallSeverity,
			RepairComplexity:        claim.RepairComplexity,
			EstimatedTotalCost:      claim.EstimatedTotalCost,
			ConfidenceScore:         claim.ConfidenceScore,
			Parts:                   parts,
			InferredInternalDamages: inferred,
		},
		Investigation: InvestigationView{
			Needed: claim.InvestigationNeeded,
			Reason: claim.InvestigationReason,
		},
		SafetyConcerns:     emptyIfNil(claim.SafetyConcerns),
		RecommendedActions: emptyIfNil(claim.RecommendedActions),
	}

	verification, err := s.claimRepo.GetVehicleVerification(ctx, claim.ID)
	if err != nil && err != errors.ErrNotFound {
		return nil, err
	}
	if verification != nil {
		report.VehicleVerification = &VehicleVerificationView{
			VIN:      verification.VIN,
			Make:     verification.Make,
			Model:    verification.Model,
			Year:     verification.Year,
			Verified: verification.Verified,
		}
	}

	assessment, err := s.claimRepo.GetAssessment(ctx, claim.ID)
	if err != nil && err != errors.ErrNotFound {
		return nil, err
	}
	if assessment != nil {
		report.Financials = &FinancialsView{
			ApprovedAmount: assessment.ApprovedAmount,
			Deductible:     assessment.Deductible,
			Payout:         assessment.Payout,
			Currency:       assessment.Currency,
		}
	}

	return report, nil
}

// fromCache only ever holds reports that already passed the is_public check,
// so a cache hit cannot leak a private claim.
func (s *reportService) fromCache(ctx context.Context, claimID uuid.UUID) *AggregatedReport {
	if s.cache == nil {
		return nil
	}

	raw, err := s.cache.Get(ctx, reportCacheKey(claimID))
	if err != nil || raw == "" {
		return nil
	}

	var report AggregatedReport
	if err := json.Unmarshal([]byte(raw), &report); err != nil {
		return nil
	}
	return &report
}

func (s *reportService) toCache(ctx context.Context, claimID uuid.UUID, report *AggregatedReport) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, reportCacheKey(claimID), report, s.cacheTTL); err != nil {
		logger.Logger.WithFields(logrus.Fields{
			"claim_id": claimID,
			"error":    err.Error(),
		}).Warn("failed to cache public report")
	}
}

func emptyIfNil(list models.StringList) []string {
	if list == nil {
		return []string{}
	}
	return list
}
