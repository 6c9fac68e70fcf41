package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"claims-api/internal/logger"
	"claims-api/internal/models"
	"claims-api/internal/pkg/errors"
	"claims-api/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// QuotaExceededError carries the plan and limit so the handler can tell the
// user what they ran out of.
type QuotaExceededError struct {
	Plan  models.Plan
	Limit int
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("daily evaluation limit reached for the %s plan (%d per day)", e.Plan, e.Limit)
}

// AnalysisResult is what the AI backend returns for a claim.
type AnalysisResult struct {
	OverallSeverity     string             `json:"overall_severity"`
	RepairComplexity    string             `json:"repair_complexity"`
	EstimatedTotalCost  float64            `json:"estimated_total_cost"`
	ConfidenceScore     float64            `json:"confidence_score"`
	InvestigationNeeded bool               `json:"investigation_needed"`
	InvestigationReason string             `json:"investigation_reason"`
	SafetyConcerns      []string           `json:"safety_concerns"`
	RecommendedActions  []string           `json:"recommended_actions"`
	InferredDamages     []DamageDetailInput `json:"inferred_damages"`
}

// Analyzer abstracts the AI analysis backend.
type Analyzer interface {
	Analyze(ctx context.Context, claim *models.Claim, details []models.DamageDetail) (*AnalysisResult, error)
}

type EvaluationResult struct {
	Claim     *models.Claim `json:"claim"`
	Remaining int           `json:"remaining"`
}

// EvaluationService runs an AI analysis on a claim under the daily quota:
// check before the work, decrement after. The two are not atomic; two
// concurrent requests from the same user can over-grant by one, which is
// acceptable for a soft usage cap.
type EvaluationService interface {
	Evaluate(ctx context.Context, actor *Actor, claimID uuid.UUID) (*EvaluationResult, error)
}

type evaluationService struct {
	claimRepo repository.ClaimRepository
	quota     QuotaService
	analyzer  Analyzer
	cache     CacheService
}

func NewEvaluationService(claimRepo repository.ClaimRepository, quota QuotaService, analyzer Analyzer, cache CacheService) EvaluationService {
	return &evaluationService{
		claimRepo: claimRepo,
		quota:     quota,
		analyzer:  analyzer,
		cache:     cache,
	}
}

func (s *evaluationService) Evaluate(ctx context.Context, actor *Actor, claimID uuid.UUID) (*EvaluationResult, error) {
	status := s.quota.Check(ctx, actor.UserID)
	if !status.Allowed {
		return nil, &QuotaExceededError{Plan: status.Plan, Limit: status.Limit}
	}

	claim, err := s.claimRepo.GetByID(ctx, claimID)
	if err != nil {
		return nil, err
	}

	if !claim.ACL.CanRead(actor.UserID.String(), actor.TeamID) {
		return nil, errors.ErrInsufficientPermission
	}

	details, err := s.claimRepo.ListDamageDetails(ctx, claimID)
	if err != nil {
		return nil, err
	}

	result, err := s.analyzer.Analyze(ctx, claim, details)
	if err != nil {
		return nil, err
	}

	claim.Status = models.ClaimStatusEvaluated
	claim.OverallSeverity = result.OverallSeverity
	claim.RepairComplexity = result.RepairComplexity
	claim.EstimatedTotalCost = result.EstimatedTotalCost
	claim.ConfidenceScore = result.ConfidenceScore
	claim.InvestigationNeeded = result.InvestigationNeeded
	claim.InvestigationReason = result.InvestigationReason
	claim.SafetyConcerns = result.SafetyConcerns
	claim.RecommendedActions = result.RecommendedActions

	if err := s.claimRepo.Update(ctx, claim); err != nil {
		return nil, err
	}

	relatedACL := ComposeClaimRelatedPermissions(claim.UserID.String(), claim.TeamID)
	for _, inferred := range result.InferredDamages {
		detail := &models.DamageDetail{
			ID:            uuid.New(),
			ClaimID:       claim.ID,
			PartName:      inferred.PartName,
			Description:   inferred.Description,
			Severity:      inferred.Severity,
			RepairType:    inferred.RepairType,
			EstimatedCost: inferred.EstimatedCost,
			IsInferred:    true,
			ACL:           relatedACL,
		}
		if err := s.claimRepo.CreateDamageDetail(ctx, detail); err != nil {
			logger.Logger.WithFields(logrus.Fields{
				"claim_id": claim.ID,
				"part":     inferred.PartName,
				"error":    err.Error(),
			}).Error("failed to store inferred damage detail")
		}
	}

	// The analysis rewrote the claim; a cached public report is now stale.
	if s.cache != nil {
		_ = s.cache.Delete(ctx, reportCacheKey(claim.ID))
	}

	// The analysis is done; its cost is consumed regardless of what the
	// caller does with the response.
	s.quota.Decrement(ctx, actor.UserID)

	remaining := status.Remaining
	if remaining > 0 {
		remaining--
	}

	return &EvaluationResult{Claim: claim, Remaining: remaining}, nil
}

// HTTPAnalyzer calls the hosted analysis backend.
type HTTPAnalyzer struct {
	baseURL string
	client  *http.Client
}

func NewHTTPAnalyzer(baseURL string) *HTTPAnalyzer {
	return &HTTPAnalyzer{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

func (a *HTTPAnalyzer) Analyze(ctx context.Context, claim *models.Claim, details []models.DamageDetail) (*AnalysisResult, error) {
	payload, err := json.Marshal(map[string]interface{}{
		"claim_number": claim.ClaimNumber,
		"description":  claim.Description,
		"damage_type":  claim.DamageType,
		"damage_cause": claim.DamageCause,
		"details":      details,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/v1/analyze", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("analysis backend returned status %d", resp.StatusCode)
	}

	var result AnalysisResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}
	return &result, nil
}
