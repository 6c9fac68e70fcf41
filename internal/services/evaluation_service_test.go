package services

import (
	"context"
	"testing"
	"time"

	"claims-api/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAnalyzer struct {
	result *AnalysisResult
	calls  int
}

func (a *fakeAnalyzer) Analyze(ctx context.Context, claim *models.Claim, details []models.DamageDetail) (*AnalysisResult, error) {
	a.calls++
	return a.result, nil
}

func TestEvaluateDeniedWhenQuotaExhausted(t *testing.T) {
	quotaRepo := newFakeQuotaRepo()
	userID := uuid.New()
	quotaRepo.rows[userID] = &models.UserQuota{
		UserID:    userID,
		Plan:      models.FreePlan,
		Remaining: 0,
		ResetDate: today(),
	}

	store := newFakeClaimStore()
	analyzer := &fakeAnalyzer{}
	svc := NewEvaluationService(store, NewQuotaService(quotaRepo, testPlanLimits()), analyzer, nil)

	_, err := svc.Evaluate(context.Background(), &Actor{UserID: userID}, uuid.New())

	var quotaErr *QuotaExceededError
	require.ErrorAs(t, err, &quotaErr)
	assert.Equal(t, models.FreePlan, quotaErr.Plan)
	assert.Equal(t, 1, quotaErr.Limit)
	assert.Equal(t, 0, analyzer.calls, "no analysis may run once the quota is spent")
}

func TestEvaluateRunsAnalysisAndConsumesQuota(t *testing.T) {
	quotaRepo := newFakeQuotaRepo()
	userID := uuid.New()
	quotaRepo.rows[userID] = &models.UserQuota{
		UserID:    userID,
		Plan:      models.ProPlan,
		Remaining: 25,
		ResetDate: today(),
	}

	store := newFakeClaimStore()
	claim := &models.Claim{
		ID:          uuid.New(),
		ClaimNumber: "CLM-2026-def67890",
		UserID:      userID,
		TeamID:      "team-acme-adjusters",
		Status:      models.ClaimStatusSubmitted,
		ACL:         ComposeClaimPermissions(userID.String(), "team-acme-adjusters", false),
		CreatedAt:   time.Now(),
	}
	store.claims[claim.ID] = claim

	analyzer := &fakeAnalyzer{result: &AnalysisResult{
		OverallSeverity:     "severe",
		RepairComplexity:    "high",
		EstimatedTotalCost:  9100,
		ConfidenceScore:     0.87,
		InvestigationNeeded: true,
		InvestigationReason: "cost exceeds threshold for cause",
		SafetyConcerns:      []string{"airbag deployed"},
		RecommendedActions:  []string{"tow to certified shop"},
		InferredDamages: []DamageDetailInput{
			{PartName: "radiator support", Severity: "moderate", EstimatedCost: 600},
		},
	}}

	svc := NewEvaluationService(store, NewQuotaService(quotaRepo, testPlanLimits()), analyzer, nil)
	result, err := svc.Evaluate(context.Background(), &Actor{UserID: userID}, claim.ID)
	require.NoError(t, err)

	assert.Equal(t, 1, analyzer.calls)
	assert.Equal(t, 24, result.Remaining)
	assert.Equal(t, 24, quotaRepo.rows[userID].Remaining)

	updated := store.claims[claim.ID]
	assert.Equal(t, models.ClaimStatusEvaluated, updated.Status)
	assert.Equal(t, "severe", updated.OverallSeverity)
	assert.True(t, updated.InvestigationNeeded)

	require.Len(t, store.created, 1)
	inferred := store.created[0]
	assert.True(t, inferred.IsInferred)
	assert.Equal(t, "radiator support", inferred.PartName)
	assert.Equal(t, ComposeClaimRelatedPermissions(userID.String(), claim.TeamID), inferred.ACL)
}

func TestEvaluateDeniedForStranger(t *testing.T) {
	quotaRepo := newFakeQuotaRepo()
	store := newFakeClaimStore()
	owner := uuid.New()
	claim := &models.Claim{
		ID:     uuid.New(),
		UserID: owner,
		ACL:    ComposeClaimPermissions(owner.String(), "", false),
	}
	store.claims[claim.ID] = claim

	analyzer := &fakeAnalyzer{result: &AnalysisResult{}}
	svc := NewEvaluationService(store, NewQuotaService(quotaRepo, testPlanLimits()), analyzer, nil)

	_, err := svc.Evaluate(context.Background(), &Actor{UserID: uuid.New()}, claim.ID)
	require.Error(t, err)
	assert.Equal(t, 0, analyzer.calls)
}

func TestEvaluateInvalidatesCachedReport(t *testing.T) {
	quotaRepo := newFakeQuotaRepo()
	userID := uuid.New()
	quotaRepo.rows[userID] = &models.UserQuota{
		UserID:    userID,
		Plan:      models.ProPlan,
		Remaining: 25,
		ResetDate: today(),
	}

	store := newFakeClaimStore()
	claim := &models.Claim{
		ID:       uuid.New(),
		UserID:   userID,
		IsPublic: true,
		ACL:      ComposeClaimPermissions(userID.String(), "", true),
	}
	store.claims[claim.ID] = claim

	cache := newFakeCache()
	analyzer := &fakeAnalyzer{result: &AnalysisResult{OverallSeverity: "minor"}}
	svc := NewEvaluationService(store, NewQuotaService(quotaRepo, testPlanLimits()), analyzer, cache)

	_, err := svc.Evaluate(context.Background(), &Actor{UserID: userID}, claim.ID)
	require.NoError(t, err)

	// The evaluation rewrote the claim, so any cached public view is stale.
	assert.Contains(t, cache.deleted, reportCacheKey(claim.ID))
}

func TestEvaluateProceedsWhenQuotaFailsOpen(t *testing.T) {
	quotaRepo := newFakeQuotaRepo()
	quotaRepo.failGet = true
	userID := uuid.New()

	store := newFakeClaimStore()
	claim := &models.Claim{
		ID:     uuid.New(),
		UserID: userID,
		ACL:    ComposeClaimPermissions(userID.String(), "", false),
	}
	store.claims[claim.ID] = claim

	analyzer := &fakeAnalyzer{result: &AnalysisResult{OverallSeverity: "minor"}}
	svc := NewEvaluationService(store, NewQuotaService(quotaRepo, testPlanLimits()), analyzer, nil)

	result, err := svc.Evaluate(context.Background(), &Actor{UserID: userID}, claim.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, analyzer.calls)
	assert.Equal(t, -1, result.Remaining)
}
