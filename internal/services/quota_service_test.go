package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"claims-api/internal/config"
	"claims-api/internal/models"
	"claims-api/internal/pkg/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeQuotaRepo struct {
	rows     map[uuid.UUID]*models.UserQuota
	failGet  bool
	failSave bool
	saves    int
}

func newFakeQuotaRepo() *fakeQuotaRepo {
	return &fakeQuotaRepo{rows: make(map[uuid.UUID]*models.UserQuota)}
}

func (r *fakeQuotaRepo) Get(ctx context.Context, userID uuid.UUID) (*models.UserQuota, error) {
	if r.failGet {
		return nil, fmt.Errorf("connection refused")
	}
	row, ok := r.rows[userID]
	if !ok {
		return nil, errors.ErrNotFound
	}
	copied := *row
	return &copied, nil
}

func (r *fakeQuotaRepo) Save(ctx context.Context, quota *models.UserQuota) error {
	if r.failSave {
		return fmt.Errorf("connection refused")
	}
	copied := *quota
	r.rows[quota.UserID] = &copied
	r.saves++
	return nil
}

func testPlanLimits() *config.PlanLimitConfig {
	return &config.PlanLimitConfig{
		Limits: map[models.Plan]int{
			models.FreePlan: 1,
			models.ProPlan:  25,
			models.MaxPlan:  100,
		},
	}
}

func today() string {
	return models.QuotaDay(time.Now())
}

func yesterday() string {
	return models.QuotaDay(time.Now().AddDate(0, 0, -1))
}

func TestQuotaFreePlanLifecycle(t *testing.T) {
	repo := newFakeQuotaRepo()
	svc := NewQuotaService(repo, testPlanLimits())
	userID := uuid.New()

	// First check of an unknown user creates the row at the full limit.
	status := svc.Check(context.Background(), userID)
	require.True(t, status.Allowed)
	assert.Equal(t, 1, status.Remaining)
	assert.Equal(t, models.FreePlan, status.Plan)

	row := repo.rows[userID]
	require.NotNil(t, row)
	assert.Equal(t, today(), row.ResetDate)

	svc.Decrement(context.Background(), userID)
	assert.Equal(t, 0, repo.rows[userID].Remaining)

	status = svc.Check(context.Background(), userID)
	assert.False(t, status.Allowed)
	assert.Equal(t, 0, status.Remaining)
	assert.Contains(t, status.Message, "free")
	assert.Contains(t, status.Message, "1")
}

func TestQuotaDayBoundaryReset(t *testing.T) {
	repo := newFakeQuotaRepo()
	userID := uuid.New()
	repo.rows[userID] = &models.UserQuota{
		UserID:    userID,
		Plan:      models.ProPlan,
		Remaining: 0,
		ResetDate: yesterday(),
	}

	svc := NewQuotaService(repo, testPlanLimits())
	status := svc.Check(context.Background(), userID)

	require.True(t, status.Allowed)
	assert.Equal(t, 25, status.Remaining)
	assert.Equal(t, today(), repo.rows[userID].ResetDate)
	assert.Equal(t, 25, repo.rows[userID].Remaining)
}

func TestQuotaDowngradeClamp(t *testing.T) {
	repo := newFakeQuotaRepo()
	userID := uuid.New()
	// A max-plan user with 50 left was downgraded to free (limit 1).
	repo.rows[userID] = &models.UserQuota{
		UserID:    userID,
		Plan:      models.FreePlan,
		Remaining: 50,
		ResetDate: today(),
	}

	svc := NewQuotaService(repo, testPlanLimits())
	status := svc.Check(context.Background(), userID)

	require.True(t, status.Allowed)
	assert.Equal(t, 1, status.Remaining, "stale pre-downgrade count must clamp to the new limit")
}

func TestQuotaCheckFailsOpenOnReadFault(t *testing.T) {
	repo := newFakeQuotaRepo()
	repo.failGet = true

	svc := NewQuotaService(repo, testPlanLimits())
	status := svc.Check(context.Background(), uuid.New())

	require.True(t, status.Allowed)
	assert.Equal(t, -1, status.Remaining)
	assert.Empty(t, status.Message)
}

func TestQuotaCheckFailsOpenOnWriteFault(t *testing.T) {
	repo := newFakeQuotaRepo()
	repo.failSave = true
	userID := uuid.New()
	repo.rows[userID] = &models.UserQuota{
		UserID:    userID,
		Plan:      models.FreePlan,
		Remaining: 0,
		ResetDate: yesterday(),
	}

	svc := NewQuotaService(repo, testPlanLimits())
	status := svc.Check(context.Background(), userID)

	require.True(t, status.Allowed)
	assert.Equal(t, -1, status.Remaining)
}

func TestQuotaCheckDoesNotRewriteFreshRow(t *testing.T) {
	repo := newFakeQuotaRepo()
	userID := uuid.New()
	repo.rows[userID] = &models.UserQuota{
		UserID:    userID,
		Plan:      models.ProPlan,
		Remaining: 10,
		ResetDate: today(),
	}

	svc := NewQuotaService(repo, testPlanLimits())
	status := svc.Check(context.Background(), userID)

	require.True(t, status.Allowed)
	assert.Equal(t, 10, status.Remaining)
	assert.Equal(t, 0, repo.saves, "a same-day check must not write")
}

func TestQuotaDecrementFloorsAtZero(t *testing.T) {
	repo := newFakeQuotaRepo()
	userID := uuid.New()
	repo.rows[userID] = &models.UserQuota{
		UserID:    userID,
		Plan:      models.FreePlan,
		Remaining: 0,
		ResetDate: today(),
	}

	svc := NewQuotaService(repo, testPlanLimits())
	svc.Decrement(context.Background(), userID)

	assert.Equal(t, 0, repo.rows[userID].Remaining)
}

func TestQuotaDecrementAppliesLazyReset(t *testing.T) {
	repo := newFakeQuotaRepo()
	userID := uuid.New()
	repo.rows[userID] = &models.UserQuota{
		UserID:    userID,
		Plan:      models.ProPlan,
		Remaining: 0,
		ResetDate: yesterday(),
	}

	svc := NewQuotaService(repo, testPlanLimits())
	svc.Decrement(context.Background(), userID)

	assert.Equal(t, 24, repo.rows[userID].Remaining)
	assert.Equal(t, today(), repo.rows[userID].ResetDate)
}

func TestQuotaDecrementSwallowsFaults(t *testing.T) {
	repo := newFakeQuotaRepo()
	repo.failGet = true

	svc := NewQuotaService(repo, testPlanLimits())
	// Must not panic and must not surface the fault.
	svc.Decrement(context.Background(), uuid.New())

	repo.failGet = false
	repo.failSave = true
	svc.Decrement(context.Background(), uuid.New())
}
