package services

import (
	"context"
	"fmt"
	"time"

	"claims-api/internal/config"
	"claims-api/internal/logger"
	"claims-api/internal/models"
	"claims-api/internal/pkg/errors"
	"claims-api/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// QuotaStatus is the outcome of a quota check. Remaining is -1 when the
// check failed open because the store was unreachable.
type QuotaStatus struct {
	Allowed   bool        `json:"allowed"`
	Plan      models.Plan `json:"plan"`
	Limit     int         `json:"limit"`
	Remaining int         `json:"remaining"`
	ResetDate string      `json:"reset_date"`
	Message   string      `json:"message,omitempty"`
}

type QuotaService interface {
	// Check reports whether the user may run another evaluation today. It
	// never returns an error: a storage fault fails open so an
	// infrastructure problem cannot lock a paying user out.
	Check(ctx context.Context, userID uuid.UUID) *QuotaStatus

	// Decrement consumes one evaluation. Best-effort: the caller's
	// evaluation has already completed, so failures are logged and
	// swallowed. A retried evaluation must not call Decrement again.
	Decrement(ctx context.Context, userID uuid.UUID)
}

type quotaService struct {
	quotaRepo repository.QuotaRepository
	limits    *config.PlanLimitConfig
}

func NewQuotaService(quotaRepo repository.QuotaRepository, limits *config.PlanLimitConfig) QuotaService {
	return &quotaService{
		quotaRepo: quotaRepo,
		limits:    limits,
	}
}

func (s *quotaService) Check(ctx context.Context, userID uuid.UUID) *QuotaStatus {
	quota, err := s.load(ctx, userID)
	if err != nil {
		logger.Logger.WithFields(logrus.Fields{
			"user_id": userID,
			"error":   err.Error(),
		}).Warn("quota check failed open")
		return &QuotaStatus{Allowed: true, Remaining: -1}
	}

	limit := s.limits.LimitFor(quota.Plan)
	remaining := quota.Remaining
	if remaining > limit {
		// Plan downgrade left a stale higher count; clamp it.
		remaining = limit
	}

	today := models.QuotaDay(time.Now())
	if quota.ResetDate != today {
		remaining = limit
		quota.Remaining = limit
		quota.ResetDate = today
		if err := s.quotaRepo.Save(ctx, quota); err != nil {
			logger.Logger.WithFields(logrus.Fields{
				"user_id": userID,
				"error":   err.Error(),
			}).Warn("quota reset failed open")
			return &QuotaStatus{Allowed: true, Remaining: -1}
		}
	}

	status := &QuotaStatus{
		Plan:      quota.Plan,
		Limit:     limit,
		Remaining: remaining,
		ResetDate: today,
	}

	if remaining <= 0 {
		status.Allowed = false
		status.Remaining = 0
		status.Message = fmt.Sprintf(
			"Daily evaluation limit reached for the %s plan (%d per day). Upgrade your plan or try again tomorrow.",
			quota.Plan, limit,
		)
		return status
	}

	status.Allowed = true
	return status
}

func (s *quotaService) Decrement(ctx context.Context, userID uuid.UUID) {
	quota, err := s.load(ctx, userID)
	if err != nil {
		logger.Logger.WithFields(logrus.Fields{
			"user_id": userID,
			"error":   err.Error(),
		}).Error("quota decrement skipped: load failed")
		return
	}

	limit := s.limits.LimitFor(quota.Plan)
	remaining := quota.Remaining
	if remaining > limit {
		remaining = limit
	}

	today := models.QuotaDay(time.Now())
	if quota.ResetDate != today {
		remaining = limit
	}

	if remaining > 0 {
		remaining--
	}

	quota.Remaining = remaining
	quota.ResetDate = today
	if err := s.quotaRepo.Save(ctx, quota); err != nil {
		logger.Logger.WithFields(logrus.Fields{
			"user_id": userID,
			"error":   err.Error(),
		}).Error("quota decrement write failed")
	}
}

// load fetches the user's quota row, synthesizing the free-plan default when
// none exists yet. Only genuine storage faults propagate.
func (s *quotaService) load(ctx context.Context, userID uuid.UUID) (*models.UserQuota, error) {
	quota, err := s.quotaRepo.Get(ctx, userID)
	if err == nil {
		return quota, nil
	}
	if err == errors.ErrNotFound {
		return &models.UserQuota{
			UserID:    userID,
			Plan:      models.FreePlan,
			Remaining: s.limits.LimitFor(models.FreePlan),
		}, nil
	}
	return nil, err
}
