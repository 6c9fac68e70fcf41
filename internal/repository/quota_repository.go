package repository

import (
	"context"

	"claims-api/internal/models"
	"claims-api/internal/pkg/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type QuotaRepository interface {
	Get(ctx context.Context, userID uuid.UUID) (*models.UserQuota, error)
	Save(ctx context.Context, quota *models.UserQuota) error
}

type quotaRepository struct {
	db *gorm.DB
}

func NewQuotaRepository(db *gorm.DB) QuotaRepository {
	return &quotaRepository{db: db}
}

func (r *quotaRepository) Get(ctx context.Context, userID uuid.UUID) (*models.UserQuota, error) {
	var quota models.UserQuota
	result := r.db.WithContext(ctx).First(&quota, "user_id = ?", userID)

	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, errors.ErrNotFound
		}
		return nil, errors.Wrap(result.Error, "failed to get quota record")
	}

	return &quota, nil
}

// Save upserts the quota row keyed by user id. The read-modify-write cycle
// around it is not atomic; a caller needing a hard cap should add the
// previously read remaining count as a WHERE precondition here.
func (r *quotaRepository) Save(ctx context.Context, quota *models.UserQuota) error {
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"plan", "remaining", "reset_date", "updated_at"}),
	}).Create(quota)

	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to save quota record")
	}

	return nil
}
