package repository

import (
	"context"
	"time"

	"claims-api/internal/models"
	"claims-api/internal/pkg/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ClaimRepository is the generic store behind the claim bundle. Every record
// is written with its ACL already composed; the repository never derives
// permissions itself.
type ClaimRepository interface {
	Create(ctx context.Context, claim *models.Claim) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Claim, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Claim, error)
	Update(ctx context.Context, claim *models.Claim) error

	CreateDamageDetail(ctx context.Context, detail *models.DamageDetail) error
	ListDamageDetails(ctx context.Context, claimID uuid.UUID) ([]models.DamageDetail, error)
	UpdateDamageDetailACLs(ctx context.Context, claimID uuid.UUID, acl models.ACL) error

	CreateVehicleVerification(ctx context.Context, verification *models.VehicleVerification) error
	GetVehicleVerification(ctx context.Context, claimID uuid.UUID) (*models.VehicleVerification, error)
	UpdateVehicleVerificationACL(ctx context.Context, claimID uuid.UUID, acl models.ACL) error

	CreateAssessment(ctx context.Context, assessment *models.Assessment) error
	GetAssessment(ctx context.Context, claimID uuid.UUID) (*models.Assessment, error)
	UpdateAssessmentACL(ctx context.Context, claimID uuid.UUID, acl models.ACL) error
}

type claimRepository struct {
	db *gorm.DB
}

func NewClaimRepository(db *gorm.DB) ClaimRepository {
	return &claimRepository{db: db}
}

func (r *claimRepository) Create(ctx context.Context, claim *models.Claim) error {
	result := r.db.WithContext(ctx).Create(claim)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to create claim")
	}
	return nil
}

func (r *claimRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Claim, error) {
	var claim models.Claim
	result := r.db.WithContext(ctx).First(&claim, "id = ?", id)

	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, errors.ErrNotFound
		}
		return nil, errors.Wrap(result.Error, "failed to get claim by ID")
	}

	return &claim, nil
}

func (r *claimRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Claim, error) {
	var claims []models.Claim
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&claims)

	if result.Error != nil {
		return nil, errors.Wrap(result.Error, "failed to list claims")
	}

	return claims, nil
}

func (r *claimRepository) Update(ctx context.Context, claim *models.Claim) error {
	result := r.db.WithContext(ctx).Model(&models.Claim{}).
		Where("id = ?", claim.ID).
		Updates(map[string]interface{}{
			"team_id":              claim.TeamID,
			"is_public":            claim.IsPublic,
			"status":               claim.Status,
			"damage_type":          claim.DamageType,
			"damage_cause":         claim.DamageCause,
			"overall_severity":     claim.OverallSeverity,
			"repair_complexity":    claim.RepairComplexity,
			"estimated_total_cost": claim.EstimatedTotalCost,
			"confidence_score":     claim.ConfidenceScore,
			"investigation_needed": claim.InvestigationNeeded,
			"investigation_reason": claim.InvestigationReason,
			"safety_concerns":      claim.SafetyConcerns,
			"recommended_actions":  claim.RecommendedActions,
			"acl":                  claim.ACL,
			"updated_at":           time.Now(),
		})

	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to update claim")
	}

	if result.RowsAffected == 0 {
		return errors.ErrNotFound
	}

	return nil
}

func (r *claimRepository) CreateDamageDetail(ctx context.Context, detail *models.DamageDetail) error {
	result := r.db.WithContext(ctx).Create(detail)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to create damage detail")
	}
	return nil
}

func (r *claimRepository) ListDamageDetails(ctx context.Context, claimID uuid.UUID) ([]models.DamageDetail, error) {
	var details []models.DamageDetail
	result := r.db.WithContext(ctx).
		Where("claim_id = ?", claimID).
		Order("created_at ASC").
		Find(&details)

	if result.Error != nil {
		return nil, errors.Wrap(result.Error, "failed to list damage details")
	}

	return details, nil
}

// UpdateDamageDetailACLs replaces the ACL of every dependent detail when the
// parent claim is routed to a team.
func (r *claimRepository) UpdateDamageDetailACLs(ctx context.Context, claimID uuid.UUID, acl models.ACL) error {
	result := r.db.WithContext(ctx).Model(&models.DamageDetail{}).
		Where("claim_id = ?", claimID).
		Updates(map[string]interface{}{
			"acl":        acl,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to update damage detail ACLs")
	}

	return nil
}

func (r *claimRepository) CreateVehicleVerification(ctx context.Context, verification *models.VehicleVerification) error {
	result := r.db.WithContext(ctx).Create(verification)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to create vehicle verification")
	}
	return nil
}

func (r *claimRepository) GetVehicleVerification(ctx context.Context, claimID uuid.UUID) (*models.VehicleVerification, error) {
	var verification models.VehicleVerification
	result := r.db.WithContext(ctx).First(&verification, "claim_id = ?", claimID)

	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, errors.ErrNotFound
		}
		return nil, errors.Wrap(result.Error, "failed to get vehicle verification")
	}

	return &verification, nil
}

// UpdateVehicleVerificationACL replaces the verification's ACL when the
// parent claim is routed to a team. A claim without one is not an error.
func (r *claimRepository) UpdateVehicleVerificationACL(ctx context.Context, claimID uuid.UUID, acl models.ACL) error {
	result := r.db.WithContext(ctx).Model(&models.VehicleVerification{}).
		Where("claim_id = ?", claimID).
		Updates(map[string]interface{}{
			"acl":        acl,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to update vehicle verification ACL")
	}

	return nil
}

func (r *claimRepository) CreateAssessment(ctx context.Context, assessment *models.Assessment) error {
	result := r.db.WithContext(ctx).Create(assessment)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to create assessment")
	}
	return nil
}

func (r *claimRepository) GetAssessment(ctx context.Context, claimID uuid.UUID) (*models.Assessment, error) {
	var assessment models.Assessment
	result := r.db.WithContext(ctx).First(&assessment, "claim_id = ?", claimID)

	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, errors.ErrNotFound
		}
		return nil, errors.Wrap(result.Error, "failed to get assessment")
	}

	return &assessment, nil
}

func (r *claimRepository) UpdateAssessmentACL(ctx context.Context, claimID uuid.UUID, acl models.ACL) error {
	result := r.db.WithContext(ctx).Model(&models.Assessment{}).
		Where("claim_id = ?", claimID).
		Updates(map[string]interface{}{
			"acl":        acl,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to update assessment ACL")
	}

	return nil
}
