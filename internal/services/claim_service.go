package services

import (
	"context"
	"fmt"
	"time"

	"claims-api/internal/models"
	"claims-api/internal/pkg/errors"
	"claims-api/internal/repository"

	"github.com/google/uuid"
)

type CreateClaimInput struct {
	Description string
	DamageType  string
	DamageCause string
}

type DamageDetailInput struct {
	PartName      string
	Description   string
	Severity      string
	RepairType    string
	EstimatedCost float64
	IsInferred    bool
}

type AssessmentInput struct {
	ApprovedAmount float64
	Deductible     float64
	Currency       string
	Notes          string
}

type VehicleVerificationInput struct {
	VIN      string
	Make     string
	Model    string
	Year     int
	Verified bool
	Notes    string
}

// ClaimService is the write path of the claim bundle: every create composes
// the record's ACL before it reaches the store, and every visibility or
// routing change recomposes and replaces it.
type ClaimService interface {
	CreateClaim(ctx context.Context, actor *Actor, input CreateClaimInput) (*models.Claim, error)
	GetClaim(ctx context.Context, actor *Actor, claimID uuid.UUID) (*models.Claim, error)
	ListClaims(ctx context.Context, actor *Actor, limit, offset int) ([]models.Claim, error)
	AddDamageDetail(ctx context.Context, actor *Actor, claimID uuid.UUID, input DamageDetailInput) (*models.DamageDetail, error)
	AddVehicleVerification(ctx context.Context, actor *Actor, claimID uuid.UUID, input VehicleVerificationInput) (*models.VehicleVerification, error)
	AddAssessment(ctx context.Context, actor *Actor, claimID uuid.UUID, input AssessmentInput) (*models.Assessment, error)
	SetVisibility(ctx context.Context, actor *Actor, claimID uuid.UUID, isPublic bool) (*models.Claim, error)
	AssignTeam(ctx context.Context, actor *Actor, claimID uuid.UUID, companyCode string) (*models.Claim, error)
}

type claimService struct {
	claimRepo   repository.ClaimRepository
	companyRepo repository.CompanyRepository
	cache       CacheService
}

func NewClaimService(claimRepo repository.ClaimRepository, companyRepo repository.CompanyRepository, cache CacheService) ClaimService {
	return &claimService{
		claimRepo:   claimRepo,
		companyRepo: companyRepo,
		cache:       cache,
	}
}

func (s *claimService) CreateClaim(ctx context.Context, actor *Actor, input CreateClaimInput) (*models.Claim, error) {
	claim := &models.Claim{
		ID:          uuid.New(),
		ClaimNumber: generateClaimNumber(),
		UserID:      actor.UserID,
		Status:      models.ClaimStatusSubmitted,
		Description: input.Description,
		DamageType:  input.DamageType,
		DamageCause: input.DamageCause,
		ACL:         ComposeClaimPermissions(actor.UserID.String(), "", false),
	}

	if err := s.claimRepo.Create(ctx, claim); err != nil {
		return nil, err
	}

	return claim, nil
}

func (s *claimService) GetClaim(ctx context.Context, actor *Actor, claimID uuid.UUID) (*models.Claim, error) {
	claim, err := s.claimRepo.GetByID(ctx, claimID)
	if err != nil {
		return nil, err
	}

	if !claim.ACL.CanRead(actor.UserID.String(), actor.TeamID) {
		return nil, errors.ErrInsufficientPermission
	}

	return claim, nil
}

func (s *claimService) ListClaims(ctx context.Context, actor *Actor, limit, offset int) ([]models.Claim, error) {
	return s.claimRepo.ListByUser(ctx, actor.UserID, limit, offset)
}

func (s *claimService) AddDamageDetail(ctx context.Context, actor *Actor, claimID uuid.UUID, input DamageDetailInput) (*models.DamageDetail, error) {
	claim, err := s.writableClaim(ctx, actor, claimID)
	if err != nil {
		return nil, err
	}

	detail := &models.DamageDetail{
		ID:            uuid.New(),
		ClaimID:       claim.ID,
		PartName:      input.PartName,
		Description:   input.Description,
		Severity:      input.Severity,
		RepairType:    input.RepairType,
		EstimatedCost: input.EstimatedCost,
		IsInferred:    input.IsInferred,
		ACL:           ComposeClaimRelatedPermissions(claim.UserID.String(), claim.TeamID),
	}

	if err := s.claimRepo.CreateDamageDetail(ctx, detail); err != nil {
		return nil, err
	}

	s.invalidateReport(ctx, claim.ID)
	return detail, nil
}

func (s *claimService) AddVehicleVerification(ctx context.Context, actor *Actor, claimID uuid.UUID, input VehicleVerificationInput) (*models.VehicleVerification, error) {
	claim, err := s.writableClaim(ctx, actor, claimID)
	if err != nil {
		return nil, err
	}

	verification := &models.VehicleVerification{
		ID:       uuid.New(),
		ClaimID:  claim.ID,
		VIN:      input.VIN,
		Make:     input.Make,
		Model:    input.Model,
		Year:     input.Year,
		Verified: input.Verified,
		Notes:    input.Notes,
		ACL:      ComposeClaimRelatedPermissions(claim.UserID.String(), claim.TeamID),
	}

	if err := s.claimRepo.CreateVehicleVerification(ctx, verification); err != nil {
		return nil, err
	}

	s.invalidateReport(ctx, claim.ID)
	return verification, nil
}

func (s *claimService) AddAssessment(ctx context.Context, actor *Actor, claimID uuid.UUID, input AssessmentInput) (*models.Assessment, error) {
	claim, err := s.claimRepo.GetByID(ctx, claimID)
	if err != nil {
		return nil, err
	}

	// Assessments are the adjuster team's verdict; the owner cannot write one.
	if !claim.ACL.CanUpdate(actor.UserID.String(), actor.TeamID) {
		return nil, errors.ErrInsufficientPermission
	}

	currency := input.Currency
	if currency == "" {
		currency = "USD"
	}

	assessment := &models.Assessment{
		ID:             uuid.New(),
		ClaimID:        claim.ID,
		ApprovedAmount: input.ApprovedAmount,
		Deductible:     input.Deductible,
		Payout:         input.ApprovedAmount - input.Deductible,
		Currency:       currency,
		Notes:          input.Notes,
		ACL:            ComposeClaimRelatedPermissions(claim.UserID.String(), claim.TeamID),
	}

	if err := s.claimRepo.CreateAssessment(ctx, assessment); err != nil {
		return nil, err
	}

	claim.Status = models.ClaimStatusAssessed
	if err := s.claimRepo.Update(ctx, claim); err != nil {
		return nil, err
	}

	s.invalidateReport(ctx, claim.ID)
	return assessment, nil
}

// SetVisibility flips the anonymous-report flag and replaces the claim's ACL
// with a freshly composed one. Only the claim owner may change visibility.
func (s *claimService) SetVisibility(ctx context.Context, actor *Actor, claimID uuid.UUID, isPublic bool) (*models.Claim, error) {
	claim, err := s.claimRepo.GetByID(ctx, claimID)
	if err != nil {
		return nil, err
	}

	if claim.UserID != actor.UserID {
		return nil, errors.ErrInsufficientPermission
	}

	claim.IsPublic = isPublic
	claim.ACL = ComposeClaimPermissions(claim.UserID.String(), claim.TeamID, isPublic)
	if err := s.claimRepo.Update(ctx, claim); err != nil {
		return nil, err
	}

	s.invalidateReport(ctx, claim.ID)
	return claim, nil
}

// AssignTeam routes a claim to the adjuster team of the chosen insurance
// company and recomposes the ACL of the claim and all dependent records so
// the team gains read+update across the bundle.
func (s *claimService) AssignTeam(ctx context.Context, actor *Actor, claimID uuid.UUID, companyCode string) (*models.Claim, error) {
	claim, err := s.claimRepo.GetByID(ctx, claimID)
	if err != nil {
		return nil, err
	}

	if claim.UserID != actor.UserID {
		return nil, errors.ErrInsufficientPermission
	}

	company, err := s.companyRepo.GetByCode(ctx, companyCode)
	if err != nil {
		return nil, err
	}

	claim.TeamID = company.TeamID
	claim.ACL = ComposeClaimPermissions(claim.UserID.String(), claim.TeamID, claim.IsPublic)
	if err := s.claimRepo.Update(ctx, claim); err != nil {
		return nil, err
	}

	relatedACL := ComposeClaimRelatedPermissions(claim.UserID.String(), claim.TeamID)
	if err := s.claimRepo.UpdateDamageDetailACLs(ctx, claim.ID, relatedACL); err != nil {
		return nil, err
	}
	if err := s.claimRepo.UpdateVehicleVerificationACL(ctx, claim.ID, relatedACL); err != nil {
		return nil, err
	}
	if err := s.claimRepo.UpdateAssessmentACL(ctx, claim.ID, relatedACL); err != nil {
		return nil, err
	}

	return claim, nil
}

func (s *claimService) writableClaim(ctx context.Context, actor *Actor, claimID uuid.UUID) (*models.Claim, error) {
	claim, err := s.claimRepo.GetByID(ctx, claimID)
	if err != nil {
		return nil, err
	}

	// The owner files intake records; a routed team edits through its
	// update grant.
	if claim.UserID != actor.UserID && !claim.ACL.CanUpdate(actor.UserID.String(), actor.TeamID) {
		return nil, errors.ErrInsufficientPermission
	}

	return claim, nil
}

func (s *claimService) invalidateReport(ctx context.Context, claimID uuid.UUID) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Delete(ctx, reportCacheKey(claimID))
}

func reportCacheKey(claimID uuid.UUID) string {
	return fmt.Sprintf("public_report:%s", claimID)
}

func generateClaimNumber() string {
	return fmt.Sprintf("CLM-%d-%s", time.Now().UTC().Year(), uuid.NewString()[:8])
}
