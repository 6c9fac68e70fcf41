package services

import (
	"context"
	"testing"
	"time"

	"claims-api/internal/models"
	"claims-api/internal/pkg/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *fakeClaimStore) UpdateDamageDetailACLs(ctx context.Context, claimID uuid.UUID, acl models.ACL) error {
	details := s.details[claimID]
	for i := range details {
		details[i].ACL = acl
	}
	s.details[claimID] = details
	return nil
}

func (s *fakeClaimStore) UpdateVehicleVerificationACL(ctx context.Context, claimID uuid.UUID, acl models.ACL) error {
	if v, ok := s.verifications[claimID]; ok {
		v.ACL = acl
	}
	return nil
}

func (s *fakeClaimStore) UpdateAssessmentACL(ctx context.Context, claimID uuid.UUID, acl models.ACL) error {
	if a, ok := s.assessments[claimID]; ok {
		a.ACL = acl
	}
	return nil
}

type fakeCompanyRepo struct {
	companies map[string]*models.InsuranceCompany
}

func (r *fakeCompanyRepo) Create(ctx context.Context, company *models.InsuranceCompany) error {
	r.companies[company.Code] = company
	return nil
}

func (r *fakeCompanyRepo) GetByCode(ctx context.Context, code string) (*models.InsuranceCompany, error) {
	company, ok := r.companies[code]
	if !ok {
		return nil, errors.ErrNotFound
	}
	return company, nil
}

func (r *fakeCompanyRepo) List(ctx context.Context) ([]models.InsuranceCompany, error) {
	var all []models.InsuranceCompany
	for _, c := range r.companies {
		all = append(all, *c)
	}
	return all, nil
}

type fakeCache struct {
	values  map[string]string
	deleted []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{values: make(map[string]string)}
}

func (c *fakeCache) Get(ctx context.Context, key string) (string, error) {
	return c.values[key], nil
}

func (c *fakeCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return nil
}

func (c *fakeCache) Delete(ctx context.Context, key string) error {
	c.deleted = append(c.deleted, key)
	delete(c.values, key)
	return nil
}

func TestAssignTeamRecomposesBundleACLs(t *testing.T) {
	store := newFakeClaimStore()
	owner := uuid.New()
	ownerACL := ComposeClaimRelatedPermissions(owner.String(), "")

	claim := &models.Claim{
		ID:     uuid.New(),
		UserID: owner,
		ACL:    ComposeClaimPermissions(owner.String(), "", false),
	}
	store.claims[claim.ID] = claim
	store.details[claim.ID] = []models.DamageDetail{
		{ClaimID: claim.ID, PartName: "rear bumper", ACL: ownerACL},
	}
	store.verifications[claim.ID] = &models.VehicleVerification{
		ClaimID: claim.ID, VIN: "1HGBH41JXMN109186", ACL: ownerACL,
	}
	store.assessments[claim.ID] = &models.Assessment{
		ClaimID: claim.ID, ApprovedAmount: 1200, ACL: ownerACL,
	}

	companies := &fakeCompanyRepo{companies: map[string]*models.InsuranceCompany{
		"ACME": {Code: "ACME", Name: "Acme Insurance", TeamID: "team-9"},
	}}

	svc := NewClaimService(store, companies, nil)
	routed, err := svc.AssignTeam(context.Background(), &Actor{UserID: owner}, claim.ID, "ACME")
	require.NoError(t, err)

	assert.Equal(t, "team-9", routed.TeamID)
	assert.True(t, routed.ACL.CanUpdate("", "team-9"))

	// Every dependent record kind must pick up the team grants, not just
	// damage details.
	detail := store.details[claim.ID][0]
	assert.True(t, detail.ACL.CanRead("", "team-9"))
	assert.True(t, detail.ACL.CanUpdate("", "team-9"))

	verification := store.verifications[claim.ID]
	assert.True(t, verification.ACL.CanRead("", "team-9"))
	assert.True(t, verification.ACL.CanUpdate("", "team-9"))

	assessment := store.assessments[claim.ID]
	assert.True(t, assessment.ACL.CanRead("", "team-9"))
	assert.True(t, assessment.ACL.CanUpdate("", "team-9"))

	// The owner's grants survive the recompose.
	assert.True(t, verification.ACL.CanRead(owner.String(), ""))
}

func TestAssignTeamRejectsNonOwner(t *testing.T) {
	store := newFakeClaimStore()
	owner := uuid.New()
	claim := &models.Claim{
		ID:     uuid.New(),
		UserID: owner,
		ACL:    ComposeClaimPermissions(owner.String(), "", false),
	}
	store.claims[claim.ID] = claim

	companies := &fakeCompanyRepo{companies: map[string]*models.InsuranceCompany{
		"ACME": {Code: "ACME", TeamID: "team-9"},
	}}

	svc := NewClaimService(store, companies, nil)
	_, err := svc.AssignTeam(context.Background(), &Actor{UserID: uuid.New()}, claim.ID, "ACME")
	assert.Equal(t, errors.ErrInsufficientPermission, err)
}

func TestSetVisibilityInvalidatesCachedReport(t *testing.T) {
	store := newFakeClaimStore()
	cache := newFakeCache()
	owner := uuid.New()
	claim := &models.Claim{
		ID:       uuid.New(),
		UserID:   owner,
		IsPublic: true,
		ACL:      ComposeClaimPermissions(owner.String(), "", true),
	}
	store.claims[claim.ID] = claim

	svc := NewClaimService(store, &fakeCompanyRepo{}, cache)
	updated, err := svc.SetVisibility(context.Background(), &Actor{UserID: owner}, claim.ID, false)
	require.NoError(t, err)

	assert.False(t, updated.IsPublic)
	assert.False(t, updated.ACL.CanRead("", ""))
	assert.Contains(t, cache.deleted, reportCacheKey(claim.ID))
}
