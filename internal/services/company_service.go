package services

import (
	"context"

	"claims-api/internal/models"
	"claims-api/internal/repository"

	"github.com/google/uuid"
)

// CompanyService reads the public insurance-company directory. Creation is
// reserved for the privileged ops path (seeding, admin tooling); records are
// stamped world-readable so the dropdown endpoint needs no auth context.
type CompanyService interface {
	Create(ctx context.Context, name, code, teamID, country string) (*models.InsuranceCompany, error)
	List(ctx context.Context) ([]models.InsuranceCompany, error)
}

type companyService struct {
	companyRepo repository.CompanyRepository
}

func NewCompanyService(companyRepo repository.CompanyRepository) CompanyService {
	return &companyService{companyRepo: companyRepo}
}

func (s *companyService) Create(ctx context.Context, name, code, teamID, country string) (*models.InsuranceCompany, error) {
	company := &models.InsuranceCompany{
		ID:      uuid.New(),
		Name:    name,
		Code:    code,
		TeamID:  teamID,
		Country: country,
		ACL:     ComposeDirectoryPermissions(),
	}

	if err := s.companyRepo.Create(ctx, company); err != nil {
		return nil, err
	}

	return company, nil
}

func (s *companyService) List(ctx context.Context) ([]models.InsuranceCompany, error) {
	return s.companyRepo.List(ctx)
}
