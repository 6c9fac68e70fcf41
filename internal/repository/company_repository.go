package repository

import (
	"context"

	"claims-api/internal/models"
	"claims-api/internal/pkg/errors"

	"gorm.io/gorm"
)

type CompanyRepository interface {
	Create(ctx context.Context, company *models.InsuranceCompany) error
	GetByCode(ctx context.Context, code string) (*models.InsuranceCompany, error)
	List(ctx context.Context) ([]models.InsuranceCompany, error)
}

type companyRepository struct {
	db *gorm.DB
}

func NewCompanyRepository(db *gorm.DB) CompanyRepository {
	return &companyRepository{db: db}
}

func (r *companyRepository) Create(ctx context.Context, company *models.InsuranceCompany) error {
	result := r.db.WithContext(ctx).Create(company)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to create insurance company")
	}
	return nil
}

func (r *companyRepository) GetByCode(ctx context.Context, code string) (*models.InsuranceCompany, error) {
	var company models.InsuranceCompany
	result := r.db.WithContext(ctx).First(&company, "code = ?", code)

	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, errors.ErrNotFound
		}
		return nil, errors.Wrap(result.Error, "failed to get insurance company")
	}

	return &company, nil
}

func (r *companyRepository) List(ctx context.Context) ([]models.InsuranceCompany, error) {
	var companies []models.InsuranceCompany
	result := r.db.WithContext(ctx).Order("name ASC").Find(&companies)

	if result.Error != nil {
		return nil, errors.Wrap(result.Error, "failed to list insurance companies")
	}

	return companies, nil
}
