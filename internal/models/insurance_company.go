package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InsuranceCompany is a public directory entry backing form dropdowns.
// Writes happen through a privileged path; the API only ever reads these.
type InsuranceCompany struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string         `gorm:"type:varchar(255);not null" json:"name"`
	Code      string         `gorm:"type:varchar(20);uniqueIndex;not null" json:"code"`
	TeamID    string         `gorm:"type:varchar(64);not null" json:"team_id"`
	Country   string         `gorm:"type:varchar(100)" json:"country"`
	ACL       ACL            `gorm:"type:jsonb" json:"-"`
	CreatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (InsuranceCompany) TableName() string {
	return "insurance_companies"
}

func (c *InsuranceCompany) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
