package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ClaimStatus string

const (
	ClaimStatusSubmitted ClaimStatus = "submitted"
	ClaimStatusEvaluated ClaimStatus = "evaluated"
	ClaimStatusAssessed  ClaimStatus = "assessed"
	ClaimStatusClosed    ClaimStatus = "closed"
)

// Claim is the root of a claim bundle. Dependent records (damage details,
// vehicle verification, assessment) share its owner and team but carry their
// own ACL. IsPublic governs the anonymous report API only; authenticated
// access goes through the ACL.
type Claim struct {
	ID                  uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	ClaimNumber         string         `gorm:"type:varchar(50);uniqueIndex;not null" json:"claim_number"`
	UserID              uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	TeamID              string         `gorm:"type:varchar(64);index" json:"team_id,omitempty"`
	IsPublic            bool           `gorm:"not null;default:false" json:"is_public"`
	Status              ClaimStatus    `gorm:"type:varchar(20);not null;default:'submitted'" json:"status"`
	Description         string         `gorm:"type:text" json:"description"`
	DamageType          string         `gorm:"type:varchar(100)" json:"damage_type"`
	DamageCause         string         `gorm:"type:varchar(100)" json:"damage_cause"`
	OverallSeverity     string         `gorm:"type:varchar(50)" json:"overall_severity"`
	RepairComplexity    string         `gorm:"type:varchar(50)" json:"repair_complexity"`
	EstimatedTotalCost  float64        `gorm:"type:decimal(12,2)" json:"estimated_total_cost"`
	ConfidenceScore     float64        `gorm:"type:decimal(4,3)" json:"confidence_score"`
	InvestigationNeeded bool           `gorm:"not null;default:false" json:"investigation_needed"`
	InvestigationReason string         `gorm:"type:text" json:"investigation_reason"`
	SafetyConcerns      StringList     `gorm:"type:jsonb" json:"safety_concerns"`
	RecommendedActions  StringList     `gorm:"type:jsonb" json:"recommended_actions"`
	ACL                 ACL            `gorm:"type:jsonb" json:"-"`
	CreatedAt           time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt           time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	DeletedAt           gorm.DeletedAt `gorm:"index" json:"-"`
}

// DamageDetail is one damaged part on a claim. IsInferred marks internal
// damage deduced by analysis rather than observed on intake; the split is a
// read-time projection, both kinds live in the same table.
type DamageDetail struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	ClaimID       uuid.UUID      `gorm:"type:uuid;not null;index" json:"claim_id"`
	PartName      string         `gorm:"type:varchar(100);not null" json:"part_name"`
	Description   string         `gorm:"type:text" json:"description"`
	Severity      string         `gorm:"type:varchar(50)" json:"severity"`
	RepairType    string         `gorm:"type:varchar(50)" json:"repair_type"`
	EstimatedCost float64        `gorm:"type:decimal(12,2)" json:"estimated_cost"`
	IsInferred    bool           `gorm:"not null;default:false" json:"is_inferred"`
	ACL           ACL            `gorm:"type:jsonb" json:"-"`
	CreatedAt     time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

type VehicleVerification struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	ClaimID   uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex" json:"claim_id"`
	VIN       string         `gorm:"type:varchar(17)" json:"vin"`
	Make      string         `gorm:"type:varchar(50)" json:"make"`
	Model     string         `gorm:"type:varchar(50)" json:"model"`
	Year      int            `json:"year"`
	Verified  bool           `gorm:"not null;default:false" json:"verified"`
	Notes     string         `gorm:"type:text" json:"notes"`
	ACL       ACL            `gorm:"type:jsonb" json:"-"`
	CreatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Assessment holds the adjuster team's financial decision on a claim.
type Assessment struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	ClaimID        uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex" json:"claim_id"`
	ApprovedAmount float64        `gorm:"type:decimal(12,2)" json:"approved_amount"`
	Deductible     float64        `gorm:"type:decimal(12,2)" json:"deductible"`
	Payout         float64        `gorm:"type:decimal(12,2)" json:"payout"`
	Currency       string         `gorm:"type:varchar(3);not null;default:'USD'" json:"currency"`
	Notes          string         `gorm:"type:text" json:"notes"`
	ACL            ACL            `gorm:"type:jsonb" json:"-"`
	CreatedAt      time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Claim) TableName() string {
	return "claims"
}

func (DamageDetail) TableName() string {
	return "damage_details"
}

func (VehicleVerification) TableName() string {
	return "vehicle_verifications"
}

func (Assessment) TableName() string {
	return "assessments"
}

func (c *Claim) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	now := time.Now()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = now
	}
	return nil
}

func (d *DamageDetail) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

func (v *VehicleVerification) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}

func (a *Assessment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
