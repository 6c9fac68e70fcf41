package models

import (
	"time"

	"github.com/google/uuid"
)

type Plan string

const (
	FreePlan Plan = "free"
	ProPlan  Plan = "pro"
	MaxPlan  Plan = "max"
)

// UserQuota is the per-user daily evaluation counter. ResetDate is the UTC
// calendar day ("2006-01-02") on which Remaining was last set to the plan's
// full limit; the row is created lazily on the first quota check and is only
// ever written by the quota service.
type UserQuota struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	Plan      Plan      `gorm:"type:varchar(20);not null;default:'free'" json:"plan"`
	Remaining int       `gorm:"not null;default:0" json:"remaining"`
	ResetDate string    `gorm:"type:varchar(10)" json:"reset_date"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (UserQuota) TableName() string {
	return "user_quotas"
}

// QuotaDay formats t as the UTC calendar day used in ResetDate.
func QuotaDay(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}
