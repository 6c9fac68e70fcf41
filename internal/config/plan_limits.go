package config

import (
	"os"
	"strconv"

	"claims-api/internal/models"
)

// PlanLimitConfig maps a subscription plan to its daily evaluation quota.
type PlanLimitConfig struct {
	Limits map[models.Plan]int
}

func NewPlanLimitConfig() *PlanLimitConfig {
	return &PlanLimitConfig{
		Limits: map[models.Plan]int{
			models.FreePlan: getEnvInt("QUOTA_LIMIT_FREE", 1),
			models.ProPlan:  getEnvInt("QUOTA_LIMIT_PRO", 25),
			models.MaxPlan:  getEnvInt("QUOTA_LIMIT_MAX", 100),
		},
	}
}

// LimitFor is total: an unknown plan falls back to the free-tier limit.
func (c *PlanLimitConfig) LimitFor(plan models.Plan) int {
	if limit, ok := c.Limits[plan]; ok {
		return limit
	}
	return c.Limits[models.FreePlan]
}

func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
