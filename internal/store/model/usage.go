package model

import (
	"time"

	"github.com/google/uuid"
)

// UsageRecord is one row per provider invocation. Append-only; monthly quota
// checks aggregate over it.
type UsageRecord struct {
	ID               uuid.UUID `gorm:"primaryKey"`
	TenantID         string    `gorm:"index;not null"`
	WorkItemID       uuid.UUID `gorm:"index"`
	Purpose          string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
	Model            string
	Provider         string
	CreatedAt        time.Time `gorm:"index"`
}
