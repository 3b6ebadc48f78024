package model

import (
	"time"

	"github.com/google/uuid"
)

// IngestStatus mirrors a work item's terminal pipeline state for the external
// ingestion tracker. Best-effort denormalization; the work item row stays the
// source of truth.
type IngestStatus struct {
	WorkItemID uuid.UUID `gorm:"primaryKey"`
	TenantID   string    `gorm:"index"`
	Status     Status    `gorm:"type:VARCHAR;size:20"`
	ErrorCode  string
	UpdatedAt  time.Time
}
