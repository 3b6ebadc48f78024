package model

import (
	"time"

	"github.com/google/uuid"
)

type ModerationStatus string

const (
	ModerationPending  ModerationStatus = "pending"
	ModerationApproved ModerationStatus = "approved"
)

// ShortArticle is the social-style condensation of a work item.
type ShortArticle struct {
	ID         uuid.UUID `gorm:"primaryKey"`
	WorkItemID uuid.UUID `gorm:"uniqueIndex;not null"`
	TenantID   string    `gorm:"index"`
	Title      string
	SubTitle   string
	Body       string `gorm:"type:text"`
	CategoryID *uuid.UUID
	MediaURLs  *JSONField[[]string] `gorm:"type:jsonb"`
	Moderation ModerationStatus     `gorm:"type:VARCHAR;size:20;default:pending"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// SEOMeta is the metadata block rendered into the web article's head.
type SEOMeta struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Keywords    []string `json:"keywords"`
}

type WebArticle struct {
	ID             uuid.UUID `gorm:"primaryKey"`
	WorkItemID     uuid.UUID `gorm:"uniqueIndex;not null"`
	TenantID       string    `gorm:"index"`
	Title          string
	Slug           string `gorm:"index"`
	BodyHTML       string `gorm:"type:text"`
	BodyText       string `gorm:"type:text"`
	SEO            *JSONField[SEOMeta]        `gorm:"type:jsonb"`
	StructuredData *JSONField[map[string]any] `gorm:"type:jsonb"`
	CanonicalURL   string
	CategoryID     *uuid.UUID
	Published      bool
	PublishedAt    *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type PrintArticle struct {
	ID         uuid.UUID `gorm:"primaryKey"`
	WorkItemID uuid.UUID `gorm:"uniqueIndex;not null"`
	TenantID   string    `gorm:"index"`
	Headline   string
	Kicker     string
	KeyPoints  *JSONField[[]string] `gorm:"type:jsonb"`
	Dateline   string
	Body       string `gorm:"type:text"`
	PlaceName  string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
