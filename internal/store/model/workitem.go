package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending Status = "pending"
	StatusRunning Status = "running"
	StatusDone    Status = "done"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

// Kind is a requested derivation shape for a work item.
type Kind string

const (
	KindShort Kind = "short"
	KindWeb   Kind = "web"
	KindPrint Kind = "print"
)

// Mode selects how much rewriting the provider is asked for.
type Mode string

const (
	ModeFull    Mode = "full"
	ModeLimited Mode = "limited"
)

// Failure codes recorded on the processing state.
const (
	ErrCodeEmptyOutput   = "EMPTY_AI_OUTPUT"
	ErrCodeParseFailed   = "PARSE_FAILED"
	ErrCodeQuotaExceeded = "QUOTA_EXCEEDED"
	ErrCodePersistFailed = "PERSIST_FAILED"
	ErrCodeInvalidItem   = "INVALID_ITEM"
)

// ProcessingState is embedded into WorkItem. It is mutated exclusively by the
// pipeline orchestrator; terminal statuses are only reset by an intentional
// re-run of the whole item.
type ProcessingState struct {
	Status     Status `gorm:"column:status;type:VARCHAR;size:20;default:pending;index"`
	Mode       Mode   `gorm:"type:VARCHAR;size:20"`
	StartedAt  *time.Time
	FinishedAt *time.Time
	ErrorCode  string
	RawOutput  string `gorm:"type:text"`
	Attempts   int

	ShortArticleID *uuid.UUID
	WebArticleID   *uuid.UUID
	PrintArticleID *uuid.UUID

	ShortError string
	WebError   string
	PrintError string
}

type WorkItem struct {
	ID              uuid.UUID `gorm:"primaryKey"`
	TenantID        string    `gorm:"index;not null"`
	AuthorID        string
	Title           string
	Body            string `gorm:"type:text"`
	Language        string `gorm:"type:VARCHAR;size:8;default:te"`
	RequestedKinds  *JSONField[[]Kind]   `gorm:"type:jsonb"`
	MediaURLs       *JSONField[[]string] `gorm:"type:jsonb"`
	CategoryID      *uuid.UUID
	MandalID        *uint
	PublishIntent   bool
	RewriteDisabled bool // submission-time override forcing limited mode
	CallbackURL     string

	State ProcessingState `gorm:"embedded;embeddedPrefix:state_"`

	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time
}

type WorkItemList []WorkItem

func (w WorkItem) String() string {
	val, _ := json.Marshal(w)
	return string(val)
}

// Kinds returns the requested derivation kinds, empty when unset.
func (w WorkItem) Kinds() []Kind {
	if w.RequestedKinds == nil {
		return nil
	}
	return w.RequestedKinds.Data
}

// ArtifactID returns the stored artifact pointer for the given kind.
func (s ProcessingState) ArtifactID(kind Kind) *uuid.UUID {
	switch kind {
	case KindShort:
		return s.ShortArticleID
	case KindWeb:
		return s.WebArticleID
	case KindPrint:
		return s.PrintArticleID
	}
	return nil
}
