package model

import "time"

// PromptTemplate is an operator-editable prompt row. Built-in defaults apply
// when no row exists for a key.
type PromptTemplate struct {
	ID        uint   `gorm:"primaryKey"`
	Key       string `gorm:"uniqueIndex;not null"`
	Text      string `gorm:"type:text;not null"`
	UpdatedAt time.Time
}
