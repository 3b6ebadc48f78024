package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Category is a content taxonomy entry. Translations maps a language code to
// the display name in that language.
type Category struct {
	ID           uuid.UUID `gorm:"primaryKey"`
	Name         string    `gorm:"not null"`
	Slug         string    `gorm:"uniqueIndex;not null"`
	Translations *JSONField[map[string]string] `gorm:"type:jsonb"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type CategoryList []Category

func (c Category) String() string {
	val, _ := json.Marshal(c)
	return string(val)
}

// DisplayNames returns every known display name for the category, canonical
// name included.
func (c Category) DisplayNames() []string {
	names := []string{c.Name}
	if c.Translations == nil {
		return names
	}
	for _, name := range c.Translations.Data {
		if name != "" && name != c.Name {
			names = append(names, name)
		}
	}
	return names
}
