package model

// Location taxonomy: states own districts, districts own mandals. The
// pipeline only reads these to resolve a work item's mandal reference into a
// dateline; lifecycle is managed by the taxonomy subsystem.

type State struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"uniqueIndex;not null"`
	Districts []District `gorm:"constraint:OnDelete:CASCADE;"`
}

type District struct {
	ID      uint   `gorm:"primaryKey"`
	Name    string `gorm:"not null"`
	StateID uint   `gorm:"index;not null"`
	Mandals []Mandal `gorm:"constraint:OnDelete:CASCADE;"`
}

type Mandal struct {
	ID         uint   `gorm:"primaryKey"`
	Name       string `gorm:"not null"`
	DistrictID uint   `gorm:"index;not null"`
	District   District
}
