package model

import "time"

// Tenant holds the per-tenant pipeline feature flags. The tenant subsystem
// owns everything else about a tenant.
//
// AIRewriteEnabled is a pointer so an explicit false survives the insert;
// gorm drops zero-valued fields that carry a column default.
type Tenant struct {
	ID               string `gorm:"primaryKey"`
	Name             string
	AIRewriteEnabled *bool `gorm:"default:true"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// RewriteEnabled reports the flag with its default applied: a tenant row
// that never set it allows full rewriting.
func (t *Tenant) RewriteEnabled() bool {
	return t.AIRewriteEnabled == nil || *t.AIRewriteEnabled
}
