package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/janavarta/news-platform/internal/store/model"
	"gorm.io/gorm"
)

type Tenant interface {
	InitialMigration() error
	Get(ctx context.Context, id string) (*model.Tenant, error)
	Create(ctx context.Context, tenant *model.Tenant) (*model.Tenant, error)
}

type TenantStore struct {
	db *gorm.DB
}

// Make sure we conform to Tenant interface
var _ Tenant = (*TenantStore)(nil)

func NewTenantStore(db *gorm.DB) Tenant {
	return &TenantStore{db: db}
}

func (s *TenantStore) InitialMigration() error {
	return s.db.AutoMigrate(&model.Tenant{})
}

func (s *TenantStore) Get(ctx context.Context, id string) (*model.Tenant, error) {
	var tenant model.Tenant
	result := s.getDB(ctx).First(&tenant, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("querying tenant: %w", result.Error)
	}
	return &tenant, nil
}

func (s *TenantStore) Create(ctx context.Context, tenant *model.Tenant) (*model.Tenant, error) {
	result := s.getDB(ctx).Create(tenant)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateKey
		}
		return nil, fmt.Errorf("creating tenant: %w", result.Error)
	}
	return tenant, nil
}

func (s *TenantStore) getDB(ctx context.Context) *gorm.DB {
	tx := FromContext(ctx)
	if tx != nil {
		return tx
	}
	return s.db
}
