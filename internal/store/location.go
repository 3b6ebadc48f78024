package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/janavarta/news-platform/internal/store/model"
	"gorm.io/gorm"
)

type Location interface {
	InitialMigration() error
	// GetMandal loads a mandal with its parent district.
	GetMandal(ctx context.Context, id uint) (*model.Mandal, error)
}

type LocationStore struct {
	db *gorm.DB
}

// Make sure we conform to Location interface
var _ Location = (*LocationStore)(nil)

func NewLocationStore(db *gorm.DB) Location {
	return &LocationStore{db: db}
}

func (s *LocationStore) InitialMigration() error {
	return s.db.AutoMigrate(&model.State{}, &model.District{}, &model.Mandal{})
}

func (s *LocationStore) GetMandal(ctx context.Context, id uint) (*model.Mandal, error) {
	var mandal model.Mandal
	result := s.getDB(ctx).Preload("District").First(&mandal, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("querying mandal: %w", result.Error)
	}
	return &mandal, nil
}

func (s *LocationStore) getDB(ctx context.Context) *gorm.DB {
	tx := FromContext(ctx)
	if tx != nil {
		return tx
	}
	return s.db
}
