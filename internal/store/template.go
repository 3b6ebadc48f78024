package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/janavarta/news-platform/internal/store/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PromptTemplate interface {
	InitialMigration() error
	GetByKey(ctx context.Context, key string) (*model.PromptTemplate, error)
	Upsert(ctx context.Context, template *model.PromptTemplate) error
}

type PromptTemplateStore struct {
	db *gorm.DB
}

// Make sure we conform to PromptTemplate interface
var _ PromptTemplate = (*PromptTemplateStore)(nil)

func NewPromptTemplateStore(db *gorm.DB) PromptTemplate {
	return &PromptTemplateStore{db: db}
}

func (s *PromptTemplateStore) InitialMigration() error {
	return s.db.AutoMigrate(&model.PromptTemplate{})
}

func (s *PromptTemplateStore) GetByKey(ctx context.Context, key string) (*model.PromptTemplate, error) {
	var template model.PromptTemplate
	result := s.getDB(ctx).First(&template, "key = ?", key)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("querying prompt template: %w", result.Error)
	}
	return &template, nil
}

func (s *PromptTemplateStore) Upsert(ctx context.Context, template *model.PromptTemplate) error {
	result := s.getDB(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"text", "updated_at"}),
	}).Create(template)
	if result.Error != nil {
		return fmt.Errorf("upserting prompt template: %w", result.Error)
	}
	return nil
}

func (s *PromptTemplateStore) getDB(ctx context.Context) *gorm.DB {
	tx := FromContext(ctx)
	if tx != nil {
		return tx
	}
	return s.db
}
