package store

import (
	"context"
	"fmt"

	"github.com/janavarta/news-platform/internal/store/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Ingest interface {
	InitialMigration() error
	Upsert(ctx context.Context, status *model.IngestStatus) error
}

type IngestStore struct {
	db *gorm.DB
}

// Make sure we conform to Ingest interface
var _ Ingest = (*IngestStore)(nil)

func NewIngestStore(db *gorm.DB) Ingest {
	return &IngestStore{db: db}
}

func (s *IngestStore) InitialMigration() error {
	return s.db.AutoMigrate(&model.IngestStatus{})
}

func (s *IngestStore) Upsert(ctx context.Context, status *model.IngestStatus) error {
	result := s.getDB(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "work_item_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"tenant_id", "status", "error_code", "updated_at"}),
	}).Create(status)
	if result.Error != nil {
		return fmt.Errorf("upserting ingest status: %w", result.Error)
	}
	return nil
}

func (s *IngestStore) getDB(ctx context.Context) *gorm.DB {
	tx := FromContext(ctx)
	if tx != nil {
		return tx
	}
	return s.db
}
