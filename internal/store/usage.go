package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/janavarta/news-platform/internal/store/model"
	"gorm.io/gorm"
)

type Usage interface {
	InitialMigration() error
	Create(ctx context.Context, record *model.UsageRecord) (*model.UsageRecord, error)
	// SumTokensSince aggregates total tokens consumed by a tenant since the
	// given time.
	SumTokensSince(ctx context.Context, tenantID string, since time.Time) (int64, error)
	ListByWorkItem(ctx context.Context, workItemID uuid.UUID) ([]model.UsageRecord, error)
}

type UsageStore struct {
	db *gorm.DB
}

// Make sure we conform to Usage interface
var _ Usage = (*UsageStore)(nil)

func NewUsageStore(db *gorm.DB) Usage {
	return &UsageStore{db: db}
}

func (s *UsageStore) InitialMigration() error {
	return s.db.AutoMigrate(&model.UsageRecord{})
}

func (s *UsageStore) Create(ctx context.Context, record *model.UsageRecord) (*model.UsageRecord, error) {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	result := s.getDB(ctx).Create(record)
	if result.Error != nil {
		return nil, fmt.Errorf("creating usage record: %w", result.Error)
	}
	return record, nil
}

func (s *UsageStore) SumTokensSince(ctx context.Context, tenantID string, since time.Time) (int64, error) {
	var total *int64
	result := s.getDB(ctx).Model(&model.UsageRecord{}).
		Where("tenant_id = ? AND created_at >= ?", tenantID, since).
		Select("SUM(total_tokens)").
		Scan(&total)
	if result.Error != nil {
		return 0, fmt.Errorf("aggregating usage: %w", result.Error)
	}
	if total == nil {
		return 0, nil
	}
	return *total, nil
}

func (s *UsageStore) ListByWorkItem(ctx context.Context, workItemID uuid.UUID) ([]model.UsageRecord, error) {
	var records []model.UsageRecord
	result := s.getDB(ctx).Where("work_item_id = ?", workItemID).Order("created_at").Find(&records)
	if result.Error != nil {
		return nil, fmt.Errorf("listing usage records: %w", result.Error)
	}
	return records, nil
}

func (s *UsageStore) getDB(ctx context.Context) *gorm.DB {
	tx := FromContext(ctx)
	if tx != nil {
		return tx
	}
	return s.db
}
