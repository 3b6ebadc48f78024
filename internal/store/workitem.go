package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/janavarta/news-platform/internal/store/model"
	"gorm.io/gorm"
)

type WorkItem interface {
	InitialMigration() error
	Get(ctx context.Context, id uuid.UUID) (*model.WorkItem, error)
	Create(ctx context.Context, item *model.WorkItem) (*model.WorkItem, error)
	// ListEligible returns items that still need processing, oldest first.
	// Skipped items stay eligible so a quota block lifts once the window
	// rolls over.
	ListEligible(ctx context.Context, limit int) (model.WorkItemList, error)
	UpdateState(ctx context.Context, id uuid.UUID, state model.ProcessingState) (*model.WorkItem, error)
}

type WorkItemStore struct {
	db *gorm.DB
}

// Make sure we conform to WorkItem interface
var _ WorkItem = (*WorkItemStore)(nil)

func NewWorkItemStore(db *gorm.DB) WorkItem {
	return &WorkItemStore{db: db}
}

func (s *WorkItemStore) InitialMigration() error {
	return s.db.AutoMigrate(&model.WorkItem{})
}

func (s *WorkItemStore) Get(ctx context.Context, id uuid.UUID) (*model.WorkItem, error) {
	var item model.WorkItem
	result := s.getDB(ctx).First(&item, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("querying work item: %w", result.Error)
	}
	return &item, nil
}

func (s *WorkItemStore) Create(ctx context.Context, item *model.WorkItem) (*model.WorkItem, error) {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	result := s.getDB(ctx).Create(item)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateKey
		}
		return nil, fmt.Errorf("creating work item: %w", result.Error)
	}
	return item, nil
}

func (s *WorkItemStore) ListEligible(ctx context.Context, limit int) (model.WorkItemList, error) {
	var items model.WorkItemList
	result := s.getDB(ctx).
		Where("state_status IN ?", []model.Status{model.StatusPending, model.StatusFailed, model.StatusSkipped}).
		Order("created_at").
		Limit(limit).
		Find(&items)
	if result.Error != nil {
		return nil, fmt.Errorf("listing eligible work items: %w", result.Error)
	}
	return items, nil
}

func (s *WorkItemStore) UpdateState(ctx context.Context, id uuid.UUID, state model.ProcessingState) (*model.WorkItem, error) {
	updates := map[string]any{
		"state_status":           state.Status,
		"state_mode":             state.Mode,
		"state_started_at":       state.StartedAt,
		"state_finished_at":      state.FinishedAt,
		"state_error_code":       state.ErrorCode,
		"state_raw_output":       state.RawOutput,
		"state_attempts":         state.Attempts,
		"state_short_article_id": state.ShortArticleID,
		"state_web_article_id":   state.WebArticleID,
		"state_print_article_id": state.PrintArticleID,
		"state_short_error":      state.ShortError,
		"state_web_error":        state.WebError,
		"state_print_error":      state.PrintError,
	}
	result := s.getDB(ctx).Model(&model.WorkItem{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return nil, fmt.Errorf("updating work item state: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrRecordNotFound
	}
	return s.Get(ctx, id)
}

func (s *WorkItemStore) getDB(ctx context.Context) *gorm.DB {
	tx := FromContext(ctx)
	if tx != nil {
		return tx
	}
	return s.db
}
