package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/janavarta/news-platform/internal/store/model"
	"gorm.io/gorm"
)

type Category interface {
	InitialMigration() error
	List(ctx context.Context) (model.CategoryList, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Category, error)
	Create(ctx context.Context, category *model.Category) (*model.Category, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	// UpsertTranslation sets a single language's display name on an existing
	// category.
	UpsertTranslation(ctx context.Context, id uuid.UUID, lang, name string) error
}

type CategoryStore struct {
	db *gorm.DB
}

// Make sure we conform to Category interface
var _ Category = (*CategoryStore)(nil)

func NewCategoryStore(db *gorm.DB) Category {
	return &CategoryStore{db: db}
}

func (s *CategoryStore) InitialMigration() error {
	return s.db.AutoMigrate(&model.Category{})
}

func (s *CategoryStore) List(ctx context.Context) (model.CategoryList, error) {
	var categories model.CategoryList
	result := s.getDB(ctx).Order("name").Find(&categories)
	if result.Error != nil {
		return nil, fmt.Errorf("listing categories: %w", result.Error)
	}
	return categories, nil
}

func (s *CategoryStore) Get(ctx context.Context, id uuid.UUID) (*model.Category, error) {
	var category model.Category
	result := s.getDB(ctx).First(&category, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("querying category: %w", result.Error)
	}
	return &category, nil
}

func (s *CategoryStore) Create(ctx context.Context, category *model.Category) (*model.Category, error) {
	if category.ID == uuid.Nil {
		category.ID = uuid.New()
	}
	result := s.getDB(ctx).Create(category)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateKey
		}
		return nil, fmt.Errorf("creating category: %w", result.Error)
	}
	return category, nil
}

func (s *CategoryStore) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	result := s.getDB(ctx).Model(&model.Category{}).Where("slug = ?", slug).Count(&count)
	if result.Error != nil {
		return false, fmt.Errorf("checking category slug: %w", result.Error)
	}
	return count > 0, nil
}

func (s *CategoryStore) UpsertTranslation(ctx context.Context, id uuid.UUID, lang, name string) error {
	category, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	translations := map[string]string{}
	if category.Translations != nil {
		translations = category.Translations.Data
	}
	translations[lang] = name

	result := s.getDB(ctx).Model(&model.Category{}).
		Where("id = ?", id).
		Update("translations", model.MakeJSONField(translations))
	if result.Error != nil {
		return fmt.Errorf("updating category translations: %w", result.Error)
	}
	return nil
}

func (s *CategoryStore) getDB(ctx context.Context) *gorm.DB {
	tx := FromContext(ctx)
	if tx != nil {
		return tx
	}
	return s.db
}
