package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/janavarta/news-platform/internal/store/model"
	"gorm.io/gorm"
)

// The artifact repositories share the create-or-update contract: Create
// inserts a new row, Update replaces the mutable columns of an existing one.
// The orchestrator decides which to call based on the artifact pointer stored
// on the work item's processing state.

type ShortArticle interface {
	InitialMigration() error
	Get(ctx context.Context, id uuid.UUID) (*model.ShortArticle, error)
	Create(ctx context.Context, article *model.ShortArticle) (*model.ShortArticle, error)
	Update(ctx context.Context, article *model.ShortArticle) (*model.ShortArticle, error)
}

type WebArticle interface {
	InitialMigration() error
	Get(ctx context.Context, id uuid.UUID) (*model.WebArticle, error)
	Create(ctx context.Context, article *model.WebArticle) (*model.WebArticle, error)
	Update(ctx context.Context, article *model.WebArticle) (*model.WebArticle, error)
}

type PrintArticle interface {
	InitialMigration() error
	Get(ctx context.Context, id uuid.UUID) (*model.PrintArticle, error)
	Create(ctx context.Context, article *model.PrintArticle) (*model.PrintArticle, error)
	Update(ctx context.Context, article *model.PrintArticle) (*model.PrintArticle, error)
}

type ShortArticleStore struct {
	db *gorm.DB
}

var _ ShortArticle = (*ShortArticleStore)(nil)

func NewShortArticleStore(db *gorm.DB) ShortArticle {
	return &ShortArticleStore{db: db}
}

func (s *ShortArticleStore) InitialMigration() error {
	return s.db.AutoMigrate(&model.ShortArticle{})
}

func (s *ShortArticleStore) Get(ctx context.Context, id uuid.UUID) (*model.ShortArticle, error) {
	var article model.ShortArticle
	if err := first(s.getDB(ctx), &article, id); err != nil {
		return nil, err
	}
	return &article, nil
}

func (s *ShortArticleStore) Create(ctx context.Context, article *model.ShortArticle) (*model.ShortArticle, error) {
	if article.ID == uuid.Nil {
		article.ID = uuid.New()
	}
	result := s.getDB(ctx).Create(article)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateKey
		}
		return nil, fmt.Errorf("creating short article: %w", result.Error)
	}
	return article, nil
}

func (s *ShortArticleStore) Update(ctx context.Context, article *model.ShortArticle) (*model.ShortArticle, error) {
	result := s.getDB(ctx).Model(article).
		Select("Title", "SubTitle", "Body", "CategoryID", "MediaURLs").
		Updates(article)
	if result.Error != nil {
		return nil, fmt.Errorf("updating short article: %w", result.Error)
	}
	return s.Get(ctx, article.ID)
}

func (s *ShortArticleStore) getDB(ctx context.Context) *gorm.DB {
	if tx := FromContext(ctx); tx != nil {
		return tx
	}
	return s.db
}

type WebArticleStore struct {
	db *gorm.DB
}

var _ WebArticle = (*WebArticleStore)(nil)

func NewWebArticleStore(db *gorm.DB) WebArticle {
	return &WebArticleStore{db: db}
}

func (s *WebArticleStore) InitialMigration() error {
	return s.db.AutoMigrate(&model.WebArticle{})
}

func (s *WebArticleStore) Get(ctx context.Context, id uuid.UUID) (*model.WebArticle, error) {
	var article model.WebArticle
	if err := first(s.getDB(ctx), &article, id); err != nil {
		return nil, err
	}
	return &article, nil
}

func (s *WebArticleStore) Create(ctx context.Context, article *model.WebArticle) (*model.WebArticle, error) {
	if article.ID == uuid.Nil {
		article.ID = uuid.New()
	}
	result := s.getDB(ctx).Create(article)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateKey
		}
		return nil, fmt.Errorf("creating web article: %w", result.Error)
	}
	return article, nil
}

func (s *WebArticleStore) Update(ctx context.Context, article *model.WebArticle) (*model.WebArticle, error) {
	result := s.getDB(ctx).Model(article).
		Select("Title", "Slug", "BodyHTML", "BodyText", "SEO", "StructuredData",
			"CanonicalURL", "CategoryID", "Published", "PublishedAt").
		Updates(article)
	if result.Error != nil {
		return nil, fmt.Errorf("updating web article: %w", result.Error)
	}
	return s.Get(ctx, article.ID)
}

func (s *WebArticleStore) getDB(ctx context.Context) *gorm.DB {
	if tx := FromContext(ctx); tx != nil {
		return tx
	}
	return s.db
}

type PrintArticleStore struct {
	db *gorm.DB
}

var _ PrintArticle = (*PrintArticleStore)(nil)

func NewPrintArticleStore(db *gorm.DB) PrintArticle {
	return &PrintArticleStore{db: db}
}

func (s *PrintArticleStore) InitialMigration() error {
	return s.db.AutoMigrate(&model.PrintArticle{})
}

func (s *PrintArticleStore) Get(ctx context.Context, id uuid.UUID) (*model.PrintArticle, error) {
	var article model.PrintArticle
	if err := first(s.getDB(ctx), &article, id); err != nil {
		return nil, err
	}
	return &article, nil
}

func (s *PrintArticleStore) Create(ctx context.Context, article *model.PrintArticle) (*model.PrintArticle, error) {
	if article.ID == uuid.Nil {
		article.ID = uuid.New()
	}
	result := s.getDB(ctx).Create(article)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateKey
		}
		return nil, fmt.Errorf("creating print article: %w", result.Error)
	}
	return article, nil
}

func (s *PrintArticleStore) Update(ctx context.Context, article *model.PrintArticle) (*model.PrintArticle, error) {
	result := s.getDB(ctx).Model(article).
		Select("Headline", "Kicker", "KeyPoints", "Dateline", "Body", "PlaceName").
		Updates(article)
	if result.Error != nil {
		return nil, fmt.Errorf("updating print article: %w", result.Error)
	}
	return s.Get(ctx, article.ID)
}

func (s *PrintArticleStore) getDB(ctx context.Context) *gorm.DB {
	if tx := FromContext(ctx); tx != nil {
		return tx
	}
	return s.db
}

func first(db *gorm.DB, dest any, id uuid.UUID) error {
	result := db.First(dest, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return ErrRecordNotFound
		}
		return fmt.Errorf("querying record: %w", result.Error)
	}
	return nil
}
