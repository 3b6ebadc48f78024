package store

import (
	"context"

	"gorm.io/gorm"
)

type Store interface {
	NewTransactionContext(ctx context.Context) (context.Context, error)
	WorkItem() WorkItem
	Category() Category
	Location() Location
	ShortArticle() ShortArticle
	WebArticle() WebArticle
	PrintArticle() PrintArticle
	Usage() Usage
	PromptTemplate() PromptTemplate
	Tenant() Tenant
	Ingest() Ingest
	InitialMigration() error
	Close() error
}

type DataStore struct {
	db           *gorm.DB
	workItem     WorkItem
	category     Category
	location     Location
	shortArticle ShortArticle
	webArticle   WebArticle
	printArticle PrintArticle
	usage        Usage
	template     PromptTemplate
	tenant       Tenant
	ingest       Ingest
}

func NewStore(db *gorm.DB) Store {
	return &DataStore{
		db:           db,
		workItem:     NewWorkItemStore(db),
		category:     NewCategoryStore(db),
		location:     NewLocationStore(db),
		shortArticle: NewShortArticleStore(db),
		webArticle:   NewWebArticleStore(db),
		printArticle: NewPrintArticleStore(db),
		usage:        NewUsageStore(db),
		template:     NewPromptTemplateStore(db),
		tenant:       NewTenantStore(db),
		ingest:       NewIngestStore(db),
	}
}

func (s *DataStore) NewTransactionContext(ctx context.Context) (context.Context, error) {
	return newTransactionContext(ctx, s.db)
}

func (s *DataStore) WorkItem() WorkItem {
	return s.workItem
}

func (s *DataStore) Category() Category {
	return s.category
}

func (s *DataStore) Location() Location {
	return s.location
}

func (s *DataStore) ShortArticle() ShortArticle {
	return s.shortArticle
}

func (s *DataStore) WebArticle() WebArticle {
	return s.webArticle
}

func (s *DataStore) PrintArticle() PrintArticle {
	return s.printArticle
}

func (s *DataStore) Usage() Usage {
	return s.usage
}

func (s *DataStore) PromptTemplate() PromptTemplate {
	return s.template
}

func (s *DataStore) Tenant() Tenant {
	return s.tenant
}

func (s *DataStore) Ingest() Ingest {
	return s.ingest
}

func (s *DataStore) InitialMigration() error {
	for _, m := range []interface{ InitialMigration() error }{
		s.workItem,
		s.category,
		s.location,
		s.shortArticle,
		s.webArticle,
		s.printArticle,
		s.usage,
		s.template,
		s.tenant,
		s.ingest,
	} {
		if err := m.InitialMigration(); err != nil {
			return err
		}
	}
	return nil
}

func (s *DataStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
