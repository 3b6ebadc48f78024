package store_test

import (
	"context"

	"github.com/janavarta/news-platform/internal/config"
	st "github.com/janavarta/news-platform/internal/store"
	"github.com/janavarta/news-platform/internal/store/model"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

var _ = Describe("prompt template store", Ordered, func() {
	var (
		s      st.Store
		gormdb *gorm.DB
	)

	BeforeAll(func() {
		cfg := config.NewDefault()
		db, err := st.InitDB(cfg)
		Expect(err).To(BeNil())
		gormdb = db

		s = st.NewStore(db)
		Expect(s.InitialMigration()).To(BeNil())
	})

	AfterAll(func() {
		s.Close()
	})

	AfterEach(func() {
		gormdb.Exec("DELETE FROM prompt_templates;")
	})

	It("returns ErrRecordNotFound for a missing key", func() {
		_, err := s.PromptTemplate().GetByKey(context.TODO(), "missing")
		Expect(err).To(MatchError(st.ErrRecordNotFound))
	})

	It("upserts by key", func() {
		Expect(s.PromptTemplate().Upsert(context.TODO(), &model.PromptTemplate{
			Key:  "short_draft",
			Text: "first version",
		})).To(BeNil())

		Expect(s.PromptTemplate().Upsert(context.TODO(), &model.PromptTemplate{
			Key:  "short_draft",
			Text: "second version",
		})).To(BeNil())

		row, err := s.PromptTemplate().GetByKey(context.TODO(), "short_draft")
		Expect(err).To(BeNil())
		Expect(row.Text).To(Equal("second version"))

		count := 0
		Expect(gormdb.Raw("SELECT COUNT(*) FROM prompt_templates;").Scan(&count).Error).To(BeNil())
		Expect(count).To(Equal(1))
	})
})
