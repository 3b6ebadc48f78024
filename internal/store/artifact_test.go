package store_test

import (
	"context"

	"github.com/google/uuid"
	"github.com/janavarta/news-platform/internal/config"
	st "github.com/janavarta/news-platform/internal/store"
	"github.com/janavarta/news-platform/internal/store/model"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

var _ = Describe("artifact stores", Ordered, func() {
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
		gormdb.Exec("DELETE FROM short_articles;")
		gormdb.Exec("DELETE FROM web_articles;")
		gormdb.Exec("DELETE FROM print_articles;")
	})

	Context("short articles", func() {
		It("creates and updates in place", func() {
			article, err := s.ShortArticle().Create(context.TODO(), &model.ShortArticle{
				WorkItemID: uuid.New(),
				TenantID:   "tenant-a",
				Title:      "First title",
				Body:       "First body",
			})
			Expect(err).To(BeNil())

			article.Title = "Second title"
			article.Body = "Second body"
			updated, err := s.ShortArticle().Update(context.TODO(), article)
			Expect(err).To(BeNil())
			Expect(updated.ID).To(Equal(article.ID))
			Expect(updated.Title).To(Equal("Second title"))

			count := 0
			Expect(gormdb.Raw("SELECT COUNT(*) FROM short_articles;").Scan(&count).Error).To(BeNil())
			Expect(count).To(Equal(1))
		})

		It("rejects a second artifact for the same work item", func() {
			workItemID := uuid.New()
			_, err := s.ShortArticle().Create(context.TODO(), &model.ShortArticle{
				WorkItemID: workItemID,
				Title:      "one",
			})
			Expect(err).To(BeNil())

			_, err = s.ShortArticle().Create(context.TODO(), &model.ShortArticle{
				WorkItemID: workItemID,
				Title:      "two",
			})
			Expect(err).To(MatchError(st.ErrDuplicateKey))
		})
	})

	Context("web articles", func() {
		It("round-trips the JSON columns", func() {
			article, err := s.WebArticle().Create(context.TODO(), &model.WebArticle{
				WorkItemID: uuid.New(),
				Title:      "Floods",
				Slug:       "floods",
				SEO: model.MakeJSONField(model.SEOMeta{
					Title:    "Floods in the delta",
					Keywords: []string{"floods", "delta"},
				}),
				StructuredData: model.MakeJSONField(map[string]any{"@type": "NewsArticle"}),
			})
			Expect(err).To(BeNil())

			loaded, err := s.WebArticle().Get(context.TODO(), article.ID)
			Expect(err).To(BeNil())
			Expect(loaded.SEO.Data.Keywords).To(Equal([]string{"floods", "delta"}))
			Expect(loaded.StructuredData.Data).To(HaveKeyWithValue("@type", "NewsArticle"))
		})
	})

	Context("print articles", func() {
		It("persists key points and dateline", func() {
			article, err := s.PrintArticle().Create(context.TODO(), &model.PrintArticle{
				WorkItemID: uuid.New(),
				Headline:   "Rains flood mandals",
				KeyPoints:  model.MakeJSONField([]string{"Two days of rain", "Camps opened"}),
				Dateline:   "Amalapuram, Konaseema",
				PlaceName:  "Amalapuram",
				Body:       "body",
			})
			Expect(err).To(BeNil())

			loaded, err := s.PrintArticle().Get(context.TODO(), article.ID)
			Expect(err).To(BeNil())
			Expect(loaded.KeyPoints.Data).To(HaveLen(2))
			Expect(loaded.Dateline).To(Equal("Amalapuram, Konaseema"))
		})

		It("returns ErrRecordNotFound when updating a deleted row", func() {
			_, err := s.PrintArticle().Update(context.TODO(), &model.PrintArticle{
				ID:       uuid.New(),
				Headline: "gone",
			})
			Expect(err).To(MatchError(st.ErrRecordNotFound))
		})
	})
})
