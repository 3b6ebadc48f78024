package pipeline_test

import (
	"context"

	"github.com/janavarta/news-platform/internal/config"
	"github.com/janavarta/news-platform/internal/genai"
	"github.com/janavarta/news-platform/internal/notify"
	"github.com/janavarta/news-platform/internal/pipeline"
	"github.com/janavarta/news-platform/internal/prompt"
	"github.com/janavarta/news-platform/internal/quota"
	st "github.com/janavarta/news-platform/internal/store"
	"github.com/janavarta/news-platform/internal/store/model"
	"github.com/janavarta/news-platform/internal/taxonomy"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

var _ = Describe("runner", Ordered, func() {
	var (
		s        st.Store
		gormdb   *gorm.DB
		cfg      *config.Config
		provider *stubProvider
		runner   *pipeline.Runner
	)

	BeforeAll(func() {
		cfg = config.NewDefault()
		db, err := st.InitDB(cfg)
		Expect(err).To(BeNil())
		gormdb = db

		s = st.NewStore(db)
		Expect(s.InitialMigration()).To(BeNil())
	})

	AfterAll(func() {
		s.Close()
	})

	BeforeEach(func() {
		provider = newStubProvider()
		prompts := prompt.NewStore(s.PromptTemplate(), cfg.Pipeline.TemplateCacheTTL, nil)
		resolver := taxonomy.NewResolver(s.Category(), nil, taxonomy.Options{
			SimilarityThreshold: cfg.Pipeline.SimilarityThreshold,
			AutoCreate:          cfg.Pipeline.CategoryAutoCreate,
			MinChars:            cfg.Pipeline.CategoryMinChars,
			MaxChars:            cfg.Pipeline.CategoryMaxChars,
			MaxWords:            cfg.Pipeline.CategoryMaxWords,
			Languages:           cfg.Pipeline.Languages,
		})
		meter := quota.NewMeter(s.Usage(), cfg.Pipeline.MonthlyTokenQuota)
		notifier := notify.NewNotifier(cfg.Pipeline.CallbackTimeout)
		orch := pipeline.NewOrchestrator(s, provider, prompts, resolver, meter, notifier, cfg)
		runner = pipeline.NewRunner(s, orch, cfg)
	})

	AfterEach(func() {
		for _, table := range []string{
			"work_items", "short_articles", "web_articles", "print_articles",
			"usage_records", "categories", "ingest_statuses",
		} {
			gormdb.Exec("DELETE FROM " + table + ";")
		}
	})

	It("drains a batch of pending items", func() {
		provider.queue(genai.PurposeDerivation, fullDerivationText, fullDerivationText)
		provider.queue(genai.PurposeShortDraft,
			shortDraftJSON(59, "Weather"),
			shortDraftJSON(59, "Weather"),
		)

		var ids []interface{}
		for i := 0; i < 2; i++ {
			item, err := s.WorkItem().Create(context.TODO(), &model.WorkItem{
				TenantID: "tenant-a",
				Title:    "Floods in the delta",
				Body:     "Continuous rain flooded several villages.",
				Language: "te",
				RequestedKinds: model.MakeJSONField([]model.Kind{
					model.KindShort, model.KindWeb,
				}),
			})
			Expect(err).To(BeNil())
			ids = append(ids, item.ID)
		}

		Expect(runner.RunBatch(context.TODO())).To(Equal(2))

		for _, id := range ids {
			count := 0
			Expect(gormdb.Raw(
				"SELECT COUNT(*) FROM work_items WHERE id = ? AND state_status = ?", id, model.StatusDone,
			).Scan(&count).Error).To(BeNil())
			Expect(count).To(Equal(1))
		}
	})

	It("returns zero when nothing is eligible", func() {
		Expect(runner.RunBatch(context.TODO())).To(Equal(0))
	})
})
