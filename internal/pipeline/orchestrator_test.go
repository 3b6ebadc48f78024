package pipeline_test

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

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

// stubProvider replays queued responses per purpose and records every
// prompt it was handed.
type stubProvider struct {
	mu        sync.Mutex
	responses map[string][]string
	prompts   map[string][]string
	usage     *genai.Usage
}

func newStubProvider() *stubProvider {
	return &stubProvider{
		responses: map[string][]string{},
		prompts:   map[string][]string{},
		usage:     &genai.Usage{TotalTokens: 100, Model: "stub", Provider: "stub"},
	}
}

func (p *stubProvider) queue(purpose string, texts ...string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.responses[purpose] = append(p.responses[purpose], texts...)
}

func (p *stubProvider) calls(purpose string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.prompts[purpose])
}

func (p *stubProvider) Generate(ctx context.Context, promptText string, purpose string) (*genai.Result, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.prompts[purpose] = append(p.prompts[purpose], promptText)

	queue := p.responses[purpose]
	if len(queue) == 0 {
		return &genai.Result{Text: "", Usage: p.usage}, nil
	}
	p.responses[purpose] = queue[1:]
	return &genai.Result{Text: queue[0], Usage: p.usage}, nil
}

func boolRef(b bool) *bool { return &b }

func shortDraftJSON(contentWords int, category string) string {
	parts := make([]string, contentWords)
	for i := range parts {
		parts[i] = fmt.Sprintf("word%d", i)
	}
	raw, _ := json.Marshal(map[string]string{
		"title":                 "Rains flood the delta",
		"content":               strings.Join(parts, " "),
		"suggestedCategoryName": category,
	})
	return string(raw)
}

const fullDerivationText = `WEB TITLE:
Heavy rains flood coastal mandals

WEB BODY:
Continuous rainfall over two days has flooded low-lying areas.

Relief camps were opened in three mandals.

SEO TITLE:
Coastal mandals flooded

SEO DESCRIPTION:
Two days of rain flood coastal mandals.

SEO KEYWORDS:
rains, floods, relief

PRINT HEADLINE:
Rains flood coastal mandals

KICKER:
Weather alert

KEY POINTS:
- Two days of rain
- Relief camps opened

DATELINE:
Amalapuram

PRINT BODY:
Continuous rainfall flooded low-lying areas across the coast.`

const seoOnlyJSON = `{"seoTitle":"Coastal floods","seoDescription":"Rain floods mandals.","seoKeywords":["rain","floods"]}`

var _ = Describe("orchestrator", Ordered, func() {
	var (
		s        st.Store
		gormdb   *gorm.DB
		cfg      *config.Config
		provider *stubProvider
		orch     *pipeline.Orchestrator
	)

	newItem := func(mutate func(*model.WorkItem)) *model.WorkItem {
		item := &model.WorkItem{
			TenantID: "tenant-a",
			AuthorID: "author-1",
			Title:    "Floods in the delta",
			Body:     "Continuous rain flooded several villages. Relief camps were opened.",
			Language: "te",
			RequestedKinds: model.MakeJSONField([]model.Kind{
				model.KindShort, model.KindWeb, model.KindPrint,
			}),
		}
		if mutate != nil {
			mutate(item)
		}
		created, err := s.WorkItem().Create(context.TODO(), item)
		Expect(err).To(BeNil())
		return created
	}

	BeforeAll(func() {
		cfg = config.NewDefault()
		db, err := st.InitDB(cfg)
		Expect(err).To(BeNil())
		gormdb = db

		s = st.NewStore(db)
		Expect(s.InitialMigration()).To(BeNil())

		_, err = s.Tenant().Create(context.TODO(), &model.Tenant{
			ID: "tenant-a", Name: "Tenant A", AIRewriteEnabled: boolRef(true),
		})
		Expect(err).To(BeNil())
		_, err = s.Tenant().Create(context.TODO(), &model.Tenant{
			ID: "tenant-limited", Name: "Tenant B", AIRewriteEnabled: boolRef(false),
		})
		Expect(err).To(BeNil())
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
		orch = pipeline.NewOrchestrator(s, provider, prompts, resolver, meter, notifier, cfg)
	})

	AfterEach(func() {
		for _, table := range []string{
			"work_items", "short_articles", "web_articles", "print_articles",
			"usage_records", "categories", "ingest_statuses",
		} {
			gormdb.Exec("DELETE FROM " + table + ";")
		}
	})

	Context("full mode", func() {
		It("derives all three artifacts and finishes done", func() {
			provider.queue(genai.PurposeDerivation, fullDerivationText)
			provider.queue(genai.PurposeShortDraft, shortDraftJSON(59, "Weather"))

			item := newItem(nil)
			Expect(orch.ProcessItem(context.TODO(), item)).To(BeNil())

			loaded, err := s.WorkItem().Get(context.TODO(), item.ID)
			Expect(err).To(BeNil())
			Expect(loaded.State.Status).To(Equal(model.StatusDone))
			Expect(loaded.State.Mode).To(Equal(model.ModeFull))
			Expect(loaded.State.ErrorCode).To(BeEmpty())
			Expect(loaded.State.Attempts).To(Equal(1))
			Expect(loaded.State.FinishedAt).ToNot(BeNil())
			Expect(loaded.State.RawOutput).To(ContainSubstring("Rains flood the delta"))

			short, err := s.ShortArticle().Get(context.TODO(), *loaded.State.ShortArticleID)
			Expect(err).To(BeNil())
			Expect(short.Title).To(Equal("Rains flood the delta"))
			Expect(short.CategoryID).ToNot(BeNil())

			category, err := s.Category().Get(context.TODO(), *short.CategoryID)
			Expect(err).To(BeNil())
			Expect(category.Name).To(Equal("Weather"))

			web, err := s.WebArticle().Get(context.TODO(), *loaded.State.WebArticleID)
			Expect(err).To(BeNil())
			Expect(web.Title).To(Equal("Heavy rains flood coastal mandals"))
			Expect(web.Slug).To(Equal("heavy-rains-flood-coastal-mandals"))
			Expect(web.BodyHTML).To(ContainSubstring("<p>"))
			Expect(web.BodyText).ToNot(ContainSubstring("<p>"))
			Expect(web.SEO.Data.Title).To(Equal("Coastal mandals flooded"))

			printArticle, err := s.PrintArticle().Get(context.TODO(), *loaded.State.PrintArticleID)
			Expect(err).To(BeNil())
			Expect(printArticle.Headline).To(Equal("Rains flood coastal mandals"))
			Expect(printArticle.Dateline).To(Equal("Amalapuram"))
			Expect(printArticle.KeyPoints.Data).To(HaveLen(2))

			records, err := s.Usage().ListByWorkItem(context.TODO(), item.ID)
			Expect(err).To(BeNil())
			Expect(records).To(HaveLen(2))

			Eventually(func() int {
				count := 0
				gormdb.Raw("SELECT COUNT(*) FROM ingest_statuses WHERE work_item_id = ?", item.ID).Scan(&count)
				return count
			}).Should(Equal(1))
		})

		It("serves a short-only item without a derivation call", func() {
			provider.queue(genai.PurposeShortDraft,
				shortDraftJSON(10, "Weather"),
				shortDraftJSON(60, "Weather"),
			)

			item := newItem(func(i *model.WorkItem) {
				i.RequestedKinds = model.MakeJSONField([]model.Kind{model.KindShort})
			})
			Expect(orch.ProcessItem(context.TODO(), item)).To(BeNil())

			loaded, err := s.WorkItem().Get(context.TODO(), item.ID)
			Expect(err).To(BeNil())
			Expect(loaded.State.Status).To(Equal(model.StatusDone))
			Expect(loaded.State.Attempts).To(Equal(2))
			Expect(loaded.State.ShortArticleID).ToNot(BeNil())
			Expect(loaded.State.WebArticleID).To(BeNil())
			Expect(loaded.State.RawOutput).To(ContainSubstring("Rains flood the delta"))
			Expect(provider.calls(genai.PurposeDerivation)).To(Equal(0))

			short, err := s.ShortArticle().Get(context.TODO(), *loaded.State.ShortArticleID)
			Expect(err).To(BeNil())
			Expect(strings.Fields(short.Body)).To(HaveLen(60))
		})

		It("records retry attempts for under-length short drafts", func() {
			provider.queue(genai.PurposeDerivation, fullDerivationText)
			provider.queue(genai.PurposeShortDraft,
				shortDraftJSON(10, "Weather"),
				shortDraftJSON(59, "Weather"),
			)

			item := newItem(nil)
			Expect(orch.ProcessItem(context.TODO(), item)).To(BeNil())

			loaded, err := s.WorkItem().Get(context.TODO(), item.ID)
			Expect(err).To(BeNil())
			Expect(loaded.State.Status).To(Equal(model.StatusDone))
			Expect(loaded.State.Attempts).To(Equal(2))
			Expect(provider.calls(genai.PurposeShortDraft)).To(Equal(2))
		})

		It("overwrites artifacts on a re-run instead of duplicating them", func() {
			provider.queue(genai.PurposeDerivation, fullDerivationText, fullDerivationText)
			provider.queue(genai.PurposeShortDraft,
				shortDraftJSON(59, "Weather"),
				shortDraftJSON(59, "Weather"),
			)

			item := newItem(nil)
			Expect(orch.ProcessItem(context.TODO(), item)).To(BeNil())
			first, err := s.WorkItem().Get(context.TODO(), item.ID)
			Expect(err).To(BeNil())

			Expect(orch.ProcessItem(context.TODO(), first)).To(BeNil())
			second, err := s.WorkItem().Get(context.TODO(), item.ID)
			Expect(err).To(BeNil())

			Expect(*second.State.ShortArticleID).To(Equal(*first.State.ShortArticleID))
			Expect(*second.State.WebArticleID).To(Equal(*first.State.WebArticleID))
			Expect(*second.State.PrintArticleID).To(Equal(*first.State.PrintArticleID))

			for _, table := range []string{"short_articles", "web_articles", "print_articles"} {
				count := 0
				Expect(gormdb.Raw("SELECT COUNT(*) FROM " + table + ";").Scan(&count).Error).To(BeNil())
				Expect(count).To(Equal(1))
			}
		})
	})

	Context("limited mode", func() {
		It("keeps the submitted text verbatim and skips the print artifact", func() {
			provider.queue(genai.PurposeSEOOnly, seoOnlyJSON)
			provider.queue(genai.PurposeShortDraft, shortDraftJSON(59, "Weather"))

			item := newItem(func(i *model.WorkItem) {
				i.TenantID = "tenant-limited"
			})
			Expect(orch.ProcessItem(context.TODO(), item)).To(BeNil())

			loaded, err := s.WorkItem().Get(context.TODO(), item.ID)
			Expect(err).To(BeNil())
			Expect(loaded.State.Status).To(Equal(model.StatusDone))
			Expect(loaded.State.Mode).To(Equal(model.ModeLimited))
			Expect(loaded.State.PrintArticleID).To(BeNil())
			Expect(loaded.State.PrintError).ToNot(BeEmpty())

			web, err := s.WebArticle().Get(context.TODO(), *loaded.State.WebArticleID)
			Expect(err).To(BeNil())
			Expect(web.Title).To(Equal("Floods in the delta"))
			Expect(web.BodyText).To(ContainSubstring("Continuous rain flooded several villages."))
			Expect(web.SEO.Data.Title).To(Equal("Coastal floods"))

			Expect(provider.calls(genai.PurposeDerivation)).To(Equal(0))
		})

		It("honors the submission-level rewrite override", func() {
			provider.queue(genai.PurposeSEOOnly, seoOnlyJSON)
			provider.queue(genai.PurposeShortDraft, shortDraftJSON(59, "Weather"))

			item := newItem(func(i *model.WorkItem) {
				i.RewriteDisabled = true
			})
			Expect(orch.ProcessItem(context.TODO(), item)).To(BeNil())

			loaded, err := s.WorkItem().Get(context.TODO(), item.ID)
			Expect(err).To(BeNil())
			Expect(loaded.State.Mode).To(Equal(model.ModeLimited))
		})
	})

	Context("failures", func() {
		It("fails with EMPTY_AI_OUTPUT when the provider returns nothing", func() {
			item := newItem(nil)
			Expect(orch.ProcessItem(context.TODO(), item)).To(BeNil())

			loaded, err := s.WorkItem().Get(context.TODO(), item.ID)
			Expect(err).To(BeNil())
			Expect(loaded.State.Status).To(Equal(model.StatusFailed))
			Expect(loaded.State.ErrorCode).To(Equal(model.ErrCodeEmptyOutput))
		})

		It("fails with PARSE_FAILED on an unusable derivation", func() {
			provider.queue(genai.PurposeDerivation, "I am sorry, I cannot do that.")

			item := newItem(nil)
			Expect(orch.ProcessItem(context.TODO(), item)).To(BeNil())

			loaded, err := s.WorkItem().Get(context.TODO(), item.ID)
			Expect(err).To(BeNil())
			Expect(loaded.State.Status).To(Equal(model.StatusFailed))
			Expect(loaded.State.ErrorCode).To(Equal(model.ErrCodeParseFailed))
			Expect(loaded.State.RawOutput).To(ContainSubstring("cannot do that"))
		})

		It("rejects a malformed work item without touching the provider", func() {
			item := newItem(func(i *model.WorkItem) {
				i.Body = ""
			})
			Expect(orch.ProcessItem(context.TODO(), item)).To(BeNil())

			loaded, err := s.WorkItem().Get(context.TODO(), item.ID)
			Expect(err).To(BeNil())
			Expect(loaded.State.Status).To(Equal(model.StatusFailed))
			Expect(loaded.State.ErrorCode).To(Equal(model.ErrCodeInvalidItem))
			Expect(provider.calls(genai.PurposeDerivation)).To(Equal(0))
		})
	})

	Context("quota", func() {
		It("skips the item when the tenant is over budget", func() {
			_, err := s.Usage().Create(context.TODO(), &model.UsageRecord{
				TenantID:    "tenant-a",
				TotalTokens: int(cfg.Pipeline.MonthlyTokenQuota),
			})
			Expect(err).To(BeNil())

			item := newItem(nil)
			Expect(orch.ProcessItem(context.TODO(), item)).To(BeNil())

			loaded, err := s.WorkItem().Get(context.TODO(), item.ID)
			Expect(err).To(BeNil())
			Expect(loaded.State.Status).To(Equal(model.StatusSkipped))
			Expect(loaded.State.ErrorCode).To(Equal(model.ErrCodeQuotaExceeded))
			Expect(provider.calls(genai.PurposeDerivation)).To(Equal(0))
			Expect(provider.calls(genai.PurposeShortDraft)).To(Equal(0))
		})
	})
})
