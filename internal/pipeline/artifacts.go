package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/janavarta/news-platform/internal/draft"
	"github.com/janavarta/news-platform/internal/genai"
	"github.com/janavarta/news-platform/internal/parse"
	"github.com/janavarta/news-platform/internal/prompt"
	"github.com/janavarta/news-platform/internal/store"
	"github.com/janavarta/news-platform/internal/store/model"
	"github.com/janavarta/news-platform/internal/taxonomy"
	"github.com/janavarta/news-platform/pkg/metrics"
)

// Print layout limits. These mirror what the derivation prompt asks for and
// are enforced here because the provider does not always comply.
const (
	maxHeadlineWords  = 6
	maxKeyPoints      = 5
	maxKeyPointWords  = 5
	maxPrintBodyWords = 200
)

// persistShort runs the short-form retry loop, resolves the category, and
// writes the short article. Failures degrade to the per-kind error string.
func (o *Orchestrator) persistShort(ctx context.Context, item *model.WorkItem, state *model.ProcessingState) {
	opts := draft.Options{
		MinWords:        o.cfg.Pipeline.DraftMinWords,
		MaxWords:        o.cfg.Pipeline.DraftMaxWords,
		MaxAttempts:     o.cfg.Pipeline.DraftMaxAttempts,
		MaxTitleChars:   o.cfg.Pipeline.DraftMaxTitleChars,
		DefaultCategory: o.cfg.Pipeline.DefaultCategoryName,
	}

	basePrompt := prompt.Render(o.prompts.Get(ctx, prompt.KeyShortDraft), map[string]string{
		"title":     item.Title,
		"body":      item.Body,
		"language":  item.Language,
		"min_words": strconv.Itoa(opts.MinWords),
		"max_words": strconv.Itoa(opts.MaxWords),
	})

	gen := func(ctx context.Context, promptText string) (string, error) {
		return o.generate(ctx, item, promptText, genai.PurposeShortDraft)
	}

	d := draft.Generate(ctx, item.Body, basePrompt, gen, opts)
	state.Attempts = d.Attempts
	if d.RawOutput != "" {
		state.RawOutput = d.RawOutput
	}
	if d.FallbackUsed {
		metrics.IncreaseFallbackDraftsTotal()
	}

	categoryID := o.resolveCategory(ctx, item, d.CategoryName)
	if categoryID == nil {
		state.ShortError = "no category available for short article"
		metrics.IncreaseArtifactFailuresTotal(string(model.KindShort))
		return
	}

	article := &model.ShortArticle{
		WorkItemID: item.ID,
		TenantID:   item.TenantID,
		Title:      d.Title,
		SubTitle:   d.SubTitle,
		Body:       d.Body,
		CategoryID: categoryID,
		MediaURLs:  item.MediaURLs,
	}

	saved, err := o.upsertShort(ctx, state.ShortArticleID, article)
	if err != nil {
		state.ShortError = fmt.Sprintf("persisting short article: %v", err)
		metrics.IncreaseArtifactFailuresTotal(string(model.KindShort))
		return
	}
	state.ShortArticleID = &saved.ID
}

// resolveCategory prefers the AI suggestion, then the submission's category,
// then the default category, which is created on first use.
func (o *Orchestrator) resolveCategory(ctx context.Context, item *model.WorkItem, suggested string) *uuid.UUID {
	match, err := o.resolver.ResolveOrCreate(ctx, suggested, item.Language)
	if err != nil {
		o.log.Warnf("category resolution for %q failed: %v", suggested, err)
	}
	if match != nil {
		id := match.ID
		return &id
	}

	if item.CategoryID != nil {
		return item.CategoryID
	}

	match, err = o.resolver.ResolveOrCreate(ctx, o.cfg.Pipeline.DefaultCategoryName, item.Language)
	if err != nil {
		o.log.Warnf("default category resolution failed: %v", err)
	}
	if match != nil {
		id := match.ID
		return &id
	}
	return nil
}

func (o *Orchestrator) persistWeb(ctx context.Context, item *model.WorkItem, state *model.ProcessingState, full *parse.FullResponse, seoBlock *parse.SEOBlock) {
	title := strings.TrimSpace(item.Title)
	bodySource := item.Body

	var seo model.SEOMeta
	if full != nil {
		title = full.WebTitle
		bodySource = full.WebBody
		seo = model.SEOMeta{
			Title:       full.SEO.Title,
			Description: full.SEO.Description,
			Keywords:    full.SEO.Keywords,
		}
	} else if seoBlock != nil {
		seo = model.SEOMeta{
			Title:       seoBlock.Title,
			Description: seoBlock.Description,
			Keywords:    seoBlock.Keywords,
		}
	}
	if seo.Title == "" {
		seo.Title = title
	}

	bodyHTML := renderParagraphs(bodySource)
	bodyText := plainText(bodyHTML)
	slug := taxonomy.Slugify(title)

	article := &model.WebArticle{
		WorkItemID:     item.ID,
		TenantID:       item.TenantID,
		Title:          title,
		Slug:           slug,
		BodyHTML:       bodyHTML,
		BodyText:       bodyText,
		SEO:            model.MakeJSONField(seo),
		StructuredData: model.MakeJSONField(structuredData(title, seo, item)),
		CanonicalURL:   "/news/" + slug,
		CategoryID:     item.CategoryID,
	}
	if item.PublishIntent {
		now := time.Now()
		article.Published = true
		article.PublishedAt = &now
	}

	saved, err := o.upsertWeb(ctx, state.WebArticleID, article)
	if err != nil {
		state.WebError = fmt.Sprintf("persisting web article: %v", err)
		metrics.IncreaseArtifactFailuresTotal(string(model.KindWeb))
		return
	}
	state.WebArticleID = &saved.ID
}

func (o *Orchestrator) persistPrint(ctx context.Context, item *model.WorkItem, state *model.ProcessingState, full *parse.FullResponse) {
	if full == nil {
		state.PrintError = "print derivation skipped in limited mode"
		return
	}

	headline := truncateToWords(strings.TrimSpace(full.Print.Headline), maxHeadlineWords)
	if headline == "" {
		headline = truncateToWords(item.Title, maxHeadlineWords)
	}

	points := full.Print.KeyPoints
	if len(points) > maxKeyPoints {
		points = points[:maxKeyPoints]
	}
	for i := range points {
		points[i] = truncateToWords(points[i], maxKeyPointWords)
	}

	body := truncateToWords(plainText(full.Print.Body), maxPrintBodyWords)
	if body == "" {
		body = truncateToWords(plainText(item.Body), maxPrintBodyWords)
	}

	dateline := strings.TrimSpace(full.Print.Dateline)
	place := dateline
	if item.MandalID != nil {
		mandal, err := o.store.Location().GetMandal(ctx, *item.MandalID)
		if err != nil {
			o.log.Warnf("mandal %d lookup failed: %v", *item.MandalID, err)
		} else {
			place = mandal.Name
			dateline = fmt.Sprintf("%s, %s", mandal.Name, mandal.District.Name)
		}
	}

	article := &model.PrintArticle{
		WorkItemID: item.ID,
		TenantID:   item.TenantID,
		Headline:   headline,
		Kicker:     strings.TrimSpace(full.Print.Kicker),
		KeyPoints:  model.MakeJSONField(points),
		Dateline:   dateline,
		Body:       body,
		PlaceName:  place,
	}

	saved, err := o.upsertPrint(ctx, state.PrintArticleID, article)
	if err != nil {
		state.PrintError = fmt.Sprintf("persisting print article: %v", err)
		metrics.IncreaseArtifactFailuresTotal(string(model.KindPrint))
		return
	}
	state.PrintArticleID = &saved.ID
}

// The upsert helpers reuse the artifact ID recorded on the processing state
// so a re-run overwrites its previous output instead of duplicating it. An ID
// pointing at a deleted row falls back to a fresh insert.

func (o *Orchestrator) upsertShort(ctx context.Context, existing *uuid.UUID, article *model.ShortArticle) (*model.ShortArticle, error) {
	if existing != nil {
		article.ID = *existing
		saved, err := o.store.ShortArticle().Update(ctx, article)
		if !errors.Is(err, store.ErrRecordNotFound) {
			return saved, err
		}
		article.ID = uuid.Nil
	}
	return o.store.ShortArticle().Create(ctx, article)
}

func (o *Orchestrator) upsertWeb(ctx context.Context, existing *uuid.UUID, article *model.WebArticle) (*model.WebArticle, error) {
	if existing != nil {
		article.ID = *existing
		saved, err := o.store.WebArticle().Update(ctx, article)
		if !errors.Is(err, store.ErrRecordNotFound) {
			return saved, err
		}
		article.ID = uuid.Nil
	}
	return o.store.WebArticle().Create(ctx, article)
}

func (o *Orchestrator) upsertPrint(ctx context.Context, existing *uuid.UUID, article *model.PrintArticle) (*model.PrintArticle, error) {
	if existing != nil {
		article.ID = *existing
		saved, err := o.store.PrintArticle().Update(ctx, article)
		if !errors.Is(err, store.ErrRecordNotFound) {
			return saved, err
		}
		article.ID = uuid.Nil
	}
	return o.store.PrintArticle().Create(ctx, article)
}

// structuredData builds the schema.org NewsArticle block embedded in the web
// article's page.
func structuredData(title string, seo model.SEOMeta, item *model.WorkItem) map[string]any {
	data := map[string]any{
		"@context":   "https://schema.org",
		"@type":      "NewsArticle",
		"headline":   title,
		"inLanguage": item.Language,
	}
	if seo.Description != "" {
		data["description"] = seo.Description
	}
	if len(seo.Keywords) > 0 {
		data["keywords"] = strings.Join(seo.Keywords, ", ")
	}
	if item.PublishIntent {
		data["datePublished"] = time.Now().UTC().Format(time.RFC3339)
	}
	return data
}
