// Package pipeline drives work items through the content derivation state
// machine: mode selection, quota enforcement, provider calls, parsing, and
// idempotent artifact persistence.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/janavarta/news-platform/internal/config"
	"github.com/janavarta/news-platform/internal/genai"
	"github.com/janavarta/news-platform/internal/notify"
	"github.com/janavarta/news-platform/internal/parse"
	"github.com/janavarta/news-platform/internal/prompt"
	"github.com/janavarta/news-platform/internal/quota"
	"github.com/janavarta/news-platform/internal/store"
	"github.com/janavarta/news-platform/internal/store/model"
	"github.com/janavarta/news-platform/internal/taxonomy"
	"github.com/janavarta/news-platform/pkg/metrics"
	"github.com/thoas/go-funk"
	"go.uber.org/zap"
)

type Orchestrator struct {
	store    store.Store
	provider genai.Provider
	prompts  *prompt.Store
	resolver *taxonomy.Resolver
	meter    *quota.Meter
	notifier *notify.Notifier
	cfg      *config.Config
	log      *zap.SugaredLogger
}

func NewOrchestrator(
	s store.Store,
	provider genai.Provider,
	prompts *prompt.Store,
	resolver *taxonomy.Resolver,
	meter *quota.Meter,
	notifier *notify.Notifier,
	cfg *config.Config,
) *Orchestrator {
	return &Orchestrator{
		store:    s,
		provider: provider,
		prompts:  prompts,
		resolver: resolver,
		meter:    meter,
		notifier: notifier,
		cfg:      cfg,
		log:      zap.S().Named("pipeline"),
	}
}

// ProcessItem runs one work item to a terminal state. A returned error means
// the item could not even be transitioned (storage trouble); every provider
// or parsing problem is absorbed into the item's own state instead.
func (o *Orchestrator) ProcessItem(ctx context.Context, item *model.WorkItem) error {
	log := o.log.With("work_item", item.ID.String())

	if err := validateItem(item); err != nil {
		log.Warnf("rejecting malformed work item: %v", err)
		state := item.State
		return o.finish(ctx, item, &state, model.StatusFailed, model.ErrCodeInvalidItem)
	}

	state := item.State
	now := time.Now()
	state.Status = model.StatusRunning
	state.StartedAt = &now
	state.FinishedAt = nil
	state.ErrorCode = ""
	state.RawOutput = ""
	state.Attempts = 0
	state.ShortError = ""
	state.WebError = ""
	state.PrintError = ""
	state.Mode = o.selectMode(ctx, item)

	if _, err := o.store.WorkItem().UpdateState(ctx, item.ID, state); err != nil {
		return fmt.Errorf("marking work item %s running: %w", item.ID, err)
	}
	log.Infof("processing started (mode %s)", state.Mode)

	allowed, err := o.meter.Allow(ctx, item.TenantID)
	if err != nil {
		log.Errorf("quota check failed: %v", err)
		return o.finish(ctx, item, &state, model.StatusFailed, model.ErrCodePersistFailed)
	}
	if !allowed {
		log.Infof("tenant %s over monthly token budget", item.TenantID)
		return o.finish(ctx, item, &state, model.StatusSkipped, model.ErrCodeQuotaExceeded)
	}

	kinds := funk.UniqString(kindsAsStrings(item.Kinds()))
	if len(kinds) == 0 {
		kinds = []string{string(model.KindShort), string(model.KindWeb)}
	}

	var full *parse.FullResponse
	var seoBlock *parse.SEOBlock

	wantsWeb := funk.ContainsString(kinds, string(model.KindWeb))
	wantsPrint := funk.ContainsString(kinds, string(model.KindPrint))
	needsDerivation := wantsWeb || (wantsPrint && state.Mode == model.ModeFull)

	if needsDerivation {
		key := prompt.KeyFullDerivation
		purpose := genai.PurposeDerivation
		if state.Mode == model.ModeLimited {
			key = prompt.KeySEOOnly
			purpose = genai.PurposeSEOOnly
		}

		promptText := prompt.Render(o.prompts.Get(ctx, key), map[string]string{
			"title":    item.Title,
			"body":     item.Body,
			"language": item.Language,
		})

		raw, err := o.generate(ctx, item, promptText, purpose)
		state.RawOutput = raw
		if err != nil || strings.TrimSpace(raw) == "" {
			if err != nil {
				log.Warnf("derivation call failed: %v", err)
			}
			return o.finish(ctx, item, &state, model.StatusFailed, model.ErrCodeEmptyOutput)
		}

		if state.Mode == model.ModeFull {
			if full = parse.FullDerivation(raw); full == nil {
				log.Warnf("derivation output unparseable")
				return o.finish(ctx, item, &state, model.StatusFailed, model.ErrCodeParseFailed)
			}
		} else {
			if seoBlock = parse.SEOOnly(raw); seoBlock == nil {
				log.Warnf("seo output unparseable")
				return o.finish(ctx, item, &state, model.StatusFailed, model.ErrCodeParseFailed)
			}
		}
	}

	if funk.ContainsString(kinds, string(model.KindShort)) {
		o.persistShort(ctx, item, &state)
	}
	if wantsWeb {
		o.persistWeb(ctx, item, &state, full, seoBlock)
	}
	if wantsPrint {
		o.persistPrint(ctx, item, &state, full)
	}

	return o.finish(ctx, item, &state, model.StatusDone, "")
}

// selectMode picks full rewriting unless the submission or the tenant opted
// out. An unknown tenant processes in full mode.
func (o *Orchestrator) selectMode(ctx context.Context, item *model.WorkItem) model.Mode {
	if item.RewriteDisabled {
		return model.ModeLimited
	}

	tenant, err := o.store.Tenant().Get(ctx, item.TenantID)
	if err != nil {
		if !errors.Is(err, store.ErrRecordNotFound) {
			o.log.Warnf("tenant lookup for %s failed: %v", item.TenantID, err)
		}
		return model.ModeFull
	}
	if !tenant.RewriteEnabled() {
		return model.ModeLimited
	}
	return model.ModeFull
}

// generate runs a single provider call under the configured timeout and
// meters its usage.
func (o *Orchestrator) generate(ctx context.Context, item *model.WorkItem, promptText, purpose string) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, o.cfg.Provider.Timeout)
	defer cancel()

	result, err := o.provider.Generate(callCtx, promptText, purpose)
	if err != nil {
		metrics.IncreaseProviderCallsTotal(purpose, "error")
		return "", err
	}
	metrics.IncreaseProviderCallsTotal(purpose, "ok")
	o.meter.Record(ctx, item.TenantID, item.ID, purpose, result.Usage)
	return result.Text, nil
}

// finish persists the terminal state and fires the detached side effects.
// Terminal failures are a normal outcome, not a returned error.
func (o *Orchestrator) finish(ctx context.Context, item *model.WorkItem, state *model.ProcessingState, status model.Status, errorCode string) error {
	now := time.Now()
	state.Status = status
	state.ErrorCode = errorCode
	state.FinishedAt = &now

	updated, err := o.store.WorkItem().UpdateState(ctx, item.ID, *state)
	if err != nil {
		return fmt.Errorf("persisting terminal state for %s: %w", item.ID, err)
	}
	metrics.IncreaseItemsProcessedTotal(string(status))
	o.log.Infof("work item %s finished: %s", item.ID, status)

	o.afterTerminal(updated)
	return nil
}

// afterTerminal mirrors the terminal state to the ingestion tracker and
// delivers the callback. Both run detached; neither can change the outcome.
func (o *Orchestrator) afterTerminal(item *model.WorkItem) {
	mirror := &model.IngestStatus{
		WorkItemID: item.ID,
		TenantID:   item.TenantID,
		Status:     item.State.Status,
		ErrorCode:  item.State.ErrorCode,
	}
	notify.Detach("ingest-mirror", func(ctx context.Context) error {
		return o.store.Ingest().Upsert(ctx, mirror)
	})

	if item.CallbackURL == "" {
		return
	}
	extra := callbackContext(item.State)
	snapshot := *item
	notify.Detach("terminal-callback", func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, o.cfg.Pipeline.CallbackTimeout)
		defer cancel()
		return o.notifier.Notify(ctx, &snapshot, snapshot.State.Status, extra)
	})
}

// callbackContext flattens the state details listeners care about.
func callbackContext(state model.ProcessingState) map[string]string {
	extra := map[string]string{}
	if state.ErrorCode != "" {
		extra["errorCode"] = state.ErrorCode
	}
	if state.ShortArticleID != nil {
		extra["shortArticleId"] = state.ShortArticleID.String()
	}
	if state.WebArticleID != nil {
		extra["webArticleId"] = state.WebArticleID.String()
	}
	if state.PrintArticleID != nil {
		extra["printArticleId"] = state.PrintArticleID.String()
	}
	if state.ShortError != "" {
		extra["shortError"] = state.ShortError
	}
	if state.WebError != "" {
		extra["webError"] = state.WebError
	}
	if state.PrintError != "" {
		extra["printError"] = state.PrintError
	}
	return extra
}

func kindsAsStrings(kinds []model.Kind) []string {
	out := make([]string, 0, len(kinds))
	for _, k := range kinds {
		out = append(out, string(k))
	}
	return out
}
