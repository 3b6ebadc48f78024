// Package quota meters provider usage and enforces the per-tenant monthly
// token budget.
package quota

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/janavarta/news-platform/internal/genai"
	"github.com/janavarta/news-platform/internal/store"
	"github.com/janavarta/news-platform/internal/store/model"
	"github.com/janavarta/news-platform/pkg/metrics"
	"go.uber.org/zap"
)

type Meter struct {
	usage        store.Usage
	monthlyLimit int64
	now          func() time.Time
}

func NewMeter(usage store.Usage, monthlyLimit int64) *Meter {
	return &Meter{usage: usage, monthlyLimit: monthlyLimit, now: time.Now}
}

// Allow reports whether the tenant is still under its monthly token budget.
// A non-positive limit disables enforcement.
func (m *Meter) Allow(ctx context.Context, tenantID string) (bool, error) {
	if m.monthlyLimit <= 0 {
		return true, nil
	}

	consumed, err := m.usage.SumTokensSince(ctx, tenantID, m.monthStart())
	if err != nil {
		return false, fmt.Errorf("aggregating tenant usage: %w", err)
	}
	return consumed < m.monthlyLimit, nil
}

// Record appends one usage row for a provider invocation. Providers that
// report no usage still get a zero-count row so each call stays auditable.
func (m *Meter) Record(ctx context.Context, tenantID string, workItemID uuid.UUID, purpose string, usage *genai.Usage) {
	record := &model.UsageRecord{
		TenantID:   tenantID,
		WorkItemID: workItemID,
		Purpose:    purpose,
	}
	if usage != nil {
		record.PromptTokens = usage.PromptTokens
		record.CompletionTokens = usage.CompletionTokens
		record.TotalTokens = usage.TotalTokens
		record.Model = usage.Model
		record.Provider = usage.Provider
	}

	if _, err := m.usage.Create(ctx, record); err != nil {
		// metering must never fail the pipeline
		zap.S().Named("quota").Warnf("failed to record usage for tenant %s: %v", tenantID, err)
		return
	}
	metrics.AddTokensConsumedTotal(tenantID, record.TotalTokens)
}

func (m *Meter) monthStart() time.Time {
	now := m.now().UTC()
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
}
