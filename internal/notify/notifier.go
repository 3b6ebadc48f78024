// Package notify delivers best-effort callbacks to external listeners when a
// work item reaches a terminal state.
package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/janavarta/news-platform/internal/store/model"
	"go.uber.org/zap"
)

// Payload is what the listener receives. Context carries machine-readable
// details such as the failure code or the artifact identifiers.
type Payload struct {
	WorkItemID string            `json:"workItemId"`
	TenantID   string            `json:"tenantId"`
	Status     model.Status      `json:"status"`
	Context    map[string]string `json:"context,omitempty"`
}

type Notifier struct {
	client *resty.Client
}

func NewNotifier(timeout time.Duration) *Notifier {
	return &Notifier{client: resty.New().SetTimeout(timeout)}
}

// Notify posts the terminal status to the item's callback URL. A missing URL
// is a no-op; transport failures are returned so Detach can log them, but
// they never alter the item's terminal state.
func (n *Notifier) Notify(ctx context.Context, item *model.WorkItem, status model.Status, extra map[string]string) error {
	if item.CallbackURL == "" {
		return nil
	}

	payload := Payload{
		WorkItemID: item.ID.String(),
		TenantID:   item.TenantID,
		Status:     status,
		Context:    extra,
	}

	resp, err := n.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(payload).
		Post(item.CallbackURL)
	if err != nil {
		return fmt.Errorf("callback to %s: %w", item.CallbackURL, err)
	}
	if resp.IsError() {
		return fmt.Errorf("callback to %s: status %d", item.CallbackURL, resp.StatusCode())
	}

	zap.S().Named("notify").Debugf("callback delivered for item %s (%s)", item.ID, status)
	return nil
}
