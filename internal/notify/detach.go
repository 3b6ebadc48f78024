package notify

import (
	"context"

	"go.uber.org/zap"
)

// Detach runs fn on its own goroutine as a best-effort side effect. Failures
// and panics are logged under name and structurally cannot reach the caller.
func Detach(name string, fn func(ctx context.Context) error) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				zap.S().Named("detach").Errorf("%s panicked: %v", name, r)
			}
		}()
		if err := fn(context.Background()); err != nil {
			zap.S().Named("detach").Warnf("%s failed: %v", name, err)
		}
	}()
}
