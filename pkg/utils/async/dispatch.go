package async

import (
	"context"
	"time"

	"github.com/kintai-dev/workstamper/pkg/utils/errutil"
	"github.com/kintai-dev/workstamper/pkg/utils/logging"
)

// DefaultTimeout bounds background work dispatched from webhook handlers.
// Slack expects the synchronous response within 3 seconds; everything slow
// runs here instead, but must not run forever either.
const DefaultTimeout = 30 * time.Second

// Dispatch executes a handler function asynchronously in a new goroutine.
// The handler gets a fresh background context (the request context is
// cancelled as soon as the webhook response is written) with the logger
// carried over and a deadline applied. Errors and panics are logged.
func Dispatch(ctx context.Context, handler func(ctx context.Context) error) {
	bgCtx := logging.With(context.Background(), logging.From(ctx))

	go func() {
		bgCtx, cancel := context.WithTimeout(bgCtx, DefaultTimeout)
		defer cancel()

		defer func() {
			if r := recover(); r != nil {
				logging.From(bgCtx).Error("panic in async handler", "panic", r)
			}
		}()

		if err := handler(bgCtx); err != nil {
			_ = errutil.Handle(bgCtx, err, "async handler failed")
		}
	}()
}
