// Package notifier delivers change notifications to external channels. The
// monitor core calls a Notifier at most once per detected change; any retry
// policy lives in the channel itself, not here.
package notifier

import (
	"context"

	"pagewatch/internal/models"
)

// Notifier delivers one change notification. Implementations are invoked
// from a single dispatch goroutine, so they need not be safe for concurrent
// use.
type Notifier interface {
	Name() string
	Notify(ctx context.Context, event models.ChangeEvent) error
}
