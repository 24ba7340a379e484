package edfrtos

import (
	"github.com/joeycumines/logiface"
	islog "github.com/joeycumines/logiface-slog"
)

// Structured logging categories (scheduler/tick/mailbox/lifecycle), rendered
// as logiface fields on every log line the kernel emits.
const (
	categoryScheduler = "scheduler"
	categoryTick      = "tick"
	categoryMailbox   = "mailbox"
	categoryLifecycle = "lifecycle"
)

// logInfo starts an informational log entry tagged with category, or a
// disabled builder if no logger was configured (WithLogger), in which case
// every chained call below is a no-op.
func (k *Kernel) logInfo(category string) *logiface.Builder[*islog.Event] {
	return k.logger.Info().Str("category", category)
}

// logDebug mirrors logInfo at debug level, for high-frequency events such as
// individual tick reassessments.
func (k *Kernel) logDebug(category string) *logiface.Builder[*islog.Event] {
	return k.logger.Debug().Str("category", category)
}
