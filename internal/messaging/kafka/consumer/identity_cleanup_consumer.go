package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go-attendance/internal/events"
	identityerrors "go-attendance/internal/identity/errors"

	"go.uber.org/zap"
)

const (
	DefaultRetryBackoff    = time.Second
	DefaultMaxRetryBackoff = time.Minute
)

type IdentityDeleter interface {
	DeleteAccount(ctx context.Context, uid string) error
}

type cleanupOptions struct {
	backoff    time.Duration
	maxBackoff time.Duration
}

type CleanupOption func(*cleanupOptions)

// WithRetryBackoff sets the first wait after a failed delete and its ceiling.
func WithRetryBackoff(initial, ceiling time.Duration) CleanupOption {
	return func(o *cleanupOptions) {
		if initial > 0 {
			o.backoff = initial
		}
		if ceiling >= o.backoff {
			o.maxBackoff = ceiling
		}
	}
}

// ConsumeIdentityCleanup retries identity deletions left behind by a company
// teardown. An account that is already gone counts as done. A failing delete
// is retried on the same message, so no later offset is committed past it.
func ConsumeIdentityCleanup(
	ctx context.Context,
	reader Reader,
	identities IdentityDeleter,
	logger *zap.Logger,
	opts ...CleanupOption,
) {
	o := cleanupOptions{backoff: DefaultRetryBackoff, maxBackoff: DefaultMaxRetryBackoff}
	for _, opt := range opts {
		opt(&o)
	}
	if o.maxBackoff < o.backoff {
		o.maxBackoff = o.backoff
	}

	log := logger.Named("kafka.consumer.identity_cleanup")
	log.Info("identity cleanup consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("identity cleanup consumer stopped")
				return
			}
			log.Error("fetch identity cleanup message failed", zap.Error(err))
			continue
		}

		var event events.IdentityCleanupRequestedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil || event.UID == "" {
			log.Error("decode identity cleanup event failed", zap.ByteString("value", msg.Value), zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		if err := deleteUntilDone(ctx, identities, event, o, log); err != nil {
			// Left uncommitted; the group redelivers it after restart.
			log.Info("identity cleanup consumer stopped", zap.String("pending_uid", event.UID))
			return
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit identity cleanup message failed", zap.Error(err))
			continue
		}

		log.Info("orphaned identity removed",
			zap.String("uid", event.UID),
			zap.String("company_id", event.CompanyID),
		)
	}
}

// deleteUntilDone returns nil once the account is gone, or ctx.Err() when
// the consumer is shutting down.
func deleteUntilDone(
	ctx context.Context,
	identities IdentityDeleter,
	event events.IdentityCleanupRequestedEvent,
	o cleanupOptions,
	log *zap.Logger,
) error {
	wait := o.backoff
	for attempt := 1; ; attempt++ {
		err := identities.DeleteAccount(ctx, event.UID)
		if err == nil || errors.Is(err, identityerrors.ErrAccountNotFound) {
			return nil
		}

		log.Error("delete orphaned identity failed",
			zap.String("uid", event.UID),
			zap.String("company_id", event.CompanyID),
			zap.Int("attempt", attempt),
			zap.Duration("retry_in", wait),
			zap.Error(err),
		)

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		wait *= 2
		if wait > o.maxBackoff {
			wait = o.maxBackoff
		}
	}
}
