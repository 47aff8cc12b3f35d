package ioutboxrepo

import (
	"context"
	"time"

	"github.com/corray333/storefront/internal/service/models/outbox"
)

// IOutboxRepository stores messages pending publication to the broker.
type IOutboxRepository interface {
	Insert(ctx context.Context, msg outbox.OutboxMessage) error
	GetPendingMessages(ctx context.Context, limit int) ([]outbox.OutboxMessage, error)
	Delete(ctx context.Context, id int64) error
	UpdateRetry(ctx context.Context, id int64, retryCount int, lastError string, nextRetryAt time.Time) error
}
