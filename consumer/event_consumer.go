package consumer

import (
	"context"

	"github.com/tokenfarm-io/staking-rewards-ledger/internal/queue"
)

//go:generate mockery --name=EventConsumer --output=../tests/mocks --outpkg=mocks --filename=mock_event_consumer.go
type EventConsumer interface {
	Start() error
	PushLedgerEvent(ctx context.Context, ev *queue.LedgerEvent) error
	Stop() error
}

type noopConsumer struct{}

// NewNoopEventConsumer returns a consumer that drops every event, used when no queue is configured.
func NewNoopEventConsumer() EventConsumer {
	return noopConsumer{}
}

func (noopConsumer) Start() error { return nil }

func (noopConsumer) PushLedgerEvent(context.Context, *queue.LedgerEvent) error { return nil }

func (noopConsumer) Stop() error { return nil }
