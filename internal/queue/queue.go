package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/avast/retry-go/v4"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/tokenfarm-io/staking-rewards-ledger/internal/config"
	"github.com/tokenfarm-io/staking-rewards-ledger/internal/observability/metrics"
)

type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// QueueManager publishes ledger events to RabbitMQ.
type QueueManager struct {
	cfg    *config.QueueConfig
	logger *zap.Logger

	mu   sync.Mutex
	conn *amqp.Connection
	ch   channel
}

func NewQueueManager(cfg *config.QueueConfig, logger *zap.Logger) (*QueueManager, error) {
	if cfg == nil {
		return nil, fmt.Errorf("queue config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	return &QueueManager{
		cfg:    cfg,
		logger: logger.Named("queue"),
	}, nil
}

// Start connects to the broker and declares the ledger event queue.
func (qm *QueueManager) Start() error {
	qm.mu.Lock()
	defer qm.mu.Unlock()

	amqpURI := fmt.Sprintf("amqp://%s:%s@%s", qm.cfg.QueueUser, qm.cfg.QueuePassword, qm.cfg.Url)
	conn, err := amqp.Dial(amqpURI)
	if err != nil {
		return fmt.Errorf("failed to connect to queue: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("failed to open queue channel: %w", err)
	}

	args := amqp.Table{"x-queue-type": qm.cfg.QueueType}
	if _, err := ch.QueueDeclare(LedgerEventQueueName, true, false, false, false, args); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("failed to declare queue %s: %w", LedgerEventQueueName, err)
	}

	qm.conn = conn
	qm.ch = ch
	qm.logger.Info("connected to queue", zap.String("queue", LedgerEventQueueName))
	return nil
}

func (qm *QueueManager) PushLedgerEvent(ctx context.Context, ev *LedgerEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal ledger event: %w", err)
	}

	qm.mu.Lock()
	ch := qm.ch
	qm.mu.Unlock()
	if ch == nil {
		return fmt.Errorf("queue manager is not started")
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    ev.ID,
		Type:         ev.EventType.String(),
		Body:         body,
	}

	err = retry.Do(func() error {
		ctx, cancel := context.WithTimeout(ctx, qm.cfg.QueueProcessingTimeout)
		defer cancel()

		return ch.PublishWithContext(ctx, "", LedgerEventQueueName, false, false, msg)
	},
		retry.Context(ctx),
		retry.Attempts(qm.cfg.MsgMaxRetryAttempts),
		retry.Delay(qm.cfg.RetryInterval),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			qm.logger.Warn("failed to publish ledger event",
				zap.String("id", ev.ID),
				zap.Uint("attempt", n+1),
				zap.Error(err),
			)
		}),
	)
	if err != nil {
		metrics.RecordQueueSendError()
		return fmt.Errorf("failed to publish ledger event %s: %w", ev.ID, err)
	}

	return nil
}

// Stop gracefully stops the interaction with the queue, ensuring all resources are properly released.
func (qm *QueueManager) Stop() error {
	qm.mu.Lock()
	defer qm.mu.Unlock()

	qm.logger.Info("shutting down queue manager")

	var errs []error
	if qm.ch != nil {
		if err := qm.ch.Close(); err != nil {
			errs = append(errs, err)
		}
		qm.ch = nil
	}
	if qm.conn != nil {
		if err := qm.conn.Close(); err != nil {
			errs = append(errs, err)
		}
		qm.conn = nil
	}

	if len(errs) > 0 {
		return fmt.Errorf("failed to close queue: %v", errs)
	}
	return nil
}
