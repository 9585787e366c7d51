package queue

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tokenfarm-io/staking-rewards-ledger/internal/config"
	"github.com/tokenfarm-io/staking-rewards-ledger/internal/types"
)

type fakeChannel struct {
	failures  int
	published []amqp.Publishing
	closed    bool
}

func (c *fakeChannel) PublishWithContext(_ context.Context, _, key string, _, _ bool, msg amqp.Publishing) error {
	if key != LedgerEventQueueName {
		return errors.New("unexpected routing key")
	}
	if c.failures > 0 {
		c.failures--
		return errors.New("channel closed")
	}
	c.published = append(c.published, msg)
	return nil
}

func (c *fakeChannel) Close() error {
	c.closed = true
	return nil
}

func newTestQueueManager(t *testing.T, ch *fakeChannel) *QueueManager {
	t.Helper()

	qm, err := NewQueueManager(&config.QueueConfig{
		QueueProcessingTimeout: time.Second,
		MsgMaxRetryAttempts:    3,
		RetryInterval:          time.Millisecond,
		QueueType:              config.QuorumQueueType,
	}, zap.NewNop())
	require.NoError(t, err)
	qm.ch = ch
	return qm
}

func TestQueueManager_PushLedgerEvent(t *testing.T) {
	ev := &LedgerEvent{
		ID:        "14-3-0-ledger.v1.EventRewardsAccrued-0x01",
		Operation: types.OperationDistributeAll,
		EventType: types.EventRewardsAccrued,
		Amount:    "3250000000000000000",
		Block:     14,
	}

	t.Run("publishes json", func(t *testing.T) {
		ch := &fakeChannel{}
		qm := newTestQueueManager(t, ch)

		require.NoError(t, qm.PushLedgerEvent(t.Context(), ev))
		require.Len(t, ch.published, 1)
		assert.Equal(t, ev.ID, ch.published[0].MessageId)
		assert.Equal(t, amqp.Persistent, ch.published[0].DeliveryMode)

		var got LedgerEvent
		require.NoError(t, json.Unmarshal(ch.published[0].Body, &got))
		assert.Equal(t, *ev, got)
	})

	t.Run("retries transient failures", func(t *testing.T) {
		ch := &fakeChannel{failures: 2}
		qm := newTestQueueManager(t, ch)

		require.NoError(t, qm.PushLedgerEvent(t.Context(), ev))
		assert.Len(t, ch.published, 1)
	})

	t.Run("gives up", func(t *testing.T) {
		ch := &fakeChannel{failures: 5}
		qm := newTestQueueManager(t, ch)

		err := qm.PushLedgerEvent(t.Context(), ev)
		require.Error(t, err)
		assert.Empty(t, ch.published)
	})

	t.Run("not started", func(t *testing.T) {
		qm := newTestQueueManager(t, nil)
		qm.ch = nil
		require.Error(t, qm.PushLedgerEvent(t.Context(), ev))
	})

	t.Run("stop closes channel", func(t *testing.T) {
		ch := &fakeChannel{}
		qm := newTestQueueManager(t, ch)
		require.NoError(t, qm.Stop())
		assert.True(t, ch.closed)
	})
}
