package services

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"

	"github.com/tokenfarm-io/staking-rewards-ledger/internal/db/model"
	"github.com/tokenfarm-io/staking-rewards-ledger/internal/ledger"
	"github.com/tokenfarm-io/staking-rewards-ledger/internal/observability/metrics"
	"github.com/tokenfarm-io/staking-rewards-ledger/internal/queue"
)

// persist writes the receipt's accounts and events. After an earlier failure
// every account is written, together with the events that were not journaled.
// Callers must hold opMu.
func (s *Service) persist(ctx context.Context, receipt *ledger.Receipt) error {
	accounts := receipt.Accounts
	if s.dirty {
		accounts = s.ledger.Snapshot().Accounts
	}

	s.pendingEvents = append(s.pendingEvents, model.FromLedgerReceipt(receipt)...)
	if err := s.write(ctx, accounts, s.pendingEvents); err != nil {
		return err
	}

	s.pendingEvents = nil
	s.dirty = false
	return nil
}

// Flush persists the whole ledger if an earlier receipt could not be written.
func (s *Service) Flush(ctx context.Context) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	if !s.dirty {
		return nil
	}

	if err := s.write(ctx, s.ledger.Snapshot().Accounts, s.pendingEvents); err != nil {
		return fmt.Errorf("failed to flush ledger state: %w", err)
	}

	log.Ctx(ctx).Info().Int("events", len(s.pendingEvents)).Msg("Flushed ledger state")
	s.pendingEvents = nil
	s.dirty = false
	return nil
}

func (s *Service) write(ctx context.Context, accounts []ledger.Account, events []*model.LedgerEventDocument) error {
	state := s.ledger.Pool()
	accountDocs := make([]*model.LedgerAccountDocument, 0, len(accounts))
	for i := range accounts {
		accountDocs = append(accountDocs, model.FromLedgerAccount(&accounts[i], s.orderOf(accounts[i].Address)))
	}
	poolDoc := model.NewPoolStateDocument(state.TotalStaked.String(), state.LastBlock, state.Nonce, int64(state.Accounts))

	p := pool.New().WithErrors().WithContext(ctx)
	p.Go(func(ctx context.Context) error {
		return s.db.UpsertLedgerAccounts(ctx, accountDocs)
	})
	p.Go(func(ctx context.Context) error {
		return s.db.SaveLedgerEvents(ctx, events)
	})
	p.Go(func(ctx context.Context) error {
		return s.db.UpsertPoolState(ctx, poolDoc)
	})
	if err := p.Wait(); err != nil {
		return err
	}

	// written last so it only moves once everything up to it is stored
	return s.db.UpdateLastProcessedBlock(ctx, state.LastBlock)
}

func (s *Service) orderOf(addr common.Address) int64 {
	if order, ok := s.orders[addr]; ok {
		return order
	}
	order := int64(len(s.orders))
	s.orders[addr] = order
	return order
}

// publish pushes every event of the receipt to the queue. Failures are
// logged only, the journal in the database stays the source of truth.
func (s *Service) publish(ctx context.Context, receipt *ledger.Receipt) {
	docs := model.FromLedgerReceipt(receipt)
	for i, ev := range receipt.Events {
		metrics.IncLedgerEvent(ev.Type.String())

		msg := queue.NewLedgerEvent(docs[i].ID, receipt, ev)
		if err := s.eventConsumer.PushLedgerEvent(ctx, msg); err != nil {
			log.Ctx(ctx).Error().Err(err).Str("event_id", msg.ID).Msg("Failed to publish ledger event")
		}
	}
}
