package services

import (
	"context"
	"time"

	sdkmath "cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog/log"

	"github.com/tokenfarm-io/staking-rewards-ledger/internal/clients/chainclient"
	"github.com/tokenfarm-io/staking-rewards-ledger/internal/db/model"
	"github.com/tokenfarm-io/staking-rewards-ledger/internal/ledger"
	"github.com/tokenfarm-io/staking-rewards-ledger/internal/observability/metrics"
	"github.com/tokenfarm-io/staking-rewards-ledger/internal/types"
)

func (s *Service) Deposit(ctx context.Context, account common.Address, amount sdkmath.Int) (*ledger.Receipt, error) {
	return s.execute(ctx, types.OperationDeposit, func(ctx context.Context) (*ledger.Receipt, error) {
		return s.ledger.Deposit(ctx, account, amount)
	})
}

func (s *Service) Withdraw(ctx context.Context, account common.Address) (*ledger.Receipt, error) {
	return s.execute(ctx, types.OperationWithdraw, func(ctx context.Context) (*ledger.Receipt, error) {
		return s.ledger.Withdraw(ctx, account)
	})
}

func (s *Service) ClaimRewards(ctx context.Context, account common.Address) (*ledger.Receipt, error) {
	return s.execute(ctx, types.OperationClaim, func(ctx context.Context) (*ledger.Receipt, error) {
		return s.ledger.ClaimRewards(ctx, account)
	})
}

func (s *Service) DistributeRewards(ctx context.Context, account common.Address) (*ledger.Receipt, error) {
	return s.execute(ctx, types.OperationDistribute, func(ctx context.Context) (*ledger.Receipt, error) {
		return s.ledger.DistributeRewards(ctx, account)
	})
}

func (s *Service) DistributeRewardsAll(ctx context.Context) (*ledger.Receipt, error) {
	return s.execute(ctx, types.OperationDistributeAll, func(ctx context.Context) (*ledger.Receipt, error) {
		return s.ledger.DistributeRewardsAll(ctx)
	})
}

func (s *Service) PendingRewards(account common.Address) sdkmath.Int {
	return s.ledger.PendingRewards(account)
}

func (s *Service) StakingBalance(account common.Address) sdkmath.Int {
	return s.ledger.StakingBalance(account)
}

func (s *Service) Checkpoints(account common.Address) ledger.Checkpoint {
	return s.ledger.Checkpoints(account)
}

func (s *Service) Account(account common.Address) (ledger.Account, bool) {
	return s.ledger.Account(account)
}

func (s *Service) Snapshot() *ledger.Snapshot {
	return s.ledger.Snapshot()
}

func (s *Service) Pool() ledger.PoolState {
	return s.ledger.Pool()
}

// StoredAccount reads the persisted state of an account, which trails the
// in-memory one while a flush is pending.
func (s *Service) StoredAccount(ctx context.Context, account common.Address) (*model.LedgerAccountDocument, error) {
	return s.db.GetLedgerAccount(ctx, account.Hex())
}

// StoredAccounts pages through the persisted accounts in first deposit order.
func (s *Service) StoredAccounts(ctx context.Context, paginationToken string) ([]*model.LedgerAccountDocument, string, error) {
	return s.db.FindLedgerAccountsPage(ctx, paginationToken)
}

// AllStoredAccounts returns every persisted account in first deposit order.
func (s *Service) AllStoredAccounts(ctx context.Context) ([]*model.LedgerAccountDocument, error) {
	return s.db.FindLedgerAccounts(ctx)
}

// Events returns the most recent journaled events of an account, newest first.
func (s *Service) Events(ctx context.Context, account common.Address, limit int64) ([]*model.LedgerEventDocument, error) {
	return s.db.FindLedgerEventsByAccount(ctx, account.Hex(), limit)
}

// execute runs a ledger operation as one transaction of the chain, then
// persists and publishes its receipt. A committed operation is never reported
// as failed: persistence errors are retried by the next flush.
func (s *Service) execute(
	ctx context.Context, op types.Operation, fn func(ctx context.Context) (*ledger.Receipt, error),
) (*ledger.Receipt, error) {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	log := log.Ctx(ctx).With().Str("operation", op.String()).Logger()
	startTime := time.Now()

	var receipt *ledger.Receipt
	run := func(ctx context.Context) error {
		var err error
		receipt, err = fn(ctx)
		return err
	}

	var err error
	if tx, ok := s.chain.(chainclient.Transactor); ok {
		err = tx.Transact(ctx, run)
	} else {
		err = run(ctx)
	}
	metrics.RecordLedgerOperation(time.Since(startTime), op.String(), err != nil)

	if err != nil {
		if ledger.IsUserError(err) {
			log.Debug().Err(err).Msg("Ledger operation rejected")
		} else {
			log.Error().Err(err).Msg("Ledger operation failed")
		}
		return nil, err
	}

	log.Debug().
		Uint64("block", receipt.Block).
		Uint64("nonce", receipt.Nonce).
		Int("events", len(receipt.Events)).
		Msg("Ledger operation committed")

	if err := s.persist(ctx, receipt); err != nil {
		s.dirty = true
		log.Error().Err(err).Uint64("nonce", receipt.Nonce).Msg("Failed to persist receipt, state will be flushed later")
	}
	s.publish(ctx, receipt)

	return receipt, nil
}
