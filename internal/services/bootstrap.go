package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	sdkmath "cosmossdk.io/math"
	"github.com/avast/retry-go/v4"
	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog/log"

	"github.com/tokenfarm-io/staking-rewards-ledger/internal/clients/chainclient"
	"github.com/tokenfarm-io/staking-rewards-ledger/internal/db"
	"github.com/tokenfarm-io/staking-rewards-ledger/internal/ledger"
)

const (
	bootstrapRetryInterval = 2 * time.Second
	bootstrapMaxRetries    = 10
)

// Bootstrap restores the ledger from the database. Reads are retried with
// backoff, a stored state that breaks the ledger invariants fails immediately.
func (s *Service) Bootstrap(ctx context.Context) error {
	log := log.Ctx(ctx)

	err := retry.Do(func() error {
		return s.attemptBootstrap(ctx)
	},
		retry.Context(ctx),
		retry.Attempts(bootstrapMaxRetries),
		retry.Delay(bootstrapRetryInterval),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			return !errors.Is(err, ledger.ErrInvalidSnapshot)
		}),
		retry.OnRetry(func(n uint, err error) {
			log.Warn().
				Err(err).
				Msgf("Failed to bootstrap ledger, attempt %d/%d", n+1, bootstrapMaxRetries)
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to bootstrap ledger: %w", err)
	}

	return nil
}

func (s *Service) attemptBootstrap(ctx context.Context) error {
	log := log.Ctx(ctx)

	s.opMu.Lock()
	defer s.opMu.Unlock()

	docs, err := s.db.FindLedgerAccounts(ctx)
	if err != nil {
		return fmt.Errorf("failed to load accounts: %w", err)
	}

	var nonce uint64
	pool, err := s.db.GetPoolState(ctx)
	switch {
	case err == nil:
		nonce = pool.Nonce
	case db.IsNotFoundError(err):
		if len(docs) > 0 {
			return fmt.Errorf("%w: accounts stored without pool state", ledger.ErrInvalidSnapshot)
		}
	default:
		return fmt.Errorf("failed to load pool state: %w", err)
	}

	lastBlock, err := s.db.GetLastProcessedBlock(ctx)
	if err != nil {
		return fmt.Errorf("failed to load last processed block: %w", err)
	}
	if pool != nil && pool.LastBlock > lastBlock {
		lastBlock = pool.LastBlock
	}

	snap := &ledger.Snapshot{
		Accounts:  make([]ledger.Account, 0, len(docs)),
		LastBlock: lastBlock,
		Nonce:     nonce,
	}
	for _, doc := range docs {
		acc, err := doc.ToLedgerAccount()
		if err != nil {
			return fmt.Errorf("%w: %v", ledger.ErrInvalidSnapshot, err)
		}
		snap.Accounts = append(snap.Accounts, acc)
	}

	// the chain is the only step left that can fail, nothing is restored before it caught up
	if err := s.catchUpChain(ctx, lastBlock); err != nil {
		return err
	}

	if err := s.ledger.Restore(snap); err != nil {
		return err
	}
	for _, doc := range docs {
		s.orders[common.HexToAddress(doc.ID)] = doc.Order
	}

	if err := s.restorePoolBalance(snap.TotalStaked()); err != nil {
		return err
	}

	log.Info().
		Int("accounts", len(snap.Accounts)).
		Uint64("last_block", lastBlock).
		Uint64("nonce", nonce).
		Msg("Ledger state restored")
	return nil
}

// restorePoolBalance tops the pool's LP balance up to the restored stake.
// Token balances live in memory only, so the pool gets back the principal it
// holds. Only the shortfall is minted, a repeated bootstrap mints nothing.
func (s *Service) restorePoolBalance(total sdkmath.Int) error {
	held := s.assets.LP.BalanceOf(s.assets.Pool)
	if !total.GT(held) {
		return nil
	}

	if err := s.assets.LP.Mint(s.assets.Deployer, s.assets.Pool, total.Sub(held)); err != nil {
		return fmt.Errorf("failed to restore pool balance: %w", err)
	}
	return nil
}

// catchUpChain moves a simulated chain up to the last processed block so a
// restarted simulation does not run into a block regression.
func (s *Service) catchUpChain(ctx context.Context, lastBlock uint64) error {
	current, err := s.chain.CurrentBlock(ctx)
	if err != nil {
		return fmt.Errorf("failed to read current block: %w", err)
	}
	if current >= lastBlock {
		return nil
	}

	sim, ok := s.chain.(*chainclient.Simulator)
	if !ok {
		log.Ctx(ctx).Warn().
			Uint64("current", current).
			Uint64("last_block", lastBlock).
			Msg("Chain is behind the last processed block, operations fail until it catches up")
		return nil
	}

	sim.Mine(lastBlock - current)
	return nil
}
