package services

import (
	"context"
	"errors"

	sdkmath "cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog/log"

	"github.com/tokenfarm-io/staking-rewards-ledger/internal/clients/chainclient"
)

// ErrNotSimulated is returned by the simulation helpers when the service runs
// against a real chain.
var ErrNotSimulated = errors.New("chain is not simulated")

// Balances are the token holdings of one account.
type Balances struct {
	Account common.Address `json:"account"`
	LP      sdkmath.Int    `json:"lp"`
	Reward  sdkmath.Int    `json:"reward"`
	// Allowance is what the pool may still pull from the account's LP balance
	Allowance sdkmath.Int `json:"allowance"`
}

func (s *Service) simulator() (*chainclient.Simulator, error) {
	sim, ok := s.chain.(*chainclient.Simulator)
	if !ok {
		return nil, ErrNotSimulated
	}
	return sim, nil
}

// Simulated reports whether the service runs on the in-process chain.
func (s *Service) Simulated() bool {
	_, err := s.simulator()
	return err == nil
}

// MintLP mints LP tokens from the deployer to an account in a block of its own.
func (s *Service) MintLP(ctx context.Context, to common.Address, amount sdkmath.Int) (uint64, error) {
	return s.simulatedTx(ctx, func(context.Context) error {
		return s.assets.LP.Mint(s.assets.Deployer, to, amount)
	})
}

// ApproveLP lets the pool pull up to amount LP tokens from owner.
func (s *Service) ApproveLP(ctx context.Context, owner common.Address, amount sdkmath.Int) (uint64, error) {
	return s.simulatedTx(ctx, func(context.Context) error {
		return s.assets.LP.Approve(owner, s.assets.Pool, amount)
	})
}

// Mine advances the simulated chain by n empty blocks.
func (s *Service) Mine(ctx context.Context, n uint64) (uint64, error) {
	sim, err := s.simulator()
	if err != nil {
		return 0, err
	}

	height := sim.Mine(n)
	log.Ctx(ctx).Debug().Uint64("blocks", n).Uint64("height", height).Msg("Mined empty blocks")
	return height, nil
}

func (s *Service) Balances(account common.Address) Balances {
	return Balances{
		Account:   account,
		LP:        s.assets.LP.BalanceOf(account),
		Reward:    s.assets.Reward.BalanceOf(account),
		Allowance: s.assets.LP.Allowance(account, s.assets.Pool),
	}
}

func (s *Service) CurrentBlock(ctx context.Context) (uint64, error) {
	return s.chain.CurrentBlock(ctx)
}

func (s *Service) simulatedTx(ctx context.Context, tx func(ctx context.Context) error) (uint64, error) {
	sim, err := s.simulator()
	if err != nil {
		return 0, err
	}

	var block uint64
	err = sim.Transact(ctx, func(ctx context.Context) error {
		block, _ = sim.CurrentBlock(ctx)
		return tx(ctx)
	})
	return block, err
}
