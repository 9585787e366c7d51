package services

import (
	"context"
	"fmt"

	sdkmath "cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"

	"github.com/tokenfarm-io/staking-rewards-ledger/internal/ledger"
)

const (
	scenarioAliceStake = 100
	scenarioBobStake   = 300
	// blocks mined between bob's deposit and the distribution
	scenarioIdleBlocks = 10

	scenarioAliceBlocks = 13
	scenarioBobBlocks   = 11
)

// ScenarioResult is the outcome of RunReferenceScenario.
type ScenarioResult struct {
	Receipts []*ledger.Receipt `json:"receipts"`
	// Accounts are the account states right after the distribution
	Accounts []ledger.Account `json:"accounts"`
	// Expected holds the pending rewards each account must have after the distribution
	Expected map[common.Address]sdkmath.Int `json:"expected"`

	// Claimed is the reward balance each claim added to the account
	Claimed         map[common.Address]sdkmath.Int `json:"claimed"`
	ExpectedClaimed map[common.Address]sdkmath.Int `json:"expected_claimed"`
	// Returned is the LP balance each withdrawal gave back
	Returned map[common.Address]sdkmath.Int `json:"returned"`
}

// Holds reports whether the distribution left the expected pending rewards and
// the claims and withdrawals paid out exactly what was owed.
func (r *ScenarioResult) Holds() bool {
	if len(r.Accounts) != len(r.Expected) {
		return false
	}
	for _, acc := range r.Accounts {
		if !equalAmount(r.Expected, acc.Address, acc.PendingRewards) ||
			!equalAmount(r.Claimed, acc.Address, r.ExpectedClaimed[acc.Address]) ||
			!equalAmount(r.Returned, acc.Address, acc.Staked) {
			return false
		}
	}
	return true
}

func equalAmount(amounts map[common.Address]sdkmath.Int, addr common.Address, want sdkmath.Int) bool {
	got, ok := amounts[addr]
	return ok && !want.IsNil() && got.Equal(want)
}

// RunReferenceScenario replays the two staker walkthrough on the simulated chain.
// Alice deposits at block b, Bob approves at b+1 and deposits at b+2, ten empty
// blocks follow and the distribution lands at b+13, so Alice accrues over 13
// blocks and Bob over 11. Alice then claims, Bob claims, and both withdraw.
// Every claim settles in its own block first, so it mints the pending rewards
// left by the distribution plus the reward of the blocks since.
func (s *Service) RunReferenceScenario(ctx context.Context, alice, bob common.Address) (*ScenarioResult, error) {
	aliceStake := sdkmath.NewInt(scenarioAliceStake)
	bobStake := sdkmath.NewInt(scenarioBobStake)

	steps := []func() error{
		func() error { _, err := s.MintLP(ctx, alice, aliceStake); return err },
		func() error { _, err := s.MintLP(ctx, bob, bobStake); return err },
		func() error { _, err := s.ApproveLP(ctx, alice, aliceStake); return err },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return nil, fmt.Errorf("failed to prepare scenario: %w", err)
		}
	}

	result := &ScenarioResult{}

	aliceDeposit, err := s.Deposit(ctx, alice, aliceStake)
	if err != nil {
		return nil, fmt.Errorf("alice deposit failed: %w", err)
	}
	result.Receipts = append(result.Receipts, aliceDeposit)

	if _, err := s.ApproveLP(ctx, bob, bobStake); err != nil {
		return nil, fmt.Errorf("failed to approve bob: %w", err)
	}
	bobDeposit, err := s.Deposit(ctx, bob, bobStake)
	if err != nil {
		return nil, fmt.Errorf("bob deposit failed: %w", err)
	}
	result.Receipts = append(result.Receipts, bobDeposit)

	if _, err := s.Mine(ctx, scenarioIdleBlocks); err != nil {
		return nil, err
	}

	distribution, err := s.DistributeRewardsAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("distribution failed: %w", err)
	}
	result.Receipts = append(result.Receipts, distribution)

	params := s.ledger.Params()
	total := aliceStake.Add(bobStake)
	aliceBlocks := distribution.Block - aliceDeposit.Block
	bobBlocks := distribution.Block - bobDeposit.Block
	if aliceBlocks != scenarioAliceBlocks || bobBlocks != scenarioBobBlocks {
		return nil, fmt.Errorf("unexpected block layout: alice accrued over %d blocks, bob over %d",
			aliceBlocks, bobBlocks)
	}

	// alice's first interval ran while she was the only staker
	aliceDenominator := total
	if params.Denominator == ledger.DenominatorSnapshot {
		aliceDenominator = aliceStake
	}

	result.Expected = map[common.Address]sdkmath.Int{
		alice: ledger.Accrue(params.RewardPerBlock, aliceBlocks, aliceStake, aliceDenominator),
		bob:   ledger.Accrue(params.RewardPerBlock, bobBlocks, bobStake, total),
	}
	for _, addr := range []common.Address{alice, bob} {
		acc, _ := s.ledger.Account(addr)
		result.Accounts = append(result.Accounts, acc)
	}

	result.Claimed = make(map[common.Address]sdkmath.Int)
	result.ExpectedClaimed = make(map[common.Address]sdkmath.Int)
	for _, acc := range result.Accounts {
		before := s.assets.Reward.BalanceOf(acc.Address)
		claim, err := s.ClaimRewards(ctx, acc.Address)
		if err != nil {
			return nil, fmt.Errorf("claim of %s failed: %w", acc.Address, err)
		}
		result.Receipts = append(result.Receipts, claim)
		result.Claimed[acc.Address] = s.assets.Reward.BalanceOf(acc.Address).Sub(before)

		// nobody changed stake since the distribution, both policies divide by the full pool
		sinceDistribution := ledger.Accrue(params.RewardPerBlock, claim.Block-distribution.Block, acc.Staked, total)
		result.ExpectedClaimed[acc.Address] = acc.PendingRewards.Add(sinceDistribution)
	}

	result.Returned = make(map[common.Address]sdkmath.Int)
	for _, acc := range result.Accounts {
		before := s.assets.LP.BalanceOf(acc.Address)
		withdrawal, err := s.Withdraw(ctx, acc.Address)
		if err != nil {
			return nil, fmt.Errorf("withdrawal of %s failed: %w", acc.Address, err)
		}
		result.Receipts = append(result.Receipts, withdrawal)
		result.Returned[acc.Address] = s.assets.LP.BalanceOf(acc.Address).Sub(before)
	}

	return result, nil
}
