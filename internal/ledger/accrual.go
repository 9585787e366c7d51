package ledger

import (
	"math/big"

	sdkmath "cosmossdk.io/math"
)

// Accrue returns rewardPerBlock * elapsed * staked / denominator, truncated.
// The truncation is the only rounding loss in the ledger. A zero denominator
// yields zero since no stake can be outstanding against an empty pool.
// staked must not exceed denominator and rewardPerBlock must not exceed
// MaxRewardPerBlock, which keeps the result within 256 bits.
func Accrue(rewardPerBlock sdkmath.Int, elapsed uint64, staked, denominator sdkmath.Int) sdkmath.Int {
	if elapsed == 0 || !staked.IsPositive() || !denominator.IsPositive() || rewardPerBlock.IsZero() {
		return sdkmath.ZeroInt()
	}

	// the product can exceed the 256 bit bound of sdkmath.Int before the division
	num := new(big.Int).Mul(rewardPerBlock.BigInt(), new(big.Int).SetUint64(elapsed))
	num.Mul(num, staked.BigInt())
	num.Quo(num, denominator.BigInt())

	return sdkmath.NewIntFromBigInt(num)
}

// settle closes the account's open interval at block: it credits the reward
// accrued since the checkpoint and rolls the checkpoint forward. acc must be
// a working copy, the caller commits it.
func (l *Ledger) settle(acc *Account, block uint64) sdkmath.Int {
	accrued := sdkmath.ZeroInt()
	if block > acc.Checkpoint.BlockHeight && acc.Staked.IsPositive() {
		elapsed := block - acc.Checkpoint.BlockHeight
		accrued = Accrue(l.params.RewardPerBlock, elapsed, acc.Staked, l.denominator(acc))
		acc.PendingRewards = acc.PendingRewards.Add(accrued)
	}

	acc.Checkpoint = Checkpoint{
		BlockHeight:           block,
		TotalStakedAtSnapshot: l.totalStaked,
	}

	return accrued
}

func (l *Ledger) denominator(acc *Account) sdkmath.Int {
	if l.params.Denominator == DenominatorSnapshot {
		return acc.Checkpoint.TotalStakedAtSnapshot
	}
	return l.totalStaked
}
