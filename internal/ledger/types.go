package ledger

import (
	"context"
	"fmt"
	"math/big"

	sdkmath "cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"

	"github.com/tokenfarm-io/staking-rewards-ledger/internal/types"
)

// DenominatorPolicy selects which pool total an accrual interval is divided by.
type DenominatorPolicy string

const (
	// DenominatorCurrent divides by the pool total at settlement time
	DenominatorCurrent DenominatorPolicy = "current"
	// DenominatorSnapshot divides by the total recorded in the account's checkpoint
	DenominatorSnapshot DenominatorPolicy = "snapshot"
)

// EmptyClaimPolicy decides what a claim with nothing pending does.
type EmptyClaimPolicy string

const (
	EmptyClaimError EmptyClaimPolicy = "error"
	EmptyClaimNoop  EmptyClaimPolicy = "noop"
)

// MaxRewardPerBlock bounds the emission so that a reward over any uint64 block
// interval stays within the 256 bits an amount can hold.
var MaxRewardPerBlock = sdkmath.NewIntFromBigInt(
	new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1)),
)

type Params struct {
	RewardPerBlock sdkmath.Int       `json:"reward_per_block"`
	Denominator    DenominatorPolicy `json:"denominator"`
	EmptyClaim     EmptyClaimPolicy  `json:"empty_claim"`
}

func (p Params) Validate() error {
	if p.RewardPerBlock.IsNil() || p.RewardPerBlock.IsNegative() {
		return fmt.Errorf("%w: reward per block must be non-negative", ErrInvalidParams)
	}
	if p.RewardPerBlock.GT(MaxRewardPerBlock) {
		return fmt.Errorf("%w: reward per block must not exceed %s", ErrInvalidParams, MaxRewardPerBlock)
	}

	switch p.Denominator {
	case DenominatorCurrent, DenominatorSnapshot:
	default:
		return fmt.Errorf("%w: unknown denominator policy %q", ErrInvalidParams, p.Denominator)
	}

	switch p.EmptyClaim {
	case EmptyClaimError, EmptyClaimNoop:
	default:
		return fmt.Errorf("%w: unknown empty claim policy %q", ErrInvalidParams, p.EmptyClaim)
	}

	return nil
}

// Checkpoint is the state an account was last reconciled at.
type Checkpoint struct {
	BlockHeight           uint64      `json:"block_height"`
	TotalStakedAtSnapshot sdkmath.Int `json:"total_staked_at_snapshot"`
}

type Account struct {
	Address        common.Address `json:"address"`
	Staked         sdkmath.Int    `json:"staked"`
	PendingRewards sdkmath.Int    `json:"pending_rewards"`
	Checkpoint     Checkpoint     `json:"checkpoint"`
}

func newAccount(addr common.Address) Account {
	return Account{
		Address:        addr,
		Staked:         sdkmath.ZeroInt(),
		PendingRewards: sdkmath.ZeroInt(),
		Checkpoint: Checkpoint{
			TotalStakedAtSnapshot: sdkmath.ZeroInt(),
		},
	}
}

// Event is a single observable effect of a ledger operation.
type Event struct {
	Type    types.EventType `json:"type"`
	Account common.Address  `json:"account"`
	// Amount is LP units for stake changes and reward units otherwise
	Amount      sdkmath.Int `json:"amount"`
	Block       uint64      `json:"block"`
	TotalStaked sdkmath.Int `json:"total_staked"`
}

// Receipt describes a committed ledger operation: the block it ran at, the
// post-state of every account it touched and the events it emitted.
// Nonce is the number of operations committed so far, this one included.
type Receipt struct {
	Operation   types.Operation `json:"operation"`
	Nonce       uint64          `json:"nonce"`
	Block       uint64          `json:"block"`
	TotalStaked sdkmath.Int     `json:"total_staked"`
	Accounts    []Account       `json:"accounts"`
	Events      []Event         `json:"events"`
}

// Snapshot is the complete ledger state, used to persist and restore it.
type Snapshot struct {
	Accounts  []Account `json:"accounts"`
	LastBlock uint64    `json:"last_block"`
	Nonce     uint64    `json:"nonce"`
}

// TotalStaked sums the stake of every account in the snapshot.
func (s *Snapshot) TotalStaked() sdkmath.Int {
	total := sdkmath.ZeroInt()
	for _, acc := range s.Accounts {
		total = total.Add(acc.Staked)
	}
	return total
}

// Asset is the fungible-asset collaborator the ledger moves LP principal and
// reward units through. Amounts passed in are always positive.
type Asset interface {
	TransferIn(ctx context.Context, from common.Address, amount sdkmath.Int) error
	TransferOut(ctx context.Context, to common.Address, amount sdkmath.Int) error
	Mint(ctx context.Context, to common.Address, amount sdkmath.Int) error
	BalanceOf(ctx context.Context, account common.Address) (sdkmath.Int, error)
}

// Clock supplies the block height a call executes at.
type Clock interface {
	CurrentBlock(ctx context.Context) (uint64, error)
}

// PoolState summarizes the pool wide totals.
type PoolState struct {
	TotalStaked sdkmath.Int `json:"total_staked"`
	LastBlock   uint64      `json:"last_block"`
	Nonce       uint64      `json:"nonce"`
	Accounts    int         `json:"accounts"`
}
