package ledger

import (
	"context"
	"fmt"
	"sync"

	sdkmath "cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"

	"github.com/tokenfarm-io/staking-rewards-ledger/internal/types"
)

// Ledger is the checkpoint-based reward accounting engine. Every mutating call
// is serialized and either commits completely or leaves the state untouched.
type Ledger struct {
	mu sync.Mutex

	params Params
	lp     Asset
	reward Asset
	clock  Clock

	accounts map[common.Address]*Account
	// order keeps first-deposit order so batch settlement is deterministic
	order       []common.Address
	totalStaked sdkmath.Int
	lastBlock   uint64
	// nonce counts committed operations
	nonce uint64
}

func New(params Params, lp, reward Asset, clock Clock) (*Ledger, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if lp == nil || reward == nil || clock == nil {
		return nil, fmt.Errorf("%w: lp asset, reward asset and clock are required", ErrInvalidParams)
	}

	return &Ledger{
		params:      params,
		lp:          lp,
		reward:      reward,
		clock:       clock,
		accounts:    make(map[common.Address]*Account),
		totalStaked: sdkmath.ZeroInt(),
	}, nil
}

func (l *Ledger) Params() Params {
	return l.params
}

// Deposit settles the account, pulls amount of LP from it and adds the amount to its stake.
func (l *Ledger) Deposit(ctx context.Context, account common.Address, amount sdkmath.Int) (*Receipt, error) {
	if amount.IsNil() || !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	block, err := l.currentBlock(ctx)
	if err != nil {
		return nil, err
	}

	acc := l.working(account)
	accrued := l.settle(&acc, block)

	if err := l.lp.TransferIn(ctx, account, amount); err != nil {
		return nil, fmt.Errorf("failed to transfer %s LP from %s: %w", amount, account, err)
	}

	total := l.totalStaked.Add(amount)
	acc.Staked = acc.Staked.Add(amount)
	acc.Checkpoint.TotalStakedAtSnapshot = total

	l.commit(block, total, acc)

	receipt := l.newReceipt(types.OperationDeposit, block, acc)
	receipt.addAccrual(acc.Address, accrued)
	receipt.addEvent(types.EventDeposited, acc.Address, amount)
	return receipt, nil
}

// Withdraw settles the account and returns its whole stake to it.
func (l *Ledger) Withdraw(ctx context.Context, account common.Address) (*Receipt, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	existing, ok := l.accounts[account]
	if !ok || !existing.Staked.IsPositive() {
		return nil, ErrNothingStaked
	}

	block, err := l.currentBlock(ctx)
	if err != nil {
		return nil, err
	}

	acc := *existing
	accrued := l.settle(&acc, block)
	principal := acc.Staked

	if err := l.lp.TransferOut(ctx, account, principal); err != nil {
		return nil, fmt.Errorf("failed to return %s LP to %s: %w", principal, account, err)
	}

	total := l.totalStaked.Sub(principal)
	acc.Staked = sdkmath.ZeroInt()
	acc.Checkpoint.TotalStakedAtSnapshot = total

	l.commit(block, total, acc)

	receipt := l.newReceipt(types.OperationWithdraw, block, acc)
	receipt.addAccrual(acc.Address, accrued)
	receipt.addEvent(types.EventWithdrawn, acc.Address, principal)
	return receipt, nil
}

// DistributeRewards settles a single account against the current block without changing stake.
// Accounts that never deposited have nothing to settle.
func (l *Ledger) DistributeRewards(ctx context.Context, account common.Address) (*Receipt, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	existing, ok := l.accounts[account]
	if !ok {
		return nil, ErrNothingStaked
	}

	block, err := l.currentBlock(ctx)
	if err != nil {
		return nil, err
	}

	acc := *existing
	accrued := l.settle(&acc, block)
	l.commit(block, l.totalStaked, acc)

	receipt := l.newReceipt(types.OperationDistribute, block, acc)
	receipt.addAccrual(acc.Address, accrued)
	return receipt, nil
}

// DistributeRewardsAll settles every known account against the same block.
// Settlement never changes the pool total, so each account's result is
// independent of the order accounts are visited in.
func (l *Ledger) DistributeRewardsAll(ctx context.Context) (*Receipt, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	block, err := l.currentBlock(ctx)
	if err != nil {
		return nil, err
	}

	settled := make([]Account, 0, len(l.order))
	accruals := make([]sdkmath.Int, 0, len(l.order))
	for _, addr := range l.order {
		acc := *l.accounts[addr]
		accruals = append(accruals, l.settle(&acc, block))
		settled = append(settled, acc)
	}
	l.commit(block, l.totalStaked, settled...)

	receipt := l.newReceipt(types.OperationDistributeAll, block, settled...)
	for i, acc := range settled {
		receipt.addAccrual(acc.Address, accruals[i])
	}
	return receipt, nil
}

// ClaimRewards settles the account and mints its whole pending balance to it.
func (l *Ledger) ClaimRewards(ctx context.Context, account common.Address) (*Receipt, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	block, err := l.currentBlock(ctx)
	if err != nil {
		return nil, err
	}

	existing, ok := l.accounts[account]
	if !ok {
		if l.params.EmptyClaim == EmptyClaimNoop {
			return l.newReceipt(types.OperationClaim, block), nil
		}
		return nil, ErrNoRewards
	}

	acc := *existing
	accrued := l.settle(&acc, block)
	amount := acc.PendingRewards

	if amount.IsZero() {
		if l.params.EmptyClaim == EmptyClaimError {
			return nil, ErrNoRewards
		}
		l.commit(block, l.totalStaked, acc)
		return l.newReceipt(types.OperationClaim, block, acc), nil
	}

	if err := l.reward.Mint(ctx, account, amount); err != nil {
		return nil, fmt.Errorf("failed to mint %s reward to %s: %w", amount, account, err)
	}

	acc.PendingRewards = sdkmath.ZeroInt()
	l.commit(block, l.totalStaked, acc)

	receipt := l.newReceipt(types.OperationClaim, block, acc)
	receipt.addAccrual(acc.Address, accrued)
	receipt.addEvent(types.EventRewardsClaimed, acc.Address, amount)
	return receipt, nil
}

// PendingRewards returns the reward units credited to the account at its last settlement.
func (l *Ledger) PendingRewards(account common.Address) sdkmath.Int {
	l.mu.Lock()
	defer l.mu.Unlock()

	if acc, ok := l.accounts[account]; ok {
		return acc.PendingRewards
	}
	return sdkmath.ZeroInt()
}

// StakingBalance returns the LP units the account currently has staked.
func (l *Ledger) StakingBalance(account common.Address) sdkmath.Int {
	l.mu.Lock()
	defer l.mu.Unlock()

	if acc, ok := l.accounts[account]; ok {
		return acc.Staked
	}
	return sdkmath.ZeroInt()
}

// Checkpoints returns the account's checkpoint, the zero checkpoint for unknown accounts.
func (l *Ledger) Checkpoints(account common.Address) Checkpoint {
	l.mu.Lock()
	defer l.mu.Unlock()

	if acc, ok := l.accounts[account]; ok {
		return acc.Checkpoint
	}
	return Checkpoint{TotalStakedAtSnapshot: sdkmath.ZeroInt()}
}

func (l *Ledger) Account(account common.Address) (Account, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	acc, ok := l.accounts[account]
	if !ok {
		return Account{}, false
	}
	return *acc, true
}

func (l *Ledger) TotalStaked() sdkmath.Int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.totalStaked
}

func (l *Ledger) Pool() PoolState {
	l.mu.Lock()
	defer l.mu.Unlock()

	return PoolState{
		TotalStaked: l.totalStaked,
		LastBlock:   l.lastBlock,
		Nonce:       l.nonce,
		Accounts:    len(l.order),
	}
}

// Snapshot returns a copy of the whole ledger state.
func (l *Ledger) Snapshot() *Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()

	accounts := make([]Account, 0, len(l.order))
	for _, addr := range l.order {
		accounts = append(accounts, *l.accounts[addr])
	}

	return &Snapshot{
		Accounts:  accounts,
		LastBlock: l.lastBlock,
		Nonce:     l.nonce,
	}
}

// Restore replaces the ledger state with snap. The snapshot is rejected if it
// breaks an account invariant; the pool total is always recomputed from the accounts.
func (l *Ledger) Restore(snap *Snapshot) error {
	accounts := make(map[common.Address]*Account, len(snap.Accounts))
	order := make([]common.Address, 0, len(snap.Accounts))

	for i := range snap.Accounts {
		acc := snap.Accounts[i]
		if err := validateAccount(&acc, snap.LastBlock); err != nil {
			return err
		}
		if _, dup := accounts[acc.Address]; dup {
			return fmt.Errorf("%w: duplicate account %s", ErrInvalidSnapshot, acc.Address)
		}
		accounts[acc.Address] = &acc
		order = append(order, acc.Address)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.accounts = accounts
	l.order = order
	l.totalStaked = snap.TotalStaked()
	l.lastBlock = snap.LastBlock
	l.nonce = snap.Nonce
	return nil
}

func validateAccount(acc *Account, lastBlock uint64) error {
	if acc.Staked.IsNil() || acc.Staked.IsNegative() {
		return fmt.Errorf("%w: account %s has negative stake", ErrInvalidSnapshot, acc.Address)
	}
	if acc.PendingRewards.IsNil() || acc.PendingRewards.IsNegative() {
		return fmt.Errorf("%w: account %s has negative pending rewards", ErrInvalidSnapshot, acc.Address)
	}
	if acc.Checkpoint.TotalStakedAtSnapshot.IsNil() {
		acc.Checkpoint.TotalStakedAtSnapshot = sdkmath.ZeroInt()
	}
	if acc.Staked.IsPositive() && !acc.Checkpoint.TotalStakedAtSnapshot.IsPositive() {
		return fmt.Errorf("%w: account %s is staked against an empty snapshot", ErrInvalidSnapshot, acc.Address)
	}
	if acc.Checkpoint.BlockHeight > lastBlock {
		return fmt.Errorf("%w: account %s checkpoint %d is ahead of block %d",
			ErrInvalidSnapshot, acc.Address, acc.Checkpoint.BlockHeight, lastBlock)
	}
	return nil
}

func (l *Ledger) currentBlock(ctx context.Context) (uint64, error) {
	block, err := l.clock.CurrentBlock(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to read current block: %w", err)
	}
	if block < l.lastBlock {
		return 0, fmt.Errorf("%w: clock at %d, ledger already at %d", ErrBlockRegression, block, l.lastBlock)
	}
	return block, nil
}

// working returns a copy of the account that can be changed freely, a fresh
// zero account if it was never seen.
func (l *Ledger) working(addr common.Address) Account {
	if acc, ok := l.accounts[addr]; ok {
		return *acc
	}
	return newAccount(addr)
}

func (l *Ledger) commit(block uint64, totalStaked sdkmath.Int, accounts ...Account) {
	for i := range accounts {
		acc := accounts[i]
		if _, ok := l.accounts[acc.Address]; !ok {
			l.order = append(l.order, acc.Address)
		}
		l.accounts[acc.Address] = &acc
	}
	l.totalStaked = totalStaked
	l.lastBlock = block
	l.nonce++
}

func (l *Ledger) newReceipt(op types.Operation, block uint64, accounts ...Account) *Receipt {
	if accounts == nil {
		accounts = []Account{}
	}
	return &Receipt{
		Operation:   op,
		Nonce:       l.nonce,
		Block:       block,
		TotalStaked: l.totalStaked,
		Accounts:    accounts,
		Events:      []Event{},
	}
}

func (r *Receipt) addAccrual(account common.Address, accrued sdkmath.Int) {
	if accrued.IsPositive() {
		r.addEvent(types.EventRewardsAccrued, account, accrued)
	}
}

func (r *Receipt) addEvent(typ types.EventType, account common.Address, amount sdkmath.Int) {
	r.Events = append(r.Events, Event{
		Type:        typ,
		Account:     account,
		Amount:      amount,
		Block:       r.Block,
		TotalStaked: r.TotalStaked,
	})
}
