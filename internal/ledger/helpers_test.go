package ledger

import (
	"context"
	"errors"

	sdkmath "cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"
)

var errTransferFailed = errors.New("transfer failed")

type manualClock struct {
	block uint64
	err   error
}

func (c *manualClock) CurrentBlock(_ context.Context) (uint64, error) {
	return c.block, c.err
}

func (c *manualClock) advance(n uint64) {
	c.block += n
}

// memAsset keeps balances in memory, pool holds everything transferred in.
type memAsset struct {
	balances map[common.Address]sdkmath.Int
	pool     sdkmath.Int
	err      error
}

func newMemAsset() *memAsset {
	return &memAsset{
		balances: make(map[common.Address]sdkmath.Int),
		pool:     sdkmath.ZeroInt(),
	}
}

func (a *memAsset) fund(account common.Address, amount int64) {
	a.balances[account] = a.balance(account).AddRaw(amount)
}

func (a *memAsset) balance(account common.Address) sdkmath.Int {
	if b, ok := a.balances[account]; ok {
		return b
	}
	return sdkmath.ZeroInt()
}

func (a *memAsset) TransferIn(_ context.Context, from common.Address, amount sdkmath.Int) error {
	if a.err != nil {
		return a.err
	}
	if a.balance(from).LT(amount) {
		return errTransferFailed
	}
	a.balances[from] = a.balance(from).Sub(amount)
	a.pool = a.pool.Add(amount)
	return nil
}

func (a *memAsset) TransferOut(_ context.Context, to common.Address, amount sdkmath.Int) error {
	if a.err != nil {
		return a.err
	}
	if a.pool.LT(amount) {
		return errTransferFailed
	}
	a.pool = a.pool.Sub(amount)
	a.balances[to] = a.balance(to).Add(amount)
	return nil
}

func (a *memAsset) Mint(_ context.Context, to common.Address, amount sdkmath.Int) error {
	if a.err != nil {
		return a.err
	}
	a.balances[to] = a.balance(to).Add(amount)
	return nil
}

func (a *memAsset) BalanceOf(_ context.Context, account common.Address) (sdkmath.Int, error) {
	return a.balance(account), nil
}
