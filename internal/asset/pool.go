package asset

import (
	"context"

	sdkmath "cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"
)

// PoolAccount lets the ledger move a token through the pool's own address.
// Deposits need a prior Approve of the pool by the depositor, and Mint only
// succeeds once the pool holds the token's mint capability.
type PoolAccount struct {
	token *Token
	pool  common.Address
}

func NewPoolAccount(token *Token, pool common.Address) *PoolAccount {
	return &PoolAccount{token: token, pool: pool}
}

func (p *PoolAccount) Address() common.Address {
	return p.pool
}

func (p *PoolAccount) Token() *Token {
	return p.token
}

func (p *PoolAccount) TransferIn(_ context.Context, from common.Address, amount sdkmath.Int) error {
	return p.token.TransferFrom(p.pool, from, p.pool, amount)
}

func (p *PoolAccount) TransferOut(_ context.Context, to common.Address, amount sdkmath.Int) error {
	return p.token.Transfer(p.pool, to, amount)
}

func (p *PoolAccount) Mint(_ context.Context, to common.Address, amount sdkmath.Int) error {
	return p.token.Mint(p.pool, to, amount)
}

func (p *PoolAccount) BalanceOf(_ context.Context, account common.Address) (sdkmath.Int, error) {
	return p.token.BalanceOf(account), nil
}
