package services

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/tokenfarm-io/staking-rewards-ledger/internal/asset"
	"github.com/tokenfarm-io/staking-rewards-ledger/internal/config"
)

// Assets are the two tokens the pool moves, both deployed by the same account.
type Assets struct {
	LP       *asset.Token
	Reward   *asset.Token
	Pool     common.Address
	Deployer common.Address
}

// NewAssets deploys both tokens and hands the reward mint capability to the pool,
// so the pool is the only account able to create reward units.
func NewAssets(cfg *config.LedgerConfig) (*Assets, error) {
	a := &Assets{
		LP:       asset.NewToken(cfg.LPSymbol, cfg.DeployerAddress()),
		Reward:   asset.NewToken(cfg.RewardSymbol, cfg.DeployerAddress()),
		Pool:     cfg.Pool(),
		Deployer: cfg.DeployerAddress(),
	}

	if err := a.Reward.TransferMinter(a.Deployer, a.Pool); err != nil {
		return nil, fmt.Errorf("failed to hand reward minter to pool: %w", err)
	}

	return a, nil
}

func (a *Assets) lpPool() *asset.PoolAccount {
	return asset.NewPoolAccount(a.LP, a.Pool)
}

func (a *Assets) rewardPool() *asset.PoolAccount {
	return asset.NewPoolAccount(a.Reward, a.Pool)
}
