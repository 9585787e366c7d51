package config

import (
	"fmt"

	sdkmath "cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"

	"github.com/tokenfarm-io/staking-rewards-ledger/internal/ledger"
)

type LedgerConfig struct {
	// RewardPerBlock is a base-10 integer in the reward token's smallest unit
	RewardPerBlock string `mapstructure:"reward-per-block"`
	Denominator    string `mapstructure:"denominator"`
	EmptyClaim     string `mapstructure:"empty-claim"`
	PoolAddress    string `mapstructure:"pool-address"`
	// Deployer owns both tokens until the reward minter is handed to the pool
	Deployer     string `mapstructure:"deployer"`
	LPSymbol     string `mapstructure:"lp-symbol"`
	RewardSymbol string `mapstructure:"reward-symbol"`
}

func (cfg *LedgerConfig) Validate() error {
	if _, err := cfg.Params(); err != nil {
		return err
	}

	if !common.IsHexAddress(cfg.PoolAddress) {
		return fmt.Errorf("invalid pool-address %q", cfg.PoolAddress)
	}
	if !common.IsHexAddress(cfg.Deployer) {
		return fmt.Errorf("invalid deployer %q", cfg.Deployer)
	}
	if cfg.PoolAddress == cfg.Deployer {
		return fmt.Errorf("pool-address and deployer must differ")
	}

	if cfg.LPSymbol == "" || cfg.RewardSymbol == "" {
		return fmt.Errorf("lp-symbol and reward-symbol are required")
	}

	return nil
}

// Params converts the section into engine parameters. Empty policies fall back to the defaults.
func (cfg *LedgerConfig) Params() (ledger.Params, error) {
	reward, ok := sdkmath.NewIntFromString(cfg.RewardPerBlock)
	if !ok {
		return ledger.Params{}, fmt.Errorf("invalid reward-per-block %q", cfg.RewardPerBlock)
	}

	params := ledger.Params{
		RewardPerBlock: reward,
		Denominator:    ledger.DenominatorPolicy(cfg.Denominator),
		EmptyClaim:     ledger.EmptyClaimPolicy(cfg.EmptyClaim),
	}
	if params.Denominator == "" {
		params.Denominator = ledger.DenominatorCurrent
	}
	if params.EmptyClaim == "" {
		params.EmptyClaim = ledger.EmptyClaimError
	}

	return params, params.Validate()
}

func (cfg *LedgerConfig) Pool() common.Address {
	return common.HexToAddress(cfg.PoolAddress)
}

func (cfg *LedgerConfig) DeployerAddress() common.Address {
	return common.HexToAddress(cfg.Deployer)
}
