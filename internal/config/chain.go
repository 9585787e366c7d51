package config

import (
	"fmt"
	"time"
)

const (
	// ChainModeSimulated runs an in-process chain whose height moves one block per transaction
	ChainModeSimulated = "simulated"
	// ChainModeRPC reads the block height from an ethereum json-rpc node
	ChainModeRPC = "rpc"

	defaultChainMaxRetryTimes = 5
	defaultChainRetryInterval = 500 * time.Millisecond
)

type ChainConfig struct {
	Mode          string        `mapstructure:"mode"`
	RPCAddr       string        `mapstructure:"rpc-addr"`
	Timeout       time.Duration `mapstructure:"timeout"`
	MaxRetryTimes uint          `mapstructure:"max-retry-times"`
	RetryInterval time.Duration `mapstructure:"retry-interval"`
	// StartBlock is the height the simulated chain starts at
	StartBlock uint64 `mapstructure:"start-block"`
}

func (cfg *ChainConfig) Validate() error {
	switch cfg.Mode {
	case ChainModeSimulated:
	case ChainModeRPC:
		if cfg.RPCAddr == "" {
			return fmt.Errorf("rpc-addr is required in rpc mode")
		}
		if cfg.Timeout <= 0 {
			return fmt.Errorf("timeout should be positive")
		}
	default:
		return fmt.Errorf("unknown chain mode %q", cfg.Mode)
	}

	if cfg.MaxRetryTimes == 0 {
		cfg.MaxRetryTimes = defaultChainMaxRetryTimes
	}
	if cfg.RetryInterval <= 0 {
		cfg.RetryInterval = defaultChainRetryInterval
	}

	return nil
}
