package config

import (
	"errors"
	"time"
)

const defaultStatsPollingInterval = 5 * time.Minute

type PollerConfig struct {
	// DistributionInterval is how often every account is settled, zero disables it
	DistributionInterval time.Duration `mapstructure:"distribution-interval"`
	StatsPollingInterval time.Duration `mapstructure:"stats-polling-interval"`
}

func (cfg *PollerConfig) Validate() error {
	if cfg.DistributionInterval < 0 {
		return errors.New("distribution-interval must not be negative")
	}

	if cfg.StatsPollingInterval <= 0 {
		cfg.StatsPollingInterval = defaultStatsPollingInterval
	}

	return nil
}
