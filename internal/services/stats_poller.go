package services

import (
	"context"
	"fmt"
	"math/big"

	sdkmath "cosmossdk.io/math"
	"github.com/rs/zerolog/log"

	"github.com/tokenfarm-io/staking-rewards-ledger/internal/observability/metrics"
	"github.com/tokenfarm-io/staking-rewards-ledger/internal/utils/poller"
)

// PoolStats aggregates the ledger over every account.
type PoolStats struct {
	TotalStaked    sdkmath.Int `json:"total_staked"`
	PendingRewards sdkmath.Int `json:"pending_rewards"`
	Stakers        int         `json:"stakers"`
	Accounts       int         `json:"accounts"`
}

// StartStatsPoller starts the stats polling service
func (s *Service) StartStatsPoller(ctx context.Context) {
	statsPoller := poller.NewPoller(
		"stats",
		s.cfg.Poller.StatsPollingInterval,
		metrics.RecordPollerDuration("stats", s.calculateAndUpdateStats),
	)
	go statsPoller.Start(ctx)
}

func (s *Service) Stats() PoolStats {
	snap := s.ledger.Snapshot()
	stats := PoolStats{
		TotalStaked:    snap.TotalStaked(),
		PendingRewards: sdkmath.ZeroInt(),
		Accounts:       len(snap.Accounts),
	}

	for _, acc := range snap.Accounts {
		stats.PendingRewards = stats.PendingRewards.Add(acc.PendingRewards)
		if acc.Staked.IsPositive() {
			stats.Stakers++
		}
	}

	return stats
}

// calculateAndUpdateStats retries any pending persistence and exports the pool gauges
func (s *Service) calculateAndUpdateStats(ctx context.Context) error {
	log := log.Ctx(ctx)

	if err := s.Flush(ctx); err != nil {
		return fmt.Errorf("failed to flush ledger: %w", err)
	}

	stats := s.Stats()
	metrics.RecordPoolStats(toFloat(stats.TotalStaked), toFloat(stats.PendingRewards), stats.Stakers)

	log.Debug().
		Str("total_staked", stats.TotalStaked.String()).
		Str("pending_rewards", stats.PendingRewards.String()).
		Int("stakers", stats.Stakers).
		Msg("Updated pool stats")

	return nil
}

func toFloat(i sdkmath.Int) float64 {
	f, _ := new(big.Float).SetInt(i.BigInt()).Float64()
	return f
}
