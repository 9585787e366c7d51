package services

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/tokenfarm-io/staking-rewards-ledger/internal/observability/metrics"
	"github.com/tokenfarm-io/staking-rewards-ledger/internal/utils/poller"
)

// StartDistributionPoller settles every account periodically so pending
// rewards stay fresh without a caller asking for it.
func (s *Service) StartDistributionPoller(ctx context.Context) {
	interval := s.cfg.Poller.DistributionInterval
	if interval <= 0 {
		log.Ctx(ctx).Info().Msg("Distribution poller disabled")
		return
	}

	distributionPoller := poller.NewPoller(
		"distribution",
		interval,
		metrics.RecordPollerDuration("distribution", s.distributeAll),
	)
	go distributionPoller.Start(ctx)
}

func (s *Service) distributeAll(ctx context.Context) error {
	if s.ledger.Pool().Accounts == 0 {
		log.Ctx(ctx).Debug().Msg("No accounts - skipping distribution")
		return nil
	}

	_, err := s.DistributeRewardsAll(ctx)
	return err
}
