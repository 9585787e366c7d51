package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog/log"

	"github.com/tokenfarm-io/staking-rewards-ledger/consumer"
	"github.com/tokenfarm-io/staking-rewards-ledger/internal/clients/chainclient"
	"github.com/tokenfarm-io/staking-rewards-ledger/internal/config"
	"github.com/tokenfarm-io/staking-rewards-ledger/internal/db"
	"github.com/tokenfarm-io/staking-rewards-ledger/internal/db/model"
	"github.com/tokenfarm-io/staking-rewards-ledger/internal/ledger"
)

type Service struct {
	cfg           *config.Config
	db            db.DbInterface
	chain         chainclient.ChainInterface
	ledger        *ledger.Ledger
	assets        *Assets
	eventConsumer consumer.EventConsumer

	// opMu serializes an operation together with its persistence so the
	// database never sees states out of commit order
	opMu sync.Mutex

	// orders keeps the first deposit position of every persisted account
	orders map[common.Address]int64

	// dirty is set when persisting a receipt failed, the next flush writes
	// every account and the events that are still pending
	dirty         bool
	pendingEvents []*model.LedgerEventDocument
}

func NewService(
	cfg *config.Config,
	db db.DbInterface,
	chain chainclient.ChainInterface,
	eventConsumer consumer.EventConsumer,
) (*Service, error) {
	params, err := cfg.Ledger.Params()
	if err != nil {
		return nil, err
	}

	assets, err := NewAssets(&cfg.Ledger)
	if err != nil {
		return nil, err
	}

	l, err := ledger.New(params, assets.lpPool(), assets.rewardPool(), chain)
	if err != nil {
		return nil, fmt.Errorf("failed to create ledger: %w", err)
	}

	if eventConsumer == nil {
		eventConsumer = consumer.NewNoopEventConsumer()
	}

	return &Service{
		cfg:           cfg,
		db:            db,
		chain:         chain,
		ledger:        l,
		assets:        assets,
		eventConsumer: eventConsumer,
		orders:        make(map[common.Address]int64),
	}, nil
}

// StartLedgerService restores the persisted state and starts the background pollers.
func (s *Service) StartLedgerService(ctx context.Context) error {
	if err := s.Bootstrap(ctx); err != nil {
		return err
	}

	s.StartDistributionPoller(ctx)
	s.StartStatsPoller(ctx)

	log.Ctx(ctx).Info().Msg("Ledger service started")
	return nil
}

func (s *Service) Assets() *Assets {
	return s.assets
}

func (s *Service) Params() ledger.Params {
	return s.ledger.Params()
}

func (s *Service) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}
