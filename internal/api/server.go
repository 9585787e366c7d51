package api

import (
	"context"
	"errors"
	"net/http"

	sdkmath "cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog/log"

	"github.com/tokenfarm-io/staking-rewards-ledger/internal/config"
	"github.com/tokenfarm-io/staking-rewards-ledger/internal/db/model"
	"github.com/tokenfarm-io/staking-rewards-ledger/internal/ledger"
	"github.com/tokenfarm-io/staking-rewards-ledger/internal/services"
)

// LedgerService is what the handlers need from the service layer.
type LedgerService interface {
	Deposit(ctx context.Context, account common.Address, amount sdkmath.Int) (*ledger.Receipt, error)
	Withdraw(ctx context.Context, account common.Address) (*ledger.Receipt, error)
	ClaimRewards(ctx context.Context, account common.Address) (*ledger.Receipt, error)
	DistributeRewards(ctx context.Context, account common.Address) (*ledger.Receipt, error)
	DistributeRewardsAll(ctx context.Context) (*ledger.Receipt, error)

	PendingRewards(account common.Address) sdkmath.Int
	StakingBalance(account common.Address) sdkmath.Int
	Checkpoints(account common.Address) ledger.Checkpoint
	Account(account common.Address) (ledger.Account, bool)
	Pool() ledger.PoolState
	Params() ledger.Params
	Stats() services.PoolStats
	CurrentBlock(ctx context.Context) (uint64, error)

	StoredAccounts(ctx context.Context, paginationToken string) ([]*model.LedgerAccountDocument, string, error)
	Events(ctx context.Context, account common.Address, limit int64) ([]*model.LedgerEventDocument, error)
	Ping(ctx context.Context) error

	Simulated() bool
	Mine(ctx context.Context, n uint64) (uint64, error)
	MintLP(ctx context.Context, to common.Address, amount sdkmath.Int) (uint64, error)
	ApproveLP(ctx context.Context, owner common.Address, amount sdkmath.Int) (uint64, error)
	Balances(account common.Address) services.Balances
}

type Server struct {
	httpServer *http.Server
}

func New(cfg *config.ServerConfig, svc LedgerService) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:         cfg.Address(),
			Handler:      NewRouter(cfg, svc),
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
		},
	}
}

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	log.Info().Msgf("Starting API server on %s", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
