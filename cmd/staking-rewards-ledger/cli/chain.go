package cli

import (
	"context"

	"github.com/tokenfarm-io/staking-rewards-ledger/internal/clients/chainclient"
	"github.com/tokenfarm-io/staking-rewards-ledger/internal/config"
)

// newChain returns the block clock for the configured mode and a func releasing it.
// The simulator is returned undecorated so the service can run transactions on it.
func newChain(ctx context.Context, cfg *config.ChainConfig) (chainclient.ChainInterface, func(), error) {
	if cfg.Mode == config.ChainModeSimulated {
		return chainclient.NewSimulator(cfg.StartBlock), func() {}, nil
	}

	client, err := chainclient.NewChainClient(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return chainclient.NewChainClientWithMetrics(client), client.Close, nil
}
