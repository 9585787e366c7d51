package chainclient

import (
	"context"
	"fmt"

	"github.com/avast/retry-go/v4"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/rs/zerolog/log"

	"github.com/tokenfarm-io/staking-rewards-ledger/internal/config"
)

// ChainClient reads the block height from an ethereum json-rpc node.
type ChainClient struct {
	client *ethclient.Client
	cfg    *config.ChainConfig
}

func NewChainClient(ctx context.Context, cfg *config.ChainConfig) (*ChainClient, error) {
	c, err := ethclient.DialContext(ctx, cfg.RPCAddr)
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", cfg.RPCAddr, err)
	}

	return &ChainClient{
		client: c,
		cfg:    cfg,
	}, nil
}

func (c *ChainClient) CurrentBlock(ctx context.Context) (uint64, error) {
	callForBlockNumber := func() (uint64, error) {
		ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()

		return c.client.BlockNumber(ctx)
	}

	height, err := clientCallWithRetry(ctx, callForBlockNumber, c.cfg)
	if err != nil {
		return 0, fmt.Errorf("failed to get block number: %w", err)
	}

	return height, nil
}

func (c *ChainClient) Close() {
	c.client.Close()
}

func clientCallWithRetry[T any](
	ctx context.Context, call retry.RetryableFuncWithData[T], cfg *config.ChainConfig,
) (T, error) {
	return retry.DoWithData(call,
		retry.Context(ctx),
		retry.Attempts(cfg.MaxRetryTimes),
		retry.Delay(cfg.RetryInterval),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			log.Ctx(ctx).Debug().
				Uint("attempt", n+1).
				Uint("max_attempts", cfg.MaxRetryTimes).
				Err(err).
				Msg("failed to call the RPC client")
		}))
}
