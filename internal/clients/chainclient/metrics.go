package chainclient

import (
	"context"
	"time"

	"github.com/tokenfarm-io/staking-rewards-ledger/internal/observability/metrics"
)

type chainClientWithMetrics struct {
	chain ChainInterface
}

func NewChainClientWithMetrics(chain ChainInterface) *chainClientWithMetrics {
	return &chainClientWithMetrics{chain: chain}
}

func (c *chainClientWithMetrics) CurrentBlock(ctx context.Context) (uint64, error) {
	height, err := runChainClientMethodWithMetrics("CurrentBlock", func() (uint64, error) {
		return c.chain.CurrentBlock(ctx)
	})
	if err == nil {
		metrics.RecordChainHeight(height)
	}
	return height, err
}

func runChainClientMethodWithMetrics[T any](method string, f func() (T, error)) (T, error) {
	startTime := time.Now()
	v, err := f()
	duration := time.Since(startTime)

	metrics.RecordChainClientLatency(duration, method, err != nil)
	return v, err
}
