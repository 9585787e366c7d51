package chainclient

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulator(t *testing.T) {
	ctx := t.Context()
	sim := NewSimulator(100)

	height, err := sim.CurrentBlock(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), height)

	var seen uint64
	err = sim.Transact(ctx, func(ctx context.Context) error {
		seen, err = sim.CurrentBlock(ctx)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(101), seen)

	failed := errors.New("reverted")
	err = sim.Transact(ctx, func(ctx context.Context) error { return failed })
	require.ErrorIs(t, err, failed)

	assert.Equal(t, uint64(112), sim.Mine(10))
}

func TestSimulator_ConcurrentTransactions(t *testing.T) {
	ctx := t.Context()
	sim := NewSimulator(0)

	var (
		mu     sync.Mutex
		blocks = make(map[uint64]struct{})
		wg     sync.WaitGroup
	)
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = sim.Transact(ctx, func(ctx context.Context) error {
				h, _ := sim.CurrentBlock(ctx)
				mu.Lock()
				blocks[h] = struct{}{}
				mu.Unlock()
				return nil
			})
		}()
	}
	wg.Wait()

	assert.Len(t, blocks, 50)
}
