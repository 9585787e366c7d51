package chainclient

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"
)

// Simulator is an in-process chain that mines one block per transaction,
// the way a development node with automine does.
type Simulator struct {
	// txMu serializes transactions so the height is stable while one runs
	txMu   sync.Mutex
	height atomic.Uint64
}

func NewSimulator(startBlock uint64) *Simulator {
	s := &Simulator{}
	s.height.Store(startBlock)
	return s
}

func (s *Simulator) CurrentBlock(_ context.Context) (uint64, error) {
	return s.height.Load(), nil
}

// Transact mines a new block and runs tx inside it. The block is mined even
// if tx fails, like a reverted transaction still lands on chain.
func (s *Simulator) Transact(ctx context.Context, tx func(ctx context.Context) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	block := s.height.Add(1)
	log.Ctx(ctx).Debug().Uint64("block", block).Msg("simulated transaction")

	return tx(ctx)
}

// Mine advances the chain by n empty blocks and returns the new height.
func (s *Simulator) Mine(n uint64) uint64 {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	return s.height.Add(n)
}
