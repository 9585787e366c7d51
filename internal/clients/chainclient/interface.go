package chainclient

import "context"

//go:generate mockery --name=ChainInterface --output=../../../tests/mocks --outpkg=mocks --filename=mock_chain_client.go
type ChainInterface interface {
	// CurrentBlock returns the height a call made now executes at
	CurrentBlock(ctx context.Context) (uint64, error)
}

// Transactor is implemented by chains that include every state changing call
// in a block of its own. Calls not routed through it read the latest height.
type Transactor interface {
	Transact(ctx context.Context, tx func(ctx context.Context) error) error
}
