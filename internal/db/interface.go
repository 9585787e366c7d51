package db

import (
	"context"

	"github.com/tokenfarm-io/staking-rewards-ledger/internal/db/model"
)

//go:generate mockery --name=DbInterface --output=../../tests/mocks --outpkg=mocks --filename=mock_db_client.go
type DbInterface interface {
	Ping(ctx context.Context) error
	/**
	 * UpsertLedgerAccounts writes the post-operation state of the given accounts.
	 * @param ctx The context
	 * @param accounts The account documents
	 * @return An error if the operation failed
	 */
	UpsertLedgerAccounts(ctx context.Context, accounts []*model.LedgerAccountDocument) error
	/**
	 * GetLedgerAccount retrieves a single account by its checksummed address.
	 * @param ctx The context
	 * @param address The account address
	 * @return The account document or a NotFoundError
	 */
	GetLedgerAccount(ctx context.Context, address string) (*model.LedgerAccountDocument, error)
	/**
	 * FindLedgerAccounts returns every account in first deposit order.
	 * @param ctx The context
	 * @return The account documents or an error
	 */
	FindLedgerAccounts(ctx context.Context) ([]*model.LedgerAccountDocument, error)
	/**
	 * FindLedgerAccountsPage returns a page of accounts in first deposit order.
	 * @param ctx The context
	 * @param paginationToken The token returned with the previous page, empty for the first one
	 * @return The account documents, the token of the next page or an error
	 */
	FindLedgerAccountsPage(
		ctx context.Context, paginationToken string,
	) ([]*model.LedgerAccountDocument, string, error)
	UpsertPoolState(ctx context.Context, pool *model.PoolStateDocument) error
	GetPoolState(ctx context.Context) (*model.PoolStateDocument, error)
	/**
	 * SaveLedgerEvents appends events to the journal. Events already
	 * journaled are skipped so a receipt can be saved again safely.
	 * @param ctx The context
	 * @param events The event documents
	 * @return An error if the operation failed
	 */
	SaveLedgerEvents(ctx context.Context, events []*model.LedgerEventDocument) error
	FindLedgerEventsByAccount(ctx context.Context, address string, limit int64) ([]*model.LedgerEventDocument, error)
	GetLastProcessedBlock(ctx context.Context) (uint64, error)
	UpdateLastProcessedBlock(ctx context.Context, height uint64) error
}
