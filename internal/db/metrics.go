package db

import (
	"context"
	"time"

	"github.com/tokenfarm-io/staking-rewards-ledger/internal/db/model"
	"github.com/tokenfarm-io/staking-rewards-ledger/internal/observability/metrics"
)

type DbWithMetrics struct {
	db DbInterface
}

func NewDbWithMetrics(db DbInterface) *DbWithMetrics {
	return &DbWithMetrics{db: db}
}

func (d *DbWithMetrics) Ping(ctx context.Context) error {
	return d.db.Ping(ctx)
}

func (d *DbWithMetrics) UpsertLedgerAccounts(ctx context.Context, accounts []*model.LedgerAccountDocument) error {
	return d.run("UpsertLedgerAccounts", func() error {
		return d.db.UpsertLedgerAccounts(ctx, accounts)
	})
}

func (d *DbWithMetrics) GetLedgerAccount(ctx context.Context, address string) (result *model.LedgerAccountDocument, err error) {
	//nolint:errcheck
	d.run("GetLedgerAccount", func() error {
		result, err = d.db.GetLedgerAccount(ctx, address)
		return err
	})

	return
}

func (d *DbWithMetrics) FindLedgerAccounts(ctx context.Context) (result []*model.LedgerAccountDocument, err error) {
	//nolint:errcheck
	d.run("FindLedgerAccounts", func() error {
		result, err = d.db.FindLedgerAccounts(ctx)
		return err
	})

	return
}

func (d *DbWithMetrics) FindLedgerAccountsPage(
	ctx context.Context, paginationToken string,
) (result []*model.LedgerAccountDocument, next string, err error) {
	//nolint:errcheck
	d.run("FindLedgerAccountsPage", func() error {
		result, next, err = d.db.FindLedgerAccountsPage(ctx, paginationToken)
		return err
	})

	return
}

func (d *DbWithMetrics) UpsertPoolState(ctx context.Context, pool *model.PoolStateDocument) error {
	return d.run("UpsertPoolState", func() error {
		return d.db.UpsertPoolState(ctx, pool)
	})
}

func (d *DbWithMetrics) GetPoolState(ctx context.Context) (result *model.PoolStateDocument, err error) {
	//nolint:errcheck
	d.run("GetPoolState", func() error {
		result, err = d.db.GetPoolState(ctx)
		return err
	})

	return
}

func (d *DbWithMetrics) SaveLedgerEvents(ctx context.Context, events []*model.LedgerEventDocument) error {
	return d.run("SaveLedgerEvents", func() error {
		return d.db.SaveLedgerEvents(ctx, events)
	})
}

func (d *DbWithMetrics) FindLedgerEventsByAccount(
	ctx context.Context, address string, limit int64,
) (result []*model.LedgerEventDocument, err error) {
	//nolint:errcheck
	d.run("FindLedgerEventsByAccount", func() error {
		result, err = d.db.FindLedgerEventsByAccount(ctx, address, limit)
		return err
	})

	return
}

func (d *DbWithMetrics) GetLastProcessedBlock(ctx context.Context) (result uint64, err error) {
	//nolint:errcheck
	d.run("GetLastProcessedBlock", func() error {
		result, err = d.db.GetLastProcessedBlock(ctx)
		return err
	})

	return
}

func (d *DbWithMetrics) UpdateLastProcessedBlock(ctx context.Context, height uint64) error {
	return d.run("UpdateLastProcessedBlock", func() error {
		return d.db.UpdateLastProcessedBlock(ctx, height)
	})
}

// run is private method that executes passed lambda function and send metrics data with spent time, method name
// and an error if any. It returns the error from the lambda function for convenience
func (d *DbWithMetrics) run(method string, f func() error) error {
	startTime := time.Now()
	err := f()
	duration := time.Since(startTime)

	metrics.RecordDbLatency(duration, method, err != nil)
	return err
}
