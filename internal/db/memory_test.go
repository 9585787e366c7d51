package db

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tokenfarm-io/staking-rewards-ledger/internal/db/model"
	"github.com/tokenfarm-io/staking-rewards-ledger/internal/types"
)

func TestMemoryDatabase(t *testing.T) {
	ctx := t.Context()

	t.Run("accounts page in first deposit order", func(t *testing.T) {
		m := NewMemoryDatabase()
		m.pageSize = 2

		var docs []*model.LedgerAccountDocument
		for i := 4; i >= 0; i-- {
			docs = append(docs, &model.LedgerAccountDocument{ID: fmt.Sprintf("acc-%d", i), Order: int64(i)})
		}
		require.NoError(t, m.UpsertLedgerAccounts(ctx, docs))

		var seen []string
		token := ""
		for {
			page, next, err := m.FindLedgerAccountsPage(ctx, token)
			require.NoError(t, err)
			for _, acc := range page {
				seen = append(seen, acc.ID)
			}
			if next == "" {
				break
			}
			token = next
		}
		assert.Equal(t, []string{"acc-0", "acc-1", "acc-2", "acc-3", "acc-4"}, seen)

		_, _, err := m.FindLedgerAccountsPage(ctx, "%%%")
		assert.True(t, IsInvalidPaginationTokenError(err))
	})

	t.Run("missing documents", func(t *testing.T) {
		m := NewMemoryDatabase()

		_, err := m.GetLedgerAccount(ctx, "nobody")
		assert.True(t, IsNotFoundError(err))
		_, err = m.GetPoolState(ctx)
		assert.True(t, IsNotFoundError(err))

		height, err := m.GetLastProcessedBlock(ctx)
		require.NoError(t, err)
		assert.Zero(t, height)
	})

	t.Run("events are journaled once and read newest first", func(t *testing.T) {
		m := NewMemoryDatabase()
		events := []*model.LedgerEventDocument{
			{ID: "a", Account: "alice", Block: 1, Nonce: 1, Type: types.EventDeposited},
			{ID: "b", Account: "alice", Block: 2, Nonce: 2, Type: types.EventRewardsAccrued},
			{ID: "c", Account: "bob", Block: 2, Nonce: 2, Type: types.EventRewardsAccrued},
		}
		require.NoError(t, m.SaveLedgerEvents(ctx, events))
		require.NoError(t, m.SaveLedgerEvents(ctx, events[:1]))

		found, err := m.FindLedgerEventsByAccount(ctx, "alice", 10)
		require.NoError(t, err)
		require.Len(t, found, 2)
		assert.Equal(t, "b", found[0].ID)
		assert.Equal(t, "a", found[1].ID)

		found, err = m.FindLedgerEventsByAccount(ctx, "alice", 1)
		require.NoError(t, err)
		assert.Len(t, found, 1)
	})
}
