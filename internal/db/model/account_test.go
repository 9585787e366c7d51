package model

import (
	"testing"

	sdkmath "cosmossdk.io/math"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tokenfarm-io/staking-rewards-ledger/internal/ledger"
	"github.com/tokenfarm-io/staking-rewards-ledger/internal/types"
	"github.com/tokenfarm-io/staking-rewards-ledger/testutil"
)

func TestLedgerAccountDocument(t *testing.T) {
	big, ok := sdkmath.NewIntFromString("123456789012345678901234567890")
	require.True(t, ok)

	acc := ledger.Account{
		Address:        testutil.RandomAddress(),
		Staked:         big,
		PendingRewards: sdkmath.NewInt(7),
		Checkpoint: ledger.Checkpoint{
			BlockHeight:           99,
			TotalStakedAtSnapshot: big.MulRaw(2),
		},
	}

	doc := FromLedgerAccount(&acc, 3)
	assert.Equal(t, acc.Address.Hex(), doc.ID)
	assert.Equal(t, "123456789012345678901234567890", doc.Staked)
	assert.Equal(t, int64(3), doc.Order)

	got, err := doc.ToLedgerAccount()
	require.NoError(t, err)
	assert.Equal(t, acc.Address, got.Address)
	assert.True(t, acc.Staked.Equal(got.Staked))
	assert.True(t, acc.Checkpoint.TotalStakedAtSnapshot.Equal(got.Checkpoint.TotalStakedAtSnapshot))

	doc.PendingRewards = "seven"
	_, err = doc.ToLedgerAccount()
	require.Error(t, err)

	doc.ID = "nobody"
	_, err = doc.ToLedgerAccount()
	require.Error(t, err)
}

func TestFromLedgerReceipt(t *testing.T) {
	alice := testutil.RandomAddress()
	receipt := &ledger.Receipt{
		Operation: types.OperationClaim,
		Nonce:     3,
		Block:     10,
		Events: []ledger.Event{
			{Type: types.EventRewardsAccrued, Account: alice, Amount: sdkmath.NewInt(1), Block: 10, TotalStaked: sdkmath.NewInt(5)},
			{Type: types.EventRewardsClaimed, Account: alice, Amount: sdkmath.NewInt(4), Block: 10, TotalStaked: sdkmath.NewInt(5)},
		},
	}

	docs := FromLedgerReceipt(receipt)
	require.Len(t, docs, 2)
	assert.NotEqual(t, docs[0].ID, docs[1].ID)
	assert.Equal(t, LedgerEventID(10, 3, 1, types.EventRewardsClaimed, alice.Hex()), docs[1].ID)
	assert.Equal(t, types.OperationClaim, docs[1].Operation)
	assert.Equal(t, "4", docs[1].Amount)

	// the same receipt always maps to the same ids
	again := FromLedgerReceipt(receipt)
	assert.Equal(t, docs[0].ID, again[0].ID)
}
