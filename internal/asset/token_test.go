package asset

import (
	"testing"

	sdkmath "cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tokenfarm-io/staking-rewards-ledger/testutil"
)

func TestToken(t *testing.T) {
	deployer := testutil.RandomAddress()
	holder := testutil.RandomAddress()
	spender := testutil.RandomAddress()

	t.Run("mint is limited to the minter", func(t *testing.T) {
		token := NewToken("RWD", deployer)

		err := token.Mint(holder, holder, sdkmath.NewInt(10))
		require.ErrorIs(t, err, ErrUnauthorizedMinter)
		assert.True(t, IsTransferError(err))

		require.NoError(t, token.Mint(deployer, holder, sdkmath.NewInt(10)))
		assert.Equal(t, "10", token.BalanceOf(holder).String())
		assert.Equal(t, "10", token.TotalSupply().String())
	})

	t.Run("minter capability can be handed over once", func(t *testing.T) {
		token := NewToken("RWD", deployer)
		pool := testutil.RandomAddress()

		require.NoError(t, token.TransferMinter(deployer, pool))
		assert.Equal(t, pool, token.Minter())

		require.ErrorIs(t, token.TransferMinter(deployer, deployer), ErrUnauthorizedMinter)
		require.ErrorIs(t, token.Mint(deployer, holder, sdkmath.NewInt(1)), ErrUnauthorizedMinter)
		require.NoError(t, token.Mint(pool, holder, sdkmath.NewInt(1)))
	})

	t.Run("transfer from consumes allowance", func(t *testing.T) {
		token := NewToken("LP", deployer)
		require.NoError(t, token.Mint(deployer, holder, sdkmath.NewInt(100)))

		err := token.TransferFrom(spender, holder, spender, sdkmath.NewInt(1))
		require.ErrorIs(t, err, ErrInsufficientApproval)

		require.NoError(t, token.Approve(holder, spender, sdkmath.NewInt(60)))
		require.NoError(t, token.TransferFrom(spender, holder, spender, sdkmath.NewInt(40)))
		assert.Equal(t, "20", token.Allowance(holder, spender).String())
		assert.Equal(t, "60", token.BalanceOf(holder).String())
		assert.Equal(t, "40", token.BalanceOf(spender).String())

		err = token.TransferFrom(spender, holder, spender, sdkmath.NewInt(21))
		require.ErrorIs(t, err, ErrInsufficientApproval)
	})

	t.Run("allowance does not cover missing balance", func(t *testing.T) {
		token := NewToken("LP", deployer)
		require.NoError(t, token.Mint(deployer, holder, sdkmath.NewInt(5)))
		require.NoError(t, token.Approve(holder, spender, sdkmath.NewInt(50)))

		err := token.TransferFrom(spender, holder, spender, sdkmath.NewInt(6))
		require.ErrorIs(t, err, ErrInsufficientBalance)
		assert.Equal(t, "50", token.Allowance(holder, spender).String())
	})

	t.Run("rejects non-positive amounts", func(t *testing.T) {
		token := NewToken("LP", deployer)
		require.ErrorIs(t, token.Transfer(holder, spender, sdkmath.ZeroInt()), ErrInvalidAmount)
		require.ErrorIs(t, token.Mint(deployer, holder, sdkmath.NewInt(-1)), ErrInvalidAmount)
		require.ErrorIs(t, token.Approve(holder, spender, sdkmath.NewInt(-1)), ErrInvalidAmount)
		require.NoError(t, token.Approve(holder, spender, sdkmath.ZeroInt()))
	})

	t.Run("holders skips empty balances", func(t *testing.T) {
		token := NewToken("LP", deployer)
		require.NoError(t, token.Mint(deployer, holder, sdkmath.NewInt(5)))
		require.NoError(t, token.Transfer(holder, spender, sdkmath.NewInt(5)))

		holders := token.Holders()
		assert.Equal(t, map[common.Address]string{spender: "5"}, stringify(holders))
	})
}

func TestPoolAccount(t *testing.T) {
	ctx := t.Context()
	deployer := testutil.RandomAddress()
	poolAddr := testutil.RandomAddress()
	staker := testutil.RandomAddress()

	lp := NewToken("LP", deployer)
	require.NoError(t, lp.Mint(deployer, staker, sdkmath.NewInt(100)))
	pool := NewPoolAccount(lp, poolAddr)

	err := pool.TransferIn(ctx, staker, sdkmath.NewInt(30))
	require.ErrorIs(t, err, ErrInsufficientApproval)

	require.NoError(t, lp.Approve(staker, poolAddr, sdkmath.NewInt(30)))
	require.NoError(t, pool.TransferIn(ctx, staker, sdkmath.NewInt(30)))

	bal, err := pool.BalanceOf(ctx, poolAddr)
	require.NoError(t, err)
	assert.Equal(t, "30", bal.String())

	require.ErrorIs(t, pool.TransferOut(ctx, staker, sdkmath.NewInt(31)), ErrInsufficientBalance)
	require.NoError(t, pool.TransferOut(ctx, staker, sdkmath.NewInt(30)))
	assert.Equal(t, "100", lp.BalanceOf(staker).String())

	require.ErrorIs(t, pool.Mint(ctx, staker, sdkmath.NewInt(1)), ErrUnauthorizedMinter)
	require.NoError(t, lp.TransferMinter(deployer, poolAddr))
	require.NoError(t, pool.Mint(ctx, staker, sdkmath.NewInt(1)))
}

func stringify(m map[common.Address]sdkmath.Int) map[common.Address]string {
	out := make(map[common.Address]string, len(m))
	for k, v := range m {
		out[k] = v.String()
	}
	return out
}
