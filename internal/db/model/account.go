package model

import (
	"fmt"
	"time"

	sdkmath "cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"

	"github.com/tokenfarm-io/staking-rewards-ledger/internal/ledger"
)

// LedgerAccountDocument stores amounts as base-10 strings since they exceed int64.
type LedgerAccountDocument struct {
	ID                    string `bson:"_id" json:"id"` // checksummed address
	Order                 int64  `bson:"order" json:"order"`
	Staked                string `bson:"staked" json:"staked"`
	PendingRewards        string `bson:"pending_rewards" json:"pending_rewards"`
	CheckpointBlock       uint64 `bson:"checkpoint_block" json:"checkpoint_block"`
	CheckpointTotalStaked string `bson:"checkpoint_total_staked" json:"checkpoint_total_staked"`
	UpdatedAt             int64  `bson:"updated_at" json:"updated_at"`
}

func FromLedgerAccount(acc *ledger.Account, order int64) *LedgerAccountDocument {
	return &LedgerAccountDocument{
		ID:                    acc.Address.Hex(),
		Order:                 order,
		Staked:                acc.Staked.String(),
		PendingRewards:        acc.PendingRewards.String(),
		CheckpointBlock:       acc.Checkpoint.BlockHeight,
		CheckpointTotalStaked: acc.Checkpoint.TotalStakedAtSnapshot.String(),
		UpdatedAt:             time.Now().Unix(),
	}
}

func (d *LedgerAccountDocument) ToLedgerAccount() (ledger.Account, error) {
	if !common.IsHexAddress(d.ID) {
		return ledger.Account{}, fmt.Errorf("invalid account address %q", d.ID)
	}

	staked, err := parseAmount("staked", d.Staked)
	if err != nil {
		return ledger.Account{}, err
	}
	pending, err := parseAmount("pending_rewards", d.PendingRewards)
	if err != nil {
		return ledger.Account{}, err
	}
	snapshot, err := parseAmount("checkpoint_total_staked", d.CheckpointTotalStaked)
	if err != nil {
		return ledger.Account{}, err
	}

	return ledger.Account{
		Address:        common.HexToAddress(d.ID),
		Staked:         staked,
		PendingRewards: pending,
		Checkpoint: ledger.Checkpoint{
			BlockHeight:           d.CheckpointBlock,
			TotalStakedAtSnapshot: snapshot,
		},
	}, nil
}

func parseAmount(field, value string) (sdkmath.Int, error) {
	if value == "" {
		return sdkmath.ZeroInt(), nil
	}
	amount, ok := sdkmath.NewIntFromString(value)
	if !ok {
		return sdkmath.Int{}, fmt.Errorf("invalid %s amount %q", field, value)
	}
	return amount, nil
}
