package model

import (
	"fmt"
	"time"

	"github.com/tokenfarm-io/staking-rewards-ledger/internal/ledger"
	"github.com/tokenfarm-io/staking-rewards-ledger/internal/types"
)

// LedgerEventDocument is an append-only journal entry of a committed ledger operation.
type LedgerEventDocument struct {
	ID          string          `bson:"_id" json:"id"`
	Operation   types.Operation `bson:"operation" json:"operation"`
	Type        types.EventType `bson:"type" json:"type"`
	Account     string          `bson:"account" json:"account"`
	Amount      string          `bson:"amount" json:"amount"`
	Block       uint64          `bson:"block" json:"block"`
	Nonce       uint64          `bson:"nonce" json:"nonce"`
	Seq         int             `bson:"seq" json:"seq"`
	TotalStaked string          `bson:"total_staked" json:"total_staked"`
	CreatedAt   int64           `bson:"created_at" json:"created_at"`
}

// LedgerEventID is unique per event since the nonce identifies the operation
// and seq the event within it. Replaying a receipt yields the same ids.
func LedgerEventID(block, nonce uint64, seq int, typ types.EventType, account string) string {
	return fmt.Sprintf("%d-%d-%d-%s-%s", block, nonce, seq, typ, account)
}

func FromLedgerReceipt(receipt *ledger.Receipt) []*LedgerEventDocument {
	docs := make([]*LedgerEventDocument, 0, len(receipt.Events))
	now := time.Now().Unix()

	for seq, ev := range receipt.Events {
		account := ev.Account.Hex()
		docs = append(docs, &LedgerEventDocument{
			ID:          LedgerEventID(ev.Block, receipt.Nonce, seq, ev.Type, account),
			Operation:   receipt.Operation,
			Type:        ev.Type,
			Account:     account,
			Amount:      ev.Amount.String(),
			Block:       ev.Block,
			Nonce:       receipt.Nonce,
			Seq:         seq,
			TotalStaked: ev.TotalStaked.String(),
			CreatedAt:   now,
		})
	}

	return docs
}
