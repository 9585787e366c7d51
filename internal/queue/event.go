package queue

import (
	"github.com/tokenfarm-io/staking-rewards-ledger/internal/ledger"
	"github.com/tokenfarm-io/staking-rewards-ledger/internal/types"
)

const LedgerEventQueueName = "ledger_event_queue"

// LedgerEvent is the message published for every ledger event.
// Amounts are base-10 strings.
type LedgerEvent struct {
	ID          string          `json:"id"`
	Operation   types.Operation `json:"operation"`
	EventType   types.EventType `json:"event_type"`
	Account     string          `json:"account"`
	Amount      string          `json:"amount"`
	Block       uint64          `json:"block"`
	Nonce       uint64          `json:"nonce"`
	TotalStaked string          `json:"total_staked"`
}

func NewLedgerEvent(id string, receipt *ledger.Receipt, ev ledger.Event) *LedgerEvent {
	return &LedgerEvent{
		ID:          id,
		Operation:   receipt.Operation,
		EventType:   ev.Type,
		Account:     ev.Account.Hex(),
		Amount:      ev.Amount.String(),
		Block:       ev.Block,
		Nonce:       receipt.Nonce,
		TotalStaked: ev.TotalStaked.String(),
	}
}
