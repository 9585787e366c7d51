package types

// Operation names a state-mutating ledger call. It labels metrics and journal entries.
type Operation string

const (
	OperationDeposit       Operation = "deposit"
	OperationWithdraw      Operation = "withdraw"
	OperationDistribute    Operation = "distribute"
	OperationDistributeAll Operation = "distribute_all"
	OperationClaim         Operation = "claim"
)

func (o Operation) String() string {
	return string(o)
}
