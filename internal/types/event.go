package types

type EventType string

func (e EventType) String() string {
	return string(e)
}

const (
	EventDeposited      EventType = "ledger.v1.EventDeposited"
	EventWithdrawn      EventType = "ledger.v1.EventWithdrawn"
	EventRewardsAccrued EventType = "ledger.v1.EventRewardsAccrued"
	EventRewardsClaimed EventType = "ledger.v1.EventRewardsClaimed"
)

// IsStakeChange reports whether the event moved LP principal in or out of the pool
func IsStakeChange(t EventType) bool {
	return t == EventDeposited || t == EventWithdrawn
}
