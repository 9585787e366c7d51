package ledger

import "errors"

var (
	// ErrInvalidAmount is returned when a zero or negative amount is passed where a positive one is required
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrNothingStaked is returned by withdraw and settle calls for accounts without stake
	ErrNothingStaked = errors.New("nothing staked")
	// ErrNoRewards is returned by a claim that would transfer zero reward units
	ErrNoRewards = errors.New("no rewards to claim")
	// ErrBlockRegression is returned when the clock reports a block below one the ledger already processed
	ErrBlockRegression = errors.New("block regression")
	ErrInvalidParams   = errors.New("invalid ledger params")
	ErrInvalidSnapshot = errors.New("invalid ledger snapshot")
)

// IsUserError reports whether err was caused by the caller's input or account state
// rather than by a collaborator or the environment.
func IsUserError(err error) bool {
	return errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrNothingStaked) ||
		errors.Is(err, ErrNoRewards)
}
