package asset

import (
	"sync"

	sdkmath "cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"
)

// Token is an in-memory fungible asset with allowances and a single minter.
type Token struct {
	mu sync.RWMutex

	symbol      string
	minter      common.Address
	totalSupply sdkmath.Int
	balances    map[common.Address]sdkmath.Int
	// owner => spender => remaining allowance
	allowances map[common.Address]map[common.Address]sdkmath.Int
}

// NewToken creates a token whose mint capability belongs to deployer.
func NewToken(symbol string, deployer common.Address) *Token {
	return &Token{
		symbol:      symbol,
		minter:      deployer,
		totalSupply: sdkmath.ZeroInt(),
		balances:    make(map[common.Address]sdkmath.Int),
		allowances:  make(map[common.Address]map[common.Address]sdkmath.Int),
	}
}

func (t *Token) Symbol() string {
	return t.symbol
}

func (t *Token) Minter() common.Address {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.minter
}

// TransferMinter hands the mint capability to next. Only the current minter may call it.
func (t *Token) TransferMinter(caller, next common.Address) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if caller != t.minter {
		return t.reject("transferMinter", ErrUnauthorizedMinter)
	}
	t.minter = next
	return nil
}

func (t *Token) Mint(caller, to common.Address, amount sdkmath.Int) error {
	if !isPositive(amount) {
		return t.reject("mint", ErrInvalidAmount)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if caller != t.minter {
		return t.reject("mint", ErrUnauthorizedMinter)
	}
	t.balances[to] = t.balanceOf(to).Add(amount)
	t.totalSupply = t.totalSupply.Add(amount)
	return nil
}

// Approve sets the amount spender may move out of owner's balance, replacing any previous allowance.
func (t *Token) Approve(owner, spender common.Address, amount sdkmath.Int) error {
	if amount.IsNil() || amount.IsNegative() {
		return t.reject("approve", ErrInvalidAmount)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.allowances[owner]; !ok {
		t.allowances[owner] = make(map[common.Address]sdkmath.Int)
	}
	t.allowances[owner][spender] = amount
	return nil
}

func (t *Token) Allowance(owner, spender common.Address) sdkmath.Int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.allowance(owner, spender)
}

func (t *Token) Transfer(from, to common.Address, amount sdkmath.Int) error {
	if !isPositive(amount) {
		return t.reject("transfer", ErrInvalidAmount)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.balanceOf(from).LT(amount) {
		return t.reject("transfer", ErrInsufficientBalance)
	}
	t.move(from, to, amount)
	return nil
}

// TransferFrom moves amount from owner to to on behalf of spender, consuming allowance.
func (t *Token) TransferFrom(spender, owner, to common.Address, amount sdkmath.Int) error {
	if !isPositive(amount) {
		return t.reject("transferFrom", ErrInvalidAmount)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	allowance := t.allowance(owner, spender)
	if allowance.LT(amount) {
		return t.reject("transferFrom", ErrInsufficientApproval)
	}
	if t.balanceOf(owner).LT(amount) {
		return t.reject("transferFrom", ErrInsufficientBalance)
	}

	t.allowances[owner][spender] = allowance.Sub(amount)
	t.move(owner, to, amount)
	return nil
}

func (t *Token) BalanceOf(account common.Address) sdkmath.Int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.balanceOf(account)
}

func (t *Token) TotalSupply() sdkmath.Int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.totalSupply
}

// Holders returns every account with a non-zero balance.
func (t *Token) Holders() map[common.Address]sdkmath.Int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	holders := make(map[common.Address]sdkmath.Int, len(t.balances))
	for addr, bal := range t.balances {
		if bal.IsPositive() {
			holders[addr] = bal
		}
	}
	return holders
}

func (t *Token) move(from, to common.Address, amount sdkmath.Int) {
	t.balances[from] = t.balanceOf(from).Sub(amount)
	t.balances[to] = t.balanceOf(to).Add(amount)
}

func (t *Token) balanceOf(account common.Address) sdkmath.Int {
	if bal, ok := t.balances[account]; ok {
		return bal
	}
	return sdkmath.ZeroInt()
}

func (t *Token) allowance(owner, spender common.Address) sdkmath.Int {
	if spenders, ok := t.allowances[owner]; ok {
		if amount, ok := spenders[spender]; ok {
			return amount
		}
	}
	return sdkmath.ZeroInt()
}

func (t *Token) reject(op string, err error) error {
	return &TransferError{Symbol: t.symbol, Op: op, Err: err}
}

func isPositive(amount sdkmath.Int) bool {
	return !amount.IsNil() && amount.IsPositive()
}
