package model

import "time"

const poolStateID = "pool"

// PoolStateDocument is the singleton holding pool wide totals.
type PoolStateDocument struct {
	ID          string `bson:"_id" json:"id"` // Always "pool"
	TotalStaked string `bson:"total_staked" json:"total_staked"`
	LastBlock   uint64 `bson:"last_block" json:"last_block"`
	Nonce       uint64 `bson:"nonce" json:"nonce"`
	Accounts    int64  `bson:"accounts" json:"accounts"`
	UpdatedAt   int64  `bson:"updated_at" json:"updated_at"`
}

func NewPoolStateDocument(totalStaked string, lastBlock, nonce uint64, accounts int64) *PoolStateDocument {
	return &PoolStateDocument{
		ID:          poolStateID,
		TotalStaked: totalStaked,
		LastBlock:   lastBlock,
		Nonce:       nonce,
		Accounts:    accounts,
		UpdatedAt:   time.Now().Unix(),
	}
}

func PoolStateID() string {
	return poolStateID
}
