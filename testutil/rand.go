package testutil

import (
	"crypto/rand"
	"fmt"
	"math/big"

	sdkmath "cosmossdk.io/math"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/ethereum/go-ethereum/common"
)

// RandomAlphaNum generates random alphanumeric string
// in case length <= 0 it returns empty string
func RandomAlphaNum(length int) (string, error) {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	if length <= 0 {
		return "", fmt.Errorf("length must be greater than 0")
	}

	randomString := make([]byte, length)
	for i := range randomString {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		randomString[i] = charset[num.Int64()]
	}

	return string(randomString), nil
}

// RandomAddress returns a random non-zero account address
func RandomAddress() common.Address {
	var addr common.Address
	for addr == (common.Address{}) {
		_, _ = rand.Read(addr[:])
	}
	return addr
}

// RandomAmount returns a random amount in [lo, hi]
func RandomAmount(lo, hi uint) sdkmath.Int {
	return sdkmath.NewIntFromUint64(uint64(gofakeit.UintRange(lo, hi)))
}
