package pkg

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

var ErrZeroAddress = errors.New("zero address")

// ParseAddress accepts a 0x prefixed 20 byte hex address. Mixed case input
// must carry a valid EIP-55 checksum.
func ParseAddress(address string) (common.Address, error) {
	if !common.IsHexAddress(address) {
		return common.Address{}, fmt.Errorf("invalid address %q", address)
	}

	addr := common.HexToAddress(address)
	if hasMixedCase(address[2:]) && addr.Hex() != address {
		return common.Address{}, fmt.Errorf("invalid address checksum %q", address)
	}
	if addr == (common.Address{}) {
		return common.Address{}, ErrZeroAddress
	}

	return addr, nil
}

func hasMixedCase(hex string) bool {
	var lower, upper bool
	for _, c := range hex {
		switch {
		case c >= 'a' && c <= 'f':
			lower = true
		case c >= 'A' && c <= 'F':
			upper = true
		}
	}
	return lower && upper
}
