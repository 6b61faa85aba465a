package address

import (
	"fmt"
	"strings"

	"github.com/a2sh3r/onagui-ledger/internal/apperrors"
	"github.com/ethereum/go-ethereum/common"
)

// ValidateEVM accepts 0x-prefixed hex addresses. Mixed-case input must carry a valid EIP-55 checksum.
func ValidateEVM(addr string) (string, error) {
	addr = strings.TrimSpace(addr)
	if !common.IsHexAddress(addr) || !strings.HasPrefix(strings.ToLower(addr), "0x") {
		return "", fmt.Errorf("%w: not a hex address", apperrors.ErrInvalidAddress)
	}
	body := addr[2:]
	if body != strings.ToLower(body) && body != strings.ToUpper(body) {
		if common.HexToAddress(addr).Hex() != addr {
			return "", fmt.Errorf("%w: bad checksum", apperrors.ErrInvalidAddress)
		}
	}
	return common.HexToAddress(addr).Hex(), nil
}
