// Package ledger holds the money rules shared by every mutation path.
// Nothing in here touches storage.
package ledger

import (
	"fmt"
	"strings"

	"github.com/a2sh3r/onagui-ledger/internal/apperrors"
	"github.com/a2sh3r/onagui-ledger/internal/models"
	"github.com/shopspring/decimal"
)

const Scale = 2

// ValidateAmount accepts strictly positive amounts with at most two decimal places.
func ValidateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: amount must be positive", apperrors.ErrInvalidAmount)
	}
	if !amount.Equal(amount.Round(Scale)) {
		return fmt.Errorf("%w: at most %d decimal places", apperrors.ErrInvalidAmount, Scale)
	}
	return nil
}

func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %v", apperrors.ErrInvalidAmount, err)
	}
	if err := ValidateAmount(d); err != nil {
		return decimal.Zero, err
	}
	return d, nil
}

// NormalizeCurrency maps an empty currency to USDT and rejects anything unsupported.
func NormalizeCurrency(c models.Currency) (models.Currency, error) {
	switch models.Currency(strings.ToUpper(string(c))) {
	case "", models.CurrencyUSDT:
		return models.CurrencyUSDT, nil
	case models.CurrencyTickets:
		return models.CurrencyTickets, nil
	}
	return "", fmt.Errorf("%w: unsupported currency %q", apperrors.ErrInvalidAmount, c)
}
