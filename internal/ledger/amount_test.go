package ledger

import (
	"testing"

	"github.com/a2sh3r/onagui-ledger/internal/apperrors"
	"github.com/a2sh3r/onagui-ledger/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestValidateAmount(t *testing.T) {
	tests := []struct {
		name    string
		amount  string
		wantErr error
	}{
		{"two decimals", "10.25", nil},
		{"integer", "10", nil},
		{"one cent", "0.01", nil},
		{"trailing zeros", "10.500", nil},
		{"three decimals", "10.255", apperrors.ErrInvalidAmount},
		{"zero", "0", apperrors.ErrInvalidAmount},
		{"negative", "-5.00", apperrors.ErrInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAmount(dec(tt.amount))
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestParseAmount(t *testing.T) {
	d, err := ParseAmount(" 42.10 ")
	assert.NoError(t, err)
	assert.True(t, dec("42.1").Equal(d))

	_, err = ParseAmount("abc")
	assert.ErrorIs(t, err, apperrors.ErrInvalidAmount)
}

func TestNormalizeCurrency(t *testing.T) {
	tests := []struct {
		in      models.Currency
		want    models.Currency
		wantErr bool
	}{
		{"", models.CurrencyUSDT, false},
		{"usdt", models.CurrencyUSDT, false},
		{"TICKETS", models.CurrencyTickets, false},
		{"EUR", "", true},
	}

	for _, tt := range tests {
		t.Run(string(tt.in), func(t *testing.T) {
			got, err := NormalizeCurrency(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, apperrors.ErrInvalidAmount)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
