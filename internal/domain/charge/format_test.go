package charge_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/rcarvalho-pb/kyc_deposit-go/internal/domain/charge"
)

func TestFormatBRL(t *testing.T) {
	assert.Equal(t, "R$ 4,90", charge.FormatBRL(decimal.RequireFromString("4.9")))
	assert.Equal(t, "R$ 10,00", charge.FormatBRL(decimal.NewFromInt(10)))
}
