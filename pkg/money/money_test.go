package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCOP(t *testing.T) {
	assert.Equal(t, "$1.234.567", COP(1234567))
	assert.Equal(t, "$200.000", COP(200000))
	assert.Equal(t, "-$285.000", COP(-285000))
	assert.Equal(t, "$0", COP(0))
}

func TestDecimal_RedondeaAPesos(t *testing.T) {
	assert.Equal(t, "$200.001", Decimal(decimal.RequireFromString("200000.50")))
	assert.Equal(t, "$150.000", Decimal(decimal.RequireFromString("150000.49")))
}
