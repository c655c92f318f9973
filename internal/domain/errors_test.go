package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationError_UnwrapSentinel(t *testing.T) {
	err := fmt.Errorf("record payment: %w", FieldError("amount", ErrInvalidPaymentAmount))

	assert.ErrorIs(t, err, ErrInvalidPaymentAmount)

	var ve *ValidationError
	assert.True(t, errors.As(err, &ve))
	assert.Equal(t, "amount", ve.Field)
	assert.Equal(t, "amount: monto de pago inválido", ve.Error())
}

func TestNewValidationError_EsInvalidInput(t *testing.T) {
	err := NewValidationError("name", "es obligatorio")
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, "name: es obligatorio", err.Error())
}
