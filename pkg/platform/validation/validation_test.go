package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "warehouse/pkg/domain-errors"
)

type expenseBody struct {
	Title    string  `json:"title" validate:"required"`
	Type     string  `json:"type" validate:"required,oneof=salary operational inventory other"`
	Amount   float64 `json:"amount" validate:"gte=0"`
	Employee string  `json:"employee" validate:"required_if=Type salary"`
}

func TestStruct(t *testing.T) {
	t.Run("valid body", func(t *testing.T) {
		err := Struct(expenseBody{Title: "Rent", Type: "operational", Amount: 10})
		assert.NoError(t, err)
	})

	t.Run("uses json field names", func(t *testing.T) {
		err := Struct(expenseBody{Type: "other"})
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
		de, _ := dErrors.As(err)
		assert.Equal(t, "title is required", de.Message)
	})

	t.Run("enumerations", func(t *testing.T) {
		err := Struct(expenseBody{Title: "x", Type: "bonus"})
		require.Error(t, err)
		de, _ := dErrors.As(err)
		assert.Equal(t, "type must be one of: salary, operational, inventory, other", de.Message)
	})

	t.Run("conditional requiredness", func(t *testing.T) {
		err := Struct(expenseBody{Title: "Payroll", Type: "salary"})
		require.Error(t, err)
		de, _ := dErrors.As(err)
		assert.Equal(t, "employee is required when type is salary", de.Message)
	})

	t.Run("numeric lower bound", func(t *testing.T) {
		err := Struct(expenseBody{Title: "x", Type: "other", Amount: -1})
		require.Error(t, err)
		de, _ := dErrors.As(err)
		assert.Equal(t, "amount must be greater than or equal to 0", de.Message)
		assert.Equal(t, map[string]string{"amount": "gte"}, Fields(err))
	})
}
