package kernel_test

import (
	"testing"

	"bitversity/internal/core/domain/model/kernel"
	"bitversity/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoneyFromString(t *testing.T) {
	t.Run("parses and formats", func(t *testing.T) {
		m, err := kernel.MoneyFromString("1500")

		require.NoError(t, err)
		assert.Equal(t, "1500.00", m.String())
		assert.True(t, m.IsPositive())
		require.NoError(t, m.Validate())
	})

	t.Run("zero is allowed but not positive", func(t *testing.T) {
		m, err := kernel.MoneyFromString("0")

		require.NoError(t, err)
		assert.False(t, m.IsPositive())
	})

	t.Run("rejects negative amounts", func(t *testing.T) {
		_, err := kernel.MoneyFromString("-1")

		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})

	t.Run("rejects malformed input", func(t *testing.T) {
		_, err := kernel.MoneyFromString("twelve")

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestMoney_RoundsToFourDigits(t *testing.T) {
	m, err := kernel.NewMoney(decimal.RequireFromString("10.123456"))

	require.NoError(t, err)
	assert.True(t, m.Amount().Equal(decimal.RequireFromString("10.1235")))
}

func TestMoney_Compare(t *testing.T) {
	small, _ := kernel.MoneyFromString("10")
	big, _ := kernel.MoneyFromString("20")
	sameAsSmall, _ := kernel.MoneyFromString("10.00")

	assert.Equal(t, -1, small.Cmp(big))
	assert.True(t, small.IsEqual(sameAsSmall))
	assert.True(t, kernel.OptionalMoneyEqual(nil, nil))
	assert.False(t, kernel.OptionalMoneyEqual(&small, nil))
	assert.True(t, kernel.OptionalMoneyEqual(&small, &sameAsSmall))
}

func TestMoney_ZeroValueIsInvalid(t *testing.T) {
	var m kernel.Money

	require.ErrorIs(t, m.Validate(), kernel.ErrMoneyIsNotConstructed)
}
