package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	tests := []struct {
		name     string
		amount   string
		currency Currency
		wantErr  bool
	}{
		{"valid USD", "99.99", USD, false},
		{"valid EUR", "0", EUR, false},
		{"negative allowed (refunds)", "-10.50", USD, false},
		{"empty currency", "10", Currency(""), true},
		{"unsupported currency", "10", Currency("XXX"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := decimal.NewFromString(tt.amount)
			require.NoError(t, err)
			m, err := NewMoney(d, tt.currency)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, m.Amount().Equal(d))
			assert.Equal(t, tt.currency, m.Currency())
		})
	}
}

func TestMoney_AddSubtract(t *testing.T) {
	a := NewMoneyUSDFromFloat(100.50)
	b := NewMoneyUSDFromFloat(49.50)

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.Equal(t, "150.00", sum.StringFixed(2))

	diff, err := a.Subtract(b)
	require.NoError(t, err)
	assert.Equal(t, "51.00", diff.StringFixed(2))
}

func TestMoney_CurrencyMismatch(t *testing.T) {
	usd := NewMoneyUSDFromFloat(10)
	eur, err := NewMoneyFromFloat(10, EUR)
	require.NoError(t, err)

	_, err = usd.Add(eur)
	assert.Error(t, err)

	_, err = usd.Subtract(eur)
	assert.Error(t, err)

	_, err = usd.LessThan(eur)
	assert.Error(t, err)
}

func TestMoney_MinorUnits(t *testing.T) {
	tests := []struct {
		name     string
		amount   string
		currency Currency
		want     int64
	}{
		{"whole dollars", "100", USD, 10000},
		{"cents", "99.99", USD, 9999},
		{"rounds half up", "10.005", USD, 1001},
		{"zero-decimal JPY", "1500", JPY, 1500},
		{"JPY with fraction rounds", "1500.4", JPY, 1500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewMoneyFromString(tt.amount, tt.currency)
			require.NoError(t, err)
			assert.Equal(t, tt.want, m.MinorUnits())
		})
	}
}

func TestNewMoneyFromMinorUnits(t *testing.T) {
	m, err := NewMoneyFromMinorUnits(9999, USD)
	require.NoError(t, err)
	assert.Equal(t, "99.99", m.StringFixed(2))

	jpy, err := NewMoneyFromMinorUnits(1500, JPY)
	require.NoError(t, err)
	assert.Equal(t, "1500", jpy.StringFixed(0))
}

func TestMoney_CalculatePercentage(t *testing.T) {
	m := NewMoneyUSDFromFloat(200)
	deposit := m.CalculatePercentage(decimal.NewFromInt(30))
	assert.Equal(t, "60.00", deposit.StringFixed(2))
}

func TestMoney_Round(t *testing.T) {
	m, err := NewMoneyFromString("10.005", USD)
	require.NoError(t, err)
	assert.Equal(t, "10.01", m.Round().StringFixed(2))

	jpy, err := NewMoneyFromString("1500.5", JPY)
	require.NoError(t, err)
	assert.Equal(t, "1501", jpy.Round().StringFixed(0))
}

func TestMoney_Format(t *testing.T) {
	m := NewMoneyUSDFromFloat(1234.56)

	formatted := m.Format("en-US")
	assert.Contains(t, formatted, "$")

	// Invalid locale falls back to English, never errors
	fallback := m.Format("not-a-locale")
	assert.NotEmpty(t, fallback)
}

func TestMoney_JSONRoundTrip(t *testing.T) {
	m, err := NewMoneyFromString("49.95", EUR)
	require.NoError(t, err)

	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, `{"amount":"49.95","currency":"EUR"}`, string(data))

	parsed, err := ParseMoneyFromJSON(data)
	require.NoError(t, err)
	assert.True(t, parsed.Equals(m))
}

func TestMoney_Comparisons(t *testing.T) {
	a := NewMoneyUSDFromFloat(10)
	b := NewMoneyUSDFromFloat(20)

	lt, err := a.LessThan(b)
	require.NoError(t, err)
	assert.True(t, lt)

	gte, err := b.GreaterThanOrEqual(a)
	require.NoError(t, err)
	assert.True(t, gte)

	assert.True(t, a.Equals(NewMoneyUSDFromFloat(10)))
	assert.False(t, a.Equals(b))
}
