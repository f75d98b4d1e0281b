package locale

import (
	"sort"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslate(t *testing.T) {
	assert.Equal(t, "Dzisiaj", Translate(KeyToday, Polish))
	assert.Equal(t, "Today", Translate(KeyToday, English))
	assert.Equal(t, "Bilans całkowity", Translate(KeyBalanceTotal, Polish))

	// unknown key and unknown language fall back to the key
	assert.Equal(t, "no.such.key", Translate(Key("no.such.key"), Polish))
	assert.Equal(t, string(KeyToday), Translate(KeyToday, Language("de")))
}

func TestCatalogsHaveSameKeys(t *testing.T) {
	pl := Keys(Polish)
	en := Keys(English)
	sort.Slice(pl, func(i, j int) bool { return pl[i] < pl[j] })
	sort.Slice(en, func(i, j int) bool { return en[i] < en[j] })
	assert.Equal(t, pl, en)
	for _, k := range pl {
		assert.NotEmpty(t, Translate(k, Polish), k)
		assert.NotEmpty(t, Translate(k, English), k)
	}
}

func TestParseLanguage(t *testing.T) {
	tests := []struct {
		in   string
		want Language
		err  bool
	}{
		{in: "pl", want: Polish},
		{in: "pl-PL", want: Polish},
		{in: " en ", want: English},
		{in: "en-GB", want: English},
		{in: "", err: true},
		{in: "not a tag!", err: true},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseLanguage(tc.in)
			if tc.err {
				require.ErrorIs(t, err, ErrInvalidLanguage)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestCurrencyTable(t *testing.T) {
	assert.True(t, PLN.Rate().Equal(decimal.NewFromInt(1)))
	assert.True(t, EUR.Rate().Equal(decimal.RequireFromString("4.3")))
	assert.True(t, USD.Rate().Equal(decimal.NewFromInt(4)))
	assert.Equal(t, "zł", PLN.Symbol())
	assert.Equal(t, "€", EUR.Symbol())
	assert.Equal(t, "$", USD.Symbol())

	unknown := Currency("XYZ")
	assert.False(t, unknown.IsValid())
	assert.True(t, unknown.Rate().Equal(decimal.NewFromInt(1)))
	assert.Equal(t, "XYZ", unknown.Symbol())
}

func TestParseCurrency(t *testing.T) {
	c, err := ParseCurrency(" eur ")
	require.NoError(t, err)
	assert.Equal(t, EUR, c)

	_, err = ParseCurrency("GBP")
	require.ErrorIs(t, err, ErrInvalidCurrency)
}

func TestFormatLongDate(t *testing.T) {
	d := time.Date(2026, time.October, 16, 22, 30, 0, 0, time.UTC)
	assert.Equal(t, "16 października 2026", FormatLongDate(d, Polish))
	assert.Equal(t, "October 16, 2026", FormatLongDate(d, English))
	assert.Equal(t, "1 stycznia 2025", FormatLongDate(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), Polish))
}
