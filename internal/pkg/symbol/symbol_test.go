package symbol

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	cases := []struct {
		in   string
		want Symbol
	}{
		{"XRP/USDT", Symbol{"XRP", "USDT"}},
		{"xrp/usdt", Symbol{"XRP", "USDT"}},
		{"XRP-USDT", Symbol{"XRP", "USDT"}},
		{"XRP_USDT", Symbol{"XRP", "USDT"}},
		{"XRPUSDT", Symbol{"XRP", "USDT"}},
		{"ETH/USDT:USDT", Symbol{"ETH", "USDT"}},
		{"ETHBTC", Symbol{"ETH", "BTC"}},
		{"", Symbol{}},
		{"USDT", Symbol{}},
	}
	for _, tc := range cases {
		assert.Equalf(t, tc.want, Parse(tc.in), "input %q", tc.in)
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "XRP/USDT", Normalize("xrpusdt"))
	assert.Equal(t, "", Normalize("???"))
	assert.True(t, IsValid("XRP/USDT"))
	assert.False(t, IsValid("XRP"))
}

func TestConverters(t *testing.T) {
	assert.Equal(t, "XRPUSDT", Binance.ToExchange("XRP/USDT"))
	assert.Equal(t, "XRP/USDT", Binance.FromExchange("XRPUSDT"))
	assert.Equal(t, FormatBinance, Binance.Format())

	assert.Equal(t, "XRP-USDT", OKX.ToExchange("XRP/USDT"))
	assert.Equal(t, "XRP/USDT", OKX.FromExchange("XRP-USDT"))
	assert.Equal(t, FormatOKX, OKX.Format())

	assert.Equal(t, "XRP_USDT", Gate.ToExchange("XRP/USDT"))
	assert.Equal(t, "XRP/USDT", Gate.FromExchange("XRP_USDT"))
	assert.Equal(t, FormatGate, Gate.Format())
}
