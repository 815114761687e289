package ops

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"main/internal/model/enum"
)

const testConfig = `{
	"venue": "binance",
	"pairs": ["BTC-USDT", "ETH-USDT"],
	"fees": [
		{
			"venue": "binance",
			"maker": "0.0002",
			"taker": "0.001",
			"chargedFromReturns": true,
			"flatFees": [{"token": "BNB", "amount": "0.01"}]
		}
	],
	"balances": {"USDT": "1500", "BTC": "0.5"},
	"prices": {"BTC-USDT": "50000"},
	"orders": [
		{"pair": "BTC-USDT", "side": "buy", "type": "limit", "maker": true, "amount": "0.1", "price": "50000"},
		{"pair": "BTC-USDT", "side": "sell", "variant": "perpetual", "amount": "0.1", "price": "50000", "leverage": "5", "positionClose": true}
	],
	"audit": {"enabled": false}
}`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadResolvesConfig(t *testing.T) {
	loaded, err := Load(writeConfig(t, testConfig))
	require.NoError(t, err)

	assert.Equal(t, enum.PlatformBinance, loaded.Venue)
	assert.Equal(t, []string{"BTC-USDT", "ETH-USDT"}, loaded.Pairs)

	venue, err := loaded.Fees.Venue(enum.PlatformBinance)
	require.NoError(t, err)
	assert.True(t, venue.Maker.Equal(decimal.RequireFromString("0.0002")))
	assert.True(t, venue.ChargedFromReturns)
	require.Len(t, venue.Flat, 1)
	assert.Equal(t, "BNB", venue.Flat[0].Token)

	assert.True(t, loaded.Balances["USDT"].Equal(decimal.RequireFromString("1500")))
	assert.True(t, loaded.Prices["BTC-USDT"].Equal(decimal.RequireFromString("50000")))

	require.Len(t, loaded.Orders, 2)
	assert.Equal(t, enum.VariantSpot, loaded.Orders[0].Variant)
	assert.Equal(t, enum.OrderSideBuy, loaded.Orders[0].Side)
	assert.True(t, loaded.Orders[0].IsMaker)
	assert.Equal(t, enum.VariantPerpetualClose, loaded.Orders[1].Variant)
	assert.True(t, loaded.Orders[1].Leverage.Equal(decimal.RequireFromString("5")))
}

func TestLoadRejectsUnknownVenue(t *testing.T) {
	_, err := Load(writeConfig(t, `{"venue": "kraken"}`))
	require.Error(t, err)
	assert.ErrorContains(t, err, "unknown venue")
}

func TestLoadRejectsBadDecimal(t *testing.T) {
	_, err := Load(writeConfig(t, `{
		"venue": "binance",
		"balances": {"USDT": "not-a-number"}
	}`))
	require.Error(t, err)
}

func TestLoadRejectsUnknownSide(t *testing.T) {
	_, err := Load(writeConfig(t, `{
		"venue": "binance",
		"orders": [{"pair": "BTC-USDT", "side": "hold", "amount": "1", "price": "1"}]
	}`))
	require.Error(t, err)
	assert.ErrorContains(t, err, "unknown side")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}
