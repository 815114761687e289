package fees_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"main/internal/budget"
	"main/internal/fees"
	"main/internal/model"
	"main/internal/model/enum"
	"main/internal/oracle"
)

func d(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func priced(t *testing.T, venue *fees.Venue, intent budget.TradeIntent) *budget.PricedOrder {
	t.Helper()
	provider := budget.Provider{
		FeeModel:                venue,
		PriceOracle:             oracle.NewStatic(nil),
		CollateralTokenResolver: venue,
	}
	o, err := budget.Price(intent, provider)
	require.NoError(t, err)
	return o
}

func TestVenueCostChargedFee(t *testing.T) {
	venue := &fees.Venue{Taker: d("0.002")}
	o := priced(t, venue, budget.NewSpotIntent("BTC-USDT", enum.OrderSideBuy, enum.OrderTypeLimit, false, d("1"), d("100")))

	impact, err := venue.FeeImpactOnOrderCost(o)
	require.NoError(t, err)
	require.NotNil(t, impact)
	assert.Equal(t, "USDT", impact.Token)
	assert.True(t, impact.Amount.Equal(d("0.2")), "impact %s", impact.Amount)

	_, ok, err := venue.FeeImpactOnOrderReturns(o)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVenueReturnsChargedFee(t *testing.T) {
	venue := &fees.Venue{Taker: d("0.002"), ChargedFromReturns: true}
	o := priced(t, venue, budget.NewSpotIntent("BTC-USDT", enum.OrderSideSell, enum.OrderTypeLimit, false, d("1"), d("100")))

	impact, err := venue.FeeImpactOnOrderCost(o)
	require.NoError(t, err)
	assert.Nil(t, impact)

	// Pricing already netted the fee from returns: 100 - 0.2.
	assert.True(t, o.PotentialReturns.Amount.Equal(d("99.8")), "returns %s", o.PotentialReturns.Amount)
}

func TestVenueZeroPercentHasNoImpact(t *testing.T) {
	venue := &fees.Venue{}
	o := priced(t, venue, budget.NewSpotIntent("BTC-USDT", enum.OrderSideBuy, enum.OrderTypeLimit, false, d("1"), d("100")))

	impact, err := venue.FeeImpactOnOrderCost(o)
	require.NoError(t, err)
	assert.Nil(t, impact)

	_, ok, err := venue.FeeImpactOnOrderReturns(o)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVenueFlatFees(t *testing.T) {
	venue := &fees.Venue{Flat: []model.TokenAmount{{Token: "USDT", Amount: d("1")}}}
	o := priced(t, venue, budget.NewSpotIntent("BTC-USDT", enum.OrderSideBuy, enum.OrderTypeLimit, false, d("1"), d("100")))

	flat, err := venue.FlatFees(o)
	require.NoError(t, err)
	require.Len(t, flat, 1)
	assert.Equal(t, "USDT", flat[0].Token)
}

func TestVenueCollateralTokenDefaultsToQuote(t *testing.T) {
	venue := &fees.Venue{}

	token, err := venue.BuyCollateralToken("ETH-BTC")
	require.NoError(t, err)
	assert.Equal(t, "BTC", token)

	token, err = venue.SellCollateralToken("ETH-BTC")
	require.NoError(t, err)
	assert.Equal(t, "BTC", token)

	venue.CollateralToken = "USDT"
	token, err = venue.BuyCollateralToken("ETH-BTC")
	require.NoError(t, err)
	assert.Equal(t, "USDT", token)
}

func TestScheduleLookup(t *testing.T) {
	schedule := fees.NewSchedule()
	schedule.Register(enum.PlatformBinance, &fees.Venue{Taker: d("0.001")})

	venue, err := schedule.Venue(enum.PlatformBinance)
	require.NoError(t, err)
	assert.True(t, venue.Taker.Equal(d("0.001")))

	_, err = schedule.Venue(enum.PlatformBTCC)
	require.Error(t, err)
}
