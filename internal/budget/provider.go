package budget

import (
	"github.com/shopspring/decimal"

	"main/internal/model"
)

// FeeModel quotes the fee impact of a priced order. The engine only consumes
// these three observations; maker/taker schedules, tiers and promotions stay
// behind the implementation.
type FeeModel interface {
	// FeeImpactOnOrderCost returns the percent-fee amount charged on top of
	// the order cost, or nil when the fee does not touch the cost side.
	FeeImpactOnOrderCost(o *PricedOrder) (*model.TokenAmount, error)

	// FeeImpactOnOrderReturns returns the percent-fee amount deducted from
	// the order returns, denominated in the returns token. The bool reports
	// whether such a deduction applies.
	FeeImpactOnOrderReturns(o *PricedOrder) (decimal.Decimal, bool, error)

	// FlatFees returns the absolute-amount fees of the order, in declaration
	// order.
	FlatFees(o *PricedOrder) ([]model.TokenAmount, error)
}

// PriceOracle resolves a conversion price for a trading pair. Pricing uses it
// only for cross-asset collateral conversion.
type PriceOracle interface {
	Price(pair string, isBuy bool) (decimal.Decimal, error)
}

// CollateralTokenResolver names the venue-designated margin token of a
// derivative pair. Spot pricing never calls it.
type CollateralTokenResolver interface {
	BuyCollateralToken(pair string) (string, error)
	SellCollateralToken(pair string) (string, error)
}

// CollateralPricingProvider is everything pricing needs from the venue.
type CollateralPricingProvider interface {
	FeeModel
	PriceOracle
	CollateralTokenResolver
}

// Provider composes independent capability implementations into a
// CollateralPricingProvider.
type Provider struct {
	FeeModel
	PriceOracle
	CollateralTokenResolver
}

// BalanceReader exposes the account balances the checker draws against.
type BalanceReader interface {
	AvailableBalance(token string) decimal.Decimal
}

// StaticBalances is a fixed in-memory BalanceReader. Tokens absent from the
// map read as zero.
type StaticBalances map[string]decimal.Decimal

func (b StaticBalances) AvailableBalance(token string) decimal.Decimal {
	return b[token]
}
