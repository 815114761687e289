package budget

import (
	"github.com/shopspring/decimal"
	"github.com/yanun0323/errors"

	"main/internal/model"
)

// PricedOrder is a trade intent with its funding requirements resolved: what
// the trade draws from the account, what it pays in fees and what it returns.
// It is produced once by Price and only ever shrinks afterwards.
type PricedOrder struct {
	intent TradeIntent

	// Amount is the current order amount in base units. It starts at the
	// intent amount and only moves down.
	Amount decimal.Decimal

	// OrderCollateral is the balance the order itself consumes, nil when the
	// variant draws none.
	OrderCollateral *model.TokenAmount

	// PercentFeeCollateral is the extra balance the percent fee consumes,
	// nil when the fee is deducted from returns instead.
	PercentFeeCollateral *model.TokenAmount

	// PercentFeeValue is the percent fee expressed as a value, regardless of
	// which side of the trade funds it.
	PercentFeeValue *model.TokenAmount

	// FixedFeeCollaterals are the flat fees in fee-model declaration order.
	FixedFeeCollaterals []model.TokenAmount

	// PotentialReturns is what a full fill pays out, nil when the open
	// contract itself is the return.
	PotentialReturns *model.TokenAmount

	// Resized reports whether any balance adjustment shrank the order.
	Resized bool
}

// Intent returns the immutable intent this order was priced from.
func (o *PricedOrder) Intent() TradeIntent {
	return o.intent
}

// IsZero reports whether the order has been shrunk to nothing.
func (o *PricedOrder) IsZero() bool {
	return o.Amount.IsZero()
}

// Price resolves the collateral, fee and returns entries of an intent against
// the venue capabilities. The population order is fixed: order collateral
// first, percent fee against it, flat fees, returns, then the fee impact on
// returns. Provider failures propagate; no entry is retried.
func Price(intent TradeIntent, provider CollateralPricingProvider) (*PricedOrder, error) {
	if err := intent.Validate(); err != nil {
		return nil, err
	}

	rules, err := rulesFor(intent.Variant)
	if err != nil {
		return nil, err
	}

	o := &PricedOrder{
		intent: intent,
		Amount: intent.Amount,
	}

	if err := o.populateOrderCollateral(rules, provider); err != nil {
		return nil, errors.Wrap(err, "populate order collateral")
	}

	if err := o.populatePercentFeeCollateral(rules, provider); err != nil {
		return nil, errors.Wrap(err, "populate percent fee collateral")
	}

	if err := o.populateFixedFeeCollaterals(provider); err != nil {
		return nil, errors.Wrap(err, "populate fixed fee collaterals")
	}

	if err := o.populatePotentialReturns(rules, provider); err != nil {
		return nil, errors.Wrap(err, "populate potential returns")
	}

	if err := o.applyFeeImpactOnReturns(provider); err != nil {
		return nil, errors.Wrap(err, "apply fee impact on returns")
	}

	return o, nil
}

func (o *PricedOrder) populateOrderCollateral(rules variantRules, provider CollateralPricingProvider) error {
	token, drawsCollateral, err := rules.collateralToken(o.intent, provider)
	if err != nil {
		return err
	}
	if !drawsCollateral {
		return nil
	}

	sizeToken, orderSize, err := o.intent.sizeTokenAndOrderSize()
	if err != nil {
		return err
	}

	factor, err := sizeCollateralPrice(o.intent, sizeToken, token, provider)
	if err != nil {
		return err
	}

	amount := orderSize.Mul(factor).Div(rules.collateralDivisor(o.intent))
	o.OrderCollateral = &model.TokenAmount{Token: token, Amount: amount}
	return nil
}

func (o *PricedOrder) populatePercentFeeCollateral(rules variantRules, provider CollateralPricingProvider) error {
	impact, err := provider.FeeImpactOnOrderCost(o)
	if err != nil {
		return err
	}
	if impact == nil {
		return nil
	}

	entry := *impact
	if rules.scaleFeeByLeverage {
		// The fee is charged on notional but funded from margin-sized
		// collateral.
		entry.Amount = entry.Amount.Mul(o.intent.Leverage)
	}

	o.PercentFeeCollateral = &entry
	value := entry
	o.PercentFeeValue = &value
	return nil
}

func (o *PricedOrder) populateFixedFeeCollaterals(provider CollateralPricingProvider) error {
	flatFees, err := provider.FlatFees(o)
	if err != nil {
		return err
	}
	if len(flatFees) == 0 {
		return nil
	}

	o.FixedFeeCollaterals = make([]model.TokenAmount, len(flatFees))
	copy(o.FixedFeeCollaterals, flatFees)
	return nil
}

func (o *PricedOrder) populatePotentialReturns(rules variantRules, provider CollateralPricingProvider) error {
	returns, err := rules.potentialReturns(o.intent, provider)
	if err != nil {
		return err
	}

	o.PotentialReturns = returns
	return nil
}

func (o *PricedOrder) applyFeeImpactOnReturns(provider CollateralPricingProvider) error {
	if o.PotentialReturns == nil {
		return nil
	}

	impact, ok, err := provider.FeeImpactOnOrderReturns(o)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	if o.PercentFeeValue == nil {
		o.PercentFeeValue = &model.TokenAmount{Token: o.PotentialReturns.Token, Amount: impact}
	}

	o.PotentialReturns.Amount = o.PotentialReturns.Amount.Sub(impact)
	return nil
}

// sizeCollateralPrice converts the order size token into the collateral
// token: identity for the same token, the order price (or its inverse) inside
// the pair, an oracle cross-pair lookup otherwise.
func sizeCollateralPrice(intent TradeIntent, sizeToken, collateralToken string, oracle PriceOracle) (decimal.Decimal, error) {
	if collateralToken == sizeToken {
		return decimal.New(1, 0), nil
	}

	base, quote, err := model.SplitPair(intent.Pair)
	if err != nil {
		return decimal.Decimal{}, err
	}

	switch {
	case collateralToken == base && sizeToken == quote:
		return decimal.New(1, 0).Div(intent.Price), nil
	case collateralToken == quote && sizeToken == base:
		return intent.Price, nil
	default:
		price, err := oracle.Price(model.CombinePair(sizeToken, collateralToken), true)
		if err != nil {
			return decimal.Decimal{}, errors.Wrap(err, "cross collateral price")
		}
		return price, nil
	}
}
