package budget

import (
	"github.com/shopspring/decimal"

	"main/internal/model"
)

// AdjustFromBalances shrinks the order to the largest size the given balances
// can fully fund, never overdrawing any single token. Balances map token to
// available amount; absent tokens read as zero.
//
// Adjustment is downward-only and cumulative: each pass operates on the
// output of the previous one, and re-invoking with unchanged balances is a
// no-op. A zero order stays zero.
func (o *PricedOrder) AdjustFromBalances(availableBalances map[string]decimal.Decimal) {
	if !o.IsZero() {
		o.adjustForOrderCollateral(availableBalances)
	}
	if !o.IsZero() {
		o.adjustForPercentFeeCollateral(availableBalances)
	}
	if !o.IsZero() {
		o.adjustForFixedFeeCollaterals(availableBalances)
	}
}

func (o *PricedOrder) adjustForOrderCollateral(availableBalances map[string]decimal.Decimal) {
	if o.OrderCollateral == nil {
		return
	}

	available := availableBalances[o.OrderCollateral.Token]
	if available.LessThan(o.OrderCollateral.Amount) {
		o.scaleOrder(available.Div(o.OrderCollateral.Amount))
	}
}

func (o *PricedOrder) adjustForPercentFeeCollateral(availableBalances map[string]decimal.Decimal) {
	if o.PercentFeeCollateral == nil {
		return
	}

	// A fee sharing the collateral token draws the same balance; their needs
	// sum before the comparison.
	needed := o.PercentFeeCollateral.Amount
	if o.OrderCollateral != nil && o.OrderCollateral.Token == o.PercentFeeCollateral.Token {
		needed = needed.Add(o.OrderCollateral.Amount)
	}

	available := availableBalances[o.PercentFeeCollateral.Token]
	if available.LessThan(needed) {
		o.scaleOrder(available.Div(needed))
	}
}

// adjustForFixedFeeCollaterals checks flat fees in declaration order against
// the current, possibly already-shrunk state. When two fees share a token
// with the order or percent-fee collateral, the outcome depends on that
// declaration order; this is a deliberate tie-break, not an oversight.
func (o *PricedOrder) adjustForFixedFeeCollaterals(availableBalances map[string]decimal.Decimal) {
	for _, fixedFee := range o.FixedFeeCollaterals {
		available := availableBalances[fixedFee.Token]

		if available.LessThan(fixedFee.Amount) {
			// The fee cannot be paid at any size.
			o.SetToZero()
			break
		}

		switch {
		case o.OrderCollateral != nil && fixedFee.Token == o.OrderCollateral.Token &&
			available.LessThan(fixedFee.Amount.Add(o.OrderCollateral.Amount)):
			o.scaleOrder(available.Sub(fixedFee.Amount).Div(o.OrderCollateral.Amount))

		case o.PercentFeeCollateral != nil && fixedFee.Token == o.PercentFeeCollateral.Token &&
			available.LessThan(fixedFee.Amount.Add(o.PercentFeeCollateral.Amount)):
			o.scaleOrder(available.Sub(fixedFee.Amount).Div(o.PercentFeeCollateral.Amount))
		}

		if o.IsZero() {
			break
		}
	}
}

// scaleOrder applies one shared scaler to every linear field so that
// proportionality never drifts between them.
func (o *PricedOrder) scaleOrder(scaler decimal.Decimal) {
	o.Amount = o.Amount.Mul(scaler)
	if o.IsZero() {
		o.SetToZero()
		return
	}

	o.OrderCollateral.Scale(scaler)
	o.PercentFeeCollateral.Scale(scaler)
	o.PercentFeeValue.Scale(scaler)
	o.PotentialReturns.Scale(scaler)
	o.Resized = true
}

// SetToZero clears the order: zero amount, no collateral, no fees, no
// returns.
func (o *PricedOrder) SetToZero() {
	o.Amount = decimal.Decimal{}
	o.OrderCollateral = nil
	o.PercentFeeCollateral = nil
	o.PercentFeeValue = nil
	o.FixedFeeCollaterals = nil
	o.PotentialReturns = nil
	o.Resized = true
}

// CollateralMap aggregates every balance the order draws, summing entries
// that share a token.
func (o *PricedOrder) CollateralMap() map[string]decimal.Decimal {
	aggregated := make(map[string]decimal.Decimal)

	add := func(entry *model.TokenAmount) {
		if entry == nil {
			return
		}
		aggregated[entry.Token] = aggregated[entry.Token].Add(entry.Amount)
	}

	add(o.OrderCollateral)
	add(o.PercentFeeCollateral)
	for i := range o.FixedFeeCollaterals {
		add(&o.FixedFeeCollaterals[i])
	}

	return aggregated
}
