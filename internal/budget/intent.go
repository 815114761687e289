package budget

import (
	"github.com/shopspring/decimal"

	"main/internal/model"
	"main/internal/model/enum"
	"main/pkg/exception"
)

// TradeIntent is an unsent, purely computational representation of a
// prospective trade. It is immutable; pricing and balance adjustment happen
// on the PricedOrder produced from it.
type TradeIntent struct {
	Pair      string
	Side      enum.OrderSide
	OrderType enum.OrderType
	IsMaker   bool
	Amount    decimal.Decimal
	Price     decimal.Decimal
	Variant   enum.Variant
	Leverage  decimal.Decimal
}

// NewSpotIntent builds a spot trade intent.
func NewSpotIntent(pair string, side enum.OrderSide, orderType enum.OrderType, isMaker bool, amount, price decimal.Decimal) TradeIntent {
	return TradeIntent{
		Pair:      pair,
		Side:      side,
		OrderType: orderType,
		IsMaker:   isMaker,
		Amount:    amount,
		Price:     price,
		Variant:   enum.VariantSpot,
		Leverage:  decimal.New(1, 0),
	}
}

// NewPerpetualIntent builds a derivative trade intent. positionClose marks a
// trade that reduces an existing position instead of drawing fresh margin.
func NewPerpetualIntent(pair string, side enum.OrderSide, orderType enum.OrderType, isMaker bool, amount, price, leverage decimal.Decimal, positionClose bool) TradeIntent {
	variant := enum.VariantPerpetualOpen
	if positionClose {
		variant = enum.VariantPerpetualClose
	}

	return TradeIntent{
		Pair:      pair,
		Side:      side,
		OrderType: orderType,
		IsMaker:   isMaker,
		Amount:    amount,
		Price:     price,
		Variant:   variant,
		Leverage:  leverage,
	}
}

// Validate rejects intents the pricing arithmetic cannot hold invariants for.
func (intent TradeIntent) Validate() error {
	if _, _, err := model.SplitPair(intent.Pair); err != nil {
		return err
	}

	if !intent.Side.IsAvailable() {
		return exception.ErrInvalidOrderSide
	}

	if !intent.Variant.IsAvailable() {
		return exception.ErrInvalidVariant
	}

	if intent.Amount.IsNegative() {
		return exception.ErrNegativeAmount
	}

	if intent.Variant.IsPerpetual() && !intent.Leverage.IsPositive() {
		return exception.ErrNonPositiveLeverage
	}

	return nil
}

// flipSide returns a copy of the intent on the opposite side. Used only for
// the perpetual-close returns lookup.
func (intent TradeIntent) flipSide() TradeIntent {
	flipped := intent
	flipped.Side = intent.Side.Opposite()
	return flipped
}

// sizeTokenAndOrderSize anchors every collateral conversion: a buy is sized in
// quote (amount*price), a sell in base (amount).
func (intent TradeIntent) sizeTokenAndOrderSize() (string, decimal.Decimal, error) {
	base, quote, err := model.SplitPair(intent.Pair)
	if err != nil {
		return "", decimal.Decimal{}, err
	}

	if intent.Side == enum.OrderSideBuy {
		return quote, intent.Amount.Mul(intent.Price), nil
	}

	return base, intent.Amount, nil
}
