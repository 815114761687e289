package budget

import (
	"github.com/shopspring/decimal"
	"github.com/yanun0323/errors"

	"main/internal/model"
	"main/internal/model/enum"
	"main/pkg/exception"
)

// variantRules parameterizes pricing per order variant. One shared scaling
// path serves every variant; only token resolution and the collateral/returns
// formulas differ.
type variantRules struct {
	// collateralToken names the token the order collateral is drawn in.
	// drawsCollateral=false means the variant draws none (perpetual close).
	collateralToken func(intent TradeIntent, resolver CollateralTokenResolver) (token string, drawsCollateral bool, err error)

	// collateralDivisor divides the converted order size. Leverage for
	// margin-funded variants, one otherwise.
	collateralDivisor func(intent TradeIntent) decimal.Decimal

	// scaleFeeByLeverage marks variants whose percent fee is charged on
	// notional but funded from margin-sized collateral.
	scaleFeeByLeverage bool

	// potentialReturns computes the returns entry, nil when the open
	// contract itself is the return.
	potentialReturns func(intent TradeIntent, provider CollateralPricingProvider) (*model.TokenAmount, error)
}

func rulesFor(variant enum.Variant) (variantRules, error) {
	switch variant {
	case enum.VariantSpot:
		return spotRules, nil
	case enum.VariantPerpetualOpen:
		return perpetualOpenRules, nil
	case enum.VariantPerpetualClose:
		return perpetualCloseRules, nil
	default:
		return variantRules{}, exception.ErrInvalidVariant
	}
}

var spotRules = variantRules{
	collateralToken: func(intent TradeIntent, _ CollateralTokenResolver) (string, bool, error) {
		base, quote, err := model.SplitPair(intent.Pair)
		if err != nil {
			return "", false, err
		}
		if intent.Side == enum.OrderSideBuy {
			return quote, true, nil
		}
		return base, true, nil
	},
	collateralDivisor: func(TradeIntent) decimal.Decimal {
		return decimal.New(1, 0)
	},
	potentialReturns: func(intent TradeIntent, _ CollateralPricingProvider) (*model.TokenAmount, error) {
		base, quote, err := model.SplitPair(intent.Pair)
		if err != nil {
			return nil, err
		}
		if intent.Side == enum.OrderSideBuy {
			return &model.TokenAmount{Token: base, Amount: intent.Amount}, nil
		}
		return &model.TokenAmount{Token: quote, Amount: intent.Amount.Mul(intent.Price)}, nil
	},
}

var perpetualOpenRules = variantRules{
	collateralToken:    resolverCollateralToken,
	collateralDivisor:  func(intent TradeIntent) decimal.Decimal { return intent.Leverage },
	scaleFeeByLeverage: true,
	potentialReturns: func(TradeIntent, CollateralPricingProvider) (*model.TokenAmount, error) {
		// The open contract is the return; nothing lands in a spot token.
		return nil, nil
	},
}

var perpetualCloseRules = variantRules{
	collateralToken: func(TradeIntent, CollateralTokenResolver) (string, bool, error) {
		// The existing position secures the trade.
		return "", false, nil
	},
	collateralDivisor: func(TradeIntent) decimal.Decimal {
		return decimal.New(1, 0)
	},
	potentialReturns: func(intent TradeIntent, provider CollateralPricingProvider) (*model.TokenAmount, error) {
		// Returns realize in the position's collateral token, sized by
		// notionally flipping the trade side.
		flipped := intent.flipSide()

		token, err := resolverToken(flipped, provider)
		if err != nil {
			return nil, err
		}

		sizeToken, orderSize, err := flipped.sizeTokenAndOrderSize()
		if err != nil {
			return nil, err
		}

		factor, err := sizeCollateralPrice(flipped, sizeToken, token, provider)
		if err != nil {
			return nil, err
		}

		return &model.TokenAmount{Token: token, Amount: orderSize.Mul(factor)}, nil
	},
}

func resolverCollateralToken(intent TradeIntent, resolver CollateralTokenResolver) (string, bool, error) {
	token, err := resolverToken(intent, resolver)
	if err != nil {
		return "", false, err
	}
	return token, true, nil
}

func resolverToken(intent TradeIntent, resolver CollateralTokenResolver) (string, error) {
	var (
		token string
		err   error
	)

	switch intent.Side {
	case enum.OrderSideBuy:
		token, err = resolver.BuyCollateralToken(intent.Pair)
	case enum.OrderSideSell:
		token, err = resolver.SellCollateralToken(intent.Pair)
	default:
		return "", exception.ErrInvalidOrderSide
	}
	if err != nil {
		return "", errors.Wrap(err, "resolve collateral token")
	}
	if len(token) == 0 {
		return "", exception.ErrCollateralUnresolved
	}

	return token, nil
}
