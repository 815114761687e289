package fees

import (
	"github.com/shopspring/decimal"

	"main/internal/budget"
	"main/internal/model"
	"main/internal/model/enum"
	"main/pkg/exception"
)

// Venue is one venue's fee schedule. It implements the fee-model and
// collateral-resolver capabilities the budget engine consumes.
type Venue struct {
	// Maker and Taker are fractional percent fees, e.g. 0.001 for 10 bps.
	Maker decimal.Decimal
	Taker decimal.Decimal

	// ChargedFromReturns nets the percent fee from the trade proceeds instead
	// of charging it on top of the cost.
	ChargedFromReturns bool

	// CollateralToken is the designated margin token for derivative pairs.
	// Empty means quote-margined.
	CollateralToken string

	// Flat are absolute-amount fees applied to every order, in order.
	Flat []model.TokenAmount
}

var (
	_ budget.FeeModel                = (*Venue)(nil)
	_ budget.CollateralTokenResolver = (*Venue)(nil)
)

func (v *Venue) percentFor(o *budget.PricedOrder) decimal.Decimal {
	if o.Intent().IsMaker {
		return v.Maker
	}
	return v.Taker
}

// FeeImpactOnOrderCost charges the percent fee on top of the order collateral
// when the schedule is cost-charged. Orders drawing no collateral pay their
// percent fee out of returns regardless of the schedule mode.
func (v *Venue) FeeImpactOnOrderCost(o *budget.PricedOrder) (*model.TokenAmount, error) {
	if v.ChargedFromReturns {
		return nil, nil
	}

	percent := v.percentFor(o)
	if percent.IsZero() || o.OrderCollateral == nil {
		return nil, nil
	}

	return &model.TokenAmount{
		Token:  o.OrderCollateral.Token,
		Amount: o.OrderCollateral.Amount.Mul(percent),
	}, nil
}

// FeeImpactOnOrderReturns nets the percent fee from the returns entry when the
// cost side did not already fund it.
func (v *Venue) FeeImpactOnOrderReturns(o *budget.PricedOrder) (decimal.Decimal, bool, error) {
	percent := v.percentFor(o)
	if percent.IsZero() || o.PotentialReturns == nil {
		return decimal.Decimal{}, false, nil
	}

	if !v.ChargedFromReturns && o.OrderCollateral != nil {
		return decimal.Decimal{}, false, nil
	}

	return o.PotentialReturns.Amount.Mul(percent), true, nil
}

// FlatFees returns the schedule's flat fees verbatim.
func (v *Venue) FlatFees(*budget.PricedOrder) ([]model.TokenAmount, error) {
	return v.Flat, nil
}

// BuyCollateralToken resolves the margin token for a derivative buy.
func (v *Venue) BuyCollateralToken(pair string) (string, error) {
	return v.collateralToken(pair)
}

// SellCollateralToken resolves the margin token for a derivative sell.
func (v *Venue) SellCollateralToken(pair string) (string, error) {
	return v.collateralToken(pair)
}

func (v *Venue) collateralToken(pair string) (string, error) {
	if len(v.CollateralToken) != 0 {
		return v.CollateralToken, nil
	}

	_, quote, err := model.SplitPair(pair)
	if err != nil {
		return "", err
	}

	return quote, nil
}

// Schedule holds the fee schedules of every configured venue.
type Schedule struct {
	venues map[enum.Platform]*Venue
}

func NewSchedule() *Schedule {
	return &Schedule{venues: make(map[enum.Platform]*Venue)}
}

// Register sets the schedule of a venue, replacing any previous one.
func (s *Schedule) Register(platform enum.Platform, venue *Venue) {
	s.venues[platform] = venue
}

// Venue returns the schedule of a venue.
func (s *Schedule) Venue(platform enum.Platform) (*Venue, error) {
	venue, ok := s.venues[platform]
	if !ok {
		return nil, exception.ErrFeeScheduleNotFound
	}

	return venue, nil
}
