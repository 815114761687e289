package exception

import "github.com/yanun0323/errors"

var (
	ErrInvalidTradingPair   = errors.New("invalid trading pair")
	ErrInvalidOrderSide     = errors.New("invalid order side")
	ErrInvalidVariant       = errors.New("invalid order variant")
	ErrNonPositiveLeverage  = errors.New("leverage must be positive")
	ErrNegativeAmount       = errors.New("amount must not be negative")
	ErrPriceUnavailable     = errors.New("price unavailable for pair")
	ErrFeeScheduleNotFound  = errors.New("fee schedule not found for venue")
	ErrCollateralUnresolved = errors.New("collateral token unresolved for pair")
)
