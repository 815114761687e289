package model

import (
	"strings"

	"github.com/shopspring/decimal"

	"main/pkg/exception"
)

// TokenAmount is an amount denominated in a single token. It is moved and
// scaled as one unit during balance adjustment.
type TokenAmount struct {
	Token  string
	Amount decimal.Decimal
}

func NewTokenAmount(token string, amount decimal.Decimal) TokenAmount {
	return TokenAmount{Token: token, Amount: amount}
}

// Scale multiplies the amount in place.
func (ta *TokenAmount) Scale(scaler decimal.Decimal) {
	if ta == nil {
		return
	}
	ta.Amount = ta.Amount.Mul(scaler)
}

// SplitPair splits a BASE-QUOTE trading pair into its legs.
func SplitPair(pair string) (base, quote string, err error) {
	idx := strings.IndexByte(pair, '-')
	if idx <= 0 || idx == len(pair)-1 {
		return "", "", exception.ErrInvalidTradingPair
	}
	return pair[:idx], pair[idx+1:], nil
}

// CombinePair builds a BASE-QUOTE trading pair from its legs.
func CombinePair(base, quote string) string {
	return base + "-" + quote
}
