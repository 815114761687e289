package oracle

import (
	"sync"

	"github.com/shopspring/decimal"
	"github.com/yanun0323/errors"

	"main/internal/model"
	"main/pkg/exception"
)

// Static is an in-memory pair-to-mid-price table. It serves conversion
// lookups directly, and as the sink a live feed writes into.
type Static struct {
	mu     sync.RWMutex
	prices map[string]decimal.Decimal
}

func NewStatic(prices map[string]decimal.Decimal) *Static {
	table := make(map[string]decimal.Decimal, len(prices))
	for pair, price := range prices {
		table[pair] = price
	}

	return &Static{prices: table}
}

// Set stores the mid price of a pair.
func (s *Static) Set(pair string, price decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prices[pair] = price
}

// Price returns the conversion price of a pair, falling back to the inverse
// of the flipped pair. Mid prices serve both sides, so isBuy is accepted for
// the capability contract only.
func (s *Static) Price(pair string, _ bool) (decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if price, ok := s.prices[pair]; ok {
		return price, nil
	}

	base, quote, err := model.SplitPair(pair)
	if err != nil {
		return decimal.Decimal{}, err
	}

	if price, ok := s.prices[model.CombinePair(quote, base)]; ok && price.IsPositive() {
		return decimal.New(1, 0).Div(price), nil
	}

	return decimal.Decimal{}, errors.Wrap(exception.ErrPriceUnavailable, pair)
}
