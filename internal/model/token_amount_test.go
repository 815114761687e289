package model

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestSplitPair(t *testing.T) {
	base, quote, err := SplitPair("BTC-USDT")
	if err != nil {
		t.Fatalf("split pair, err: %+v", err)
	}
	if base != "BTC" || quote != "USDT" {
		t.Fatalf("split pair mismatch: got %s/%s", base, quote)
	}
}

func TestSplitPairInvalid(t *testing.T) {
	for _, pair := range []string{"", "BTCUSDT", "-USDT", "BTC-"} {
		if _, _, err := SplitPair(pair); err == nil {
			t.Fatalf("expected error for pair %q", pair)
		}
	}
}

func TestCombinePairRoundTrip(t *testing.T) {
	pair := CombinePair("ETH", "BTC")
	base, quote, err := SplitPair(pair)
	if err != nil {
		t.Fatalf("split pair, err: %+v", err)
	}
	if base != "ETH" || quote != "BTC" {
		t.Fatalf("round trip mismatch: got %s/%s", base, quote)
	}
}

func TestTokenAmountScale(t *testing.T) {
	ta := NewTokenAmount("USDT", decimal.RequireFromString("100"))
	ta.Scale(decimal.RequireFromString("0.5"))
	if !ta.Amount.Equal(decimal.RequireFromString("50")) {
		t.Fatalf("scale mismatch: got %s", ta.Amount)
	}

	var nilEntry *TokenAmount
	nilEntry.Scale(decimal.RequireFromString("0.5"))
}
