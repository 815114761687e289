package budget_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"main/internal/budget"
	"main/internal/fees"
	"main/internal/model/enum"
)

type recordingSink struct {
	records []budget.AdjustmentRecord
}

func (s *recordingSink) RecordAdjustment(record budget.AdjustmentRecord) error {
	s.records = append(s.records, record)
	return nil
}

func TestCheckerAdjustCandidateBestEffort(t *testing.T) {
	venue := &fees.Venue{}
	checker := budget.NewChecker(newProvider(venue, nil), budget.StaticBalances{"USDT": d("500")})

	intent := budget.NewSpotIntent("BTC-USDT", enum.OrderSideBuy, enum.OrderTypeLimit, false, d("10"), d("100"))

	o, err := checker.AdjustCandidate(intent, false)
	require.NoError(t, err)

	assert.True(t, o.Amount.Equal(d("5")), "amount %s", o.Amount)
	assert.True(t, o.Resized)
}

func TestCheckerAdjustCandidateAllOrNone(t *testing.T) {
	venue := &fees.Venue{}
	checker := budget.NewChecker(newProvider(venue, nil), budget.StaticBalances{"USDT": d("500")})

	intent := budget.NewSpotIntent("BTC-USDT", enum.OrderSideBuy, enum.OrderTypeLimit, false, d("10"), d("100"))

	o, err := checker.AdjustCandidate(intent, true)
	require.NoError(t, err)

	requireZeroed(t, o)
}

func TestCheckerAdjustCandidateSufficientIsUntouched(t *testing.T) {
	venue := &fees.Venue{}
	checker := budget.NewChecker(newProvider(venue, nil), budget.StaticBalances{"USDT": d("5000")})

	intent := budget.NewSpotIntent("BTC-USDT", enum.OrderSideBuy, enum.OrderTypeLimit, false, d("10"), d("100"))

	o, err := checker.AdjustCandidate(intent, true)
	require.NoError(t, err)

	assert.True(t, o.Amount.Equal(d("10")))
	assert.False(t, o.Resized)
}

func TestCheckerBatchDebitsEarlierClaims(t *testing.T) {
	venue := &fees.Venue{}
	checker := budget.NewChecker(newProvider(venue, nil), budget.StaticBalances{"USDT": d("1500")})

	intents := []budget.TradeIntent{
		budget.NewSpotIntent("BTC-USDT", enum.OrderSideBuy, enum.OrderTypeLimit, false, d("10"), d("100")),
		budget.NewSpotIntent("ETH-USDT", enum.OrderSideBuy, enum.OrderTypeLimit, false, d("10"), d("100")),
	}

	adjusted, err := checker.AdjustCandidates(intents, false)
	require.NoError(t, err)
	require.Len(t, adjusted, 2)

	// The first candidate takes 1000 USDT; the second sees only the rest.
	assert.True(t, adjusted[0].Amount.Equal(d("10")))
	assert.False(t, adjusted[0].Resized)
	assert.True(t, adjusted[1].Amount.Equal(d("5")), "amount %s", adjusted[1].Amount)
	assert.True(t, adjusted[1].Resized)
}

func TestCheckerBatchAllOrNoneZeroesOverflow(t *testing.T) {
	venue := &fees.Venue{}
	checker := budget.NewChecker(newProvider(venue, nil), budget.StaticBalances{"USDT": d("1500")})

	intents := []budget.TradeIntent{
		budget.NewSpotIntent("BTC-USDT", enum.OrderSideBuy, enum.OrderTypeLimit, false, d("10"), d("100")),
		budget.NewSpotIntent("ETH-USDT", enum.OrderSideBuy, enum.OrderTypeLimit, false, d("10"), d("100")),
	}

	adjusted, err := checker.AdjustCandidates(intents, true)
	require.NoError(t, err)
	require.Len(t, adjusted, 2)

	assert.True(t, adjusted[0].Amount.Equal(d("10")))
	requireZeroed(t, adjusted[1])
}

func TestCheckerBatchZeroedCandidateFreesBalance(t *testing.T) {
	venue := &fees.Venue{}
	checker := budget.NewChecker(newProvider(venue, nil), budget.StaticBalances{"USDT": d("1500")})

	intents := []budget.TradeIntent{
		budget.NewSpotIntent("BTC-USDT", enum.OrderSideBuy, enum.OrderTypeLimit, false, d("20"), d("100")),
		budget.NewSpotIntent("ETH-USDT", enum.OrderSideBuy, enum.OrderTypeLimit, false, d("10"), d("100")),
	}

	adjusted, err := checker.AdjustCandidates(intents, true)
	require.NoError(t, err)

	// The zeroed first candidate locks nothing, so the second one funds in
	// full.
	requireZeroed(t, adjusted[0])
	assert.True(t, adjusted[1].Amount.Equal(d("10")))
	assert.False(t, adjusted[1].Resized)
}

func TestCheckerLocksDoNotLeakBetweenTicks(t *testing.T) {
	venue := &fees.Venue{}
	checker := budget.NewChecker(newProvider(venue, nil), budget.StaticBalances{"USDT": d("1000")})

	intent := budget.NewSpotIntent("BTC-USDT", enum.OrderSideBuy, enum.OrderTypeLimit, false, d("10"), d("100"))

	for range 3 {
		adjusted, err := checker.AdjustCandidates([]budget.TradeIntent{intent}, true)
		require.NoError(t, err)
		assert.True(t, adjusted[0].Amount.Equal(d("10")))
	}
}

func TestCheckerRecordsAdjustments(t *testing.T) {
	venue := &fees.Venue{}
	sink := &recordingSink{}
	checker := budget.NewChecker(newProvider(venue, nil), budget.StaticBalances{"USDT": d("500")}).WithAudit(sink)

	intent := budget.NewSpotIntent("BTC-USDT", enum.OrderSideBuy, enum.OrderTypeLimit, false, d("10"), d("100"))

	_, err := checker.AdjustCandidate(intent, false)
	require.NoError(t, err)

	require.Len(t, sink.records, 1)
	record := sink.records[0]
	assert.Equal(t, "BTC-USDT", record.Pair)
	assert.Equal(t, "buy", record.Side)
	assert.Equal(t, "spot", record.Variant)
	assert.True(t, record.RequestedAmount.Equal(d("10")))
	assert.True(t, record.AdjustedAmount.Equal(d("5")))
	assert.True(t, record.Resized)
	assert.False(t, record.Zeroed)
}

func TestCheckerPropagatesPricingFailure(t *testing.T) {
	venue := &fees.Venue{CollateralToken: "USDT"}
	checker := budget.NewChecker(newProvider(venue, nil), budget.StaticBalances{})

	intent := budget.NewPerpetualIntent("ETH-BTC", enum.OrderSideBuy, enum.OrderTypeLimit, false, d("10"), d("0.05"), d("2"), false)

	_, err := checker.AdjustCandidate(intent, false)
	require.Error(t, err)
	assert.ErrorContains(t, err, "price unavailable")
}
