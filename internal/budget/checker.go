package budget

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/yanun0323/errors"
	"github.com/yanun0323/logs"
)

// AdjustmentRecord describes one checker decision for the audit trail.
type AdjustmentRecord struct {
	Pair            string
	Side            string
	Variant         string
	RequestedAmount decimal.Decimal
	AdjustedAmount  decimal.Decimal
	Resized         bool
	Zeroed          bool
	DecidedAt       time.Time
}

// AuditSink observes adjustment decisions. Sinks are optional and purely
// observational; a failing sink never fails the adjustment.
type AuditSink interface {
	RecordAdjustment(record AdjustmentRecord) error
}

// Checker is the pre-trade budget gate: it prices candidates, adjusts each
// against the balances left over by the candidates processed before it, and
// reserves the adjusted collateral so one strategy tick never claims the same
// balance twice.
type Checker struct {
	provider CollateralPricingProvider
	balances BalanceReader
	audit    AuditSink

	lockedCollateral map[string]decimal.Decimal
}

func NewChecker(provider CollateralPricingProvider, balances BalanceReader) *Checker {
	return &Checker{
		provider:         provider,
		balances:         balances,
		lockedCollateral: make(map[string]decimal.Decimal),
	}
}

// WithAudit attaches an audit sink and returns the checker.
func (c *Checker) WithAudit(audit AuditSink) *Checker {
	c.audit = audit
	return c
}

// AdjustCandidate prices and adjusts a single intent in isolation. With
// allOrNone, any shrink at all zeroes the candidate instead.
func (c *Checker) AdjustCandidate(intent TradeIntent, allOrNone bool) (*PricedOrder, error) {
	c.resetLockedCollateral()
	return c.adjustCandidateAndLock(intent, allOrNone)
}

// AdjustCandidates adjusts a batch of intents that may draw on overlapping
// balances. Each candidate sees the balances already debited by the claims of
// the candidates before it, in input order.
func (c *Checker) AdjustCandidates(intents []TradeIntent, allOrNone bool) ([]*PricedOrder, error) {
	c.resetLockedCollateral()
	defer c.resetLockedCollateral()

	adjusted := make([]*PricedOrder, 0, len(intents))
	for _, intent := range intents {
		o, err := c.adjustCandidateAndLock(intent, allOrNone)
		if err != nil {
			return nil, err
		}
		adjusted = append(adjusted, o)
	}

	return adjusted, nil
}

func (c *Checker) adjustCandidateAndLock(intent TradeIntent, allOrNone bool) (*PricedOrder, error) {
	o, err := Price(intent, c.provider)
	if err != nil {
		return nil, errors.Wrap(err, "price candidate")
	}

	o.AdjustFromBalances(c.availableBalances(o))
	if allOrNone && o.Resized {
		o.SetToZero()
	}

	c.lockCollateral(o)
	c.recordAdjustment(intent, o)
	return o, nil
}

// availableBalances builds the balance view for one candidate: the account
// balance of every token the candidate references, minus what earlier
// candidates in the batch already locked.
func (c *Checker) availableBalances(o *PricedOrder) map[string]decimal.Decimal {
	available := make(map[string]decimal.Decimal)
	for token := range o.CollateralMap() {
		available[token] = c.balances.AvailableBalance(token).Sub(c.lockedCollateral[token])
	}

	return available
}

func (c *Checker) lockCollateral(o *PricedOrder) {
	for token, amount := range o.CollateralMap() {
		c.lockedCollateral[token] = c.lockedCollateral[token].Add(amount)
	}
}

func (c *Checker) resetLockedCollateral() {
	clear(c.lockedCollateral)
}

func (c *Checker) recordAdjustment(intent TradeIntent, o *PricedOrder) {
	if c.audit == nil {
		return
	}

	record := AdjustmentRecord{
		Pair:            intent.Pair,
		Side:            intent.Side.String(),
		Variant:         intent.Variant.String(),
		RequestedAmount: intent.Amount,
		AdjustedAmount:  o.Amount,
		Resized:         o.Resized,
		Zeroed:          o.IsZero(),
		DecidedAt:       time.Now().UTC(),
	}

	if err := c.audit.RecordAdjustment(record); err != nil {
		logs.Warnf("record adjustment, err: %+v", err)
	}
}
