package recorder

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/yanun0323/errors"

	"main/internal/budget"
	"main/pkg/conn"
	"main/pkg/exception"
)

// Adjustment is one persisted budget-checker decision.
type Adjustment struct {
	ID              uint      `gorm:"primaryKey"`
	DecidedAt       time.Time `gorm:"index"`
	Venue           string
	Pair            string `gorm:"index"`
	Side            string
	Variant         string
	RequestedAmount decimal.Decimal `gorm:"type:numeric"`
	AdjustedAmount  decimal.Decimal `gorm:"type:numeric"`
	Resized         bool
	Zeroed          bool
}

// Audit persists budget adjustments to PostgreSQL. It implements
// budget.AuditSink.
type Audit struct {
	client *conn.Client
	venue  string
}

var _ budget.AuditSink = (*Audit)(nil)

// NewAudit migrates the adjustment table and returns a sink tagging every row
// with the venue name.
func NewAudit(client *conn.Client, venue string) (*Audit, error) {
	if client == nil || client.DB() == nil {
		return nil, exception.ErrNilInstance
	}

	if err := client.DB().AutoMigrate(&Adjustment{}); err != nil {
		return nil, errors.Wrap(err, "migrate adjustment table")
	}

	return &Audit{client: client, venue: venue}, nil
}

// RecordAdjustment inserts one decision row.
func (a *Audit) RecordAdjustment(record budget.AdjustmentRecord) error {
	row := Adjustment{
		DecidedAt:       record.DecidedAt,
		Venue:           a.venue,
		Pair:            record.Pair,
		Side:            record.Side,
		Variant:         record.Variant,
		RequestedAmount: record.RequestedAmount,
		AdjustedAmount:  record.AdjustedAmount,
		Resized:         record.Resized,
		Zeroed:          record.Zeroed,
	}

	if err := a.client.DB().Create(&row).Error; err != nil {
		return errors.Wrap(err, "insert adjustment")
	}

	return nil
}
