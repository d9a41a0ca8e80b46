package services

import (
	"time"

	"github.com/shopspring/decimal"

	"weddingpro-backend/utils"
)

var hundred = decimal.NewFromInt(100)

// PenaltyCalculator charges 1% of the total price for every calendar day
// elapsed since the wedding date.
type PenaltyCalculator struct {
	loc *time.Location
}

// NewPenaltyCalculator counts days in loc; nil means UTC.
func NewPenaltyCalculator(loc *time.Location) *PenaltyCalculator {
	if loc == nil {
		loc = time.UTC
	}
	return &PenaltyCalculator{loc: loc}
}

// Penalty returns the late-payment fee as of asOf. Nothing is charged while
// penalty mode is off or on and before the wedding day.
func (p *PenaltyCalculator) Penalty(totalPrice decimal.Decimal, enabled bool, weddingDate, asOf time.Time) decimal.Decimal {
	if !enabled {
		return decimal.Zero
	}
	days := utils.DaysBetween(weddingDate, asOf, p.loc)
	if days <= 0 {
		return decimal.Zero
	}
	return totalPrice.Div(hundred).Mul(decimal.NewFromInt(int64(days)))
}
