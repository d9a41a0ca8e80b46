package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"weddingpro-backend/models"
	"weddingpro-backend/utils"
)

// DailyRevenue is the estimated revenue of the weddings held on one day.
type DailyRevenue struct {
	Day             string          `json:"day"`
	EstimateRevenue decimal.Decimal `json:"estimate_revenue"`
	Ratio           decimal.Decimal `json:"ratio"`
	WeddingCount    int             `json:"wedding_count"`
}

type MonthlyRevenue struct {
	Year  int             `json:"year"`
	Month int             `json:"month"`
	Total decimal.Decimal `json:"total"`
	Days  []DailyRevenue  `json:"days"`
}

// RevenueSummary covers every wedding on record.
type RevenueSummary struct {
	WeddingCount    int             `json:"wedding_count"`
	RealRevenue     decimal.Decimal `json:"real_revenue"`
	EstimateRevenue decimal.Decimal `json:"estimate_revenue"`
}

// RevenueService builds revenue read models from the bill trail. A wedding's
// estimate is the total price of its latest bill; weddings without bills
// count toward the wedding number only.
type RevenueService struct {
	weddings WeddingStore
	bills    BillStore
	penalty  *PenaltyCalculator
	clock    Clock
	loc      *time.Location
}

func NewRevenueService(weddings WeddingStore, bills BillStore, clock Clock, loc *time.Location) *RevenueService {
	if loc == nil {
		loc = time.UTC
	}
	if clock == nil {
		clock = SystemClock{}
	}
	return &RevenueService{
		weddings: weddings,
		bills:    bills,
		penalty:  NewPenaltyCalculator(loc),
		clock:    clock,
		loc:      loc,
	}
}

// Monthly splits a month's estimated revenue per wedding day. With
// includeFee the penalty accrued so far is added for weddings in penalty mode.
func (r *RevenueService) Monthly(ctx context.Context, year int, month time.Month, includeFee bool) (*MonthlyRevenue, error) {
	if month < time.January || month > time.December {
		return nil, &ValidationError{Field: "month", Message: "must be between 1 and 12"}
	}
	from, to := utils.MonthRange(year, month, r.loc)
	weddings, err := r.weddings.ListBetween(ctx, from, to, uuid.Nil)
	if err != nil {
		return nil, fmt.Errorf("list weddings: %w", err)
	}

	now := r.clock.Now()
	byDay := map[string]*DailyRevenue{}
	total := decimal.Zero
	for i := range weddings {
		w := &weddings[i]
		key := utils.DayKey(w.WeddingDate, r.loc)
		day, ok := byDay[key]
		if !ok {
			day = &DailyRevenue{Day: key, EstimateRevenue: decimal.Zero}
			byDay[key] = day
		}
		day.WeddingCount++

		latest, err := r.bills.Latest(ctx, w.ID)
		if err != nil {
			return nil, fmt.Errorf("latest bill of %s: %w", w.ID, err)
		}
		if latest == nil {
			continue
		}
		estimate := latest.TotalPrice
		if includeFee {
			estimate = estimate.Add(r.penalty.Penalty(latest.TotalPrice, w.IsPenaltyMode, w.WeddingDate, now))
		}
		day.EstimateRevenue = day.EstimateRevenue.Add(estimate)
		total = total.Add(estimate)
	}

	report := &MonthlyRevenue{Year: year, Month: int(month), Total: total, Days: make([]DailyRevenue, 0, len(byDay))}
	for _, day := range byDay {
		day.Ratio = decimal.Zero
		if total.IsPositive() {
			day.Ratio = day.EstimateRevenue.Div(total).Mul(hundred).Round(2)
		}
		report.Days = append(report.Days, *day)
	}
	sort.Slice(report.Days, func(i, j int) bool { return report.Days[i].Day < report.Days[j].Day })
	return report, nil
}

// Summary reports money actually received and the estimate over all weddings.
// Over-payments are not counted as revenue.
func (r *RevenueService) Summary(ctx context.Context) (*RevenueSummary, error) {
	weddings, err := r.weddings.List(ctx, WeddingFilter{})
	if err != nil {
		return nil, fmt.Errorf("list weddings: %w", err)
	}

	now := r.clock.Now()
	out := &RevenueSummary{WeddingCount: len(weddings), RealRevenue: decimal.Zero, EstimateRevenue: decimal.Zero}
	for i := range weddings {
		w := &weddings[i]
		bills, err := r.bills.ListByWedding(ctx, w.ID)
		if err != nil {
			return nil, fmt.Errorf("bills of %s: %w", w.ID, err)
		}
		if len(bills) == 0 {
			continue
		}
		out.RealRevenue = out.RealRevenue.Add(received(bills))
		latest := bills[0]
		out.EstimateRevenue = out.EstimateRevenue.
			Add(latest.TotalPrice).
			Add(r.penalty.Penalty(latest.TotalPrice, w.IsPenaltyMode, w.WeddingDate, now))
	}
	return out, nil
}

// received sums the payments of one wedding, newest bill first. Only the
// latest bill's over-payment is deducted; later bills carry it forward.
func received(bills []models.Bill) decimal.Decimal {
	sum := decimal.Zero
	for _, b := range bills {
		sum = sum.Add(b.DepositAmount)
	}
	if latest := bills[0]; latest.RemainAmount.IsNegative() {
		sum = sum.Add(latest.RemainAmount)
	}
	return sum
}
