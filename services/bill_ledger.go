package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"weddingpro-backend/models"
	"weddingpro-backend/utils"
)

// Settlement describes a wedding's balance after a ledger operation.
type Settlement struct {
	WeddingID       uuid.UUID            `json:"wedding_id"`
	Status          models.PaymentStatus `json:"status"`
	FoodPrice       decimal.Decimal      `json:"food_price"`
	ServicePrice    decimal.Decimal      `json:"service_price"`
	TotalPrice      decimal.Decimal      `json:"total_price"`
	ExtraFee        decimal.Decimal      `json:"extra_fee"`
	DepositPercent  decimal.Decimal      `json:"deposit_require"`
	RequiredDeposit decimal.Decimal      `json:"required_deposit"`
	PaidToDate      decimal.Decimal      `json:"paid_to_date"`
	Payment         decimal.Decimal      `json:"deposit_amount"`
	Remain          decimal.Decimal      `json:"remain_amount"`
	Bill            *models.Bill         `json:"bill,omitempty"`
}

// PenaltyToggle is the display result of flipping penalty mode.
type PenaltyToggle struct {
	WeddingID     uuid.UUID       `json:"wedding_id"`
	IsPenaltyMode bool            `json:"is_penalty_mode"`
	Total         decimal.Decimal `json:"total"`
	ExtraFee      decimal.Decimal `json:"extra_fee"`
	Remain        decimal.Decimal `json:"remain_amount"`
	Settled       bool            `json:"settled"`
}

// BillLedger is the deposit / full-payment / penalty state machine. Every
// payment event appends a Bill; the latest Bill decides the status.
//
// All paths reconcile the same way:
//
//	remain = total + extraFee - sum(deposits so far) - payment
type BillLedger struct {
	bills     BillStore
	weddings  WeddingStore
	venues    VenueService
	pricing   *PricingEngine
	penalty   *PenaltyCalculator
	inventory *InventoryLedger
	clock     Clock
	log       zerolog.Logger
}

func NewBillLedger(
	bills BillStore,
	weddings WeddingStore,
	venues VenueService,
	pricing *PricingEngine,
	penalty *PenaltyCalculator,
	inventory *InventoryLedger,
	clock Clock,
	logger zerolog.Logger,
) *BillLedger {
	return &BillLedger{
		bills:     bills,
		weddings:  weddings,
		venues:    venues,
		pricing:   pricing,
		penalty:   penalty,
		inventory: inventory,
		clock:     clock,
		log:       logger.With().Str("component", "bill_ledger").Logger(),
	}
}

// StatusOf derives the payment status from the latest bill (nil = none).
func StatusOf(latest *models.Bill) models.PaymentStatus {
	switch {
	case latest == nil:
		return models.StatusPending
	case latest.Settled():
		return models.StatusPaid
	default:
		return models.StatusDeposit
	}
}

// snapshot gathers everything a payment decision depends on.
type snapshot struct {
	latest  *models.Bill
	pricing *Pricing
	venue   *models.Venue
	fee     decimal.Decimal
	paid    decimal.Decimal
	now     time.Time
}

func (s *snapshot) outstanding() decimal.Decimal {
	return s.pricing.TotalPrice.Add(s.fee).Sub(s.paid)
}

func (s *snapshot) depositFloor() decimal.Decimal {
	return s.venue.VenueType.DepositPercent.Mul(s.pricing.TotalPrice).Div(hundred)
}

func (l *BillLedger) load(ctx context.Context, wedding *models.Wedding) (*snapshot, error) {
	latest, err := l.bills.Latest(ctx, wedding.ID)
	if err != nil {
		return nil, fmt.Errorf("load latest bill: %w", err)
	}
	pricing, err := l.pricing.Prepare(ctx, wedding)
	if err != nil {
		return nil, err
	}
	venue, err := l.venues.GetVenue(ctx, wedding.VenueID, true)
	if err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "venue", ID: wedding.VenueID.String()}
		}
		return nil, fmt.Errorf("load venue: %w", err)
	}
	paid, err := l.bills.TotalDeposited(ctx, wedding.ID)
	if err != nil {
		return nil, fmt.Errorf("sum deposits: %w", err)
	}
	now := l.clock.Now()

	return &snapshot{
		latest:  latest,
		pricing: pricing,
		venue:   venue,
		fee:     l.penalty.Penalty(pricing.TotalPrice, wedding.IsPenaltyMode, wedding.WeddingDate, now),
		paid:    paid,
		now:     now,
	}, nil
}

func checkPayable(wedding *models.Wedding, snap *snapshot, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return &ValidationError{Field: "transaction_amount", Message: "must be greater than zero"}
	}
	if snap.latest != nil && snap.latest.Settled() {
		return &AlreadySettledError{WeddingID: wedding.ID.String(), Remain: snap.latest.RemainAmount}
	}
	if snap.pricing.TotalPrice.IsZero() {
		return &ValidationError{Field: "order", Message: "wedding has nothing ordered yet"}
	}
	return nil
}

// Deposit records a partial payment. The amount must reach the venue type's
// deposit percentage of the total, unless it covers the whole outstanding
// balance.
func (l *BillLedger) Deposit(ctx context.Context, wedding *models.Wedding, amount decimal.Decimal) (*Settlement, error) {
	snap, err := l.load(ctx, wedding)
	if err != nil {
		return nil, err
	}
	if err := checkPayable(wedding, snap, amount); err != nil {
		return nil, err
	}

	outstanding := snap.outstanding()
	floor := snap.depositFloor()
	required := decimal.Min(floor, outstanding)
	if amount.LessThan(required) {
		return nil, &InsufficientPaymentError{
			Paid:      amount,
			Required:  required,
			Shortfall: required.Sub(amount),
			Message: fmt.Sprintf("deposit amount for this venue need to be %s%% <=> %s",
				snap.venue.VenueType.DepositPercent.String(), floor.String()),
		}
	}

	return l.append(ctx, wedding, snap, models.BillDeposit, amount)
}

// FullPay settles the wedding. It writes nothing when the amount leaves a
// positive balance.
func (l *BillLedger) FullPay(ctx context.Context, wedding *models.Wedding, amount decimal.Decimal) (*Settlement, error) {
	snap, err := l.load(ctx, wedding)
	if err != nil {
		return nil, err
	}
	if err := checkPayable(wedding, snap, amount); err != nil {
		return nil, err
	}

	outstanding := snap.outstanding()
	remain := outstanding.Sub(amount)
	if remain.IsPositive() {
		return nil, &InsufficientPaymentError{
			Paid:      amount,
			Required:  outstanding,
			Shortfall: remain,
			Message:   fmt.Sprintf("payment is not enough, you paid: %s in total: %s", amount.String(), outstanding.String()),
		}
	}

	return l.append(ctx, wedding, snap, models.BillFullPay, amount)
}

// RecordEdit appends a zero-payment bill capturing re-composed totals.
// Weddings without bills are left alone.
func (l *BillLedger) RecordEdit(ctx context.Context, wedding *models.Wedding) (*Settlement, error) {
	snap, err := l.load(ctx, wedding)
	if err != nil {
		return nil, err
	}
	if snap.latest == nil {
		return l.settlement(wedding, snap, decimal.Zero, snap.outstanding(), nil), nil
	}
	return l.append(ctx, wedding, snap, models.BillEdit, decimal.Zero)
}

// TogglePenalty flips penalty mode and reports the recomputed balance.
// It changes the wedding flag only; no bill is written.
func (l *BillLedger) TogglePenalty(ctx context.Context, wedding *models.Wedding) (*PenaltyToggle, error) {
	snap, err := l.load(ctx, wedding)
	if err != nil {
		return nil, err
	}

	enabled := !wedding.IsPenaltyMode
	total := snap.pricing.TotalPrice
	if snap.latest != nil {
		total = snap.latest.TotalPrice
	}
	fee := l.penalty.Penalty(total, enabled, wedding.WeddingDate, snap.now)

	if err := l.weddings.Update(ctx, wedding.ID, map[string]interface{}{"is_penalty_mode": enabled}); err != nil {
		return nil, fmt.Errorf("update penalty mode: %w", err)
	}
	wedding.IsPenaltyMode = enabled

	out := &PenaltyToggle{
		WeddingID:     wedding.ID,
		IsPenaltyMode: enabled,
		Total:         total,
		ExtraFee:      fee,
		Remain:        total.Add(fee).Sub(snap.paid),
	}
	if snap.latest != nil && snap.latest.Settled() {
		out.Settled = true
		out.Remain = snap.latest.RemainAmount
	}

	l.log.Info().Str("wedding_id", wedding.ID.String()).Bool("penalty", enabled).
		Str("extra_fee", fee.String()).Msg("penalty mode toggled")
	return out, nil
}

// Balance reports the live balance without writing anything.
func (l *BillLedger) Balance(ctx context.Context, wedding *models.Wedding) (*Settlement, error) {
	snap, err := l.load(ctx, wedding)
	if err != nil {
		return nil, err
	}
	remain := snap.outstanding()
	if snap.latest != nil && snap.latest.Settled() {
		remain = snap.latest.RemainAmount
	}
	return l.settlement(wedding, snap, decimal.Zero, remain, snap.latest), nil
}

// append writes the next bill. A bill that settles the wedding, whatever its
// kind, first takes the food order from stock.
func (l *BillLedger) append(ctx context.Context, wedding *models.Wedding, snap *snapshot, kind models.BillKind, payment decimal.Decimal) (*Settlement, error) {
	remain := snap.outstanding().Sub(payment)
	settles := !remain.IsPositive()
	if settles {
		if err := l.commitStock(ctx, wedding, snap); err != nil {
			return nil, err
		}
	}
	lines, err := snap.pricing.Snapshot()
	if err != nil {
		return nil, fmt.Errorf("snapshot order lines: %w", err)
	}
	bill := &models.Bill{
		BillNumber:        "BILL-" + snap.now.Format("20060102") + "-" + utils.GenerateRandomString(8),
		WeddingID:         wedding.ID,
		Kind:              kind,
		PaymentDate:       snap.now,
		ServiceTotalPrice: snap.pricing.ServicePrice,
		FoodTotalPrice:    snap.pricing.FoodPrice,
		TotalPrice:        snap.pricing.TotalPrice,
		DepositRequire:    snap.venue.VenueType.DepositPercent,
		DepositAmount:     payment,
		RemainAmount:      remain,
		ExtraFee:          snap.fee,
		Lines:             lines,
		StockCommitted:    settles,
		CreatedAt:         snap.now.UTC(),
	}
	if err := l.bills.Append(ctx, bill); err != nil {
		return nil, fmt.Errorf("append bill: %w", err)
	}

	status := StatusOf(bill)
	if status != wedding.PaymentStatus {
		if err := l.weddings.Update(ctx, wedding.ID, map[string]interface{}{"payment_status": status}); err != nil {
			return nil, fmt.Errorf("update payment status: %w", err)
		}
		wedding.PaymentStatus = status
	}

	l.log.Info().
		Str("wedding_id", wedding.ID.String()).
		Str("bill", bill.BillNumber).
		Str("kind", string(kind)).
		Str("payment", payment.String()).
		Str("remain", remain.String()).
		Msg("bill appended")

	s := l.settlement(wedding, snap, payment, remain, bill)
	s.PaidToDate = snap.paid.Add(payment)
	return s, nil
}

// commitStock takes the current food order from stock, less what the last
// stock-committing bill of the wedding already took.
func (l *BillLedger) commitStock(ctx context.Context, wedding *models.Wedding, snap *snapshot) error {
	committed, err := l.committedFood(ctx, wedding.ID)
	if err != nil {
		return err
	}
	return l.inventory.CommitFood(ctx, snap.pricing.foods, committed)
}

func (l *BillLedger) committedFood(ctx context.Context, weddingID uuid.UUID) ([]models.FoodOrder, error) {
	bills, err := l.bills.ListByWedding(ctx, weddingID)
	if err != nil {
		return nil, fmt.Errorf("load bill trail: %w", err)
	}
	for _, b := range bills {
		if !b.StockCommitted {
			continue
		}
		lines, err := snapshotFoods(b.Lines)
		if err != nil {
			return nil, fmt.Errorf("decode lines of %s: %w", b.BillNumber, err)
		}
		return lines, nil
	}
	return nil, nil
}

// HeldStock reports the food units per item that the wedding's last
// settlement took from stock.
func (l *BillLedger) HeldStock(ctx context.Context, weddingID uuid.UUID) (map[uuid.UUID]int, error) {
	lines, err := l.committedFood(ctx, weddingID)
	if err != nil {
		return nil, err
	}
	held := make(map[uuid.UUID]int, len(lines))
	for _, line := range lines {
		held[line.ItemID] += line.Count
	}
	return held, nil
}

func (l *BillLedger) settlement(wedding *models.Wedding, snap *snapshot, payment, remain decimal.Decimal, bill *models.Bill) *Settlement {
	status := StatusOf(snap.latest)
	if bill != nil {
		status = StatusOf(bill)
	}
	return &Settlement{
		WeddingID:       wedding.ID,
		Status:          status,
		FoodPrice:       snap.pricing.FoodPrice,
		ServicePrice:    snap.pricing.ServicePrice,
		TotalPrice:      snap.pricing.TotalPrice,
		ExtraFee:        snap.fee,
		DepositPercent:  snap.venue.VenueType.DepositPercent,
		RequiredDeposit: snap.depositFloor(),
		PaidToDate:      snap.paid,
		Payment:         payment,
		Remain:          remain,
		Bill:            bill,
	}
}
