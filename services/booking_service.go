package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"weddingpro-backend/models"
	"weddingpro-backend/utils"
)

// Dependencies wires a BookingService. Location is the venue's time zone
// used for calendar-day arithmetic; nil means UTC.
type Dependencies struct {
	Tx        Transactor
	Weddings  WeddingStore
	Orders    OrderStore
	Bills     BillStore
	Catalog   CatalogService
	Venues    VenueService
	Customers CustomerService
	Clock     Clock
	Location  *time.Location
	Logger    zerolog.Logger
}

// BookingService is the entry point for every booking and billing operation.
// Each mutating call runs in a single transaction.
type BookingService struct {
	tx        Transactor
	weddings  WeddingStore
	orders    OrderStore
	bills     BillStore
	venues    VenueService
	customers CustomerService

	validator *BookingValidator
	composer  *OrderComposer
	pricing   *PricingEngine
	ledger    *BillLedger
	loc       *time.Location
	log       zerolog.Logger
}

func NewBookingService(d Dependencies) *BookingService {
	if d.Clock == nil {
		d.Clock = SystemClock{}
	}
	if d.Location == nil {
		d.Location = time.UTC
	}

	inventory := NewInventoryLedger(d.Catalog)
	pricing := NewPricingEngine(d.Orders)
	penalty := NewPenaltyCalculator(d.Location)
	logger := d.Logger.With().Str("component", "booking").Logger()

	return &BookingService{
		tx:        d.Tx,
		weddings:  d.Weddings,
		orders:    d.Orders,
		bills:     d.Bills,
		venues:    d.Venues,
		customers: d.Customers,
		validator: NewBookingValidator(d.Venues, d.Weddings, d.Location),
		composer:  NewOrderComposer(d.Catalog, d.Orders, inventory),
		pricing:   pricing,
		ledger:    NewBillLedger(d.Bills, d.Weddings, d.Venues, pricing, penalty, inventory, d.Clock, d.Logger),
		loc:       d.Location,
		log:       logger,
	}
}

// Location is the time zone calendar days are counted in.
func (s *BookingService) Location() *time.Location { return s.loc }

type CreateWeddingInput struct {
	Groom       string
	Bride       string
	Phone       string
	WeddingDate time.Time
	Shift       models.Shift
	VenueID     uuid.UUID
	TableCount  int
	Note        string
}

// WeddingPatch holds the fields of an edit; nil means unchanged.
type WeddingPatch struct {
	Groom       *string
	Bride       *string
	Phone       *string
	WeddingDate *time.Time
	Shift       *models.Shift
	VenueID     *uuid.UUID
	TableCount  *int
	Note        *string
}

// OrderResult is returned by order composition.
type OrderResult struct {
	Composition *Composition `json:"composition"`
	Balance     *Settlement  `json:"balance"`
}

func (s *BookingService) CreateWedding(ctx context.Context, in CreateWeddingInput) (*models.Wedding, error) {
	in.Groom = strings.TrimSpace(in.Groom)
	in.Bride = strings.TrimSpace(in.Bride)
	if in.Groom == "" {
		return nil, &ValidationError{Field: "groom", Message: "is required"}
	}
	if in.Bride == "" {
		return nil, &ValidationError{Field: "bride", Message: "is required"}
	}
	phone, err := checkPhone(in.Phone)
	if err != nil {
		return nil, err
	}

	var id uuid.UUID
	err = s.tx.InTx(ctx, func(ctx context.Context) error {
		if _, err := s.validator.Validate(ctx, BookingRequest{
			VenueID:    in.VenueID,
			Date:       in.WeddingDate,
			Shift:      in.Shift,
			TableCount: in.TableCount,
		}); err != nil {
			return err
		}

		customer, err := s.attachCustomer(ctx, in.Groom+"/"+in.Bride, phone)
		if err != nil {
			return err
		}

		wedding := &models.Wedding{
			Groom:         in.Groom,
			Bride:         in.Bride,
			CustomerID:    customer.ID,
			WeddingDate:   in.WeddingDate.UTC(),
			BookingDay:    s.validator.BookingDay(in.WeddingDate),
			Shift:         in.Shift,
			VenueID:       in.VenueID,
			TableCount:    in.TableCount,
			Note:          in.Note,
			PaymentStatus: models.StatusPending,
		}
		if err := s.weddings.Create(ctx, wedding); err != nil {
			if errors.Is(err, ErrDuplicateKey) {
				return slotTaken()
			}
			return fmt.Errorf("create wedding: %w", err)
		}
		id = wedding.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("wedding_id", id.String()).Str("venue_id", in.VenueID.String()).
		Str("shift", string(in.Shift)).Msg("wedding booked")
	return s.GetWedding(ctx, id)
}

// UpdateWedding applies a partial edit. The slot is re-checked when the
// date, shift or venue changes; capacity and minimum table spend when the
// table count or venue changes.
func (s *BookingService) UpdateWedding(ctx context.Context, id uuid.UUID, patch WeddingPatch) (*models.Wedding, error) {
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		wedding, err := s.lockWedding(ctx, id)
		if err != nil {
			return err
		}

		fields := map[string]interface{}{}
		next := *wedding

		if patch.Groom != nil {
			if strings.TrimSpace(*patch.Groom) == "" {
				return &ValidationError{Field: "groom", Message: "must not be empty"}
			}
			next.Groom = strings.TrimSpace(*patch.Groom)
			fields["groom"] = next.Groom
		}
		if patch.Bride != nil {
			if strings.TrimSpace(*patch.Bride) == "" {
				return &ValidationError{Field: "bride", Message: "must not be empty"}
			}
			next.Bride = strings.TrimSpace(*patch.Bride)
			fields["bride"] = next.Bride
		}
		if patch.Note != nil {
			fields["note"] = *patch.Note
		}
		if patch.WeddingDate != nil {
			if patch.WeddingDate.IsZero() {
				return &ValidationError{Field: "wedding_date", Message: "is required"}
			}
			next.WeddingDate = patch.WeddingDate.UTC()
			next.BookingDay = s.validator.BookingDay(*patch.WeddingDate)
			fields["wedding_date"] = next.WeddingDate
			fields["booking_day"] = next.BookingDay
		}
		if patch.Shift != nil {
			if !patch.Shift.Valid() {
				return &ValidationError{Field: "shift", Message: fmt.Sprintf("unknown shift %q", *patch.Shift)}
			}
			next.Shift = *patch.Shift
			fields["shift"] = next.Shift
		}
		if patch.VenueID != nil {
			next.VenueID = *patch.VenueID
			fields["venue_id"] = next.VenueID
		}
		if patch.TableCount != nil {
			if *patch.TableCount <= 0 {
				return &ValidationError{Field: "table_count", Message: "must be a positive number"}
			}
			next.TableCount = *patch.TableCount
			fields["table_count"] = next.TableCount
		}

		slotChanged := next.BookingDay != wedding.BookingDay || next.Shift != wedding.Shift || next.VenueID != wedding.VenueID
		sizeChanged := next.TableCount != wedding.TableCount || next.VenueID != wedding.VenueID

		if sizeChanged {
			venue, err := s.validator.CheckCapacity(ctx, next.VenueID, next.TableCount)
			if err != nil {
				return err
			}
			pricing, err := s.pricing.Prepare(ctx, &next)
			if err != nil {
				return err
			}
			if pricing.HasFood() {
				if err := CheckMinTableSpend(venue, pricing.TablePrice); err != nil {
					return err
				}
			}
		}
		if slotChanged {
			if err := s.validator.CheckSlot(ctx, BookingRequest{
				VenueID:          next.VenueID,
				Date:             next.WeddingDate,
				Shift:            next.Shift,
				TableCount:       next.TableCount,
				ExcludeWeddingID: id,
			}); err != nil {
				return err
			}
		}

		if patch.Phone != nil {
			phone, err := checkPhone(*patch.Phone)
			if err != nil {
				return err
			}
			customer, err := s.attachCustomer(ctx, next.Groom+"/"+next.Bride, phone)
			if err != nil {
				return err
			}
			fields["customer_id"] = customer.ID
		}

		if len(fields) == 0 {
			return nil
		}
		if err := s.weddings.Update(ctx, id, fields); err != nil {
			if errors.Is(err, ErrDuplicateKey) {
				return slotTaken()
			}
			return fmt.Errorf("update wedding: %w", err)
		}

		if next.TableCount != wedding.TableCount {
			// Food totals scale with the table count.
			if _, err := s.ledger.RecordEdit(ctx, &next); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetWedding(ctx, id)
}

// ComposeFoodOrder replaces the wedding's food order. Weddings that already
// have bills get an edit bill with the new totals.
func (s *BookingService) ComposeFoodOrder(ctx context.Context, weddingID uuid.UUID, lines []OrderLine) (*OrderResult, error) {
	var result *OrderResult
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		wedding, err := s.lockWedding(ctx, weddingID)
		if err != nil {
			return err
		}
		venue, err := s.venues.GetVenue(ctx, wedding.VenueID, true)
		if err != nil {
			if errors.Is(err, ErrRecordNotFound) {
				return &NotFoundError{Resource: "venue", ID: wedding.VenueID.String()}
			}
			return fmt.Errorf("load venue: %w", err)
		}

		held, err := s.ledger.HeldStock(ctx, wedding.ID)
		if err != nil {
			return err
		}
		composition, err := s.composer.ComposeFood(ctx, wedding, venue, lines, held)
		if err != nil {
			return err
		}
		balance, err := s.ledger.RecordEdit(ctx, wedding)
		if err != nil {
			return err
		}
		result = &OrderResult{Composition: composition, Balance: balance}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logComposition(weddingID, "food", result.Composition)
	return result, nil
}

func (s *BookingService) ComposeServiceOrder(ctx context.Context, weddingID uuid.UUID, lines []OrderLine) (*OrderResult, error) {
	var result *OrderResult
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		wedding, err := s.lockWedding(ctx, weddingID)
		if err != nil {
			return err
		}
		composition, err := s.composer.ComposeService(ctx, wedding, lines)
		if err != nil {
			return err
		}
		balance, err := s.ledger.RecordEdit(ctx, wedding)
		if err != nil {
			return err
		}
		result = &OrderResult{Composition: composition, Balance: balance}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logComposition(weddingID, "service", result.Composition)
	return result, nil
}

func (s *BookingService) Deposit(ctx context.Context, weddingID uuid.UUID, amount decimal.Decimal) (*Settlement, error) {
	var out *Settlement
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		wedding, err := s.lockWedding(ctx, weddingID)
		if err != nil {
			return err
		}
		out, err = s.ledger.Deposit(ctx, wedding, amount)
		return err
	})
	return out, err
}

func (s *BookingService) FullPay(ctx context.Context, weddingID uuid.UUID, amount decimal.Decimal) (*Settlement, error) {
	var out *Settlement
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		wedding, err := s.lockWedding(ctx, weddingID)
		if err != nil {
			return err
		}
		out, err = s.ledger.FullPay(ctx, wedding, amount)
		return err
	})
	return out, err
}

func (s *BookingService) TogglePenalty(ctx context.Context, weddingID uuid.UUID) (*PenaltyToggle, error) {
	var out *PenaltyToggle
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		wedding, err := s.lockWedding(ctx, weddingID)
		if err != nil {
			return err
		}
		out, err = s.ledger.TogglePenalty(ctx, wedding)
		return err
	})
	return out, err
}

func (s *BookingService) GetBalance(ctx context.Context, weddingID uuid.UUID) (*Settlement, error) {
	wedding, err := s.GetWedding(ctx, weddingID)
	if err != nil {
		return nil, err
	}
	return s.ledger.Balance(ctx, wedding)
}

func (s *BookingService) GetWedding(ctx context.Context, id uuid.UUID) (*models.Wedding, error) {
	wedding, err := s.weddings.Get(ctx, id)
	if err != nil {
		return nil, weddingLookupError(id, err)
	}
	return wedding, nil
}

func (s *BookingService) ListWeddings(ctx context.Context, filter WeddingFilter) ([]models.Wedding, error) {
	return s.weddings.List(ctx, filter)
}

func (s *BookingService) SearchWeddingsByPhone(ctx context.Context, phone string) ([]models.Wedding, error) {
	phone = utils.NormalizePhone(phone)
	if phone == "" {
		return nil, &ValidationError{Field: "phone", Message: "is required"}
	}
	return s.weddings.List(ctx, WeddingFilter{Phone: phone})
}

// WeddingsInMonth lists weddings dated in the given venue-local month.
func (s *BookingService) WeddingsInMonth(ctx context.Context, year int, month time.Month) ([]models.Wedding, error) {
	if month < time.January || month > time.December {
		return nil, &ValidationError{Field: "month", Message: "must be between 1 and 12"}
	}
	from, to := utils.MonthRange(year, month, s.loc)
	return s.weddings.ListBetween(ctx, from, to, uuid.Nil)
}

func (s *BookingService) FoodOrders(ctx context.Context, weddingID uuid.UUID) ([]models.FoodOrder, error) {
	if _, err := s.GetWedding(ctx, weddingID); err != nil {
		return nil, err
	}
	return s.orders.FoodLines(ctx, weddingID)
}

func (s *BookingService) ServiceOrders(ctx context.Context, weddingID uuid.UUID) ([]models.ServiceOrder, error) {
	if _, err := s.GetWedding(ctx, weddingID); err != nil {
		return nil, err
	}
	return s.orders.ServiceLines(ctx, weddingID)
}

// Bills returns the wedding's bill trail, newest first.
func (s *BookingService) Bills(ctx context.Context, weddingID uuid.UUID) ([]models.Bill, error) {
	if _, err := s.GetWedding(ctx, weddingID); err != nil {
		return nil, err
	}
	return s.bills.ListByWedding(ctx, weddingID)
}

func (s *BookingService) lockWedding(ctx context.Context, id uuid.UUID) (*models.Wedding, error) {
	wedding, err := s.weddings.GetForUpdate(ctx, id)
	if err != nil {
		return nil, weddingLookupError(id, err)
	}
	return wedding, nil
}

// attachCustomer returns the customer owning phone, creating one on first booking.
func (s *BookingService) attachCustomer(ctx context.Context, name, phone string) (*models.Customer, error) {
	customer, err := s.customers.FindByPhone(ctx, phone)
	if err == nil {
		return customer, nil
	}
	if !errors.Is(err, ErrRecordNotFound) {
		return nil, fmt.Errorf("find customer: %w", err)
	}
	customer, err = s.customers.CreateCustomer(ctx, name, phone)
	if err != nil {
		return nil, fmt.Errorf("create customer: %w", err)
	}
	return customer, nil
}

func (s *BookingService) logComposition(id uuid.UUID, kind string, c *Composition) {
	event := s.log.Info()
	if len(c.Rejected) > 0 {
		event = s.log.Warn().Strs("rejected", c.Rejected)
	}
	event.Str("wedding_id", id.String()).
		Str("kind", kind).
		Int("committed", c.Committed).
		Str("total_price", c.TotalPrice.String()).
		Msg("order composed")
}

func checkPhone(raw string) (string, error) {
	phone := utils.NormalizePhone(raw)
	if phone == "" {
		return "", &ValidationError{Field: "phone", Message: "is required"}
	}
	if !utils.ValidatePhone(phone) {
		return "", &ValidationError{Field: "phone", Message: "invalid phone number format"}
	}
	return phone, nil
}

func weddingLookupError(id uuid.UUID, err error) error {
	if errors.Is(err, ErrRecordNotFound) {
		return &NotFoundError{Resource: "wedding", ID: id.String()}
	}
	return fmt.Errorf("load wedding %s: %w", id, err)
}

func slotTaken() error {
	return &ConflictError{Message: "This date & shift had a wedding"}
}
