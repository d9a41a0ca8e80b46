package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"weddingpro-backend/models"
	"weddingpro-backend/utils"
)

// BookingRequest is the slot a wedding wants to occupy.
type BookingRequest struct {
	VenueID    uuid.UUID
	Date       time.Time
	Shift      models.Shift
	TableCount int
	// ExcludeWeddingID skips the wedding being edited.
	ExcludeWeddingID uuid.UUID
}

// BookingValidator enforces one wedding per (day, shift, venue) and the
// venue's table ceiling. It never writes.
type BookingValidator struct {
	venues   VenueService
	weddings WeddingStore
	loc      *time.Location
}

func NewBookingValidator(venues VenueService, weddings WeddingStore, loc *time.Location) *BookingValidator {
	if loc == nil {
		loc = time.UTC
	}
	return &BookingValidator{venues: venues, weddings: weddings, loc: loc}
}

// Validate returns the venue on success so callers can reuse its policy.
func (v *BookingValidator) Validate(ctx context.Context, req BookingRequest) (*models.Venue, error) {
	if req.TableCount <= 0 {
		return nil, &ValidationError{Field: "table_count", Message: "must be a positive number"}
	}
	if !req.Shift.Valid() {
		return nil, &ValidationError{Field: "shift", Message: fmt.Sprintf("unknown shift %q", req.Shift)}
	}
	if req.Date.IsZero() {
		return nil, &ValidationError{Field: "wedding_date", Message: "is required"}
	}

	venue, err := v.CheckCapacity(ctx, req.VenueID, req.TableCount)
	if err != nil {
		return nil, err
	}
	if err := v.CheckSlot(ctx, req); err != nil {
		return nil, err
	}
	return venue, nil
}

// CheckCapacity loads the venue and compares the table count with its type's maximum.
func (v *BookingValidator) CheckCapacity(ctx context.Context, venueID uuid.UUID, tableCount int) (*models.Venue, error) {
	venue, err := v.venues.GetVenue(ctx, venueID, false)
	if err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "venue", ID: venueID.String()}
		}
		return nil, fmt.Errorf("load venue %s: %w", venueID, err)
	}

	max := venue.VenueType.MaxTableCount
	if tableCount > max {
		return nil, &CapacityError{
			Kind:      CapacityTables,
			Limit:     decimal.NewFromInt(int64(max)),
			Requested: decimal.NewFromInt(int64(tableCount)),
			Message:   fmt.Sprintf("This venue's max table is %d (your order: %d)", max, tableCount),
		}
	}
	return venue, nil
}

// CheckSlot rejects the request when another wedding holds the same shift
// at the same venue on the same venue-local day.
func (v *BookingValidator) CheckSlot(ctx context.Context, req BookingRequest) error {
	start, end := utils.DayWindow(req.Date, v.loc)
	events, err := v.weddings.ListBetween(ctx, start, end, req.ExcludeWeddingID)
	if err != nil {
		return fmt.Errorf("list weddings on %s: %w", start.Format(utils.DayLayout), err)
	}
	for _, e := range events {
		if e.Shift == req.Shift && e.VenueID == req.VenueID {
			return slotTaken()
		}
	}
	return nil
}

// BookingDay is the unique-index key of a wedding date.
func (v *BookingValidator) BookingDay(t time.Time) string {
	return utils.DayKey(t, v.loc)
}
