package services

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrRecordNotFound is returned by stores and collaborators for missing rows.
var ErrRecordNotFound = errors.New("record not found")

// ErrDuplicateKey is returned by stores when a unique index rejects a write.
var ErrDuplicateKey = errors.New("duplicate key")

// ValidationError rejects malformed input before anything is written.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ConflictError reports a booking slot that is already taken.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// CapacityKind tells which limit a CapacityError violated.
type CapacityKind string

const (
	CapacityTables    CapacityKind = "table_count"
	CapacityInventory CapacityKind = "inventory"
	CapacityMinSpend  CapacityKind = "min_table_price"
)

// CapacityError reports a request over a venue or stock limit.
type CapacityError struct {
	Kind      CapacityKind
	Limit     decimal.Decimal
	Requested decimal.Decimal
	Message   string
}

func (e *CapacityError) Error() string { return e.Message }

// NotFoundError reports an unknown wedding, venue or catalog item.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found for id: %s", e.Resource, e.ID)
}

// InsufficientPaymentError is returned without writing a bill when the amount
// does not reach the required floor.
type InsufficientPaymentError struct {
	Paid      decimal.Decimal
	Required  decimal.Decimal
	Shortfall decimal.Decimal
	Message   string
}

func (e *InsufficientPaymentError) Error() string { return e.Message }

// AlreadySettledError is returned when a fully paid wedding is paid again.
// Callers treat it as an idempotent no-op rather than a failure.
type AlreadySettledError struct {
	WeddingID string
	Remain    decimal.Decimal
}

func (e *AlreadySettledError) Error() string {
	return fmt.Sprintf("bill of wedding %s has been fully paid", e.WeddingID)
}

// IsBusinessError separates expected rejections from infrastructure failures.
func IsBusinessError(err error) bool {
	var (
		validation *ValidationError
		conflict   *ConflictError
		capacity   *CapacityError
		notFound   *NotFoundError
		payment    *InsufficientPaymentError
		settled    *AlreadySettledError
	)
	return errors.As(err, &validation) ||
		errors.As(err, &conflict) ||
		errors.As(err, &capacity) ||
		errors.As(err, &notFound) ||
		errors.As(err, &payment) ||
		errors.As(err, &settled)
}
