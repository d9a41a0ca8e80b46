package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"weddingpro-backend/models"
)

// CatalogItem is the view of a food or service item the engine needs.
type CatalogItem struct {
	ID        uuid.UUID
	Name      string
	Price     decimal.Decimal
	Inventory int
}

// CatalogService resolves orderable items and commits food stock.
type CatalogService interface {
	GetFoodItem(ctx context.Context, id uuid.UUID) (*CatalogItem, error)
	GetServiceItem(ctx context.Context, id uuid.UUID) (*CatalogItem, error)
	DecrementFoodInventory(ctx context.Context, id uuid.UUID, newLevel int) error
}

// VenueService returns a venue with its VenueType loaded.
type VenueService interface {
	GetVenue(ctx context.Context, id uuid.UUID, includeDeleted bool) (*models.Venue, error)
}

type CustomerService interface {
	FindByPhone(ctx context.Context, phone string) (*models.Customer, error)
	CreateCustomer(ctx context.Context, name, phone string) (*models.Customer, error)
}

// Transactor runs fn in one database transaction carried by the context.
type Transactor interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// WeddingStore persists weddings.
type WeddingStore interface {
	Create(ctx context.Context, w *models.Wedding) error
	Get(ctx context.Context, id uuid.UUID) (*models.Wedding, error)
	// GetForUpdate loads the wedding and locks its row until the transaction ends.
	GetForUpdate(ctx context.Context, id uuid.UUID) (*models.Wedding, error)
	Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error
	// ListBetween returns weddings dated in [from, to), skipping exclude.
	ListBetween(ctx context.Context, from, to time.Time, exclude uuid.UUID) ([]models.Wedding, error)
	List(ctx context.Context, filter WeddingFilter) ([]models.Wedding, error)
}

type WeddingFilter struct {
	Phone  string
	From   *time.Time
	To     *time.Time
	Status models.PaymentStatus
}

// OrderStore persists food and service order lines.
type OrderStore interface {
	ClearFood(ctx context.Context, weddingID uuid.UUID) error
	ClearServices(ctx context.Context, weddingID uuid.UUID) error
	AddFood(ctx context.Context, line *models.FoodOrder) error
	AddService(ctx context.Context, line *models.ServiceOrder) error
	FoodLines(ctx context.Context, weddingID uuid.UUID) ([]models.FoodOrder, error)
	ServiceLines(ctx context.Context, weddingID uuid.UUID) ([]models.ServiceOrder, error)
}

// BillStore appends to and reads the bill trail.
type BillStore interface {
	Append(ctx context.Context, b *models.Bill) error
	// ListByWedding returns bills newest first.
	ListByWedding(ctx context.Context, weddingID uuid.UUID) ([]models.Bill, error)
	Latest(ctx context.Context, weddingID uuid.UUID) (*models.Bill, error)
	TotalDeposited(ctx context.Context, weddingID uuid.UUID) (decimal.Decimal, error)
}
