package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"weddingpro-backend/models"
)

// OrderLine is one requested (item, count) pair.
type OrderLine struct {
	ItemID uuid.UUID `json:"id" binding:"required"`
	Count  int       `json:"count" binding:"required,min=1"`
}

// Composition is the outcome of replacing a wedding's order of one kind.
// Rejected lines were skipped; everything else was committed.
type Composition struct {
	TablePrice decimal.Decimal `json:"table_price"`
	TotalPrice decimal.Decimal `json:"total_price"`
	Committed  int             `json:"committed"`
	Rejected   []string        `json:"rejected"`
}

type orderKind int

const (
	foodKind orderKind = iota
	serviceKind
)

func (k orderKind) String() string {
	if k == foodKind {
		return "food"
	}
	return "service"
}

// OrderComposer replaces the full set of food or service lines of a wedding.
// It must run inside the caller's transaction so that a failed minimum-spend
// check also rolls back the clear.
type OrderComposer struct {
	catalog   CatalogService
	orders    OrderStore
	inventory *InventoryLedger
}

func NewOrderComposer(catalog CatalogService, orders OrderStore, inventory *InventoryLedger) *OrderComposer {
	return &OrderComposer{catalog: catalog, orders: orders, inventory: inventory}
}

// ComposeFood prices food per table and multiplies by the wedding's table count.
// venue must carry its VenueType for the minimum-spend check. held is the
// stock the wedding already took at settlement; it counts as available again.
func (c *OrderComposer) ComposeFood(ctx context.Context, wedding *models.Wedding, venue *models.Venue, lines []OrderLine, held map[uuid.UUID]int) (*Composition, error) {
	if err := validateLines(lines); err != nil {
		return nil, err
	}
	if err := c.orders.ClearFood(ctx, wedding.ID); err != nil {
		return nil, fmt.Errorf("clear food order: %w", err)
	}

	tables := decimal.NewFromInt(int64(wedding.TableCount))
	result, err := c.compose(ctx, foodKind, lines, func(item *CatalogItem, count int) error {
		return c.orders.AddFood(ctx, &models.FoodOrder{
			WeddingID: wedding.ID,
			ItemID:    item.ID,
			ItemName:  item.Name,
			ItemPrice: item.Price,
			Count:     count,
		})
	}, tables, held)
	if err != nil {
		return nil, err
	}

	if result.Committed > 0 {
		if err := CheckMinTableSpend(venue, result.TablePrice); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// ComposeService prices services per event.
func (c *OrderComposer) ComposeService(ctx context.Context, wedding *models.Wedding, lines []OrderLine) (*Composition, error) {
	if err := validateLines(lines); err != nil {
		return nil, err
	}
	if err := c.orders.ClearServices(ctx, wedding.ID); err != nil {
		return nil, fmt.Errorf("clear service order: %w", err)
	}

	return c.compose(ctx, serviceKind, lines, func(item *CatalogItem, count int) error {
		return c.orders.AddService(ctx, &models.ServiceOrder{
			WeddingID: wedding.ID,
			ItemID:    item.ID,
			ItemName:  item.Name,
			ItemPrice: item.Price,
			Count:     count,
		})
	}, decimal.NewFromInt(1), nil)
}

func (c *OrderComposer) compose(
	ctx context.Context,
	kind orderKind,
	lines []OrderLine,
	insert func(item *CatalogItem, count int) error,
	multiplier decimal.Decimal,
	held map[uuid.UUID]int,
) (*Composition, error) {
	result := &Composition{
		TablePrice: decimal.Zero,
		TotalPrice: decimal.Zero,
		Rejected:   []string{},
	}
	// Units taken by earlier lines of this request, per item.
	reserved := make(map[uuid.UUID]int, len(held))
	for id, count := range held {
		reserved[id] = -count
	}

	for _, line := range lines {
		item, err := c.lookup(ctx, kind, line.ItemID)
		if err != nil {
			if errors.Is(err, ErrRecordNotFound) {
				result.Rejected = append(result.Rejected, fmt.Sprintf("Not found any data for %s with ID:%s", kind, line.ItemID))
				continue
			}
			return nil, fmt.Errorf("load %s %s: %w", kind, line.ItemID, err)
		}

		if !c.inventory.Available(item, reserved[item.ID]+line.Count) {
			result.Rejected = append(result.Rejected, shortageMessage(item.Name, item.Inventory-reserved[item.ID]))
			continue
		}

		if err := insert(item, line.Count); err != nil {
			return nil, fmt.Errorf("insert %s line %s: %w", kind, item.ID, err)
		}

		reserved[item.ID] += line.Count

		lineTotal := item.Price.Mul(decimal.NewFromInt(int64(line.Count)))
		result.TablePrice = result.TablePrice.Add(lineTotal)
		result.TotalPrice = result.TotalPrice.Add(lineTotal.Mul(multiplier))
		result.Committed++
	}
	return result, nil
}

func (c *OrderComposer) lookup(ctx context.Context, kind orderKind, id uuid.UUID) (*CatalogItem, error) {
	if kind == foodKind {
		return c.catalog.GetFoodItem(ctx, id)
	}
	return c.catalog.GetServiceItem(ctx, id)
}

func validateLines(lines []OrderLine) error {
	for i, line := range lines {
		if line.ItemID == uuid.Nil {
			return &ValidationError{Field: fmt.Sprintf("lines[%d].id", i), Message: "is required"}
		}
		if line.Count <= 0 {
			return &ValidationError{Field: fmt.Sprintf("lines[%d].count", i), Message: "must be a positive number"}
		}
	}
	return nil
}

// CheckMinTableSpend enforces the venue type's minimum food spend per table.
func CheckMinTableSpend(venue *models.Venue, tablePrice decimal.Decimal) error {
	min := venue.VenueType.MinTablePrice
	if tablePrice.LessThan(min) {
		return &CapacityError{
			Kind:      CapacityMinSpend,
			Limit:     min,
			Requested: tablePrice,
			Message: fmt.Sprintf("Venue %s (Type %s) : min table price %s (your: %s)",
				venue.Name, venue.VenueType.TypeName, min.String(), tablePrice.String()),
		}
	}
	return nil
}
