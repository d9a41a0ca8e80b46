package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"weddingpro-backend/models"
)

// InventoryLedger checks and commits stock for orderable items.
type InventoryLedger struct {
	catalog CatalogService
}

func NewInventoryLedger(catalog CatalogService) *InventoryLedger {
	return &InventoryLedger{catalog: catalog}
}

// Available reports whether count units fit in the item's remaining stock.
func (l *InventoryLedger) Available(item *CatalogItem, count int) bool {
	return item.Inventory-count >= 0
}

// shortageMessage is the rejection text for an order line over stock.
func shortageMessage(name string, remains int) string {
	return fmt.Sprintf("%s remains: %d, not enough to fulfill the order.", name, remains)
}

// CommitFood consumes stock for a settled food order. committed is the order
// an earlier settlement of the same wedding already consumed: only the
// difference per item is taken, and counts that went down go back to stock.
// Any item that would drop below zero fails the whole commit; the caller's
// transaction rolls back the items already changed.
func (l *InventoryLedger) CommitFood(ctx context.Context, lines, committed []models.FoodOrder) error {
	delta := map[uuid.UUID]int{}
	var items []uuid.UUID
	add := func(id uuid.UUID, count int) {
		if _, ok := delta[id]; !ok {
			items = append(items, id)
		}
		delta[id] += count
	}
	for _, line := range lines {
		add(line.ItemID, line.Count)
	}
	for _, line := range committed {
		add(line.ItemID, -line.Count)
	}

	for _, id := range items {
		count := delta[id]
		if count == 0 {
			continue
		}
		item, err := l.catalog.GetFoodItem(ctx, id)
		if err != nil {
			if errors.Is(err, ErrRecordNotFound) {
				// Retired items take no returns.
				if count < 0 {
					continue
				}
				return &NotFoundError{Resource: "food", ID: id.String()}
			}
			return fmt.Errorf("load food %s: %w", id, err)
		}
		if !l.Available(item, count) {
			return &CapacityError{
				Kind:      CapacityInventory,
				Limit:     decimal.NewFromInt(int64(item.Inventory)),
				Requested: decimal.NewFromInt(int64(count)),
				Message:   shortageMessage(item.Name, item.Inventory),
			}
		}
		if err := l.catalog.DecrementFoodInventory(ctx, item.ID, item.Inventory-count); err != nil {
			return fmt.Errorf("decrement food %s: %w", item.ID, err)
		}
	}
	return nil
}
