package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"weddingpro-backend/models"
)

// Pricing is the live price of a wedding's current order.
type Pricing struct {
	FoodPrice    decimal.Decimal `json:"food_price"`
	ServicePrice decimal.Decimal `json:"service_price"`
	TotalPrice   decimal.Decimal `json:"total_price"`
	// TablePrice is the food spend of a single table.
	TablePrice decimal.Decimal `json:"table_price"`

	foods    []models.FoodOrder
	services []models.ServiceOrder
}

// PricingEngine recomputes prices from the order lines, never from bills.
type PricingEngine struct {
	orders OrderStore
}

func NewPricingEngine(orders OrderStore) *PricingEngine {
	return &PricingEngine{orders: orders}
}

func (p *PricingEngine) Prepare(ctx context.Context, wedding *models.Wedding) (*Pricing, error) {
	foods, err := p.orders.FoodLines(ctx, wedding.ID)
	if err != nil {
		return nil, fmt.Errorf("load food lines: %w", err)
	}
	services, err := p.orders.ServiceLines(ctx, wedding.ID)
	if err != nil {
		return nil, fmt.Errorf("load service lines: %w", err)
	}

	tablePrice := decimal.Zero
	for _, f := range foods {
		tablePrice = tablePrice.Add(f.ItemPrice.Mul(decimal.NewFromInt(int64(f.Count))))
	}
	servicePrice := decimal.Zero
	for _, s := range services {
		servicePrice = servicePrice.Add(s.ItemPrice.Mul(decimal.NewFromInt(int64(s.Count))))
	}
	foodPrice := tablePrice.Mul(decimal.NewFromInt(int64(wedding.TableCount)))

	return &Pricing{
		FoodPrice:    foodPrice,
		ServicePrice: servicePrice,
		TotalPrice:   foodPrice.Add(servicePrice),
		TablePrice:   tablePrice,
		foods:        foods,
		services:     services,
	}, nil
}

// HasFood reports whether the wedding has any food lines.
func (p *Pricing) HasFood() bool {
	return len(p.foods) > 0
}

// lineSnapshot is the stored form of a bill's order lines.
type lineSnapshot struct {
	Foods    []models.FoodOrder    `json:"foods"`
	Services []models.ServiceOrder `json:"services"`
}

// Snapshot encodes the priced lines for storage on a bill.
func (p *Pricing) Snapshot() (datatypes.JSON, error) {
	raw, err := json.Marshal(lineSnapshot{Foods: p.foods, Services: p.services})
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}

// snapshotFoods decodes the food lines stored on a bill.
func snapshotFoods(raw datatypes.JSON) ([]models.FoodOrder, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var lines lineSnapshot
	if err := json.Unmarshal([]byte(raw), &lines); err != nil {
		return nil, err
	}
	return lines.Foods, nil
}
