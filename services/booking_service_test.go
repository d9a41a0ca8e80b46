package services_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"weddingpro-backend/models"
	"weddingpro-backend/services"
)

func TestCreateWeddingAttachesCustomer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first := f.book(t, weddingDay(10), models.ShiftMorning, 10)
	if first.Customer == nil || first.Customer.Name != "Minh/Lan" {
		t.Fatalf("customer = %+v, want name Minh/Lan", first.Customer)
	}
	if first.BookingDay != "2024-05-10" {
		t.Errorf("booking day = %q, want 2024-05-10", first.BookingDay)
	}
	if first.PaymentStatus != models.StatusPending {
		t.Errorf("status = %q, want pending", first.PaymentStatus)
	}

	second := f.book(t, weddingDay(11), models.ShiftMorning, 10)
	if second.CustomerID != first.CustomerID {
		t.Errorf("second booking created a new customer")
	}

	found, err := f.svc.SearchWeddingsByPhone(ctx, "090-123-4567")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(found) != 2 {
		t.Errorf("search found %d weddings, want 2", len(found))
	}
}

func TestCreateWeddingValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	base := services.CreateWeddingInput{
		Groom:       "Minh",
		Bride:       "Lan",
		Phone:       "0901234567",
		WeddingDate: weddingDay(10),
		Shift:       models.ShiftMorning,
		VenueID:     f.venue.ID,
		TableCount:  10,
	}

	tests := []struct {
		name   string
		mutate func(in *services.CreateWeddingInput)
		field  string
	}{
		{"missing phone", func(in *services.CreateWeddingInput) { in.Phone = "" }, "phone"},
		{"bad phone", func(in *services.CreateWeddingInput) { in.Phone = "12ab" }, "phone"},
		{"missing groom", func(in *services.CreateWeddingInput) { in.Groom = " " }, "groom"},
		{"zero tables", func(in *services.CreateWeddingInput) { in.TableCount = 0 }, "table_count"},
		{"unknown shift", func(in *services.CreateWeddingInput) { in.Shift = "NOON" }, "shift"},
		{"missing date", func(in *services.CreateWeddingInput) { in.WeddingDate = time.Time{} }, "wedding_date"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := base
			tt.mutate(&in)
			_, err := f.svc.CreateWedding(ctx, in)
			var verr *services.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("err = %v, want ValidationError", err)
			}
			if verr.Field != tt.field {
				t.Errorf("field = %q, want %q", verr.Field, tt.field)
			}
		})
	}

	in := base
	in.VenueID = uuid.New()
	_, err := f.svc.CreateWedding(ctx, in)
	var nf *services.NotFoundError
	if !errors.As(err, &nf) {
		t.Errorf("unknown venue err = %v, want NotFoundError", err)
	}
}

func TestCreateWeddingOverCapacity(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CreateWedding(context.Background(), services.CreateWeddingInput{
		Groom:       "Minh",
		Bride:       "Lan",
		Phone:       "0901234567",
		WeddingDate: weddingDay(10),
		Shift:       models.ShiftMorning,
		VenueID:     f.venue.ID,
		TableCount:  51,
	})
	var cerr *services.CapacityError
	if !errors.As(err, &cerr) {
		t.Fatalf("err = %v, want CapacityError", err)
	}
	if cerr.Kind != services.CapacityTables {
		t.Errorf("kind = %s, want %s", cerr.Kind, services.CapacityTables)
	}
	assertDecimal(t, "limit", cerr.Limit, dec(50))
	assertDecimal(t, "requested", cerr.Requested, dec(51))
}

func TestCreateWeddingSlotConflict(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.book(t, weddingDay(10), models.ShiftEvening, 10)

	in := services.CreateWeddingInput{
		Groom:       "Tuan",
		Bride:       "Mai",
		Phone:       "0907654321",
		WeddingDate: time.Date(2024, 5, 10, 8, 30, 0, 0, ict),
		Shift:       models.ShiftEvening,
		VenueID:     f.venue.ID,
		TableCount:  5,
	}
	_, err := f.svc.CreateWedding(ctx, in)
	var conflict *services.ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("same day and shift: err = %v, want ConflictError", err)
	}

	in.Shift = models.ShiftMorning
	if _, err := f.svc.CreateWedding(ctx, in); err != nil {
		t.Errorf("other shift same day: %v", err)
	}

	// 05:00 on the 11th in ICT is still the 10th in UTC.
	in.WeddingDate = time.Date(2024, 5, 11, 5, 0, 0, 0, ict)
	in.Shift = models.ShiftEvening
	if _, err := f.svc.CreateWedding(ctx, in); err != nil {
		t.Errorf("next local day: %v", err)
	}

	in.WeddingDate = time.Date(2024, 5, 11, 23, 0, 0, 0, ict)
	if _, err := f.svc.CreateWedding(ctx, in); !errors.As(err, &conflict) {
		t.Errorf("same local day later: err = %v, want ConflictError", err)
	}
}

func TestUpdateWedding(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	w := f.book(t, weddingDay(10), models.ShiftEvening, 10)
	f.book(t, weddingDay(12), models.ShiftEvening, 10)

	note := "vegetarian table"
	updated, err := f.svc.UpdateWedding(ctx, w.ID, services.WeddingPatch{Note: &note})
	if err != nil {
		t.Fatalf("update own slot: %v", err)
	}
	if updated.Note != note {
		t.Errorf("note = %q", updated.Note)
	}

	sameDayLater := time.Date(2024, 5, 10, 20, 0, 0, 0, ict)
	if _, err := f.svc.UpdateWedding(ctx, w.ID, services.WeddingPatch{WeddingDate: &sameDayLater}); err != nil {
		t.Errorf("moving within its own slot: %v", err)
	}

	taken := weddingDay(12)
	_, err = f.svc.UpdateWedding(ctx, w.ID, services.WeddingPatch{WeddingDate: &taken})
	var conflict *services.ConflictError
	if !errors.As(err, &conflict) {
		t.Errorf("moving onto a taken slot: err = %v, want ConflictError", err)
	}

	tooMany := 80
	_, err = f.svc.UpdateWedding(ctx, w.ID, services.WeddingPatch{TableCount: &tooMany})
	var cerr *services.CapacityError
	if !errors.As(err, &cerr) || cerr.Kind != services.CapacityTables {
		t.Errorf("table count over max: err = %v, want CapacityError", err)
	}

	_, err = f.svc.UpdateWedding(ctx, uuid.New(), services.WeddingPatch{Note: &note})
	var nf *services.NotFoundError
	if !errors.As(err, &nf) {
		t.Errorf("unknown wedding: err = %v, want NotFoundError", err)
	}
}

func TestUpdateWeddingPhoneMovesCustomer(t *testing.T) {
	f := newFixture(t)
	w := f.book(t, weddingDay(10), models.ShiftEvening, 10)

	phone := "+84 909 000 111"
	updated, err := f.svc.UpdateWedding(context.Background(), w.ID, services.WeddingPatch{Phone: &phone})
	if err != nil {
		t.Fatalf("update phone: %v", err)
	}
	if updated.CustomerID == w.CustomerID {
		t.Fatalf("customer unchanged after phone edit")
	}
	if updated.Customer.Phone != "+84909000111" {
		t.Errorf("phone = %q, want normalized", updated.Customer.Phone)
	}
}

func TestComposeFoodOrderPricing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	w := f.book(t, weddingDay(10), models.ShiftEvening, 10)
	dish := f.food(t, "Lobster", 100000, 50)

	lines := []services.OrderLine{{ItemID: dish.ID, Count: 2}}
	res, err := f.svc.ComposeFoodOrder(ctx, w.ID, lines)
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	assertDecimal(t, "table price", res.Composition.TablePrice, dec(200000))
	assertDecimal(t, "total price", res.Composition.TotalPrice, dec(2000000))
	assertDecimal(t, "food price", res.Balance.FoodPrice, dec(2000000))

	again, err := f.svc.ComposeFoodOrder(ctx, w.ID, lines)
	if err != nil {
		t.Fatalf("recompose: %v", err)
	}
	assertDecimal(t, "total after recompose", again.Composition.TotalPrice, dec(2000000))

	stored, err := f.svc.FoodOrders(ctx, w.ID)
	if err != nil {
		t.Fatalf("food orders: %v", err)
	}
	if len(stored) != 1 || stored[0].Count != 2 {
		t.Fatalf("stored lines = %+v, want one line of 2", stored)
	}

	// Catalog price changes never reach a composed order.
	dish.Price = dec(999999)
	if err := f.catalog.SaveFood(ctx, &dish); err != nil {
		t.Fatalf("save food: %v", err)
	}
	balance, err := f.svc.GetBalance(ctx, w.ID)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	assertDecimal(t, "total after catalog change", balance.TotalPrice, dec(2000000))
}

func TestComposeServiceOrderHasNoTableMultiplier(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	w := f.book(t, weddingDay(10), models.ShiftEvening, 10)
	band := f.service(t, "Band", 3000000, 2)
	mc := f.service(t, "MC", 1500000, 1)

	res, err := f.svc.ComposeServiceOrder(ctx, w.ID, []services.OrderLine{
		{ItemID: band.ID, Count: 1},
		{ItemID: mc.ID, Count: 1},
	})
	if err != nil {
		t.Fatalf("compose services: %v", err)
	}
	assertDecimal(t, "total", res.Composition.TotalPrice, dec(4500000))
	assertDecimal(t, "service price", res.Balance.ServicePrice, dec(4500000))
	assertDecimal(t, "overall total", res.Balance.TotalPrice, dec(4500000))
}

func TestComposeFoodOrderRejectsShortStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	w := f.book(t, weddingDay(10), models.ShiftEvening, 10)
	scarce := f.food(t, "Abalone", 100000, 5)
	plenty := f.food(t, "Rice", 60000, 100)
	missing := uuid.New()

	res, err := f.svc.ComposeFoodOrder(ctx, w.ID, []services.OrderLine{
		{ItemID: scarce.ID, Count: 7},
		{ItemID: plenty.ID, Count: 1},
		{ItemID: missing, Count: 1},
	})
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	if res.Composition.Committed != 1 {
		t.Errorf("committed = %d, want 1", res.Composition.Committed)
	}
	if len(res.Composition.Rejected) != 2 {
		t.Fatalf("rejected = %v, want 2 entries", res.Composition.Rejected)
	}
	if want := "Abalone remains: 5, not enough to fulfill the order."; res.Composition.Rejected[0] != want {
		t.Errorf("rejection = %q, want %q", res.Composition.Rejected[0], want)
	}
	if !strings.Contains(res.Composition.Rejected[1], missing.String()) {
		t.Errorf("rejection = %q, want it to name %s", res.Composition.Rejected[1], missing)
	}
	assertDecimal(t, "table price", res.Composition.TablePrice, dec(60000))
	assertDecimal(t, "total", res.Composition.TotalPrice, dec(600000))
}

func TestComposeFoodOrderCountsRepeatedItems(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	w := f.book(t, weddingDay(10), models.ShiftEvening, 10)
	crab := f.food(t, "Crab", 100000, 5)

	res, err := f.svc.ComposeFoodOrder(ctx, w.ID, []services.OrderLine{
		{ItemID: crab.ID, Count: 3},
		{ItemID: crab.ID, Count: 3},
		{ItemID: crab.ID, Count: 2},
	})
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	if res.Composition.Committed != 2 {
		t.Errorf("committed = %d, want 2", res.Composition.Committed)
	}
	if len(res.Composition.Rejected) != 1 {
		t.Fatalf("rejected = %v, want 1 entry", res.Composition.Rejected)
	}
	if want := "Crab remains: 2, not enough to fulfill the order."; res.Composition.Rejected[0] != want {
		t.Errorf("rejection = %q, want %q", res.Composition.Rejected[0], want)
	}
	assertDecimal(t, "total", res.Composition.TotalPrice, dec(5000000))

	// The accepted lines fit in stock, so the wedding can be settled.
	if _, err := f.svc.FullPay(ctx, w.ID, dec(5000000)); err != nil {
		t.Fatalf("full pay: %v", err)
	}
	var stock models.Food
	if err := f.db.First(&stock, "id = ?", crab.ID).Error; err != nil {
		t.Fatalf("load crab: %v", err)
	}
	if stock.Inventory != 0 {
		t.Errorf("inventory = %d, want 0", stock.Inventory)
	}
}

func TestComposeFoodOrderCreditsSettledStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	w := f.book(t, weddingDay(10), models.ShiftEvening, 10)
	lobster := f.food(t, "Lobster", 100000, 1)
	order := []services.OrderLine{{ItemID: lobster.ID, Count: 1}}

	if _, err := f.svc.ComposeFoodOrder(ctx, w.ID, order); err != nil {
		t.Fatalf("compose: %v", err)
	}
	if _, err := f.svc.FullPay(ctx, w.ID, dec(1000000)); err != nil {
		t.Fatalf("full pay: %v", err)
	}

	// The last lobster belongs to this wedding already.
	res, err := f.svc.ComposeFoodOrder(ctx, w.ID, order)
	if err != nil {
		t.Fatalf("recompose: %v", err)
	}
	if res.Composition.Committed != 1 || len(res.Composition.Rejected) != 0 {
		t.Errorf("composition = %+v, want the line kept", res.Composition)
	}
	if res.Balance.Status != models.StatusPaid {
		t.Errorf("status = %s, want paid", res.Balance.Status)
	}
	var stock models.Food
	if err := f.db.First(&stock, "id = ?", lobster.ID).Error; err != nil {
		t.Fatalf("load lobster: %v", err)
	}
	if stock.Inventory != 0 {
		t.Errorf("inventory = %d, want 0", stock.Inventory)
	}
}

func TestComposeFoodOrderBelowMinimumLeavesNoLines(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	w := f.book(t, weddingDay(10), models.ShiftEvening, 10)
	cheap := f.food(t, "Spring rolls", 40000, 100)

	_, err := f.svc.ComposeFoodOrder(ctx, w.ID, []services.OrderLine{{ItemID: cheap.ID, Count: 1}})
	var cerr *services.CapacityError
	if !errors.As(err, &cerr) {
		t.Fatalf("err = %v, want CapacityError", err)
	}
	if cerr.Kind != services.CapacityMinSpend {
		t.Errorf("kind = %s, want %s", cerr.Kind, services.CapacityMinSpend)
	}
	assertDecimal(t, "limit", cerr.Limit, dec(50000))
	assertDecimal(t, "requested", cerr.Requested, dec(40000))
	if !strings.Contains(cerr.Message, "Grand Hall") || !strings.Contains(cerr.Message, "50000") || !strings.Contains(cerr.Message, "40000") {
		t.Errorf("message = %q, want venue name and both amounts", cerr.Message)
	}

	lines, err := f.svc.FoodOrders(ctx, w.ID)
	if err != nil {
		t.Fatalf("food orders: %v", err)
	}
	if len(lines) != 0 {
		t.Errorf("lines = %+v, want none", lines)
	}
}

func TestComposeFoodOrderBelowMinimumKeepsPreviousOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	w := f.book(t, weddingDay(10), models.ShiftEvening, 10)
	good := f.food(t, "Roast duck", 80000, 100)
	cheap := f.food(t, "Spring rolls", 40000, 100)

	if _, err := f.svc.ComposeFoodOrder(ctx, w.ID, []services.OrderLine{{ItemID: good.ID, Count: 1}}); err != nil {
		t.Fatalf("first compose: %v", err)
	}
	if _, err := f.svc.ComposeFoodOrder(ctx, w.ID, []services.OrderLine{{ItemID: cheap.ID, Count: 1}}); err == nil {
		t.Fatal("compose under minimum succeeded")
	}

	lines, err := f.svc.FoodOrders(ctx, w.ID)
	if err != nil {
		t.Fatalf("food orders: %v", err)
	}
	if len(lines) != 1 || lines[0].ItemID != good.ID {
		t.Errorf("lines = %+v, want the previous order intact", lines)
	}
}

func TestTableCountEditRechecksMinimum(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	w := f.bookWithMillion(t)

	// Raise the venue minimum above the composed table price.
	if err := f.db.Model(&models.VenueType{}).Where("id = ?", f.venue.VenueTypeID).
		Update("min_table_price", dec(150000)).Error; err != nil {
		t.Fatalf("raise minimum: %v", err)
	}

	tables := 12
	_, err := f.svc.UpdateWedding(ctx, w.ID, services.WeddingPatch{TableCount: &tables})
	var cerr *services.CapacityError
	if !errors.As(err, &cerr) || cerr.Kind != services.CapacityMinSpend {
		t.Errorf("err = %v, want min spend CapacityError", err)
	}
}
