package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"weddingpro-backend/models"
	"weddingpro-backend/repository"
	"weddingpro-backend/services"
)

func TestRevenue(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	big := f.bookWithMillion(t)
	if _, err := f.svc.Deposit(ctx, big.ID, dec(300000)); err != nil {
		t.Fatalf("deposit: %v", err)
	}
	if _, err := f.svc.TogglePenalty(ctx, big.ID); err != nil {
		t.Fatalf("toggle penalty: %v", err)
	}

	small := f.book(t, time.Date(2024, 5, 5, 10, 0, 0, 0, ict), models.ShiftMorning, 10)
	rice := f.food(t, "Rice", 60000, 100)
	if _, err := f.svc.ComposeFoodOrder(ctx, small.ID, []services.OrderLine{{ItemID: rice.ID, Count: 1}}); err != nil {
		t.Fatalf("compose: %v", err)
	}
	if _, err := f.svc.FullPay(ctx, small.ID, dec(700000)); err != nil {
		t.Fatalf("full pay: %v", err)
	}

	// Booked but never billed.
	f.book(t, weddingDay(20), models.ShiftMorning, 5)

	f.clock.At = time.Date(2024, 5, 23, 8, 0, 0, 0, ict)
	revenue := services.NewRevenueService(repository.NewWeddingRepository(f.db), f.bills, f.clock, ict)

	t.Run("monthly", func(t *testing.T) {
		got, err := revenue.Monthly(ctx, 2024, time.May, false)
		if err != nil {
			t.Fatalf("Monthly: %v", err)
		}
		assertDecimal(t, "total", got.Total, dec(1600000))
		if len(got.Days) != 2 {
			t.Fatalf("days = %+v, want 2", got.Days)
		}
		first, second := got.Days[0], got.Days[1]
		if first.Day != "2024-05-05" || second.Day != "2024-05-20" {
			t.Errorf("days = %s, %s", first.Day, second.Day)
		}
		assertDecimal(t, "first estimate", first.EstimateRevenue, dec(600000))
		assertDecimal(t, "first ratio", first.Ratio, decimal.NewFromFloat(37.5))
		assertDecimal(t, "second ratio", second.Ratio, decimal.NewFromFloat(62.5))
		if second.WeddingCount != 2 {
			t.Errorf("second day weddings = %d, want 2", second.WeddingCount)
		}
	})

	t.Run("monthly with fee", func(t *testing.T) {
		got, err := revenue.Monthly(ctx, 2024, time.May, true)
		if err != nil {
			t.Fatalf("Monthly: %v", err)
		}
		assertDecimal(t, "total", got.Total, dec(1630000))
	})

	t.Run("empty month", func(t *testing.T) {
		got, err := revenue.Monthly(ctx, 2024, time.June, false)
		if err != nil {
			t.Fatalf("Monthly: %v", err)
		}
		if len(got.Days) != 0 || !got.Total.IsZero() {
			t.Errorf("june = %+v, want empty", got)
		}
	})

	t.Run("bad month", func(t *testing.T) {
		_, err := revenue.Monthly(ctx, 2024, 13, false)
		var verr *services.ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("err = %v, want ValidationError", err)
		}
	})

	t.Run("summary", func(t *testing.T) {
		got, err := revenue.Summary(ctx)
		if err != nil {
			t.Fatalf("Summary: %v", err)
		}
		if got.WeddingCount != 3 {
			t.Errorf("weddings = %d, want 3", got.WeddingCount)
		}
		// The 100000 overpayment is not revenue.
		assertDecimal(t, "real", got.RealRevenue, dec(900000))
		assertDecimal(t, "estimate", got.EstimateRevenue, dec(1630000))
	})

	t.Run("summary after edit of overpaid wedding", func(t *testing.T) {
		res, err := f.svc.ComposeFoodOrder(ctx, small.ID, []services.OrderLine{{ItemID: rice.ID, Count: 1}})
		if err != nil {
			t.Fatalf("recompose: %v", err)
		}
		assertDecimal(t, "carried remain", res.Balance.Remain, dec(-100000))
		if n := f.billCount(t, small.ID); n != 2 {
			t.Fatalf("bills = %d, want 2", n)
		}

		got, err := revenue.Summary(ctx)
		if err != nil {
			t.Fatalf("Summary: %v", err)
		}
		assertDecimal(t, "real", got.RealRevenue, dec(900000))
	})
}
