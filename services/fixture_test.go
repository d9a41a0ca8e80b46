package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"weddingpro-backend/config"
	"weddingpro-backend/models"
	"weddingpro-backend/repository"
	"weddingpro-backend/services"
)

var ict = time.FixedZone("ICT", 7*60*60)

type fixture struct {
	db      *gorm.DB
	clock   *services.FixedClock
	svc     *services.BookingService
	catalog *repository.CatalogRepository
	bills   *repository.BillRepository
	venue   models.Venue
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := config.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := newTestDB(t)

	venueType := models.VenueType{
		TypeName:       "A",
		MaxTableCount:  50,
		MinTablePrice:  decimal.NewFromInt(50000),
		DepositPercent: decimal.NewFromInt(30),
	}
	if err := db.Create(&venueType).Error; err != nil {
		t.Fatalf("create venue type: %v", err)
	}
	venue := models.Venue{Name: "Grand Hall", VenueTypeID: venueType.ID}
	if err := db.Omit("VenueType").Create(&venue).Error; err != nil {
		t.Fatalf("create venue: %v", err)
	}
	venue.VenueType = venueType

	clock := &services.FixedClock{At: time.Date(2024, 4, 1, 9, 0, 0, 0, ict)}
	catalog := repository.NewCatalogRepository(db)
	bills := repository.NewBillRepository(db)

	svc := services.NewBookingService(services.Dependencies{
		Tx:        repository.NewTransactor(db),
		Weddings:  repository.NewWeddingRepository(db),
		Orders:    repository.NewOrderRepository(db),
		Bills:     bills,
		Catalog:   catalog,
		Venues:    repository.NewVenueRepository(db),
		Customers: repository.NewCustomerRepository(db),
		Clock:     clock,
		Location:  ict,
		Logger:    zerolog.Nop(),
	})

	return &fixture{db: db, clock: clock, svc: svc, catalog: catalog, bills: bills, venue: venue}
}

func (f *fixture) food(t *testing.T, name string, price int64, inventory int) models.Food {
	t.Helper()
	food := models.Food{Name: name, Price: decimal.NewFromInt(price), Inventory: inventory, IsActive: true}
	if err := f.catalog.CreateFood(context.Background(), &food); err != nil {
		t.Fatalf("create food: %v", err)
	}
	return food
}

func (f *fixture) service(t *testing.T, name string, price int64, inventory int) models.Service {
	t.Helper()
	s := models.Service{Name: name, Price: decimal.NewFromInt(price), Inventory: inventory, IsActive: true}
	if err := f.catalog.CreateService(context.Background(), &s); err != nil {
		t.Fatalf("create service: %v", err)
	}
	return s
}

func weddingDay(day int) time.Time {
	return time.Date(2024, 5, day, 18, 0, 0, 0, ict)
}

func (f *fixture) book(t *testing.T, date time.Time, shift models.Shift, tables int) *models.Wedding {
	t.Helper()
	w, err := f.svc.CreateWedding(context.Background(), services.CreateWeddingInput{
		Groom:       "Minh",
		Bride:       "Lan",
		Phone:       "0901234567",
		WeddingDate: date,
		Shift:       shift,
		VenueID:     f.venue.ID,
		TableCount:  tables,
	})
	if err != nil {
		t.Fatalf("book wedding: %v", err)
	}
	return w
}

// bookWithMillion books 10 tables with one 100,000 dish: total 1,000,000.
func (f *fixture) bookWithMillion(t *testing.T) *models.Wedding {
	t.Helper()
	w := f.book(t, weddingDay(20), models.ShiftEvening, 10)
	dish := f.food(t, "Roast duck", 100000, 20)
	if _, err := f.svc.ComposeFoodOrder(context.Background(), w.ID, []services.OrderLine{{ItemID: dish.ID, Count: 1}}); err != nil {
		t.Fatalf("compose food: %v", err)
	}
	return w
}

func (f *fixture) billCount(t *testing.T, weddingID uuid.UUID) int {
	t.Helper()
	bills, err := f.bills.ListByWedding(context.Background(), weddingID)
	if err != nil {
		t.Fatalf("list bills: %v", err)
	}
	return len(bills)
}

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func assertDecimal(t *testing.T, name string, got, want decimal.Decimal) {
	t.Helper()
	if !got.Equal(want) {
		t.Errorf("%s = %s, want %s", name, got, want)
	}
}
