package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"weddingpro-backend/config"
	"weddingpro-backend/controllers"
	"weddingpro-backend/models"
	"weddingpro-backend/repository"
	"weddingpro-backend/services"
	"weddingpro-backend/utils"
)

type server struct {
	t       *testing.T
	router  *gin.Engine
	venueID uuid.UUID
	admin   string
	cashier string
	staff   string
}

func newServer(t *testing.T) *server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	t.Setenv("JWT_SECRET", "test-secret")

	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	if err := config.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	config.DB = db

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

	ict := time.FixedZone("ICT", 7*60*60)
	clock := &services.FixedClock{At: time.Date(2024, 4, 1, 9, 0, 0, 0, ict)}
	weddings := repository.NewWeddingRepository(db)
	bills := repository.NewBillRepository(db)
	catalog := repository.NewCatalogRepository(db)
	venues := repository.NewVenueRepository(db)
	customers := repository.NewCustomerRepository(db)

	booking := services.NewBookingService(services.Dependencies{
		Tx:        repository.NewTransactor(db),
		Weddings:  weddings,
		Orders:    repository.NewOrderRepository(db),
		Bills:     bills,
		Catalog:   catalog,
		Venues:    venues,
		Customers: customers,
		Clock:     clock,
		Location:  ict,
		Logger:    zerolog.Nop(),
	})

	router := SetupRouter(&config.Config{CORSOrigins: []string{"http://localhost:3000"}}, zerolog.Nop(), Handlers{
		Weddings:  &controllers.WeddingController{Booking: booking},
		Catalog:   &controllers.CatalogController{Repo: catalog},
		Venues:    &controllers.VenueController{Repo: venues},
		Customers: &controllers.CustomerController{Repo: customers},
		Reports:   &controllers.ReportController{Revenue: services.NewRevenueService(weddings, bills, clock, ict)},
	})

	s := &server{t: t, router: router, venueID: venue.ID}
	s.admin = s.token(models.RoleAdmin)
	s.cashier = s.token(models.RoleCashier)
	s.staff = s.token(models.RoleStaff)
	return s
}

func (s *server) token(role string) string {
	s.t.Helper()
	tok, err := utils.GenerateToken(uuid.NewString(), role)
	if err != nil {
		s.t.Fatalf("token: %v", err)
	}
	return tok
}

func (s *server) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			s.t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *server) expect(w *httptest.ResponseRecorder, status int, out interface{}) {
	s.t.Helper()
	if w.Code != status {
		s.t.Fatalf("status = %d, want %d: %s", w.Code, status, w.Body.String())
	}
	if out != nil {
		if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
			s.t.Fatalf("decode %s: %v", w.Body.String(), err)
		}
	}
}

type idResponse struct {
	ID uuid.UUID `json:"id"`
}

func (s *server) createFood(name string, price int64) uuid.UUID {
	s.t.Helper()
	var food idResponse
	s.expect(s.do(http.MethodPost, "/api/v1/foods", s.admin, gin.H{
		"name": name, "price": price, "inventory": 20,
	}), http.StatusCreated, &food)
	return food.ID
}

func (s *server) weddingBody(date string) gin.H {
	return gin.H{
		"groom":        "Minh",
		"bride":        "Lan",
		"phone":        "0901234567",
		"wedding_date": date,
		"shift":        "EVENING",
		"venue_id":     s.venueID,
		"table_count":  10,
	}
}

func TestBookingFlow(t *testing.T) {
	s := newServer(t)

	s.expect(s.do(http.MethodGet, "/api/v1/weddings", "", nil), http.StatusUnauthorized, nil)
	s.expect(s.do(http.MethodPost, "/api/v1/foods", s.staff, gin.H{"name": "x", "price": 1}), http.StatusForbidden, nil)

	duck := s.createFood("Roast duck", 100000)

	bad := s.weddingBody("2024-05-20T18:00:00+07:00")
	bad["shift"] = "NOON"
	s.expect(s.do(http.MethodPost, "/api/v1/weddings", s.staff, bad), http.StatusBadRequest, nil)

	var wedding idResponse
	s.expect(s.do(http.MethodPost, "/api/v1/weddings", s.staff, s.weddingBody("2024-05-20T18:00:00+07:00")), http.StatusCreated, &wedding)
	s.expect(s.do(http.MethodPost, "/api/v1/weddings", s.staff, s.weddingBody("2024-05-20T19:30:00+07:00")), http.StatusConflict, nil)

	var onDay []idResponse
	s.expect(s.do(http.MethodGet, "/api/v1/weddings?from=2024-05-20&to=2024-05-20", s.staff, nil), http.StatusOK, &onDay)
	if len(onDay) != 1 || onDay[0].ID != wedding.ID {
		t.Errorf("weddings on the 20th = %+v, want the booked one", onDay)
	}
	var before []idResponse
	s.expect(s.do(http.MethodGet, "/api/v1/weddings?to=2024-05-19", s.staff, nil), http.StatusOK, &before)
	if len(before) != 0 {
		t.Errorf("weddings up to the 19th = %d, want 0", len(before))
	}

	base := "/api/v1/weddings/" + wedding.ID.String()

	var order struct {
		Composition struct {
			TotalPrice decimal.Decimal `json:"total_price"`
		} `json:"composition"`
	}
	s.expect(s.do(http.MethodPut, base+"/foods", s.staff, gin.H{
		"lines": []gin.H{{"id": duck, "count": 1}},
	}), http.StatusOK, &order)
	if !order.Composition.TotalPrice.Equal(decimal.NewFromInt(1000000)) {
		t.Errorf("total = %s, want 1000000", order.Composition.TotalPrice)
	}

	s.expect(s.do(http.MethodPost, base+"/deposit", s.staff, gin.H{"transaction_amount": 300000}), http.StatusForbidden, nil)

	var short struct {
		Shortfall decimal.Decimal `json:"shortfall"`
	}
	s.expect(s.do(http.MethodPost, base+"/deposit", s.cashier, gin.H{"transaction_amount": 250000}), http.StatusUnprocessableEntity, &short)
	if !short.Shortfall.Equal(decimal.NewFromInt(50000)) {
		t.Errorf("shortfall = %s, want 50000", short.Shortfall)
	}

	var paid struct {
		Status string          `json:"status"`
		Remain decimal.Decimal `json:"remain_amount"`
	}
	s.expect(s.do(http.MethodPost, base+"/full-pay", s.cashier, gin.H{"transaction_amount": 1000000}), http.StatusCreated, &paid)
	if paid.Status != "paid" || !paid.Remain.IsZero() {
		t.Errorf("full pay = %+v, want paid with nothing left", paid)
	}

	var again struct {
		Settled bool `json:"settled"`
	}
	s.expect(s.do(http.MethodPost, base+"/full-pay", s.cashier, gin.H{"transaction_amount": 1000000}), http.StatusOK, &again)
	if !again.Settled {
		t.Errorf("repeat full pay not reported as settled")
	}

	var bills []models.Bill
	s.expect(s.do(http.MethodGet, base+"/bills", s.staff, nil), http.StatusOK, &bills)
	if len(bills) != 1 {
		t.Errorf("bills = %d, want 1", len(bills))
	}

	var summary services.RevenueSummary
	s.expect(s.do(http.MethodGet, "/api/v1/reports/summary", s.cashier, nil), http.StatusOK, &summary)
	if !summary.RealRevenue.Equal(decimal.NewFromInt(1000000)) {
		t.Errorf("real revenue = %s, want 1000000", summary.RealRevenue)
	}
	s.expect(s.do(http.MethodGet, "/api/v1/reports/summary", s.staff, nil), http.StatusForbidden, nil)
}

func TestErrorResponses(t *testing.T) {
	s := newServer(t)

	s.expect(s.do(http.MethodGet, "/api/v1/weddings/not-a-uuid", s.staff, nil), http.StatusBadRequest, nil)
	s.expect(s.do(http.MethodGet, "/api/v1/weddings/"+uuid.NewString(), s.staff, nil), http.StatusNotFound, nil)

	over := s.weddingBody("2024-05-21T18:00:00+07:00")
	over["table_count"] = 60
	var capacity struct {
		Kind      string          `json:"kind"`
		Limit     decimal.Decimal `json:"limit"`
		Requested decimal.Decimal `json:"requested"`
	}
	s.expect(s.do(http.MethodPost, "/api/v1/weddings", s.staff, over), http.StatusBadRequest, &capacity)
	if capacity.Kind != string(services.CapacityTables) || !capacity.Limit.Equal(decimal.NewFromInt(50)) || !capacity.Requested.Equal(decimal.NewFromInt(60)) {
		t.Errorf("capacity = %+v", capacity)
	}

	rolls := s.createFood("Spring rolls", 40000)
	var wedding idResponse
	s.expect(s.do(http.MethodPost, "/api/v1/weddings", s.staff, s.weddingBody("2024-05-22T18:00:00+07:00")), http.StatusCreated, &wedding)
	s.expect(s.do(http.MethodPut, "/api/v1/weddings/"+wedding.ID.String()+"/foods", s.staff, gin.H{
		"lines": []gin.H{{"id": rolls, "count": 1}},
	}), http.StatusBadGateway, nil)

	s.expect(s.do(http.MethodPost, "/api/v1/reminders/run", s.admin, nil), http.StatusServiceUnavailable, nil)
	s.expect(s.do(http.MethodGet, "/api/v1/reports/revenue?year=2024&month=13", s.admin, nil), http.StatusBadRequest, nil)
}

func TestAuthRoutes(t *testing.T) {
	s := newServer(t)
	cost := utils.PasswordCost
	utils.PasswordCost = 4
	t.Cleanup(func() { utils.PasswordCost = cost })

	s.expect(s.do(http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"email": "owner@example.com", "name": "Owner", "password": "secret123",
	}), http.StatusCreated, nil)

	var login struct {
		Token string `json:"token"`
	}
	s.expect(s.do(http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"identifier": "owner@example.com", "password": "secret123",
	}), http.StatusOK, &login)
	if login.Token == "" {
		t.Fatal("login returned no token")
	}

	var me struct {
		User models.User `json:"user"`
	}
	s.expect(s.do(http.MethodGet, "/api/v1/auth/me", login.Token, nil), http.StatusOK, &me)
	if me.User.Role != models.RoleAdmin {
		t.Errorf("first user role = %q, want admin", me.User.Role)
	}

	s.expect(s.do(http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"identifier": "owner@example.com", "password": "wrong-password",
	}), http.StatusUnauthorized, nil)
}
