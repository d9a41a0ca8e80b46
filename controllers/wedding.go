package controllers

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"weddingpro-backend/models"
	"weddingpro-backend/services"
	"weddingpro-backend/utils"
)

// WeddingController serves bookings, orders and payments.
type WeddingController struct {
	Booking *services.BookingService
}

type CreateWeddingInput struct {
	Groom       string       `json:"groom" binding:"required"`
	Bride       string       `json:"bride" binding:"required"`
	Phone       string       `json:"phone" binding:"required"`
	WeddingDate *time.Time   `json:"wedding_date" binding:"required"`
	Shift       models.Shift `json:"shift" binding:"required,shift"`
	VenueID     uuid.UUID    `json:"venue_id" binding:"required"`
	TableCount  int          `json:"table_count" binding:"required,min=1"`
	Note        string       `json:"note"`
}

type UpdateWeddingInput struct {
	Groom       *string       `json:"groom"`
	Bride       *string       `json:"bride"`
	Phone       *string       `json:"phone"`
	WeddingDate *time.Time    `json:"wedding_date"`
	Shift       *models.Shift `json:"shift" binding:"omitempty,shift"`
	VenueID     *uuid.UUID    `json:"venue_id"`
	TableCount  *int          `json:"table_count" binding:"omitempty,min=1"`
	Note        *string       `json:"note"`
}

type OrderInput struct {
	Lines []services.OrderLine `json:"lines" binding:"dive"`
}

type PaymentInput struct {
	TransactionAmount *decimal.Decimal `json:"transaction_amount" binding:"required"`
}

var registerOnce sync.Once

// RegisterValidators adds the custom binding tags used by the inputs above.
func RegisterValidators() {
	registerOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			_ = v.RegisterValidation("shift", func(fl validator.FieldLevel) bool {
				return models.Shift(fl.Field().String()).Valid()
			})
		}
	})
}

func (wc *WeddingController) CreateWedding(c *gin.Context) {
	var input CreateWeddingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	wedding, err := wc.Booking.CreateWedding(c.Request.Context(), services.CreateWeddingInput{
		Groom:       input.Groom,
		Bride:       input.Bride,
		Phone:       input.Phone,
		WeddingDate: *input.WeddingDate,
		Shift:       input.Shift,
		VenueID:     input.VenueID,
		TableCount:  input.TableCount,
		Note:        input.Note,
	})
	if err != nil {
		respondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, wedding)
}

// GetWeddings lists weddings, filtered by ?status= and a ?from=&to= day range.
// Both days are inclusive.
func (wc *WeddingController) GetWeddings(c *gin.Context) {
	var filter services.WeddingFilter
	if status := c.Query("status"); status != "" {
		filter.Status = models.PaymentStatus(status)
	}
	for key, target := range map[string]**time.Time{"from": &filter.From, "to": &filter.To} {
		raw := c.Query(key)
		if raw == "" {
			continue
		}
		day, err := time.ParseInLocation(utils.DayLayout, raw, wc.location())
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid "+key+" date, expected YYYY-MM-DD")
			return
		}
		if key == "to" {
			day = day.AddDate(0, 0, 1)
		}
		*target = &day
	}

	weddings, err := wc.Booking.ListWeddings(c.Request.Context(), filter)
	if err != nil {
		respondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, weddings)
}

func (wc *WeddingController) GetWedding(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	wedding, err := wc.Booking.GetWedding(c.Request.Context(), id)
	if err != nil {
		respondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, wedding)
}

func (wc *WeddingController) UpdateWedding(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	var input UpdateWeddingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	wedding, err := wc.Booking.UpdateWedding(c.Request.Context(), id, services.WeddingPatch{
		Groom:       input.Groom,
		Bride:       input.Bride,
		Phone:       input.Phone,
		WeddingDate: input.WeddingDate,
		Shift:       input.Shift,
		VenueID:     input.VenueID,
		TableCount:  input.TableCount,
		Note:        input.Note,
	})
	if err != nil {
		respondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, wedding)
}

// GetWeddingsInMonth answers ?year=2024&month=4
func (wc *WeddingController) GetWeddingsInMonth(c *gin.Context) {
	year, errYear := strconv.Atoi(c.Query("year"))
	month, errMonth := strconv.Atoi(c.Query("month"))
	if errYear != nil || errMonth != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "year and month are required")
		return
	}

	weddings, err := wc.Booking.WeddingsInMonth(c.Request.Context(), year, time.Month(month))
	if err != nil {
		respondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, weddings)
}

func (wc *WeddingController) SearchWeddings(c *gin.Context) {
	weddings, err := wc.Booking.SearchWeddingsByPhone(c.Request.Context(), c.Query("phone"))
	if err != nil {
		respondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, weddings)
}

func (wc *WeddingController) ComposeFoodOrder(c *gin.Context) {
	wc.compose(c, wc.Booking.ComposeFoodOrder)
}

func (wc *WeddingController) ComposeServiceOrder(c *gin.Context) {
	wc.compose(c, wc.Booking.ComposeServiceOrder)
}

func (wc *WeddingController) compose(c *gin.Context, fn func(ctx context.Context, id uuid.UUID, lines []services.OrderLine) (*services.OrderResult, error)) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	var input OrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	result, err := fn(c.Request.Context(), id, input.Lines)
	if err != nil {
		respondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (wc *WeddingController) GetFoodOrders(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	lines, err := wc.Booking.FoodOrders(c.Request.Context(), id)
	if err != nil {
		respondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, lines)
}

func (wc *WeddingController) GetServiceOrders(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	lines, err := wc.Booking.ServiceOrders(c.Request.Context(), id)
	if err != nil {
		respondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, lines)
}

func (wc *WeddingController) Deposit(c *gin.Context) {
	wc.pay(c, wc.Booking.Deposit)
}

func (wc *WeddingController) FullPay(c *gin.Context) {
	wc.pay(c, wc.Booking.FullPay)
}

func (wc *WeddingController) pay(c *gin.Context, fn func(ctx context.Context, id uuid.UUID, amount decimal.Decimal) (*services.Settlement, error)) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	var input PaymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	settlement, err := fn(c.Request.Context(), id, *input.TransactionAmount)
	if err != nil {
		respondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, settlement)
}

func (wc *WeddingController) TogglePenalty(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	result, err := wc.Booking.TogglePenalty(c.Request.Context(), id)
	if err != nil {
		respondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (wc *WeddingController) GetBalance(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	balance, err := wc.Booking.GetBalance(c.Request.Context(), id)
	if err != nil {
		respondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, balance)
}

func (wc *WeddingController) GetBills(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	bills, err := wc.Booking.Bills(c.Request.Context(), id)
	if err != nil {
		respondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, bills)
}

func (wc *WeddingController) location() *time.Location {
	return wc.Booking.Location()
}
