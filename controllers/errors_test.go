package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"weddingpro-backend/services"
)

func TestRespondWithServiceError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name   string
		err    error
		status int
		field  string
		value  string
	}{
		{"validation", &services.ValidationError{Field: "phone", Message: "is required"}, http.StatusBadRequest, "error", "phone: is required"},
		{"not found", &services.NotFoundError{Resource: "wedding", ID: "42"}, http.StatusNotFound, "error", "wedding not found for id: 42"},
		{"conflict", &services.ConflictError{Message: "This date & shift had a wedding"}, http.StatusConflict, "error", "This date & shift had a wedding"},
		{"table capacity", &services.CapacityError{Kind: services.CapacityTables, Message: "too many"}, http.StatusBadRequest, "kind", "table_count"},
		{"min spend", &services.CapacityError{Kind: services.CapacityMinSpend, Message: "too cheap"}, http.StatusBadGateway, "error", "too cheap"},
		{"insufficient", &services.InsufficientPaymentError{Shortfall: decimal.NewFromInt(5), Message: "short"}, http.StatusUnprocessableEntity, "shortfall", "5"},
		{"settled", &services.AlreadySettledError{WeddingID: "42"}, http.StatusOK, "message", "fully paid"},
		{"wrapped settled", fmt.Errorf("pay: %w", &services.AlreadySettledError{WeddingID: "42"}), http.StatusOK, "message", "fully paid"},
		{"bare not found", services.ErrRecordNotFound, http.StatusNotFound, "error", "Record not found"},
		{"infrastructure", errors.New("connection reset"), http.StatusInternalServerError, "error", "Internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			respondWithServiceError(c, tt.err)

			if w.Code != tt.status {
				t.Fatalf("status = %d, want %d", w.Code, tt.status)
			}
			var body map[string]interface{}
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode %s: %v", w.Body.String(), err)
			}
			if got := fmt.Sprint(body[tt.field]); got != tt.value {
				t.Errorf("%s = %q, want %q", tt.field, got, tt.value)
			}
		})
	}
}
