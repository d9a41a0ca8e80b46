// controllers/report.go
package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"weddingpro-backend/services"
	"weddingpro-backend/utils"
)

// ReportController handles all reporting functions
type ReportController struct {
	Revenue *services.RevenueService
}

// GetMonthlyRevenue answers ?year=&month=&includeFee=true with the
// estimated revenue of every wedding day in the month.
func (rc *ReportController) GetMonthlyRevenue(c *gin.Context) {
	now := time.Now()
	year, err := strconv.Atoi(c.DefaultQuery("year", strconv.Itoa(now.Year())))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid year")
		return
	}
	month, err := strconv.Atoi(c.DefaultQuery("month", strconv.Itoa(int(now.Month()))))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid month")
		return
	}
	includeFee := c.Query("includeFee") == "true"

	report, err := rc.Revenue.Monthly(c.Request.Context(), year, time.Month(month), includeFee)
	if err != nil {
		respondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// GetRevenueSummary returns received and estimated revenue over all weddings
func (rc *ReportController) GetRevenueSummary(c *gin.Context) {
	summary, err := rc.Revenue.Summary(c.Request.Context())
	if err != nil {
		respondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}
