package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"weddingpro-backend/services"
	"weddingpro-backend/utils"
)

// respondWithServiceError maps engine errors to HTTP responses. Anything
// that is not a business rejection is logged and hidden behind a 500.
func respondWithServiceError(c *gin.Context, err error) {
	var (
		validation *services.ValidationError
		conflict   *services.ConflictError
		capacity   *services.CapacityError
		notFound   *services.NotFoundError
		payment    *services.InsufficientPaymentError
		settled    *services.AlreadySettledError
	)

	switch {
	case errors.As(err, &validation):
		utils.RespondWithError(c, http.StatusBadRequest, validation.Error())
	case errors.As(err, &notFound):
		utils.RespondWithError(c, http.StatusNotFound, notFound.Error())
	case errors.As(err, &conflict):
		utils.RespondWithError(c, http.StatusConflict, conflict.Error())
	case errors.As(err, &capacity):
		status := http.StatusBadRequest
		if capacity.Kind == services.CapacityMinSpend {
			status = http.StatusBadGateway
		}
		c.AbortWithStatusJSON(status, gin.H{
			"error":     capacity.Message,
			"kind":      capacity.Kind,
			"limit":     capacity.Limit,
			"requested": capacity.Requested,
		})
	case errors.As(err, &payment):
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{
			"error":     payment.Message,
			"paid":      payment.Paid,
			"required":  payment.Required,
			"shortfall": payment.Shortfall,
		})
	case errors.As(err, &settled):
		c.JSON(http.StatusOK, gin.H{
			"message":       "fully paid",
			"settled":       true,
			"remain_amount": settled.Remain,
		})
	case errors.Is(err, services.ErrRecordNotFound):
		utils.RespondWithError(c, http.StatusNotFound, "Record not found")
	default:
		log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		utils.RespondWithError(c, http.StatusInternalServerError, "Internal server error")
	}
}

// paramUUID parses a path parameter, answering 400 when it is malformed.
func paramUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid "+name+" format")
		return uuid.Nil, false
	}
	return id, true
}
