package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"weddingpro-backend/models"
	"weddingpro-backend/repository"
	"weddingpro-backend/services"
	"weddingpro-backend/utils"
)

type VenueController struct {
	Repo *repository.VenueRepository
}

type VenueTypeInput struct {
	TypeName       string           `json:"type_name" binding:"required"`
	MaxTableCount  int              `json:"max_table_count" binding:"required,min=1"`
	MinTablePrice  *decimal.Decimal `json:"min_table_price" binding:"required"`
	DepositPercent *decimal.Decimal `json:"deposit_percent" binding:"required"`
}

type VenueInput struct {
	Name        string    `json:"name" binding:"required"`
	VenueTypeID uuid.UUID `json:"venue_type_id" binding:"required"`
}

func (in *VenueTypeInput) validate() string {
	if in.MinTablePrice.IsNegative() {
		return "min_table_price must not be negative"
	}
	if in.DepositPercent.IsNegative() || in.DepositPercent.GreaterThan(decimal.NewFromInt(100)) {
		return "deposit_percent must be between 0 and 100"
	}
	return ""
}

func (vc *VenueController) CreateVenueType(c *gin.Context) {
	var input VenueTypeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	if msg := input.validate(); msg != "" {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+msg)
		return
	}

	venueType := models.VenueType{
		TypeName:       input.TypeName,
		MaxTableCount:  input.MaxTableCount,
		MinTablePrice:  *input.MinTablePrice,
		DepositPercent: *input.DepositPercent,
	}
	if err := vc.Repo.CreateVenueType(c.Request.Context(), &venueType); err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create venue type")
		return
	}

	c.JSON(http.StatusCreated, venueType)
}

func (vc *VenueController) GetVenueTypes(c *gin.Context) {
	types, err := vc.Repo.ListVenueTypes(c.Request.Context())
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve venue types")
		return
	}

	c.JSON(http.StatusOK, types)
}

// UpdateVenueType replaces a type's policy. Existing bookings are not
// re-validated; the new limits apply from the next edit or payment.
func (vc *VenueController) UpdateVenueType(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	var input VenueTypeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	if msg := input.validate(); msg != "" {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+msg)
		return
	}

	venueType, err := vc.Repo.GetVenueType(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Venue type not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	venueType.TypeName = input.TypeName
	venueType.MaxTableCount = input.MaxTableCount
	venueType.MinTablePrice = *input.MinTablePrice
	venueType.DepositPercent = *input.DepositPercent

	if err := vc.Repo.SaveVenueType(c.Request.Context(), venueType); err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update venue type")
		return
	}

	c.JSON(http.StatusOK, venueType)
}

func (vc *VenueController) DeleteVenueType(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	if err := vc.Repo.DeleteVenueType(c.Request.Context(), id); err != nil {
		if errors.Is(err, services.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Venue type not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete venue type")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Venue type deleted successfully"})
}

func (vc *VenueController) CreateVenue(c *gin.Context) {
	var input VenueInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	venueType, err := vc.Repo.GetVenueType(c.Request.Context(), input.VenueTypeID)
	if err != nil {
		if errors.Is(err, services.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusBadRequest, "Venue type not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	venue := models.Venue{Name: input.Name, VenueTypeID: venueType.ID}
	if err := vc.Repo.CreateVenue(c.Request.Context(), &venue); err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create venue")
		return
	}
	venue.VenueType = *venueType

	c.JSON(http.StatusCreated, venue)
}

func (vc *VenueController) GetVenues(c *gin.Context) {
	venues, err := vc.Repo.ListVenues(c.Request.Context())
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve venues")
		return
	}

	c.JSON(http.StatusOK, venues)
}

func (vc *VenueController) GetVenue(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	venue, err := vc.Repo.GetVenue(c.Request.Context(), id, false)
	if err != nil {
		if errors.Is(err, services.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Venue not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, venue)
}

func (vc *VenueController) UpdateVenue(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	var input VenueInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	ctx := c.Request.Context()
	venue, err := vc.Repo.GetVenue(ctx, id, false)
	if err != nil {
		if errors.Is(err, services.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Venue not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}
	venueType, err := vc.Repo.GetVenueType(ctx, input.VenueTypeID)
	if err != nil {
		if errors.Is(err, services.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusBadRequest, "Venue type not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	venue.Name = input.Name
	venue.VenueTypeID = venueType.ID
	if err := vc.Repo.SaveVenue(ctx, venue); err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update venue")
		return
	}
	venue.VenueType = *venueType

	c.JSON(http.StatusOK, venue)
}

// DeleteVenue soft deletes; weddings already booked there keep their venue.
func (vc *VenueController) DeleteVenue(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	if err := vc.Repo.DeleteVenue(c.Request.Context(), id); err != nil {
		if errors.Is(err, services.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Venue not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete venue")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Venue deleted successfully"})
}
