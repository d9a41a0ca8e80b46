// controllers/service.go
package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"weddingpro-backend/models"
	"weddingpro-backend/repository"
	"weddingpro-backend/services"
	"weddingpro-backend/utils"
)

// CatalogController manages the orderable foods and services.
type CatalogController struct {
	Repo *repository.CatalogRepository
}

// CreateServiceInput defines the expected JSON structure for creating a service
type CreateServiceInput struct {
	Name        string           `json:"name" binding:"required"`
	Description string           `json:"description"`
	Price       *decimal.Decimal `json:"price" binding:"required"`
	Inventory   int              `json:"inventory" binding:"min=0"`
}

// UpdateServiceInput defines the expected JSON structure for updating a service
type UpdateServiceInput struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Inventory   *int             `json:"inventory" binding:"omitempty,min=0"`
	IsActive    *bool            `json:"is_active"`
}

func (cc *CatalogController) CreateService(c *gin.Context) {
	var input CreateServiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	if input.Price.IsNegative() {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: price must not be negative")
		return
	}

	service := models.Service{
		Name:        input.Name,
		Description: input.Description,
		Price:       *input.Price,
		Inventory:   input.Inventory,
		IsActive:    true,
	}
	if err := cc.Repo.CreateService(c.Request.Context(), &service); err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create service")
		return
	}

	c.JSON(http.StatusCreated, service)
}

func (cc *CatalogController) GetServices(c *gin.Context) {
	list, err := cc.Repo.ListServices(c.Request.Context(), c.Query("active") == "true")
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve services")
		return
	}

	c.JSON(http.StatusOK, list)
}

func (cc *CatalogController) GetService(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	service, err := cc.Repo.GetService(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Service not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, service)
}

func (cc *CatalogController) UpdateService(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	var input UpdateServiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	service, err := cc.Repo.GetService(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Service not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	// Update fields if provided
	if input.Name != nil {
		service.Name = *input.Name
	}
	if input.Description != nil {
		service.Description = *input.Description
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: price must not be negative")
			return
		}
		service.Price = *input.Price
	}
	if input.Inventory != nil {
		service.Inventory = *input.Inventory
	}
	if input.IsActive != nil {
		service.IsActive = *input.IsActive
	}

	if err := cc.Repo.SaveService(c.Request.Context(), service); err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update service")
		return
	}

	c.JSON(http.StatusOK, service)
}

// DeleteService soft deletes a service
func (cc *CatalogController) DeleteService(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	if err := cc.Repo.DeleteService(c.Request.Context(), id); err != nil {
		if errors.Is(err, services.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Service not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete service")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Service deleted successfully"})
}
