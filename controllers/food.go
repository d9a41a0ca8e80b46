package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"weddingpro-backend/models"
	"weddingpro-backend/services"
	"weddingpro-backend/utils"
)

type CreateFoodInput struct {
	Name      string           `json:"name" binding:"required"`
	Price     *decimal.Decimal `json:"price" binding:"required"`
	Inventory int              `json:"inventory" binding:"min=0"`
}

type UpdateFoodInput struct {
	Name      *string          `json:"name"`
	Price     *decimal.Decimal `json:"price"`
	Inventory *int             `json:"inventory" binding:"omitempty,min=0"`
	IsActive  *bool            `json:"is_active"`
}

func (cc *CatalogController) CreateFood(c *gin.Context) {
	var input CreateFoodInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	if input.Price.IsNegative() {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: price must not be negative")
		return
	}

	food := models.Food{
		Name:      input.Name,
		Price:     *input.Price,
		Inventory: input.Inventory,
		IsActive:  true,
	}
	if err := cc.Repo.CreateFood(c.Request.Context(), &food); err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create food")
		return
	}

	c.JSON(http.StatusCreated, food)
}

func (cc *CatalogController) GetFoods(c *gin.Context) {
	foods, err := cc.Repo.ListFoods(c.Request.Context(), c.Query("active") == "true")
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve foods")
		return
	}

	c.JSON(http.StatusOK, foods)
}

func (cc *CatalogController) GetFood(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	food, err := cc.Repo.GetFood(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Food not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, food)
}

// UpdateFood changes catalog data only. Composed orders keep the price
// they were composed with.
func (cc *CatalogController) UpdateFood(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	var input UpdateFoodInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	food, err := cc.Repo.GetFood(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Food not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Name != nil {
		food.Name = *input.Name
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: price must not be negative")
			return
		}
		food.Price = *input.Price
	}
	if input.Inventory != nil {
		food.Inventory = *input.Inventory
	}
	if input.IsActive != nil {
		food.IsActive = *input.IsActive
	}

	if err := cc.Repo.SaveFood(c.Request.Context(), food); err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update food")
		return
	}

	c.JSON(http.StatusOK, food)
}

func (cc *CatalogController) DeleteFood(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	if err := cc.Repo.DeleteFood(c.Request.Context(), id); err != nil {
		if errors.Is(err, services.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Food not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete food")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Food deleted successfully"})
}
