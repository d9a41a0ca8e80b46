package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"weddingpro-backend/repository"
	"weddingpro-backend/services"
	"weddingpro-backend/utils"
)

// CustomerController exposes customers. They are created by booking a
// wedding, so there is no create endpoint.
type CustomerController struct {
	Repo *repository.CustomerRepository
}

// UpdateCustomerInput defines the expected JSON structure for updating a customer
type UpdateCustomerInput struct {
	Name  *string `json:"name"`
	Phone *string `json:"phone"`
	Email *string `json:"email" binding:"omitempty,email"`
	Notes *string `json:"notes"`
}

// GetCustomers lists customers with optional ?search= and paging
func (cc *CustomerController) GetCustomers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	customers, total, err := cc.Repo.ListCustomers(c.Request.Context(), c.Query("search"), page, limit)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve customers")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":  customers,
		"total": total,
		"page":  page,
	})
}

// GetCustomer returns a customer with their weddings
func (cc *CustomerController) GetCustomer(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	customer, err := cc.Repo.GetCustomer(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Customer not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, customer)
}

func (cc *CustomerController) UpdateCustomer(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	var input UpdateCustomerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	ctx := c.Request.Context()
	customer, err := cc.Repo.GetCustomer(ctx, id)
	if err != nil {
		if errors.Is(err, services.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Customer not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Name != nil {
		customer.Name = *input.Name
	}
	if input.Phone != nil {
		// Validate phone format
		if !utils.ValidatePhone(*input.Phone) {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format")
			return
		}
		customer.Phone = utils.NormalizePhone(*input.Phone)
	}
	if input.Email != nil {
		customer.Email = *input.Email
	}
	if input.Notes != nil {
		customer.Notes = *input.Notes
	}

	if err := cc.Repo.SaveCustomer(ctx, customer); err != nil {
		if errors.Is(err, services.ErrDuplicateKey) {
			utils.RespondWithError(c, http.StatusConflict, "Customer with this phone number already exists")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update customer")
		}
		return
	}

	c.JSON(http.StatusOK, customer)
}
