package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"weddingpro-backend/config"
	"weddingpro-backend/models"
	"weddingpro-backend/utils"
)

type RegisterInput struct {
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone"`
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role" binding:"omitempty,oneof=admin staff cashier"`
}

type LoginInput struct {
	Identifier string `json:"identifier" binding:"required"` // Can be email or phone
	Password   string `json:"password" binding:"required"`
}

// Register creates a staff account. The very first account becomes admin.
func Register(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var existingUser models.User
	result := config.DB.Where("email = ?", input.Email).First(&existingUser)
	if result.Error == nil {
		utils.RespondWithError(c, http.StatusConflict, "Email already registered")
		return
	} else if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	var userCount int64
	if err := config.DB.Model(&models.User{}).Count(&userCount).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}
	role := models.RoleStaff
	if userCount == 0 {
		role = models.RoleAdmin
	} else if input.Role != "" && input.Role != models.RoleAdmin {
		role = input.Role
	}

	newUser := models.User{
		Email:    input.Email,
		Phone:    utils.NormalizePhone(input.Phone),
		Name:     input.Name,
		Password: input.Password, // Will be hashed in BeforeCreate hook
		Role:     role,
		IsActive: true,
	}
	if err := config.DB.Create(&newUser).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create user")
		return
	}

	token, err := utils.GenerateToken(newUser.ID.String(), newUser.Role)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}
	c.SetCookie("token", token, utils.TokenMaxAge(), "/", "", true, true)

	c.JSON(http.StatusCreated, gin.H{
		"message": "Registration successful",
		"token":   token,
		"user": gin.H{
			"id":    newUser.ID,
			"email": newUser.Email,
			"name":  newUser.Name,
			"role":  newUser.Role,
		},
	})
}

func Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	identifier := strings.TrimSpace(input.Identifier)

	var user models.User
	result := config.DB.Where("(email = ? OR phone = ?) AND is_active = ?", identifier, utils.NormalizePhone(identifier), true).First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusUnauthorized, "Invalid credentials")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if !utils.CheckPasswordHash(input.Password, user.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := utils.GenerateToken(user.ID.String(), user.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	now := time.Now()
	config.DB.Model(&user).Update("last_login", &now)

	c.SetCookie("token", token, utils.TokenMaxAge(), "/", "", true, true)

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user": gin.H{
			"id":    user.ID,
			"email": user.Email,
			"name":  user.Name,
			"role":  user.Role,
		},
	})
}

func Me(c *gin.Context) {
	userID, exists := c.Get("userId")
	if !exists {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "User ID not found in context"})
		return
	}

	var user models.User
	if err := config.DB.First(&user, "id = ?", userID).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// createDefaultReminderTemplates seeds the payment reminder texts once.
func createDefaultReminderTemplates() error {
	defaultTemplates := []models.ReminderTemplate{
		{
			Type:    "upcoming",
			Message: "Hi [CustomerName], your wedding on [WeddingDate] is coming up. The remaining balance is [Remain]. Please settle it before the big day.",
		},
		{
			Type:    "overdue",
			Message: "Hi [CustomerName], the balance of [Remain] for your wedding on [WeddingDate] is overdue. Late fees may apply.",
		},
	}

	for _, template := range defaultTemplates {
		var count int64
		if err := config.DB.Model(&models.ReminderTemplate{}).Where("type = ?", template.Type).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		template.IsActive = true
		if err := config.DB.Create(&template).Error; err != nil {
			return err
		}
	}
	return nil
}

// SeedDefaults creates the records a fresh database needs.
func SeedDefaults() error {
	return createDefaultReminderTemplates()
}
