// controllers/reminder.go
package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"weddingpro-backend/config"
	"weddingpro-backend/models"
	"weddingpro-backend/services"
	"weddingpro-backend/utils"
)

type CreateReminderTemplateInput struct {
	Type    string `json:"type" binding:"required,oneof=upcoming overdue"`
	Message string `json:"message" binding:"required"`
}

type UpdateReminderTemplateInput struct {
	Type     *string `json:"type" binding:"omitempty,oneof=upcoming overdue"`
	Message  *string `json:"message"`
	IsActive *bool   `json:"is_active"`
}

func CreateReminderTemplate(c *gin.Context) {
	var input CreateReminderTemplateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	// Check if template type already exists
	var existingTemplate models.ReminderTemplate
	if err := config.DB.Where("type = ?", input.Type).First(&existingTemplate).Error; err == nil {
		utils.RespondWithError(c, http.StatusConflict, "Template for this type already exists")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	template := models.ReminderTemplate{
		Type:     input.Type,
		Message:  input.Message,
		IsActive: true,
	}
	if err := config.DB.Create(&template).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create template")
		return
	}

	c.JSON(http.StatusCreated, template)
}

func GetReminderTemplates(c *gin.Context) {
	var templates []models.ReminderTemplate
	if err := config.DB.Order("type").Find(&templates).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve templates")
		return
	}

	c.JSON(http.StatusOK, templates)
}

func GetReminderTemplate(c *gin.Context) {
	templateUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid template ID format")
		return
	}

	var template models.ReminderTemplate
	if err := config.DB.First(&template, "id = ?", templateUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Template not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, template)
}

func UpdateReminderTemplate(c *gin.Context) {
	templateUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid template ID format")
		return
	}

	var input UpdateReminderTemplateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var template models.ReminderTemplate
	if err := config.DB.First(&template, "id = ?", templateUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Template not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	// If changing type, check for conflict
	if input.Type != nil && *input.Type != template.Type {
		var existingTemplate models.ReminderTemplate
		if err := config.DB.Where("type = ?", *input.Type).First(&existingTemplate).Error; err == nil {
			utils.RespondWithError(c, http.StatusConflict, "Template for this type already exists")
			return
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
			return
		}
		template.Type = *input.Type
	}

	if input.Message != nil {
		template.Message = *input.Message
	}
	if input.IsActive != nil {
		template.IsActive = *input.IsActive
	}

	if err := config.DB.Save(&template).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update template")
		return
	}

	c.JSON(http.StatusOK, template)
}

func DeleteReminderTemplate(c *gin.Context) {
	templateUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid template ID format")
		return
	}

	result := config.DB.Delete(&models.ReminderTemplate{}, "id = ?", templateUUID)
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete template")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Template not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Template deleted successfully"})
}

// GetReminderLogs lists sent reminders, newest first, optionally for one wedding.
func GetReminderLogs(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit <= 0 || limit > 500 {
		limit = 50
	}

	query := config.DB.Order("sent_at DESC").Limit(limit)
	if weddingID := c.Query("wedding_id"); weddingID != "" {
		id, err := uuid.Parse(weddingID)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid wedding ID format")
			return
		}
		query = query.Where("wedding_id = ?", id)
	}

	var logs []models.ReminderLog
	if err := query.Find(&logs).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve reminder logs")
		return
	}

	c.JSON(http.StatusOK, logs)
}

// RunReminders triggers the daily reminder job on demand.
func RunReminders(reminders *services.ReminderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if reminders == nil {
			utils.RespondWithError(c, http.StatusServiceUnavailable, "Reminders are not configured")
			return
		}
		sent, err := reminders.SendDailyReminders(c.Request.Context())
		if err != nil {
			respondWithServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"sent": sent})
	}
}
