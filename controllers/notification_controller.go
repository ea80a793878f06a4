package controllers

import (
	"net/http"

	"breeder-awards-api/config"
	"breeder-awards-api/models"

	"github.com/gin-gonic/gin"
)

// GetNotifications returns the caller's in-app notification feed.
func GetNotifications(c *gin.Context) {
	userID, _ := c.Get("userID")

	var notifications []models.Notification
	if err := config.DB.Where("user_id = ?", userID).
		Order("create_at DESC").
		Limit(100).
		Find(&notifications).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"notifications": notifications})
}
