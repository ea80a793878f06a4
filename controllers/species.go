package controllers

import (
	"net/http"

	"breeder-awards-api/config"
	"breeder-awards-api/models"
	"breeder-awards-api/services"

	"github.com/gin-gonic/gin"
)

// GetSpeciesNames lists the canonical species directory, optionally
// filtered by program.
func GetSpeciesNames(c *gin.Context) {
	query := config.DB.Where("delete_at IS NULL")

	if program := c.Query("program"); program != "" {
		if !services.IsValidProgram(program) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown program"})
			return
		}
		query = query.Where("species_type IN ?", services.SpeciesTypesForProgram(program))
	}

	var names []models.SpeciesName
	if err := query.Order("latin_name ASC").Find(&names).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch species names"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"species": names})
}
