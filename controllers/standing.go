package controllers

import (
	"net/http"

	"breeder-awards-api/config"
	"breeder-awards-api/middleware"
	"breeder-awards-api/models"
	"breeder-awards-api/services"

	"github.com/gin-gonic/gin"
)

type programStanding struct {
	Program string                `json:"program"`
	Level   string                `json:"level"`
	Tally   *services.PointsTally `json:"tally"`
}

// GetStanding returns the caller's rank and tally per program plus the
// awards they hold. Everything is recomputed from the approved history
// on each call; nothing here is cached or incrementally tracked.
func GetStanding(c *gin.Context) {
	user := middleware.CurrentUser(c)
	svc := submissionService()

	standings := make([]programStanding, 0, 3)
	for _, program := range services.Programs() {
		tally, err := svc.ComputeTally(program, user.UserID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute standing"})
			return
		}
		level, err := services.RankForTally(program, tally)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute standing"})
			return
		}
		standings = append(standings, programStanding{Program: program, Level: level, Tally: tally})
	}

	var awards []models.Award
	if err := config.DB.Where("member_id = ?", user.UserID).
		Order("granted_on ASC").Find(&awards).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch awards"})
		return
	}

	// Awards the member would earn on the next recomputation; empty
	// unless an award definition changed since their last approval.
	pending, err := svc.ComputeSpecialtyAwards(user.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to evaluate awards"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"standings":      standings,
		"awards":         awards,
		"pending_awards": pending,
	})
}

// GetProgramLevel returns the caller's current rank in one program.
func GetProgramLevel(c *gin.Context) {
	user := middleware.CurrentUser(c)
	program := c.Param("program")

	if !services.IsValidProgram(program) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown program"})
		return
	}

	level, err := submissionService().ComputeLevel(program, user.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute level"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"program": program,
		"level":   level,
	})
}
