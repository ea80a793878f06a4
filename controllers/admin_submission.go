package controllers

import (
	"net/http"

	"breeder-awards-api/config"
	"breeder-awards-api/middleware"
	"breeder-awards-api/models"
	"breeder-awards-api/services"

	"github.com/gin-gonic/gin"
)

// GetAdminSubmissionQueue lists submissions awaiting admin action.
// queue=witness returns submitted rows with a pending witness;
// queue=approval returns witness-confirmed, unapproved rows.
func GetAdminSubmissionQueue(c *gin.Context) {
	query := config.DB.Preload("Member").
		Where("submitted_on IS NOT NULL AND approved_on IS NULL")

	switch c.Query("queue") {
	case "witness":
		query = query.Where("witness_status = ?", models.WitnessPending)
	case "approval":
		query = query.Where("witness_status = ? AND changes_requested_on IS NULL", models.WitnessConfirmed)
	}

	var submissions []models.Submission
	if err := query.Order("submitted_on ASC").Find(&submissions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch submissions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"submissions": submissions})
}

// ConfirmWitness records the acting admin as witness on a pending
// submission.
func ConfirmWitness(c *gin.Context) {
	id, ok := submissionIDParam(c)
	if !ok {
		return
	}
	user := middleware.CurrentUser(c)

	submission, err := submissionService().ConfirmWitness(id, user)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Witness confirmed",
		"submission": submission,
	})
}

// DeclineWitness records a declined witnessing with a reason note.
func DeclineWitness(c *gin.Context) {
	id, ok := submissionIDParam(c)
	if !ok {
		return
	}
	user := middleware.CurrentUser(c)

	var req struct {
		Reason string `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	submission, err := submissionService().DeclineWitness(id, user, req.Reason)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Witness declined",
		"submission": submission,
	})
}

// RequestChanges opens a change request on a submitted submission.
func RequestChanges(c *gin.Context) {
	id, ok := submissionIDParam(c)
	if !ok {
		return
	}
	user := middleware.CurrentUser(c)

	var req struct {
		Reason string `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	submission, err := submissionService().RequestChanges(id, user, req.Reason)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Changes requested",
		"submission": submission,
	})
}

// ApproveSubmission closes the lifecycle and reports the member's new
// level and any newly granted awards.
func ApproveSubmission(c *gin.Context) {
	id, ok := submissionIDParam(c)
	if !ok {
		return
	}
	user := middleware.CurrentUser(c)

	var input services.ApprovalInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	svc := submissionService()
	granted, err := svc.Approve(id, user, &input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	submission, err := svc.Get(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	program, _ := services.ProgramForSpeciesType(submission.SpeciesType)
	level, err := svc.ComputeLevel(program, submission.MemberID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Approved, but failed to recompute level"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":        "Submission approved",
		"submission":     submission,
		"awards_granted": granted,
		"program":        program,
		"level":          level,
	})
}
