package controllers

import (
	"net/http"
	"strconv"

	"breeder-awards-api/config"
	"breeder-awards-api/middleware"
	"breeder-awards-api/models"
	"breeder-awards-api/services"

	"github.com/gin-gonic/gin"
)

func submissionIDParam(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid submission id"})
		return 0, false
	}
	return id, true
}

// GetSubmissions lists the caller's submissions, newest first, with an
// optional status filter (draft|submitted|changes_requested|approved).
func GetSubmissions(c *gin.Context) {
	user := middleware.CurrentUser(c)

	query := config.DB.Where("member_id = ?", user.UserID)
	switch c.Query("status") {
	case "draft":
		query = query.Where("submitted_on IS NULL")
	case "submitted":
		query = query.Where("submitted_on IS NOT NULL AND approved_on IS NULL AND changes_requested_on IS NULL")
	case "changes_requested":
		query = query.Where("changes_requested_on IS NOT NULL")
	case "approved":
		query = query.Where("approved_on IS NOT NULL")
	}

	var submissions []models.Submission
	if err := query.Order("create_at DESC").Find(&submissions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch submissions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"submissions": submissions})
}

// GetSubmission returns one submission. Members see only their own;
// admins see any.
func GetSubmission(c *gin.Context) {
	id, ok := submissionIDParam(c)
	if !ok {
		return
	}
	user := middleware.CurrentUser(c)

	var submission models.Submission
	if err := config.DB.Preload("SpeciesName").
		Where("submission_id = ?", id).
		First(&submission).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Submission not found"})
		return
	}

	if submission.MemberID != user.UserID && !user.IsAdmin() {
		// Do not leak fields beyond existence
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not allowed to view this submission"})
		return
	}

	var notes []models.SubmissionNote
	config.DB.Where("submission_id = ?", id).Order("created_at DESC").Find(&notes)

	c.JSON(http.StatusOK, gin.H{
		"submission": submission,
		"notes":      notes,
	})
}

// CreateSubmission creates a draft owned by the caller.
func CreateSubmission(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var form services.SubmissionForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	submission, err := submissionService().CreateDraft(user, &form)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":    "Draft created",
		"submission": submission,
	})
}

// UpdateSubmission edits a draft, or edits (and optionally resubmits) a
// changes-requested submission. The resubmit flag clears the open
// change request; witness fields survive either path.
func UpdateSubmission(c *gin.Context) {
	id, ok := submissionIDParam(c)
	if !ok {
		return
	}
	user := middleware.CurrentUser(c)

	var req struct {
		services.SubmissionForm
		Resubmit bool `json:"resubmit"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	svc := submissionService()
	current, err := svc.Get(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	var submission *models.Submission
	if current.IsDraft() {
		submission, err = svc.UpdateDraft(id, user, &req.SubmissionForm)
	} else {
		submission, err = svc.EditAndResubmit(id, user, &req.SubmissionForm, req.Resubmit)
	}
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Submission updated",
		"submission": submission,
	})
}

// SubmitSubmission moves a draft into the review queue.
func SubmitSubmission(c *gin.Context) {
	id, ok := submissionIDParam(c)
	if !ok {
		return
	}
	user := middleware.CurrentUser(c)

	submission, err := submissionService().Submit(id, user)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Submission entered the review queue",
		"submission": submission,
	})
}

// DeleteSubmission removes a submission under the lifecycle deletion
// rules (owners: unapproved only; admins: any).
func DeleteSubmission(c *gin.Context) {
	id, ok := submissionIDParam(c)
	if !ok {
		return
	}
	user := middleware.CurrentUser(c)

	if err := submissionService().Delete(id, user); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Submission deleted"})
}
