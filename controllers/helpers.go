package controllers

import (
	"errors"
	"net/http"

	"breeder-awards-api/config"
	"breeder-awards-api/services"

	"github.com/gin-gonic/gin"
)

// submissionService wires the lifecycle service to the shared database
// connection. Built per request; the store and notifier are stateless
// wrappers around config.DB.
func submissionService() *services.SubmissionService {
	return services.NewSubmissionService(
		services.NewStore(config.DB),
		services.NewMailNotifier(config.DB),
	)
}

// respondServiceError maps lifecycle errors to distinguishable HTTP
// responses so the presentation layer can show a specific message
// instead of a generic failure.
func respondServiceError(c *gin.Context, err error) {
	var fieldErr *services.FieldError
	switch {
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Submission not found"})
	case errors.Is(err, services.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{
			"error": "You are not allowed to perform this action",
			"code":  "permission_denied",
		})
	case errors.Is(err, services.ErrSelfWitness):
		c.JSON(http.StatusForbidden, gin.H{
			"error": "You cannot witness your own submission",
			"code":  "self_witness",
		})
	case errors.Is(err, services.ErrWitnessNotConfirmed):
		c.JSON(http.StatusConflict, gin.H{
			"error": "Witness confirmation is still pending or was declined",
			"code":  "witness_not_confirmed",
		})
	case errors.Is(err, services.ErrWaitingPeriod):
		c.JSON(http.StatusConflict, gin.H{
			"error": "The mandatory waiting period has not elapsed yet",
			"code":  "waiting_period",
		})
	case errors.Is(err, services.ErrAlreadyApproved), errors.Is(err, services.ErrApprovalConflict):
		c.JSON(http.StatusConflict, gin.H{
			"error": "Submission is already approved",
			"code":  "already_approved",
		})
	case errors.Is(err, services.ErrWrongState):
		c.JSON(http.StatusConflict, gin.H{
			"error": "Submission is not in a state that allows this action",
			"code":  "wrong_state",
		})
	case errors.As(err, &fieldErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fieldErr.Message,
			"field": fieldErr.Field,
			"code":  "validation",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An unexpected error occurred"})
	}
}
