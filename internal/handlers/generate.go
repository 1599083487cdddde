package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/carlelieser/avatarmon/internal/apperrors"
	"github.com/carlelieser/avatarmon/internal/events"
	"github.com/carlelieser/avatarmon/internal/generation"
	"github.com/carlelieser/avatarmon/internal/metrics"
	"github.com/carlelieser/avatarmon/internal/middleware"
	"github.com/carlelieser/avatarmon/internal/models"
)

// EventPublisher notifies companion clients of lifecycle changes; nil
// disables publishing.
type EventPublisher interface {
	PublishUserEvent(userID, event string, payload map[string]interface{}) error
}

type GenerateHandler struct {
	service *generation.Service
	events  EventPublisher
}

func NewGenerateHandler(service *generation.Service, events EventPublisher) *GenerateHandler {
	return &GenerateHandler{service: service, events: events}
}

// userID pulls the authenticated user id set by the auth middleware.
func userID(c *gin.Context) (string, bool) {
	v, exists := c.Get(middleware.UserIDKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "user id not found"})
		return "", false
	}
	return v.(string), true
}

// writeAppError renders an error from the taxonomy with its mapped
// status, code and user message.
func writeAppError(c *gin.Context, err error) {
	code := apperrors.CodeOf(err)
	c.JSON(apperrors.HTTPStatus(code), models.ErrorResponse{
		Error:   string(code),
		Code:    string(code),
		Message: apperrors.UserMessageOf(err),
	})
}

// Start validates the submitted form and starts a generation attempt.
func (h *GenerateHandler) Start(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	var form models.AvatarForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request body", Message: err.Error()})
		return
	}

	runner := h.service.ForUser(uid)
	job, err := runner.Start(form)
	if err != nil {
		if apperrors.CodeOf(err) == apperrors.DailyLimitReached {
			metrics.QuotaDenialsTotal.Inc()
		}
		if errors.Is(err, generation.ErrGenerationInFlight) {
			c.JSON(http.StatusConflict, models.ErrorResponse{
				Error:   string(apperrors.GenerationFailed),
				Code:    string(apperrors.GenerationFailed),
				Message: "A generation is already in progress.",
			})
			return
		}
		writeAppError(c, err)
		return
	}

	if h.events != nil {
		if err := h.events.PublishUserEvent(uid, "generation_started", events.GenerationStartedPayload(job.ID, string(form.Style))); err != nil {
			log.Printf("handlers: publishing generation event: %v", err)
		}
	}

	c.JSON(http.StatusAccepted, models.GenerateResponse{
		ID:       job.ID,
		Status:   job.Status,
		Progress: job.Progress,
	})
}

// Status reports the job with the given id. The runner holds at most
// one job, so any other id is gone.
func (h *GenerateHandler) Status(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	job, exists := h.service.ForUser(uid).Job()
	if !exists || job.ID != c.Param("id") {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "job not found"})
		return
	}

	c.JSON(http.StatusOK, models.JobResponse{
		ID:               job.ID,
		Status:           job.Status,
		Progress:         job.Progress,
		ImageURL:         job.ResultURL,
		Error:            job.ErrorMessage,
		EstimatedSeconds: job.EstimatedSeconds,
	})
}

// Cancel stops the attempt with the given id. Cancelling an already
// finished or cleared job still succeeds.
func (h *GenerateHandler) Cancel(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	runner := h.service.ForUser(uid)
	if job, exists := runner.Job(); exists && job.ID != c.Param("id") {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "job not found"})
		return
	}

	runner.Cancel()
	c.JSON(http.StatusOK, models.CancelResponse{Success: true})
}

// Clear drops a finished job's result so its id stops resolving.
func (h *GenerateHandler) Clear(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	runner := h.service.ForUser(uid)
	if job, exists := runner.Job(); exists && job.ID != c.Param("id") {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "job not found"})
		return
	}

	runner.Clear()
	c.JSON(http.StatusOK, models.CancelResponse{Success: true})
}
