package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/drivedesk/scheduler-api/internal/dto"
	appErrors "github.com/drivedesk/scheduler-api/pkg/errors"
	"github.com/drivedesk/scheduler-api/pkg/response"
)

type instructorLister interface {
	List(ctx context.Context) ([]dto.InstructorResponse, error)
}

type availabilityService interface {
	UpdateTemplate(ctx context.Context, instructorID string, req dto.UpdateAvailabilityRequest) error
	AddVacation(ctx context.Context, instructorID string, req dto.AddVacationRequest) error
	Refresh(ctx context.Context) (*dto.AvailabilityRefreshResponse, error)
}

// InstructorHandler manages roster and availability endpoints.
type InstructorHandler struct {
	instructors  instructorLister
	availability availabilityService
}

// NewInstructorHandler constructs handler.
func NewInstructorHandler(instructors instructorLister, availability availabilityService) *InstructorHandler {
	return &InstructorHandler{instructors: instructors, availability: availability}
}

// List godoc
// @Summary List active instructors
// @Tags Instructors
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /instructors [get]
func (h *InstructorHandler) List(c *gin.Context) {
	resp, err := h.instructors.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp)
}

// UpdateAvailability godoc
// @Summary Replace an instructor's weekly template
// @Tags Instructors
// @Accept json
// @Produce json
// @Param id path string true "Instructor ID"
// @Param payload body dto.UpdateAvailabilityRequest true "Weekly template"
// @Success 204
// @Router /instructors/{id}/availability [put]
func (h *InstructorHandler) UpdateAvailability(c *gin.Context) {
	var req dto.UpdateAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if err := h.availability.UpdateTemplate(c.Request.Context(), c.Param("id"), req); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// AddVacation godoc
// @Summary Add a vacation window
// @Tags Instructors
// @Accept json
// @Produce json
// @Param id path string true "Instructor ID"
// @Param payload body dto.AddVacationRequest true "Vacation range"
// @Success 204
// @Router /instructors/{id}/vacations [post]
func (h *InstructorHandler) AddVacation(c *gin.Context) {
	var req dto.AddVacationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if err := h.availability.AddVacation(c.Request.Context(), c.Param("id"), req); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// RefreshAvailability godoc
// @Summary Extend long-range availability to the horizon
// @Tags Instructors
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /availability/refresh [post]
func (h *InstructorHandler) RefreshAvailability(c *gin.Context) {
	resp, err := h.availability.Refresh(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp)
}
