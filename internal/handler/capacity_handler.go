package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/drivedesk/scheduler-api/internal/dto"
	"github.com/drivedesk/scheduler-api/internal/middleware"
	appErrors "github.com/drivedesk/scheduler-api/pkg/errors"
	"github.com/drivedesk/scheduler-api/pkg/response"
)

type capacityService interface {
	Calculate(ctx context.Context, query dto.CapacityQuery) (*dto.CapacityResponse, bool, error)
}

// CapacityHandler exposes capacity planning endpoints.
type CapacityHandler struct {
	service capacityService
}

// NewCapacityHandler constructs handler.
func NewCapacityHandler(svc capacityService) *CapacityHandler {
	return &CapacityHandler{service: svc}
}

// Calculate godoc
// @Summary Calculate drive-slot capacity for a start date
// @Tags Capacity
// @Produce json
// @Param school query string true "School code"
// @Param startDate query string true "Start date (YYYY-MM-DD)"
// @Param variant query string false "Course variant"
// @Success 200 {object} response.Envelope
// @Router /capacity [get]
func (h *CapacityHandler) Calculate(c *gin.Context) {
	var query dto.CapacityQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query"))
		return
	}
	resp, cacheHit, err := h.service.Calculate(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	response.JSON(c, http.StatusOK, resp, middleware.ExtractMeta(c))
}
