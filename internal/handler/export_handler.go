package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/drivedesk/scheduler-api/internal/dto"
	appErrors "github.com/drivedesk/scheduler-api/pkg/errors"
	"github.com/drivedesk/scheduler-api/pkg/response"
)

type exportService interface {
	SchedulePDF(ctx context.Context, programName string) ([]byte, string, error)
	CapacityReportCSV(ctx context.Context, query dto.CapacityReportQuery) ([]byte, string, error)
}

// ExportHandler serves schedule and capacity downloads.
type ExportHandler struct {
	service exportService
}

// NewExportHandler constructs handler.
func NewExportHandler(svc exportService) *ExportHandler {
	return &ExportHandler{service: svc}
}

// SchedulePDF godoc
// @Summary Download the program schedule as PDF
// @Tags Exports
// @Produce application/pdf
// @Param name path string true "Program name"
// @Success 200 {file} binary
// @Router /programs/{name}/export/pdf [get]
func (h *ExportHandler) SchedulePDF(c *gin.Context) {
	content, filename, err := h.service.SchedulePDF(c.Request.Context(), c.Param("name"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", content)
}

// CapacityCSV godoc
// @Summary Download the rolling capacity report as CSV
// @Tags Exports
// @Produce text/csv
// @Param school query string true "School code"
// @Param days query int false "Report length in days"
// @Success 200 {file} binary
// @Router /capacity/export/csv [get]
func (h *ExportHandler) CapacityCSV(c *gin.Context) {
	var query dto.CapacityReportQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query"))
		return
	}
	content, filename, err := h.service.CapacityReportCSV(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv", content)
}
