package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/drivedesk/scheduler-api/internal/dto"
	appErrors "github.com/drivedesk/scheduler-api/pkg/errors"
	"github.com/drivedesk/scheduler-api/pkg/response"
)

type programService interface {
	Generate(ctx context.Context, req dto.GenerateProgramRequest) (*dto.GenerateProgramResponse, error)
	TaskStatus(ctx context.Context, id string) (*dto.TaskStatusResponse, error)
	Get(ctx context.Context, name string) (*dto.ProgramResponse, error)
	List(ctx context.Context, query dto.ProgramQuery) ([]dto.ProgramResponse, error)
	Schedule(ctx context.Context, name string) (*dto.ScheduleResponse, error)
}

type instructorAssigner interface {
	Assign(ctx context.Context, programName string, req dto.AssignInstructorsRequest) (*dto.AssignInstructorsResponse, error)
}

// ProgramHandler manages program generation and retrieval endpoints.
type ProgramHandler struct {
	programs programService
	assigner instructorAssigner
}

// NewProgramHandler constructs handler.
func NewProgramHandler(programs programService, assigner instructorAssigner) *ProgramHandler {
	return &ProgramHandler{programs: programs, assigner: assigner}
}

// Generate godoc
// @Summary Queue program generation
// @Tags Programs
// @Accept json
// @Produce json
// @Param payload body dto.GenerateProgramRequest true "Generation payload"
// @Success 202 {object} response.Envelope
// @Router /programs [post]
func (h *ProgramHandler) Generate(c *gin.Context) {
	var req dto.GenerateProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	resp, err := h.programs.Generate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Accepted(c, resp)
}

// TaskStatus godoc
// @Summary Poll a generation task
// @Tags Programs
// @Produce json
// @Param id path string true "Task ID"
// @Success 200 {object} response.Envelope
// @Router /programs/tasks/{id} [get]
func (h *ProgramHandler) TaskStatus(c *gin.Context) {
	resp, err := h.programs.TaskStatus(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp)
}

// List godoc
// @Summary List programs
// @Tags Programs
// @Produce json
// @Param school query string false "Filter by school"
// @Param status query string false "Filter by status"
// @Success 200 {object} response.Envelope
// @Router /programs [get]
func (h *ProgramHandler) List(c *gin.Context) {
	var query dto.ProgramQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query"))
		return
	}
	resp, err := h.programs.List(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp)
}

// Get godoc
// @Summary Get a program
// @Tags Programs
// @Produce json
// @Param name path string true "Program name"
// @Success 200 {object} response.Envelope
// @Router /programs/{name} [get]
func (h *ProgramHandler) Get(c *gin.Context) {
	resp, err := h.programs.Get(c.Request.Context(), c.Param("name"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp)
}

// Schedule godoc
// @Summary Get the merged day-by-day schedule
// @Tags Programs
// @Produce json
// @Param name path string true "Program name"
// @Success 200 {object} response.Envelope
// @Router /programs/{name}/schedule [get]
func (h *ProgramHandler) Schedule(c *gin.Context) {
	resp, err := h.programs.Schedule(c.Request.Context(), c.Param("name"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp)
}

// AssignInstructors godoc
// @Summary Assign instructors to a program
// @Tags Programs
// @Accept json
// @Produce json
// @Param name path string true "Program name"
// @Param payload body dto.AssignInstructorsRequest false "Assignment options"
// @Success 200 {object} response.Envelope
// @Router /programs/{name}/instructors [post]
func (h *ProgramHandler) AssignInstructors(c *gin.Context) {
	var req dto.AssignInstructorsRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
			return
		}
	}
	resp, err := h.assigner.Assign(c.Request.Context(), c.Param("name"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp)
}
