package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drivedesk/scheduler-api/internal/dto"
	"github.com/drivedesk/scheduler-api/internal/models"
	appErrors "github.com/drivedesk/scheduler-api/pkg/errors"
)

type programServiceMock struct {
	generateResp *dto.GenerateProgramResponse
	generateErr  error
	statusResp   *dto.TaskStatusResponse
	statusErr    error
	getResp      *dto.ProgramResponse
	getErr       error
	listResp     []dto.ProgramResponse
	listErr      error
	scheduleResp *dto.ScheduleResponse
	scheduleErr  error
	lastQuery    dto.ProgramQuery
}

func (m *programServiceMock) Generate(ctx context.Context, req dto.GenerateProgramRequest) (*dto.GenerateProgramResponse, error) {
	return m.generateResp, m.generateErr
}

func (m *programServiceMock) TaskStatus(ctx context.Context, id string) (*dto.TaskStatusResponse, error) {
	return m.statusResp, m.statusErr
}

func (m *programServiceMock) Get(ctx context.Context, name string) (*dto.ProgramResponse, error) {
	return m.getResp, m.getErr
}

func (m *programServiceMock) List(ctx context.Context, query dto.ProgramQuery) ([]dto.ProgramResponse, error) {
	m.lastQuery = query
	return m.listResp, m.listErr
}

func (m *programServiceMock) Schedule(ctx context.Context, name string) (*dto.ScheduleResponse, error) {
	return m.scheduleResp, m.scheduleErr
}

type assignerMock struct {
	resp     *dto.AssignInstructorsResponse
	err      error
	lastName string
	lastReq  dto.AssignInstructorsRequest
}

func (m *assignerMock) Assign(ctx context.Context, programName string, req dto.AssignInstructorsRequest) (*dto.AssignInstructorsResponse, error) {
	m.lastName = programName
	m.lastReq = req
	return m.resp, m.err
}

func newGinContext(method, path string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return c, w
}

func TestProgramHandlerGenerate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &programServiceMock{
		generateResp: &dto.GenerateProgramResponse{TaskID: "task-1", Status: models.TaskStatusPending, School: "HSS"},
	}
	handler := NewProgramHandler(mockSvc, &assignerMock{})

	payload, _ := json.Marshal(dto.GenerateProgramRequest{School: "HSS", StartDate: "2025-03-03", StudentCount: 6})
	c, w := newGinContext(http.MethodPost, "/programs", payload)

	handler.Generate(c)
	require.Equal(t, http.StatusAccepted, w.Code)
}

func TestProgramHandlerGenerateInvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewProgramHandler(&programServiceMock{}, &assignerMock{})

	c, w := newGinContext(http.MethodPost, "/programs", []byte(`{"school":"HSS"`))

	handler.Generate(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProgramHandlerTaskStatusNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &programServiceMock{statusErr: appErrors.ErrNotFound}
	handler := NewProgramHandler(mockSvc, &assignerMock{})

	c, w := newGinContext(http.MethodGet, "/programs/tasks/missing", nil)
	c.Params = gin.Params{{Key: "id", Value: "missing"}}

	handler.TaskStatus(c)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestProgramHandlerListForwardsQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &programServiceMock{
		listResp: []dto.ProgramResponse{{Name: "2025-01-HSS"}},
	}
	handler := NewProgramHandler(mockSvc, &assignerMock{})

	c, w := newGinContext(http.MethodGet, "/programs?school=HSS&status=planned", nil)

	handler.List(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "HSS", mockSvc.lastQuery.School)
	assert.Equal(t, "planned", mockSvc.lastQuery.Status)
}

func TestProgramHandlerSchedule(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &programServiceMock{
		scheduleResp: &dto.ScheduleResponse{Program: "2025-01-HSS", Days: []models.DaySchedule{{Date: "2025-03-03"}}},
	}
	handler := NewProgramHandler(mockSvc, &assignerMock{})

	c, w := newGinContext(http.MethodGet, "/programs/2025-01-HSS/schedule", nil)
	c.Params = gin.Params{{Key: "name", Value: "2025-01-HSS"}}

	handler.Schedule(c)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestProgramHandlerAssignInstructorsEmptyBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockAssigner := &assignerMock{
		resp: &dto.AssignInstructorsResponse{Program: "2025-01-HSS", ClassesAssigned: 15},
	}
	handler := NewProgramHandler(&programServiceMock{}, mockAssigner)

	c, w := newGinContext(http.MethodPost, "/programs/2025-01-HSS/instructors", nil)
	c.Params = gin.Params{{Key: "name", Value: "2025-01-HSS"}}

	handler.AssignInstructors(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2025-01-HSS", mockAssigner.lastName)
	assert.Empty(t, mockAssigner.lastReq.InstructorIDs)
}

func TestProgramHandlerAssignInstructorsWithRoster(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockAssigner := &assignerMock{
		resp: &dto.AssignInstructorsResponse{Program: "2025-01-HSS"},
	}
	handler := NewProgramHandler(&programServiceMock{}, mockAssigner)

	payload, _ := json.Marshal(dto.AssignInstructorsRequest{
		InstructorIDs: []string{
			"6a0f1bb2-6d0e-4c5c-8a43-9cf0c4f6f0ea",
			"8c9a1c44-2f11-4c05-b7b8-52f2f27f3a1d",
		},
	})
	c, w := newGinContext(http.MethodPost, "/programs/2025-01-HSS/instructors", payload)
	c.Params = gin.Params{{Key: "name", Value: "2025-01-HSS"}}

	handler.AssignInstructors(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, mockAssigner.lastReq.InstructorIDs, 2)
}
