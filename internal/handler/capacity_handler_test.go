package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drivedesk/scheduler-api/internal/dto"
	appErrors "github.com/drivedesk/scheduler-api/pkg/errors"
)

type capacityServiceMock struct {
	resp      *dto.CapacityResponse
	err       error
	lastQuery dto.CapacityQuery
}

func (m *capacityServiceMock) Calculate(ctx context.Context, query dto.CapacityQuery) (*dto.CapacityResponse, bool, error) {
	m.lastQuery = query
	return m.resp, false, m.err
}

func TestCapacityHandlerCalculate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &capacityServiceMock{
		resp: &dto.CapacityResponse{School: "HSS", MaxWeeklySlots: 4, MaxStudents: 8},
	}
	handler := NewCapacityHandler(mockSvc)

	c, w := newGinContext(http.MethodGet, "/capacity?school=HSS&startDate=2025-03-03", nil)

	handler.Calculate(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "HSS", mockSvc.lastQuery.School)
	assert.Equal(t, "2025-03-03", mockSvc.lastQuery.StartDate)
}

func TestCapacityHandlerCalculateServiceValidation(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewCapacityHandler(&capacityServiceMock{err: appErrors.ErrValidation})

	c, w := newGinContext(http.MethodGet, "/capacity?school=HSS", nil)

	handler.Calculate(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}
