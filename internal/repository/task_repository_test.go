package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drivedesk/scheduler-api/internal/models"
	appErrors "github.com/drivedesk/scheduler-api/pkg/errors"
)

func TestTaskRepositoryLocalFallback(t *testing.T) {
	repo := NewTaskRepository(nil, nil, time.Hour)

	task := models.SchedulingTask{
		ID:        "task-1",
		Status:    models.TaskStatusRunning,
		School:    "HSS",
		StartedAt: time.Now().UTC(),
	}
	require.NoError(t, repo.Save(context.Background(), task))

	got, err := repo.Get(context.Background(), "task-1")
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusRunning, got.Status)

	task.Status = models.TaskStatusDone
	task.ProgramName = "2025-01-HSS"
	require.NoError(t, repo.Save(context.Background(), task))

	got, err = repo.Get(context.Background(), "task-1")
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusDone, got.Status)
	assert.Equal(t, "2025-01-HSS", got.ProgramName)
}

func TestTaskRepositoryGetMissing(t *testing.T) {
	repo := NewTaskRepository(nil, nil, time.Hour)

	_, err := repo.Get(context.Background(), "nope")
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}
