package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/drivedesk/scheduler-api/internal/models"
	appErrors "github.com/drivedesk/scheduler-api/pkg/errors"
)

// TaskRepository stores scheduling-task state in Redis with a TTL so stale
// tasks expire on their own. A nil client degrades to an in-process map,
// which keeps local development and tests working without Redis.
type TaskRepository struct {
	client *redis.Client
	logger *zap.Logger
	ttl    time.Duration

	local map[string]models.SchedulingTask
}

// NewTaskRepository constructs the repository.
func NewTaskRepository(client *redis.Client, logger *zap.Logger, ttl time.Duration) *TaskRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	repo := &TaskRepository{client: client, logger: logger, ttl: ttl}
	if client == nil {
		repo.local = make(map[string]models.SchedulingTask)
	}
	return repo
}

func taskKey(id string) string {
	return "scheduler:task:" + id
}

// Save writes the task state, refreshing the TTL.
func (r *TaskRepository) Save(ctx context.Context, task models.SchedulingTask) error {
	if r.client == nil {
		r.local[task.ID] = task
		return nil
	}
	payload, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("marshal task %s: %w", task.ID, err)
	}
	if err := r.client.Set(ctx, taskKey(task.ID), payload, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set task %s: %w", task.ID, err)
	}
	return nil
}

// Get fetches task state by id.
func (r *TaskRepository) Get(ctx context.Context, id string) (*models.SchedulingTask, error) {
	if r.client == nil {
		task, ok := r.local[id]
		if !ok {
			return nil, appErrors.ErrNotFound
		}
		return &task, nil
	}
	raw, err := r.client.Get(ctx, taskKey(id)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, appErrors.ErrNotFound
		}
		return nil, fmt.Errorf("redis get task %s: %w", id, err)
	}
	var task models.SchedulingTask
	if err := json.Unmarshal(raw, &task); err != nil {
		return nil, fmt.Errorf("unmarshal task %s: %w", id, err)
	}
	return &task, nil
}
