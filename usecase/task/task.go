package task

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fastygo/taskpulse/domain"
	"github.com/fastygo/taskpulse/repository"
)

// CreateInput carries client-supplied fields for a new task. Empty Status
// and Priority fall back to pending and low.
type CreateInput struct {
	Title       string
	Description string
	Status      string
	Priority    string
	DueDate     *time.Time
}

// Patch is a partial update. Nil fields are left untouched. DueDateSet with a
// nil DueDate clears the due date.
type Patch struct {
	Title       *string
	Description *string
	Status      *string
	Priority    *string
	DueDate     *time.Time
	DueDateSet  bool
}

// ListFilter narrows ListTasks. Limit 0 returns everything up to the store cap.
type ListFilter struct {
	Status string
	Limit  int
	Offset int
}

type UseCase struct {
	tasks  repository.TaskRepository
	logger *zap.Logger
}

func New(tasks repository.TaskRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		tasks:  tasks,
		logger: logger,
	}
}

func (uc *UseCase) ListTasks(ctx context.Context, userID string, filter ListFilter) ([]domain.Task, error) {
	if filter.Limit < 0 || filter.Offset < 0 {
		return nil, domain.Invalid("limit and offset must not be negative")
	}
	query := repository.TaskFilter{
		OwnerID: userID,
		Limit:   filter.Limit,
		Offset:  filter.Offset,
	}
	if strings.TrimSpace(filter.Status) != "" {
		status, err := domain.ParseStatus(filter.Status)
		if err != nil {
			return nil, err
		}
		query.Status = status
	}
	return uc.tasks.List(ctx, query)
}

func (uc *UseCase) GetTask(ctx context.Context, userID, id string) (*domain.Task, error) {
	return uc.tasks.GetByID(ctx, userID, id)
}

// CreateTask stores a new task owned by userID.
func (uc *UseCase) CreateTask(ctx context.Context, userID string, in CreateInput) (*domain.Task, error) {
	task := &domain.Task{
		OwnerID:     userID,
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Status:      domain.StatusPending,
		Priority:    domain.PriorityLow,
		DueDate:     utcPtr(in.DueDate),
	}
	if strings.TrimSpace(in.Status) != "" {
		status, err := domain.ParseStatus(in.Status)
		if err != nil {
			return nil, err
		}
		task.Status = status
	}
	if strings.TrimSpace(in.Priority) != "" {
		priority, err := domain.ParsePriority(in.Priority)
		if err != nil {
			return nil, err
		}
		task.Priority = priority
	}
	if err := task.Validate(); err != nil {
		return nil, err
	}

	if err := uc.tasks.Create(ctx, task); err != nil {
		return nil, err
	}
	uc.logger.Debug("task created", zap.String("task_id", task.ID))
	return task, nil
}

// UpdateTask applies patch to a task owned by userID.
func (uc *UseCase) UpdateTask(ctx context.Context, userID, id string, patch Patch) (*domain.Task, error) {
	task, err := uc.tasks.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		task.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Description != nil {
		task.Description = *patch.Description
	}
	if patch.Status != nil {
		status, err := domain.ParseStatus(*patch.Status)
		if err != nil {
			return nil, err
		}
		task.Status = status
	}
	if patch.Priority != nil {
		priority, err := domain.ParsePriority(*patch.Priority)
		if err != nil {
			return nil, err
		}
		task.Priority = priority
	}
	if patch.DueDateSet {
		task.DueDate = utcPtr(patch.DueDate)
	}
	if err := task.Validate(); err != nil {
		return nil, err
	}

	if err := uc.tasks.Update(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (uc *UseCase) DeleteTask(ctx context.Context, userID, id string) error {
	if err := uc.tasks.Delete(ctx, userID, id); err != nil {
		return err
	}
	uc.logger.Debug("task deleted", zap.String("task_id", id))
	return nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
