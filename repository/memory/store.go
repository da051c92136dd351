// Package memory is a process-local Store used by tests and memory:// URLs.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/fastygo/taskpulse/domain"
	"github.com/fastygo/taskpulse/repository"
)

type Store struct {
	mu      sync.RWMutex
	users   map[string]domain.User
	byEmail map[string]string
	tasks   map[string]domain.Task
	now     func() time.Time
}

// New returns an empty store.
func New() *Store {
	return &Store{
		users:   make(map[string]domain.User),
		byEmail: make(map[string]string),
		tasks:   make(map[string]domain.Task),
		now:     time.Now,
	}
}

func (s *Store) Users() repository.UserRepository { return userRepository{s} }
func (s *Store) Tasks() repository.TaskRepository { return taskRepository{s} }
func (s *Store) Ping(context.Context) error        { return nil }
func (s *Store) Close(context.Context) error       { return nil }
func (s *Store) Driver() string                    { return "memory" }

type userRepository struct{ s *Store }

func (r userRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

func (r userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.s.mu.RLock()
	id, ok := r.s.byEmail[domain.NormalizeEmail(email)]
	r.s.mu.RUnlock()
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return r.GetByID(ctx, id)
}

func (r userRepository) Create(_ context.Context, user *domain.User) error {
	if user == nil {
		return domain.ErrInvalidPayload
	}
	user.Email = domain.NormalizeEmail(user.Email)

	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, taken := r.s.byEmail[user.Email]; taken {
		return domain.ErrDuplicateEmail
	}
	if user.ID == "" {
		user.ID = repository.NewID()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = r.s.now().UTC()
	}
	r.s.users[user.ID] = *user
	r.s.byEmail[user.Email] = user.ID
	return nil
}

type taskRepository struct{ s *Store }

func (r taskRepository) GetByID(_ context.Context, ownerID, id string) (*domain.Task, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	t, ok := r.s.tasks[id]
	if !ok || t.OwnerID != ownerID {
		return nil, domain.ErrTaskNotFound
	}
	out := t.Clone()
	return &out, nil
}

func (r taskRepository) List(_ context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	r.s.mu.RLock()
	tasks := make([]domain.Task, 0)
	for _, t := range r.s.tasks {
		if t.OwnerID != filter.OwnerID {
			continue
		}
		if filter.Status != "" && t.Status != filter.Status {
			continue
		}
		tasks = append(tasks, t.Clone())
	}
	r.s.mu.RUnlock()

	repository.SortTasks(tasks)
	return repository.Page(tasks, filter), nil
}

func (r taskRepository) Create(_ context.Context, task *domain.Task) error {
	if task == nil {
		return domain.ErrInvalidPayload
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if task.ID == "" {
		task.ID = repository.NewID()
	}
	task.Touch(r.s.now().UTC())
	r.s.tasks[task.ID] = task.Clone()
	return nil
}

func (r taskRepository) Update(_ context.Context, task *domain.Task) error {
	if task == nil {
		return domain.ErrInvalidPayload
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.tasks[task.ID]
	if !ok || existing.OwnerID != task.OwnerID {
		return domain.ErrTaskNotFound
	}
	task.CreatedAt = existing.CreatedAt
	task.UpdatedAt = r.s.now().UTC()
	r.s.tasks[task.ID] = task.Clone()
	return nil
}

func (r taskRepository) Delete(_ context.Context, ownerID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.tasks[id]
	if !ok || t.OwnerID != ownerID {
		return domain.ErrTaskNotFound
	}
	delete(r.s.tasks, id)
	return nil
}

var _ repository.Store = (*Store)(nil)
