package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fastygo/taskpulse/repository"
)

// Store adapts a pgx pool to repository.Store. Users and tasks are rows, with
// tasks.owner_id as the scoping predicate.
type Store struct {
	pool  *pgxpool.Pool
	users repository.UserRepository
	tasks repository.TaskRepository
}

func New(pool *pgxpool.Pool) *Store {
	return &Store{
		pool:  pool,
		users: NewUserRepository(pool),
		tasks: NewTaskRepository(pool),
	}
}

func (s *Store) Users() repository.UserRepository { return s.users }
func (s *Store) Tasks() repository.TaskRepository { return s.tasks }
func (s *Store) Driver() string                    { return "postgres" }

func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *Store) Close(context.Context) error {
	s.pool.Close()
	return nil
}

var _ repository.Store = (*Store)(nil)
