package repository

import (
	"context"

	"github.com/fastygo/taskpulse/domain"
)

// UserRepository persists accounts. Create must return domain.ErrDuplicateEmail
// when the normalized email is already taken; uniqueness is the store's job.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) error
}
