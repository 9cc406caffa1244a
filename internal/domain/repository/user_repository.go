package repository

import (
	"context"
	"errors"

	"go-auth-service/internal/domain/entity"
)

var (
	// ErrNotFound is returned by lookups when no row matches.
	ErrNotFound = errors.New("user not found")
	// ErrDuplicate is returned by Create when a unique constraint on email
	// or username fires. The pre-check in the account service does not close
	// the register race; this error is the real guard.
	ErrDuplicate = errors.New("user already exists")
)

// UserRepository defines the interface for user persistence. Postgres backs
// the production adapter; an in-memory adapter backs tests.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindByUsername(ctx context.Context, username string) (*entity.User, error)
	FindByEmailOrUsername(ctx context.Context, email, username string) (*entity.User, error)
	Create(ctx context.Context, u *entity.User) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, limit, offset int64) ([]*entity.User, int64, error)
}
