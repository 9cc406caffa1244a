package memory

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"go-auth-service/internal/domain/entity"
	"go-auth-service/internal/domain/repository"
)

func TestCreateAssignsIDAndTimestamps(t *testing.T) {
	t.Parallel()
	r := NewUserRepository()
	ctx := context.Background()

	u := &entity.User{Email: "a@x.com", Username: "a", PasswordHash: "h"}
	require.NoError(t, r.Create(ctx, u))
	require.NotEmpty(t, u.ID)
	require.False(t, u.CreatedAt.IsZero())
	require.Equal(t, u.CreatedAt, u.UpdatedAt)

	got, err := r.FindByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "a@x.com", got.Email)
}

func TestCreateDuplicate(t *testing.T) {
	t.Parallel()
	r := NewUserRepository()
	ctx := context.Background()

	require.NoError(t, r.Create(ctx, &entity.User{Email: "a@x.com", Username: "a", PasswordHash: "h"}))

	err := r.Create(ctx, &entity.User{Email: "a@x.com", Username: "other", PasswordHash: "h"})
	require.ErrorIs(t, err, repository.ErrDuplicate)

	err = r.Create(ctx, &entity.User{Email: "other@x.com", Username: "a", PasswordHash: "h"})
	require.ErrorIs(t, err, repository.ErrDuplicate)
}

func TestReturnedUsersAreCopies(t *testing.T) {
	t.Parallel()
	r := NewUserRepository()
	ctx := context.Background()

	u := &entity.User{Email: "a@x.com", Username: "a", PasswordHash: "h"}
	require.NoError(t, r.Create(ctx, u))

	got, err := r.FindByID(ctx, u.ID)
	require.NoError(t, err)
	got.Email = "mutated@x.com"

	again, err := r.FindByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "a@x.com", again.Email)
}

func TestUpdatePasswordAndDelete(t *testing.T) {
	t.Parallel()
	r := NewUserRepository()
	ctx := context.Background()

	require.ErrorIs(t, r.UpdatePassword(ctx, "missing", "h2"), repository.ErrNotFound)
	require.ErrorIs(t, r.Delete(ctx, "missing"), repository.ErrNotFound)

	u := &entity.User{Email: "a@x.com", Username: "a", PasswordHash: "h"}
	require.NoError(t, r.Create(ctx, u))

	require.NoError(t, r.UpdatePassword(ctx, u.ID, "h2"))
	got, err := r.FindByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "h2", got.PasswordHash)

	require.NoError(t, r.Delete(ctx, u.ID))
	_, err = r.FindByID(ctx, u.ID)
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestListPagination(t *testing.T) {
	t.Parallel()
	r := NewUserRepository()
	ctx := context.Background()

	for i := 0; i < 7; i++ {
		u := &entity.User{
			Email:        fmt.Sprintf("u%d@x.com", i),
			Username:     fmt.Sprintf("u%d", i),
			PasswordHash: "h",
		}
		require.NoError(t, r.Create(ctx, u))
	}

	page, total, err := r.List(ctx, 3, 0)
	require.NoError(t, err)
	require.EqualValues(t, 7, total)
	require.Len(t, page, 3)

	last, total, err := r.List(ctx, 3, 6)
	require.NoError(t, err)
	require.EqualValues(t, 7, total)
	require.Len(t, last, 1)

	empty, total, err := r.List(ctx, 3, 10)
	require.NoError(t, err)
	require.EqualValues(t, 7, total)
	require.Empty(t, empty)
}
