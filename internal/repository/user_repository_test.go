package repository_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/unclebandit/marketdesk-backend/internal/errors"
	"github.com/unclebandit/marketdesk-backend/internal/model"
	"github.com/unclebandit/marketdesk-backend/internal/repository"
)

func TestUserRepository(t *testing.T) {
	repo := repository.NewUserRepository([]model.User{
		{ID: 1, Email: "admin@example.com", Name: "Admin User"},
		{ID: 3, Email: "marketer@example.com", Name: "Jane Smith"},
	})

	u, err := repo.GetByEmail("  ADMIN@example.com ")
	require.NoError(t, err)
	assert.Equal(t, 1, u.ID)

	_, err = repo.GetByEmail("ghost@example.com")
	assert.True(t, appErrors.IsNotFound(err))

	dup := &model.User{Email: "Marketer@Example.com", Name: "Copy"}
	err = repo.Create(dup)
	assert.ErrorIs(t, err, appErrors.ErrConflict)
	_, err = repo.GetByID(dup.ID)
	assert.True(t, appErrors.IsNotFound(err), "a refused account is not stored")

	fresh := &model.User{Email: "new@example.com", Name: "New Person"}
	require.NoError(t, repo.Create(fresh))
	assert.Equal(t, 4, fresh.ID)

	got, err := repo.GetByID(4)
	require.NoError(t, err)
	assert.Equal(t, "New Person", got.Name)
}

func TestUserRepositoryUpdateRefusesTakenEmail(t *testing.T) {
	repo := repository.NewUserRepository([]model.User{
		{ID: 1, Email: "admin@example.com", Name: "Admin User"},
		{ID: 3, Email: "marketer@example.com", Name: "Jane Smith"},
	})

	_, err := repo.Update(1, func(u *model.User) error {
		u.Name = "Renamed"
		u.Email = " MARKETER@example.com"
		return nil
	})
	assert.ErrorIs(t, err, appErrors.ErrConflict)

	got, err := repo.GetByID(1)
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", got.Email, "a refused update leaves the row as it was")
	assert.Equal(t, "Admin User", got.Name)

	// changing the case of one's own email is not a clash
	got, err = repo.Update(1, func(u *model.User) error {
		u.Email = "Admin@Example.com"
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "Admin@Example.com", got.Email)

	_, err = repo.Update(9, func(u *model.User) error { return nil })
	assert.True(t, appErrors.IsNotFound(err))
}
