package repository

import (
	"strings"

	"github.com/cockroachdb/errors"

	appErrors "github.com/unclebandit/marketdesk-backend/internal/errors"
	"github.com/unclebandit/marketdesk-backend/internal/model"
)

type UserRepositoryInterface interface {
	GetByID(id int) (*model.User, error)
	GetByEmail(email string) (*model.User, error)
	Create(u *model.User) error
	Update(id int, fn func(u *model.User) error) (*model.User, error)
}

type UserRepository struct {
	table *table[model.User]
}

// NewUserRepository expects PasswordHash to be filled in already.
func NewUserRepository(seed []model.User) *UserRepository {
	r := &UserRepository{
		table: newTable("user",
			func(u *model.User) int { return u.ID },
			func(u *model.User, id int) { u.ID = id },
			nil),
	}
	r.table.seed(seed)
	return r
}

func (r *UserRepository) GetByID(id int) (*model.User, error) {
	return r.table.get(id)
}

// GetByEmail matches case-insensitively; emails are stored as entered.
func (r *UserRepository) GetByEmail(email string) (*model.User, error) {
	email = strings.TrimSpace(email)
	for _, u := range r.table.all() {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return nil, errors.Wrapf(appErrors.ErrNotFound, "user %q", email)
}

// Create numbers accounts after the highest seeded id and refuses a taken email.
func (r *UserRepository) Create(u *model.User) error {
	email := strings.TrimSpace(u.Email)
	ok := r.table.insertUnless(u, func(existing *model.User) bool {
		return strings.EqualFold(existing.Email, email)
	})
	if !ok {
		return appErrors.Conflict("email %s is already registered", email)
	}
	return nil
}

// Update refuses a change that would give the user another account's email.
func (r *UserRepository) Update(id int, fn func(u *model.User) error) (*model.User, error) {
	return r.table.updateUnless(id, fn, func(existing, updated *model.User) error {
		email := strings.TrimSpace(updated.Email)
		if strings.EqualFold(existing.Email, email) {
			return appErrors.Conflict("email %s is already registered", email)
		}
		return nil
	})
}

var _ UserRepositoryInterface = (*UserRepository)(nil)
