package service_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/unclebandit/marketdesk-backend/internal/errors"
	"github.com/unclebandit/marketdesk-backend/internal/model"
	"github.com/unclebandit/marketdesk-backend/internal/queue"
	"github.com/unclebandit/marketdesk-backend/internal/service"
)

func TestUpdateProfile(t *testing.T) {
	f := newFixture(t)
	svc := f.settingsService()

	u, err := svc.UpdateProfile(2, service.ProfileForm{Name: "John Q. Doe", Email: "john@example.com", Position: "CMO"})
	require.NoError(t, err)
	assert.Equal(t, "John Q. Doe", u.Name)
	assert.Equal(t, "john@example.com", u.Email)
	assert.Equal(t, []string{queue.TopicSettingsUpdated}, f.queue.topics())

	// keeping one's own email is fine, taking someone else's is not
	_, err = svc.UpdateProfile(2, service.ProfileForm{Name: "John", Email: "JOHN@example.com"})
	require.NoError(t, err)
	_, err = svc.UpdateProfile(2, service.ProfileForm{Name: "John", Email: "admin@example.com"})
	assert.ErrorIs(t, err, appErrors.ErrConflict)

	_, err = svc.UpdateProfile(2, service.ProfileForm{Name: "J", Email: "john@example.com", Phone: "123"})
	verr, ok := appErrors.AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, verr.Fields, "name")
	assert.Contains(t, verr.Fields, "phone")
}

func TestUpdateCompany(t *testing.T) {
	svc := newFixture(t).settingsService()

	u, err := svc.UpdateCompany(1, service.CompanyForm{CompanyName: "TechCorp Ltd", Website: "https://techcorp.example.com", Industry: "SaaS"})
	require.NoError(t, err)
	assert.Equal(t, "TechCorp Ltd", u.Company.CompanyName)
	assert.Equal(t, "TechCorp Ltd", u.CompanyName)
	assert.Equal(t, "SaaS", u.Industry)

	_, err = svc.UpdateCompany(1, service.CompanyForm{CompanyName: "TechCorp", Website: "techcorp"})
	verr, ok := appErrors.AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, "invalid URL", verr.Fields["website"])
}

func TestChangePassword(t *testing.T) {
	f := newFixture(t)
	svc := f.settingsService()

	err := svc.ChangePassword(1, service.PasswordForm{CurrentPassword: "wrong", NewPassword: "newpassword1", ConfirmPassword: "newpassword1"})
	verr, ok := appErrors.AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, "current password is incorrect", verr.Fields["current_password"])

	err = svc.ChangePassword(1, service.PasswordForm{CurrentPassword: "password123", NewPassword: "newpassword1", ConfirmPassword: "other"})
	verr, ok = appErrors.AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, "confirm password does not match", verr.Fields["confirm_password"])

	require.NoError(t, svc.ChangePassword(1, service.PasswordForm{CurrentPassword: "password123", NewPassword: "newpassword1", ConfirmPassword: "newpassword1"}))

	auth := f.authService()
	_, _, err = auth.Login(context.Background(), service.LoginForm{Email: "admin@example.com", Password: "newpassword1"})
	assert.NoError(t, err)
	_, _, err = auth.Login(context.Background(), service.LoginForm{Email: "admin@example.com", Password: "password123"})
	assert.ErrorIs(t, err, appErrors.ErrInvalidCredentials)
}

func TestChangePasswordRejectsOverlongPassword(t *testing.T) {
	svc := newFixture(t).settingsService()

	long := strings.Repeat("a", 80)
	err := svc.ChangePassword(1, service.PasswordForm{CurrentPassword: "password123", NewPassword: long, ConfirmPassword: long})
	verr, ok := appErrors.AsValidation(err)
	require.True(t, ok, "expected validation error, got %v", err)
	assert.Equal(t, "password must be at most 72 bytes", verr.Fields["new_password"])
}

func TestUpdateNotifications(t *testing.T) {
	svc := newFixture(t).settingsService()

	u, err := svc.GetSettings(3)
	require.NoError(t, err)
	assert.Equal(t, service.DefaultNotifications, u.Notifications)

	prefs := model.NotificationSettings{SystemUpdates: true}
	u, err = svc.UpdateNotifications(3, prefs)
	require.NoError(t, err)
	assert.Equal(t, prefs, u.Notifications)

	_, err = svc.UpdateNotifications(77, prefs)
	assert.True(t, appErrors.IsNotFound(err))
}
