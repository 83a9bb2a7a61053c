package service_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/unclebandit/marketdesk-backend/internal/errors"
	"github.com/unclebandit/marketdesk-backend/internal/queue"
	"github.com/unclebandit/marketdesk-backend/internal/service"
)

func TestLogin(t *testing.T) {
	f := newFixture(t)
	svc := f.authService()
	ctx := context.Background()

	user, sess, err := svc.Login(ctx, service.LoginForm{Email: " ADMIN@example.com ", Password: "password123", Remember: true})
	require.NoError(t, err)
	assert.Equal(t, 1, user.ID)
	assert.Equal(t, "Admin User", user.Name)
	assert.True(t, sess.Remember)
	assert.Equal(t, fixedNow.Add(f.sessions.RememberTTL), sess.ExpiresAt)

	got, _, err := svc.Authenticate(ctx, sess.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := newFixture(t).authService()
	ctx := context.Background()

	_, _, err := svc.Login(ctx, service.LoginForm{Email: "admin@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, appErrors.ErrInvalidCredentials)

	_, _, err = svc.Login(ctx, service.LoginForm{Email: "nobody@example.com", Password: "password123"})
	assert.ErrorIs(t, err, appErrors.ErrInvalidCredentials)

	_, _, err = svc.Login(ctx, service.LoginForm{})
	verr, ok := appErrors.AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, verr.Fields, "email")
	assert.Contains(t, verr.Fields, "password")
}

func TestRegisterPasswordRulesInOrder(t *testing.T) {
	svc := newFixture(t).authService()
	ctx := context.Background()

	tests := []struct {
		name  string
		form  service.RegisterForm
		field string
	}{
		{
			name:  "mismatch wins over short",
			form:  service.RegisterForm{Name: "New Person", Email: "new@example.com", Password: "abc", ConfirmPassword: "abd"},
			field: "confirm_password",
		},
		{
			name:  "short password",
			form:  service.RegisterForm{Name: "New Person", Email: "new@example.com", Password: "abc", ConfirmPassword: "abc"},
			field: "password",
		},
		{
			name:  "password longer than bcrypt accepts",
			form:  service.RegisterForm{Name: "New Person", Email: "new@example.com", Password: strings.Repeat("a", 80), ConfirmPassword: strings.Repeat("a", 80), AgreedToTerms: true},
			field: "password",
		},
		{
			name:  "terms not accepted",
			form:  service.RegisterForm{Name: "New Person", Email: "new@example.com", Password: "longenough", ConfirmPassword: "longenough"},
			field: "agreed_to_terms",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := svc.Register(ctx, tc.form)
			verr, ok := appErrors.AsValidation(err)
			require.True(t, ok, "expected validation error, got %v", err)
			assert.Len(t, verr.Fields, 1)
			assert.Contains(t, verr.Fields, tc.field)
		})
	}
}

func TestRegisterRejectsOverlongPassword(t *testing.T) {
	svc := newFixture(t).authService()

	long := strings.Repeat("a", 80)
	_, _, err := svc.Register(context.Background(), service.RegisterForm{Name: "New Person", Email: "new@example.com", Password: long, ConfirmPassword: long, AgreedToTerms: true})
	verr, ok := appErrors.AsValidation(err)
	require.True(t, ok, "expected validation error, got %v", err)
	assert.Equal(t, "password must be at most 72 bytes", verr.Fields["password"])
}

func TestRegisterMergesFieldErrors(t *testing.T) {
	svc := newFixture(t).authService()

	_, _, err := svc.Register(context.Background(), service.RegisterForm{Name: "A", Email: "bad", Password: "x", ConfirmPassword: "y"})
	verr, ok := appErrors.AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, "name must be at least 2 characters", verr.Fields["name"])
	assert.Equal(t, "invalid email format", verr.Fields["email"])
	assert.Equal(t, "passwords do not match", verr.Fields["confirm_password"])
}

func TestRegister(t *testing.T) {
	f := newFixture(t)
	svc := f.authService()
	ctx := context.Background()

	form := service.RegisterForm{
		Name:            "New Person",
		Email:           "new@example.com",
		Password:        "Secret123",
		ConfirmPassword: "Secret123",
		CompanyName:     "Acme",
		AgreedToTerms:   true,
	}
	user, sess, err := svc.Register(ctx, form)
	require.NoError(t, err)
	assert.Equal(t, 4, user.ID)
	assert.Equal(t, "user", user.Role)
	assert.Equal(t, "Acme", user.Company.CompanyName)
	assert.Equal(t, service.DefaultNotifications, user.Notifications)
	assert.True(t, sess.Remember)
	assert.Equal(t, []string{queue.TopicUserRegistered}, f.queue.topics())

	// the new account can log in with its password
	_, _, err = svc.Login(ctx, service.LoginForm{Email: "new@example.com", Password: "Secret123"})
	require.NoError(t, err)

	_, _, err = svc.Register(ctx, form)
	assert.ErrorIs(t, err, appErrors.ErrConflict)
}

func TestLogoutEndsSession(t *testing.T) {
	svc := newFixture(t).authService()
	ctx := context.Background()

	_, sess, err := svc.Login(ctx, service.LoginForm{Email: "user@example.com", Password: "password123"})
	require.NoError(t, err)
	require.NoError(t, svc.Logout(ctx, sess.Token))

	_, _, err = svc.Authenticate(ctx, sess.Token)
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)

	assert.NoError(t, svc.Logout(ctx, ""))
}

func TestPasswordStrength(t *testing.T) {
	tests := []struct {
		password string
		score    int
		label    string
	}{
		{"", 0, ""},
		{"abc", 25, "weak"},
		{"abcdefgh", 50, "medium"},
		{"abcdefghijkl", 75, "good"},
		{"Abcdefghijk1", 100, "strong"},
	}
	for _, tc := range tests {
		score, label := service.PasswordStrength(tc.password)
		assert.Equal(t, tc.score, score, tc.password)
		assert.Equal(t, tc.label, label, tc.password)
	}
}

func TestForgotPassword(t *testing.T) {
	f := newFixture(t)
	svc := f.authService()

	notice, err := svc.ForgotPassword(service.ForgotPasswordForm{Email: "user@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "reset link sent to user@example.com", notice)
	assert.Equal(t, 2, f.queue.last().Payload.(queue.Notification).UserID)

	// unknown addresses are answered the same way
	notice, err = svc.ForgotPassword(service.ForgotPasswordForm{Email: "ghost@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "reset link sent to ghost@example.com", notice)

	_, err = svc.ForgotPassword(service.ForgotPasswordForm{Email: "not-an-email"})
	_, ok := appErrors.AsValidation(err)
	assert.True(t, ok)
}
