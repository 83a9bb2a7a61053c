package service

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	appErrors "github.com/unclebandit/marketdesk-backend/internal/errors"
	"github.com/unclebandit/marketdesk-backend/internal/model"
	"github.com/unclebandit/marketdesk-backend/internal/queue"
	"github.com/unclebandit/marketdesk-backend/internal/repository"
	"github.com/unclebandit/marketdesk-backend/internal/seed"
	"github.com/unclebandit/marketdesk-backend/internal/session"
	"github.com/unclebandit/marketdesk-backend/internal/validation"
)

const (
	minPasswordLength = 8
	// bcrypt rejects longer inputs.
	maxPasswordBytes = 72
)

type AuthService struct {
	UserRepo repository.UserRepositoryInterface
	Sessions *session.Manager
	Queue    queue.Queue
	Logger   *zap.Logger

	// HashCost is the bcrypt cost for new passwords; zero means bcrypt.DefaultCost.
	HashCost int
}

type LoginForm struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
	Remember bool   `json:"remember"`
}

type RegisterForm struct {
	Name            string `json:"name" validate:"required,min=2,max=100"`
	Email           string `json:"email" validate:"required,email,max=255"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	CompanyName     string `json:"company_name" validate:"max=100"`
	Industry        string `json:"industry" validate:"max=100"`
	AgreedToTerms   bool   `json:"agreed_to_terms"`
}

type ForgotPasswordForm struct {
	Email string `json:"email" validate:"required,email"`
}

// DefaultNotifications are the preferences every account starts with.
var DefaultNotifications = model.NotificationSettings{CampaignReports: true, NewLeads: true}

// BuildUsers hashes the seeded plain-text passwords and fills in the settings
// derived from the profile.
func BuildUsers(seeded []seed.User, cost int) ([]model.User, error) {
	users := make([]model.User, 0, len(seeded))
	for _, su := range seeded {
		hash, err := hashPassword(su.Password, cost)
		if err != nil {
			return nil, errors.Wrapf(err, "seed user %s", su.Email)
		}
		u := su.User
		u.PasswordHash = hash
		u.Company = model.CompanySettings{CompanyName: u.CompanyName, Industry: u.Industry}
		u.Notifications = DefaultNotifications
		users = append(users, u)
	}
	return users, nil
}

func hashPassword(password string, cost int) (string, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", errors.Wrap(err, "hash password")
	}
	return string(hash), nil
}

func (s *AuthService) logger() *zap.Logger {
	return loggerOrNop(s.Logger)
}

// Login checks the credentials and opens a session.
func (s *AuthService) Login(ctx context.Context, form LoginForm) (*model.User, *session.Session, error) {
	trimAll(&form.Email)
	if err := validation.Struct(form); err != nil {
		return nil, nil, err
	}

	user, err := s.UserRepo.GetByEmail(form.Email)
	if err != nil {
		if appErrors.IsNotFound(err) {
			return nil, nil, appErrors.ErrInvalidCredentials
		}
		return nil, nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(form.Password)) != nil {
		s.logger().Info("login failed", zap.Int("user_id", user.ID))
		return nil, nil, appErrors.ErrInvalidCredentials
	}

	sess, err := s.Sessions.Create(ctx, user.ID, form.Remember)
	if err != nil {
		return nil, nil, err
	}
	s.logger().Info("user logged in", zap.Int("user_id", user.ID), zap.Bool("remember", form.Remember))
	return user, sess, nil
}

// Register creates an account and logs it in with a remembered session.
func (s *AuthService) Register(ctx context.Context, form RegisterForm) (*model.User, *session.Session, error) {
	trimAll(&form.Name, &form.Email, &form.CompanyName, &form.Industry)
	err := validation.Struct(form)
	if field, msg := checkRegisterPassword(form); field != "" {
		err = validation.Merge(err, map[string]string{field: msg})
	}
	if err != nil {
		return nil, nil, err
	}

	hash, err := hashPassword(form.Password, s.HashCost)
	if err != nil {
		return nil, nil, err
	}
	user := &model.User{
		Email:         form.Email,
		Name:          form.Name,
		CompanyName:   form.CompanyName,
		Industry:      form.Industry,
		Role:          "user",
		PasswordHash:  hash,
		Company:       model.CompanySettings{CompanyName: form.CompanyName, Industry: form.Industry},
		Notifications: DefaultNotifications,
	}
	if err := s.UserRepo.Create(user); err != nil {
		return nil, nil, err
	}

	sess, err := s.Sessions.Create(ctx, user.ID, true)
	if err != nil {
		return nil, nil, err
	}
	s.logger().Info("user registered", zap.Int("user_id", user.ID))
	publish(s.Queue, s.Logger, queue.TopicUserRegistered, queue.Notification{
		Notice: "welcome, " + user.Name, Kind: "user", RecordID: user.ID, UserID: user.ID,
	})
	return user, sess, nil
}

// checkRegisterPassword applies the password rules in order and reports the first one broken.
func checkRegisterPassword(form RegisterForm) (field, msg string) {
	switch {
	case form.Password != form.ConfirmPassword:
		return "confirm_password", "passwords do not match"
	case len([]rune(form.Password)) < minPasswordLength:
		return "password", fmt.Sprintf("password must be at least %d characters", minPasswordLength)
	case len(form.Password) > maxPasswordBytes:
		return "password", tooLongPassword
	case !form.AgreedToTerms:
		return "agreed_to_terms", "you must accept the terms of use"
	}
	return "", ""
}

var tooLongPassword = fmt.Sprintf("password must be at most %d bytes", maxPasswordBytes)

// PasswordStrength scores a password from 0 to 100 with a label for the meter.
func PasswordStrength(password string) (int, string) {
	n := len([]rune(password))
	switch {
	case n == 0:
		return 0, ""
	case n < minPasswordLength:
		return 25, "weak"
	case n < 12:
		return 50, "medium"
	}

	var upper, digit bool
	for _, r := range password {
		upper = upper || unicode.IsUpper(r)
		digit = digit || unicode.IsDigit(r)
	}
	if upper && digit {
		return 100, "strong"
	}
	return 75, "good"
}

// ForgotPassword pretends to send a reset link. Unknown addresses get the same answer.
func (s *AuthService) ForgotPassword(form ForgotPasswordForm) (string, error) {
	trimAll(&form.Email)
	if err := validation.Struct(form); err != nil {
		return "", err
	}

	n := queue.Notification{Notice: "reset link sent to " + form.Email, Kind: "user"}
	if u, err := s.UserRepo.GetByEmail(form.Email); err == nil {
		n.UserID = u.ID
	}
	publish(s.Queue, s.Logger, queue.TopicPasswordReset, n)
	return n.Notice, nil
}

func (s *AuthService) Logout(ctx context.Context, token string) error {
	if strings.TrimSpace(token) == "" {
		return nil
	}
	return s.Sessions.Destroy(ctx, token)
}

// Authenticate resolves a session token to its user.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*model.User, *session.Session, error) {
	sess, err := s.Sessions.Get(ctx, token)
	if err != nil {
		return nil, nil, err
	}
	user, err := s.UserRepo.GetByID(sess.UserID)
	if err != nil {
		if appErrors.IsNotFound(err) {
			return nil, nil, errors.Wrap(appErrors.ErrUnauthorized, "session user is gone")
		}
		return nil, nil, err
	}
	return user, sess, nil
}
