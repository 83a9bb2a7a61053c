package service

import (
	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	appErrors "github.com/unclebandit/marketdesk-backend/internal/errors"
	"github.com/unclebandit/marketdesk-backend/internal/model"
	"github.com/unclebandit/marketdesk-backend/internal/queue"
	"github.com/unclebandit/marketdesk-backend/internal/repository"
	"github.com/unclebandit/marketdesk-backend/internal/validation"
)

type SettingsService struct {
	UserRepo repository.UserRepositoryInterface
	Queue    queue.Queue
	Logger   *zap.Logger
	HashCost int
}

type ProfileForm struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Phone    string `json:"phone" validate:"omitempty,min=10,max=20"`
	Position string `json:"position" validate:"max=100"`
}

type CompanyForm struct {
	CompanyName string `json:"company_name" validate:"required,min=2,max=100"`
	Website     string `json:"website" validate:"omitempty,url"`
	Industry    string `json:"industry" validate:"max=100"`
	Address     string `json:"address" validate:"max=200"`
}

type PasswordForm struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=NewPassword"`
}

func (s *SettingsService) updated(userID int, notice string) {
	loggerOrNop(s.Logger).Info("settings updated", zap.Int("user_id", userID), zap.String("notice", notice))
	publish(s.Queue, s.Logger, queue.TopicSettingsUpdated, queue.Notification{Notice: notice, Kind: "user", RecordID: userID, UserID: userID})
}

func (s *SettingsService) GetSettings(userID int) (*model.User, error) {
	return s.UserRepo.GetByID(userID)
}

// UpdateProfile changes the personal details. The email must stay unique.
func (s *SettingsService) UpdateProfile(userID int, form ProfileForm) (*model.User, error) {
	trimAll(&form.Name, &form.Email, &form.Phone, &form.Position)
	if err := validation.Struct(form); err != nil {
		return nil, err
	}
	u, err := s.UserRepo.Update(userID, func(u *model.User) error {
		u.Name = form.Name
		u.Email = form.Email
		u.Phone = form.Phone
		u.Position = form.Position
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.updated(userID, "profile updated")
	return u, nil
}

func (s *SettingsService) UpdateCompany(userID int, form CompanyForm) (*model.User, error) {
	trimAll(&form.CompanyName, &form.Website, &form.Industry, &form.Address)
	if err := validation.Struct(form); err != nil {
		return nil, err
	}
	u, err := s.UserRepo.Update(userID, func(u *model.User) error {
		u.Company = model.CompanySettings{
			CompanyName: form.CompanyName,
			Website:     form.Website,
			Industry:    form.Industry,
			Address:     form.Address,
		}
		u.CompanyName = form.CompanyName
		u.Industry = form.Industry
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.updated(userID, "company settings updated")
	return u, nil
}

// ChangePassword checks the current password before storing the new one.
func (s *SettingsService) ChangePassword(userID int, form PasswordForm) error {
	err := validation.Struct(form)
	if len(form.NewPassword) > maxPasswordBytes {
		err = validation.Merge(err, map[string]string{"new_password": tooLongPassword})
	}
	if err != nil {
		return err
	}
	hash, err := hashPassword(form.NewPassword, s.HashCost)
	if err != nil {
		return err
	}
	_, err = s.UserRepo.Update(userID, func(u *model.User) error {
		if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(form.CurrentPassword)) != nil {
			return appErrors.NewValidation("current_password", "current password is incorrect")
		}
		u.PasswordHash = hash
		return nil
	})
	if err != nil {
		if _, ok := appErrors.AsValidation(err); ok {
			return err
		}
		return errors.Wrap(err, "change password")
	}
	s.updated(userID, "password changed")
	return nil
}

func (s *SettingsService) UpdateNotifications(userID int, prefs model.NotificationSettings) (*model.User, error) {
	u, err := s.UserRepo.Update(userID, func(u *model.User) error {
		u.Notifications = prefs
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.updated(userID, "notification settings saved")
	return u, nil
}
