package controller

import (
	"net/http"

	"github.com/unclebandit/marketdesk-backend/internal/handler"
	"github.com/unclebandit/marketdesk-backend/internal/model"
	"github.com/unclebandit/marketdesk-backend/internal/service"
)

// SettingsController edits the signed-in user's own settings.
type SettingsController struct {
	SettingsService *service.SettingsService
}

func currentUserID(r *http.Request) int {
	if u, ok := handler.CurrentUser(r.Context()); ok {
		return u.ID
	}
	return 0
}

func (c *SettingsController) GetSettings(w http.ResponseWriter, r *http.Request) {
	u, err := c.SettingsService.GetSettings(currentUserID(r))
	if err != nil {
		handler.WriteError(w, r, err)
		return
	}
	handler.WriteJSON(w, http.StatusOK, map[string]interface{}{"data": u})
}

func (c *SettingsController) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var form service.ProfileForm
	if err := handler.DecodeJSON(r, &form); err != nil {
		handler.WriteError(w, r, err)
		return
	}
	u, err := c.SettingsService.UpdateProfile(currentUserID(r), form)
	if err != nil {
		handler.WriteError(w, r, err)
		return
	}
	handler.WriteJSON(w, http.StatusOK, withNotice(u, "profile updated"))
}

func (c *SettingsController) UpdateCompany(w http.ResponseWriter, r *http.Request) {
	var form service.CompanyForm
	if err := handler.DecodeJSON(r, &form); err != nil {
		handler.WriteError(w, r, err)
		return
	}
	u, err := c.SettingsService.UpdateCompany(currentUserID(r), form)
	if err != nil {
		handler.WriteError(w, r, err)
		return
	}
	handler.WriteJSON(w, http.StatusOK, withNotice(u, "company settings updated"))
}

func (c *SettingsController) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var form service.PasswordForm
	if err := handler.DecodeJSON(r, &form); err != nil {
		handler.WriteError(w, r, err)
		return
	}
	if err := c.SettingsService.ChangePassword(currentUserID(r), form); err != nil {
		handler.WriteError(w, r, err)
		return
	}
	handler.WriteJSON(w, http.StatusOK, map[string]interface{}{"notice": "password changed"})
}

func (c *SettingsController) UpdateNotifications(w http.ResponseWriter, r *http.Request) {
	var prefs model.NotificationSettings
	if err := handler.DecodeJSON(r, &prefs); err != nil {
		handler.WriteError(w, r, err)
		return
	}
	u, err := c.SettingsService.UpdateNotifications(currentUserID(r), prefs)
	if err != nil {
		handler.WriteError(w, r, err)
		return
	}
	handler.WriteJSON(w, http.StatusOK, withNotice(u.Notifications, "notification settings saved"))
}
