package controller

import (
	"net/http"

	"github.com/unclebandit/marketdesk-backend/internal/handler"
	"github.com/unclebandit/marketdesk-backend/internal/model"
	"github.com/unclebandit/marketdesk-backend/internal/service"
	"github.com/unclebandit/marketdesk-backend/internal/session"
)

type AuthController struct {
	AuthService *service.AuthService
}

func signedIn(user *model.User, sess *session.Session) map[string]interface{} {
	return map[string]interface{}{
		"user":       user,
		"token":      sess.Token,
		"expires_at": sess.ExpiresAt,
	}
}

func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var form service.LoginForm
	if err := handler.DecodeJSON(r, &form); err != nil {
		handler.WriteError(w, r, err)
		return
	}

	user, sess, err := c.AuthService.Login(r.Context(), form)
	if err != nil {
		handler.WriteError(w, r, err)
		return
	}
	handler.SetSessionCookie(w, sess)
	handler.WriteJSON(w, http.StatusOK, withNotice(signedIn(user, sess), "welcome back, "+user.Name))
}

func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var form service.RegisterForm
	if err := handler.DecodeJSON(r, &form); err != nil {
		handler.WriteError(w, r, err)
		return
	}

	user, sess, err := c.AuthService.Register(r.Context(), form)
	if err != nil {
		handler.WriteError(w, r, err)
		return
	}
	handler.SetSessionCookie(w, sess)
	handler.WriteJSON(w, http.StatusCreated, withNotice(signedIn(user, sess), "account created"))
}

func (c *AuthController) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var form service.ForgotPasswordForm
	if err := handler.DecodeJSON(r, &form); err != nil {
		handler.WriteError(w, r, err)
		return
	}

	notice, err := c.AuthService.ForgotPassword(form)
	if err != nil {
		handler.WriteError(w, r, err)
		return
	}
	handler.WriteJSON(w, http.StatusAccepted, map[string]interface{}{"notice": notice})
}

func (c *AuthController) PasswordStrength(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Password string `json:"password"`
	}
	if err := handler.DecodeJSON(r, &body); err != nil {
		handler.WriteError(w, r, err)
		return
	}

	score, label := service.PasswordStrength(body.Password)
	handler.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"data": map[string]interface{}{"score": score, "label": label},
	})
}

func (c *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	if err := c.AuthService.Logout(r.Context(), handler.SessionToken(r)); err != nil {
		handler.WriteError(w, r, err)
		return
	}
	handler.ClearSessionCookie(w)
	handler.WriteJSON(w, http.StatusOK, map[string]interface{}{"notice": "logged out"})
}

func (c *AuthController) Me(w http.ResponseWriter, r *http.Request) {
	user, _ := handler.CurrentUser(r.Context())
	handler.WriteJSON(w, http.StatusOK, map[string]interface{}{"data": user})
}
