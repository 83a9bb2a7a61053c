package handler

import (
	"bytes"
	"context"
	"html/template"
	"net/http"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/unclebandit/marketdesk-backend/internal/handler/templates"
	"github.com/unclebandit/marketdesk-backend/internal/model"
)

// DashboardSource supplies the figures shown on the dashboard shell.
type DashboardSource interface {
	Dashboard() model.Dashboard
}

// SessionCloser ends a session by token.
type SessionCloser interface {
	Logout(ctx context.Context, token string) error
}

// Pages serves the login page and the dashboard shell.
type Pages struct {
	Auth      Authenticator
	Sessions  SessionCloser
	Dashboard DashboardSource
	tmpl      *template.Template
}

type pageData struct {
	Title           string
	Active          string
	User            *model.User
	Navigation      []model.NavItem
	Metrics         []model.MetricCard
	Recommendations []model.Recommendation
}

// NewPages parses the embedded templates.
func NewPages(auth Authenticator, sessions SessionCloser, dashboard DashboardSource) (*Pages, error) {
	tmpl, err := template.ParseFS(templates.FS, "*.html")
	if err != nil {
		return nil, errors.Wrap(err, "parse page templates")
	}
	return &Pages{Auth: auth, Sessions: sessions, Dashboard: dashboard, tmpl: tmpl}, nil
}

func (p *Pages) render(w http.ResponseWriter, r *http.Request, name string, data pageData) {
	var buf bytes.Buffer
	if err := p.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		LoggerFrom(r.Context()).Error("render page", zap.String("page", name), zap.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

// Login serves the sign-in form.
func (p *Pages) Login(w http.ResponseWriter, r *http.Request) {
	p.render(w, r, "login.html", pageData{Title: "Sign in"})
}

// DashboardPage renders the shell for a signed-in user and sends everyone
// else to /login.
func (p *Pages) DashboardPage(w http.ResponseWriter, r *http.Request) {
	user, _, err := p.Auth.Authenticate(r.Context(), SessionToken(r))
	if err != nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	d := p.Dashboard.Dashboard()
	p.render(w, r, "dashboard.html", pageData{
		Title:           "Dashboard",
		Active:          "/dashboard",
		User:            user,
		Navigation:      d.Navigation,
		Metrics:         d.Metrics,
		Recommendations: d.Recommendations,
	})
}

// Logout ends the session from the shell's form and returns to /login.
func (p *Pages) Logout(w http.ResponseWriter, r *http.Request) {
	if err := p.Sessions.Logout(r.Context(), SessionToken(r)); err != nil {
		LoggerFrom(r.Context()).Warn("logout", zap.Error(err))
	}
	ClearSessionCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
