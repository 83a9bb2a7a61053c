package controller

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/unclebandit/marketdesk-backend/internal/handler"
	"github.com/unclebandit/marketdesk-backend/internal/service"
)

// Services are what the router exposes.
type Services struct {
	Auth      *service.AuthService
	Leads     *service.LeadService
	Campaigns *service.CampaignService
	Social    *service.SocialService
	Reports   *service.ReportService
	Segments  *service.SegmentService
	Settings  *service.SettingsService
	Dashboard *service.DashboardService
}

// NewRouter wires the pages and the /api routes.
func NewRouter(s Services, logger *zap.Logger) (http.Handler, error) {
	pages, err := handler.NewPages(s.Auth, s.Auth, s.Dashboard)
	if err != nil {
		return nil, err
	}

	authController := &AuthController{AuthService: s.Auth}
	leadController := &LeadController{LeadService: s.Leads}
	campaignController := &CampaignController{CampaignService: s.Campaigns}
	socialController := &SocialController{SocialService: s.Social}
	reportController := &ReportController{ReportService: s.Reports}
	segmentController := &SegmentController{SegmentService: s.Segments}
	settingsController := &SettingsController{SettingsService: s.Settings}
	dashboardController := &DashboardController{DashboardService: s.Dashboard}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(handler.RequestLogger(logger))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
	})
	r.Get("/login", pages.Login)
	r.Get("/dashboard", pages.DashboardPage)
	r.Post("/logout", pages.Logout)

	r.Route("/api", func(r chi.Router) {
		// Auth routes
		r.Post("/auth/login", authController.Login)
		r.Post("/auth/register", authController.Register)
		r.Post("/auth/forgot-password", authController.ForgotPassword)
		r.Post("/auth/password-strength", authController.PasswordStrength)
		r.Post("/auth/logout", authController.Logout)

		r.Group(func(r chi.Router) {
			r.Use(handler.RequireUser(s.Auth))

			r.Get("/auth/me", authController.Me)

			r.Get("/dashboard", dashboardController.Dashboard)
			r.Get("/navigation", dashboardController.Navigation)
			r.Get("/analytics", dashboardController.Analytics)

			// Lead routes
			r.Get("/leads", leadController.ListLeads)
			r.Post("/leads", leadController.CreateLead)
			r.Get("/leads/{id}", leadController.GetLead)
			r.Delete("/leads/{id}", leadController.DeleteLead)
			r.Patch("/leads/{id}/status", leadController.UpdateStatus)
			r.Post("/leads/{id}/notes", leadController.AddNote)
			r.Get("/leads/{id}/contact", leadController.ContactLinks)
			r.Post("/leads/{id}/deal", leadController.CreateDeal)

			// Campaign routes
			r.Get("/campaigns", campaignController.ListCampaigns)
			r.Post("/campaigns", campaignController.CreateCampaign)
			r.Get("/campaigns/stats", campaignController.Stats)
			r.Get("/campaigns/templates", campaignController.Templates)
			r.Get("/campaigns/{id}", campaignController.GetCampaignDetails)
			r.Delete("/campaigns/{id}", campaignController.DeleteCampaign)
			r.Post("/campaigns/{id}/duplicate", campaignController.Duplicate)
			r.Post("/campaigns/{id}/pause-resume", campaignController.PauseResume)
			r.Post("/campaigns/{id}/send", campaignController.SendCampaign)
			r.Post("/campaigns/{id}/personalized-preview", campaignController.PersonalizedPreview)

			// Social routes
			r.Get("/social/posts", socialController.RecentPosts)
			r.Post("/social/posts", socialController.CreatePost)
			r.Get("/social/posts/scheduled", socialController.ScheduledPosts)
			r.Get("/social/accounts", socialController.Accounts)
			r.Get("/social/platforms", socialController.Platforms)

			// Report routes
			r.Get("/reports", reportController.ListReports)
			r.Post("/reports", reportController.Generate)
			r.Get("/reports/scheduled", reportController.ListScheduled)
			r.Put("/reports/scheduled/{id}", reportController.UpdateScheduled)
			r.Delete("/reports/scheduled/{id}", reportController.DeleteScheduled)
			r.Get("/reports/{id}", reportController.GetReport)
			r.Get("/reports/{id}/download", reportController.Download)

			// Segment routes
			r.Get("/segments", segmentController.ListSegments)
			r.Post("/segments", segmentController.CreateSegment)
			r.Get("/segments/{id}", segmentController.GetSegment)
			r.Post("/segments/{id}/export", segmentController.Export)
			r.Get("/segments/{id}/export", segmentController.DownloadExport)
			r.Post("/segments/{id}/campaign", segmentController.CreateCampaign)

			// Settings routes
			r.Get("/settings", settingsController.GetSettings)
			r.Put("/settings/profile", settingsController.UpdateProfile)
			r.Put("/settings/company", settingsController.UpdateCompany)
			r.Put("/settings/password", settingsController.ChangePassword)
			r.Put("/settings/notifications", settingsController.UpdateNotifications)
		})
	})

	return r, nil
}
