package controller

import (
	"net/http"
	"strconv"

	"github.com/unclebandit/marketdesk-backend/internal/handler"
	"github.com/unclebandit/marketdesk-backend/internal/service"
)

type DashboardController struct {
	DashboardService *service.DashboardService
}

func (c *DashboardController) Dashboard(w http.ResponseWriter, r *http.Request) {
	handler.WriteJSON(w, http.StatusOK, map[string]interface{}{"data": c.DashboardService.Dashboard()})
}

func (c *DashboardController) Navigation(w http.ResponseWriter, r *http.Request) {
	handler.WriteJSON(w, http.StatusOK, map[string]interface{}{"data": c.DashboardService.Navigation()})
}

func (c *DashboardController) Analytics(w http.ResponseWriter, r *http.Request) {
	period := 0
	if p := r.URL.Query().Get("period"); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil {
			handler.WriteError(w, r, handler.BadRequest("invalid period %q", p))
			return
		}
		period = n
	}

	a, err := c.DashboardService.Analytics(period)
	if err != nil {
		handler.WriteError(w, r, err)
		return
	}
	handler.WriteJSON(w, http.StatusOK, map[string]interface{}{"data": a})
}
