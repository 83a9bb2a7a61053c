package controller

import (
	"net/http"

	"github.com/unclebandit/marketdesk-backend/internal/handler"
	"github.com/unclebandit/marketdesk-backend/internal/service"
)

type ReportController struct {
	ReportService *service.ReportService
}

func (c *ReportController) ListReports(w http.ResponseWriter, r *http.Request) {
	reports, err := c.ReportService.ListReports()
	if err != nil {
		handler.WriteError(w, r, err)
		return
	}
	handler.WriteJSON(w, http.StatusOK, map[string]interface{}{"data": reports})
}

func (c *ReportController) GetReport(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		handler.WriteError(w, r, err)
		return
	}
	rep, err := c.ReportService.GetReport(id)
	if err != nil {
		handler.WriteError(w, r, err)
		return
	}
	handler.WriteJSON(w, http.StatusOK, map[string]interface{}{"data": rep})
}

// Generate queues a report; poll GetReport until it is ready.
func (c *ReportController) Generate(w http.ResponseWriter, r *http.Request) {
	var form service.ReportForm
	if err := handler.DecodeJSON(r, &form); err != nil {
		handler.WriteError(w, r, err)
		return
	}

	rep, err := c.ReportService.Generate(form)
	if err != nil {
		handler.WriteError(w, r, err)
		return
	}
	handler.WriteJSON(w, http.StatusAccepted, withNotice(rep, "report generation started"))
}

func (c *ReportController) Download(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		handler.WriteError(w, r, err)
		return
	}
	filename, body, err := c.ReportService.Download(id)
	if err != nil {
		handler.WriteError(w, r, err)
		return
	}
	writeMarkdown(w, filename, body)
}

func (c *ReportController) ListScheduled(w http.ResponseWriter, r *http.Request) {
	scheduled, err := c.ReportService.ListScheduled()
	if err != nil {
		handler.WriteError(w, r, err)
		return
	}
	handler.WriteJSON(w, http.StatusOK, map[string]interface{}{"data": scheduled})
}

func (c *ReportController) UpdateScheduled(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		handler.WriteError(w, r, err)
		return
	}
	var form service.ScheduledReportForm
	if err := handler.DecodeJSON(r, &form); err != nil {
		handler.WriteError(w, r, err)
		return
	}

	sr, err := c.ReportService.UpdateScheduled(id, form)
	if err != nil {
		handler.WriteError(w, r, err)
		return
	}
	handler.WriteJSON(w, http.StatusOK, withNotice(sr, "scheduled report updated"))
}

func (c *ReportController) DeleteScheduled(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		handler.WriteError(w, r, err)
		return
	}
	if err := c.ReportService.DeleteScheduled(id); err != nil {
		handler.WriteError(w, r, err)
		return
	}
	handler.WriteJSON(w, http.StatusOK, map[string]interface{}{"notice": "scheduled report deleted"})
}

func writeMarkdown(w http.ResponseWriter, filename string, body []byte) {
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
