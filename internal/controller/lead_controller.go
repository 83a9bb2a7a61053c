package controller

import (
	"net/http"

	"github.com/unclebandit/marketdesk-backend/internal/handler"
	"github.com/unclebandit/marketdesk-backend/internal/model"
	"github.com/unclebandit/marketdesk-backend/internal/service"
)

type LeadController struct {
	LeadService *service.LeadService
}

// leadView adds the avatar initials to a lead.
type leadView struct {
	*model.Lead
	Initials string `json:"initials"`
}

func viewOf(l *model.Lead) leadView {
	return leadView{Lead: l, Initials: model.Initials(l.Name)}
}

func (c *LeadController) CreateLead(w http.ResponseWriter, r *http.Request) {
	var form service.LeadForm
	if err := handler.DecodeJSON(r, &form); err != nil {
		handler.WriteError(w, r, err)
		return
	}

	lead, err := c.LeadService.CreateLead(form)
	if err != nil {
		handler.WriteError(w, r, err)
		return
	}
	handler.WriteJSON(w, http.StatusCreated, withNotice(viewOf(lead), "lead added"))
}

func (c *LeadController) ListLeads(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	leads, pagination, err := c.LeadService.ListLeads(service.LeadQuery{
		Query:  q.Get("q"),
		Status: q.Get("status"),
		Source: q.Get("source"),
		Tag:    q.Get("tag"),
		Sort:   q.Get("sort"),
		Order:  q.Get("order"),
	}, pageFrom(r))
	if err != nil {
		handler.WriteError(w, r, err)
		return
	}

	views := make([]leadView, len(leads))
	for i, l := range leads {
		views[i] = viewOf(l)
	}
	handler.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"data":       views,
		"pagination": pagination,
	})
}

func (c *LeadController) GetLead(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		handler.WriteError(w, r, err)
		return
	}
	lead, err := c.LeadService.GetLead(id)
	if err != nil {
		handler.WriteError(w, r, err)
		return
	}
	handler.WriteJSON(w, http.StatusOK, map[string]interface{}{"data": viewOf(lead)})
}

func (c *LeadController) DeleteLead(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		handler.WriteError(w, r, err)
		return
	}
	notice, err := c.LeadService.DeleteLead(id)
	if err != nil {
		handler.WriteError(w, r, err)
		return
	}
	handler.WriteJSON(w, http.StatusOK, map[string]interface{}{"notice": notice})
}

func (c *LeadController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		handler.WriteError(w, r, err)
		return
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := handler.DecodeJSON(r, &body); err != nil {
		handler.WriteError(w, r, err)
		return
	}

	lead, err := c.LeadService.UpdateStatus(id, body.Status)
	if err != nil {
		handler.WriteError(w, r, err)
		return
	}
	handler.WriteJSON(w, http.StatusOK, withNotice(viewOf(lead), "status updated"))
}

func (c *LeadController) AddNote(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		handler.WriteError(w, r, err)
		return
	}
	var body struct {
		Text string `json:"text"`
	}
	if err := handler.DecodeJSON(r, &body); err != nil {
		handler.WriteError(w, r, err)
		return
	}

	author := ""
	if u, ok := handler.CurrentUser(r.Context()); ok {
		author = u.Name
	}
	lead, err := c.LeadService.AddNote(id, body.Text, author)
	if err != nil {
		handler.WriteError(w, r, err)
		return
	}
	handler.WriteJSON(w, http.StatusCreated, withNotice(viewOf(lead), "note added"))
}

func (c *LeadController) ContactLinks(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		handler.WriteError(w, r, err)
		return
	}
	links, err := c.LeadService.ContactLinks(id)
	if err != nil {
		handler.WriteError(w, r, err)
		return
	}
	handler.WriteJSON(w, http.StatusOK, map[string]interface{}{"data": links})
}

func (c *LeadController) CreateDeal(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		handler.WriteError(w, r, err)
		return
	}
	notice, err := c.LeadService.CreateDeal(id)
	if err != nil {
		handler.WriteError(w, r, err)
		return
	}
	handler.WriteJSON(w, http.StatusOK, map[string]interface{}{"notice": notice})
}
