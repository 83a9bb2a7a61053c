package controller

import (
	"net/http"

	"github.com/unclebandit/marketdesk-backend/internal/handler"
	"github.com/unclebandit/marketdesk-backend/internal/service"
)

type CampaignController struct {
	CampaignService *service.CampaignService
}

func (c *CampaignController) PersonalizedPreview(w http.ResponseWriter, r *http.Request) {
	campaignID, err := idParam(r)
	if err != nil {
		handler.WriteError(w, r, err)
		return
	}

	var body struct {
		LeadID          int     `json:"lead_id"`
		OverrideContent *string `json:"override_content"`
	}
	if err := handler.DecodeJSON(r, &body); err != nil {
		handler.WriteError(w, r, err)
		return
	}

	preview, err := c.CampaignService.RenderPreview(campaignID, body.LeadID, body.OverrideContent)
	if err != nil {
		handler.WriteError(w, r, err)
		return
	}

	handler.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"data":          preview,
		"used_override": body.OverrideContent != nil,
	})
}

func (c *CampaignController) CreateCampaign(w http.ResponseWriter, r *http.Request) {
	var form service.CampaignForm
	if err := handler.DecodeJSON(r, &form); err != nil {
		handler.WriteError(w, r, err)
		return
	}

	campaign, notice, err := c.CampaignService.CreateCampaign(form)
	if err != nil {
		handler.WriteError(w, r, err)
		return
	}
	handler.WriteJSON(w, http.StatusCreated, withNotice(campaign, notice))
}

func (c *CampaignController) ListCampaigns(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	campaigns, pagination, err := c.CampaignService.ListCampaigns(service.CampaignQuery{
		Query:    q.Get("q"),
		Status:   q.Get("status"),
		Template: q.Get("template"),
		Sort:     q.Get("sort"),
		Order:    q.Get("order"),
	}, pageFrom(r))
	if err != nil {
		handler.WriteError(w, r, err)
		return
	}

	handler.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"data":       campaigns,
		"pagination": pagination, // already contains total_count, total_pages, page, page_size
	})
}

func (c *CampaignController) GetCampaignDetails(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		handler.WriteError(w, r, err)
		return
	}

	campaign, err := c.CampaignService.GetCampaignDetails(id)
	if err != nil {
		handler.WriteError(w, r, err)
		return
	}
	handler.WriteJSON(w, http.StatusOK, map[string]interface{}{"data": campaign})
}

func (c *CampaignController) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := c.CampaignService.Stats()
	if err != nil {
		handler.WriteError(w, r, err)
		return
	}
	handler.WriteJSON(w, http.StatusOK, map[string]interface{}{"data": stats})
}

func (c *CampaignController) Templates(w http.ResponseWriter, r *http.Request) {
	handler.WriteJSON(w, http.StatusOK, map[string]interface{}{"data": c.CampaignService.Templates()})
}

func (c *CampaignController) Duplicate(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		handler.WriteError(w, r, err)
		return
	}
	campaign, err := c.CampaignService.Duplicate(id)
	if err != nil {
		handler.WriteError(w, r, err)
		return
	}
	handler.WriteJSON(w, http.StatusCreated, withNotice(campaign, "campaign duplicated"))
}

func (c *CampaignController) DeleteCampaign(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		handler.WriteError(w, r, err)
		return
	}
	if err := c.CampaignService.DeleteCampaign(id); err != nil {
		handler.WriteError(w, r, err)
		return
	}
	handler.WriteJSON(w, http.StatusOK, map[string]interface{}{"notice": "campaign deleted"})
}

func (c *CampaignController) PauseResume(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		handler.WriteError(w, r, err)
		return
	}
	campaign, notice, err := c.CampaignService.PauseResume(id)
	if err != nil {
		handler.WriteError(w, r, err)
		return
	}
	handler.WriteJSON(w, http.StatusOK, withNotice(campaign, notice))
}

// SendCampaign starts sending now. Delivery itself is not simulated.
func (c *CampaignController) SendCampaign(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		handler.WriteError(w, r, err)
		return
	}
	campaign, err := c.CampaignService.SendNow(id)
	if err != nil {
		handler.WriteError(w, r, err)
		return
	}
	handler.WriteJSON(w, http.StatusAccepted, withNotice(campaign, "campaign sending started"))
}
