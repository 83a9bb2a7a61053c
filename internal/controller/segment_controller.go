package controller

import (
	"net/http"

	"github.com/unclebandit/marketdesk-backend/internal/handler"
	"github.com/unclebandit/marketdesk-backend/internal/service"
)

type SegmentController struct {
	SegmentService *service.SegmentService
}

func (c *SegmentController) ListSegments(w http.ResponseWriter, r *http.Request) {
	segments, stats, err := c.SegmentService.ListSegments(r.URL.Query().Get("group"))
	if err != nil {
		handler.WriteError(w, r, err)
		return
	}
	handler.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"data":  segments,
		"stats": stats,
	})
}

func (c *SegmentController) GetSegment(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		handler.WriteError(w, r, err)
		return
	}
	seg, err := c.SegmentService.GetSegment(id)
	if err != nil {
		handler.WriteError(w, r, err)
		return
	}
	handler.WriteJSON(w, http.StatusOK, map[string]interface{}{"data": seg})
}

func (c *SegmentController) CreateSegment(w http.ResponseWriter, r *http.Request) {
	var form service.SegmentForm
	if err := handler.DecodeJSON(r, &form); err != nil {
		handler.WriteError(w, r, err)
		return
	}
	seg, err := c.SegmentService.CreateSegment(form)
	if err != nil {
		handler.WriteError(w, r, err)
		return
	}
	handler.WriteJSON(w, http.StatusCreated, withNotice(seg, "segment created"))
}

func (c *SegmentController) Export(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		handler.WriteError(w, r, err)
		return
	}
	notice, err := c.SegmentService.ExportSegment(id)
	if err != nil {
		handler.WriteError(w, r, err)
		return
	}
	handler.WriteJSON(w, http.StatusAccepted, map[string]interface{}{"notice": notice})
}

func (c *SegmentController) DownloadExport(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		handler.WriteError(w, r, err)
		return
	}
	filename, body, err := c.SegmentService.ExportMarkdown(id)
	if err != nil {
		handler.WriteError(w, r, err)
		return
	}
	writeMarkdown(w, filename, body)
}

func (c *SegmentController) CreateCampaign(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		handler.WriteError(w, r, err)
		return
	}
	notice, err := c.SegmentService.CreateCampaign(id)
	if err != nil {
		handler.WriteError(w, r, err)
		return
	}
	handler.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"notice":   notice,
		"redirect": "/campaigns",
	})
}
