package controller

import (
	"net/http"
	"strings"

	"github.com/unclebandit/marketdesk-backend/internal/handler"
	"github.com/unclebandit/marketdesk-backend/internal/service"
)

type SocialController struct {
	SocialService *service.SocialService
}

func (c *SocialController) CreatePost(w http.ResponseWriter, r *http.Request) {
	var form service.SocialPostForm
	if err := handler.DecodeJSON(r, &form); err != nil {
		handler.WriteError(w, r, err)
		return
	}

	post, notice, err := c.SocialService.CreatePost(form)
	if err != nil {
		handler.WriteError(w, r, err)
		return
	}
	handler.WriteJSON(w, http.StatusCreated, withNotice(post, notice))
}

func (c *SocialController) RecentPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := c.SocialService.RecentPosts(r.URL.Query().Get("platform"))
	if err != nil {
		handler.WriteError(w, r, err)
		return
	}
	handler.WriteJSON(w, http.StatusOK, map[string]interface{}{"data": posts})
}

func (c *SocialController) ScheduledPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := c.SocialService.ScheduledPosts(r.URL.Query().Get("platform"))
	if err != nil {
		handler.WriteError(w, r, err)
		return
	}
	handler.WriteJSON(w, http.StatusOK, map[string]interface{}{"data": posts})
}

func (c *SocialController) Accounts(w http.ResponseWriter, r *http.Request) {
	handler.WriteJSON(w, http.StatusOK, map[string]interface{}{"data": c.SocialService.Accounts()})
}

// Platforms lists the networks and, for ?selected=a,b, the limit that applies.
func (c *SocialController) Platforms(w http.ResponseWriter, r *http.Request) {
	var selected []string
	if s := r.URL.Query().Get("selected"); s != "" {
		selected = strings.Split(s, ",")
	}
	handler.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"data":      c.SocialService.Platforms(),
		"max_chars": service.MaxChars(selected),
	})
}
