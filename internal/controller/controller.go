// Package controller exposes the services as a JSON API.
package controller

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/unclebandit/marketdesk-backend/internal/handler"
	"github.com/unclebandit/marketdesk-backend/internal/service"
)

// idParam reads the {id} URL parameter.
func idParam(r *http.Request) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id < 1 {
		return 0, handler.BadRequest("invalid id %q", chi.URLParam(r, "id"))
	}
	return id, nil
}

// pageFrom parses page and page_size; the service clamps what it gets.
func pageFrom(r *http.Request) service.Page {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))
	return service.Page{Page: page, PageSize: pageSize}
}

func withNotice(data interface{}, notice string) map[string]interface{} {
	return map[string]interface{}{
		"data":   data,
		"notice": notice,
	}
}
