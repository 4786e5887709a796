package http

import (
	"net/http"

	"github.com/fjod/go_storefront/internal/catalog"
	"github.com/go-chi/chi/v5"
)

type EventHandler struct{}

func NewEventHandler() *EventHandler {
	return &EventHandler{}
}

// GET /api/v1/events
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string][]catalog.Event{"events": catalog.Events()})
}

// GET /api/v1/events/{slug}
func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	event, err := catalog.EventBySlug(chi.URLParam(r, "slug"))
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, event)
}
