package httpapi

import (
	"net/http"

	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/scroll"
)

type viewportRequest struct {
	Sections        []scroll.Section `json:"sections"`
	ReferenceOffset *float64         `json:"referenceOffset"`
}

func (req viewportRequest) viewport() scroll.Viewport {
	ref := float64(scroll.DefaultReferenceOffset)
	if req.ReferenceOffset != nil {
		ref = *req.ReferenceOffset
	}
	return scroll.Viewport{Sections: req.Sections, ReferenceOffset: ref}
}

type activeCategoryResponse struct {
	ActiveCategory string `json:"activeCategory"`
	Found          bool   `json:"found"`
}

// ComputeActiveCategory evaluates one set of section offsets directly.
func (h *Handler) ComputeActiveCategory(w http.ResponseWriter, r *http.Request) {
	var req viewportRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	v := req.viewport()
	id, ok := scroll.ActiveCategory(v.Sections, v.ReferenceOffset)
	writeJSON(w, http.StatusOK, activeCategoryResponse{ActiveCategory: id, Found: ok})
}

// TrackScroll queues an observation for the session's frame-throttled tracker.
func (h *Handler) TrackScroll(w http.ResponseWriter, r *http.Request) {
	var req viewportRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	s, ok := h.loadSession(w, r)
	if !ok {
		return
	}
	s.Track(req.viewport())
	w.WriteHeader(http.StatusAccepted)
}

func (h *Handler) TrackedActiveCategory(w http.ResponseWriter, r *http.Request) {
	s, ok := h.loadSession(w, r)
	if !ok {
		return
	}
	id := s.ActiveCategory()
	writeJSON(w, http.StatusOK, activeCategoryResponse{ActiveCategory: id, Found: id != ""})
}

type stickyRequest struct {
	WrapperTop     float64 `json:"wrapperTop"`
	SelectorHeight float64 `json:"selectorHeight"`
	ViewportWidth  float64 `json:"viewportWidth"`
}

func (h *Handler) Sticky(w http.ResponseWriter, r *http.Request) {
	var req stickyRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	s, ok := h.loadSession(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.Sticky(req.WrapperTop, req.SelectorHeight, req.ViewportWidth))
}
