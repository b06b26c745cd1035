package httpapi

import (
	"net/http"

	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/order"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/session"
)

type orderResponse struct {
	order.Order
	ItemCount int `json:"itemCount"`
}

func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	s, ok := h.loadSession(w, r)
	if !ok {
		return
	}
	o, err := s.Checkout(h.numbers, h.now())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, orderResponse{Order: o, ItemCount: o.ItemCount()})
}

func (h *Handler) CurrentOrder(w http.ResponseWriter, r *http.Request) {
	s, ok := h.loadSession(w, r)
	if !ok {
		return
	}
	o, found := s.CurrentOrder()
	if !found {
		h.fail(w, r, session.ErrNoOpenOrder)
		return
	}
	writeJSON(w, http.StatusOK, orderResponse{Order: o, ItemCount: o.ItemCount()})
}

func (h *Handler) CloseOrder(w http.ResponseWriter, r *http.Request) {
	s, ok := h.loadSession(w, r)
	if !ok {
		return
	}
	if err := s.CloseOrder(r.Context()); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.Cart())
}
