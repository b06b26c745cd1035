package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/session"
)

type lineRequest struct {
	ProductID    string `json:"productId"`
	VariantLabel string `json:"variantLabel"`
	Quantity     *int   `json:"quantity"`
}

type pendingResponse struct {
	Cart           session.CartView    `json:"cart"`
	PendingRemoval cart.PendingRemoval `json:"pendingRemoval"`
}

func (h *Handler) loadSession(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	s, err := h.sessions.Get(r.Context(), sessionID(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return nil, false
	}
	return s, true
}

func (h *Handler) decodeLine(w http.ResponseWriter, r *http.Request) (lineRequest, bool) {
	var req lineRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return req, false
	}
	req.ProductID = strings.TrimSpace(req.ProductID)
	if req.ProductID == "" {
		writeError(w, r, http.StatusBadRequest, "productId is required")
		return req, false
	}
	return req, true
}

// writeCart answers 202 with the pending removal when the change needs confirmation.
func writeCart(w http.ResponseWriter, view session.CartView, pending *cart.PendingRemoval) {
	if pending != nil {
		writeJSON(w, http.StatusAccepted, pendingResponse{Cart: view, PendingRemoval: *pending})
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	s, ok := h.loadSession(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.Cart())
}

// AddItem captures the unit price from the catalog at add time.
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeLine(w, r)
	if !ok {
		return
	}
	qty := 1
	if req.Quantity != nil {
		qty = *req.Quantity
	}

	p, err := h.catalog.Product(r.Context(), req.ProductID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if !p.Orderable() {
		h.fail(w, r, fmt.Errorf("%w: %s", errProductUnavailable, req.ProductID))
		return
	}
	price, err := catalog.PriceFor(p, req.VariantLabel)
	if err != nil {
		h.fail(w, r, fmt.Errorf("%w: %q", err, req.VariantLabel))
		return
	}

	s, ok := h.loadSession(w, r)
	if !ok {
		return
	}
	view, err := s.Add(r.Context(), cart.Line{
		ProductID:    p.ID,
		VariantLabel: req.VariantLabel,
		Name:         p.Name,
		Quantity:     qty,
		UnitPrice:    price,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeLine(w, r)
	if !ok {
		return
	}
	if req.Quantity == nil {
		writeError(w, r, http.StatusBadRequest, "quantity is required")
		return
	}
	s, ok := h.loadSession(w, r)
	if !ok {
		return
	}
	view, pending, err := s.SetQuantity(r.Context(), req.ProductID, req.VariantLabel, *req.Quantity)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeCart(w, view, pending)
}

func (h *Handler) Increment(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeLine(w, r)
	if !ok {
		return
	}
	s, ok := h.loadSession(w, r)
	if !ok {
		return
	}
	view, err := s.Increment(r.Context(), req.ProductID, req.VariantLabel)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) Decrement(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeLine(w, r)
	if !ok {
		return
	}
	s, ok := h.loadSession(w, r)
	if !ok {
		return
	}
	view, pending, err := s.Decrement(r.Context(), req.ProductID, req.VariantLabel)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeCart(w, view, pending)
}

func (h *Handler) RequestRemoval(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeLine(w, r)
	if !ok {
		return
	}
	s, ok := h.loadSession(w, r)
	if !ok {
		return
	}
	p := s.RequestRemoval(req.ProductID, req.VariantLabel)
	writeCart(w, s.Cart(), &p)
}

func (h *Handler) ConfirmRemoval(w http.ResponseWriter, r *http.Request) {
	s, ok := h.loadSession(w, r)
	if !ok {
		return
	}
	view, err := s.ConfirmRemoval(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) CancelRemoval(w http.ResponseWriter, r *http.Request) {
	s, ok := h.loadSession(w, r)
	if !ok {
		return
	}
	view, err := s.CancelRemoval(chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}
