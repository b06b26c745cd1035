package httpapi

import (
	"net/http"

	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/settings"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	u, err := h.settings.Login(r.Context(), sessionID(r.Context()), req.Username, req.Password)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.settings.Logout(r.Context(), sessionID(r.Context())); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	u, err := h.settings.Current(r.Context(), sessionID(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

type storeNameBody struct {
	StoreName string `json:"storeName"`
}

func (h *Handler) GetStoreName(w http.ResponseWriter, r *http.Request) {
	name, err := h.settings.StoreName(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, storeNameBody{StoreName: name})
}

func (h *Handler) SetStoreName(w http.ResponseWriter, r *http.Request) {
	var req storeNameBody
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.settings.SetStoreName(r.Context(), req.StoreName); err != nil {
		h.fail(w, r, err)
		return
	}
	h.GetStoreName(w, r)
}

func (h *Handler) GetBusinessInfo(w http.ResponseWriter, r *http.Request) {
	info, err := h.settings.BusinessInfo(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (h *Handler) SetBusinessInfo(w http.ResponseWriter, r *http.Request) {
	var info settings.BusinessInfo
	if err := decodeJSON(w, r, &info); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.settings.SetBusinessInfo(r.Context(), info); err != nil {
		h.fail(w, r, err)
		return
	}
	h.GetBusinessInfo(w, r)
}

func (h *Handler) GetThemeColors(w http.ResponseWriter, r *http.Request) {
	colors, err := h.settings.ThemeColors(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, colors)
}

func (h *Handler) SetThemeColors(w http.ResponseWriter, r *http.Request) {
	var colors settings.ThemeColors
	if err := decodeJSON(w, r, &colors); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.settings.SetThemeColors(r.Context(), colors); err != nil {
		h.fail(w, r, err)
		return
	}
	h.GetThemeColors(w, r)
}

type panelBody struct {
	Show bool `json:"show"`
}

func (h *Handler) GetAdminPanel(w http.ResponseWriter, r *http.Request) {
	show, err := h.settings.AdminPanel(r.Context(), sessionID(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, panelBody{Show: show})
}

func (h *Handler) SetAdminPanel(w http.ResponseWriter, r *http.Request) {
	var req panelBody
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.settings.SetAdminPanel(r.Context(), sessionID(r.Context()), req.Show); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}
