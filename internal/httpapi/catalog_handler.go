package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/catalog"
)

type productResponse struct {
	catalog.Product
	Image     string `json:"image"`
	Available bool   `json:"available"`
}

func toProductResponse(p catalog.Product) productResponse {
	return productResponse{Product: p, Image: catalog.ImageFor(p), Available: p.Orderable()}
}

func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.Products(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	category := catalog.Category(r.URL.Query().Get("category"))
	out := make([]productResponse, 0, len(products))
	for _, p := range products {
		if category != "" && p.Category != category {
			continue
		}
		out = append(out, toProductResponse(p))
	}
	writeJSON(w, http.StatusOK, out)
}

// GetProduct answers 200 even for unknown ids; the placeholder has available=false.
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.catalog.Product(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductResponse(p))
}

func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	records, err := h.catalog.Categories(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

type sectionResponse struct {
	Category catalog.CategoryRecord `json:"category"`
	Products []productResponse      `json:"products"`
}

func (h *Handler) MenuSections(w http.ResponseWriter, r *http.Request) {
	sections, err := h.catalog.Sections(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	out := make([]sectionResponse, 0, len(sections))
	for _, s := range sections {
		products := make([]productResponse, 0, len(s.Products))
		for _, p := range s.Products {
			products = append(products, toProductResponse(p))
		}
		out = append(out, sectionResponse{Category: s.Category, Products: products})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) SaveProducts(w http.ResponseWriter, r *http.Request) {
	var products []catalog.Product
	if err := decodeJSON(w, r, &products); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.catalog.SaveProducts(r.Context(), products); err != nil {
		h.fail(w, r, err)
		return
	}
	h.ListProducts(w, r)
}

func (h *Handler) SaveCategories(w http.ResponseWriter, r *http.Request) {
	var records []catalog.CategoryRecord
	if err := decodeJSON(w, r, &records); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.catalog.SaveCategories(r.Context(), records); err != nil {
		h.fail(w, r, err)
		return
	}
	h.ListCategories(w, r)
}

func (h *Handler) ResetCatalog(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.Reset(r.Context()); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
