package catalog

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/georgemunganga/marketplace-backend/internal/httpx"
	"github.com/georgemunganga/marketplace-backend/internal/query"
)

// Handler exposes catalog HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/api/v1/products", h.listProducts)
	r.Get("/api/v1/products/{id}", h.getProduct)
	r.Get("/api/v1/stores/{id}/products", h.listStoreProducts)
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	params, err := query.Parse(r.URL.Query(), ListOptions)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	page, err := h.service.ListProducts(r.Context(), params)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusOK, page)
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.UUIDParam(r, "id", "product")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	p, err := h.service.GetProduct(r.Context(), id)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusOK, p)
}

func (h *Handler) listStoreProducts(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.UUIDParam(r, "id", "store")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	products, err := h.service.ListStoreProducts(r.Context(), id)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusOK, products)
}
