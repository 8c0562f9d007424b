package inventory

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/georgemunganga/marketplace-backend/internal/apperr"
	"github.com/georgemunganga/marketplace-backend/internal/httpx"
	"github.com/georgemunganga/marketplace-backend/internal/modules/auth"
	"github.com/georgemunganga/marketplace-backend/internal/query"
)

// Handler exposes inventory HTTP endpoints. Public product reads live in the
// catalog module.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r chi.Router) {
	// Store endpoints
	r.Get("/api/v1/stores", h.listStores)
	r.Post("/api/v1/stores", h.createStore)
	r.Get("/api/v1/stores/{id}", h.getStore)
	r.Put("/api/v1/stores/{id}", h.replaceStore)
	r.Patch("/api/v1/stores/{id}", h.patchStore)
	r.Delete("/api/v1/stores/{id}", h.deleteStore)

	// Product endpoints
	r.Post("/api/v1/stores/{id}/products", h.createStoreProduct)
	r.Post("/api/v1/products", h.createProduct)
	r.Put("/api/v1/products/{id}", h.replaceProduct)
	r.Patch("/api/v1/products/{id}", h.patchProduct)
	r.Delete("/api/v1/products/{id}", h.deleteProduct)
}

func (h *Handler) listStores(w http.ResponseWriter, r *http.Request) {
	params, err := query.Parse(r.URL.Query(), StoreListOptions)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	page, err := h.service.ListStores(r.Context(), params)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusOK, page)
}

func (h *Handler) createStore(w http.ResponseWriter, r *http.Request) {
	var req StoreRequest
	if err := httpx.Decode(w, r, &req); err != nil {
		httpx.Error(w, r, err)
		return
	}
	store, err := h.service.CreateStore(r.Context(), auth.FromContext(r.Context()), req)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusCreated, store)
}

func (h *Handler) getStore(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.UUIDParam(r, "id", "store")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	store, err := h.service.GetStore(r.Context(), id)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusOK, store)
}

func (h *Handler) replaceStore(w http.ResponseWriter, r *http.Request) {
	var req StoreRequest
	if err := httpx.Decode(w, r, &req); err != nil {
		httpx.Error(w, r, err)
		return
	}
	h.updateStore(w, r, req.Full())
}

func (h *Handler) patchStore(w http.ResponseWriter, r *http.Request) {
	var upd StoreUpdate
	if err := httpx.Decode(w, r, &upd); err != nil {
		httpx.Error(w, r, err)
		return
	}
	h.updateStore(w, r, upd)
}

func (h *Handler) updateStore(w http.ResponseWriter, r *http.Request, upd StoreUpdate) {
	id, err := httpx.UUIDParam(r, "id", "store")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	store, err := h.service.UpdateStore(r.Context(), auth.FromContext(r.Context()), id, upd)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusOK, store)
}

func (h *Handler) deleteStore(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.UUIDParam(r, "id", "store")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	if err := h.service.DeleteStore(r.Context(), auth.FromContext(r.Context()), id); err != nil {
		httpx.Error(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) createStoreProduct(w http.ResponseWriter, r *http.Request) {
	storeID, err := httpx.UUIDParam(r, "id", "store")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	var req ProductRequest
	if err := httpx.Decode(w, r, &req); err != nil {
		httpx.Error(w, r, err)
		return
	}
	h.addProduct(w, r, storeID, req)
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := httpx.Decode(w, r, &req); err != nil {
		httpx.Error(w, r, err)
		return
	}
	if req.StoreID == uuid.Nil {
		httpx.Error(w, r, apperr.Validation("store_id", "store_id is required"))
		return
	}
	h.addProduct(w, r, req.StoreID, req)
}

func (h *Handler) addProduct(w http.ResponseWriter, r *http.Request, storeID uuid.UUID, req ProductRequest) {
	product, err := h.service.CreateProduct(r.Context(), auth.FromContext(r.Context()), storeID, req)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusCreated, product)
}

func (h *Handler) replaceProduct(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := httpx.Decode(w, r, &req); err != nil {
		httpx.Error(w, r, err)
		return
	}
	h.updateProduct(w, r, req.Full())
}

func (h *Handler) patchProduct(w http.ResponseWriter, r *http.Request) {
	var upd ProductUpdate
	if err := httpx.Decode(w, r, &upd); err != nil {
		httpx.Error(w, r, err)
		return
	}
	h.updateProduct(w, r, upd)
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request, upd ProductUpdate) {
	id, err := httpx.UUIDParam(r, "id", "product")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	product, err := h.service.UpdateProduct(r.Context(), auth.FromContext(r.Context()), id, upd)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusOK, product)
}

func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.UUIDParam(r, "id", "product")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	if err := h.service.DeleteProduct(r.Context(), auth.FromContext(r.Context()), id); err != nil {
		httpx.Error(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
