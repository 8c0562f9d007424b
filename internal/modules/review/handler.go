package review

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/georgemunganga/marketplace-backend/internal/httpx"
	"github.com/georgemunganga/marketplace-backend/internal/modules/auth"
	"github.com/georgemunganga/marketplace-backend/internal/query"
)

// Handler exposes review HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/api/v1/reviews", h.listReviews)
	r.Post("/api/v1/reviews", h.createReview)
	r.Get("/api/v1/reviews/{id}", h.getReview)
	r.Put("/api/v1/reviews/{id}", h.updateReview)
	r.Patch("/api/v1/reviews/{id}", h.updateReview)
	r.Delete("/api/v1/reviews/{id}", h.deleteReview)
	r.Get("/api/v1/products/{id}/reviews", h.listProductReviews)
}

func (h *Handler) listReviews(w http.ResponseWriter, r *http.Request) {
	params, err := query.Parse(r.URL.Query(), ListOptions)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	page, err := h.service.ListReviews(r.Context(), params)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusOK, page)
}

func (h *Handler) createReview(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := httpx.Decode(w, r, &req); err != nil {
		httpx.Error(w, r, err)
		return
	}
	rv, err := h.service.AddReview(r.Context(), auth.FromContext(r.Context()), req)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusCreated, rv)
}

func (h *Handler) getReview(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.UUIDParam(r, "id", "review")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	rv, err := h.service.GetReview(r.Context(), id)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusOK, rv)
}

// updateReview serves PUT and PATCH alike; both accept rating and comment.
func (h *Handler) updateReview(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.UUIDParam(r, "id", "review")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	var upd Update
	if err := httpx.Decode(w, r, &upd); err != nil {
		httpx.Error(w, r, err)
		return
	}
	rv, err := h.service.UpdateReview(r.Context(), auth.FromContext(r.Context()), id, upd)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusOK, rv)
}

func (h *Handler) deleteReview(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.UUIDParam(r, "id", "review")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	if err := h.service.DeleteReview(r.Context(), auth.FromContext(r.Context()), id); err != nil {
		httpx.Error(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listProductReviews(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.UUIDParam(r, "id", "product")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	reviews, err := h.service.ListProductReviews(r.Context(), id)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusOK, reviews)
}
