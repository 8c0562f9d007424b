package order

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/georgemunganga/marketplace-backend/internal/httpx"
	"github.com/georgemunganga/marketplace-backend/internal/modules/auth"
)

// Handler exposes checkout and order HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/api/v1/checkout", h.checkout) // POST /api/v1/checkout
	r.Route("/api/v1/orders", func(r chi.Router) {
		r.Get("/", h.listOrders)    // GET  /api/v1/orders
		r.Get("/{id}", h.getOrder) // GET  /api/v1/orders/{id}
	})
}

func (h *Handler) checkout(w http.ResponseWriter, r *http.Request) {
	var req CheckoutRequest
	if err := httpx.Decode(w, r, &req); err != nil {
		httpx.Error(w, r, err)
		return
	}
	o, err := h.service.CheckoutItems(r.Context(), auth.FromContext(r.Context()), req.Items)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusCreated, o)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.UUIDParam(r, "id", "order")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	o, err := h.service.GetOrder(r.Context(), auth.FromContext(r.Context()), id)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusOK, o)
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.ListOrders(r.Context(), auth.FromContext(r.Context()))
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusOK, orders)
}
