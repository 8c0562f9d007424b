package web

import (
	"errors"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/shopspring/decimal"

	"github.com/georgemunganga/marketplace-backend/internal/apperr"
	"github.com/georgemunganga/marketplace-backend/internal/httpx"
	"github.com/georgemunganga/marketplace-backend/internal/modules/auth"
	"github.com/georgemunganga/marketplace-backend/internal/modules/cart"
	"github.com/georgemunganga/marketplace-backend/internal/modules/catalog"
	"github.com/georgemunganga/marketplace-backend/internal/modules/inventory"
	"github.com/georgemunganga/marketplace-backend/internal/modules/order"
	"github.com/georgemunganga/marketplace-backend/internal/modules/review"
	"github.com/georgemunganga/marketplace-backend/internal/modules/user"
	"github.com/georgemunganga/marketplace-backend/internal/query"
)

var errPasswordMismatch = apperr.Validation("password_confirm", "passwords do not match")

// Services are the workflows the web endpoints drive.
type Services struct {
	Users     user.Service
	Auth      auth.Service
	Reset     auth.ResetService
	Catalog   catalog.Service
	Inventory inventory.Service
	Orders    order.Service
	Reviews   review.Service
}

// Handler exposes the session-cookie form endpoints.
type Handler struct {
	store sessions.Store
	svc   Services
}

func NewHandler(store sessions.Store, svc Services) *Handler {
	return &Handler{store: store, svc: svc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.Authenticate)

		// Accounts
		r.Post("/register", h.register)
		r.Get("/login", h.showLogin)
		r.Post("/login", h.login)
		r.Get("/logout", h.logout)
		r.Post("/logout", h.logout)
		r.Post("/request-password-reset", h.requestPasswordReset)
		r.Get("/password-reset/{token}", h.showPasswordReset)
		r.Post("/password-reset/{token}", h.passwordReset)

		// Browsing
		r.Get("/", h.home)
		r.Get("/product/{id}", h.productDetail)

		// Cart and checkout
		r.Get("/cart", h.viewCart)
		r.Post("/add-to-cart/{id}", h.addToCart)
		r.Post("/remove-from-cart/{id}", h.removeFromCart)
		r.Post("/checkout", h.checkout)
		r.Get("/order/{id}", h.orderDetail)
		r.Post("/product/{id}/review", h.addReview)

		// Vendor store management
		r.Get("/my-stores", h.myStores)
		r.Post("/create-store", h.createStore)
		r.Post("/edit-store/{id}", h.editStore)
		r.Post("/delete-store/{id}", h.deleteStore)
		r.Post("/store/{id}/add-product", h.addProduct)
		r.Post("/edit-product/{id}", h.editProduct)
		r.Post("/delete-product/{id}", h.deleteProduct)
	})
}

// ── accounts ─────────────────────────────────────────────────────────────────

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	u, err := h.svc.Users.RegisterUser(r.Context(), user.RegisterRequest{
		Username: r.PostFormValue("username"),
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
		Role:     r.PostFormValue("user_type"),
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.signIn(w, r, u)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	u, err := h.svc.Auth.Authenticate(r.Context(), r.PostFormValue("username"), r.PostFormValue("password"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.signIn(w, r, u)
}

// showLogin tells the client where to post credentials, carrying next along.
func (h *Handler) showLogin(w http.ResponseWriter, r *http.Request) {
	action := "/login"
	if next := r.URL.Query().Get("next"); next != "" {
		action += "?next=" + url.QueryEscape(safeNext(next))
	}
	httpx.Respond(w, http.StatusOK, map[string]interface{}{
		"action": action,
		"fields": []string{"username", "password"},
	})
}

func (h *Handler) signIn(w http.ResponseWriter, r *http.Request, u *user.User) {
	s := h.session(r)
	setPrincipal(s, u)
	if !h.save(w, r, s) {
		return
	}
	redirect(w, r, safeNext(r.URL.Query().Get("next")))
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	s := h.session(r)
	s.Values = map[interface{}]interface{}{}
	s.Options.MaxAge = -1
	if !h.save(w, r, s) {
		return
	}
	redirect(w, r, "/login")
}

func (h *Handler) requestPasswordReset(w http.ResponseWriter, r *http.Request) {
	h.svc.Reset.RequestReset(r.Context(), r.PostFormValue("email"))
	redirect(w, r, "/password-reset/sent")
}

func (h *Handler) showPasswordReset(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	if token == "sent" {
		httpx.Respond(w, http.StatusOK, map[string]string{
			"status": "if that email is registered, a reset link is on its way",
		})
		return
	}
	if err := h.svc.Reset.ValidateToken(r.Context(), token); err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusOK, map[string]string{"status": "token valid"})
}

func (h *Handler) passwordReset(w http.ResponseWriter, r *http.Request) {
	password := r.PostFormValue("password")
	if password != r.PostFormValue("password_confirm") {
		h.fail(w, r, errPasswordMismatch)
		return
	}
	if err := h.svc.Reset.CompleteReset(r.Context(), chi.URLParam(r, "token"), password); err != nil {
		h.fail(w, r, err)
		return
	}
	redirect(w, r, "/login")
}

// ── browsing ─────────────────────────────────────────────────────────────────

func (h *Handler) home(w http.ResponseWriter, r *http.Request) {
	params, err := query.Parse(r.URL.Query(), catalog.ListOptions)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	page, err := h.svc.Catalog.ListProducts(r.Context(), params)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusOK, page)
}

func (h *Handler) productDetail(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.UUIDParam(r, "id", "product")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	detail, err := h.svc.Catalog.GetProduct(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	view := struct {
		*catalog.ProductDetail
		HasPurchased bool `json:"has_purchased"`
	}{ProductDetail: detail}
	if p := auth.FromContext(r.Context()); p != nil && p.Role == user.RoleBuyer {
		view.HasPurchased, err = h.svc.Catalog.HasPurchased(r.Context(), p.UserID, id)
		if err != nil {
			h.fail(w, r, err)
			return
		}
	}
	httpx.Respond(w, http.StatusOK, view)
}

// ── cart and checkout ────────────────────────────────────────────────────────

// CartLine is one line of the cart view.
type CartLine struct {
	Product  *inventory.Product `json:"product"`
	Quantity int                `json:"quantity"`
	Subtotal decimal.Decimal    `json:"subtotal"`
}

// CartView is the cart with current prices.
type CartView struct {
	Items []CartLine      `json:"items"`
	Total decimal.Decimal `json:"total"`
}

// viewCart prices the cart at current prices. Products that no longer exist
// are skipped.
func (h *Handler) viewCart(w http.ResponseWriter, r *http.Request) {
	_, c := h.loadCart(r)
	view := CartView{Items: []CartLine{}, Total: decimal.Zero}
	for _, l := range c.Lines() {
		p, err := h.svc.Inventory.GetProduct(r.Context(), l.ProductID)
		if apperr.Is(err, apperr.KindNotFound) {
			continue
		}
		if err != nil {
			h.fail(w, r, err)
			return
		}
		sub := p.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
		view.Items = append(view.Items, CartLine{Product: p, Quantity: l.Quantity, Subtotal: sub})
		view.Total = view.Total.Add(sub)
	}
	httpx.Respond(w, http.StatusOK, view)
}

func (h *Handler) addToCart(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.UUIDParam(r, "id", "product")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	qty := 1
	if raw := r.PostFormValue("quantity"); raw != "" {
		qty, err = strconv.Atoi(raw)
		if err != nil || !order.ValidQuantity(qty) {
			h.fail(w, r, order.ErrInvalidQuantity)
			return
		}
	}
	if _, err := h.svc.Inventory.GetProduct(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	s, c := h.loadCart(r)
	c.Add(id, qty)
	if !order.ValidQuantity(c.Quantity(id)) {
		h.fail(w, r, order.ErrInvalidQuantity)
		return
	}
	cart.Store(s, c)
	if !h.save(w, r, s) {
		return
	}
	redirect(w, r, "/cart")
}

func (h *Handler) removeFromCart(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		redirect(w, r, "/cart")
		return
	}
	s, c := h.loadCart(r)
	c.Remove(id)
	cart.Store(s, c)
	if !h.save(w, r, s) {
		return
	}
	redirect(w, r, "/cart")
}

func (h *Handler) checkout(w http.ResponseWriter, r *http.Request) {
	s, c := h.loadCart(r)
	o, err := h.svc.Orders.Checkout(r.Context(), auth.FromContext(r.Context()), c)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	cart.Store(s, cart.Cart{})
	if !h.save(w, r, s) {
		return
	}
	redirect(w, r, "/order/"+o.ID.String())
}

func (h *Handler) orderDetail(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.UUIDParam(r, "id", "order")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	o, err := h.svc.Orders.GetOrder(r.Context(), auth.FromContext(r.Context()), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusOK, o)
}

func (h *Handler) addReview(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.UUIDParam(r, "id", "product")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	rating, err := strconv.Atoi(r.PostFormValue("rating"))
	if err != nil {
		h.fail(w, r, review.ErrInvalidRating)
		return
	}
	_, err = h.svc.Reviews.AddReview(r.Context(), auth.FromContext(r.Context()), review.CreateRequest{
		ProductID: id,
		Rating:    rating,
		Comment:   r.PostFormValue("comment"),
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	redirect(w, r, "/product/"+id.String())
}

// ── vendor store management ──────────────────────────────────────────────────

func (h *Handler) myStores(w http.ResponseWriter, r *http.Request) {
	stores, err := h.svc.Inventory.MyStores(r.Context(), auth.FromContext(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusOK, stores)
}

func storeForm(r *http.Request) inventory.StoreRequest {
	return inventory.StoreRequest{
		Name:        r.PostFormValue("name"),
		Description: r.PostFormValue("description"),
		LogoURL:     r.PostFormValue("logo_url"),
	}
}

func (h *Handler) createStore(w http.ResponseWriter, r *http.Request) {
	if _, err := h.svc.Inventory.CreateStore(r.Context(), auth.FromContext(r.Context()), storeForm(r)); err != nil {
		h.fail(w, r, err)
		return
	}
	redirect(w, r, "/my-stores")
}

func (h *Handler) editStore(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.UUIDParam(r, "id", "store")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if _, err := h.svc.Inventory.UpdateStore(r.Context(), auth.FromContext(r.Context()), id, storeForm(r).Full()); err != nil {
		h.fail(w, r, err)
		return
	}
	redirect(w, r, "/my-stores")
}

func (h *Handler) deleteStore(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.UUIDParam(r, "id", "store")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.svc.Inventory.DeleteStore(r.Context(), auth.FromContext(r.Context()), id); err != nil {
		h.fail(w, r, err)
		return
	}
	redirect(w, r, "/my-stores")
}

func productForm(r *http.Request) (inventory.ProductRequest, error) {
	req := inventory.ProductRequest{
		Name:        r.PostFormValue("name"),
		Description: r.PostFormValue("description"),
		ImageURL:    r.PostFormValue("image_url"),
	}
	price, err := decimal.NewFromString(strings.TrimSpace(r.PostFormValue("price")))
	if err != nil {
		return req, apperr.Validation("price", "price must be a decimal number")
	}
	stock, err := strconv.Atoi(strings.TrimSpace(r.PostFormValue("stock")))
	if err != nil {
		return req, apperr.Validation("stock", "stock must be a whole number")
	}
	req.Price, req.Stock = price, stock
	return req, nil
}

func (h *Handler) addProduct(w http.ResponseWriter, r *http.Request) {
	storeID, err := httpx.UUIDParam(r, "id", "store")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	req, err := productForm(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if _, err := h.svc.Inventory.CreateProduct(r.Context(), auth.FromContext(r.Context()), storeID, req); err != nil {
		h.fail(w, r, err)
		return
	}
	redirect(w, r, "/my-stores")
}

func (h *Handler) editProduct(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.UUIDParam(r, "id", "product")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	req, err := productForm(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if _, err := h.svc.Inventory.UpdateProduct(r.Context(), auth.FromContext(r.Context()), id, req.Full()); err != nil {
		h.fail(w, r, err)
		return
	}
	redirect(w, r, "/my-stores")
}

func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.UUIDParam(r, "id", "product")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.svc.Inventory.DeleteProduct(r.Context(), auth.FromContext(r.Context()), id); err != nil {
		h.fail(w, r, err)
		return
	}
	redirect(w, r, "/my-stores")
}

// ── helpers ──────────────────────────────────────────────────────────────────

// fail answers a form post. Anonymous callers are sent to the login page;
// everything else gets the error message with its status.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if apperr.Is(err, apperr.KindUnauthenticated) && !errors.Is(err, auth.ErrInvalidCredentials) {
		redirect(w, r, "/login?next="+url.QueryEscape(r.URL.Path))
		return
	}
	status := apperr.Status(err)
	msg, _ := apperr.Body(err)["error"].(string)
	if status >= http.StatusInternalServerError {
		log.Printf("[web] %s %s request_id=%s: %v", r.Method, r.URL.Path, middleware.GetReqID(r.Context()), err)
	}
	http.Error(w, msg, status)
}

func (h *Handler) save(w http.ResponseWriter, r *http.Request, s *sessions.Session) bool {
	if err := s.Save(r, w); err != nil {
		h.fail(w, r, err)
		return false
	}
	return true
}

func redirect(w http.ResponseWriter, r *http.Request, to string) {
	http.Redirect(w, r, to, http.StatusSeeOther)
}

// safeNext keeps post-login redirects on this site. Browsers read a
// backslash as a slash, so "/\host" is as off-site as "//host".
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") ||
		strings.ContainsAny(next, "\\\r\n\t") {
		return "/"
	}
	u, err := url.Parse(next)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return "/"
	}
	return next
}
