package pos

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/mebelpos/mebelpos/internal/auth"
	"github.com/mebelpos/mebelpos/internal/catalog"
	"github.com/mebelpos/mebelpos/internal/platform/httpx"
	"github.com/mebelpos/mebelpos/internal/pos/cart"
)

// Handler exposes the terminal endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes registers terminal routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/cart", h.showCart)
	r.Post("/cart/items", h.addItem)
	r.Patch("/cart/items/{productID}", h.setQuantity)
	r.Delete("/cart/items/{productID}", h.removeLine)
	r.Post("/cart/items/{productID}/markup", h.setMarkup)
	r.Post("/cart/items/{productID}/split", h.applySplit)
	r.Post("/cart/items/{productID}/split/channel", h.editChannel)
	r.Post("/cart/customer", h.attachCustomer)
	r.Delete("/cart/customer", h.detachCustomer)
	r.Post("/cart/reset", h.resetCart)
	r.Post("/checkout", h.checkout)
}

func (h *Handler) showCart(w http.ResponseWriter, r *http.Request) {
	cashierID, ok := h.cashierID(w, r)
	if !ok {
		return
	}
	view, err := h.service.Cart(r.Context(), cashierID)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, view)
}

func (h *Handler) addItem(w http.ResponseWriter, r *http.Request) {
	cashierID, ok := h.cashierID(w, r)
	if !ok {
		return
	}
	var req AddItemRequest
	if !h.decode(w, r, &req) {
		return
	}
	view, err := h.service.AddItem(r.Context(), cashierID, req)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, view)
}

func (h *Handler) setQuantity(w http.ResponseWriter, r *http.Request) {
	cashierID, productID, ok := h.lineTarget(w, r)
	if !ok {
		return
	}
	var req SetQuantityRequest
	if !h.decode(w, r, &req) {
		return
	}
	view, err := h.service.SetQuantity(r.Context(), cashierID, productID, req.Quantity)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, view)
}

func (h *Handler) removeLine(w http.ResponseWriter, r *http.Request) {
	cashierID, productID, ok := h.lineTarget(w, r)
	if !ok {
		return
	}
	view, err := h.service.RemoveLine(r.Context(), cashierID, productID)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, view)
}

func (h *Handler) setMarkup(w http.ResponseWriter, r *http.Request) {
	cashierID, productID, ok := h.lineTarget(w, r)
	if !ok {
		return
	}
	var req MarkupRequest
	if !h.decode(w, r, &req) {
		return
	}
	view, err := h.service.SetCustomMarkup(r.Context(), cashierID, productID, req.Percent)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, view)
}

func (h *Handler) applySplit(w http.ResponseWriter, r *http.Request) {
	cashierID, productID, ok := h.lineTarget(w, r)
	if !ok {
		return
	}
	var req SplitRequest
	if !h.decode(w, r, &req) {
		return
	}
	view, result, err := h.service.ApplyLineSplit(r.Context(), cashierID, productID, req.Split())
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"cart": view, "settlement": result})
}

func (h *Handler) editChannel(w http.ResponseWriter, r *http.Request) {
	cashierID, productID, ok := h.lineTarget(w, r)
	if !ok {
		return
	}
	var req ChannelEditRequest
	if !h.decode(w, r, &req) {
		return
	}
	view, result, err := h.service.EditChannel(r.Context(), cashierID, productID, req)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"cart": view, "settlement": result})
}

func (h *Handler) attachCustomer(w http.ResponseWriter, r *http.Request) {
	cashierID, ok := h.cashierID(w, r)
	if !ok {
		return
	}
	var req AttachCustomerRequest
	if !h.decode(w, r, &req) {
		return
	}
	view, err := h.service.AttachCustomer(r.Context(), cashierID, req.CustomerID)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, view)
}

func (h *Handler) detachCustomer(w http.ResponseWriter, r *http.Request) {
	cashierID, ok := h.cashierID(w, r)
	if !ok {
		return
	}
	view, err := h.service.DetachCustomer(r.Context(), cashierID)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, view)
}

func (h *Handler) resetCart(w http.ResponseWriter, r *http.Request) {
	cashierID, ok := h.cashierID(w, r)
	if !ok {
		return
	}
	view, err := h.service.ResetCart(r.Context(), cashierID)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, view)
}

func (h *Handler) checkout(w http.ResponseWriter, r *http.Request) {
	cashierID, ok := h.cashierID(w, r)
	if !ok {
		return
	}
	result, err := h.service.Checkout(r.Context(), cashierID)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, result)
}

func (h *Handler) cashierID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	claims := auth.ClaimsFromContext(r.Context())
	if claims == nil {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "missing bearer token")
		return 0, false
	}
	return claims.UserID, true
}

func (h *Handler) lineTarget(w http.ResponseWriter, r *http.Request) (cashierID, productID int64, ok bool) {
	cashierID, ok = h.cashierID(w, r)
	if !ok {
		return 0, 0, false
	}
	productID, err := strconv.ParseInt(chi.URLParam(r, "productID"), 10, 64)
	if err != nil || productID <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid product id")
		return 0, 0, false
	}
	return cashierID, productID, true
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, target any) bool {
	if err := httpx.DecodeJSON(r, target); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request body")
		return false
	}
	if err := h.validate.Struct(target); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return false
	}
	return true
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, cart.ErrEmpty):
		httpx.Problem(w, http.StatusUnprocessableEntity, "Unprocessable", "cart is empty")
	case errors.Is(err, cart.ErrLineNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", "no such line in the cart")
	case errors.Is(err, cart.ErrStockExceeded):
		httpx.Problem(w, http.StatusConflict, "Conflict", "requested quantity exceeds stock")
	case errors.Is(err, cart.ErrOverpaid), errors.Is(err, ErrCheckoutBlocked):
		httpx.Problem(w, http.StatusConflict, "Conflict", "declared payment exceeds the total")
	case errors.Is(err, catalog.ErrNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", "product not found")
	default:
		h.logger.Error("pos request failed", slog.Any("error", err))
		httpx.RespondError(w, err)
	}
}
