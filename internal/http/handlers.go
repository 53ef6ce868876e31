package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/fjod/go_order/internal/domain"
	"github.com/fjod/go_order/internal/payment"
)

// OrderService is the slice of the order core this gateway needs
// Consumers define this interface, not the service implementation
type OrderService interface {
	CreateOrder(ctx context.Context, userID, shippingAddress string, method payment.Method, selectedItemIDs []int64) (*domain.Order, error)
	PayOrder(ctx context.Context, order *domain.Order, details payment.Details) (*domain.Order, error)
	HandlePaymentResult(ctx context.Context, order *domain.Order, succeeded bool) (*domain.Order, error)
	AdvanceOrder(ctx context.Context, id uuid.UUID) (*domain.Order, bool, error)
	CancelOrder(ctx context.Context, id uuid.UUID) (*domain.Order, bool, error)
	GetOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	ListOrdersByUser(ctx context.Context, userID string) ([]*domain.Order, error)
	ListOrdersBetween(ctx context.Context, from, to time.Time) ([]*domain.Order, error)
}

type OrdersHandler struct {
	svc     OrderService
	timeout time.Duration
}

func NewOrdersHandler(svc OrderService, timeout time.Duration) *OrdersHandler {
	return &OrdersHandler{
		svc:     svc,
		timeout: timeout,
	}
}

func (h *OrdersHandler) Register(r chi.Router) {
	r.Post("/api/v1/orders", h.CreateOrder)
	r.Get("/api/v1/orders", h.ListOrdersBetween)
	r.Get("/api/v1/orders/{order_id}", h.GetOrder)
	r.Post("/api/v1/orders/{order_id}/pay", h.PayOrder)
	r.Post("/api/v1/orders/{order_id}/payment-result", h.PaymentResult)
	r.Post("/api/v1/orders/{order_id}/process", h.ProcessOrder)
	r.Post("/api/v1/orders/{order_id}/cancel", h.CancelOrder)
	r.Get("/api/v1/users/{user_id}/orders", h.ListUserOrders)
}

type OrderLineDTO struct {
	ProductID   int64   `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    int32   `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	ImageURL    string  `json:"image_url"`
}

type StatusChangeDTO struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
}

type OrderResponseDTO struct {
	ID                string            `json:"id"`
	UserID            string            `json:"user_id"`
	Items             []OrderLineDTO    `json:"items"`
	TotalAmount       float64           `json:"total_amount"`
	CouponCode        string            `json:"coupon_code,omitempty"`
	CouponDiscount    float64           `json:"coupon_discount"`
	LoyaltyPointsUsed int               `json:"loyalty_points_used"`
	LoyaltyDiscount   float64           `json:"loyalty_points_discount"`
	FinalAmount       float64           `json:"final_amount"`
	LoyaltyEarned     int               `json:"loyalty_points_earned"`
	Status            string            `json:"status"`
	PaymentMethod     string            `json:"payment_method"`
	ShippingAddress   string            `json:"shipping_address"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
	StatusHistory     []StatusChangeDTO `json:"status_history"`
}

func convertOrder(o *domain.Order) OrderResponseDTO {
	items := make([]OrderLineDTO, 0, len(o.Lines))
	for _, l := range o.Lines {
		items = append(items, OrderLineDTO{
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			ImageURL:    l.ImageURL,
		})
	}

	history := make([]StatusChangeDTO, 0, len(o.History))
	for _, c := range o.History {
		history = append(history, StatusChangeDTO{
			Status:    c.Status.String(),
			Timestamp: c.Timestamp,
			Message:   c.Message,
		})
	}

	return OrderResponseDTO{
		ID:                o.ID.String(),
		UserID:            o.UserID,
		Items:             items,
		TotalAmount:       o.TotalAmount,
		CouponCode:        o.CouponCode,
		CouponDiscount:    o.CouponDiscount,
		LoyaltyPointsUsed: o.LoyaltyPointsUsed,
		LoyaltyDiscount:   o.LoyaltyDiscount,
		FinalAmount:       o.FinalAmount(),
		LoyaltyEarned:     o.LoyaltyPointsEarned(),
		Status:            o.Status.String(),
		PaymentMethod:     o.PaymentMethod,
		ShippingAddress:   o.ShippingAddress,
		CreatedAt:         o.CreatedAt,
		UpdatedAt:         o.UpdatedAt,
		StatusHistory:     history,
	}
}

type CreateOrderRequest struct {
	UserID          string  `json:"user_id"`
	ShippingAddress string  `json:"shipping_address"`
	PaymentMethod   string  `json:"payment_method"`
	SelectedItemIDs []int64 `json:"selected_item_ids,omitempty"`
}

// POST /api/v1/orders
func (h *OrdersHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_body", "could not parse request body")
		return
	}
	if req.UserID == "" || req.ShippingAddress == "" || req.PaymentMethod == "" {
		respondError(w, http.StatusBadRequest, "missing_fields", "user_id, shipping_address and payment_method are required")
		return
	}

	order, err := h.svc.CreateOrder(ctx, req.UserID, req.ShippingAddress,
		payment.Method(req.PaymentMethod), req.SelectedItemIDs)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, convertOrder(order))
}

type PayOrderRequest struct {
	Details map[string]string `json:"details"`
}

// POST /api/v1/orders/{order_id}/pay
func (h *OrdersHandler) PayOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	order, ok := h.loadOrder(ctx, w, r)
	if !ok {
		return
	}

	var req PayOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_body", "could not parse request body")
		return
	}

	updated, err := h.svc.PayOrder(ctx, order, payment.Details(req.Details))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, convertOrder(updated))
}

type PaymentResultRequest struct {
	Succeeded bool `json:"succeeded"`
}

// POST /api/v1/orders/{order_id}/payment-result
func (h *OrdersHandler) PaymentResult(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	order, ok := h.loadOrder(ctx, w, r)
	if !ok {
		return
	}

	var req PaymentResultRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_body", "could not parse request body")
		return
	}

	updated, err := h.svc.HandlePaymentResult(ctx, order, req.Succeeded)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, convertOrder(updated))
}

// POST /api/v1/orders/{order_id}/process
func (h *OrdersHandler) ProcessOrder(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.svc.AdvanceOrder)
}

// POST /api/v1/orders/{order_id}/cancel
func (h *OrdersHandler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.svc.CancelOrder)
}

func (h *OrdersHandler) transition(
	w http.ResponseWriter,
	r *http.Request,
	op func(ctx context.Context, id uuid.UUID) (*domain.Order, bool, error),
) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id, ok := orderID(w, r)
	if !ok {
		return
	}

	order, transitioned, err := op(ctx, id)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if !transitioned {
		respondError(w, http.StatusConflict, "illegal_transition",
			"operation is not allowed from status "+order.Status.String())
		return
	}

	respondJSON(w, http.StatusOK, convertOrder(order))
}

// GET /api/v1/orders/{order_id}
func (h *OrdersHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	order, ok := h.loadOrder(ctx, w, r)
	if !ok {
		return
	}

	respondJSON(w, http.StatusOK, convertOrder(order))
}

// GET /api/v1/users/{user_id}/orders
func (h *OrdersHandler) ListUserOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := chi.URLParam(r, "user_id")
	if userID == "" {
		respondError(w, http.StatusBadRequest, "missing_user_id", "user_id is required")
		return
	}

	orders, err := h.svc.ListOrdersByUser(ctx, userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, convertOrders(orders))
}

// GET /api/v1/orders?from=...&to=... (RFC 3339)
func (h *OrdersHandler) ListOrdersBetween(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	from, err := time.Parse(time.RFC3339, r.URL.Query().Get("from"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_from", "from must be RFC 3339")
		return
	}
	to, err := time.Parse(time.RFC3339, r.URL.Query().Get("to"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_to", "to must be RFC 3339")
		return
	}

	orders, err := h.svc.ListOrdersBetween(ctx, from, to)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, convertOrders(orders))
}

func convertOrders(orders []*domain.Order) []OrderResponseDTO {
	dtos := make([]OrderResponseDTO, 0, len(orders))
	for _, o := range orders {
		dtos = append(dtos, convertOrder(o))
	}
	return dtos
}

func orderID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := chi.URLParam(r, "order_id")
	id, err := uuid.Parse(raw)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_order_id", "order_id must be a uuid")
		return uuid.Nil, false
	}
	return id, true
}

func (h *OrdersHandler) loadOrder(ctx context.Context, w http.ResponseWriter, r *http.Request) (*domain.Order, bool) {
	id, ok := orderID(w, r)
	if !ok {
		return nil, false
	}

	order, err := h.svc.GetOrder(ctx, id)
	if err != nil {
		handleServiceError(w, err)
		return nil, false
	}
	return order, true
}
