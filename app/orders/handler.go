package orders

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/mytheresa/go-shop-orders/app/api"
	"github.com/mytheresa/go-shop-orders/models"
	"github.com/rs/zerolog/log"
)

type ItemResponse struct {
	ID        uint    `json:"id"`
	ProductID uint    `json:"product_id"`
	Title     string  `json:"title"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Subtotal  float64 `json:"subtotal"`
}

type OrderResponse struct {
	ID          uint           `json:"id"`
	CustomerID  uint           `json:"customer_id"`
	Customer    string         `json:"customer,omitempty"`
	Status      string         `json:"status"`
	StatusLabel string         `json:"status_label"`
	Total       float64        `json:"total"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	Items       []ItemResponse `json:"items"`
}

type StatusResponse struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type ItemInput struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

type OrderInput struct {
	CustomerID uint               `json:"customer_id"`
	Status     models.OrderStatus `json:"status"`
	Items      []ItemInput        `json:"items"`
}

type OrderProvider interface {
	ListOrders(ctx context.Context, filters models.OrderFilters) ([]models.Order, error)
	GetByID(ctx context.Context, id uint) (*models.Order, error)
	CreateOrder(ctx context.Context, order *models.Order, items []models.Mapping) (*models.Order, error)
	UpdateStatus(ctx context.Context, id uint, status models.OrderStatus) (*models.Order, error)
	DeleteOrder(ctx context.Context, id uint) error
	AddItem(ctx context.Context, orderID, productID uint, quantity int) (*models.Mapping, error)
	UpdateItemQuantity(ctx context.Context, orderID, itemID uint, quantity int) (*models.Mapping, error)
	RemoveItem(ctx context.Context, orderID, itemID uint) error
}

type OrderHandler struct {
	repo OrderProvider
}

func NewOrderHandler(r OrderProvider) *OrderHandler {
	return &OrderHandler{repo: r}
}

func toResponse(o models.Order) OrderResponse {
	resp := OrderResponse{
		ID:          o.ID,
		CustomerID:  o.CustomerID,
		Status:      o.Status.String(),
		StatusLabel: o.Status.Label(),
		Total:       o.Total.InexactFloat64(),
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
		Items:       make([]ItemResponse, 0, len(o.Mappings)),
	}
	if o.Customer != nil {
		resp.Customer = o.Customer.String()
	}
	for _, m := range o.Mappings {
		item := ItemResponse{
			ID:        m.ID,
			ProductID: m.ProductID,
			Quantity:  m.Quantity,
			Subtotal:  m.Subtotal().InexactFloat64(),
		}
		if m.Product != nil {
			item.Title = m.Product.Title
			item.UnitPrice = m.Product.DiscountedPrice.InexactFloat64()
		}
		resp.Items = append(resp.Items, item)
	}
	return resp
}

// HandleStatuses lists the order statuses with their labels.
func (h *OrderHandler) HandleStatuses(w http.ResponseWriter, r *http.Request) {
	statuses := make([]StatusResponse, len(models.StatusChoices))
	for i, c := range models.StatusChoices {
		statuses[i] = StatusResponse{Value: c.Value.String(), Label: c.Label}
	}
	api.RespondWithJSON(w, http.StatusOK, statuses)
}

func (h *OrderHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	var filters models.OrderFilters

	if cStr := r.URL.Query().Get("customer_id"); cStr != "" {
		c, err := strconv.ParseUint(cStr, 10, 64)
		if err != nil {
			api.RespondWithError(w, http.StatusBadRequest, "Invalid customer_id")
			return
		}
		id := uint(c)
		filters.CustomerID = &id
	}

	if sStr := r.URL.Query().Get("status"); sStr != "" {
		status := models.OrderStatus(sStr)
		if !status.Valid() {
			api.RespondWithError(w, http.StatusBadRequest, "Invalid status")
			return
		}
		filters.Status = status
	}

	orders, err := h.repo.ListOrders(r.Context(), filters)
	if err != nil {
		log.Error().Err(err).Msg("failed to fetch orders")
		api.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch orders")
		return
	}

	response := make([]OrderResponse, len(orders))
	for i, o := range orders {
		response[i] = toResponse(o)
	}
	api.RespondWithJSON(w, http.StatusOK, response)
}

func (h *OrderHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := orderID(w, r)
	if !ok {
		return
	}

	order, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		api.RespondWithModelError(w, err, "Failed to retrieve order")
		return
	}
	api.RespondWithJSON(w, http.StatusOK, toResponse(*order))
}

func (h *OrderHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var input OrderInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		api.RespondWithError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if input.CustomerID == 0 {
		api.RespondWithError(w, http.StatusBadRequest, "Missing customer_id")
		return
	}

	items := make([]models.Mapping, 0, len(input.Items))
	for _, it := range input.Items {
		if it.ProductID == 0 {
			api.RespondWithError(w, http.StatusBadRequest, "Missing product_id")
			return
		}
		items = append(items, models.Mapping{ProductID: it.ProductID, Quantity: it.Quantity})
	}

	order, err := h.repo.CreateOrder(r.Context(), &models.Order{
		CustomerID: input.CustomerID,
		Status:     input.Status,
	}, items)
	if err != nil {
		api.RespondWithModelError(w, err, "Failed to create order")
		return
	}

	log.Info().Uint("order_id", order.ID).Str("total", order.Total.StringFixed(2)).Msg("order created")
	api.RespondWithJSON(w, http.StatusCreated, toResponse(*order))
}

func (h *OrderHandler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := orderID(w, r)
	if !ok {
		return
	}

	var input struct {
		Status models.OrderStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		api.RespondWithError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if !input.Status.Valid() {
		api.RespondWithError(w, http.StatusUnprocessableEntity, "Invalid status")
		return
	}

	order, err := h.repo.UpdateStatus(r.Context(), id, input.Status)
	if err != nil {
		api.RespondWithModelError(w, err, "Failed to update order status")
		return
	}
	api.RespondWithJSON(w, http.StatusOK, toResponse(*order))
}

func (h *OrderHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := orderID(w, r)
	if !ok {
		return
	}

	if err := h.repo.DeleteOrder(r.Context(), id); err != nil {
		api.RespondWithModelError(w, err, "Failed to delete order")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleAddItem adds a line item and responds with the refreshed order.
func (h *OrderHandler) HandleAddItem(w http.ResponseWriter, r *http.Request) {
	id, ok := orderID(w, r)
	if !ok {
		return
	}

	var input ItemInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		api.RespondWithError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if input.ProductID == 0 {
		api.RespondWithError(w, http.StatusBadRequest, "Missing product_id")
		return
	}

	if _, err := h.repo.AddItem(r.Context(), id, input.ProductID, input.Quantity); err != nil {
		api.RespondWithModelError(w, err, "Failed to add order item")
		return
	}
	h.respondOrder(w, r, id, http.StatusCreated)
}

func (h *OrderHandler) HandleUpdateItem(w http.ResponseWriter, r *http.Request) {
	id, itemID, ok := itemPath(w, r)
	if !ok {
		return
	}

	var input struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		api.RespondWithError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	if _, err := h.repo.UpdateItemQuantity(r.Context(), id, itemID, input.Quantity); err != nil {
		api.RespondWithModelError(w, err, "Failed to update order item")
		return
	}
	h.respondOrder(w, r, id, http.StatusOK)
}

func (h *OrderHandler) HandleRemoveItem(w http.ResponseWriter, r *http.Request) {
	id, itemID, ok := itemPath(w, r)
	if !ok {
		return
	}

	if err := h.repo.RemoveItem(r.Context(), id, itemID); err != nil {
		api.RespondWithModelError(w, err, "Failed to remove order item")
		return
	}
	h.respondOrder(w, r, id, http.StatusOK)
}

func (h *OrderHandler) respondOrder(w http.ResponseWriter, r *http.Request, id uint, code int) {
	order, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		api.RespondWithModelError(w, err, "Failed to retrieve order")
		return
	}
	api.RespondWithJSON(w, code, toResponse(*order))
}

func orderID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	id, ok := api.PathID(r, "id")
	if !ok {
		api.RespondWithError(w, http.StatusBadRequest, "Invalid order id")
	}
	return id, ok
}

func itemPath(w http.ResponseWriter, r *http.Request) (uint, uint, bool) {
	id, ok := orderID(w, r)
	if !ok {
		return 0, 0, false
	}
	itemID, ok := api.PathID(r, "itemID")
	if !ok {
		api.RespondWithError(w, http.StatusBadRequest, "Invalid item id")
		return 0, 0, false
	}
	return id, itemID, true
}
