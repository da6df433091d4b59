package customers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/mytheresa/go-shop-orders/app/api"
	"github.com/mytheresa/go-shop-orders/models"
	"github.com/rs/zerolog/log"
)

type CustomerResponse struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type CustomerProvider interface {
	GetAllCustomers(ctx context.Context) ([]models.Customer, error)
	CreateCustomer(ctx context.Context, customer *models.Customer) error
}

type CustomerHandler struct {
	repo CustomerProvider
}

func NewCustomerHandler(r CustomerProvider) *CustomerHandler {
	return &CustomerHandler{repo: r}
}

func toResponse(c models.Customer) CustomerResponse {
	return CustomerResponse{
		ID:        c.ID,
		Username:  c.Username,
		Email:     c.Email,
		CreatedAt: c.CreatedAt,
	}
}

func (h *CustomerHandler) HandleGetAll(w http.ResponseWriter, r *http.Request) {
	customers, err := h.repo.GetAllCustomers(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("failed to fetch customers")
		api.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch customers")
		return
	}

	response := make([]CustomerResponse, len(customers))
	for i, c := range customers {
		response[i] = toResponse(c)
	}
	api.RespondWithJSON(w, http.StatusOK, response)
}

func (h *CustomerHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Username string `json:"username"`
		Email    string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		api.RespondWithError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	input.Username = strings.TrimSpace(input.Username)
	if input.Username == "" {
		api.RespondWithError(w, http.StatusBadRequest, "Missing username")
		return
	}

	customer := &models.Customer{
		Username: input.Username,
		Email:    strings.TrimSpace(input.Email),
	}
	if err := h.repo.CreateCustomer(r.Context(), customer); err != nil {
		api.RespondWithModelError(w, err, "Failed to create customer")
		return
	}

	api.RespondWithJSON(w, http.StatusCreated, toResponse(*customer))
}
