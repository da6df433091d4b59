package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/mytheresa/go-shop-orders/app/api"
	"github.com/mytheresa/go-shop-orders/models"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

type Response struct {
	Total    int       `json:"total"`
	Products []Product `json:"products"`
}

type Category struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
}

type Product struct {
	ID              uint      `json:"id"`
	Title           string    `json:"title"`
	Description     *string   `json:"description"`
	PrimaryImage    *string   `json:"primary_image"`
	OriginalPrice   float64   `json:"original_price"`
	DiscountedPrice float64   `json:"discounted_price"`
	Category        *Category `json:"category"`
}

// ProductInput is the body of create and update requests. Prices accept
// JSON numbers or strings.
type ProductInput struct {
	Title           string          `json:"title"`
	Description     *string         `json:"description"`
	OriginalPrice   decimal.Decimal `json:"original_price"`
	DiscountedPrice decimal.Decimal `json:"discounted_price"`
	CategoryID      *uint           `json:"category_id"`
}

type ProductProvider interface {
	GetFilteredProducts(ctx context.Context, offset, limit int, filters models.ProductFilters) ([]models.Product, int64, error)
	GetByID(ctx context.Context, id uint) (*models.Product, error)
	CreateProduct(ctx context.Context, product *models.Product) error
	UpdateProduct(ctx context.Context, product *models.Product) error
	SetPrimaryImage(ctx context.Context, id uint, path string) (*string, error)
	DeleteProduct(ctx context.Context, id uint) error
}

// ImageStore persists uploaded images.
type ImageStore interface {
	SaveUpload(w http.ResponseWriter, r *http.Request, field string) (string, error)
	Remove(path string) error
}

type CatalogHandler struct {
	repo   ProductProvider
	images ImageStore
}

func NewCatalogHandler(r ProductProvider, images ImageStore) *CatalogHandler {
	return &CatalogHandler{
		repo:   r,
		images: images,
	}
}

func toProduct(p models.Product) Product {
	product := Product{
		ID:              p.ID,
		Title:           p.Title,
		Description:     p.Description,
		PrimaryImage:    p.PrimaryImage,
		OriginalPrice:   p.OriginalPrice.InexactFloat64(),
		DiscountedPrice: p.DiscountedPrice.InexactFloat64(),
	}
	if p.Category != nil {
		product.Category = &Category{
			ID:    p.Category.ID,
			Title: p.Category.Title,
		}
	}
	return product
}

func (h *CatalogHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	// Parse pagination query params
	offset := 0
	limit := 10

	if oStr := r.URL.Query().Get("offset"); oStr != "" {
		if o, err := strconv.Atoi(oStr); err == nil && o >= 0 {
			offset = o
		}
	}

	if lStr := r.URL.Query().Get("limit"); lStr != "" {
		if l, err := strconv.Atoi(lStr); err == nil {
			if l < 1 {
				limit = 1
			} else if l > 100 {
				limit = 100
			} else {
				limit = l
			}
		}
	}

	// Parse filters
	var categoryFilter *uint
	if cStr := r.URL.Query().Get("category"); cStr != "" {
		c, err := strconv.ParseUint(cStr, 10, 64)
		if err != nil {
			api.RespondWithError(w, http.StatusBadRequest, "Invalid category")
			return
		}
		id := uint(c)
		categoryFilter = &id
	}

	var priceFilter *float64
	if priceStr := r.URL.Query().Get("price_lt"); priceStr != "" {
		val, err := strconv.ParseFloat(priceStr, 64)
		if err != nil || math.IsNaN(val) || math.IsInf(val, 0) {
			api.RespondWithError(w, http.StatusBadRequest, "Invalid price_lt")
			return
		}
		priceFilter = &val
	}

	filters := models.ProductFilters{
		CategoryID:    categoryFilter,
		PriceLessThan: priceFilter,
	}

	res, total, err := h.repo.GetFilteredProducts(r.Context(), offset, limit, filters)
	if err != nil {
		log.Error().Err(err).Msg("failed to fetch products")
		api.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch products")
		return
	}

	products := make([]Product, len(res))
	for i, p := range res {
		products[i] = toProduct(p)
	}

	api.RespondWithJSON(w, http.StatusOK, Response{
		Total:    int(total),
		Products: products,
	})
}

func (h *CatalogHandler) HandleGetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := api.PathID(r, "id")
	if !ok {
		api.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}

	product, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrProductNotFound) {
			api.RespondWithError(w, http.StatusNotFound, "Product not found")
			return
		}
		log.Error().Err(err).Uint("product_id", id).Msg("failed to retrieve product")
		api.RespondWithError(w, http.StatusInternalServerError, "Failed to retrieve product")
		return
	}

	api.RespondWithJSON(w, http.StatusOK, toProduct(*product))
}

func (h *CatalogHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	product, ok := decodeProduct(w, r)
	if !ok {
		return
	}

	if err := h.repo.CreateProduct(r.Context(), product); err != nil {
		api.RespondWithModelError(w, err, "Failed to create product")
		return
	}

	h.respondStored(w, r, product.ID, http.StatusCreated)
}

func (h *CatalogHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := api.PathID(r, "id")
	if !ok {
		api.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}

	product, ok := decodeProduct(w, r)
	if !ok {
		return
	}
	product.ID = id

	if err := h.repo.UpdateProduct(r.Context(), product); err != nil {
		api.RespondWithModelError(w, err, "Failed to update product")
		return
	}

	h.respondStored(w, r, id, http.StatusOK)
}

func (h *CatalogHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := api.PathID(r, "id")
	if !ok {
		api.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}

	if err := h.repo.DeleteProduct(r.Context(), id); err != nil {
		api.RespondWithModelError(w, err, "Failed to delete product")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *CatalogHandler) HandleUploadImage(w http.ResponseWriter, r *http.Request) {
	id, ok := api.PathID(r, "id")
	if !ok {
		api.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}

	path, err := h.images.SaveUpload(w, r, "image")
	if err != nil {
		api.RespondWithUploadError(w, err)
		return
	}

	previous, err := h.repo.SetPrimaryImage(r.Context(), id, path)
	if err != nil {
		if rmErr := h.images.Remove(path); rmErr != nil {
			log.Warn().Err(rmErr).Str("path", path).Msg("failed to discard uploaded image")
		}
		api.RespondWithModelError(w, err, "Failed to store product image")
		return
	}
	if previous != nil && *previous != path {
		if err := h.images.Remove(*previous); err != nil {
			log.Warn().Err(err).Str("path", *previous).Msg("failed to remove replaced image")
		}
	}

	api.RespondWithJSON(w, http.StatusOK, map[string]string{"primary_image": path})
}

// respondStored reloads the product so the response carries its category.
func (h *CatalogHandler) respondStored(w http.ResponseWriter, r *http.Request, id uint, code int) {
	stored, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		api.RespondWithModelError(w, err, "Failed to retrieve product")
		return
	}
	api.RespondWithJSON(w, code, toProduct(*stored))
}

func decodeProduct(w http.ResponseWriter, r *http.Request) (*models.Product, bool) {
	var input ProductInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		api.RespondWithError(w, http.StatusBadRequest, "Invalid JSON body")
		return nil, false
	}

	input.Title = strings.TrimSpace(input.Title)
	if input.Title == "" {
		api.RespondWithError(w, http.StatusBadRequest, "Missing title")
		return nil, false
	}

	return &models.Product{
		Title:           input.Title,
		Description:     input.Description,
		OriginalPrice:   input.OriginalPrice,
		DiscountedPrice: input.DiscountedPrice,
		CategoryID:      input.CategoryID,
	}, true
}
