package categories

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/mytheresa/go-shop-orders/app/api"
	"github.com/mytheresa/go-shop-orders/models"
	"github.com/rs/zerolog/log"
)

type CategoryResponse struct {
	ID    uint    `json:"id"`
	Title string  `json:"title"`
	Image *string `json:"image"`
}

type CategoryProvider interface {
	GetAllCategories(ctx context.Context) ([]models.Category, error)
	CreateCategory(ctx context.Context, category *models.Category) error
	SetCategoryImage(ctx context.Context, id uint, path string) (*string, error)
	DeleteCategory(ctx context.Context, id uint) error
}

// ImageStore persists uploaded images.
type ImageStore interface {
	SaveUpload(w http.ResponseWriter, r *http.Request, field string) (string, error)
	Remove(path string) error
}

type CategoryHandler struct {
	repo   CategoryProvider
	images ImageStore
}

func NewCategoryHandler(r CategoryProvider, images ImageStore) *CategoryHandler {
	return &CategoryHandler{repo: r, images: images}
}

func toResponse(c models.Category) CategoryResponse {
	return CategoryResponse{
		ID:    c.ID,
		Title: c.Title,
		Image: c.Image,
	}
}

func (h *CategoryHandler) HandleGetAll(w http.ResponseWriter, r *http.Request) {
	categories, err := h.repo.GetAllCategories(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("failed to fetch categories")
		api.RespondWithError(w, http.StatusInternalServerError, "failed to fetch categories")
		return
	}

	response := make([]CategoryResponse, len(categories))
	for i, c := range categories {
		response[i] = toResponse(c)
	}

	api.RespondWithJSON(w, http.StatusOK, response)
}

func (h *CategoryHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Title string `json:"title"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		api.RespondWithError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	input.Title = strings.TrimSpace(input.Title)
	if input.Title == "" {
		api.RespondWithError(w, http.StatusBadRequest, "Missing title")
		return
	}

	category := &models.Category{
		Title: input.Title,
	}

	if err := h.repo.CreateCategory(r.Context(), category); err != nil {
		api.RespondWithModelError(w, err, "Failed to create category")
		return
	}

	api.RespondWithJSON(w, http.StatusCreated, toResponse(*category))
}

func (h *CategoryHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := api.PathID(r, "id")
	if !ok {
		api.RespondWithError(w, http.StatusBadRequest, "Invalid category id")
		return
	}

	if err := h.repo.DeleteCategory(r.Context(), id); err != nil {
		api.RespondWithModelError(w, err, "Failed to delete category")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *CategoryHandler) HandleUploadImage(w http.ResponseWriter, r *http.Request) {
	id, ok := api.PathID(r, "id")
	if !ok {
		api.RespondWithError(w, http.StatusBadRequest, "Invalid category id")
		return
	}

	path, err := h.images.SaveUpload(w, r, "image")
	if err != nil {
		api.RespondWithUploadError(w, err)
		return
	}

	previous, err := h.repo.SetCategoryImage(r.Context(), id, path)
	if err != nil {
		if rmErr := h.images.Remove(path); rmErr != nil {
			log.Warn().Err(rmErr).Str("path", path).Msg("failed to discard uploaded image")
		}
		api.RespondWithModelError(w, err, "Failed to store category image")
		return
	}
	if previous != nil && *previous != path {
		if err := h.images.Remove(*previous); err != nil {
			log.Warn().Err(err).Str("path", *previous).Msg("failed to remove replaced image")
		}
	}

	api.RespondWithJSON(w, http.StatusOK, map[string]string{"image": path})
}
