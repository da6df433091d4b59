package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/mytheresa/go-shop-orders/app/media"
	"github.com/mytheresa/go-shop-orders/models"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// RespondWithError writes {"error": message} with the given status.
func RespondWithError(w http.ResponseWriter, code int, message string) {
	RespondWithJSON(w, code, ErrorResponse{Error: message})
}

// RespondWithJSON encodes payload as the response body.
func RespondWithJSON(w http.ResponseWriter, code int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal JSON response")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"failed to marshal JSON response"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := w.Write(response); err != nil {
		log.Error().Err(err).Msg("failed to write JSON response")
	}
}

// StatusFor maps repository and model errors to HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrCategoryNotFound),
		errors.Is(err, models.ErrProductNotFound),
		errors.Is(err, models.ErrCustomerNotFound),
		errors.Is(err, models.ErrOrderNotFound),
		errors.Is(err, models.ErrOrderItemNotFound):
		return http.StatusNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return http.StatusConflict
	case errors.Is(err, models.ErrValidation),
		errors.Is(err, models.ErrTotalOutOfRange),
		errors.Is(err, gorm.ErrForeignKeyViolated):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// RespondWithModelError writes err with its mapped status. Internal errors
// are logged and replaced by fallback so database details never leak.
func RespondWithModelError(w http.ResponseWriter, err error, fallback string) {
	code := StatusFor(err)
	if code == http.StatusInternalServerError {
		log.Error().Err(err).Msg(fallback)
		RespondWithError(w, code, fallback)
		return
	}
	RespondWithError(w, code, err.Error())
}

// PathID parses a positive numeric path parameter.
func PathID(r *http.Request, name string) (uint, bool) {
	id, err := strconv.ParseUint(r.PathValue(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// RespondWithUploadError maps image upload failures to status codes.
func RespondWithUploadError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, media.ErrMissingFile), errors.Is(err, media.ErrNotImage):
		RespondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, media.ErrTooLarge):
		RespondWithError(w, http.StatusRequestEntityTooLarge, err.Error())
	default:
		log.Error().Err(err).Msg("failed to store upload")
		RespondWithError(w, http.StatusInternalServerError, "Failed to store image")
	}
}
