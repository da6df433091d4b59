package catalog

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mytheresa/go-shop-orders/app/media"
	"github.com/mytheresa/go-shop-orders/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

// --- Mock Image Store ---

type MockImageStore struct {
	Path    string
	SaveErr error
	Removed []string
}

func (s *MockImageStore) SaveUpload(w http.ResponseWriter, r *http.Request, field string) (string, error) {
	return s.Path, s.SaveErr
}

func (s *MockImageStore) Remove(path string) error {
	s.Removed = append(s.Removed, path)
	return nil
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var errResp map[string]string
	err := json.NewDecoder(rec.Body).Decode(&errResp)
	assert.NoError(t, err)
	return errResp["error"]
}

// --- Tests ---

func TestHandleGetProduct(t *testing.T) {
	description := "Roasted oolong from Taiwan"
	allMockProducts := []models.Product{
		{
			ID:              1,
			Title:           "Oolong",
			Description:     &description,
			OriginalPrice:   decimal.NewFromFloat(25.00),
			DiscountedPrice: decimal.NewFromFloat(15.50),
			Category:        &models.Category{ID: 3, Title: "Tea"},
		},
		{
			ID:              2,
			Title:           "Gift card",
			OriginalPrice:   decimal.NewFromFloat(30.00),
			DiscountedPrice: decimal.NewFromFloat(30.00),
		},
	}

	testCases := []struct {
		name               string
		productID          string
		mockRepoSetup      func() *MockProductRepo
		expectedStatusCode int
		checkResponse      func(t *testing.T, rec *httptest.ResponseRecorder)
		checkRepoCall      func(t *testing.T, repo *MockProductRepo)
	}{
		{
			name:      "Success with category",
			productID: "1",
			mockRepoSetup: func() *MockProductRepo {
				return &MockProductRepo{SourceProducts: allMockProducts}
			},
			expectedStatusCode: http.StatusOK,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var resp Product
				err := json.NewDecoder(rec.Body).Decode(&resp)
				assert.NoError(t, err)
				assert.Equal(t, "Oolong", resp.Title)
				assert.Equal(t, 25.00, resp.OriginalPrice)
				assert.Equal(t, 15.50, resp.DiscountedPrice)
				assert.Equal(t, &description, resp.Description)
				if assert.NotNil(t, resp.Category) {
					assert.Equal(t, "Tea", resp.Category.Title)
				}
			},
			checkRepoCall: func(t *testing.T, repo *MockProductRepo) {
				assert.Equal(t, uint(1), repo.lastCalledID)
			},
		},
		{
			name:      "Success without category",
			productID: "2",
			mockRepoSetup: func() *MockProductRepo {
				return &MockProductRepo{SourceProducts: allMockProducts}
			},
			expectedStatusCode: http.StatusOK,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var resp Product
				err := json.NewDecoder(rec.Body).Decode(&resp)
				assert.NoError(t, err)
				assert.Nil(t, resp.Category)
				assert.Nil(t, resp.Description)
			},
		},
		{
			name:      "Product not found",
			productID: "99",
			mockRepoSetup: func() *MockProductRepo {
				return &MockProductRepo{SourceProducts: allMockProducts}
			},
			expectedStatusCode: http.StatusNotFound,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.Equal(t, "Product not found", decodeError(t, rec))
			},
			checkRepoCall: func(t *testing.T, repo *MockProductRepo) {
				assert.Equal(t, uint(99), repo.lastCalledID)
			},
		},
		{
			name:      "Repository internal error",
			productID: "5",
			mockRepoSetup: func() *MockProductRepo {
				return &MockProductRepo{Err: errors.New("db connection lost")}
			},
			expectedStatusCode: http.StatusInternalServerError,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.Equal(t, "Failed to retrieve product", decodeError(t, rec))
			},
		},
		{
			name:      "Empty product id in path",
			productID: "",
			mockRepoSetup: func() *MockProductRepo {
				return &MockProductRepo{SourceProducts: allMockProducts}
			},
			expectedStatusCode: http.StatusNotFound,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.Equal(t, "Product not found", decodeError(t, rec))
			},
			checkRepoCall: func(t *testing.T, repo *MockProductRepo) {
				assert.Zero(t, repo.lastCalledID, "Repository should not be queried")
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			mockRepo := tc.mockRepoSetup()
			handler := NewCatalogHandler(mockRepo, &MockImageStore{})
			req := httptest.NewRequest("GET", "/catalog/"+tc.productID, nil)
			req.SetPathValue("id", tc.productID)
			rec := httptest.NewRecorder()

			// Act
			handler.HandleGetProduct(rec, req)

			// Assert
			assert.Equal(t, tc.expectedStatusCode, rec.Code)

			if tc.checkResponse != nil {
				tc.checkResponse(t, rec)
			}

			if tc.checkRepoCall != nil {
				tc.checkRepoCall(t, mockRepo)
			}
		})
	}
}

func TestHandleCreate(t *testing.T) {
	testCases := []struct {
		name               string
		requestBody        string
		writeErr           error
		expectedStatusCode int
		checkResponse      func(t *testing.T, rec *httptest.ResponseRecorder)
		checkRepoCall      func(t *testing.T, repo *MockProductRepo)
	}{
		{
			name:               "Success with string and number prices",
			requestBody:        `{"title":"Oolong","original_price":"25.00","discounted_price":19.99,"category_id":3}`,
			expectedStatusCode: http.StatusCreated,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var resp Product
				err := json.NewDecoder(rec.Body).Decode(&resp)
				assert.NoError(t, err)
				assert.Equal(t, uint(1), resp.ID)
				assert.Equal(t, 19.99, resp.DiscountedPrice)
			},
			checkRepoCall: func(t *testing.T, repo *MockProductRepo) {
				if assert.NotNil(t, repo.lastWritten) {
					assert.True(t, decimal.RequireFromString("25").Equal(repo.lastWritten.OriginalPrice))
					assert.Equal(t, uint(3), *repo.lastWritten.CategoryID)
				}
			},
		},
		{
			name:               "Invalid JSON body",
			requestBody:        `{"title":`,
			expectedStatusCode: http.StatusBadRequest,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.Equal(t, "Invalid JSON body", decodeError(t, rec))
			},
			checkRepoCall: func(t *testing.T, repo *MockProductRepo) {
				assert.Nil(t, repo.lastWritten)
			},
		},
		{
			name:               "Missing title",
			requestBody:        `{"discounted_price":1}`,
			expectedStatusCode: http.StatusBadRequest,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.Equal(t, "Missing title", decodeError(t, rec))
			},
		},
		{
			name:               "Validation error",
			requestBody:        `{"title":"Oolong","discounted_price":"-1"}`,
			writeErr:           models.ErrValidation,
			expectedStatusCode: http.StatusUnprocessableEntity,
		},
		{
			name:               "Unknown category",
			requestBody:        `{"title":"Oolong","category_id":42}`,
			writeErr:           models.ErrCategoryNotFound,
			expectedStatusCode: http.StatusNotFound,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.Equal(t, "category not found", decodeError(t, rec))
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mockRepo := &MockProductRepo{WriteErr: tc.writeErr}
			handler := NewCatalogHandler(mockRepo, &MockImageStore{})
			req := httptest.NewRequest("POST", "/catalog", strings.NewReader(tc.requestBody))
			rec := httptest.NewRecorder()

			handler.HandleCreate(rec, req)

			assert.Equal(t, tc.expectedStatusCode, rec.Code)
			if tc.checkResponse != nil {
				tc.checkResponse(t, rec)
			}
			if tc.checkRepoCall != nil {
				tc.checkRepoCall(t, mockRepo)
			}
		})
	}
}

func TestHandleUpdate(t *testing.T) {
	mockRepo := &MockProductRepo{SourceProducts: []models.Product{
		{ID: 1, Title: "Oolong", DiscountedPrice: decimal.NewFromInt(10)},
	}}
	handler := NewCatalogHandler(mockRepo, &MockImageStore{})

	req := httptest.NewRequest("PUT", "/catalog/1", strings.NewReader(`{"title":"Oolong tea","discounted_price":12.5}`))
	req.SetPathValue("id", "1")
	rec := httptest.NewRecorder()
	handler.HandleUpdate(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp Product
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "Oolong tea", resp.Title)
	assert.Equal(t, 12.5, resp.DiscountedPrice)

	req = httptest.NewRequest("PUT", "/catalog/9", strings.NewReader(`{"title":"Missing"}`))
	req.SetPathValue("id", "9")
	rec = httptest.NewRecorder()
	handler.HandleUpdate(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleDelete(t *testing.T) {
	testCases := []struct {
		name               string
		id                 string
		writeErr           error
		expectedStatusCode int
	}{
		{name: "Success", id: "1", expectedStatusCode: http.StatusNoContent},
		{name: "Not found", id: "1", writeErr: models.ErrProductNotFound, expectedStatusCode: http.StatusNotFound},
		{name: "Internal error", id: "1", writeErr: errors.New("boom"), expectedStatusCode: http.StatusInternalServerError},
		{name: "Invalid id", id: "x", expectedStatusCode: http.StatusNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mockRepo := &MockProductRepo{WriteErr: tc.writeErr}
			handler := NewCatalogHandler(mockRepo, &MockImageStore{})
			req := httptest.NewRequest("DELETE", "/catalog/"+tc.id, nil)
			req.SetPathValue("id", tc.id)
			rec := httptest.NewRecorder()

			handler.HandleDelete(rec, req)

			assert.Equal(t, tc.expectedStatusCode, rec.Code)
		})
	}
}

func TestHandleUploadImage(t *testing.T) {
	previous := "2021/10/1/old.jpg"

	testCases := []struct {
		name               string
		repo               *MockProductRepo
		store              *MockImageStore
		expectedStatusCode int
		expectedRemoved    []string
	}{
		{
			name:               "Success replaces previous image",
			repo:               &MockProductRepo{PreviousImage: &previous},
			store:              &MockImageStore{Path: "2021/10/17/new.jpg"},
			expectedStatusCode: http.StatusOK,
			expectedRemoved:    []string{previous},
		},
		{
			name:               "First image",
			repo:               &MockProductRepo{},
			store:              &MockImageStore{Path: "2021/10/17/new.jpg"},
			expectedStatusCode: http.StatusOK,
		},
		{
			name:               "Missing file",
			repo:               &MockProductRepo{},
			store:              &MockImageStore{SaveErr: media.ErrMissingFile},
			expectedStatusCode: http.StatusBadRequest,
		},
		{
			name:               "Unknown product discards upload",
			repo:               &MockProductRepo{WriteErr: models.ErrProductNotFound},
			store:              &MockImageStore{Path: "2021/10/17/new.jpg"},
			expectedStatusCode: http.StatusNotFound,
			expectedRemoved:    []string{"2021/10/17/new.jpg"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			handler := NewCatalogHandler(tc.repo, tc.store)
			req := httptest.NewRequest("PUT", "/catalog/1/image", nil)
			req.SetPathValue("id", "1")
			rec := httptest.NewRecorder()

			handler.HandleUploadImage(rec, req)

			assert.Equal(t, tc.expectedStatusCode, rec.Code)
			assert.Equal(t, tc.expectedRemoved, tc.store.Removed)
		})
	}
}
