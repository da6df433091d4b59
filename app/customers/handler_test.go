package customers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mytheresa/go-shop-orders/models"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type MockCustomerRepo struct {
	Customers []models.Customer
	ListErr   error
	CreateErr error
	LastSaved *models.Customer
}

func (m *MockCustomerRepo) GetAllCustomers(ctx context.Context) ([]models.Customer, error) {
	return m.Customers, m.ListErr
}

func (m *MockCustomerRepo) CreateCustomer(ctx context.Context, customer *models.Customer) error {
	m.LastSaved = customer
	if m.CreateErr == nil {
		customer.ID = 3
	}
	return m.CreateErr
}

func TestHandleGetAll(t *testing.T) {
	testCases := []struct {
		name               string
		repo               *MockCustomerRepo
		expectedStatusCode int
		expectedCount      int
	}{
		{
			name: "Success",
			repo: &MockCustomerRepo{Customers: []models.Customer{
				{ID: 1, Username: "alice", Email: "alice@example.com"},
				{ID: 2, Username: "bob"},
			}},
			expectedStatusCode: http.StatusOK,
			expectedCount:      2,
		},
		{
			name:               "Empty list",
			repo:               &MockCustomerRepo{},
			expectedStatusCode: http.StatusOK,
		},
		{
			name:               "Repository error",
			repo:               &MockCustomerRepo{ListErr: errors.New("db down")},
			expectedStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			handler := NewCustomerHandler(tc.repo)
			rec := httptest.NewRecorder()

			handler.HandleGetAll(rec, httptest.NewRequest("GET", "/customers", nil))

			assert.Equal(t, tc.expectedStatusCode, rec.Code)
			if rec.Code != http.StatusOK {
				return
			}
			var resp []CustomerResponse
			assert.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			assert.Len(t, resp, tc.expectedCount)
		})
	}
}

func TestHandleCreate(t *testing.T) {
	testCases := []struct {
		name               string
		requestBody        string
		createErr          error
		expectedStatusCode int
		expectedError      string
	}{
		{name: "Success", requestBody: `{"username":" alice ","email":"alice@example.com"}`, expectedStatusCode: http.StatusCreated},
		{name: "Invalid JSON body", requestBody: `{`, expectedStatusCode: http.StatusBadRequest, expectedError: "Invalid JSON body"},
		{name: "Missing username", requestBody: `{"email":"x@example.com"}`, expectedStatusCode: http.StatusBadRequest, expectedError: "Missing username"},
		{name: "Duplicate username", requestBody: `{"username":"alice"}`, createErr: gorm.ErrDuplicatedKey, expectedStatusCode: http.StatusConflict},
		{name: "Validation error", requestBody: `{"username":"alice"}`, createErr: models.ErrValidation, expectedStatusCode: http.StatusUnprocessableEntity},
		{name: "Repository error", requestBody: `{"username":"alice"}`, createErr: errors.New("insert failed"), expectedStatusCode: http.StatusInternalServerError, expectedError: "Failed to create customer"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &MockCustomerRepo{CreateErr: tc.createErr}
			handler := NewCustomerHandler(repo)
			rec := httptest.NewRecorder()

			handler.HandleCreate(rec, httptest.NewRequest("POST", "/customers", strings.NewReader(tc.requestBody)))

			assert.Equal(t, tc.expectedStatusCode, rec.Code)
			if rec.Code == http.StatusCreated {
				var resp CustomerResponse
				assert.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
				assert.Equal(t, uint(3), resp.ID)
				assert.Equal(t, "alice", resp.Username)
				assert.Equal(t, "alice", repo.LastSaved.Username)
				return
			}
			if tc.expectedError != "" {
				var errResp map[string]string
				assert.NoError(t, json.NewDecoder(rec.Body).Decode(&errResp))
				assert.Equal(t, tc.expectedError, errResp["error"])
			}
		})
	}
}
