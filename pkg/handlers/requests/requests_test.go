package requests_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/chris/settlement-console/pkg/handlers/requests"
	"github.com/chris/settlement-console/pkg/identity"
	"github.com/chris/settlement-console/pkg/models"
	"github.com/chris/settlement-console/pkg/money"
	settlement_mocks "github.com/chris/settlement-console/pkg/settlement/mocks"
	"github.com/chris/settlement-console/pkg/storage"
	storage_mocks "github.com/chris/settlement-console/pkg/storage/mocks"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type staticNames map[string]string

func (n staticNames) ResolveMany(_ context.Context, ids []string) map[string]string {
	out := make(map[string]string, len(ids))
	for _, id := range ids {
		if name, ok := n[id]; ok {
			out[id] = name
		} else {
			out[id] = id
		}
	}
	return out
}

func sampleRequest(status models.RequestStatus) *models.TransactionRequest {
	return &models.TransactionRequest{
		ID:         "req-1",
		UserID:     "user-1",
		Direction:  models.DEPOSIT,
		Amount:     money.Amount{Currency: money.USDT, Value: decimal.RequireFromString("50")},
		SubAccount: models.MAIN,
		Method:     "bank_transfer",
		Status:     status,
		CreatedAt:  time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func newRouter(h *requests.RequestsHandler) http.Handler {
	r := chi.NewRouter()
	r.Use(identity.Middleware)
	r.Post("/deposits/{id}/{action}", h.Act(models.DEPOSIT))
	r.Post("/withdrawals/{id}/{action}", h.Act(models.WITHDRAWAL))
	r.Get("/requests", h.ListRequests)
	r.Get("/requests/{id}", h.GetRequestById)
	return r
}

func adminRequest(method, target, body string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	req.Header.Set(identity.HeaderAdminID, "admin-1")
	req.Header.Set(identity.HeaderAdminLabel, "Alice")
	return req
}

func TestAct(t *testing.T) {
	actor := identity.Actor{ID: "admin-1", Label: "Alice"}

	t.Run("Approve Deposit", func(t *testing.T) {
		// Arrange
		ops := new(settlement_mocks.Operations)
		ops.On("ApproveDeposit", mock.Anything, "req-1", actor, "").Return(sampleRequest(models.APPROVED), nil)
		h := requests.NewRequestsHandler(ops, new(storage_mocks.QueryStore), nil)
		rr := httptest.NewRecorder()

		// Act
		newRouter(h).ServeHTTP(rr, adminRequest(http.MethodPost, "/deposits/req-1/approve", ""))

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code)
		var got map[string]any
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
		assert.Equal(t, "approved", got["status"])
		assert.Equal(t, "USDT", got["currency"])
		assert.Equal(t, "50", got["amount"])
		ops.AssertExpectations(t)
	})

	t.Run("Reject Withdrawal With Reason", func(t *testing.T) {
		// Arrange
		ops := new(settlement_mocks.Operations)
		rejected := sampleRequest(models.REJECTED)
		rejected.Direction = models.WITHDRAWAL
		ops.On("RejectWithdrawal", mock.Anything, "req-1", actor, "duplicate").Return(rejected, nil)
		h := requests.NewRequestsHandler(ops, new(storage_mocks.QueryStore), nil)
		rr := httptest.NewRecorder()

		// Act
		newRouter(h).ServeHTTP(rr, adminRequest(http.MethodPost, "/withdrawals/req-1/reject", `{"reason":"duplicate"}`))

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code)
		ops.AssertExpectations(t)
	})

	t.Run("Already Processed", func(t *testing.T) {
		ops := new(settlement_mocks.Operations)
		ops.On("ApproveDeposit", mock.Anything, "req-1", actor, "").Return(nil, storage.ErrAlreadyProcessed)
		h := requests.NewRequestsHandler(ops, new(storage_mocks.QueryStore), nil)
		rr := httptest.NewRecorder()

		newRouter(h).ServeHTTP(rr, adminRequest(http.MethodPost, "/deposits/req-1/approve", ""))

		assert.Equal(t, http.StatusConflict, rr.Code)
	})

	t.Run("Insufficient Balance", func(t *testing.T) {
		ops := new(settlement_mocks.Operations)
		ops.On("ApproveWithdrawal", mock.Anything, "req-1", actor, "").Return(nil, storage.ErrInsufficientBalance)
		h := requests.NewRequestsHandler(ops, new(storage_mocks.QueryStore), nil)
		rr := httptest.NewRecorder()

		newRouter(h).ServeHTTP(rr, adminRequest(http.MethodPost, "/withdrawals/req-1/approve", ""))

		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		assert.Contains(t, rr.Body.String(), "insufficient balance")
	})

	t.Run("Unknown Action", func(t *testing.T) {
		ops := new(settlement_mocks.Operations)
		h := requests.NewRequestsHandler(ops, new(storage_mocks.QueryStore), nil)
		rr := httptest.NewRecorder()

		newRouter(h).ServeHTTP(rr, adminRequest(http.MethodPost, "/deposits/req-1/refund", ""))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		ops.AssertNotCalled(t, "ApproveDeposit", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Malformed Body", func(t *testing.T) {
		ops := new(settlement_mocks.Operations)
		h := requests.NewRequestsHandler(ops, new(storage_mocks.QueryStore), nil)
		rr := httptest.NewRecorder()

		newRouter(h).ServeHTTP(rr, adminRequest(http.MethodPost, "/deposits/req-1/approve", `{"reason":`))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("Missing Identity", func(t *testing.T) {
		ops := new(settlement_mocks.Operations)
		h := requests.NewRequestsHandler(ops, new(storage_mocks.QueryStore), nil)
		rr := httptest.NewRecorder()

		newRouter(h).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/deposits/req-1/approve", nil))

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		ops.AssertNotCalled(t, "ApproveDeposit", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestListRequests(t *testing.T) {
	t.Run("Success With Display Names", func(t *testing.T) {
		// Arrange
		store := new(storage_mocks.QueryStore)
		store.On("ListRequests", mock.Anything, storage.RequestFilter{Status: models.PENDING, Direction: models.DEPOSIT, Limit: 10}).
			Return(&storage.RequestPage{Items: []models.TransactionRequest{*sampleRequest(models.PENDING)}, NextCursor: "next"}, nil)
		h := requests.NewRequestsHandler(new(settlement_mocks.Operations), store, staticNames{"user-1": "Ada"})
		rr := httptest.NewRecorder()

		// Act
		newRouter(h).ServeHTTP(rr, adminRequest(http.MethodGet, "/requests?status=pending&direction=deposits&limit=10", ""))

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code)
		var resp requests.ListResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		require.Len(t, resp.Items, 1)
		assert.Equal(t, "Ada", resp.Items[0].UserDisplayName)
		assert.Equal(t, "req-1", resp.Items[0].ID)
		assert.Equal(t, "next", resp.NextCursor)
		store.AssertExpectations(t)
	})

	t.Run("Invalid Status", func(t *testing.T) {
		store := new(storage_mocks.QueryStore)
		h := requests.NewRequestsHandler(new(settlement_mocks.Operations), store, nil)
		rr := httptest.NewRecorder()

		newRouter(h).ServeHTTP(rr, adminRequest(http.MethodGet, "/requests?status=archived", ""))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		store.AssertNotCalled(t, "ListRequests", mock.Anything, mock.Anything)
	})

	t.Run("Invalid Limit", func(t *testing.T) {
		store := new(storage_mocks.QueryStore)
		h := requests.NewRequestsHandler(new(settlement_mocks.Operations), store, nil)
		rr := httptest.NewRecorder()

		newRouter(h).ServeHTTP(rr, adminRequest(http.MethodGet, "/requests?limit=many", ""))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("Invalid Cursor", func(t *testing.T) {
		store := new(storage_mocks.QueryStore)
		store.On("ListRequests", mock.Anything, mock.Anything).Return(nil, storage.ErrInvalidCursor)
		h := requests.NewRequestsHandler(new(settlement_mocks.Operations), store, nil)
		rr := httptest.NewRecorder()

		newRouter(h).ServeHTTP(rr, adminRequest(http.MethodGet, "/requests?cursor=zzz", ""))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("Storage Error", func(t *testing.T) {
		store := new(storage_mocks.QueryStore)
		store.On("ListRequests", mock.Anything, mock.Anything).Return(nil, assert.AnError)
		h := requests.NewRequestsHandler(new(settlement_mocks.Operations), store, nil)
		rr := httptest.NewRecorder()

		newRouter(h).ServeHTTP(rr, adminRequest(http.MethodGet, "/requests", ""))

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}

func TestGetRequestById(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		store := new(storage_mocks.QueryStore)
		store.On("GetRequest", mock.Anything, "req-1").Return(sampleRequest(models.PENDING), nil)
		h := requests.NewRequestsHandler(new(settlement_mocks.Operations), store, nil)
		rr := httptest.NewRecorder()

		newRouter(h).ServeHTTP(rr, adminRequest(http.MethodGet, "/requests/req-1", ""))

		assert.Equal(t, http.StatusOK, rr.Code)
		var view requests.RequestView
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &view))
		assert.Equal(t, "user-1", view.UserDisplayName)
	})

	t.Run("Not Found", func(t *testing.T) {
		store := new(storage_mocks.QueryStore)
		store.On("GetRequest", mock.Anything, "missing").Return(nil, storage.ErrNotFound)
		h := requests.NewRequestsHandler(new(settlement_mocks.Operations), store, nil)
		rr := httptest.NewRecorder()

		newRouter(h).ServeHTTP(rr, adminRequest(http.MethodGet, "/requests/missing", ""))

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}
