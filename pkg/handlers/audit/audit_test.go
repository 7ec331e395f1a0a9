package audit_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/chris/settlement-console/pkg/handlers/audit"
	"github.com/chris/settlement-console/pkg/models"
	"github.com/chris/settlement-console/pkg/storage"
	"github.com/chris/settlement-console/pkg/storage/mocks"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestListAuditEntries(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		// Arrange
		mockStorage := new(mocks.QueryStore)
		expected := &storage.AuditPage{Items: []models.AuditLogEntry{
			{ID: uuid.New().String(), Action: "approve_deposit", TargetID: "req-1", CreatedAt: time.Now()},
			{ID: uuid.New().String(), Action: "complete_deposit", TargetID: "req-1", CreatedAt: time.Now()},
		}}
		mockStorage.On("ListAudit", mock.Anything, storage.AuditFilter{TargetType: "transaction_request", TargetID: "req-1", Limit: 20}).Return(expected, nil)

		h := audit.NewAuditHandler(mockStorage)

		req := httptest.NewRequest(http.MethodGet, "/audit?target_type=transaction_request&target_id=req-1&limit=20", nil)
		rr := httptest.NewRecorder()

		// Act
		h.ListAuditEntries(rr, req)

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code)

		var page storage.AuditPage
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &page))
		assert.Len(t, page.Items, 2)
		assert.Equal(t, expected.Items[0].ID, page.Items[0].ID)

		mockStorage.AssertExpectations(t)
	})

	t.Run("Missing Target", func(t *testing.T) {
		// Arrange
		mockStorage := new(mocks.QueryStore)
		h := audit.NewAuditHandler(mockStorage)

		req := httptest.NewRequest(http.MethodGet, "/audit", nil)
		rr := httptest.NewRecorder()

		// Act
		h.ListAuditEntries(rr, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockStorage.AssertNotCalled(t, "ListAudit", mock.Anything, mock.Anything)
	})

	t.Run("Storage Error", func(t *testing.T) {
		// Arrange
		mockStorage := new(mocks.QueryStore)
		mockStorage.On("ListAudit", mock.Anything, mock.Anything).Return(nil, assert.AnError)

		h := audit.NewAuditHandler(mockStorage)

		req := httptest.NewRequest(http.MethodGet, "/audit?target_id=req-1", nil)
		rr := httptest.NewRecorder()

		// Act
		h.ListAuditEntries(rr, req)

		// Assert
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		mockStorage.AssertExpectations(t)
	})
}
