package main

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/chris/settlement-console/pkg/identity"
	"github.com/chris/settlement-console/pkg/models"
	"github.com/chris/settlement-console/pkg/settlement/mocks"
	"github.com/chris/settlement-console/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func message(id, body string) events.SQSMessage {
	return events.SQSMessage{MessageId: id, Body: body}
}

func TestHandleRequest(t *testing.T) {
	admin := identity.Actor{ID: "admin-1", Label: "Ops One"}

	t.Run("applies commands and consumes the batch", func(t *testing.T) {
		// Arrange
		ops := mocks.NewOperations(t)
		ops.On("ApproveDeposit", mock.Anything, "dep-1", admin, "ok").
			Return(&models.TransactionRequest{ID: "dep-1", Status: models.APPROVED}, nil).Once()
		ops.On("RejectWithdrawal", mock.Anything, "wd-1", admin, "").
			Return(&models.TransactionRequest{ID: "wd-1", Status: models.REJECTED}, nil).Once()
		h := &Handler{Ops: ops}

		// Act
		resp, err := h.HandleRequest(context.Background(), events.SQSEvent{Records: []events.SQSMessage{
			message("m1", `{"request_id":"dep-1","direction":"deposit","action":"approve","actor_id":"admin-1","actor_label":"Ops One","reason":"ok"}`),
			message("m2", `{"request_id":"wd-1","direction":"withdrawal","action":"reject","actor_id":"admin-1","actor_label":"Ops One"}`),
		}})

		// Assert
		require.NoError(t, err)
		assert.Empty(t, resp.BatchItemFailures)
	})

	t.Run("business rejections are not redelivered", func(t *testing.T) {
		// Arrange
		ops := mocks.NewOperations(t)
		ops.On("ApproveWithdrawal", mock.Anything, "wd-1", admin, "").
			Return(nil, fmt.Errorf("debit: %w", storage.ErrInsufficientBalance)).Once()
		ops.On("CompleteDeposit", mock.Anything, "dep-1", admin, "").
			Return(nil, storage.ErrAlreadyProcessed).Once()
		h := &Handler{Ops: ops}

		// Act
		resp, err := h.HandleRequest(context.Background(), events.SQSEvent{Records: []events.SQSMessage{
			message("m1", `{"request_id":"wd-1","direction":"withdrawal","action":"approve","actor_id":"admin-1","actor_label":"Ops One"}`),
			message("m2", `{"request_id":"dep-1","direction":"deposit","action":"complete","actor_id":"admin-1","actor_label":"Ops One"}`),
		}})

		// Assert
		require.NoError(t, err)
		assert.Empty(t, resp.BatchItemFailures)
	})

	t.Run("transient failures are reported for redelivery", func(t *testing.T) {
		// Arrange
		ops := mocks.NewOperations(t)
		ops.On("ApproveDeposit", mock.Anything, "dep-1", admin, "").
			Return(nil, fmt.Errorf("%w: no commit after 5 attempts", storage.ErrTransientConflict)).Once()
		ops.On("ApproveDeposit", mock.Anything, "dep-2", admin, "").
			Return(nil, errors.New("dynamodb unavailable")).Once()
		h := &Handler{Ops: ops}

		// Act
		resp, err := h.HandleRequest(context.Background(), events.SQSEvent{Records: []events.SQSMessage{
			message("m1", `{"request_id":"dep-1","direction":"deposit","action":"approve","actor_id":"admin-1","actor_label":"Ops One"}`),
			message("m2", `{"request_id":"dep-2","direction":"deposit","action":"approve","actor_id":"admin-1","actor_label":"Ops One"}`),
		}})

		// Assert
		require.NoError(t, err)
		assert.Equal(t, []events.SQSBatchItemFailure{{ItemIdentifier: "m1"}, {ItemIdentifier: "m2"}}, resp.BatchItemFailures)
	})

	t.Run("undecodable and unknown commands are dropped", func(t *testing.T) {
		// Arrange
		ops := mocks.NewOperations(t)
		h := &Handler{Ops: ops}

		// Act
		resp, err := h.HandleRequest(context.Background(), events.SQSEvent{Records: []events.SQSMessage{
			message("m1", `not json`),
			message("m2", `{"request_id":"dep-1","direction":"deposit","action":"refund","actor_id":"admin-1"}`),
			message("m3", `{"request_id":"dep-1","direction":"transfer","action":"approve","actor_id":"admin-1"}`),
		}})

		// Assert
		require.NoError(t, err)
		assert.Empty(t, resp.BatchItemFailures)
		ops.AssertNotCalled(t, "ApproveDeposit", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}
