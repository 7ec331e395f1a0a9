package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/aws/aws-lambda-go/events"
	"github.com/chris/settlement-console/pkg/identity"
	"github.com/chris/settlement-console/pkg/models"
	"github.com/chris/settlement-console/pkg/settlement"
	"github.com/chris/settlement-console/pkg/storage"
)

// Handler applies admin actions queued on SQS.
type Handler struct {
	Ops settlement.Operations
}

// HandleRequest processes a batch of action commands. Messages that failed on
// a retryable error are reported back so only they are redelivered; messages
// whose outcome is final are consumed.
func (h *Handler) HandleRequest(ctx context.Context, sqsEvent events.SQSEvent) (events.SQSEventResponse, error) {
	var resp events.SQSEventResponse
	for _, message := range sqsEvent.Records {
		logger := slog.With("message_id", message.MessageId)

		var cmd settlement.ActionCommand
		if err := json.Unmarshal([]byte(message.Body), &cmd); err != nil {
			logger.ErrorContext(ctx, "Dropping undecodable action command", "error", err)
			continue
		}
		logger = logger.With("request_id", cmd.RequestID, "action", string(cmd.Verb))

		req, err := settlement.Dispatch(ctx, h.Ops, cmd)
		switch {
		case err == nil:
			logger.InfoContext(ctx, "Applied action command", "status", string(req.Status))
		case isFinal(err):
			logger.WarnContext(ctx, "Action command rejected", "error", err)
		default:
			logger.ErrorContext(ctx, "Action command failed, will be retried", "error", err)
			resp.BatchItemFailures = append(resp.BatchItemFailures, events.SQSBatchItemFailure{ItemIdentifier: message.MessageId})
		}
	}
	return resp, nil
}

// isFinal reports whether redelivering the command could never succeed.
func isFinal(err error) bool {
	for _, target := range []error{
		storage.ErrNotFound,
		storage.ErrAlreadyProcessed,
		storage.ErrInsufficientBalance,
		storage.ErrMalformedRecord,
		settlement.ErrInvalidInput,
		settlement.ErrDirectionMismatch,
		identity.ErrUnauthorized,
		models.ErrInvalidRequest,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
