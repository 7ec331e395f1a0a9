package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/chris/settlement-console/pkg/models"
	"github.com/chris/settlement-console/pkg/notifier"
	"github.com/chris/settlement-console/pkg/storage"
)

// Handler flags requests that were approved but never completed.
type Handler struct {
	Store     storage.RequestReader
	Notifier  notifier.Notifier
	Threshold time.Duration
	Now       func() time.Time
}

// HandleRequest is triggered by an EventBridge Schedule. It pages through
// requests approved longer than the threshold ago and publishes one stale_approval
// event per request. It returns the number of events published.
func (h *Handler) HandleRequest(ctx context.Context) (int, error) {
	now := h.Now().UTC()
	cutoff := now.Add(-h.Threshold)
	slog.InfoContext(ctx, "Starting reconciliation of stale approvals", "cutoff", cutoff)

	filter := storage.RequestFilter{
		Status:         models.APPROVED,
		ReviewedBefore: &cutoff,
		Limit:          storage.MaxPageSize,
	}

	published := 0
	for {
		page, err := h.Store.ListRequests(ctx, filter)
		if err != nil {
			return published, fmt.Errorf("failed to list approved requests: %w", err)
		}

		for _, req := range page.Items {
			event := notifier.Event{
				Type:       notifier.EventStaleApproval,
				RequestID:  req.ID,
				Status:     string(req.Status),
				UserID:     req.UserID,
				Amount:     req.Value.String(),
				Currency:   string(req.Currency),
				ActorID:    req.ReviewedBy,
				OccurredAt: now,
			}
			if err := h.Notifier.Publish(ctx, event); err != nil {
				// One failure should not stop the rest of the batch.
				slog.ErrorContext(ctx, "Failed to publish stale approval", "request_id", req.ID, "error", err)
				continue
			}
			published++
		}

		if page.NextCursor == "" {
			break
		}
		filter.Cursor = page.NextCursor
	}

	slog.InfoContext(ctx, "Reconciliation finished", "published", published)
	return published, nil
}
