// Package settlement approves, rejects and completes deposit and withdrawal
// requests. Every operation is one store transaction that re-reads the
// request, checks the transition, mutates the ledger when required, writes
// the new status and appends the audit entry.
package settlement

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/chris/settlement-console/pkg/audit"
	"github.com/chris/settlement-console/pkg/identity"
	"github.com/chris/settlement-console/pkg/ledger"
	"github.com/chris/settlement-console/pkg/metrics"
	"github.com/chris/settlement-console/pkg/models"
	"github.com/chris/settlement-console/pkg/notifier"
	"github.com/chris/settlement-console/pkg/storage"
)

// ErrDirectionMismatch is returned when a deposit operation targets a withdrawal or vice versa.
var ErrDirectionMismatch = errors.New("request direction does not match operation")

// ErrInvalidInput is returned for malformed operation arguments.
var ErrInvalidInput = errors.New("invalid input")

// Operations is the admin-facing operation surface.
type Operations interface {
	ApproveDeposit(ctx context.Context, requestID string, actor identity.Actor, reason string) (*models.TransactionRequest, error)
	RejectDeposit(ctx context.Context, requestID string, actor identity.Actor, reason string) (*models.TransactionRequest, error)
	CompleteDeposit(ctx context.Context, requestID string, actor identity.Actor, reason string) (*models.TransactionRequest, error)
	ApproveWithdrawal(ctx context.Context, requestID string, actor identity.Actor, reason string) (*models.TransactionRequest, error)
	RejectWithdrawal(ctx context.Context, requestID string, actor identity.Actor, reason string) (*models.TransactionRequest, error)
	CompleteWithdrawal(ctx context.Context, requestID string, actor identity.Actor, reason string) (*models.TransactionRequest, error)
}

// Service is the settlement orchestrator.
type Service struct {
	store    storage.Transactor
	ledger   *ledger.Ledger
	audit    *audit.Log
	notifier notifier.Notifier
	metrics  *metrics.Settlement
	now      func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithNotifier publishes an event after every committed operation.
func WithNotifier(n notifier.Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

// WithMetrics records operation outcomes.
func WithMetrics(m *metrics.Settlement) Option {
	return func(s *Service) { s.metrics = m }
}

// WithClock replaces time.Now for review timestamps, wallets and audit entries.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New creates a Service running its transactions on store.
func New(store storage.Transactor, opts ...Option) *Service {
	s := &Service{
		store:    store,
		notifier: notifier.NoOp{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.ledger = ledger.New(s.now)
	s.audit = audit.New(s.now)
	return s
}

// Make sure we conform to the interface
var _ Operations = (*Service)(nil)

// operation describes one of the six transitions.
type operation struct {
	action    audit.Action
	direction models.Direction
	target    models.RequestStatus
	// mutate applies the balance change, if any, inside the transaction.
	mutate func(ctx context.Context, tx storage.Tx, req *models.TransactionRequest) error
}

func (s *Service) ApproveDeposit(ctx context.Context, requestID string, actor identity.Actor, reason string) (*models.TransactionRequest, error) {
	return s.execute(ctx, operation{
		action:    audit.ApproveDeposit,
		direction: models.DEPOSIT,
		target:    models.APPROVED,
		mutate: func(ctx context.Context, tx storage.Tx, req *models.TransactionRequest) error {
			_, err := s.ledger.Credit(ctx, tx, req.UserID, models.MAIN, req.Amount)
			return err
		},
	}, requestID, actor, reason)
}

func (s *Service) RejectDeposit(ctx context.Context, requestID string, actor identity.Actor, reason string) (*models.TransactionRequest, error) {
	return s.execute(ctx, operation{
		action:    audit.RejectDeposit,
		direction: models.DEPOSIT,
		target:    models.REJECTED,
	}, requestID, actor, reason)
}

func (s *Service) CompleteDeposit(ctx context.Context, requestID string, actor identity.Actor, reason string) (*models.TransactionRequest, error) {
	return s.execute(ctx, operation{
		action:    audit.CompleteDeposit,
		direction: models.DEPOSIT,
		target:    models.COMPLETED,
	}, requestID, actor, reason)
}

func (s *Service) ApproveWithdrawal(ctx context.Context, requestID string, actor identity.Actor, reason string) (*models.TransactionRequest, error) {
	return s.execute(ctx, operation{
		action:    audit.ApproveWithdrawal,
		direction: models.WITHDRAWAL,
		target:    models.APPROVED,
		mutate: func(ctx context.Context, tx storage.Tx, req *models.TransactionRequest) error {
			_, err := s.ledger.Debit(ctx, tx, req.UserID, req.SubAccount, req.Amount)
			return err
		},
	}, requestID, actor, reason)
}

func (s *Service) RejectWithdrawal(ctx context.Context, requestID string, actor identity.Actor, reason string) (*models.TransactionRequest, error) {
	return s.execute(ctx, operation{
		action:    audit.RejectWithdrawal,
		direction: models.WITHDRAWAL,
		target:    models.REJECTED,
	}, requestID, actor, reason)
}

func (s *Service) CompleteWithdrawal(ctx context.Context, requestID string, actor identity.Actor, reason string) (*models.TransactionRequest, error) {
	return s.execute(ctx, operation{
		action:    audit.CompleteWithdrawal,
		direction: models.WITHDRAWAL,
		target:    models.COMPLETED,
	}, requestID, actor, reason)
}

func (s *Service) execute(ctx context.Context, op operation, requestID string, actor identity.Actor, reason string) (*models.TransactionRequest, error) {
	if err := actor.Validate(); err != nil {
		return nil, err
	}
	if requestID == "" {
		return nil, fmt.Errorf("%w: empty request id", ErrInvalidInput)
	}

	start := time.Now()
	attempts := 0
	var updated *models.TransactionRequest

	err := s.store.RunTransaction(ctx, func(ctx context.Context, tx storage.Tx) error {
		attempts++
		updated = nil

		req, err := tx.GetRequest(ctx, requestID)
		if err != nil {
			return err
		}
		if req.Direction != op.direction {
			return fmt.Errorf("%w: %s is a %s", ErrDirectionMismatch, req.ID, req.Direction)
		}
		if !req.Status.CanTransitionTo(op.target) {
			return fmt.Errorf("request %s is %s, cannot become %s: %w", req.ID, req.Status, op.target, storage.ErrAlreadyProcessed)
		}

		if op.mutate != nil {
			if err := op.mutate(ctx, tx, req); err != nil {
				return err
			}
		}

		ts := s.now().UTC()
		req.Status = op.target
		if op.target == models.COMPLETED {
			req.CompletedBy = actor.ID
			req.CompletedAt = &ts
		} else {
			req.ReviewedBy = actor.ID
			req.ReviewedByLabel = actor.Label
			req.ReviewedAt = &ts
		}
		if reason != "" {
			req.Notes = reason
		}
		if err := tx.PutRequest(req); err != nil {
			return fmt.Errorf("failed to write request %s: %w", req.ID, err)
		}

		meta := audit.RequestSnapshot(req)
		if reason != "" {
			meta["reason"] = reason
		}
		if _, err := s.audit.Append(ctx, tx, audit.Record{
			ActorID:    actor.ID,
			ActorLabel: actor.Label,
			Action:     op.action,
			TargetType: audit.TargetTransactionRequest,
			TargetID:   req.ID,
			Meta:       meta,
		}); err != nil {
			return err
		}

		updated = req
		return nil
	})

	s.metrics.Observe(string(op.action), err, attempts, time.Since(start))

	logAttrs := []any{
		"request_id", requestID,
		"action", string(op.action),
		"actor_id", actor.ID,
		"attempts", attempts,
		"outcome", metrics.Outcome(err),
	}
	if err != nil {
		slog.WarnContext(ctx, "settlement operation failed", append(logAttrs, "error", err)...)
		return nil, err
	}
	slog.InfoContext(ctx, "settlement operation committed", logAttrs...)

	event := notifier.Event{
		Type:       notifier.EventSettlement,
		RequestID:  updated.ID,
		Action:     string(op.action),
		Status:     string(updated.Status),
		UserID:     updated.UserID,
		Amount:     updated.Value.String(),
		Currency:   string(updated.Currency),
		ActorID:    actor.ID,
		OccurredAt: s.now().UTC(),
	}
	if err := s.notifier.Publish(ctx, event); err != nil {
		slog.ErrorContext(ctx, "failed to publish settlement event", "request_id", updated.ID, "error", err)
	}

	return updated, nil
}
