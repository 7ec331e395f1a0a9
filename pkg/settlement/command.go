package settlement

import (
	"context"
	"fmt"
	"strings"

	"github.com/chris/settlement-console/pkg/identity"
	"github.com/chris/settlement-console/pkg/models"
)

// Verb is the admin action applied to a request.
type Verb string

const (
	Approve  Verb = "approve"
	Reject   Verb = "reject"
	Complete Verb = "complete"
)

// ParseVerb validates a verb string.
func ParseVerb(s string) (Verb, error) {
	switch v := Verb(strings.ToLower(strings.TrimSpace(s))); v {
	case Approve, Reject, Complete:
		return v, nil
	}
	return "", fmt.Errorf("%w: unknown action %q", ErrInvalidInput, s)
}

// ActionCommand is a queued admin action.
type ActionCommand struct {
	RequestID  string           `json:"request_id"`
	Direction  models.Direction `json:"direction"`
	Verb       Verb             `json:"action"`
	ActorID    string           `json:"actor_id"`
	ActorLabel string           `json:"actor_label"`
	Reason     string           `json:"reason,omitempty"`
}

// Actor returns the identity the command was issued by.
func (c ActionCommand) Actor() identity.Actor {
	return identity.Actor{ID: c.ActorID, Label: c.ActorLabel}
}

// Dispatch routes a command to the matching operation.
func Dispatch(ctx context.Context, ops Operations, cmd ActionCommand) (*models.TransactionRequest, error) {
	actor := cmd.Actor()
	switch cmd.Direction {
	case models.DEPOSIT:
		switch cmd.Verb {
		case Approve:
			return ops.ApproveDeposit(ctx, cmd.RequestID, actor, cmd.Reason)
		case Reject:
			return ops.RejectDeposit(ctx, cmd.RequestID, actor, cmd.Reason)
		case Complete:
			return ops.CompleteDeposit(ctx, cmd.RequestID, actor, cmd.Reason)
		}
	case models.WITHDRAWAL:
		switch cmd.Verb {
		case Approve:
			return ops.ApproveWithdrawal(ctx, cmd.RequestID, actor, cmd.Reason)
		case Reject:
			return ops.RejectWithdrawal(ctx, cmd.RequestID, actor, cmd.Reason)
		case Complete:
			return ops.CompleteWithdrawal(ctx, cmd.RequestID, actor, cmd.Reason)
		}
	default:
		return nil, fmt.Errorf("%w: unknown direction %q", ErrInvalidInput, cmd.Direction)
	}
	return nil, fmt.Errorf("%w: unknown action %q", ErrInvalidInput, cmd.Verb)
}
