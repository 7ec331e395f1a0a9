package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/chris/settlement-console/pkg/models"
	"github.com/chris/settlement-console/pkg/storage"
	"github.com/google/uuid"
)

// Action names one kind of audited admin action.
type Action string

const (
	ApproveDeposit     Action = "approve_deposit"
	RejectDeposit      Action = "reject_deposit"
	CompleteDeposit    Action = "complete_deposit"
	ApproveWithdrawal  Action = "approve_withdrawal"
	RejectWithdrawal   Action = "reject_withdrawal"
	CompleteWithdrawal Action = "complete_withdrawal"
)

// TargetTransactionRequest is the target type of every settlement entry.
const TargetTransactionRequest = "transaction_request"

// Record describes the entry to append.
type Record struct {
	ActorID    string
	ActorLabel string
	Action     Action
	TargetType string
	TargetID   string
	Meta       map[string]string
}

// Log appends entries to the audit trail. It has no read or update path.
type Log struct {
	now   func() time.Time
	newID func() string
}

// New creates a Log. A nil clock defaults to time.Now.
func New(now func() time.Time) *Log {
	if now == nil {
		now = time.Now
	}
	return &Log{now: now, newID: uuid.NewString}
}

// Append writes rec as a new entry inside tx and returns it.
func (l *Log) Append(ctx context.Context, tx storage.Tx, rec Record) (*models.AuditLogEntry, error) {
	if rec.ActorID == "" || rec.Action == "" || rec.TargetID == "" {
		return nil, fmt.Errorf("audit record is missing actor, action or target")
	}
	entry := &models.AuditLogEntry{
		ID:         l.newID(),
		ActorID:    rec.ActorID,
		ActorLabel: rec.ActorLabel,
		Action:     string(rec.Action),
		TargetType: rec.TargetType,
		TargetID:   rec.TargetID,
		Meta:       rec.Meta,
		CreatedAt:  l.now().UTC(),
	}
	if entry.Meta == nil {
		entry.Meta = map[string]string{}
	}
	if err := tx.AppendAudit(entry); err != nil {
		return nil, fmt.Errorf("failed to append audit entry: %w", err)
	}
	return entry, nil
}

// RequestSnapshot captures the request fields recorded with every settlement entry.
func RequestSnapshot(req *models.TransactionRequest) map[string]string {
	meta := map[string]string{
		"userId":        req.UserID,
		"amount":        req.Value.String(),
		"currency":      string(req.Currency),
		"method":        req.Method,
		"fees":          req.Fees.String(),
		"externalTxnId": req.ExternalTxnID,
	}
	if req.Direction == models.WITHDRAWAL {
		meta["subAccount"] = string(req.SubAccount)
	}
	return meta
}
