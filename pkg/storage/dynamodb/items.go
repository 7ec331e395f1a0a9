package dynamodb

import (
	"fmt"
	"time"

	"github.com/chris/settlement-console/pkg/models"
	"github.com/chris/settlement-console/pkg/money"
	"github.com/chris/settlement-console/pkg/storage"
	"github.com/shopspring/decimal"
)

// requestItem is the stored shape of a transaction request. Amounts are
// decimal strings so no precision is lost to DynamoDB numbers.
type requestItem struct {
	ID              string     `dynamodbav:"id"`
	UserID          string     `dynamodbav:"user_id"`
	Direction       string     `dynamodbav:"direction"`
	Amount          string     `dynamodbav:"amount"`
	Currency        string     `dynamodbav:"currency"`
	SubAccount      string     `dynamodbav:"sub_account,omitempty"`
	Method          string     `dynamodbav:"method"`
	ExternalTxnID   string     `dynamodbav:"external_txn_id,omitempty"`
	Fees            string     `dynamodbav:"fees,omitempty"`
	Status          string     `dynamodbav:"status"`
	CreatedAt       time.Time  `dynamodbav:"created_at"`
	ReviewedBy      string     `dynamodbav:"reviewed_by,omitempty"`
	ReviewedByLabel string     `dynamodbav:"reviewed_by_label,omitempty"`
	ReviewedAt      *time.Time `dynamodbav:"reviewed_at,omitempty"`
	CompletedBy     string     `dynamodbav:"completed_by,omitempty"`
	CompletedAt     *time.Time `dynamodbav:"completed_at,omitempty"`
	Notes           string     `dynamodbav:"notes,omitempty"`
	Version         int64      `dynamodbav:"version"`
}

// toModel applies the schema defaults and validates the result. Missing
// sub-account means main, missing fees mean zero and a missing status means
// the request was never reviewed.
func (it *requestItem) toModel() (*models.TransactionRequest, error) {
	malformed := func(err error) error {
		return fmt.Errorf("request %q: %v: %w", it.ID, err, storage.ErrMalformedRecord)
	}

	dir, err := models.ParseDirection(it.Direction)
	if err != nil {
		return nil, malformed(err)
	}
	amount, err := money.ParseAmount(it.Currency, it.Amount)
	if err != nil {
		return nil, malformed(err)
	}
	sub, err := models.ParseSubAccount(it.SubAccount)
	if err != nil {
		return nil, malformed(err)
	}
	fees, err := money.ParseFees(it.Fees)
	if err != nil {
		return nil, malformed(err)
	}
	status := models.PENDING
	if it.Status != "" {
		if status, err = models.ParseRequestStatus(it.Status); err != nil {
			return nil, malformed(err)
		}
	}

	req := &models.TransactionRequest{
		ID:              it.ID,
		UserID:          it.UserID,
		Direction:       dir,
		Amount:          amount,
		SubAccount:      sub,
		Method:          it.Method,
		ExternalTxnID:   it.ExternalTxnID,
		Fees:            fees,
		Status:          status,
		CreatedAt:       it.CreatedAt,
		ReviewedBy:      it.ReviewedBy,
		ReviewedByLabel: it.ReviewedByLabel,
		ReviewedAt:      it.ReviewedAt,
		CompletedBy:     it.CompletedBy,
		CompletedAt:     it.CompletedAt,
		Notes:           it.Notes,
	}
	if err := req.Validate(); err != nil {
		return nil, malformed(err)
	}
	return req, nil
}

func newRequestItem(req *models.TransactionRequest, version int64) requestItem {
	return requestItem{
		ID:              req.ID,
		UserID:          req.UserID,
		Direction:       string(req.Direction),
		Amount:          req.Value.String(),
		Currency:        string(req.Currency),
		SubAccount:      string(req.SubAccount),
		Method:          req.Method,
		ExternalTxnID:   req.ExternalTxnID,
		Fees:            req.Fees.String(),
		Status:          string(req.Status),
		CreatedAt:       req.CreatedAt,
		ReviewedBy:      req.ReviewedBy,
		ReviewedByLabel: req.ReviewedByLabel,
		ReviewedAt:      req.ReviewedAt,
		CompletedBy:     req.CompletedBy,
		CompletedAt:     req.CompletedAt,
		Notes:           req.Notes,
		Version:         version,
	}
}

// walletItem stores balances keyed by "CURRENCY#sub_account".
type walletItem struct {
	UserID    string            `dynamodbav:"user_id"`
	Balances  map[string]string `dynamodbav:"balances"`
	UpdatedAt time.Time         `dynamodbav:"updated_at"`
	Version   int64             `dynamodbav:"version"`
}

func (it *walletItem) toModel() (*models.Wallet, error) {
	w := models.NewWallet(it.UserID)
	w.UpdatedAt = it.UpdatedAt
	for k, v := range it.Balances {
		key, err := models.ParseBalanceKey(k)
		if err != nil {
			return nil, fmt.Errorf("wallet %q: %v: %w", it.UserID, err, storage.ErrMalformedRecord)
		}
		d, err := decimal.NewFromString(v)
		if err != nil || d.IsNegative() {
			return nil, fmt.Errorf("wallet %q: balance %s is %q: %w", it.UserID, k, v, storage.ErrMalformedRecord)
		}
		w.Balances[key] = d
	}
	return w, nil
}

func newWalletItem(w *models.Wallet, version int64) walletItem {
	balances := make(map[string]string, len(w.Balances))
	for k, v := range w.Balances {
		balances[k.String()] = v.String()
	}
	return walletItem{UserID: w.UserID, Balances: balances, UpdatedAt: w.UpdatedAt, Version: version}
}

type auditItem struct {
	EntryID    string            `dynamodbav:"entry_id"`
	ActorID    string            `dynamodbav:"actor_id"`
	ActorLabel string            `dynamodbav:"actor_label"`
	Action     string            `dynamodbav:"action"`
	TargetType string            `dynamodbav:"target_type"`
	TargetID   string            `dynamodbav:"target_id"`
	Meta       map[string]string `dynamodbav:"meta"`
	CreatedAt  time.Time         `dynamodbav:"created_at"`
}

func newAuditItem(e *models.AuditLogEntry) auditItem {
	return auditItem{
		EntryID:    e.ID,
		ActorID:    e.ActorID,
		ActorLabel: e.ActorLabel,
		Action:     e.Action,
		TargetType: e.TargetType,
		TargetID:   e.TargetID,
		Meta:       e.Meta,
		CreatedAt:  e.CreatedAt,
	}
}

func (it *auditItem) toModel() models.AuditLogEntry {
	meta := it.Meta
	if meta == nil {
		meta = map[string]string{}
	}
	return models.AuditLogEntry{
		ID:         it.EntryID,
		ActorID:    it.ActorID,
		ActorLabel: it.ActorLabel,
		Action:     it.Action,
		TargetType: it.TargetType,
		TargetID:   it.TargetID,
		Meta:       meta,
		CreatedAt:  it.CreatedAt,
	}
}
