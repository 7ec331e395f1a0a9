package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/chris/settlement-console/pkg/money"
	"github.com/shopspring/decimal"
)

// ErrInvalidRequest is returned by TransactionRequest.Validate.
var ErrInvalidRequest = errors.New("invalid transaction request")

// Direction says whether a request moves funds into or out of a wallet.
type Direction string

const (
	DEPOSIT    Direction = "deposit"
	WITHDRAWAL Direction = "withdrawal"
)

// ParseDirection accepts the singular and plural forms used in URLs.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "deposit", "deposits":
		return DEPOSIT, nil
	case "withdrawal", "withdrawals":
		return WITHDRAWAL, nil
	}
	return "", fmt.Errorf("unknown direction %q", s)
}

// RequestStatus defines the possible states of a deposit or withdrawal request.
type RequestStatus string

const (
	PENDING   RequestStatus = "pending"
	APPROVED  RequestStatus = "approved"
	REJECTED  RequestStatus = "rejected"
	COMPLETED RequestStatus = "completed"
)

// ParseRequestStatus validates a status string.
func ParseRequestStatus(s string) (RequestStatus, error) {
	st := RequestStatus(strings.ToLower(strings.TrimSpace(s)))
	switch st {
	case PENDING, APPROVED, REJECTED, COMPLETED:
		return st, nil
	}
	return "", fmt.Errorf("unknown status %q", s)
}

// transitions lists the legal successors of each state. Completion requires a
// prior approval; there is no pending -> completed shortcut.
var transitions = map[RequestStatus][]RequestStatus{
	PENDING:  {APPROVED, REJECTED},
	APPROVED: {COMPLETED},
}

// CanTransitionTo reports whether moving from s to next is legal.
func (s RequestStatus) CanTransitionTo(next RequestStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are possible from s.
func (s RequestStatus) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// SubAccount is a partition of a currency balance.
type SubAccount string

const (
	MAIN     SubAccount = "main"
	PURCHASE SubAccount = "purchase"
)

// ParseSubAccount validates a sub-account name. An empty value defaults to main.
func ParseSubAccount(s string) (SubAccount, error) {
	switch sa := SubAccount(strings.ToLower(strings.TrimSpace(s))); sa {
	case "":
		return MAIN, nil
	case MAIN, PURCHASE:
		return sa, nil
	}
	return "", fmt.Errorf("unknown sub-account %q", s)
}

// TransactionRequest is a user's deposit or withdrawal awaiting review.
type TransactionRequest struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Direction Direction `json:"direction"`
	money.Amount
	SubAccount      SubAccount      `json:"sub_account"`
	Method          string          `json:"method"`
	ExternalTxnID   string          `json:"external_txn_id,omitempty"`
	Fees            decimal.Decimal `json:"fees"`
	Status          RequestStatus   `json:"status"`
	CreatedAt       time.Time       `json:"created_at"`
	ReviewedBy      string          `json:"reviewed_by,omitempty"`
	ReviewedByLabel string          `json:"reviewed_by_label,omitempty"`
	ReviewedAt      *time.Time      `json:"reviewed_at,omitempty"`
	CompletedBy     string          `json:"completed_by,omitempty"`
	CompletedAt     *time.Time      `json:"completed_at,omitempty"`
	Notes           string          `json:"notes,omitempty"`
}

// Validate checks the fields every stored request must carry.
func (r *TransactionRequest) Validate() error {
	switch {
	case r.ID == "":
		return fmt.Errorf("%w: missing id", ErrInvalidRequest)
	case r.UserID == "":
		return fmt.Errorf("%w: request %s has no user", ErrInvalidRequest, r.ID)
	case r.Direction != DEPOSIT && r.Direction != WITHDRAWAL:
		return fmt.Errorf("%w: request %s has direction %q", ErrInvalidRequest, r.ID, r.Direction)
	case r.SubAccount != MAIN && r.SubAccount != PURCHASE:
		return fmt.Errorf("%w: request %s has sub-account %q", ErrInvalidRequest, r.ID, r.SubAccount)
	case r.Direction == DEPOSIT && r.SubAccount != MAIN:
		return fmt.Errorf("%w: deposit %s must credit the main sub-account", ErrInvalidRequest, r.ID)
	case r.Fees.IsNegative():
		return fmt.Errorf("%w: request %s has negative fees", ErrInvalidRequest, r.ID)
	}
	if _, err := ParseRequestStatus(string(r.Status)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	if _, err := money.NewAmount(r.Currency, r.Value); err != nil {
		return fmt.Errorf("%w: request %s: %v", ErrInvalidRequest, r.ID, err)
	}
	return nil
}

// Clone returns a deep copy of r.
func (r *TransactionRequest) Clone() *TransactionRequest {
	c := *r
	if r.ReviewedAt != nil {
		t := *r.ReviewedAt
		c.ReviewedAt = &t
	}
	if r.CompletedAt != nil {
		t := *r.CompletedAt
		c.CompletedAt = &t
	}
	return &c
}

// BalanceKey addresses one sub-account of one currency inside a wallet.
type BalanceKey struct {
	Currency   money.Currency
	SubAccount SubAccount
}

func (k BalanceKey) String() string {
	return string(k.Currency) + "#" + string(k.SubAccount)
}

// ParseBalanceKey is the inverse of BalanceKey.String.
func ParseBalanceKey(s string) (BalanceKey, error) {
	cur, sub, ok := strings.Cut(s, "#")
	if !ok {
		return BalanceKey{}, fmt.Errorf("malformed balance key %q", s)
	}
	c, err := money.ParseCurrency(cur)
	if err != nil {
		return BalanceKey{}, err
	}
	if sub == "" {
		return BalanceKey{}, fmt.Errorf("malformed balance key %q", s)
	}
	sa, err := ParseSubAccount(sub)
	if err != nil {
		return BalanceKey{}, err
	}
	return BalanceKey{Currency: c, SubAccount: sa}, nil
}

// Wallet is the materialized balance snapshot of a single user.
type Wallet struct {
	UserID    string
	Balances  map[BalanceKey]decimal.Decimal
	UpdatedAt time.Time
}

// NewWallet returns the wallet every user has before their first credit.
func NewWallet(userID string) *Wallet {
	return &Wallet{UserID: userID, Balances: map[BalanceKey]decimal.Decimal{}}
}

// Balance returns the balance of key, zero when it was never credited.
func (w *Wallet) Balance(key BalanceKey) decimal.Decimal {
	if v, ok := w.Balances[key]; ok {
		return v
	}
	return decimal.Zero
}

// Clone returns a deep copy of w.
func (w *Wallet) Clone() *Wallet {
	c := &Wallet{UserID: w.UserID, UpdatedAt: w.UpdatedAt, Balances: make(map[BalanceKey]decimal.Decimal, len(w.Balances))}
	for k, v := range w.Balances {
		c.Balances[k] = v
	}
	return c
}

// MarshalJSON renders balances as currency -> sub-account -> amount.
func (w *Wallet) MarshalJSON() ([]byte, error) {
	nested := make(map[money.Currency]map[SubAccount]decimal.Decimal)
	for k, v := range w.Balances {
		if nested[k.Currency] == nil {
			nested[k.Currency] = make(map[SubAccount]decimal.Decimal)
		}
		nested[k.Currency][k.SubAccount] = v
	}
	var updatedAt *time.Time
	if !w.UpdatedAt.IsZero() {
		updatedAt = &w.UpdatedAt
	}
	return json.Marshal(struct {
		UserID    string                                          `json:"user_id"`
		Balances  map[money.Currency]map[SubAccount]decimal.Decimal `json:"balances"`
		UpdatedAt *time.Time                                      `json:"updated_at,omitempty"`
	}{w.UserID, nested, updatedAt})
}

// AuditLogEntry is an immutable record of one committed admin action.
type AuditLogEntry struct {
	ID         string            `json:"id"`
	ActorID    string            `json:"actor_id"`
	ActorLabel string            `json:"actor_label"`
	Action     string            `json:"action"`
	TargetType string            `json:"target_type"`
	TargetID   string            `json:"target_id"`
	Meta       map[string]string `json:"meta"`
	CreatedAt  time.Time         `json:"created_at"`
}
