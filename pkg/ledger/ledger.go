// Package ledger mutates wallet balance snapshots. Both primitives take the
// caller's storage.Tx, so a balance change only ever persists as part of the
// transaction that also moves the request and appends the audit entry.
package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/chris/settlement-console/pkg/models"
	"github.com/chris/settlement-console/pkg/money"
	"github.com/chris/settlement-console/pkg/storage"
	"github.com/shopspring/decimal"
)

// Ledger applies credits and debits to wallets.
type Ledger struct {
	now func() time.Time
}

// New creates a Ledger. A nil clock defaults to time.Now.
func New(now func() time.Time) *Ledger {
	if now == nil {
		now = time.Now
	}
	return &Ledger{now: now}
}

// Credit adds amount to the user's (currency, sub) balance and returns the new balance.
func (l *Ledger) Credit(ctx context.Context, tx storage.Tx, userID string, sub models.SubAccount, amount money.Amount) (decimal.Decimal, error) {
	return l.apply(ctx, tx, userID, sub, amount, false)
}

// Debit subtracts amount from the user's (currency, sub) balance. It returns
// storage.ErrInsufficientBalance and writes nothing if the balance is smaller
// than amount.
func (l *Ledger) Debit(ctx context.Context, tx storage.Tx, userID string, sub models.SubAccount, amount money.Amount) (decimal.Decimal, error) {
	return l.apply(ctx, tx, userID, sub, amount, true)
}

func (l *Ledger) apply(ctx context.Context, tx storage.Tx, userID string, sub models.SubAccount, amount money.Amount, debit bool) (decimal.Decimal, error) {
	if _, err := money.NewAmount(amount.Currency, amount.Value); err != nil {
		return decimal.Zero, err
	}

	wallet, err := tx.GetWallet(ctx, userID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to read wallet %s: %w", userID, err)
	}

	key := models.BalanceKey{Currency: amount.Currency, SubAccount: sub}
	current := wallet.Balance(key)

	next := current.Add(amount.Value)
	if debit {
		if current.LessThan(amount.Value) {
			return current, fmt.Errorf("%s has %s, needs %s: %w", key, current, amount.Value, storage.ErrInsufficientBalance)
		}
		next = current.Sub(amount.Value)
	}

	wallet.Balances[key] = next
	wallet.UpdatedAt = l.now().UTC()
	if err := tx.PutWallet(wallet); err != nil {
		return decimal.Zero, fmt.Errorf("failed to write wallet %s: %w", userID, err)
	}
	return next, nil
}
