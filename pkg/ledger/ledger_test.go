package ledger_test

import (
	"context"
	"testing"
	"time"

	"github.com/chris/settlement-console/pkg/ledger"
	"github.com/chris/settlement-console/pkg/models"
	"github.com/chris/settlement-console/pkg/money"
	"github.com/chris/settlement-console/pkg/storage"
	"github.com/chris/settlement-console/pkg/storage/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 4, 1, 9, 30, 0, 0, time.UTC)

func usdt(v string) money.Amount {
	return money.Amount{Currency: money.USDT, Value: decimal.RequireFromString(v)}
}

func seeded(t *testing.T, balance string) *memory.Store {
	t.Helper()
	store := memory.New()
	w := models.NewWallet("user-1")
	w.Balances[models.BalanceKey{Currency: money.USDT, SubAccount: models.MAIN}] = decimal.RequireFromString(balance)
	store.PutWallet(w)
	return store
}

func balance(t *testing.T, store *memory.Store, sub models.SubAccount) decimal.Decimal {
	t.Helper()
	w, err := store.GetWallet(context.Background(), "user-1")
	require.NoError(t, err)
	return w.Balance(models.BalanceKey{Currency: money.USDT, SubAccount: sub})
}

func TestCredit(t *testing.T) {
	t.Run("adds to an existing balance", func(t *testing.T) {
		// Arrange
		store := seeded(t, "100")
		l := ledger.New(func() time.Time { return fixedNow })

		// Act
		var got decimal.Decimal
		err := store.RunTransaction(context.Background(), func(ctx context.Context, tx storage.Tx) error {
			var err error
			got, err = l.Credit(ctx, tx, "user-1", models.MAIN, usdt("50"))
			return err
		})

		// Assert
		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(150).Equal(got))
		assert.True(t, decimal.NewFromInt(150).Equal(balance(t, store, models.MAIN)))
		w, _ := store.GetWallet(context.Background(), "user-1")
		assert.Equal(t, fixedNow, w.UpdatedAt)
	})

	t.Run("creates the wallet on first credit", func(t *testing.T) {
		// Arrange
		store := memory.New()
		l := ledger.New(nil)

		// Act
		err := store.RunTransaction(context.Background(), func(ctx context.Context, tx storage.Tx) error {
			_, err := l.Credit(ctx, tx, "user-1", models.PURCHASE, usdt("0.00000001"))
			return err
		})

		// Assert
		require.NoError(t, err)
		assert.True(t, decimal.RequireFromString("0.00000001").Equal(balance(t, store, models.PURCHASE)))
	})

	t.Run("rejects a non-positive amount", func(t *testing.T) {
		// Arrange
		store := seeded(t, "100")
		l := ledger.New(nil)

		// Act
		err := store.RunTransaction(context.Background(), func(ctx context.Context, tx storage.Tx) error {
			_, err := l.Credit(ctx, tx, "user-1", models.MAIN, usdt("0"))
			return err
		})

		// Assert
		assert.ErrorIs(t, err, money.ErrInvalidAmount)
		assert.True(t, decimal.NewFromInt(100).Equal(balance(t, store, models.MAIN)))
	})
}

func TestDebit(t *testing.T) {
	t.Run("subtracts down to exactly zero", func(t *testing.T) {
		// Arrange
		store := seeded(t, "50")
		l := ledger.New(nil)

		// Act
		err := store.RunTransaction(context.Background(), func(ctx context.Context, tx storage.Tx) error {
			_, err := l.Debit(ctx, tx, "user-1", models.MAIN, usdt("50"))
			return err
		})

		// Assert
		require.NoError(t, err)
		assert.True(t, balance(t, store, models.MAIN).IsZero())
	})

	t.Run("insufficient balance writes nothing", func(t *testing.T) {
		// Arrange
		store := seeded(t, "30")
		l := ledger.New(nil)

		// Act
		err := store.RunTransaction(context.Background(), func(ctx context.Context, tx storage.Tx) error {
			_, err := l.Debit(ctx, tx, "user-1", models.MAIN, usdt("50"))
			return err
		})

		// Assert
		assert.ErrorIs(t, err, storage.ErrInsufficientBalance)
		assert.True(t, decimal.NewFromInt(30).Equal(balance(t, store, models.MAIN)))
	})

	t.Run("sub-accounts are independent", func(t *testing.T) {
		// Arrange
		store := seeded(t, "100")
		l := ledger.New(nil)

		// Act
		err := store.RunTransaction(context.Background(), func(ctx context.Context, tx storage.Tx) error {
			_, err := l.Debit(ctx, tx, "user-1", models.PURCHASE, usdt("1"))
			return err
		})

		// Assert
		assert.ErrorIs(t, err, storage.ErrInsufficientBalance)
		assert.True(t, decimal.NewFromInt(100).Equal(balance(t, store, models.MAIN)))
	})
}
