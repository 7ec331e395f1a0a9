package audit

import (
	"context"
	"testing"
	"time"

	"github.com/chris/settlement-console/pkg/models"
	"github.com/chris/settlement-console/pkg/money"
	"github.com/chris/settlement-console/pkg/storage"
	"github.com/chris/settlement-console/pkg/storage/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppend(t *testing.T) {
	now := time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC)

	t.Run("writes the entry with the transaction", func(t *testing.T) {
		// Arrange
		store := memory.New()
		log := New(func() time.Time { return now })
		log.newID = func() string { return "entry-1" }

		// Act
		var entry *models.AuditLogEntry
		err := store.RunTransaction(context.Background(), func(ctx context.Context, tx storage.Tx) error {
			var err error
			entry, err = log.Append(ctx, tx, Record{
				ActorID:    "admin-1",
				ActorLabel: "Ops One",
				Action:     ApproveDeposit,
				TargetType: TargetTransactionRequest,
				TargetID:   "dep-1",
				Meta:       map[string]string{"amount": "50"},
			})
			return err
		})

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "entry-1", entry.ID)
		assert.Equal(t, now, entry.CreatedAt)

		page, err := store.ListAudit(context.Background(), storage.AuditFilter{TargetID: "dep-1"})
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.Equal(t, "approve_deposit", page.Items[0].Action)
		assert.Equal(t, "50", page.Items[0].Meta["amount"])
	})

	t.Run("nothing is written when the transaction fails", func(t *testing.T) {
		// Arrange
		store := memory.New()
		log := New(nil)

		// Act
		err := store.RunTransaction(context.Background(), func(ctx context.Context, tx storage.Tx) error {
			if _, err := log.Append(ctx, tx, Record{ActorID: "admin-1", Action: RejectDeposit, TargetID: "dep-1"}); err != nil {
				return err
			}
			return storage.ErrAlreadyProcessed
		})

		// Assert
		assert.ErrorIs(t, err, storage.ErrAlreadyProcessed)
		page, err := store.ListAudit(context.Background(), storage.AuditFilter{TargetID: "dep-1"})
		require.NoError(t, err)
		assert.Empty(t, page.Items)
	})

	t.Run("rejects an incomplete record", func(t *testing.T) {
		// Arrange
		store := memory.New()
		log := New(nil)

		// Act
		err := store.RunTransaction(context.Background(), func(ctx context.Context, tx storage.Tx) error {
			_, err := log.Append(ctx, tx, Record{Action: ApproveDeposit, TargetID: "dep-1"})
			return err
		})

		// Assert
		assert.Error(t, err)
	})
}

func TestRequestSnapshot(t *testing.T) {
	req := &models.TransactionRequest{
		ID:            "wd-1",
		UserID:        "user-1",
		Direction:     models.WITHDRAWAL,
		Amount:        money.Amount{Currency: money.INR, Value: decimal.RequireFromString("2500.50")},
		SubAccount:    models.PURCHASE,
		Method:        "upi",
		ExternalTxnID: "utr-99",
		Fees:          decimal.RequireFromString("1.25"),
	}

	meta := RequestSnapshot(req)

	assert.Equal(t, map[string]string{
		"userId":        "user-1",
		"amount":        "2500.5",
		"currency":      "INR",
		"method":        "upi",
		"fees":          "1.25",
		"externalTxnId": "utr-99",
		"subAccount":    "purchase",
	}, meta)

	req.Direction = models.DEPOSIT
	req.SubAccount = models.MAIN
	req.ExternalTxnID = ""
	meta = RequestSnapshot(req)
	assert.NotContains(t, meta, "subAccount")
	require.Contains(t, meta, "externalTxnId")
	assert.Empty(t, meta["externalTxnId"])
}
