package main

import (
	"time"

	"github.com/chris/settlement-console/pkg/models"
	"github.com/chris/settlement-console/pkg/money"
	"github.com/chris/settlement-console/pkg/storage/memory"
	"github.com/shopspring/decimal"
)

type demoRequest struct {
	id        string
	userID    string
	direction models.Direction
	currency  money.Currency
	amount    string
	sub       models.SubAccount
	method    string
	age       time.Duration
}

var demoRequests = []demoRequest{
	{"dep-1001", "user-1", models.DEPOSIT, money.USDT, "50", models.MAIN, "crypto", 3 * time.Hour},
	{"dep-1002", "user-2", models.DEPOSIT, money.INR, "2500.50", models.MAIN, "upi", 90 * time.Minute},
	{"wd-2001", "user-1", models.WITHDRAWAL, money.USDT, "25", models.MAIN, "crypto", time.Hour},
	{"wd-2002", "user-2", models.WITHDRAWAL, money.DLX, "400", models.PURCHASE, "bank_transfer", 30 * time.Minute},
}

// seedDemo fills an in-memory store with a few users, balances and pending
// requests so the console can be exercised without AWS.
func seedDemo(store *memory.Store, now time.Time) error {
	store.SetDisplayName("user-1", "Asha Rao")
	store.SetDisplayName("user-2", "Marco Bellini")

	w1 := models.NewWallet("user-1")
	w1.Balances[models.BalanceKey{Currency: money.USDT, SubAccount: models.MAIN}] = decimal.NewFromInt(100)
	w1.UpdatedAt = now
	store.PutWallet(w1)

	w2 := models.NewWallet("user-2")
	w2.Balances[models.BalanceKey{Currency: money.DLX, SubAccount: models.PURCHASE}] = decimal.NewFromInt(1000)
	w2.UpdatedAt = now
	store.PutWallet(w2)

	for _, d := range demoRequests {
		amount, err := money.ParseAmount(string(d.currency), d.amount)
		if err != nil {
			return err
		}
		req := &models.TransactionRequest{
			ID:         d.id,
			UserID:     d.userID,
			Direction:  d.direction,
			Amount:     amount,
			SubAccount: d.sub,
			Method:     d.method,
			Fees:       decimal.Zero,
			Status:     models.PENDING,
			CreatedAt:  now.Add(-d.age),
		}
		if err := store.PutRequest(req); err != nil {
			return err
		}
	}
	return nil
}
