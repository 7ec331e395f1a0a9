package storage

import (
	"context"

	"github.com/chris/settlement-console/pkg/models"
)

// WalletReader exposes wallets read-only. Balances are written exclusively
// through the ledger inside a settlement transaction.
type WalletReader interface {
	// GetWallet retrieves a user's wallet, all-zero if the user was never credited.
	GetWallet(ctx context.Context, userID string) (*models.Wallet, error)
}
