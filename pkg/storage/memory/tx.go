package memory

import (
	"context"
	"fmt"

	"github.com/chris/settlement-console/pkg/models"
	"github.com/chris/settlement-console/pkg/storage"
)

// tx records the version of every document it reads and buffers writes
// until commit. Reads observe the transaction's own buffered writes.
type tx struct {
	store *Store

	requestVersions map[string]int64
	walletVersions  map[string]int64

	putRequests map[string]*models.TransactionRequest
	putWallets  map[string]*models.Wallet
	audit       []models.AuditLogEntry
}

func newTx(s *Store) *tx {
	return &tx{
		store:           s,
		requestVersions: make(map[string]int64),
		walletVersions:  make(map[string]int64),
		putRequests:     make(map[string]*models.TransactionRequest),
		putWallets:      make(map[string]*models.Wallet),
	}
}

func (t *tx) GetRequest(_ context.Context, id string) (*models.TransactionRequest, error) {
	if req, ok := t.putRequests[id]; ok {
		return req.Clone(), nil
	}

	t.store.mu.RLock()
	doc, ok := t.store.requests[id]
	t.store.mu.RUnlock()

	if _, seen := t.requestVersions[id]; !seen {
		t.requestVersions[id] = doc.version
	}
	if !ok {
		return nil, fmt.Errorf("request %s: %w", id, storage.ErrNotFound)
	}
	return doc.req.Clone(), nil
}

func (t *tx) GetWallet(_ context.Context, userID string) (*models.Wallet, error) {
	if w, ok := t.putWallets[userID]; ok {
		return w.Clone(), nil
	}

	t.store.mu.RLock()
	doc, ok := t.store.wallets[userID]
	t.store.mu.RUnlock()

	if _, seen := t.walletVersions[userID]; !seen {
		t.walletVersions[userID] = doc.version
	}
	if !ok {
		return models.NewWallet(userID), nil
	}
	return doc.wallet.Clone(), nil
}

func (t *tx) PutRequest(req *models.TransactionRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	if _, seen := t.requestVersions[req.ID]; !seen {
		return fmt.Errorf("request %s written without being read in this transaction", req.ID)
	}
	t.putRequests[req.ID] = req.Clone()
	return nil
}

func (t *tx) PutWallet(wallet *models.Wallet) error {
	for k, v := range wallet.Balances {
		if v.IsNegative() {
			return fmt.Errorf("wallet %s: %s would be %s: %w", wallet.UserID, k, v, storage.ErrInsufficientBalance)
		}
	}
	if _, seen := t.walletVersions[wallet.UserID]; !seen {
		return fmt.Errorf("wallet %s written without being read in this transaction", wallet.UserID)
	}
	t.putWallets[wallet.UserID] = wallet.Clone()
	return nil
}

func (t *tx) AppendAudit(entry *models.AuditLogEntry) error {
	if entry.ID == "" {
		return fmt.Errorf("audit entry has no id")
	}
	t.audit = append(t.audit, cloneEntry(*entry))
	return nil
}
