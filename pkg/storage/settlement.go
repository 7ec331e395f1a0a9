package storage

import (
	"context"

	"github.com/chris/settlement-console/pkg/models"
)

// Tx is the view of the store a transaction body works against. Reads see a
// consistent snapshot; writes are buffered and become visible together when
// the body returns nil and the commit succeeds.
type Tx interface {
	// GetRequest re-reads a request. It returns ErrNotFound if the id does not exist.
	GetRequest(ctx context.Context, id string) (*models.TransactionRequest, error)

	// GetWallet returns the user's wallet, or an all-zero wallet if none was stored yet.
	GetWallet(ctx context.Context, userID string) (*models.Wallet, error)

	PutRequest(req *models.TransactionRequest) error
	PutWallet(wallet *models.Wallet) error

	// AppendAudit adds an entry. Entries are never updated or removed.
	AppendAudit(entry *models.AuditLogEntry) error
}

// TxFunc is a transaction body. It may be executed more than once and must
// derive every decision from what it reads through tx.
type TxFunc func(ctx context.Context, tx Tx) error

// Transactor runs multi-document read-modify-write transactions with
// optimistic concurrency. Conflicting commits are retried a bounded number
// of times, after which ErrTransientConflict is returned. An error returned
// by fn aborts the transaction without writing anything and is passed back
// unchanged.
type Transactor interface {
	RunTransaction(ctx context.Context, fn TxFunc) error
}
