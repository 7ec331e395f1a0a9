// Package memory is an in-process implementation of the storage interfaces.
// It offers the same optimistic-concurrency contract as the DynamoDB store and
// backs local development and the concurrency tests.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/chris/settlement-console/pkg/models"
	"github.com/chris/settlement-console/pkg/storage"
)

// DefaultMaxAttempts bounds how often a transaction body is re-run on conflict.
const DefaultMaxAttempts = 5

type requestDoc struct {
	req     *models.TransactionRequest
	version int64
}

type walletDoc struct {
	wallet  *models.Wallet
	version int64
}

// Store keeps every document in maps guarded by a single RWMutex. Commits
// validate the versions a transaction read and apply its writes atomically.
type Store struct {
	mu       sync.RWMutex
	requests map[string]requestDoc
	wallets  map[string]walletDoc
	audit    []models.AuditLogEntry
	names    map[string]string

	maxAttempts  int
	beforeCommit func(attempt int)
}

// Option configures a Store.
type Option func(*Store)

// WithMaxAttempts sets the retry bound of RunTransaction.
func WithMaxAttempts(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.maxAttempts = n
		}
	}
}

// WithBeforeCommit registers a hook called after a transaction body returns
// and before its commit is validated. Tests use it to inject conflicting writes.
func WithBeforeCommit(fn func(attempt int)) Option {
	return func(s *Store) {
		s.beforeCommit = fn
	}
}

// New creates an empty Store.
func New(opts ...Option) *Store {
	s := &Store{
		requests:    make(map[string]requestDoc),
		wallets:     make(map[string]walletDoc),
		names:       make(map[string]string),
		maxAttempts: DefaultMaxAttempts,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Make sure we conform to the interface
var _ storage.Storage = (*Store)(nil)

// PutRequest stores a request outside of any transaction. It is how the
// request-submission flow, seeders and tests introduce pending requests.
func (s *Store) PutRequest(req *models.TransactionRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	doc := s.requests[req.ID]
	s.requests[req.ID] = requestDoc{req: req.Clone(), version: doc.version + 1}
	return nil
}

// PutWallet overwrites a wallet outside of any transaction. It is meant for
// seeding; settlement code writes wallets only through the ledger.
func (s *Store) PutWallet(wallet *models.Wallet) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc := s.wallets[wallet.UserID]
	s.wallets[wallet.UserID] = walletDoc{wallet: wallet.Clone(), version: doc.version + 1}
}

// SetDisplayName registers the profile name of a user.
func (s *Store) SetDisplayName(userID, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.names[userID] = name
}

// GetDisplayName returns the profile name of a user or ErrNotFound.
func (s *Store) GetDisplayName(_ context.Context, userID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	name, ok := s.names[userID]
	if !ok {
		return "", fmt.Errorf("profile %s: %w", userID, storage.ErrNotFound)
	}
	return name, nil
}

// RunTransaction executes fn against a fresh snapshot until it commits, fn
// fails, or the attempt budget is spent.
func (s *Store) RunTransaction(ctx context.Context, fn storage.TxFunc) error {
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		tx := newTx(s)
		if err := fn(ctx, tx); err != nil {
			return err
		}
		if s.beforeCommit != nil {
			s.beforeCommit(attempt)
		}
		err := s.commit(tx)
		if err == nil {
			return nil
		}
		if !errors.Is(err, storage.ErrConflict) {
			return err
		}
	}
	return fmt.Errorf("%w: no commit after %d attempts", storage.ErrTransientConflict, s.maxAttempts)
}

func (s *Store) commit(t *tx) error {
	if len(t.putRequests) == 0 && len(t.putWallets) == 0 && len(t.audit) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for id, v := range t.requestVersions {
		if s.requests[id].version != v {
			return fmt.Errorf("request %s: %w", id, storage.ErrConflict)
		}
	}
	for id, v := range t.walletVersions {
		if s.wallets[id].version != v {
			return fmt.Errorf("wallet %s: %w", id, storage.ErrConflict)
		}
	}

	for id, req := range t.putRequests {
		s.requests[id] = requestDoc{req: req.Clone(), version: s.requests[id].version + 1}
	}
	for id, w := range t.putWallets {
		s.wallets[id] = walletDoc{wallet: w.Clone(), version: s.wallets[id].version + 1}
	}
	s.audit = append(s.audit, t.audit...)
	return nil
}

// GetRequest retrieves a committed request.
func (s *Store) GetRequest(_ context.Context, id string) (*models.TransactionRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.requests[id]
	if !ok {
		return nil, fmt.Errorf("request %s: %w", id, storage.ErrNotFound)
	}
	return doc.req.Clone(), nil
}

// GetWallet retrieves a committed wallet, all-zero if absent.
func (s *Store) GetWallet(_ context.Context, userID string) (*models.Wallet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if doc, ok := s.wallets[userID]; ok {
		return doc.wallet.Clone(), nil
	}
	return models.NewWallet(userID), nil
}

// ListRequests pages through requests newest first. The cursor is the id of
// the last request of the previous page; paging resumes after its position in
// the ordering, so it stays valid when that request stops matching the filter.
func (s *Store) ListRequests(_ context.Context, filter storage.RequestFilter) (*storage.RequestPage, error) {
	s.mu.RLock()
	var after *models.TransactionRequest
	if filter.Cursor != "" {
		doc, ok := s.requests[filter.Cursor]
		if !ok {
			s.mu.RUnlock()
			return nil, fmt.Errorf("%w: %q", storage.ErrInvalidCursor, filter.Cursor)
		}
		after = doc.req.Clone()
	}
	matched := make([]models.TransactionRequest, 0, len(s.requests))
	for _, doc := range s.requests {
		r := doc.req
		if filter.Status != "" && r.Status != filter.Status {
			continue
		}
		if filter.Direction != "" && r.Direction != filter.Direction {
			continue
		}
		if filter.CreatedBefore != nil && !r.CreatedAt.Before(*filter.CreatedBefore) {
			continue
		}
		if filter.ReviewedBefore != nil && (r.ReviewedAt == nil || !r.ReviewedAt.Before(*filter.ReviewedBefore)) {
			continue
		}
		matched = append(matched, *r.Clone())
	}
	s.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		return newerThan(&matched[i], &matched[j])
	})

	start := 0
	if after != nil {
		start = sort.Search(len(matched), func(i int) bool {
			return newerThan(after, &matched[i])
		})
	}

	page := &storage.RequestPage{Items: []models.TransactionRequest{}}
	end := start + int(filter.PageSize())
	if end < len(matched) {
		page.NextCursor = matched[end-1].ID
	} else {
		end = len(matched)
	}
	page.Items = append(page.Items, matched[start:end]...)
	return page, nil
}

// newerThan orders requests by creation time, then id, both descending.
func newerThan(a, b *models.TransactionRequest) bool {
	if a.CreatedAt.Equal(b.CreatedAt) {
		return a.ID > b.ID
	}
	return a.CreatedAt.After(b.CreatedAt)
}

// ListAudit pages through the entries of one target in the order they were written.
func (s *Store) ListAudit(_ context.Context, filter storage.AuditFilter) (*storage.AuditPage, error) {
	s.mu.RLock()
	var matched []models.AuditLogEntry
	for _, e := range s.audit {
		if filter.TargetType != "" && e.TargetType != filter.TargetType {
			continue
		}
		if filter.TargetID != "" && e.TargetID != filter.TargetID {
			continue
		}
		matched = append(matched, cloneEntry(e))
	}
	s.mu.RUnlock()

	start := 0
	if filter.Cursor != "" {
		start = -1
		for i := range matched {
			if matched[i].ID == filter.Cursor {
				start = i + 1
				break
			}
		}
		if start < 0 {
			return nil, fmt.Errorf("%w: %q", storage.ErrInvalidCursor, filter.Cursor)
		}
	}

	page := &storage.AuditPage{Items: []models.AuditLogEntry{}}
	end := start + int(filter.PageSize())
	if end < len(matched) {
		page.NextCursor = matched[end-1].ID
	} else {
		end = len(matched)
	}
	page.Items = append(page.Items, matched[start:end]...)
	return page, nil
}

func cloneEntry(e models.AuditLogEntry) models.AuditLogEntry {
	meta := make(map[string]string, len(e.Meta))
	for k, v := range e.Meta {
		meta[k] = v
	}
	e.Meta = meta
	return e
}
