package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/settlement-console/pkg/models"
	"github.com/chris/settlement-console/pkg/storage"
	"github.com/google/uuid"
)

// docState is what a transaction observed about a document when it read it.
type docState struct {
	exists  bool
	version int64
}

// condition returns the expression asserting the document is still as observed.
func (d docState) condition(pk string) (string, map[string]types.AttributeValue) {
	switch {
	case !d.exists:
		return fmt.Sprintf("attribute_not_exists(%s)", pk), nil
	case d.version == 0:
		// Items written before versioning, or seeded with an explicit zero.
		return fmt.Sprintf("attribute_exists(%s) AND (attribute_not_exists(version) OR version = :zero)", pk),
			map[string]types.AttributeValue{":zero": &types.AttributeValueMemberN{Value: "0"}}
	}
	return "version = :version", map[string]types.AttributeValue{
		":version": &types.AttributeValueMemberN{Value: strconv.FormatInt(d.version, 10)},
	}
}

// RunTransaction executes fn with optimistic concurrency. Reads are strongly
// consistent GetItems whose versions are remembered; on return the buffered
// writes are committed with TransactWriteItems, conditioned on every read
// document still carrying the observed version. A cancelled commit re-runs fn
// against fresh reads, up to MaxAttempts times.
func (s *Store) RunTransaction(ctx context.Context, fn storage.TxFunc) error {
	maxAttempts := s.maxAttempts()
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			if err := s.backoff(ctx, attempt); err != nil {
				return err
			}
		}

		tx := newTransaction(s)
		if err := fn(ctx, tx); err != nil {
			return err
		}

		err := tx.commit(ctx)
		if err == nil {
			return nil
		}
		if !errors.Is(err, storage.ErrConflict) {
			return err
		}
		slog.DebugContext(ctx, "transaction conflict, retrying", "attempt", attempt, "error", err)
	}
	return fmt.Errorf("%w: no commit after %d attempts", storage.ErrTransientConflict, maxAttempts)
}

func (s *Store) backoff(ctx context.Context, attempt int) error {
	if s.RetryBaseDelay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(s.RetryBaseDelay << (attempt - 2))
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

type transaction struct {
	store *Store

	requestStates map[string]docState
	walletStates  map[string]docState

	putRequests map[string]*models.TransactionRequest
	putWallets  map[string]*models.Wallet
	audit       []*models.AuditLogEntry
}

func newTransaction(s *Store) *transaction {
	return &transaction{
		store:         s,
		requestStates: make(map[string]docState),
		walletStates:  make(map[string]docState),
		putRequests:   make(map[string]*models.TransactionRequest),
		putWallets:    make(map[string]*models.Wallet),
	}
}

func (t *transaction) GetRequest(ctx context.Context, id string) (*models.TransactionRequest, error) {
	if req, ok := t.putRequests[id]; ok {
		return req.Clone(), nil
	}
	req, state, err := t.store.loadRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, seen := t.requestStates[id]; !seen {
		t.requestStates[id] = state
	}
	if req == nil {
		return nil, fmt.Errorf("request %s: %w", id, storage.ErrNotFound)
	}
	return req, nil
}

func (t *transaction) GetWallet(ctx context.Context, userID string) (*models.Wallet, error) {
	if w, ok := t.putWallets[userID]; ok {
		return w.Clone(), nil
	}
	w, state, err := t.store.loadWallet(ctx, userID)
	if err != nil {
		return nil, err
	}
	if _, seen := t.walletStates[userID]; !seen {
		t.walletStates[userID] = state
	}
	return w, nil
}

func (t *transaction) PutRequest(req *models.TransactionRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	if _, seen := t.requestStates[req.ID]; !seen {
		return fmt.Errorf("request %s written without being read in this transaction", req.ID)
	}
	t.putRequests[req.ID] = req.Clone()
	return nil
}

func (t *transaction) PutWallet(w *models.Wallet) error {
	for k, v := range w.Balances {
		if v.IsNegative() {
			return fmt.Errorf("wallet %s: %s would be %s: %w", w.UserID, k, v, storage.ErrInsufficientBalance)
		}
	}
	if _, seen := t.walletStates[w.UserID]; !seen {
		return fmt.Errorf("wallet %s written without being read in this transaction", w.UserID)
	}
	t.putWallets[w.UserID] = w.Clone()
	return nil
}

func (t *transaction) AppendAudit(entry *models.AuditLogEntry) error {
	if entry.ID == "" {
		return fmt.Errorf("audit entry has no id")
	}
	e := *entry
	t.audit = append(t.audit, &e)
	return nil
}

func (t *transaction) commit(ctx context.Context) error {
	if len(t.putRequests) == 0 && len(t.putWallets) == 0 && len(t.audit) == 0 {
		return nil
	}

	items, err := t.writeItems()
	if err != nil {
		return err
	}

	_, err = t.store.Client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems:      items,
		ClientRequestToken: aws.String(uuid.NewString()),
	})
	if err != nil {
		if isConflict(err) {
			return fmt.Errorf("%w: %v", storage.ErrConflict, err)
		}
		return fmt.Errorf("failed to execute settlement transaction: %w", err)
	}
	return nil
}

// writeItems builds the TransactWriteItems payload: one conditional Put per
// written document, a ConditionCheck per document only read, and a Put per
// audit entry that may not overwrite an existing one.
func (t *transaction) writeItems() ([]types.TransactWriteItem, error) {
	var items []types.TransactWriteItem

	for _, id := range sortedKeys(t.requestStates) {
		state := t.requestStates[id]
		cond, values := state.condition("id")
		req, written := t.putRequests[id]
		if !written {
			items = append(items, types.TransactWriteItem{ConditionCheck: &types.ConditionCheck{
				TableName:                 aws.String(t.store.Tables.Requests),
				Key:                       map[string]types.AttributeValue{"id": &types.AttributeValueMemberS{Value: id}},
				ConditionExpression:       aws.String(cond),
				ExpressionAttributeValues: values,
			}})
			continue
		}
		av, err := attributevalue.MarshalMap(newRequestItem(req, state.version+1))
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request %s: %w", id, err)
		}
		items = append(items, types.TransactWriteItem{Put: &types.Put{
			TableName:                 aws.String(t.store.Tables.Requests),
			Item:                      av,
			ConditionExpression:       aws.String(cond),
			ExpressionAttributeValues: values,
		}})
	}

	for _, userID := range sortedKeys(t.walletStates) {
		state := t.walletStates[userID]
		cond, values := state.condition("user_id")
		w, written := t.putWallets[userID]
		if !written {
			items = append(items, types.TransactWriteItem{ConditionCheck: &types.ConditionCheck{
				TableName:                 aws.String(t.store.Tables.Wallets),
				Key:                       map[string]types.AttributeValue{"user_id": &types.AttributeValueMemberS{Value: userID}},
				ConditionExpression:       aws.String(cond),
				ExpressionAttributeValues: values,
			}})
			continue
		}
		av, err := attributevalue.MarshalMap(newWalletItem(w, state.version+1))
		if err != nil {
			return nil, fmt.Errorf("failed to marshal wallet %s: %w", userID, err)
		}
		items = append(items, types.TransactWriteItem{Put: &types.Put{
			TableName:                 aws.String(t.store.Tables.Wallets),
			Item:                      av,
			ConditionExpression:       aws.String(cond),
			ExpressionAttributeValues: values,
		}})
	}

	for _, e := range t.audit {
		av, err := attributevalue.MarshalMap(newAuditItem(e))
		if err != nil {
			return nil, fmt.Errorf("failed to marshal audit entry: %w", err)
		}
		items = append(items, types.TransactWriteItem{Put: &types.Put{
			TableName:           aws.String(t.store.Tables.Audit),
			Item:                av,
			ConditionExpression: aws.String("attribute_not_exists(entry_id)"),
		}})
	}

	return items, nil
}

// isConflict reports whether a TransactWriteItems error means another writer
// got there first, so the body should be re-run on fresh reads.
func isConflict(err error) bool {
	var tce *types.TransactionCanceledException
	if errors.As(err, &tce) {
		for _, reason := range tce.CancellationReasons {
			switch aws.ToString(reason.Code) {
			case "ConditionalCheckFailed", "TransactionConflict":
				return true
			}
		}
		return false
	}
	var conflict *types.TransactionConflictException
	if errors.As(err, &conflict) {
		return true
	}
	var inProgress *types.TransactionInProgressException
	return errors.As(err, &inProgress)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
