package dynamodb

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/settlement-console/pkg/models"
	"github.com/chris/settlement-console/pkg/storage"
)

const (
	requestStatusGSI = "status-created_at-index"
	auditTargetGSI   = "target_id-created_at-index"
)

// ListRequests pages through requests. With a status filter it queries the
// status GSI newest first; otherwise it scans the table. Direction and review
// filters, and the creation cutoff of a scan, are applied server side after the page is read, so a page may hold
// fewer items than the limit while a cursor is still returned.
func (s *Store) ListRequests(ctx context.Context, filter storage.RequestFilter) (*storage.RequestPage, error) {
	startKey, err := decodeCursor(filter.Cursor)
	if err != nil {
		return nil, err
	}
	limit := filter.PageSize()

	names := map[string]string{}
	values := map[string]types.AttributeValue{}
	var filters []string
	if filter.Direction != "" {
		names["#direction"] = "direction"
		values[":direction"] = &types.AttributeValueMemberS{Value: string(filter.Direction)}
		filters = append(filters, "#direction = :direction")
	}
	if filter.ReviewedBefore != nil {
		reviewed, err := filter.ReviewedBefore.UTC().MarshalText()
		if err != nil {
			return nil, fmt.Errorf("failed to marshal review cutoff: %w", err)
		}
		values[":reviewed_before"] = &types.AttributeValueMemberS{Value: string(reviewed)}
		filters = append(filters, "reviewed_at < :reviewed_before")
	}

	var rawItems []map[string]types.AttributeValue
	var lastKey map[string]types.AttributeValue

	if filter.Status != "" {
		names["#status"] = "status"
		values[":status"] = &types.AttributeValueMemberS{Value: string(filter.Status)}
		keyCond := "#status = :status"
		if filter.CreatedBefore != nil {
			before, err := filter.CreatedBefore.UTC().MarshalText()
			if err != nil {
				return nil, fmt.Errorf("failed to marshal cutoff time: %w", err)
			}
			values[":before"] = &types.AttributeValueMemberS{Value: string(before)}
			keyCond += " AND created_at < :before"
		}

		input := &dynamodb.QueryInput{
			TableName:                 aws.String(s.Tables.Requests),
			IndexName:                 aws.String(requestStatusGSI),
			KeyConditionExpression:    aws.String(keyCond),
			ExpressionAttributeNames:  names,
			ExpressionAttributeValues: values,
			ScanIndexForward:          aws.Bool(false),
			Limit:                     aws.Int32(limit),
			ExclusiveStartKey:         startKey,
		}
		if len(filters) > 0 {
			input.FilterExpression = aws.String(strings.Join(filters, " AND "))
		}
		result, err := s.Client.Query(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("failed to query requests by status: %w", err)
		}
		rawItems, lastKey = result.Items, result.LastEvaluatedKey
	} else {
		if filter.CreatedBefore != nil {
			before, err := filter.CreatedBefore.UTC().MarshalText()
			if err != nil {
				return nil, fmt.Errorf("failed to marshal cutoff time: %w", err)
			}
			values[":before"] = &types.AttributeValueMemberS{Value: string(before)}
			filters = append(filters, "created_at < :before")
		}

		input := &dynamodb.ScanInput{
			TableName:         aws.String(s.Tables.Requests),
			Limit:             aws.Int32(limit),
			ExclusiveStartKey: startKey,
		}
		if len(filters) > 0 {
			input.FilterExpression = aws.String(strings.Join(filters, " AND "))
			input.ExpressionAttributeValues = values
			if len(names) > 0 {
				input.ExpressionAttributeNames = names
			}
		}
		result, err := s.Client.Scan(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("failed to scan requests: %w", err)
		}
		rawItems, lastKey = result.Items, result.LastEvaluatedKey
	}

	var items []requestItem
	if err := attributevalue.UnmarshalListOfMaps(rawItems, &items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal requests: %w", err)
	}

	page := &storage.RequestPage{Items: make([]models.TransactionRequest, 0, len(items))}
	for i := range items {
		req, err := items[i].toModel()
		if err != nil {
			slog.WarnContext(ctx, "skipping malformed request record", "error", err)
			continue
		}
		page.Items = append(page.Items, *req)
	}
	if page.NextCursor, err = encodeCursor(lastKey); err != nil {
		return nil, err
	}
	return page, nil
}

// ListAudit pages through the audit entries of one target, oldest first.
func (s *Store) ListAudit(ctx context.Context, filter storage.AuditFilter) (*storage.AuditPage, error) {
	if filter.TargetID == "" {
		return nil, fmt.Errorf("listing audit entries requires a target id")
	}
	startKey, err := decodeCursor(filter.Cursor)
	if err != nil {
		return nil, err
	}

	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.Tables.Audit),
		IndexName:              aws.String(auditTargetGSI),
		KeyConditionExpression: aws.String("target_id = :target_id"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":target_id": &types.AttributeValueMemberS{Value: filter.TargetID},
		},
		ScanIndexForward:  aws.Bool(true),
		Limit:             aws.Int32(filter.PageSize()),
		ExclusiveStartKey: startKey,
	}
	if filter.TargetType != "" {
		input.FilterExpression = aws.String("target_type = :target_type")
		input.ExpressionAttributeValues[":target_type"] = &types.AttributeValueMemberS{Value: filter.TargetType}
	}

	result, err := s.Client.Query(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to query for audit entries: %w", err)
	}

	var items []auditItem
	if err := attributevalue.UnmarshalListOfMaps(result.Items, &items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal audit entries: %w", err)
	}

	page := &storage.AuditPage{Items: make([]models.AuditLogEntry, 0, len(items))}
	for i := range items {
		page.Items = append(page.Items, items[i].toModel())
	}
	if page.NextCursor, err = encodeCursor(result.LastEvaluatedKey); err != nil {
		return nil, err
	}
	return page, nil
}

// Cursors are the base64 JSON of a LastEvaluatedKey. Every key attribute of
// the tables and indexes used here is a string.
func encodeCursor(key map[string]types.AttributeValue) (string, error) {
	if len(key) == 0 {
		return "", nil
	}
	var plain map[string]string
	if err := attributevalue.UnmarshalMap(key, &plain); err != nil {
		return "", fmt.Errorf("failed to encode cursor: %w", err)
	}
	raw, err := json.Marshal(plain)
	if err != nil {
		return "", fmt.Errorf("failed to encode cursor: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

func decodeCursor(cursor string) (map[string]types.AttributeValue, error) {
	if cursor == "" {
		return nil, nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", storage.ErrInvalidCursor, err)
	}
	var plain map[string]string
	if err := json.Unmarshal(raw, &plain); err != nil || len(plain) == 0 {
		return nil, fmt.Errorf("%w: undecodable key", storage.ErrInvalidCursor)
	}
	key, err := attributevalue.MarshalMap(plain)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", storage.ErrInvalidCursor, err)
	}
	return key, nil
}
