package dynamodb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/settlement-console/pkg/models"
	"github.com/chris/settlement-console/pkg/storage"
)

// GetRequest retrieves a transaction request from DynamoDB by its ID.
func (s *Store) GetRequest(ctx context.Context, id string) (*models.TransactionRequest, error) {
	req, _, err := s.loadRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, fmt.Errorf("request %s: %w", id, storage.ErrNotFound)
	}
	return req, nil
}

// loadRequest does a strongly consistent read. An absent request is returned as nil.
func (s *Store) loadRequest(ctx context.Context, id string) (*models.TransactionRequest, docState, error) {
	result, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.Tables.Requests),
		Key:            map[string]types.AttributeValue{"id": &types.AttributeValueMemberS{Value: id}},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, docState{}, fmt.Errorf("failed to get request from DynamoDB: %w", err)
	}
	if result.Item == nil {
		return nil, docState{}, nil
	}

	var item requestItem
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return nil, docState{}, fmt.Errorf("failed to unmarshal request %s: %v: %w", id, err, storage.ErrMalformedRecord)
	}
	req, err := item.toModel()
	if err != nil {
		return nil, docState{}, err
	}
	return req, docState{exists: true, version: item.Version}, nil
}

// GetDisplayName reads the display name of a user from the users table.
func (s *Store) GetDisplayName(ctx context.Context, userID string) (string, error) {
	if s.Tables.Users == "" {
		return "", fmt.Errorf("profile %s: %w", userID, storage.ErrNotFound)
	}
	result, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:            aws.String(s.Tables.Users),
		Key:                  map[string]types.AttributeValue{"user_id": &types.AttributeValueMemberS{Value: userID}},
		ProjectionExpression: aws.String("display_name"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to get user profile from DynamoDB: %w", err)
	}
	var profile struct {
		DisplayName string `dynamodbav:"display_name"`
	}
	if result.Item != nil {
		if err := attributevalue.UnmarshalMap(result.Item, &profile); err != nil {
			return "", fmt.Errorf("failed to unmarshal user profile: %w", err)
		}
	}
	if profile.DisplayName == "" {
		return "", fmt.Errorf("profile %s: %w", userID, storage.ErrNotFound)
	}
	return profile.DisplayName, nil
}
