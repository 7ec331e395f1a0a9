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

// GetWallet retrieves a user's wallet. A user without a stored wallet has
// an all-zero one.
func (s *Store) GetWallet(ctx context.Context, userID string) (*models.Wallet, error) {
	w, _, err := s.loadWallet(ctx, userID)
	return w, err
}

func (s *Store) loadWallet(ctx context.Context, userID string) (*models.Wallet, docState, error) {
	result, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.Tables.Wallets),
		Key:            map[string]types.AttributeValue{"user_id": &types.AttributeValueMemberS{Value: userID}},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, docState{}, fmt.Errorf("failed to get wallet from DynamoDB: %w", err)
	}
	if result.Item == nil {
		return models.NewWallet(userID), docState{}, nil
	}

	var item walletItem
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return nil, docState{}, fmt.Errorf("failed to unmarshal wallet %s: %v: %w", userID, err, storage.ErrMalformedRecord)
	}
	w, err := item.toModel()
	if err != nil {
		return nil, docState{}, err
	}
	return w, docState{exists: true, version: item.Version}, nil
}
