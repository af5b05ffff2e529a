package dynamodb

import (
	"context"
	"fmt"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/hupe1980/idset/setstore"
)

const (
	attrName = "name"
	attrBlob = "blob"
)

// Client is the interface for DynamoDB operations. *dynamodb.Client satisfies it.
type Client interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

// Store implements setstore.Store on a DynamoDB table.
type Store struct {
	client    Client
	tableName string
}

var _ setstore.Store = (*Store)(nil)

// New creates a store from the default AWS configuration chain.
func New(ctx context.Context, tableName string, optFns ...func(*config.LoadOptions) error) (*Store, error) {
	cfg, err := config.LoadDefaultConfig(ctx, optFns...)
	if err != nil {
		return nil, fmt.Errorf("dynamodb: load aws config: %w", err)
	}
	return NewStore(dynamodb.NewFromConfig(cfg), tableName), nil
}

// NewStore creates a store on an existing client.
func NewStore(client Client, tableName string) *Store {
	return &Store{client: client, tableName: tableName}
}

func (s *Store) key(name string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		attrName: &types.AttributeValueMemberS{Value: name},
	}
}

// Get reads a set with a strongly consistent read.
func (s *Store) Get(ctx context.Context, name string) ([]byte, error) {
	resp, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.tableName),
		Key:            s.key(name),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	if resp.Item == nil {
		return nil, setstore.ErrNotFound
	}

	// Binary attributes cannot be empty, so the empty set has no blob attribute.
	attr, ok := resp.Item[attrBlob]
	if !ok {
		return []byte{}, nil
	}
	b, ok := attr.(*types.AttributeValueMemberB)
	if !ok {
		return nil, fmt.Errorf("dynamodb: attribute %q of %q is not binary", attrBlob, name)
	}
	out := make([]byte, len(b.Value))
	copy(out, b.Value)
	return out, nil
}

// Put writes a set, replacing any previous item.
func (s *Store) Put(ctx context.Context, name string, data []byte) error {
	item := s.key(name)
	if len(data) > 0 {
		item[attrBlob] = &types.AttributeValueMemberB{Value: data}
	}

	_, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("failed to put item: %w", err)
	}
	return nil
}

// Delete removes a set. Deleting a missing item succeeds.
func (s *Store) Delete(ctx context.Context, name string) error {
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.tableName),
		Key:       s.key(name),
	})
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	return nil
}

// List scans the table for names with the given prefix.
func (s *Store) List(ctx context.Context, prefix string) ([]string, error) {
	input := &dynamodb.ScanInput{
		TableName:            aws.String(s.tableName),
		ProjectionExpression: aws.String("#n"),
		ExpressionAttributeNames: map[string]string{
			"#n": attrName,
		},
	}
	if prefix != "" {
		input.FilterExpression = aws.String("begins_with(#n, :p)")
		input.ExpressionAttributeValues = map[string]types.AttributeValue{
			":p": &types.AttributeValueMemberS{Value: prefix},
		}
	}

	var names []string
	paginator := dynamodb.NewScanPaginator(s.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to scan: %w", err)
		}
		for _, item := range page.Items {
			if v, ok := item[attrName].(*types.AttributeValueMemberS); ok {
				names = append(names, v.Value)
			}
		}
	}

	sort.Strings(names)
	return names, nil
}
