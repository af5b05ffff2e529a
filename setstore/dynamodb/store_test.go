package dynamodb

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/hupe1980/idset/setstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockDDBClient is an in-memory DynamoDB mock for testing.
// Scan returns pageSize items per page to exercise pagination.
type mockDDBClient struct {
	mu       sync.RWMutex
	items    map[string]map[string]types.AttributeValue
	pageSize int
	scans    int
	fail     error
}

func newMockDDBClient() *mockDDBClient {
	return &mockDDBClient{
		items:    make(map[string]map[string]types.AttributeValue),
		pageSize: 2,
	}
}

func keyOf(item map[string]types.AttributeValue) string {
	return item[attrName].(*types.AttributeValueMemberS).Value
}

func (m *mockDDBClient) GetItem(_ context.Context, params *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.fail != nil {
		return nil, m.fail
	}
	return &dynamodb.GetItemOutput{Item: m.items[keyOf(params.Key)]}, nil
}

func (m *mockDDBClient) PutItem(_ context.Context, params *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if b, ok := params.Item[attrBlob].(*types.AttributeValueMemberB); ok && len(b.Value) == 0 {
		return nil, errors.New("ValidationException: binary attribute is empty")
	}
	m.items[keyOf(params.Item)] = params.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (m *mockDDBClient) DeleteItem(_ context.Context, params *dynamodb.DeleteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, keyOf(params.Key))
	return &dynamodb.DeleteItemOutput{}, nil
}

func (m *mockDDBClient) Scan(_ context.Context, params *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scans++

	prefix := ""
	if p, ok := params.ExpressionAttributeValues[":p"].(*types.AttributeValueMemberS); ok {
		prefix = p.Value
	}

	keys := make([]string, 0, len(m.items))
	for k := range m.items {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	start := 0
	if params.ExclusiveStartKey != nil {
		last := keyOf(params.ExclusiveStartKey)
		start = sort.SearchStrings(keys, last) + 1
	}
	end := min(start+m.pageSize, len(keys))

	out := &dynamodb.ScanOutput{}
	for _, k := range keys[start:end] {
		if strings.HasPrefix(k, prefix) {
			out.Items = append(out.Items, map[string]types.AttributeValue{
				attrName: &types.AttributeValueMemberS{Value: k},
			})
		}
	}
	if end < len(keys) {
		out.LastEvaluatedKey = map[string]types.AttributeValue{
			attrName: &types.AttributeValueMemberS{Value: keys[end-1]},
		}
	}
	return out, nil
}

func TestStore_PutGet(t *testing.T) {
	client := newMockDDBClient()
	store := NewStore(client, "sets")
	ctx := context.Background()

	_, err := store.Get(ctx, "missing")
	require.ErrorIs(t, err, setstore.ErrNotFound)

	blob := []byte{1, 0, 0, 0, 0, 0, 0, 0}
	require.NoError(t, store.Put(ctx, "daily/a", blob))

	got, err := store.Get(ctx, "daily/a")
	require.NoError(t, err)
	assert.Equal(t, blob, got)

	// The empty set is stored without a blob attribute.
	require.NoError(t, store.Put(ctx, "daily/empty", []byte{}))
	got, err = store.Get(ctx, "daily/empty")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	require.NoError(t, store.Delete(ctx, "daily/a"))
	require.NoError(t, store.Delete(ctx, "daily/a"))
	_, err = store.Get(ctx, "daily/a")
	require.ErrorIs(t, err, setstore.ErrNotFound)
}

func TestStore_List(t *testing.T) {
	client := newMockDDBClient()
	store := NewStore(client, "sets")
	ctx := context.Background()

	for _, name := range []string{"daily/3", "weekly/1", "daily/1", "daily/2", "monthly/1"} {
		require.NoError(t, store.Put(ctx, name, []byte{1}))
	}

	names, err := store.List(ctx, "daily/")
	require.NoError(t, err)
	assert.Equal(t, []string{"daily/1", "daily/2", "daily/3"}, names)
	assert.Equal(t, 3, client.scans, "five items in pages of two")

	all, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 5)
}

func TestStore_WrongAttributeType(t *testing.T) {
	client := newMockDDBClient()
	client.items["bad"] = map[string]types.AttributeValue{
		attrName: &types.AttributeValueMemberS{Value: "bad"},
		attrBlob: &types.AttributeValueMemberS{Value: "not binary"},
	}

	_, err := NewStore(client, "sets").Get(context.Background(), "bad")
	require.Error(t, err)
	assert.NotErrorIs(t, err, setstore.ErrNotFound)
}

func TestStore_ClientError(t *testing.T) {
	client := newMockDDBClient()
	client.fail = errors.New("throttled")

	_, err := NewStore(client, "sets").Get(context.Background(), "a")
	require.ErrorIs(t, err, client.fail)
}
