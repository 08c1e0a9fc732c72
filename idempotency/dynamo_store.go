package idempotency

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DefaultTTL is how long a key is remembered. DynamoDB TTL on expires_at removes
// the record some time after it lapses; expired records are treated as absent.
const DefaultTTL = 24 * time.Hour

// LeaseTTL bounds how long a pending key stays locked. A holder that crashed
// before Complete or Release stops blocking retries once its lease lapses.
const LeaseTTL = time.Minute

const (
	statusPending  = "pending"
	statusComplete = "complete"
)

// Client is the subset of the DynamoDB API the store uses.
type Client interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

// DynamoStore records which order an Idempotency-Key produced.
type DynamoStore struct {
	client Client
	table  string
	ttl    time.Duration
	lease  time.Duration
	now    func() time.Time
}

// NewDynamoStore creates a store backed by table, keyed on idempotency_key.
func NewDynamoStore(client Client, table string, ttl time.Duration) *DynamoStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &DynamoStore{client: client, table: table, ttl: ttl, lease: LeaseTTL, now: time.Now}
}

type record struct {
	Key        string `dynamodbav:"idempotency_key"`
	Status     string `dynamodbav:"status"`
	OrderID    string `dynamodbav:"order_id,omitempty"`
	ExpiresAt  int64  `dynamodbav:"expires_at"`
	LeaseUntil int64  `dynamodbav:"lease_until,omitempty"`
}

func (s *DynamoStore) key(k string) (map[string]types.AttributeValue, error) {
	key, err := attributevalue.MarshalMap(map[string]string{"idempotency_key": k})
	if err != nil {
		return nil, fmt.Errorf("marshal key: %w", err)
	}
	return key, nil
}

// Reserve claims key with a conditional put. When the key is already held it
// returns the recorded order id, empty while the holder is still running.
// A pending record whose lease has lapsed is taken over.
func (s *DynamoStore) Reserve(ctx context.Context, k string) (string, bool, error) {
	now := s.now()
	item, err := attributevalue.MarshalMap(record{
		Key:        k,
		Status:     statusPending,
		ExpiresAt:  now.Add(s.ttl).Unix(),
		LeaseUntil: now.Add(s.lease).Unix(),
	})
	if err != nil {
		return "", false, fmt.Errorf("marshal record: %w", err)
	}
	nowAV, _ := attributevalue.Marshal(now.Unix())
	pendingAV, _ := attributevalue.Marshal(statusPending)

	cond := "attribute_not_exists(idempotency_key) OR expires_at < :now OR (#status = :pending AND lease_until < :now)"
	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           &s.table,
		Item:                item,
		ConditionExpression: &cond,
		ExpressionAttributeNames: map[string]string{
			"#status": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":now":     nowAV,
			":pending": pendingAV,
		},
	})
	if err == nil {
		return "", true, nil
	}

	var ccf *types.ConditionalCheckFailedException
	if !errors.As(err, &ccf) {
		return "", false, fmt.Errorf("dynamodb PutItem failed: %w", err)
	}

	existing, err := s.get(ctx, k)
	if err != nil {
		return "", false, err
	}
	if existing == nil {
		// released between the put and the read
		return s.Reserve(ctx, k)
	}
	return existing.OrderID, false, nil
}

func (s *DynamoStore) get(ctx context.Context, k string) (*record, error) {
	key, err := s.key(k)
	if err != nil {
		return nil, err
	}
	consistent := true
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      &s.table,
		Key:            key,
		ConsistentRead: &consistent,
	})
	if err != nil {
		return nil, fmt.Errorf("dynamodb GetItem failed: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	var rec record
	if err := attributevalue.UnmarshalMap(out.Item, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal record: %w", err)
	}
	return &rec, nil
}

// Complete attaches the created order to key.
func (s *DynamoStore) Complete(ctx context.Context, k, orderID string) error {
	key, err := s.key(k)
	if err != nil {
		return err
	}
	orderAV, _ := attributevalue.Marshal(orderID)
	statusAV, _ := attributevalue.Marshal(statusComplete)

	expr := "SET #status = :status, order_id = :order"
	_, err = s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:        &s.table,
		Key:              key,
		UpdateExpression: &expr,
		ExpressionAttributeNames: map[string]string{
			"#status": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":status": statusAV,
			":order":  orderAV,
		},
	})
	if err != nil {
		return fmt.Errorf("dynamodb UpdateItem failed: %w", err)
	}
	return nil
}

// Release forgets key so a failed request can be retried with it.
func (s *DynamoStore) Release(ctx context.Context, k string) error {
	key, err := s.key(k)
	if err != nil {
		return err
	}
	if _, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{TableName: &s.table, Key: key}); err != nil {
		return fmt.Errorf("dynamodb DeleteItem failed: %w", err)
	}
	return nil
}
