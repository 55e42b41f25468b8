package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/ignite/marketing-site/internal/model"
)

// Partition keys for the two collections. Records live in one table:
// contacts under PK "CONTACT" keyed by id, subscribers under PK
// "SUBSCRIBER" keyed by lowercased email. The subscriber sort key IS the
// uniqueness constraint — a conditional put on it makes the duplicate
// check atomic with the insert.
const (
	pkContact    = "CONTACT"
	pkSubscriber = "SUBSCRIBER"
)

// DynamoStore provides DynamoDB-backed persistence for the contacts and
// newsletter collections.
type DynamoStore struct {
	client    *dynamodb.Client
	tableName string
}

// contactItem wraps a contact record with the table keys. PK/SK are
// store-internal and stripped before records are returned to callers.
type contactItem struct {
	PK string `dynamodbav:"PK"`
	SK string `dynamodbav:"SK"`
	model.Contact
}

type subscriberItem struct {
	PK string `dynamodbav:"PK"`
	SK string `dynamodbav:"SK"`
	model.Subscriber
}

// NewDynamoStore creates a DynamoDB-backed store.
func NewDynamoStore(ctx context.Context, tableName, region, profile string) (*DynamoStore, error) {
	var cfg aws.Config
	var err error

	if profile != "" {
		cfg, err = awsconfig.LoadDefaultConfig(ctx,
			awsconfig.WithRegion(region),
			awsconfig.WithSharedConfigProfile(profile),
		)
	} else {
		cfg, err = awsconfig.LoadDefaultConfig(ctx,
			awsconfig.WithRegion(region),
		)
	}
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	return &DynamoStore{
		client:    dynamodb.NewFromConfig(cfg),
		tableName: tableName,
	}, nil
}

// EnsureSchema creates the table if it does not exist and waits for it to
// become ACTIVE. The composite (PK, SK) key carries the subscriber-email
// uniqueness constraint, so subscriptions must not be accepted before
// this succeeds.
func (s *DynamoStore) EnsureSchema(ctx context.Context) error {
	_, err := s.client.DescribeTable(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(s.tableName),
	})
	if err == nil {
		return nil
	}
	var notFound *types.ResourceNotFoundException
	if !errors.As(err, &notFound) {
		return fmt.Errorf("describing table %q: %w", s.tableName, err)
	}

	_, err = s.client.CreateTable(ctx, &dynamodb.CreateTableInput{
		TableName: aws.String(s.tableName),
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String("PK"), AttributeType: types.ScalarAttributeTypeS},
			{AttributeName: aws.String("SK"), AttributeType: types.ScalarAttributeTypeS},
		},
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String("PK"), KeyType: types.KeyTypeHash},
			{AttributeName: aws.String("SK"), KeyType: types.KeyTypeRange},
		},
		BillingMode: types.BillingModePayPerRequest,
	})
	if err != nil {
		// Another instance may have created it between Describe and Create.
		var inUse *types.ResourceInUseException
		if errors.As(err, &inUse) {
			return s.waitForTable(ctx)
		}
		return fmt.Errorf("creating table %q: %w", s.tableName, err)
	}

	return s.waitForTable(ctx)
}

func (s *DynamoStore) waitForTable(ctx context.Context) error {
	waiter := dynamodb.NewTableExistsWaiter(s.client)
	err := waiter.Wait(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(s.tableName),
	}, 2*time.Minute)
	if err != nil {
		return fmt.Errorf("waiting for table %q: %w", s.tableName, err)
	}
	return nil
}

// CreateContact stores a contact record. Contacts are keyed by id, so
// repeat submissions from the same email each produce a new record.
func (s *DynamoStore) CreateContact(ctx context.Context, c model.Contact) error {
	av, err := attributevalue.MarshalMap(contactItem{
		PK:      pkContact,
		SK:      c.ID,
		Contact: c,
	})
	if err != nil {
		return fmt.Errorf("marshaling contact: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      av,
	})
	if err != nil {
		return fmt.Errorf("putting contact: %w", err)
	}
	return nil
}

// CreateSubscriber stores a subscriber record, keyed by lowercased email.
// The conditional put fails atomically when the email is already present,
// so at most one of two concurrent identical subscriptions succeeds.
func (s *DynamoStore) CreateSubscriber(ctx context.Context, sub model.Subscriber) error {
	av, err := attributevalue.MarshalMap(subscriberItem{
		PK:         pkSubscriber,
		SK:         strings.ToLower(sub.Email),
		Subscriber: sub,
	})
	if err != nil {
		return fmt.Errorf("marshaling subscriber: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(PK)"),
	})
	if err != nil {
		var condFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condFailed) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("putting subscriber: %w", err)
	}
	return nil
}

// ListContacts returns every contact record. Order follows the sort key
// scan order and is not part of the contract.
func (s *DynamoStore) ListContacts(ctx context.Context) ([]model.Contact, error) {
	contacts := make([]model.Contact, 0)
	err := s.queryAll(ctx, pkContact, func(item map[string]types.AttributeValue) error {
		var ci contactItem
		if err := attributevalue.UnmarshalMap(item, &ci); err != nil {
			return fmt.Errorf("unmarshaling contact: %w", err)
		}
		contacts = append(contacts, ci.Contact)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return contacts, nil
}

// ListSubscribers returns every subscriber record.
func (s *DynamoStore) ListSubscribers(ctx context.Context) ([]model.Subscriber, error) {
	subs := make([]model.Subscriber, 0)
	err := s.queryAll(ctx, pkSubscriber, func(item map[string]types.AttributeValue) error {
		var si subscriberItem
		if err := attributevalue.UnmarshalMap(item, &si); err != nil {
			return fmt.Errorf("unmarshaling subscriber: %w", err)
		}
		subs = append(subs, si.Subscriber)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return subs, nil
}

// queryAll drains every page of a partition.
func (s *DynamoStore) queryAll(ctx context.Context, pk string, visit func(map[string]types.AttributeValue) error) error {
	var startKey map[string]types.AttributeValue
	for {
		result, err := s.client.Query(ctx, &dynamodb.QueryInput{
			TableName:              aws.String(s.tableName),
			KeyConditionExpression: aws.String("PK = :pk"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":pk": &types.AttributeValueMemberS{Value: pk},
			},
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return fmt.Errorf("querying %s partition: %w", pk, err)
		}
		for _, item := range result.Items {
			if err := visit(item); err != nil {
				return err
			}
		}
		if len(result.LastEvaluatedKey) == 0 {
			return nil
		}
		startKey = result.LastEvaluatedKey
	}
}

// Ping verifies the table is reachable. DescribeTable is a control-plane
// round-trip that does not consume read capacity.
func (s *DynamoStore) Ping(ctx context.Context) error {
	_, err := s.client.DescribeTable(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(s.tableName),
	})
	if err != nil {
		return fmt.Errorf("pinging table %q: %w", s.tableName, err)
	}
	return nil
}
