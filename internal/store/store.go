package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/ignite/marketing-site/internal/config"
	"github.com/ignite/marketing-site/internal/model"
)

// ErrDuplicateEmail is returned by CreateSubscriber when a subscriber with
// the same email already exists. The uniqueness check happens atomically
// with the insert, so concurrent identical subscriptions cannot both
// succeed.
var ErrDuplicateEmail = errors.New("email already subscribed")

// Store is the document store holding the contacts and newsletter
// collections. Implementations must be safe for concurrent use; the store
// is the only shared mutable state in the process.
type Store interface {
	// EnsureSchema performs one-time idempotent setup: the collections and
	// the subscriber-email uniqueness constraint must exist before the
	// service accepts requests. Safe to call on every process start.
	EnsureSchema(ctx context.Context) error

	// CreateContact persists a new contact record. No deduplication:
	// multiple contacts may share the same email.
	CreateContact(ctx context.Context, c model.Contact) error

	// CreateSubscriber persists a new subscriber, or returns
	// ErrDuplicateEmail if one with the same email exists.
	CreateSubscriber(ctx context.Context, s model.Subscriber) error

	// ListContacts returns all contact records in storage-native order.
	// An empty collection yields an empty slice, not an error.
	ListContacts(ctx context.Context) ([]model.Contact, error)

	// ListSubscribers returns all subscriber records in storage-native order.
	ListSubscribers(ctx context.Context) ([]model.Subscriber, error)

	// Ping verifies the store is reachable with a lightweight round-trip.
	Ping(ctx context.Context) error
}

// New creates a Store from configuration. Type "dynamodb" is the
// production store; "local" keeps JSON files on disk for development
// and tests.
func New(ctx context.Context, cfg config.StorageConfig) (Store, error) {
	switch cfg.Type {
	case "dynamodb":
		s, err := NewDynamoStore(ctx, cfg.DynamoDBTable, cfg.AWSRegion, cfg.GetAWSProfile())
		if err != nil {
			return nil, fmt.Errorf("initializing DynamoDB store: %w", err)
		}
		return s, nil
	case "local":
		return NewLocalStore(cfg.LocalPath)
	default:
		return nil, fmt.Errorf("unknown storage type %q", cfg.Type)
	}
}
