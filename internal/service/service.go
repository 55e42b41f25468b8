// Package service implements the submission service: contact-form
// submissions and newsletter subscriptions, validated at the boundary and
// persisted to the document store. Handlers stay thin; every operation
// here is a single validate → persist-or-read → respond cycle.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ignite/marketing-site/internal/model"
	"github.com/ignite/marketing-site/internal/pkg/logger"
	"github.com/ignite/marketing-site/internal/store"
)

// ErrUnavailable reports that the document store failed its health
// round-trip. Surfaced only by HealthCheck; load balancers depend on it
// being distinct from a generic storage failure.
var ErrUnavailable = errors.New("service unavailable")

// StorageError wraps an unexpected persistence failure. The operation and
// cause are logged server-side; callers only ever see a generic message.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *StorageError) Unwrap() error { return e.Err }

const healthPingTimeout = 3 * time.Second

// Notifier receives best-effort notifications about new contacts.
type Notifier interface {
	ContactSubmitted(ctx context.Context, c model.Contact)
}

// Service handles submissions against a shared document store. It holds
// no per-request state, so a single instance serves all concurrent
// requests.
type Service struct {
	store    store.Store
	timeout  time.Duration
	notifier Notifier
}

// New creates a Service. timeout bounds every store call; notifier may be
// nil to disable contact notifications.
func New(st store.Store, timeout time.Duration, notifier Notifier) *Service {
	return &Service{
		store:    st,
		timeout:  timeout,
		notifier: notifier,
	}
}

// SubmitContact validates a contact-form submission, assigns a fresh id
// and creation time, and persists it. Returns the stored record.
func (s *Service) SubmitContact(ctx context.Context, in model.ContactInput) (model.Contact, error) {
	if err := in.Validate(); err != nil {
		return model.Contact{}, err
	}

	c := model.Contact{
		ID:           uuid.NewString(),
		Name:         in.Name,
		Email:        in.Email,
		Company:      in.Company,
		Phone:        in.Phone,
		Message:      in.Message,
		PlanInterest: in.PlanInterest,
		CreatedAt:    time.Now().UTC().Format(time.RFC3339),
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.store.CreateContact(ctx, c); err != nil {
		logger.Error("contact submission failed", "op", "create_contact", "email", c.Email, "err", err)
		return model.Contact{}, &StorageError{Op: "create contact", Err: err}
	}
	logger.Info("contact form submitted", "email", c.Email)

	if s.notifier != nil {
		s.notifier.ContactSubmitted(ctx, c)
	}

	return c, nil
}

// SubscribeNewsletter validates and persists a newsletter opt-in. The
// store enforces email uniqueness atomically with the insert; a duplicate
// surfaces as store.ErrDuplicateEmail, never as a second record.
func (s *Service) SubscribeNewsletter(ctx context.Context, in model.SubscriberInput) (model.Subscriber, error) {
	if err := in.Validate(); err != nil {
		return model.Subscriber{}, err
	}

	sub := model.Subscriber{
		ID:        uuid.NewString(),
		Email:     in.Email,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.store.CreateSubscriber(ctx, sub); err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			logger.Info("duplicate newsletter subscription rejected", "email", sub.Email)
			return model.Subscriber{}, err
		}
		logger.Error("newsletter subscription failed", "op", "create_subscriber", "email", sub.Email, "err", err)
		return model.Subscriber{}, &StorageError{Op: "create subscriber", Err: err}
	}
	logger.Info("newsletter subscription created", "email", sub.Email)

	return sub, nil
}

// ListContacts returns all stored contacts in storage-native order.
func (s *Service) ListContacts(ctx context.Context) ([]model.Contact, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	contacts, err := s.store.ListContacts(ctx)
	if err != nil {
		logger.Error("listing contacts failed", "op", "list_contacts", "err", err)
		return nil, &StorageError{Op: "list contacts", Err: err}
	}
	return contacts, nil
}

// ListSubscribers returns all stored subscribers in storage-native order.
func (s *Service) ListSubscribers(ctx context.Context) ([]model.Subscriber, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	subs, err := s.store.ListSubscribers(ctx)
	if err != nil {
		logger.Error("listing subscribers failed", "op", "list_subscribers", "err", err)
		return nil, &StorageError{Op: "list subscribers", Err: err}
	}
	return subs, nil
}

// HealthCheck verifies the document store is reachable with a lightweight
// round-trip. Any failure maps to ErrUnavailable.
func (s *Service) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, healthPingTimeout)
	defer cancel()

	if err := s.store.Ping(ctx); err != nil {
		logger.Error("health check failed", "err", err)
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}
