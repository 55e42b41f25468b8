package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/marketing-site/internal/model"
	"github.com/ignite/marketing-site/internal/store"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	st, err := store.NewLocalStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, st.EnsureSchema(context.Background()))
	return New(st, 5*time.Second, nil)
}

// failingStore returns a fixed error from every operation.
type failingStore struct {
	err error
}

func (f *failingStore) EnsureSchema(ctx context.Context) error { return f.err }
func (f *failingStore) CreateContact(ctx context.Context, c model.Contact) error {
	return f.err
}
func (f *failingStore) CreateSubscriber(ctx context.Context, s model.Subscriber) error {
	return f.err
}
func (f *failingStore) ListContacts(ctx context.Context) ([]model.Contact, error) {
	return nil, f.err
}
func (f *failingStore) ListSubscribers(ctx context.Context) ([]model.Subscriber, error) {
	return nil, f.err
}
func (f *failingStore) Ping(ctx context.Context) error { return f.err }

func TestSubmitContact(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	company := "Acme Retail"
	in := model.ContactInput{
		Name:    "Sarah Johnson",
		Email:   "sarah@acme-retail.com",
		Company: &company,
	}

	before := time.Now().UTC()
	c, err := svc.SubmitContact(ctx, in)
	require.NoError(t, err)

	assert.NotEmpty(t, c.ID)
	assert.Equal(t, "Sarah Johnson", c.Name)
	assert.Equal(t, "sarah@acme-retail.com", c.Email)
	require.NotNil(t, c.Company)
	assert.Equal(t, "Acme Retail", *c.Company)
	assert.Nil(t, c.Phone)

	createdAt, err := time.Parse(time.RFC3339, c.CreatedAt)
	require.NoError(t, err)
	assert.WithinDuration(t, before, createdAt, 2*time.Second)

	contacts, err := svc.ListContacts(ctx)
	require.NoError(t, err)
	require.Len(t, contacts, 1)
	assert.Equal(t, c, contacts[0])
}

func TestSubmitContactValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.SubmitContact(ctx, model.ContactInput{Name: "", Email: "a@b.com"})
	var verr *model.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "name", verr.Field)

	// Validation fails fast: nothing is stored.
	contacts, err := svc.ListContacts(ctx)
	require.NoError(t, err)
	assert.Empty(t, contacts)
}

func TestSubmitContactStorageError(t *testing.T) {
	svc := New(&failingStore{err: errors.New("connection reset")}, time.Second, nil)

	_, err := svc.SubmitContact(context.Background(), model.ContactInput{Name: "A", Email: "a@b.com"})
	var serr *StorageError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "create contact", serr.Op)
}

func TestSubscribeNewsletter(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	sub, err := svc.SubscribeNewsletter(ctx, model.SubscriberInput{Email: "x@y.com"})
	require.NoError(t, err)
	assert.NotEmpty(t, sub.ID)
	assert.Equal(t, "x@y.com", sub.Email)

	subs, err := svc.ListSubscribers(ctx)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, sub, subs[0])
}

func TestSubscribeNewsletterDuplicate(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.SubscribeNewsletter(ctx, model.SubscriberInput{Email: "x@y.com"})
	require.NoError(t, err)

	_, err = svc.SubscribeNewsletter(ctx, model.SubscriberInput{Email: "x@y.com"})
	assert.ErrorIs(t, err, store.ErrDuplicateEmail)

	// Deterministic: the duplicate keeps failing on retry.
	_, err = svc.SubscribeNewsletter(ctx, model.SubscriberInput{Email: "x@y.com"})
	assert.ErrorIs(t, err, store.ErrDuplicateEmail)

	subs, err := svc.ListSubscribers(ctx)
	require.NoError(t, err)
	assert.Len(t, subs, 1)
}

func TestSubscribeNewsletterConcurrentDuplicates(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	const workers = 8
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.SubscribeNewsletter(ctx, model.SubscriberInput{Email: "race@example.com"})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, store.ErrDuplicateEmail)
		}
	}
	assert.Equal(t, 1, succeeded)
}

func TestSubscribeNewsletterValidation(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.SubscribeNewsletter(context.Background(), model.SubscriberInput{Email: "not-an-email"})
	var verr *model.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestDistinctEmailsAllSucceed(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	emails := []string{"a@example.com", "b@example.com", "c@example.com"}
	for _, email := range emails {
		_, err := svc.SubscribeNewsletter(ctx, model.SubscriberInput{Email: email})
		require.NoError(t, err)
	}

	subs, err := svc.ListSubscribers(ctx)
	require.NoError(t, err)
	assert.Len(t, subs, len(emails))
}

func TestHealthCheck(t *testing.T) {
	svc := newTestService(t)
	assert.NoError(t, svc.HealthCheck(context.Background()))

	down := New(&failingStore{err: errors.New("no route to host")}, time.Second, nil)
	err := down.HealthCheck(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestListFailuresAreStorageErrors(t *testing.T) {
	svc := New(&failingStore{err: errors.New("throttled")}, time.Second, nil)
	ctx := context.Background()

	_, err := svc.ListContacts(ctx)
	var serr *StorageError
	assert.ErrorAs(t, err, &serr)

	_, err = svc.ListSubscribers(ctx)
	assert.ErrorAs(t, err, &serr)
}
