package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ignite/marketing-site/internal/model"
)

// LocalStore keeps the contacts and newsletter collections in JSON files
// under a directory. It exists for development and tests; the email
// uniqueness invariant is enforced under the store mutex, which plays the
// role the conditional put has in the DynamoDB store.
type LocalStore struct {
	dir string

	mu          sync.RWMutex
	contacts    []model.Contact
	subscribers []model.Subscriber
	emails      map[string]bool // lowercased subscriber emails
}

// NewLocalStore creates a file-backed store rooted at dir.
func NewLocalStore(dir string) (*LocalStore, error) {
	s := &LocalStore{
		dir:         dir,
		contacts:    make([]model.Contact, 0),
		subscribers: make([]model.Subscriber, 0),
		emails:      make(map[string]bool),
	}
	return s, nil
}

// EnsureSchema creates the storage directory and loads any existing
// collections, rebuilding the email uniqueness index.
func (s *LocalStore) EnsureSchema(ctx context.Context) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("creating storage directory: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadFile("contacts", &s.contacts); err != nil {
		return err
	}
	if err := s.loadFile("newsletter", &s.subscribers); err != nil {
		return err
	}
	for _, sub := range s.subscribers {
		s.emails[strings.ToLower(sub.Email)] = true
	}
	return nil
}

// CreateContact appends a contact record. A failed save is rolled back
// so the record never shows up in later listings.
func (s *LocalStore) CreateContact(ctx context.Context, c model.Contact) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.contacts = append(s.contacts, c)
	if err := s.saveFile("contacts", s.contacts); err != nil {
		s.contacts = s.contacts[:len(s.contacts)-1]
		return err
	}
	return nil
}

// CreateSubscriber appends a subscriber record, or returns
// ErrDuplicateEmail. The check and the insert share the mutex, so the
// invariant holds under concurrent calls.
func (s *LocalStore) CreateSubscriber(ctx context.Context, sub model.Subscriber) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(sub.Email)
	if s.emails[key] {
		return ErrDuplicateEmail
	}

	s.subscribers = append(s.subscribers, sub)
	if err := s.saveFile("newsletter", s.subscribers); err != nil {
		s.subscribers = s.subscribers[:len(s.subscribers)-1]
		return err
	}
	s.emails[key] = true
	return nil
}

// ListContacts returns a copy of the contacts collection.
func (s *LocalStore) ListContacts(ctx context.Context) ([]model.Contact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]model.Contact, len(s.contacts))
	copy(result, s.contacts)
	return result, nil
}

// ListSubscribers returns a copy of the newsletter collection.
func (s *LocalStore) ListSubscribers(ctx context.Context) ([]model.Subscriber, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]model.Subscriber, len(s.subscribers))
	copy(result, s.subscribers)
	return result, nil
}

// Ping verifies the storage directory is accessible.
func (s *LocalStore) Ping(ctx context.Context) error {
	if _, err := os.Stat(s.dir); err != nil {
		return fmt.Errorf("storage directory unavailable: %w", err)
	}
	return nil
}

// saveFile writes the collection to a temp file and renames it into
// place, so a failed write never truncates previously persisted records.
func (s *LocalStore) saveFile(collection string, data interface{}) error {
	path := filepath.Join(s.dir, collection+".json")

	tmp, err := os.CreateTemp(s.dir, collection+"-*.json")
	if err != nil {
		return fmt.Errorf("writing %s: %w", collection, err)
	}
	defer os.Remove(tmp.Name())

	encoder := json.NewEncoder(tmp)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		tmp.Close()
		return fmt.Errorf("encoding %s: %w", collection, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing %s: %w", collection, err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing %s: %w", collection, err)
	}
	return nil
}

func (s *LocalStore) loadFile(collection string, target interface{}) error {
	path := filepath.Join(s.dir, collection+".json")

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("opening %s: %w", collection, err)
	}
	defer file.Close()

	if err := json.NewDecoder(file).Decode(target); err != nil {
		return fmt.Errorf("decoding %s: %w", collection, err)
	}
	return nil
}
