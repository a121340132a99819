package storage

import (
	"context"
	"errors"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	procurementapp "github.com/erp/procurement/internal/application/procurement"
)

var _ procurementapp.DocumentArchive = (*MemoryDocumentStore)(nil)

type memoryObject struct {
	data        []byte
	contentType string
}

// MemoryDocumentStore keeps documents in process memory. It backs the archive
// when object storage is disabled and in tests.
type MemoryDocumentStore struct {
	// BaseURL prefixes the URLs returned by DownloadURL
	BaseURL string

	mu      sync.RWMutex
	objects map[string]memoryObject
}

// NewMemoryDocumentStore creates an empty store
func NewMemoryDocumentStore() *MemoryDocumentStore {
	return &MemoryDocumentStore{
		BaseURL: "memory://documents",
		objects: make(map[string]memoryObject),
	}
}

// Put stores a copy of data under key
func (s *MemoryDocumentStore) Put(_ context.Context, key string, data []byte, contentType string) error {
	if key == "" {
		return errors.New("storage key is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = memoryObject{data: append([]byte(nil), data...), contentType: contentType}
	return nil
}

// Get returns a copy of the object at key
func (s *MemoryDocumentStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[key]
	if !ok {
		return nil, ErrObjectNotFound
	}
	return append([]byte(nil), obj.data...), nil
}

// ContentType returns the content type recorded for key
func (s *MemoryDocumentStore) ContentType(key string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.objects[key].contentType
}

// Exists reports whether key holds an object
func (s *MemoryDocumentStore) Exists(_ context.Context, key string) (bool, error) {
	if key == "" {
		return false, errors.New("storage key is required")
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.objects[key]
	return ok, nil
}

// Delete removes key
func (s *MemoryDocumentStore) Delete(_ context.Context, key string) error {
	if key == "" {
		return errors.New("storage key is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}

// DownloadURL returns a non-fetchable URL that names the key and its expiry
func (s *MemoryDocumentStore) DownloadURL(_ context.Context, key string, ttl time.Duration) (string, time.Time, error) {
	if key == "" {
		return "", time.Time{}, errors.New("storage key is required")
	}
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	expiresAt := time.Now().Add(ttl)
	u := strings.TrimRight(s.BaseURL, "/") + "/" + key + "?expires=" + url.QueryEscape(expiresAt.UTC().Format(time.RFC3339))
	return u, expiresAt, nil
}

// Keys lists the stored keys in order
func (s *MemoryDocumentStore) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.objects))
	for k := range s.objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
