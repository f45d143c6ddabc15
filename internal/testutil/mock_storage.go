package testutil

import (
	"context"
	"strings"
	"sync"

	ierr "github.com/brokerdesk/brokerdesk/internal/errors"
	"github.com/brokerdesk/brokerdesk/internal/s3"
)

// MockStorage implements s3.Service in memory. Set FailUpload to make the
// next uploads fail.
type MockStorage struct {
	mu         sync.RWMutex
	objects    map[string]*s3.Object
	FailUpload bool
	deletes    []string
}

var _ s3.Service = (*MockStorage)(nil)

func NewMockStorage() *MockStorage {
	return &MockStorage{objects: make(map[string]*s3.Object)}
}

func (m *MockStorage) Upload(ctx context.Context, obj *s3.Object) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailUpload {
		return "", ierr.NewErrorf("upload %s failed", obj.Key).
			WithHint("Failed to store the file").
			Mark(ierr.ErrHTTPClient)
	}

	cp := *obj
	cp.Data = append([]byte(nil), obj.Data...)
	m.objects[obj.Key] = &cp
	return m.url(obj.Key), nil
}

func (m *MockStorage) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	obj, ok := m.objects[key]
	if !ok {
		return nil, notFound(key)
	}
	return append([]byte(nil), obj.Data...), nil
}

func (m *MockStorage) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.deletes = append(m.deletes, key)
	delete(m.objects, key)
	return nil
}

func (m *MockStorage) Exists(ctx context.Context, key string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.objects[key]
	return ok, nil
}

func (m *MockStorage) GetPresignedURL(ctx context.Context, key string) (string, error) {
	return m.url(key) + "?X-Amz-Signature=test", nil
}

// Keys returns the stored keys under prefix
func (m *MockStorage) Keys(prefix string) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var keys []string
	for k := range m.objects {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	return keys
}

// Deleted returns every key Delete was called with
func (m *MockStorage) Deleted() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.deletes...)
}

func (m *MockStorage) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects = make(map[string]*s3.Object)
	m.deletes = nil
	m.FailUpload = false
}

func (m *MockStorage) url(key string) string {
	return "https://storage.test/" + key
}
