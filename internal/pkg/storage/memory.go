package storage

import (
	"context"
	"fmt"
	"io"
	"sync"
)

type MemoryObject struct {
	Data        []byte
	ContentType string
}

// MemoryStore is an ObjectStore kept in memory.
type MemoryStore struct {
	BaseURL string
	// FailPut, when set, is returned by every Put.
	FailPut error

	mu      sync.Mutex
	objects map[string]MemoryObject
}

func NewMemoryStore(baseURL string) *MemoryStore {
	return &MemoryStore{BaseURL: baseURL, objects: make(map[string]MemoryObject)}
}

func (m *MemoryStore) Put(_ context.Context, key string, body io.Reader, size int64, contentType string) error {
	if m.FailPut != nil {
		return m.FailPut
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	if int64(len(data)) != size {
		return fmt.Errorf("short body: got %d of %d bytes", len(data), size)
	}
	m.mu.Lock()
	m.objects[key] = MemoryObject{Data: data, ContentType: contentType}
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.objects[key]; !ok {
		return fmt.Errorf("object %s not found", key)
	}
	delete(m.objects, key)
	return nil
}

func (m *MemoryStore) PublicURL(key string) string {
	return publicURL(m.BaseURL, key)
}

func (m *MemoryStore) KeyFromURL(rawURL string) (string, error) {
	return keyFromURL(m.BaseURL, rawURL)
}

func (m *MemoryStore) Object(key string) (MemoryObject, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.objects[key]
	return o, ok
}

func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}
