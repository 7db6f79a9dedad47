package store

import (
	"bytes"
	"context"
	"sync"
)

type blob struct {
	data []byte
	mime string
}

// Memory keeps everything in process memory. It is safe for concurrent use.
type Memory struct {
	mu          sync.Mutex
	collections map[string][]byte
	blobs       map[string]blob
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		collections: make(map[string][]byte),
		blobs:       make(map[string]blob),
	}
}

// Load returns a copy of the stored collection.
func (m *Memory) Load(_ context.Context, collection string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return bytes.Clone(m.collections[collection]), nil
}

// Save stores copies of all documents.
func (m *Memory) Save(_ context.Context, docs ...Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, d := range docs {
		m.collections[d.Collection] = bytes.Clone(d.Data)
	}
	return nil
}

// PutBlob stores a copy of data.
func (m *Memory) PutBlob(_ context.Context, key string, data []byte, mime string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blobs[key] = blob{data: bytes.Clone(data), mime: mime}
	return nil
}

// GetBlob returns a copy of the blob stored under key.
func (m *Memory) GetBlob(_ context.Context, key string) ([]byte, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.blobs[key]
	if !ok {
		return nil, "", nil
	}
	return bytes.Clone(b.data), b.mime, nil
}

// DeleteBlob removes a blob.
func (m *Memory) DeleteBlob(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.blobs, key)
	return nil
}

// Close is a no-op.
func (m *Memory) Close() error { return nil }
