// Package store persists entity collections as JSON arrays and photos as blobs.
//
// A Store is the persistence collaborator of the session: collections are read
// once on open and written back after every mutation. Save is atomic across all
// documents passed to it, so a single mutation never leaves a partial write.
package store

import (
	"context"
)

// Collection names.
const (
	Tires      = "tires"
	Sales      = "sales"
	Deliveries = "deliveries"
	Inventory  = "inventory"
	Hotel      = "hotel"
)

// Document is the JSON array form of one collection.
type Document struct {
	Collection string
	Data       []byte
}

// Store is a key-value backend for collections and blobs.
type Store interface {
	// Load returns the JSON array stored for collection, or nil if none was saved.
	Load(ctx context.Context, collection string) ([]byte, error)
	// Save writes all documents atomically.
	Save(ctx context.Context, docs ...Document) error
	// PutBlob stores binary data with its MIME type under key.
	PutBlob(ctx context.Context, key string, data []byte, mime string) error
	// GetBlob returns the data and MIME type stored under key, or nil if absent.
	GetBlob(ctx context.Context, key string) ([]byte, string, error)
	// DeleteBlob removes key. Deleting a missing key is not an error.
	DeleteBlob(ctx context.Context, key string) error
	Close() error
}
