// Package session owns the catalog, ledgers, inventory index and hotel tracker
// of one shop and keeps them in sync with a store.
//
// Every mutating call holds the session lock for its whole duration, persists
// every collection it touched in one atomic save and, if the save fails,
// undoes its in-memory changes before returning the error.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/erazemk/lastik/internal/hotel"
	"github.com/erazemk/lastik/internal/ledger"
	"github.com/erazemk/lastik/internal/model"
	"github.com/erazemk/lastik/internal/store"
)

// Options configures a session.
type Options struct {
	// Now is the session clock. Defaults to time.Now.
	Now func() time.Time
	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Session exposes the shop's components to the presentation layer.
type Session struct {
	mu    sync.RWMutex
	store store.Store
	now   func() time.Time
	log   *slog.Logger

	catalog    *ledger.Catalog
	index      *ledger.Index
	sales      *ledger.Sales
	deliveries *ledger.Deliveries
	hotel      *hotel.Tracker
}

// Open loads every collection from st. A missing inventory collection is
// rebuilt from the sales and delivery ledgers and saved.
func Open(ctx context.Context, st store.Store, opts Options) (*Session, error) {
	s := &Session{store: st, now: opts.Now, log: opts.Logger}
	if s.now == nil {
		s.now = time.Now
	}
	if s.log == nil {
		s.log = slog.Default()
	}

	tires, err := load[model.Tire](ctx, st, store.Tires)
	if err != nil {
		return nil, err
	}
	sales, err := load[model.Sale](ctx, st, store.Sales)
	if err != nil {
		return nil, err
	}
	deliveries, err := load[model.Delivery](ctx, st, store.Deliveries)
	if err != nil {
		return nil, err
	}
	entries, err := load[model.HotelEntry](ctx, st, store.Hotel)
	if err != nil {
		return nil, err
	}

	raw, err := st.Load(ctx, store.Inventory)
	if err != nil {
		return nil, fmt.Errorf("loading inventory: %w", err)
	}

	replayed := ledger.Rebuild(sales, deliveries)
	if raw == nil {
		s.index = replayed
	} else {
		var records []model.InventoryRecord
		if err := json.Unmarshal(raw, &records); err != nil {
			return nil, fmt.Errorf("decoding inventory: %w", err)
		}
		s.index = ledger.NewIndex(records)
		if drifts := s.index.Diff(replayed); len(drifts) > 0 {
			s.log.Warn("inventory index disagrees with ledgers", "drifted_tires", len(drifts))
		}
	}

	s.catalog = ledger.NewCatalog(tires)
	s.sales = ledger.NewSales(s.catalog, s.index, sales, s.now)
	s.deliveries = ledger.NewDeliveries(s.catalog, s.index, deliveries, s.now)
	s.hotel = hotel.NewTracker(entries)

	if raw == nil && (len(sales) > 0 || len(deliveries) > 0) {
		if err := s.persist(ctx, store.Inventory); err != nil {
			return nil, err
		}
		s.log.Info("inventory index rebuilt", "records", len(s.index.Records()))
	}

	s.log.Info("session opened",
		"tires", len(tires), "sales", len(sales), "deliveries", len(deliveries), "hotel_entries", len(entries))
	return s, nil
}

// Now returns the session clock's current time.
func (s *Session) Now() time.Time {
	return s.now()
}

// Close closes the underlying store.
func (s *Session) Close() error {
	return s.store.Close()
}

// commit persists the named collections. If that fails it runs undo and
// returns the persistence error.
func (s *Session) commit(ctx context.Context, undo func() error, collections ...string) error {
	err := s.persist(ctx, collections...)
	if err == nil {
		return nil
	}
	if uerr := undo(); uerr != nil {
		s.log.Error("failed to undo unsaved change", "error", uerr, "save_error", err)
	} else {
		s.log.Warn("change undone after failed save", "collections", collections, "error", err)
	}
	return err
}

func (s *Session) persist(ctx context.Context, collections ...string) error {
	docs := make([]store.Document, 0, len(collections))
	for _, name := range collections {
		data, err := s.encode(name)
		if err != nil {
			return err
		}
		docs = append(docs, store.Document{Collection: name, Data: data})
	}
	if err := s.store.Save(ctx, docs...); err != nil {
		return fmt.Errorf("persisting %v: %w", collections, err)
	}
	return nil
}

func (s *Session) encode(collection string) ([]byte, error) {
	switch collection {
	case store.Tires:
		return marshalList(s.catalog.All())
	case store.Sales:
		return marshalList(s.sales.List())
	case store.Deliveries:
		return marshalList(s.deliveries.List())
	case store.Inventory:
		return marshalList(s.index.Records())
	case store.Hotel:
		return marshalList(s.hotel.All())
	}
	return nil, fmt.Errorf("unknown collection %q", collection)
}

func marshalList[T any](items []T) ([]byte, error) {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("encoding collection: %w", err)
	}
	return data, nil
}

func load[T any](ctx context.Context, st store.Store, collection string) ([]T, error) {
	raw, err := st.Load(ctx, collection)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", collection, err)
	}
	if raw == nil {
		return nil, nil
	}
	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", collection, err)
	}
	return items, nil
}
