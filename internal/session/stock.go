package session

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/erazemk/lastik/internal/ledger"
	"github.com/erazemk/lastik/internal/model"
	"github.com/erazemk/lastik/internal/store"
)

// AddTire adds a tire to the catalog.
func (s *Session) AddTire(ctx context.Context, in model.TireInput) (model.Tire, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tire, err := s.catalog.AddTire(in)
	if err != nil {
		return model.Tire{}, err
	}
	undo := func() error {
		_, _, err := s.catalog.RemoveTire(tire.ID)
		return err
	}
	if err := s.commit(ctx, undo, store.Tires); err != nil {
		return model.Tire{}, err
	}

	s.log.Info("tire added", "tire", tire.ID, "brand", tire.Brand, "size", tire.Size, "stock", tire.Stock)
	return tire, nil
}

// UpdateTire edits a tire's descriptive fields and price.
func (s *Session) UpdateTire(ctx context.Context, id string, u model.TireUpdate) (model.Tire, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, err := s.catalog.Get(id)
	if err != nil {
		return model.Tire{}, err
	}
	tire, err := s.catalog.UpdateTire(id, u)
	if err != nil {
		return model.Tire{}, err
	}
	undo := func() error {
		s.catalog.Replace(prev)
		return nil
	}
	if err := s.commit(ctx, undo, store.Tires); err != nil {
		return model.Tire{}, err
	}
	return tire, nil
}

// RemoveTire deletes a tire and its photo. Its sales and deliveries remain.
func (s *Session) RemoveTire(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed, at, err := s.catalog.RemoveTire(id)
	if err != nil {
		return err
	}
	undo := func() error {
		s.catalog.Restore(removed, at)
		return nil
	}
	if err := s.commit(ctx, undo, store.Tires); err != nil {
		return err
	}

	s.dropPhoto(ctx, PhotoTire, id)
	s.log.Info("tire removed", "tire", id, "stock", removed.Stock)
	return nil
}

// Tire returns a tire by id.
func (s *Session) Tire(id string) (model.Tire, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalog.Get(id)
}

// Tires lists the catalog.
func (s *Session) Tires(q model.TireQuery) []model.Tire {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalog.List(q)
}

// RecordSale sells tires from stock.
func (s *Session) RecordSale(ctx context.Context, in model.SaleInput) (model.Sale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sale, err := s.sales.RecordSale(in)
	if err != nil {
		return model.Sale{}, err
	}
	undo := func() error { return s.sales.Rollback(sale) }
	if err := s.commit(ctx, undo, store.Tires, store.Inventory, store.Sales); err != nil {
		return model.Sale{}, err
	}

	s.log.Info("sale recorded", "sale", sale.ID, "tire", sale.TireID,
		"quantity", sale.Quantity, "unit_price", sale.UnitPrice.String(), "profit", sale.Profit.String())
	return sale, nil
}

// RecordDelivery adds received tires to stock.
func (s *Session) RecordDelivery(ctx context.Context, in model.DeliveryInput) (model.Delivery, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, err := s.deliveries.RecordDelivery(in)
	if err != nil {
		return model.Delivery{}, err
	}
	undo := func() error { return s.deliveries.Rollback(d) }
	if err := s.commit(ctx, undo, store.Tires, store.Inventory, store.Deliveries); err != nil {
		return model.Delivery{}, err
	}

	s.log.Info("delivery recorded", "delivery", d.ID, "tire", d.TireID, "quantity", d.Quantity)
	return d, nil
}

// Sales returns every sale in recording order.
func (s *Session) Sales() []model.Sale {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sales.List()
}

// SalesReport returns every sale joined with its tire. Sales of removed tires
// carry the unknown-tire placeholder.
func (s *Session) SalesReport() []model.SaleLine {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sales := s.sales.List()
	lines := make([]model.SaleLine, 0, len(sales))
	for _, sale := range sales {
		lines = append(lines, model.SaleLine{Sale: sale, Tire: s.catalog.Resolve(sale.TireID)})
	}
	return lines
}

// SalesByTire returns the sales of one tire with their totals. A removed tire
// is reported with the unknown-tire placeholder as long as it has sales.
func (s *Session) SalesByTire(id string) (model.TireSales, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tire := s.catalog.Resolve(id)
	sales := s.sales.ListByTire(id)
	if tire.Unknown && len(sales) == 0 {
		return model.TireSales{}, model.NotFoundf("tire %s not found", id)
	}

	h := model.TireSales{
		Tire:    tire,
		Sales:   make([]model.Sale, 0, len(sales)),
		Revenue: decimal.Zero,
		Profit:  decimal.Zero,
	}
	for _, sale := range sales {
		h.Sales = append(h.Sales, sale)
		h.Units += sale.Quantity
		h.Revenue = h.Revenue.Add(sale.Revenue())
		h.Profit = h.Profit.Add(sale.Profit)
	}
	return h, nil
}

// DeliveriesByTire returns the deliveries of one tire, resolving removed
// tires like SalesByTire.
func (s *Session) DeliveriesByTire(id string) (model.TireDeliveries, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tire := s.catalog.Resolve(id)
	deliveries := s.deliveries.ListByTire(id)
	if tire.Unknown && len(deliveries) == 0 {
		return model.TireDeliveries{}, model.NotFoundf("tire %s not found", id)
	}

	h := model.TireDeliveries{Tire: tire, Deliveries: make([]model.Delivery, 0, len(deliveries))}
	for _, d := range deliveries {
		h.Deliveries = append(h.Deliveries, d)
		h.Units += d.Quantity
	}
	return h, nil
}

// Deliveries returns every delivery in recording order.
func (s *Session) Deliveries() []model.Delivery {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.deliveries.List()
}

// Inventory returns the inventory index ordered by tire id.
func (s *Session) Inventory() []model.InventoryRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.Records()
}

// Reconcile replays the ledgers and reports every tire whose indexed quantity
// differs. With repair set, the index is replaced by the replay and saved.
func (s *Session) Reconcile(ctx context.Context, repair bool) ([]model.Drift, error) {
	if !repair {
		s.mu.RLock()
		defer s.mu.RUnlock()
		return s.index.Diff(ledger.Rebuild(s.sales.List(), s.deliveries.List())), nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	replayed := ledger.Rebuild(s.sales.List(), s.deliveries.List())
	drifts := s.index.Diff(replayed)
	if len(drifts) == 0 {
		return nil, nil
	}

	prev := ledger.NewIndex(s.index.Records())
	s.index.Reset(replayed)
	undo := func() error {
		s.index.Reset(prev)
		return nil
	}
	if err := s.commit(ctx, undo, store.Inventory); err != nil {
		return nil, err
	}

	s.log.Warn("inventory index repaired", "drifted_tires", len(drifts))
	return drifts, nil
}
