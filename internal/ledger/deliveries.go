package ledger

import (
	"fmt"
	"slices"
	"time"

	"github.com/erazemk/lastik/internal/model"
)

// Deliveries is the append-only ledger of received stock.
type Deliveries struct {
	catalog    *Catalog
	index      *Index
	deliveries []model.Delivery
	now        func() time.Time

	// created is set when the latest record added the tire to the index.
	created bool
}

// NewDeliveries returns a delivery ledger that adjusts the given catalog and index.
func NewDeliveries(catalog *Catalog, index *Index, deliveries []model.Delivery, now func() time.Time) *Deliveries {
	if now == nil {
		now = time.Now
	}
	return &Deliveries{catalog: catalog, index: index, deliveries: slices.Clone(deliveries), now: now}
}

// RecordDelivery adds received tires to stock.
func (l *Deliveries) RecordDelivery(in model.DeliveryInput) (model.Delivery, error) {
	if in.Quantity <= 0 {
		return model.Delivery{}, model.Validationf("quantity must be positive")
	}

	id, err := newID()
	if err != nil {
		return model.Delivery{}, err
	}

	if _, err := l.catalog.AdjustStock(in.TireID, in.Quantity); err != nil {
		return model.Delivery{}, err
	}
	_, existed := l.index.Quantity(in.TireID)
	l.index.Apply(in.TireID, in.Quantity)
	l.created = !existed

	date := in.Date
	if date.IsZero() {
		date = l.now()
	}

	d := model.Delivery{
		ID:       id,
		TireID:   in.TireID,
		Quantity: in.Quantity,
		Date:     date,
	}
	l.deliveries = append(l.deliveries, d)
	return d, nil
}

// Rollback undoes the most recent RecordDelivery when its result could not be
// persisted.
func (l *Deliveries) Rollback(d model.Delivery) error {
	n := len(l.deliveries)
	if n == 0 || l.deliveries[n-1].ID != d.ID {
		return fmt.Errorf("rolling back delivery %s: not the latest delivery", d.ID)
	}
	if _, err := l.catalog.AdjustStock(d.TireID, -d.Quantity); err != nil {
		return fmt.Errorf("rolling back delivery %s: %w", d.ID, err)
	}
	l.index.Apply(d.TireID, -d.Quantity)
	if l.created {
		l.index.forget(d.TireID)
		l.created = false
	}
	l.deliveries = l.deliveries[:n-1]
	return nil
}

// List returns every delivery in recording order.
func (l *Deliveries) List() []model.Delivery {
	return slices.Clone(l.deliveries)
}

// ListByTire returns the deliveries of one tire.
func (l *Deliveries) ListByTire(tireID string) []model.Delivery {
	var out []model.Delivery
	for _, d := range l.deliveries {
		if d.TireID == tireID {
			out = append(out, d)
		}
	}
	return out
}
