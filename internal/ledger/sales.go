package ledger

import (
	"fmt"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/erazemk/lastik/internal/model"
)

// Sales is the append-only sales ledger.
type Sales struct {
	catalog *Catalog
	index   *Index
	sales   []model.Sale
	now     func() time.Time

	// created is set when the latest record added the tire to the index.
	created bool
}

// NewSales returns a sales ledger that adjusts the given catalog and index.
func NewSales(catalog *Catalog, index *Index, sales []model.Sale, now func() time.Time) *Sales {
	if now == nil {
		now = time.Now
	}
	return &Sales{catalog: catalog, index: index, sales: slices.Clone(sales), now: now}
}

// RecordSale sells tires from stock. Either stock, index and ledger all change
// or none of them do.
func (l *Sales) RecordSale(in model.SaleInput) (model.Sale, error) {
	tire, err := l.catalog.Get(in.TireID)
	if err != nil {
		return model.Sale{}, err
	}
	if in.Quantity <= 0 {
		return model.Sale{}, model.Validationf("quantity must be positive")
	}
	if in.UnitPrice.IsNegative() {
		return model.Sale{}, model.Validationf("unit price must not be negative")
	}

	id, err := newID()
	if err != nil {
		return model.Sale{}, err
	}

	profit := in.UnitPrice.Sub(tire.Price).Mul(decimal.NewFromInt(int64(in.Quantity)))

	if _, err := l.catalog.AdjustStock(in.TireID, -in.Quantity); err != nil {
		return model.Sale{}, err
	}
	_, existed := l.index.Quantity(in.TireID)
	l.index.Apply(in.TireID, -in.Quantity)
	l.created = !existed

	date := in.Date
	if date.IsZero() {
		date = l.now()
	}

	sale := model.Sale{
		ID:        id,
		TireID:    in.TireID,
		Quantity:  in.Quantity,
		UnitPrice: in.UnitPrice,
		Date:      date,
		Profit:    profit,
	}
	l.sales = append(l.sales, sale)
	return sale, nil
}

// Rollback undoes the most recent RecordSale when its result could not be
// persisted. It is not a correction mechanism and refuses any other sale.
func (l *Sales) Rollback(s model.Sale) error {
	n := len(l.sales)
	if n == 0 || l.sales[n-1].ID != s.ID {
		return fmt.Errorf("rolling back sale %s: not the latest sale", s.ID)
	}
	if _, err := l.catalog.AdjustStock(s.TireID, s.Quantity); err != nil {
		return fmt.Errorf("rolling back sale %s: %w", s.ID, err)
	}
	l.index.Apply(s.TireID, s.Quantity)
	if l.created {
		l.index.forget(s.TireID)
		l.created = false
	}
	l.sales = l.sales[:n-1]
	return nil
}

// List returns every sale in recording order.
func (l *Sales) List() []model.Sale {
	return slices.Clone(l.sales)
}

// ListByTire returns the sales of one tire.
func (l *Sales) ListByTire(tireID string) []model.Sale {
	var out []model.Sale
	for _, s := range l.sales {
		if s.TireID == tireID {
			out = append(out, s)
		}
	}
	return out
}
