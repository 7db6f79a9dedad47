package ledger

import (
	"maps"
	"slices"

	"github.com/erazemk/lastik/internal/model"
)

// Index is a materialized view of net delivered-minus-sold quantity per tire.
//
// Apply must only be called right after a successful Catalog.AdjustStock for
// the same tire and delta. Rebuild is the reference the incremental result must
// always agree with.
type Index struct {
	qty map[string]int
}

// NewIndex returns an index holding the given records.
func NewIndex(records []model.InventoryRecord) *Index {
	idx := &Index{qty: make(map[string]int, len(records))}
	for _, r := range records {
		idx.qty[r.TireID] += r.Quantity
	}
	return idx
}

// Rebuild replays the ledgers into a fresh index.
func Rebuild(sales []model.Sale, deliveries []model.Delivery) *Index {
	idx := &Index{qty: make(map[string]int)}
	for _, d := range deliveries {
		idx.Apply(d.TireID, d.Quantity)
	}
	for _, s := range sales {
		idx.Apply(s.TireID, -s.Quantity)
	}
	return idx
}

// Apply adds delta to the tire's record, creating it if needed.
func (idx *Index) Apply(tireID string, delta int) {
	idx.qty[tireID] += delta
}

func (idx *Index) forget(tireID string) {
	delete(idx.qty, tireID)
}

// Reset replaces every record with the records of other.
func (idx *Index) Reset(other *Index) {
	idx.qty = maps.Clone(other.qty)
}

// Quantity returns the indexed quantity for a tire and whether a record exists.
func (idx *Index) Quantity(tireID string) (int, bool) {
	q, ok := idx.qty[tireID]
	return q, ok
}

// Records returns every record ordered by tire id.
func (idx *Index) Records() []model.InventoryRecord {
	records := make([]model.InventoryRecord, 0, len(idx.qty))
	for _, id := range slices.Sorted(maps.Keys(idx.qty)) {
		records = append(records, model.InventoryRecord{TireID: id, Quantity: idx.qty[id]})
	}
	return records
}

// Diff compares idx against a replayed index. A tire whose quantities differ
// is drift, and so is a tire with a record on one side only, even at zero.
func (idx *Index) Diff(replayed *Index) []model.Drift {
	ids := make(map[string]struct{}, len(idx.qty))
	for id := range idx.qty {
		ids[id] = struct{}{}
	}
	for id := range replayed.qty {
		ids[id] = struct{}{}
	}

	var drifts []model.Drift
	for _, id := range slices.Sorted(maps.Keys(ids)) {
		have, want := idx.qty[id], replayed.qty[id]
		_, inIdx := idx.qty[id]
		_, inReplay := replayed.qty[id]
		if have != want || inIdx != inReplay {
			drifts = append(drifts, model.Drift{TireID: id, Indexed: have, Replayed: want})
		}
	}
	return drifts
}
