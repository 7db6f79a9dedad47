// Package hotel tracks customer tire sets kept in seasonal storage.
//
// An entry is stored until it is checked out. A stored entry whose target
// retrieval date has passed is expired; that state is computed on every read
// and never persisted. Checked-out entries are closed and cannot change.
package hotel

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/erazemk/lastik/internal/model"
)

// Tracker manages hotel entries. It is not safe for concurrent use.
type Tracker struct {
	entries []model.HotelEntry
}

// NewTracker returns a tracker holding the given entries.
func NewTracker(entries []model.HotelEntry) *Tracker {
	return &Tracker{entries: slices.Clone(entries)}
}

// CheckIn stores a tire set.
func (t *Tracker) CheckIn(in model.HotelInput) (model.HotelEntry, error) {
	entry := model.HotelEntry{
		CustomerName:  strings.TrimSpace(in.CustomerName),
		PlateNumber:   normalizePlate(in.PlateNumber),
		Brand:         strings.TrimSpace(in.Brand),
		Size:          strings.TrimSpace(in.Size),
		Quantity:      in.Quantity,
		StorageDate:   in.StorageDate,
		RetrievalDate: in.RetrievalDate,
		Notes:         strings.TrimSpace(in.Notes),
	}
	if err := validate(entry); err != nil {
		return model.HotelEntry{}, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return model.HotelEntry{}, fmt.Errorf("generating id: %w", err)
	}
	entry.ID = id.String()

	t.entries = append(t.entries, entry)
	return entry, nil
}

// CheckOut closes an entry, recording at as the actual retrieval time.
func (t *Tracker) CheckOut(id string, at time.Time) (model.HotelEntry, error) {
	i := t.index(id)
	if i < 0 {
		return model.HotelEntry{}, model.NotFoundf("hotel entry %s not found", id)
	}

	e := &t.entries[i]
	if e.Retrieved {
		return model.HotelEntry{}, model.InvalidStatef("hotel entry %s was already retrieved", id)
	}
	e.Retrieved = true
	e.RetrievalDate = at
	return *e, nil
}

// Update edits the non-lifecycle fields of an entry that is not yet retrieved.
func (t *Tracker) Update(id string, u model.HotelUpdate) (model.HotelEntry, error) {
	i := t.index(id)
	if i < 0 {
		return model.HotelEntry{}, model.NotFoundf("hotel entry %s not found", id)
	}
	if t.entries[i].Retrieved {
		return model.HotelEntry{}, model.InvalidStatef("hotel entry %s is retrieved and can no longer be edited", id)
	}

	e := t.entries[i]
	if u.CustomerName != nil {
		e.CustomerName = strings.TrimSpace(*u.CustomerName)
	}
	if u.PlateNumber != nil {
		e.PlateNumber = normalizePlate(*u.PlateNumber)
	}
	if u.Brand != nil {
		e.Brand = strings.TrimSpace(*u.Brand)
	}
	if u.Size != nil {
		e.Size = strings.TrimSpace(*u.Size)
	}
	if u.Quantity != nil {
		e.Quantity = *u.Quantity
	}
	if u.StorageDate != nil {
		e.StorageDate = *u.StorageDate
	}
	if u.RetrievalDate != nil {
		e.RetrievalDate = *u.RetrievalDate
	}
	if u.Notes != nil {
		e.Notes = strings.TrimSpace(*u.Notes)
	}
	if err := validate(e); err != nil {
		return model.HotelEntry{}, err
	}

	t.entries[i] = e
	return e, nil
}

// Remove deletes an entry in any state and returns it with its former position.
func (t *Tracker) Remove(id string) (model.HotelEntry, int, error) {
	i := t.index(id)
	if i < 0 {
		return model.HotelEntry{}, -1, model.NotFoundf("hotel entry %s not found", id)
	}
	removed := t.entries[i]
	t.entries = slices.Delete(t.entries, i, i+1)
	return removed, i, nil
}

// Restore puts back an entry removed from position at.
func (t *Tracker) Restore(e model.HotelEntry, at int) {
	at = min(max(at, 0), len(t.entries))
	t.entries = slices.Insert(t.entries, at, e)
}

// Replace overwrites a stored entry with an earlier copy of itself.
func (t *Tracker) Replace(e model.HotelEntry) {
	if i := t.index(e.ID); i >= 0 {
		t.entries[i] = e
	}
}

// Get returns an entry by id.
func (t *Tracker) Get(id string) (model.HotelEntry, error) {
	i := t.index(id)
	if i < 0 {
		return model.HotelEntry{}, model.NotFoundf("hotel entry %s not found", id)
	}
	return t.entries[i], nil
}

// ListExpired returns the entries that are overdue at now. It has no side effects.
func (t *Tracker) ListExpired(now time.Time) []model.HotelEntry {
	return t.List(model.HotelFilter{State: model.HotelExpired}, now)
}

// List returns the entries matching f, evaluated at now.
func (t *Tracker) List(f model.HotelFilter, now time.Time) []model.HotelEntry {
	search := strings.ToLower(strings.TrimSpace(f.Search))

	var out []model.HotelEntry
	for _, e := range t.entries {
		if f.State != "" && e.State(now) != f.State {
			continue
		}
		if search != "" && !matches(e, search) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// All returns a copy of every entry in check-in order.
func (t *Tracker) All() []model.HotelEntry {
	return slices.Clone(t.entries)
}

func (t *Tracker) index(id string) int {
	return slices.IndexFunc(t.entries, func(e model.HotelEntry) bool { return e.ID == id })
}

func validate(e model.HotelEntry) error {
	if e.Quantity <= 0 {
		return model.Validationf("quantity must be positive")
	}
	if !e.StorageDate.IsZero() && !e.RetrievalDate.IsZero() && !e.RetrievalDate.After(e.StorageDate) {
		return model.Validationf("retrieval date must be after storage date")
	}
	return nil
}

func matches(e model.HotelEntry, search string) bool {
	for _, field := range []string{e.CustomerName, e.PlateNumber, e.Brand, e.Size, e.Notes} {
		if strings.Contains(strings.ToLower(field), search) {
			return true
		}
	}
	return false
}

// normalizePlate uppercases a plate and collapses inner whitespace.
func normalizePlate(p string) string {
	return strings.ToUpper(strings.Join(strings.Fields(p), " "))
}
