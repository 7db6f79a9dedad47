package ledger

import (
	"cmp"
	"math"
	"slices"
	"strings"

	"github.com/erazemk/lastik/internal/model"
)

// Catalog owns the set of tire SKUs and their stock.
type Catalog struct {
	tires []model.Tire
}

// NewCatalog returns a catalog holding the given tires.
func NewCatalog(tires []model.Tire) *Catalog {
	return &Catalog{tires: slices.Clone(tires)}
}

// AddTire validates the input and stores a new tire.
func (c *Catalog) AddTire(in model.TireInput) (model.Tire, error) {
	if in.Price.IsNegative() {
		return model.Tire{}, model.Validationf("price must not be negative")
	}
	if in.Stock < 0 {
		return model.Tire{}, model.Validationf("stock must not be negative")
	}

	id, err := newID()
	if err != nil {
		return model.Tire{}, err
	}

	tire := model.Tire{
		ID:     id,
		Brand:  strings.TrimSpace(in.Brand),
		Size:   strings.TrimSpace(in.Size),
		Season: strings.TrimSpace(in.Season),
		Year:   in.Year,
		Price:  in.Price,
		Stock:  in.Stock,
	}
	c.tires = append(c.tires, tire)
	return tire, nil
}

// Get returns the tire with the given id.
func (c *Catalog) Get(id string) (model.Tire, error) {
	i := c.index(id)
	if i < 0 {
		return model.Tire{}, model.NotFoundf("tire %s not found", id)
	}
	return c.tires[i], nil
}

// Resolve returns the tire with the given id, or an unknown-tire placeholder
// if it has been removed.
func (c *Catalog) Resolve(id string) model.Tire {
	if i := c.index(id); i >= 0 {
		return c.tires[i]
	}
	return model.UnknownTire(id)
}

// AdjustStock applies stock += delta. It is the only way stock changes.
func (c *Catalog) AdjustStock(id string, delta int) (model.Tire, error) {
	i := c.index(id)
	if i < 0 {
		return model.Tire{}, model.NotFoundf("tire %s not found", id)
	}

	t := &c.tires[i]
	if delta > 0 && t.Stock > math.MaxInt-delta {
		return model.Tire{}, model.Validationf("stock of tire %s would exceed %d", id, math.MaxInt)
	}
	if t.Stock+delta < 0 {
		return model.Tire{}, model.InsufficientStockf("insufficient stock for tire %s: have %d, need %d", id, t.Stock, -delta)
	}
	t.Stock += delta
	return *t, nil
}

// UpdateTire edits the descriptive fields and price of a tire.
func (c *Catalog) UpdateTire(id string, u model.TireUpdate) (model.Tire, error) {
	i := c.index(id)
	if i < 0 {
		return model.Tire{}, model.NotFoundf("tire %s not found", id)
	}
	if u.Price != nil && u.Price.IsNegative() {
		return model.Tire{}, model.Validationf("price must not be negative")
	}

	t := &c.tires[i]
	if u.Brand != nil {
		t.Brand = strings.TrimSpace(*u.Brand)
	}
	if u.Size != nil {
		t.Size = strings.TrimSpace(*u.Size)
	}
	if u.Season != nil {
		t.Season = strings.TrimSpace(*u.Season)
	}
	if u.Year != nil {
		t.Year = *u.Year
	}
	if u.Price != nil {
		t.Price = *u.Price
	}
	return *t, nil
}

// RemoveTire deletes a tire and returns it with its former position.
// Sales and deliveries keep their reference to it.
func (c *Catalog) RemoveTire(id string) (model.Tire, int, error) {
	i := c.index(id)
	if i < 0 {
		return model.Tire{}, -1, model.NotFoundf("tire %s not found", id)
	}
	removed := c.tires[i]
	c.tires = slices.Delete(c.tires, i, i+1)
	return removed, i, nil
}

// Restore puts back a tire removed from position at.
func (c *Catalog) Restore(t model.Tire, at int) {
	at = min(max(at, 0), len(c.tires))
	c.tires = slices.Insert(c.tires, at, t)
}

// Replace overwrites a stored tire with an earlier copy of itself.
func (c *Catalog) Replace(t model.Tire) {
	if i := c.index(t.ID); i >= 0 {
		c.tires[i] = t
	}
}

// List returns the tires matching q.
func (c *Catalog) List(q model.TireQuery) []model.Tire {
	search := strings.ToLower(strings.TrimSpace(q.Search))

	var tires []model.Tire
	for _, t := range c.tires {
		if search != "" &&
			!strings.Contains(strings.ToLower(t.Brand), search) &&
			!strings.Contains(strings.ToLower(t.Size), search) &&
			!strings.Contains(strings.ToLower(t.Season), search) {
			continue
		}
		tires = append(tires, t)
	}

	if q.SortBy != "" {
		slices.SortStableFunc(tires, func(a, b model.Tire) int {
			var r int
			switch q.SortBy {
			case model.SortByPrice:
				r = a.Price.Cmp(b.Price)
			case model.SortByStock:
				r = cmp.Compare(a.Stock, b.Stock)
			case model.SortByYear:
				r = cmp.Compare(a.Year, b.Year)
			default:
				r = cmp.Compare(strings.ToLower(a.Brand), strings.ToLower(b.Brand))
			}
			if q.Desc {
				r = -r
			}
			return r
		})
	}
	return tires
}

// All returns a copy of every tire in insertion order.
func (c *Catalog) All() []model.Tire {
	return slices.Clone(c.tires)
}

func (c *Catalog) index(id string) int {
	return slices.IndexFunc(c.tires, func(t model.Tire) bool { return t.ID == id })
}
