package session

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/lastik/internal/db"
	"github.com/erazemk/lastik/internal/model"
	"github.com/erazemk/lastik/internal/store"
)

var fixedNow = time.Date(2024, 10, 1, 9, 0, 0, 0, time.UTC)

var errSaveFailed = errors.New("disk full")

// flakyStore fails every Save while fail is set.
type flakyStore struct {
	*store.Memory
	fail bool
}

func (f *flakyStore) Save(ctx context.Context, docs ...store.Document) error {
	if f.fail {
		return errSaveFailed
	}
	return f.Memory.Save(ctx, docs...)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func openSession(t *testing.T, st store.Store) *Session {
	t.Helper()
	s, err := Open(context.Background(), st, Options{
		Now:    func() time.Time { return fixedNow },
		Logger: quietLogger(),
	})
	require.NoError(t, err)
	return s
}

func addTire(t *testing.T, s *Session, price int64, stock int) model.Tire {
	t.Helper()
	tire, err := s.AddTire(context.Background(), model.TireInput{
		Brand:  "Continental",
		Size:   "225/45R17",
		Season: model.SeasonSummer,
		Year:   2024,
		Price:  decimal.NewFromInt(price),
		Stock:  stock,
	})
	require.NoError(t, err)
	return tire
}

func TestOpenEmptyStore(t *testing.T) {
	s := openSession(t, store.NewMemory())

	assert.Empty(t, s.Tires(model.TireQuery{}))
	assert.Empty(t, s.Sales())
	assert.Empty(t, s.Deliveries())
	assert.Empty(t, s.Inventory())
	assert.Empty(t, s.HotelEntries(model.HotelFilter{}))
}

func TestPersistenceRoundTrip(t *testing.T) {
	ctx := context.Background()
	st := store.NewSQLite(db.NewTestDB(t))
	s := openSession(t, st)

	tire := addTire(t, s, 100, 10)
	sale, err := s.RecordSale(ctx, model.SaleInput{TireID: tire.ID, Quantity: 3, UnitPrice: decimal.RequireFromString("149.99")})
	require.NoError(t, err)
	_, err = s.RecordDelivery(ctx, model.DeliveryInput{TireID: tire.ID, Quantity: 4})
	require.NoError(t, err)
	entry, err := s.CheckIn(ctx, model.HotelInput{
		CustomerName:  "Ana Novak",
		PlateNumber:   "lj ab-123",
		Brand:         "Nokian",
		Size:          "195/65R15",
		Quantity:      4,
		StorageDate:   time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
		RetrievalDate: time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC),
		Notes:         "rims included",
	})
	require.NoError(t, err)

	reopened := openSession(t, st)

	got, err := reopened.Tire(tire.ID)
	require.NoError(t, err)
	assert.Equal(t, 11, got.Stock)
	assert.True(t, got.Price.Equal(tire.Price))

	sales := reopened.Sales()
	require.Len(t, sales, 1)
	assert.Equal(t, sale.ID, sales[0].ID)
	assert.True(t, sales[0].UnitPrice.Equal(decimal.RequireFromString("149.99")))
	assert.True(t, sales[0].Profit.Equal(decimal.RequireFromString("149.97")))
	assert.True(t, sales[0].Date.Equal(fixedNow))

	assert.Len(t, reopened.Deliveries(), 1)
	assert.Equal(t, []model.InventoryRecord{{TireID: tire.ID, Quantity: 1}}, reopened.Inventory())

	e, err := reopened.HotelEntry(entry.ID)
	require.NoError(t, err)
	assert.Equal(t, "LJ AB-123", e.PlateNumber)
	assert.Equal(t, "rims included", e.Notes)
	assert.True(t, e.RetrievalDate.Equal(entry.RetrievalDate))
	assert.Equal(t, model.HotelStored, e.State(fixedNow))

	drifts, err := reopened.Reconcile(ctx, false)
	require.NoError(t, err)
	assert.Empty(t, drifts)
}

func TestOpenRebuildsMissingInventory(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	s := openSession(t, st)

	tire := addTire(t, s, 50, 0)
	_, err := s.RecordDelivery(ctx, model.DeliveryInput{TireID: tire.ID, Quantity: 6})
	require.NoError(t, err)
	_, err = s.RecordSale(ctx, model.SaleInput{TireID: tire.ID, Quantity: 2, UnitPrice: decimal.NewFromInt(70)})
	require.NoError(t, err)

	require.NoError(t, st.Save(ctx, store.Document{Collection: store.Inventory, Data: nil}))

	reopened := openSession(t, st)
	assert.Equal(t, []model.InventoryRecord{{TireID: tire.ID, Quantity: 4}}, reopened.Inventory())

	raw, err := st.Load(ctx, store.Inventory)
	require.NoError(t, err)
	assert.NotNil(t, raw, "rebuilt index should be saved")
}

func TestFailedSaveCompensatesSale(t *testing.T) {
	ctx := context.Background()
	st := &flakyStore{Memory: store.NewMemory()}
	s := openSession(t, st)
	tire := addTire(t, s, 100, 10)

	st.fail = true
	_, err := s.RecordSale(ctx, model.SaleInput{TireID: tire.ID, Quantity: 4, UnitPrice: decimal.NewFromInt(120)})
	require.ErrorIs(t, err, errSaveFailed)

	got, err := s.Tire(tire.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, got.Stock)
	assert.Empty(t, s.Sales())
	assert.Empty(t, s.Inventory())

	st.fail = false
	_, err = s.RecordSale(ctx, model.SaleInput{TireID: tire.ID, Quantity: 4, UnitPrice: decimal.NewFromInt(120)})
	require.NoError(t, err)

	drifts, err := s.Reconcile(ctx, false)
	require.NoError(t, err)
	assert.Empty(t, drifts)
}

func TestFailedSaveCompensatesDelivery(t *testing.T) {
	ctx := context.Background()
	st := &flakyStore{Memory: store.NewMemory()}
	s := openSession(t, st)
	tire := addTire(t, s, 100, 2)

	st.fail = true
	_, err := s.RecordDelivery(ctx, model.DeliveryInput{TireID: tire.ID, Quantity: 8})
	require.ErrorIs(t, err, errSaveFailed)

	got, _ := s.Tire(tire.ID)
	assert.Equal(t, 2, got.Stock)
	assert.Empty(t, s.Deliveries())
	assert.Empty(t, s.Inventory())
}

func TestFailedSaveCompensatesCatalogAndHotel(t *testing.T) {
	ctx := context.Background()
	st := &flakyStore{Memory: store.NewMemory()}
	s := openSession(t, st)
	tire := addTire(t, s, 100, 2)
	entry, err := s.CheckIn(ctx, model.HotelInput{CustomerName: "Marko", PlateNumber: "KR 11-22", Quantity: 4})
	require.NoError(t, err)

	st.fail = true

	_, err = s.AddTire(ctx, model.TireInput{Brand: "Sava", Price: decimal.NewFromInt(60)})
	assert.ErrorIs(t, err, errSaveFailed)
	assert.Len(t, s.Tires(model.TireQuery{}), 1)

	brand := "Pirelli"
	_, err = s.UpdateTire(ctx, tire.ID, model.TireUpdate{Brand: &brand})
	assert.ErrorIs(t, err, errSaveFailed)
	got, _ := s.Tire(tire.ID)
	assert.Equal(t, "Continental", got.Brand)

	assert.ErrorIs(t, s.RemoveTire(ctx, tire.ID), errSaveFailed)
	_, err = s.Tire(tire.ID)
	assert.NoError(t, err)

	_, err = s.CheckIn(ctx, model.HotelInput{CustomerName: "Eva", Quantity: 2})
	assert.ErrorIs(t, err, errSaveFailed)
	assert.Len(t, s.HotelEntries(model.HotelFilter{}), 1)

	_, err = s.CheckOut(ctx, entry.ID)
	assert.ErrorIs(t, err, errSaveFailed)
	e, _ := s.HotelEntry(entry.ID)
	assert.False(t, e.Retrieved)

	notes := "winter set"
	_, err = s.UpdateHotel(ctx, entry.ID, model.HotelUpdate{Notes: &notes})
	assert.ErrorIs(t, err, errSaveFailed)
	e, _ = s.HotelEntry(entry.ID)
	assert.Empty(t, e.Notes)

	assert.ErrorIs(t, s.RemoveHotel(ctx, entry.ID), errSaveFailed)
	_, err = s.HotelEntry(entry.ID)
	assert.NoError(t, err)
}

func TestDomainErrorsSkipPersistence(t *testing.T) {
	ctx := context.Background()
	st := &flakyStore{Memory: store.NewMemory()}
	s := openSession(t, st)
	tire := addTire(t, s, 100, 1)

	st.fail = true
	_, err := s.RecordSale(ctx, model.SaleInput{TireID: tire.ID, Quantity: 2, UnitPrice: decimal.NewFromInt(100)})
	assert.ErrorIs(t, err, model.ErrInsufficientStock)
	_, err = s.RecordSale(ctx, model.SaleInput{TireID: "nope", Quantity: 1})
	assert.ErrorIs(t, err, model.ErrNotFound)
	_, err = s.CheckOut(ctx, "nope")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestRemovedTireSalesReport(t *testing.T) {
	ctx := context.Background()
	s := openSession(t, store.NewMemory())
	tire := addTire(t, s, 80, 5)

	_, err := s.RecordSale(ctx, model.SaleInput{TireID: tire.ID, Quantity: 2, UnitPrice: decimal.NewFromInt(100)})
	require.NoError(t, err)
	require.NoError(t, s.RemoveTire(ctx, tire.ID))

	_, err = s.Tire(tire.ID)
	assert.ErrorIs(t, err, model.ErrNotFound)

	report := s.SalesReport()
	require.Len(t, report, 1)
	assert.True(t, report[0].Tire.Unknown)
	assert.Equal(t, model.UnknownTireLabel, report[0].Tire.Brand)
	assert.Equal(t, tire.ID, report[0].TireID)
}

func TestHotelLifecycle(t *testing.T) {
	ctx := context.Background()
	s := openSession(t, store.NewMemory())

	entry, err := s.CheckIn(ctx, model.HotelInput{
		CustomerName:  "Jan",
		PlateNumber:   "CE 55-AA",
		Quantity:      4,
		StorageDate:   time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
		RetrievalDate: time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	expired := s.Expired(fixedNow)
	require.Len(t, expired, 1)
	assert.Equal(t, entry.ID, expired[0].ID)
	assert.Len(t, s.HotelEntries(model.HotelFilter{State: model.HotelExpired}), 1)

	out, err := s.CheckOut(ctx, entry.ID)
	require.NoError(t, err)
	assert.True(t, out.Retrieved)
	assert.True(t, out.RetrievalDate.Equal(fixedNow))
	assert.Empty(t, s.Expired(fixedNow))

	_, err = s.CheckOut(ctx, entry.ID)
	assert.ErrorIs(t, err, model.ErrInvalidState)
}

func TestReconcileRepairsDrift(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	s := openSession(t, st)
	tire := addTire(t, s, 100, 0)
	_, err := s.RecordDelivery(ctx, model.DeliveryInput{TireID: tire.ID, Quantity: 5})
	require.NoError(t, err)

	corrupt := []byte(`[{"tire_id":"` + tire.ID + `","quantity":9},{"tire_id":"ghost","quantity":1}]`)
	require.NoError(t, st.Save(ctx, store.Document{Collection: store.Inventory, Data: corrupt}))

	s = openSession(t, st)

	drifts, err := s.Reconcile(ctx, false)
	require.NoError(t, err)
	assert.ElementsMatch(t, []model.Drift{
		{TireID: tire.ID, Indexed: 9, Replayed: 5},
		{TireID: "ghost", Indexed: 1, Replayed: 0},
	}, drifts)

	drifts, err = s.Reconcile(ctx, true)
	require.NoError(t, err)
	assert.Len(t, drifts, 2)
	assert.Equal(t, []model.InventoryRecord{{TireID: tire.ID, Quantity: 5}}, s.Inventory())

	reopened := openSession(t, st)
	drifts, err = reopened.Reconcile(ctx, false)
	require.NoError(t, err)
	assert.Empty(t, drifts)
}

func TestSummary(t *testing.T) {
	ctx := context.Background()
	s := openSession(t, store.NewMemory())

	a := addTire(t, s, 100, 4)
	b := addTire(t, s, 50, 10)
	_, err := s.RecordSale(ctx, model.SaleInput{TireID: a.ID, Quantity: 2, UnitPrice: decimal.NewFromInt(130)})
	require.NoError(t, err)
	_, err = s.RecordDelivery(ctx, model.DeliveryInput{TireID: b.ID, Quantity: 3})
	require.NoError(t, err)

	_, err = s.CheckIn(ctx, model.HotelInput{CustomerName: "A", Quantity: 4})
	require.NoError(t, err)
	_, err = s.CheckIn(ctx, model.HotelInput{CustomerName: "B", Quantity: 4, RetrievalDate: fixedNow.Add(-time.Hour)})
	require.NoError(t, err)
	done, err := s.CheckIn(ctx, model.HotelInput{CustomerName: "C", Quantity: 2})
	require.NoError(t, err)
	_, err = s.CheckOut(ctx, done.ID)
	require.NoError(t, err)

	sum := s.Summary(fixedNow)
	assert.Equal(t, 2, sum.TireModels)
	assert.Equal(t, 15, sum.TiresInStock)
	assert.True(t, sum.StockValue.Equal(decimal.NewFromInt(200+650)), "stock value = %s", sum.StockValue)
	assert.Equal(t, 2, sum.UnitsSold)
	assert.True(t, sum.Revenue.Equal(decimal.NewFromInt(260)))
	assert.True(t, sum.Profit.Equal(decimal.NewFromInt(60)))
	assert.Equal(t, 3, sum.UnitsDelivered)
	assert.Equal(t, 1, sum.HotelStored)
	assert.Equal(t, 1, sum.HotelExpired)
	assert.Equal(t, 1, sum.HotelRetrieved)
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 40, 20))
	for x := range 40 {
		img.Set(x, 10, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestPhotos(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	s := openSession(t, st)
	tire := addTire(t, s, 100, 1)

	_, _, err := s.Photo(ctx, PhotoTire, tire.ID)
	assert.ErrorIs(t, err, model.ErrNotFound)

	p, err := s.SetPhoto(ctx, PhotoTire, tire.ID, bytes.NewReader(pngBytes(t)))
	require.NoError(t, err)
	assert.Equal(t, 40, p.Width)

	data, mime, err := s.Photo(ctx, PhotoTire, tire.ID)
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", mime)
	assert.Equal(t, p.Data, data)

	_, err = s.SetPhoto(ctx, PhotoTire, "missing", bytes.NewReader(pngBytes(t)))
	assert.ErrorIs(t, err, model.ErrNotFound)

	_, err = s.SetPhoto(ctx, PhotoTire, tire.ID, bytes.NewReader([]byte("not an image")))
	assert.ErrorIs(t, err, model.ErrValidation)

	require.NoError(t, s.RemoveTire(ctx, tire.ID))
	blob, _, err := st.GetBlob(ctx, photoKey(PhotoTire, tire.ID))
	require.NoError(t, err)
	assert.Nil(t, blob, "removing a tire should drop its photo")
}

func TestFailedRemoveKeepsOrder(t *testing.T) {
	ctx := context.Background()
	st := &flakyStore{Memory: store.NewMemory()}
	s := openSession(t, st)
	first := addTire(t, s, 100, 1)
	middle := addTire(t, s, 110, 2)
	last := addTire(t, s, 120, 3)
	a, err := s.CheckIn(ctx, model.HotelInput{CustomerName: "A", Quantity: 4})
	require.NoError(t, err)
	b, err := s.CheckIn(ctx, model.HotelInput{CustomerName: "B", Quantity: 4})
	require.NoError(t, err)
	c, err := s.CheckIn(ctx, model.HotelInput{CustomerName: "C", Quantity: 4})
	require.NoError(t, err)

	st.fail = true
	assert.ErrorIs(t, s.RemoveTire(ctx, middle.ID), errSaveFailed)
	assert.ErrorIs(t, s.RemoveHotel(ctx, b.ID), errSaveFailed)
	st.fail = false

	wantTires := []model.Tire{first, middle, last}
	wantHotel := []string{a.ID, b.ID, c.ID}
	assert.Equal(t, wantTires, s.Tires(model.TireQuery{}))
	assert.Equal(t, wantHotel, hotelIDs(s.HotelEntries(model.HotelFilter{})))

	// The next successful save writes the in-memory order back.
	_, err = s.UpdateTire(ctx, first.ID, model.TireUpdate{})
	require.NoError(t, err)
	_, err = s.UpdateHotel(ctx, a.ID, model.HotelUpdate{})
	require.NoError(t, err)

	reopened := openSession(t, st)
	assert.Equal(t, []string{first.ID, middle.ID, last.ID}, tireIDs(reopened.Tires(model.TireQuery{})))
	assert.Equal(t, wantHotel, hotelIDs(reopened.HotelEntries(model.HotelFilter{})))
}

func tireIDs(tires []model.Tire) []string {
	ids := make([]string, 0, len(tires))
	for _, t := range tires {
		ids = append(ids, t.ID)
	}
	return ids
}

func hotelIDs(entries []model.HotelEntry) []string {
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.ID)
	}
	return ids
}

func TestHistoryByTire(t *testing.T) {
	ctx := context.Background()
	s := openSession(t, store.NewMemory())
	tire := addTire(t, s, 100, 10)
	other := addTire(t, s, 50, 10)

	_, err := s.RecordSale(ctx, model.SaleInput{TireID: tire.ID, Quantity: 2, UnitPrice: decimal.NewFromInt(130)})
	require.NoError(t, err)
	_, err = s.RecordSale(ctx, model.SaleInput{TireID: tire.ID, Quantity: 1, UnitPrice: decimal.NewFromInt(120)})
	require.NoError(t, err)
	_, err = s.RecordSale(ctx, model.SaleInput{TireID: other.ID, Quantity: 5, UnitPrice: decimal.NewFromInt(60)})
	require.NoError(t, err)
	_, err = s.RecordDelivery(ctx, model.DeliveryInput{TireID: tire.ID, Quantity: 6})
	require.NoError(t, err)

	sales, err := s.SalesByTire(tire.ID)
	require.NoError(t, err)
	assert.Equal(t, tire.ID, sales.Tire.ID)
	assert.Len(t, sales.Sales, 2)
	assert.Equal(t, 3, sales.Units)
	assert.True(t, sales.Revenue.Equal(decimal.NewFromInt(380)))
	assert.True(t, sales.Profit.Equal(decimal.NewFromInt(80)))

	deliveries, err := s.DeliveriesByTire(tire.ID)
	require.NoError(t, err)
	assert.Equal(t, 6, deliveries.Units)
	assert.Len(t, deliveries.Deliveries, 1)

	none, err := s.DeliveriesByTire(other.ID)
	require.NoError(t, err)
	assert.NotNil(t, none.Deliveries)
	assert.Empty(t, none.Deliveries)

	require.NoError(t, s.RemoveTire(ctx, tire.ID))
	sales, err = s.SalesByTire(tire.ID)
	require.NoError(t, err)
	assert.True(t, sales.Tire.Unknown)
	assert.Len(t, sales.Sales, 2)

	_, err = s.SalesByTire("missing")
	assert.ErrorIs(t, err, model.ErrNotFound)
	_, err = s.DeliveriesByTire("missing")
	assert.ErrorIs(t, err, model.ErrNotFound)
}
