package session

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/erazemk/lastik/internal/model"
)

// Summary is the shop overview.
type Summary struct {
	TireModels     int             `json:"tire_models"`
	TiresInStock   int             `json:"tires_in_stock"`
	StockValue     decimal.Decimal `json:"stock_value"`
	UnitsSold      int             `json:"units_sold"`
	Revenue        decimal.Decimal `json:"revenue"`
	Profit         decimal.Decimal `json:"profit"`
	UnitsDelivered int             `json:"units_delivered"`
	HotelStored    int             `json:"hotel_stored"`
	HotelExpired   int             `json:"hotel_expired"`
	HotelRetrieved int             `json:"hotel_retrieved"`
}

// Summary aggregates the catalog, both ledgers and the hotel at now.
func (s *Session) Summary(now time.Time) Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sum := Summary{
		StockValue: decimal.Zero,
		Revenue:    decimal.Zero,
		Profit:     decimal.Zero,
	}

	for _, t := range s.catalog.All() {
		sum.TireModels++
		sum.TiresInStock += t.Stock
		sum.StockValue = sum.StockValue.Add(t.Price.Mul(decimal.NewFromInt(int64(t.Stock))))
	}
	for _, sale := range s.sales.List() {
		sum.UnitsSold += sale.Quantity
		sum.Revenue = sum.Revenue.Add(sale.Revenue())
		sum.Profit = sum.Profit.Add(sale.Profit)
	}
	for _, d := range s.deliveries.List() {
		sum.UnitsDelivered += d.Quantity
	}
	for _, e := range s.hotel.All() {
		switch e.State(now) {
		case model.HotelStored:
			sum.HotelStored++
		case model.HotelExpired:
			sum.HotelExpired++
		case model.HotelRetrieved:
			sum.HotelRetrieved++
		}
	}
	return sum
}
