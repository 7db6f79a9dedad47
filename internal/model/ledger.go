package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale is an immutable record of tires sold.
type Sale struct {
	ID        string          `json:"id"`
	TireID    string          `json:"tire_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Date      time.Time       `json:"date"`
	Profit    decimal.Decimal `json:"profit"`
}

// Revenue returns unit price times quantity.
func (s Sale) Revenue() decimal.Decimal {
	return s.UnitPrice.Mul(decimal.NewFromInt(int64(s.Quantity)))
}

// SaleInput holds the fields needed to record a sale.
type SaleInput struct {
	TireID    string          `json:"tire_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Date      time.Time       `json:"date,omitzero"`
}

// SaleLine is a sale joined with the tire it references.
type SaleLine struct {
	Sale
	Tire Tire `json:"tire"`
}

// Delivery is an immutable record of received stock.
type Delivery struct {
	ID       string    `json:"id"`
	TireID   string    `json:"tire_id"`
	Quantity int       `json:"quantity"`
	Date     time.Time `json:"date"`
}

// DeliveryInput holds the fields needed to record a delivery.
type DeliveryInput struct {
	TireID   string    `json:"tire_id"`
	Quantity int       `json:"quantity"`
	Date     time.Time `json:"date,omitzero"`
}

// InventoryRecord is the net delivered-minus-sold quantity of one tire.
type InventoryRecord struct {
	TireID   string `json:"tire_id"`
	Quantity int    `json:"quantity"`
}

// Drift describes a tire whose indexed quantity disagrees with a replay of the ledgers.
type Drift struct {
	TireID   string `json:"tire_id"`
	Indexed  int    `json:"indexed"`
	Replayed int    `json:"replayed"`
}

// TireSales is the sales history of one tire.
type TireSales struct {
	Tire    Tire            `json:"tire"`
	Sales   []Sale          `json:"sales"`
	Units   int             `json:"units"`
	Revenue decimal.Decimal `json:"revenue"`
	Profit  decimal.Decimal `json:"profit"`
}

// TireDeliveries is the delivery history of one tire.
type TireDeliveries struct {
	Tire       Tire       `json:"tire"`
	Deliveries []Delivery `json:"deliveries"`
	Units      int        `json:"units"`
}
