package model

import "time"

// HotelEntry is a customer-owned tire set placed into seasonal storage.
type HotelEntry struct {
	ID            string    `json:"id"`
	CustomerName  string    `json:"customer_name"`
	PlateNumber   string    `json:"plate_number"`
	Brand         string    `json:"brand"`
	Size          string    `json:"size"`
	Quantity      int       `json:"quantity"`
	StorageDate   time.Time `json:"storage_date,omitzero"`
	RetrievalDate time.Time `json:"retrieval_date,omitzero"`
	Retrieved     bool      `json:"retrieved"`
	Notes         string    `json:"notes,omitempty"`
}

// HotelState is the lifecycle state of a hotel entry. It is derived, never stored.
type HotelState string

// Hotel states.
const (
	HotelStored    HotelState = "stored"
	HotelExpired   HotelState = "expired"
	HotelRetrieved HotelState = "retrieved"
)

// State derives the lifecycle state of e at the given instant.
func (e HotelEntry) State(now time.Time) HotelState {
	switch {
	case e.Retrieved:
		return HotelRetrieved
	case !e.RetrievalDate.IsZero() && e.RetrievalDate.Before(now):
		return HotelExpired
	default:
		return HotelStored
	}
}

// ParseHotelState validates a state name.
func ParseHotelState(s string) (HotelState, error) {
	switch st := HotelState(s); st {
	case HotelStored, HotelExpired, HotelRetrieved:
		return st, nil
	}
	return "", Validationf("unknown hotel state %q", s)
}

// HotelInput holds the fields needed to check a tire set in.
type HotelInput struct {
	CustomerName  string    `json:"customer_name"`
	PlateNumber   string    `json:"plate_number"`
	Brand         string    `json:"brand"`
	Size          string    `json:"size"`
	Quantity      int       `json:"quantity"`
	StorageDate   time.Time `json:"storage_date,omitzero"`
	RetrievalDate time.Time `json:"retrieval_date,omitzero"`
	Notes         string    `json:"notes"`
}

// HotelUpdate holds editable hotel fields. Nil fields are left unchanged.
type HotelUpdate struct {
	CustomerName  *string    `json:"customer_name,omitempty"`
	PlateNumber   *string    `json:"plate_number,omitempty"`
	Brand         *string    `json:"brand,omitempty"`
	Size          *string    `json:"size,omitempty"`
	Quantity      *int       `json:"quantity,omitempty"`
	StorageDate   *time.Time `json:"storage_date,omitempty"`
	RetrievalDate *time.Time `json:"retrieval_date,omitempty"`
	Notes         *string    `json:"notes,omitempty"`
}

// HotelFilter narrows a hotel listing.
type HotelFilter struct {
	// Search matches customer, plate, brand, size or notes, case-insensitively.
	Search string
	// State, when set, keeps only entries in that state.
	State HotelState
}
