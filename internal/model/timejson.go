package model

import (
	"bytes"
	"encoding/json"
	"time"
)

// ParseTime accepts an RFC 3339 timestamp or a YYYY-MM-DD date, read as
// midnight UTC.
func ParseTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, Validationf("invalid time %q: want RFC 3339 or YYYY-MM-DD", s)
	}
	return t, nil
}

// inputTime decodes the date fields of request inputs. An empty string
// means no date.
type inputTime struct {
	time.Time
}

func (t *inputTime) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	parsed, err := ParseTime(s)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

func (t *inputTime) ptr() *time.Time {
	if t == nil {
		return nil
	}
	v := t.Time
	return &v
}

func decodeStrict(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// UnmarshalJSON accepts a timestamp or a plain date for date.
func (in *SaleInput) UnmarshalJSON(data []byte) error {
	type plain SaleInput
	aux := struct {
		*plain
		Date inputTime `json:"date"`
	}{plain: (*plain)(in)}
	if err := decodeStrict(data, &aux); err != nil {
		return err
	}
	in.Date = aux.Date.Time
	return nil
}

// UnmarshalJSON accepts a timestamp or a plain date for date.
func (in *DeliveryInput) UnmarshalJSON(data []byte) error {
	type plain DeliveryInput
	aux := struct {
		*plain
		Date inputTime `json:"date"`
	}{plain: (*plain)(in)}
	if err := decodeStrict(data, &aux); err != nil {
		return err
	}
	in.Date = aux.Date.Time
	return nil
}

// UnmarshalJSON accepts timestamps or plain dates for both dates.
func (in *HotelInput) UnmarshalJSON(data []byte) error {
	type plain HotelInput
	aux := struct {
		*plain
		StorageDate   inputTime `json:"storage_date"`
		RetrievalDate inputTime `json:"retrieval_date"`
	}{plain: (*plain)(in)}
	if err := decodeStrict(data, &aux); err != nil {
		return err
	}
	in.StorageDate = aux.StorageDate.Time
	in.RetrievalDate = aux.RetrievalDate.Time
	return nil
}

// UnmarshalJSON accepts timestamps or plain dates. An empty string clears a date.
func (u *HotelUpdate) UnmarshalJSON(data []byte) error {
	type plain HotelUpdate
	aux := struct {
		*plain
		StorageDate   *inputTime `json:"storage_date"`
		RetrievalDate *inputTime `json:"retrieval_date"`
	}{plain: (*plain)(u)}
	if err := decodeStrict(data, &aux); err != nil {
		return err
	}
	u.StorageDate = aux.StorageDate.ptr()
	u.RetrievalDate = aux.RetrievalDate.ptr()
	return nil
}
