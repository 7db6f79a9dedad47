package session

import (
	"context"
	"time"

	"github.com/erazemk/lastik/internal/model"
	"github.com/erazemk/lastik/internal/store"
)

// CheckIn stores a customer's tires.
func (s *Session) CheckIn(ctx context.Context, in model.HotelInput) (model.HotelEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.hotel.CheckIn(in)
	if err != nil {
		return model.HotelEntry{}, err
	}
	undo := func() error {
		_, _, err := s.hotel.Remove(e.ID)
		return err
	}
	if err := s.commit(ctx, undo, store.Hotel); err != nil {
		return model.HotelEntry{}, err
	}

	s.log.Info("hotel check-in", "entry", e.ID, "plate", e.PlateNumber, "quantity", e.Quantity)
	return e, nil
}

// CheckOut hands stored tires back to the customer at the session clock's time.
func (s *Session) CheckOut(ctx context.Context, id string) (model.HotelEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, err := s.hotel.Get(id)
	if err != nil {
		return model.HotelEntry{}, err
	}
	e, err := s.hotel.CheckOut(id, s.now())
	if err != nil {
		return model.HotelEntry{}, err
	}
	undo := func() error {
		s.hotel.Replace(prev)
		return nil
	}
	if err := s.commit(ctx, undo, store.Hotel); err != nil {
		return model.HotelEntry{}, err
	}

	s.log.Info("hotel check-out", "entry", e.ID, "plate", e.PlateNumber)
	return e, nil
}

// UpdateHotel edits an entry that has not been retrieved.
func (s *Session) UpdateHotel(ctx context.Context, id string, u model.HotelUpdate) (model.HotelEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, err := s.hotel.Get(id)
	if err != nil {
		return model.HotelEntry{}, err
	}
	e, err := s.hotel.Update(id, u)
	if err != nil {
		return model.HotelEntry{}, err
	}
	undo := func() error {
		s.hotel.Replace(prev)
		return nil
	}
	if err := s.commit(ctx, undo, store.Hotel); err != nil {
		return model.HotelEntry{}, err
	}
	return e, nil
}

// RemoveHotel deletes an entry in any state together with its photo.
func (s *Session) RemoveHotel(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed, at, err := s.hotel.Remove(id)
	if err != nil {
		return err
	}
	undo := func() error {
		s.hotel.Restore(removed, at)
		return nil
	}
	if err := s.commit(ctx, undo, store.Hotel); err != nil {
		return err
	}

	s.dropPhoto(ctx, PhotoHotel, id)
	s.log.Info("hotel entry removed", "entry", id)
	return nil
}

// HotelEntry returns an entry by id.
func (s *Session) HotelEntry(id string) (model.HotelEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hotel.Get(id)
}

// HotelEntries lists entries matching f, evaluating states at the session clock.
func (s *Session) HotelEntries(f model.HotelFilter) []model.HotelEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hotel.List(f, s.now())
}

// Expired lists entries whose retrieval date passed before now.
func (s *Session) Expired(now time.Time) []model.HotelEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hotel.ListExpired(now)
}
