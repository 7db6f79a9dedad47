package session

import (
	"context"
	"fmt"
	"io"

	"github.com/erazemk/lastik/internal/model"
	"github.com/erazemk/lastik/internal/photo"
)

// PhotoKind names the owner of a photo.
type PhotoKind string

const (
	PhotoTire  PhotoKind = "tire"
	PhotoHotel PhotoKind = "hotel"
)

func photoKey(kind PhotoKind, id string) string {
	return string(kind) + "/" + id
}

// SetPhoto normalizes the image read from r and stores it for the tire or
// hotel entry id.
func (s *Session) SetPhoto(ctx context.Context, kind PhotoKind, id string, r io.Reader) (*photo.Photo, error) {
	if err := s.exists(kind, id); err != nil {
		return nil, err
	}

	p, err := photo.Normalize(r)
	if err != nil {
		return nil, model.Validationf("%v", err)
	}

	// Hold the write lock so a concurrent remove cannot orphan the blob.
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.existsLocked(kind, id); err != nil {
		return nil, err
	}
	if err := s.store.PutBlob(ctx, photoKey(kind, id), p.Data, p.MIME); err != nil {
		return nil, fmt.Errorf("storing photo: %w", err)
	}

	s.log.Info("photo stored", "kind", kind, "id", id, "bytes", len(p.Data), "width", p.Width, "height", p.Height)
	return p, nil
}

// Photo returns the stored photo and its MIME type.
func (s *Session) Photo(ctx context.Context, kind PhotoKind, id string) ([]byte, string, error) {
	if err := s.exists(kind, id); err != nil {
		return nil, "", err
	}
	data, mime, err := s.store.GetBlob(ctx, photoKey(kind, id))
	if err != nil {
		return nil, "", fmt.Errorf("loading photo: %w", err)
	}
	if data == nil {
		return nil, "", model.NotFoundf("no photo for %s %s", kind, id)
	}
	return data, mime, nil
}

func (s *Session) exists(kind PhotoKind, id string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.existsLocked(kind, id)
}

func (s *Session) existsLocked(kind PhotoKind, id string) error {
	switch kind {
	case PhotoTire:
		_, err := s.catalog.Get(id)
		return err
	case PhotoHotel:
		_, err := s.hotel.Get(id)
		return err
	}
	return model.Validationf("unknown photo kind %q", kind)
}

// dropPhoto removes a photo after its owner was deleted. Failures only leave
// an unreachable blob behind.
func (s *Session) dropPhoto(ctx context.Context, kind PhotoKind, id string) {
	if err := s.store.DeleteBlob(ctx, photoKey(kind, id)); err != nil {
		s.log.Warn("failed to delete photo", "kind", kind, "id", id, "error", err)
	}
}
