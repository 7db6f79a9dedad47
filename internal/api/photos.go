package api

import (
	"net/http"

	"github.com/erazemk/lastik/internal/photo"
	"github.com/erazemk/lastik/internal/session"
)

// PhotosHandler serves tire and hotel photos.
type PhotosHandler struct {
	Session *session.Session
}

type photoResponse struct {
	Width  int `json:"width"`
	Height int `json:"height"`
	Bytes  int `json:"bytes"`
}

// Upload handles PUT /api/{tires,hotel}/{id}/photo with a multipart "photo" file.
func (h *PhotosHandler) Upload(kind session.PhotoKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Multipart overhead on top of the image itself.
		r.Body = http.MaxBytesReader(w, r.Body, photo.MaxBytes+64<<10)

		if err := r.ParseMultipartForm(photo.MaxBytes); err != nil {
			jsonError(w, http.StatusBadRequest, "file too large or invalid multipart form")
			return
		}

		file, _, err := r.FormFile("photo")
		if err != nil {
			jsonError(w, http.StatusBadRequest, "photo file required")
			return
		}
		defer file.Close()

		p, err := h.Session.SetPhoto(r.Context(), kind, r.PathValue("id"), file)
		if err != nil {
			domainError(w, r, err)
			return
		}
		jsonResponse(w, http.StatusOK, photoResponse{Width: p.Width, Height: p.Height, Bytes: len(p.Data)})
	}
}

// Get handles GET /api/{tires,hotel}/{id}/photo.
func (h *PhotosHandler) Get(kind session.PhotoKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, mime, err := h.Session.Photo(r.Context(), kind, r.PathValue("id"))
		if err != nil {
			domainError(w, r, err)
			return
		}

		w.Header().Set("Content-Type", mime)
		w.Header().Set("Cache-Control", "private, max-age=300")
		w.Write(data)
	}
}
