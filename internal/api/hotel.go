package api

import (
	"net/http"

	"github.com/erazemk/lastik/internal/model"
	"github.com/erazemk/lastik/internal/session"
)

// HotelHandler handles tire hotel endpoints.
type HotelHandler struct {
	Session *session.Session
}

// hotelEntryResponse adds the derived state to an entry.
type hotelEntryResponse struct {
	model.HotelEntry
	State model.HotelState `json:"state"`
}

func (h *HotelHandler) withState(entries []model.HotelEntry) []hotelEntryResponse {
	now := h.Session.Now()
	out := make([]hotelEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, hotelEntryResponse{HotelEntry: e, State: e.State(now)})
	}
	return out
}

// List handles GET /api/hotel?q=&state=.
func (h *HotelHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := model.HotelFilter{Search: q.Get("q")}
	if v := q.Get("state"); v != "" {
		state, err := model.ParseHotelState(v)
		if err != nil {
			domainError(w, r, err)
			return
		}
		filter.State = state
	}

	jsonResponse(w, http.StatusOK, h.withState(h.Session.HotelEntries(filter)))
}

// CheckIn handles POST /api/hotel.
func (h *HotelHandler) CheckIn(w http.ResponseWriter, r *http.Request) {
	var req model.HotelInput
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	e, err := h.Session.CheckIn(r.Context(), req)
	if err != nil {
		domainError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusCreated, h.withState([]model.HotelEntry{e})[0])
}

// Expired handles GET /api/hotel/expired?at=. The instant defaults to now and
// accepts RFC 3339 timestamps or plain dates.
func (h *HotelHandler) Expired(w http.ResponseWriter, r *http.Request) {
	at := h.Session.Now()
	if v := r.URL.Query().Get("at"); v != "" {
		t, err := model.ParseTime(v)
		if err != nil {
			jsonError(w, http.StatusBadRequest, err.Error())
			return
		}
		at = t
	}

	jsonResponse(w, http.StatusOK, nonNil(h.Session.Expired(at)))
}

// Get handles GET /api/hotel/{id}.
func (h *HotelHandler) Get(w http.ResponseWriter, r *http.Request) {
	e, err := h.Session.HotelEntry(r.PathValue("id"))
	if err != nil {
		domainError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, h.withState([]model.HotelEntry{e})[0])
}

// Update handles PUT /api/hotel/{id}.
func (h *HotelHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req model.HotelUpdate
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	e, err := h.Session.UpdateHotel(r.Context(), r.PathValue("id"), req)
	if err != nil {
		domainError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, h.withState([]model.HotelEntry{e})[0])
}

// CheckOut handles POST /api/hotel/{id}/checkout.
func (h *HotelHandler) CheckOut(w http.ResponseWriter, r *http.Request) {
	e, err := h.Session.CheckOut(r.Context(), r.PathValue("id"))
	if err != nil {
		domainError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, h.withState([]model.HotelEntry{e})[0])
}

// Delete handles DELETE /api/hotel/{id}.
func (h *HotelHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Session.RemoveHotel(r.Context(), r.PathValue("id")); err != nil {
		domainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
